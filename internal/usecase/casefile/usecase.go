package casefile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"court-service/internal/adapter/storage"
	"court-service/internal/domain/auth"
	domain "court-service/internal/domain/casefile"
	"court-service/internal/domain/pagination"
	"court-service/internal/usecase"
	apperrors "court-service/pkg/errors"
)

// Usecase implements case management.
type Usecase struct {
	repo          Repository
	files         FileStore
	maxUploadSize int64
	log           *zap.Logger
	validate      *validator.Validate
	now           func() time.Time
}

// New creates a new case Usecase.
func New(r Repository, files FileStore, maxUploadSize int64, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:          r,
		files:         files,
		maxUploadSize: maxUploadSize,
		log:           log,
		validate:      usecase.NewValidator(),
		now:           time.Now,
	}
}

// CreateCase files a new case after checking the case number is unused.
func (uc *Usecase) CreateCase(ctx context.Context, p auth.Principal, in CreateCaseRequest) (*domain.Case, error) {
	uc.log.Info("creating case", zap.String("case_number", in.CaseNumber), zap.Int64("user_id", p.UserID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}
	if !domain.ValidType(in.CaseType) {
		return nil, apperrors.NewValidationError("case_type", fmt.Sprintf("unknown case type %q", in.CaseType))
	}

	existing, err := uc.repo.GetByNumber(ctx, in.CaseNumber)
	if err != nil {
		uc.log.Error("failed to check existing case number", zap.String("case_number", in.CaseNumber), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate case number uniqueness", err)
	}
	if existing != nil {
		return nil, apperrors.NewAlreadyExistsError("case", fmt.Sprintf("case number %s already exists", in.CaseNumber))
	}

	filed := uc.now().UTC()
	if in.FilingDate != nil {
		filed = in.FilingDate.UTC()
	}

	c := &domain.Case{
		CaseNumber: strings.TrimSpace(in.CaseNumber),
		Title:      strings.TrimSpace(in.Title),
		Type:       domain.Type(in.CaseType),
		Status:     domain.StatusFiled,
		Court:      in.Court,
		JudgeID:    in.JudgeID,
		Plaintiff:  in.Plaintiff,
		Defendant:  in.Defendant,
		Charges:    nonNil(in.Charges),
		Facts:      in.Facts,
		Keywords:   nonNil(in.Keywords),
		FilingDate: filed,
		CreatedBy:  p.UserID,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		uc.log.Error("failed to create case", zap.Error(err))
		return nil, err
	}
	return c, nil
}

// GetCase retrieves a case by ID.
func (uc *Usecase) GetCase(ctx context.Context, id int64) (*domain.Case, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid case id")
	}
	return uc.repo.GetByID(ctx, id)
}

// UpdateCase applies a partial update.
func (uc *Usecase) UpdateCase(ctx context.Context, id int64, in UpdateCaseRequest) (*domain.Case, error) {
	uc.log.Info("updating case", zap.Int64("id", id))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}
	if in.CaseType != nil && !domain.ValidType(*in.CaseType) {
		return nil, apperrors.NewValidationError("case_type", fmt.Sprintf("unknown case type %q", *in.CaseType))
	}
	if in.Status != nil && !domain.ValidStatus(*in.Status) {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *in.Status))
	}

	c, err := uc.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.CaseType != nil {
		c.Type = domain.Type(*in.CaseType)
	}
	if in.Status != nil {
		c.Status = domain.Status(*in.Status)
	}
	if in.Court != nil {
		c.Court = *in.Court
	}
	if in.JudgeID != nil {
		c.JudgeID = in.JudgeID
	}
	if in.Plaintiff != nil {
		c.Plaintiff = *in.Plaintiff
	}
	if in.Defendant != nil {
		c.Defendant = *in.Defendant
	}
	if in.Charges != nil {
		c.Charges = in.Charges
	}
	if in.Facts != nil {
		c.Facts = *in.Facts
	}
	if in.Keywords != nil {
		c.Keywords = in.Keywords
	}
	if in.FilingDate != nil {
		c.FilingDate = in.FilingDate.UTC()
	}

	if err := uc.repo.Update(ctx, c); err != nil {
		uc.log.Error("failed to update case", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	c.UpdatedAt = uc.now().UTC()
	return c, nil
}

// ListCases searches cases with pagination.
func (uc *Usecase) ListCases(ctx context.Context, in ListCasesRequest) (*ListCasesResponse, error) {
	in.Page, in.Limit = pagination.Normalize(in.Page, in.Limit)
	if in.Status != "" && !domain.ValidStatus(in.Status) {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", in.Status))
	}
	if in.CaseType != "" && !domain.ValidType(in.CaseType) {
		return nil, apperrors.NewValidationError("case_type", fmt.Sprintf("unknown case type %q", in.CaseType))
	}

	cases, total, err := uc.repo.List(ctx, domain.Filter{
		Query:  in.Query,
		Status: in.Status,
		Type:   in.CaseType,
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			uc.log.Warn("invalid search query in usecase", zap.String("query", in.Query), zap.Error(err))
		} else {
			uc.log.Error("failed to list cases", zap.Int64("page", in.Page), zap.Int64("limit", in.Limit), zap.Error(err))
		}
		return nil, err
	}

	return &ListCasesResponse{
		Cases:      cases,
		Pagination: pagination.New(total, in.Page, in.Limit),
	}, nil
}

// UploadDocument stores a file and attaches it to its case.
func (uc *Usecase) UploadDocument(ctx context.Context, in UploadDocumentRequest) (*domain.Document, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	if _, err := uc.GetCase(ctx, in.CaseID); err != nil {
		return nil, err
	}

	obj, err := uc.files.Save(ctx, fmt.Sprintf("cases/%d", in.CaseID), in.FileName, in.Body, uc.maxUploadSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperrors.NewValidationError("file", "file too large")
		}
		uc.log.Error("failed to store document", zap.Int64("case_id", in.CaseID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to store document", err)
	}

	doc := &domain.Document{
		ID:           uuid.NewString(),
		CaseID:       in.CaseID,
		Title:        in.Title,
		DocumentType: in.DocumentType,
		FileName:     in.FileName,
		ContentType:  in.ContentType,
		Size:         obj.Size,
		Checksum:     obj.Checksum,
		StoragePath:  obj.Path,
		UploadedBy:   in.UploadedBy,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.repo.AddDocument(ctx, doc); err != nil {
		if rmErr := uc.files.Remove(obj.Path); rmErr != nil {
			uc.log.Warn("failed to remove orphaned upload", zap.String("path", obj.Path), zap.Error(rmErr))
		}
		return nil, err
	}

	uc.log.Info("document uploaded", zap.Int64("case_id", in.CaseID), zap.String("document_id", doc.ID), zap.Int64("size", doc.Size))
	return doc, nil
}

// ListDocuments returns the documents of an existing case.
func (uc *Usecase) ListDocuments(ctx context.Context, caseID int64) ([]domain.Document, error) {
	if _, err := uc.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return uc.repo.ListDocuments(ctx, caseID)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
