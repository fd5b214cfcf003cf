package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"court-service/internal/domain/casefile"
	"court-service/internal/domain/pagination"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/security"
)

// CaseRepoPG stores case files and their documents.
type CaseRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCaseRepoPG creates a new instance of CaseRepoPG.
func NewCaseRepoPG(db *gorm.DB, log *zap.Logger) *CaseRepoPG {
	return &CaseRepoPG{db: db, log: log}
}

// Create inserts c and fills in its generated fields.
func (r *CaseRepoPG) Create(ctx context.Context, c *casefile.Case) error {
	if c == nil {
		return errors.New("case cannot be nil")
	}

	model := caseToSchema(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create case in db", zap.Error(err), zap.String("case_number", c.CaseNumber))
		return translate(err, "case")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	r.log.Info("case created in db", zap.Int64("id", model.ID), zap.String("case_number", c.CaseNumber))
	return nil
}

// GetByID retrieves a case by ID.
func (r *CaseRepoPG) GetByID(ctx context.Context, id int64) (*casefile.Case, error) {
	var model CaseSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get case from db", zap.Error(err), zap.Int64("id", id))
		}
		return nil, translate(err, "case")
	}
	return caseFromSchema(model), nil
}

// GetByNumber retrieves a case by its case number. It returns nil, nil when absent.
func (r *CaseRepoPG) GetByNumber(ctx context.Context, number string) (*casefile.Case, error) {
	var model CaseSchema
	if err := r.db.WithContext(ctx).Where("case_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get case by number", zap.Error(err), zap.String("case_number", number))
		return nil, fmt.Errorf("failed to get case by number: %w", err)
	}
	return caseFromSchema(model), nil
}

// Update saves every mutable field of c.
func (r *CaseRepoPG) Update(ctx context.Context, c *casefile.Case) error {
	if c == nil {
		return errors.New("case cannot be nil")
	}

	model := caseToSchema(c)
	res := r.db.WithContext(ctx).Model(&CaseSchema{ID: c.ID}).
		Select("title", "case_type", "status", "court", "judge_id", "plaintiff", "defendant",
			"charges", "facts", "keywords", "filing_date", "updated_at").
		Updates(&model)
	if res.Error != nil {
		r.log.Error("failed to update case in db", zap.Error(res.Error), zap.Int64("id", c.ID))
		return translate(res.Error, "case")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("case", "")
	}

	r.log.Info("case updated in db", zap.Int64("id", c.ID))
	return nil
}

// List returns one page of cases matching f and the total number of matches.
func (r *CaseRepoPG) List(ctx context.Context, f casefile.Filter) ([]casefile.Case, int64, error) {
	query, err := security.ValidateSearchQuery(f.Query)
	if err != nil {
		r.log.Warn("rejected case search query", zap.Error(err))
		return nil, 0, apperrors.NewValidationError("query", "invalid search query: "+err.Error())
	}

	tx := r.db.WithContext(ctx).Model(&CaseSchema{})
	if query != "" {
		p := likePattern(query)
		tx = tx.Where("("+fmt.Sprintf(likeClause, "title")+" OR "+fmt.Sprintf(likeClause, "case_number")+
			" OR "+fmt.Sprintf(likeClause, "plaintiff")+" OR "+fmt.Sprintf(likeClause, "defendant")+")",
			p, p, p, p)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		tx = tx.Where("case_type = ?", f.Type)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count cases", zap.Error(err))
		return nil, 0, translate(err, "case")
	}

	page, limit := pagination.Normalize(f.Page, f.Limit)
	var models []CaseSchema
	if err := tx.Order("filing_date DESC, id DESC").
		Offset(pagination.Offset(page, limit)).Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list cases", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, translate(err, "case")
	}

	cases := make([]casefile.Case, len(models))
	for i, m := range models {
		cases[i] = *caseFromSchema(m)
	}
	return cases, total, nil
}

// AddDocument records a stored document against its case.
func (r *CaseRepoPG) AddDocument(ctx context.Context, d *casefile.Document) error {
	model := DocumentSchema{
		ID:           d.ID,
		CaseID:       d.CaseID,
		Title:        d.Title,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		Size:         d.Size,
		Checksum:     d.Checksum,
		StoragePath:  d.StoragePath,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to add document", zap.Error(err), zap.Int64("case_id", d.CaseID))
		return translate(err, "document")
	}
	d.CreatedAt = model.CreatedAt
	return nil
}

// ListDocuments returns the documents of a case, oldest first.
func (r *CaseRepoPG) ListDocuments(ctx context.Context, caseID int64) ([]casefile.Document, error) {
	var models []DocumentSchema
	if err := r.db.WithContext(ctx).Where("case_id = ?", caseID).Order("created_at ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list documents", zap.Error(err), zap.Int64("case_id", caseID))
		return nil, translate(err, "document")
	}

	docs := make([]casefile.Document, len(models))
	for i, m := range models {
		docs[i] = casefile.Document{
			ID:           m.ID,
			CaseID:       m.CaseID,
			Title:        m.Title,
			DocumentType: m.DocumentType,
			FileName:     m.FileName,
			ContentType:  m.ContentType,
			Size:         m.Size,
			Checksum:     m.Checksum,
			StoragePath:  m.StoragePath,
			UploadedBy:   m.UploadedBy,
			CreatedAt:    m.CreatedAt,
		}
	}
	return docs, nil
}

func caseToSchema(c *casefile.Case) CaseSchema {
	return CaseSchema{
		ID:         c.ID,
		CaseNumber: c.CaseNumber,
		Title:      c.Title,
		CaseType:   string(c.Type),
		Status:     string(c.Status),
		Court:      c.Court,
		JudgeID:    c.JudgeID,
		Plaintiff:  c.Plaintiff,
		Defendant:  c.Defendant,
		Charges:    c.Charges,
		Facts:      c.Facts,
		Keywords:   c.Keywords,
		FilingDate: c.FilingDate,
		CreatedBy:  c.CreatedBy,
	}
}

func caseFromSchema(m CaseSchema) *casefile.Case {
	return &casefile.Case{
		ID:         m.ID,
		CaseNumber: m.CaseNumber,
		Title:      m.Title,
		Type:       casefile.Type(m.CaseType),
		Status:     casefile.Status(m.Status),
		Court:      m.Court,
		JudgeID:    m.JudgeID,
		Plaintiff:  m.Plaintiff,
		Defendant:  m.Defendant,
		Charges:    m.Charges,
		Facts:      m.Facts,
		Keywords:   m.Keywords,
		FilingDate: m.FilingDate,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
