package warrant

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"court-service/internal/domain/auth"
	"court-service/internal/domain/pagination"
	domain "court-service/internal/domain/warrant"
	"court-service/internal/usecase"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/metrics"
)

// Usecase implements warrant issuance, transfer and verification.
type Usecase struct {
	repo      Repository
	deliverer Deliverer
	queue     Queue
	key       []byte
	metrics   *metrics.Metrics
	log       *zap.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// New creates a warrant Usecase. key signs issued warrants.
func New(r Repository, d Deliverer, q Queue, key []byte, m *metrics.Metrics, log *zap.Logger) *Usecase {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Usecase{
		repo:      r,
		deliverer: d,
		queue:     q,
		key:       key,
		metrics:   m,
		log:       log,
		validate:  usecase.NewValidator(),
		now:       time.Now,
	}
}

// Types lists the warrant types.
func (uc *Usecase) Types() []domain.TypeSpec { return domain.Types() }

// Agencies lists the receiving agencies.
func (uc *Usecase) Agencies() []domain.Agency { return domain.Agencies() }

// Issue creates a signed warrant.
func (uc *Usecase) Issue(ctx context.Context, p auth.Principal, in IssueRequest) (*domain.Warrant, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	spec, ok := domain.LookupType(in.WarrantType)
	if !ok {
		return nil, apperrors.NewValidationError("warrant_type", fmt.Sprintf("unknown warrant type %q", in.WarrantType))
	}
	if missing := domain.MissingFields(spec, in.Details); len(missing) > 0 {
		return nil, apperrors.NewValidationError("details", "missing required fields: "+strings.Join(missing, ", "))
	}

	details := make(map[string]string, len(in.Details))
	for k, v := range in.Details {
		details[k] = strings.TrimSpace(v)
	}

	issued := uc.now().UTC().Truncate(time.Second)
	w := &domain.Warrant{
		ID:               uuid.NewString(),
		Type:             spec.ID,
		CaseID:           in.CaseID,
		Details:          details,
		Status:           domain.StatusIssued,
		IssuedBy:         p.UserID,
		IssuedAt:         issued,
		ExpiresAt:        issued.AddDate(0, 0, spec.ValidityDays),
		VerificationCode: domain.NewVerificationCode(),
		Transfers:        []domain.Transfer{},
	}
	sig, err := domain.Sign(uc.key, w)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign warrant", err)
	}
	w.Signature = sig

	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	uc.metrics.WarrantEvents.WithLabelValues("issued").Inc()
	uc.log.Info("warrant issued", zap.String("warrant_id", w.ID), zap.String("type", w.Type), zap.Int64("user_id", p.UserID))
	return w, nil
}

// Get returns a warrant with its effective status.
func (uc *Usecase) Get(ctx context.Context, id string) (*domain.Warrant, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Status = w.EffectiveStatus(uc.now())
	return w, nil
}

// List returns a page of warrants with their effective status.
func (uc *Usecase) List(ctx context.Context, in ListRequest) (*ListResponse, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(in.Status)))
	switch status {
	case "", domain.StatusIssued, domain.StatusTransferred, domain.StatusRevoked, domain.StatusExpired:
	default:
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown warrant status %q", in.Status))
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ != "" {
		if _, ok := domain.LookupType(typ); !ok {
			return nil, apperrors.NewValidationError("warrant_type", fmt.Sprintf("unknown warrant type %q", in.Type))
		}
	}

	page, limit := pagination.Normalize(in.Page, in.Limit)
	now := uc.now()
	warrants, total, err := uc.repo.List(ctx, domain.Filter{
		Status: status,
		Type:   typ,
		CaseID: in.CaseID,
		Now:    now,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	for i := range warrants {
		warrants[i].Status = warrants[i].EffectiveStatus(now)
	}
	return &ListResponse{Warrants: warrants, Pagination: pagination.New(total, page, limit)}, nil
}

// Status returns the effective status and transfers of a warrant.
func (uc *Usecase) Status(ctx context.Context, id string) (*StatusResponse, error) {
	w, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{
		WarrantID: w.ID,
		Status:    w.Status,
		IssuedAt:  w.IssuedAt,
		ExpiresAt: w.ExpiresAt,
		Transfers: w.Transfers,
	}, nil
}

// Transfer records a transfer to an agency and queues its delivery.
func (uc *Usecase) Transfer(ctx context.Context, p auth.Principal, id string, in TransferRequest) (*domain.Transfer, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	agency, ok := domain.LookupAgency(strings.ToLower(in.AgencyID))
	if !ok {
		return nil, apperrors.NewValidationError("agency_id", fmt.Sprintf("unknown agency %q", in.AgencyID))
	}

	w, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !agency.Handles(w.Type) {
		return nil, apperrors.NewValidationError("agency_id", fmt.Sprintf("%s does not handle %s warrants", agency.Name, w.Type))
	}
	switch w.Status {
	case domain.StatusRevoked, domain.StatusExpired:
		return nil, apperrors.With(apperrors.ErrConflict, "warrant is %s and cannot be transferred", w.Status)
	}

	t := &domain.Transfer{
		ID:          uuid.NewString(),
		WarrantID:   w.ID,
		AgencyID:    agency.ID,
		AgencyName:  agency.Name,
		Status:      domain.TransferPending,
		Notes:       strings.TrimSpace(in.Notes),
		RequestedBy: p.UserID,
		RequestedAt: uc.now().UTC(),
	}
	if err := uc.repo.AddTransfer(ctx, t); err != nil {
		return nil, err
	}

	if err := uc.queue.EnqueueDelivery(ctx, t.ID); err != nil {
		uc.log.Error("failed to enqueue warrant delivery", zap.String("transfer_id", t.ID), zap.Error(err))
		t.Status = domain.TransferFailed
		t.Error = "delivery could not be scheduled"
		if uerr := uc.repo.UpdateTransfer(ctx, t); uerr != nil {
			uc.log.Error("failed to mark transfer failed", zap.String("transfer_id", t.ID), zap.Error(uerr))
		}
		return nil, apperrors.NewInternalError("failed to schedule warrant delivery", err)
	}
	// The warrant only counts as transferred once its delivery is scheduled.
	if err := uc.repo.MarkTransferred(ctx, w.ID); err != nil {
		uc.log.Warn("warrant not marked transferred", zap.String("warrant_id", w.ID), zap.Error(err))
	}

	uc.metrics.WarrantEvents.WithLabelValues("transferred").Inc()
	uc.log.Info("warrant transfer requested",
		zap.String("warrant_id", w.ID),
		zap.String("agency", agency.ID),
		zap.String("transfer_id", t.ID),
	)
	return t, nil
}

// Deliver runs the delivery of a pending transfer. On finalAttempt a failure marks
// the transfer failed.
func (uc *Usecase) Deliver(ctx context.Context, transferID string, finalAttempt bool) error {
	t, err := uc.repo.GetTransfer(ctx, transferID)
	if err != nil {
		return err
	}
	if t.Status != domain.TransferPending {
		return nil
	}
	w, err := uc.repo.GetByID(ctx, t.WarrantID)
	if err != nil {
		return err
	}
	log := uc.log.With(zap.String("transfer_id", t.ID), zap.String("agency", t.AgencyID))

	if w.Status == domain.StatusRevoked {
		t.Status = domain.TransferFailed
		t.Error = "warrant was revoked before delivery"
		uc.metrics.WarrantEvents.WithLabelValues("delivery_failed").Inc()
		return uc.repo.UpdateTransfer(ctx, t)
	}

	ref, err := uc.deliverer.Deliver(ctx, w, t)
	if err != nil {
		log.Warn("warrant delivery failed", zap.Bool("final", finalAttempt), zap.Error(err))
		if finalAttempt {
			t.Status = domain.TransferFailed
			t.Error = err.Error()
			if uerr := uc.repo.UpdateTransfer(ctx, t); uerr != nil {
				log.Error("failed to mark transfer failed", zap.Error(uerr))
			}
			uc.metrics.WarrantEvents.WithLabelValues("delivery_failed").Inc()
		}
		return err
	}

	delivered := uc.now().UTC()
	t.Status = domain.TransferDelivered
	t.Reference = ref
	t.Error = ""
	t.DeliveredAt = &delivered
	if err := uc.repo.UpdateTransfer(ctx, t); err != nil {
		return err
	}

	uc.metrics.WarrantEvents.WithLabelValues("delivered").Inc()
	log.Info("warrant delivered", zap.String("reference", ref))
	return nil
}

// Revoke revokes a warrant.
func (uc *Usecase) Revoke(ctx context.Context, p auth.Principal, id string, in RevokeRequest) (*domain.Warrant, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status == domain.StatusRevoked {
		return nil, apperrors.With(apperrors.ErrConflict, "warrant is already revoked")
	}

	revoked := uc.now().UTC()
	w.Status = domain.StatusRevoked
	w.RevokedAt = &revoked
	w.RevokedBy = &p.UserID
	w.RevocationReason = in.Reason
	if err := uc.repo.UpdateStatus(ctx, w); err != nil {
		return nil, err
	}

	uc.metrics.WarrantEvents.WithLabelValues("revoked").Inc()
	uc.log.Info("warrant revoked", zap.String("warrant_id", id), zap.Int64("user_id", p.UserID))
	return w, nil
}

// Verify checks a verification code against a warrant.
func (uc *Usecase) Verify(ctx context.Context, id string, in VerifyRequest) (*VerifyResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	w, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &VerifyResponse{WarrantID: w.ID, Status: w.Status, ExpiresAt: w.ExpiresAt}
	code := strings.ToUpper(strings.TrimSpace(in.VerificationCode))
	switch {
	case subtle.ConstantTimeCompare([]byte(code), []byte(w.VerificationCode)) != 1:
		res.Reason = "invalid verification code"
	case !domain.VerifySignature(uc.key, w):
		res.Reason = "warrant signature does not match"
	case w.Status == domain.StatusRevoked:
		res.Reason = "warrant has been revoked"
	case w.Status == domain.StatusExpired:
		res.Reason = "warrant has expired"
	default:
		res.Valid = true
	}
	return res, nil
}
