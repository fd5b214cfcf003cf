package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"court-service/internal/domain/pagination"
	"court-service/internal/domain/warrant"
	apperrors "court-service/pkg/errors"
)

// WarrantRepoPG stores warrants and their transfers.
type WarrantRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewWarrantRepoPG creates a new instance of WarrantRepoPG.
func NewWarrantRepoPG(db *gorm.DB, log *zap.Logger) *WarrantRepoPG {
	return &WarrantRepoPG{db: db, log: log}
}

// Create inserts a warrant.
func (r *WarrantRepoPG) Create(ctx context.Context, w *warrant.Warrant) error {
	model := warrantToSchema(w)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		r.log.Error("failed to create warrant", zap.Error(err), zap.String("warrant_id", w.ID))
		return translate(err, "warrant")
	}
	r.log.Info("warrant created in db", zap.String("warrant_id", w.ID), zap.String("type", w.Type))
	return nil
}

// GetByID retrieves a warrant with its transfers in request order.
func (r *WarrantRepoPG) GetByID(ctx context.Context, id string) (*warrant.Warrant, error) {
	var m WarrantSchema
	err := r.db.WithContext(ctx).
		Preload("Transfers", func(db *gorm.DB) *gorm.DB { return db.Order("requested_at ASC") }).
		Where("id = ?", id).First(&m).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get warrant", zap.Error(err), zap.String("warrant_id", id))
		}
		return nil, translate(err, "warrant")
	}
	return warrantFromSchema(m), nil
}

// UpdateStatus persists the status and revocation fields of w.
func (r *WarrantRepoPG) UpdateStatus(ctx context.Context, w *warrant.Warrant) error {
	res := r.db.WithContext(ctx).Model(&WarrantSchema{ID: w.ID}).
		Select("status", "revoked_at", "revoked_by", "revocation_reason").
		Updates(&WarrantSchema{
			Status:           string(w.Status),
			RevokedAt:        w.RevokedAt,
			RevokedBy:        w.RevokedBy,
			RevocationReason: w.RevocationReason,
		})
	if res.Error != nil {
		r.log.Error("failed to update warrant", zap.Error(res.Error), zap.String("warrant_id", w.ID))
		return translate(res.Error, "warrant")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("warrant", "")
	}
	return nil
}

// List returns one page of warrants, newest first, without their transfers.
func (r *WarrantRepoPG) List(ctx context.Context, f warrant.Filter) ([]warrant.Warrant, int64, error) {
	tx := r.db.WithContext(ctx).Model(&WarrantSchema{})
	switch f.Status {
	case "":
	case warrant.StatusRevoked:
		tx = tx.Where("status = ?", string(warrant.StatusRevoked))
	case warrant.StatusExpired:
		tx = tx.Where("status <> ? AND expires_at <= ?", string(warrant.StatusRevoked), f.Now)
	default:
		tx = tx.Where("status = ? AND expires_at > ?", string(f.Status), f.Now)
	}
	if f.Type != "" {
		tx = tx.Where("warrant_type = ?", f.Type)
	}
	if f.CaseID > 0 {
		tx = tx.Where("case_id = ?", f.CaseID)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count warrants", zap.Error(err))
		return nil, 0, translate(err, "warrant")
	}

	page, limit := pagination.Normalize(f.Page, f.Limit)
	var models []WarrantSchema
	if err := tx.Order("issued_at DESC, id ASC").
		Offset(pagination.Offset(page, limit)).Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list warrants", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, translate(err, "warrant")
	}

	warrants := make([]warrant.Warrant, len(models))
	for i, m := range models {
		warrants[i] = *warrantFromSchema(m)
	}
	return warrants, total, nil
}

// AddTransfer records a pending transfer of a warrant that is not revoked. The
// warrant row is locked so a concurrent revocation is either seen or waits.
func (r *WarrantRepoPG) AddTransfer(ctx context.Context, t *warrant.Transfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w WarrantSchema
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "status").
			Where("id = ?", t.WarrantID).First(&w).Error; err != nil {
			return translate(err, "warrant")
		}
		if w.Status == string(warrant.StatusRevoked) {
			return apperrors.With(apperrors.ErrConflict, "warrant %s cannot be transferred", t.WarrantID)
		}

		model := transferToSchema(t)
		if err := tx.Create(&model).Error; err != nil {
			r.log.Error("failed to add warrant transfer", zap.Error(err), zap.String("warrant_id", t.WarrantID))
			return translate(err, "warrant transfer")
		}
		return nil
	})
}

// MarkTransferred moves a warrant that is not revoked to transferred.
func (r *WarrantRepoPG) MarkTransferred(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&WarrantSchema{}).
		Where("id = ? AND status <> ?", id, string(warrant.StatusRevoked)).
		Update("status", string(warrant.StatusTransferred))
	if res.Error != nil {
		r.log.Error("failed to mark warrant transferred", zap.Error(res.Error), zap.String("warrant_id", id))
		return translate(res.Error, "warrant")
	}
	if res.RowsAffected == 0 {
		return apperrors.With(apperrors.ErrConflict, "warrant %s cannot be transferred", id)
	}
	return nil
}

// GetTransfer retrieves a single transfer.
func (r *WarrantRepoPG) GetTransfer(ctx context.Context, id string) (*warrant.Transfer, error) {
	var m WarrantTransferSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "warrant transfer")
	}
	t := transferFromSchema(m)
	return &t, nil
}

// UpdateTransfer persists the delivery outcome of t.
func (r *WarrantRepoPG) UpdateTransfer(ctx context.Context, t *warrant.Transfer) error {
	res := r.db.WithContext(ctx).Model(&WarrantTransferSchema{ID: t.ID}).
		Select("status", "reference", "error", "delivered_at").
		Updates(&WarrantTransferSchema{
			Status:      string(t.Status),
			Reference:   t.Reference,
			Error:       t.Error,
			DeliveredAt: t.DeliveredAt,
		})
	if res.Error != nil {
		r.log.Error("failed to update warrant transfer", zap.Error(res.Error), zap.String("transfer_id", t.ID))
		return translate(res.Error, "warrant transfer")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("warrant transfer", "")
	}
	return nil
}

func warrantToSchema(w *warrant.Warrant) WarrantSchema {
	return WarrantSchema{
		ID:               w.ID,
		WarrantType:      w.Type,
		CaseID:           w.CaseID,
		Details:          w.Details,
		Status:           string(w.Status),
		IssuedBy:         w.IssuedBy,
		IssuedAt:         w.IssuedAt,
		ExpiresAt:        w.ExpiresAt,
		VerificationCode: w.VerificationCode,
		Signature:        w.Signature,
		RevokedAt:        w.RevokedAt,
		RevokedBy:        w.RevokedBy,
		RevocationReason: w.RevocationReason,
	}
}

func warrantFromSchema(m WarrantSchema) *warrant.Warrant {
	w := &warrant.Warrant{
		ID:               m.ID,
		Type:             m.WarrantType,
		CaseID:           m.CaseID,
		Details:          m.Details,
		Status:           warrant.Status(m.Status),
		IssuedBy:         m.IssuedBy,
		IssuedAt:         m.IssuedAt,
		ExpiresAt:        m.ExpiresAt,
		VerificationCode: m.VerificationCode,
		Signature:        m.Signature,
		RevokedAt:        m.RevokedAt,
		RevokedBy:        m.RevokedBy,
		RevocationReason: m.RevocationReason,
		Transfers:        make([]warrant.Transfer, 0, len(m.Transfers)),
	}
	for _, t := range m.Transfers {
		w.Transfers = append(w.Transfers, transferFromSchema(t))
	}
	return w
}

func transferToSchema(t *warrant.Transfer) WarrantTransferSchema {
	return WarrantTransferSchema{
		ID:          t.ID,
		WarrantID:   t.WarrantID,
		AgencyID:    t.AgencyID,
		AgencyName:  t.AgencyName,
		Status:      string(t.Status),
		Reference:   t.Reference,
		Notes:       t.Notes,
		Error:       t.Error,
		RequestedBy: t.RequestedBy,
		RequestedAt: t.RequestedAt,
		DeliveredAt: t.DeliveredAt,
	}
}

func transferFromSchema(m WarrantTransferSchema) warrant.Transfer {
	return warrant.Transfer{
		ID:          m.ID,
		WarrantID:   m.WarrantID,
		AgencyID:    m.AgencyID,
		AgencyName:  m.AgencyName,
		Status:      warrant.TransferStatus(m.Status),
		Reference:   m.Reference,
		Notes:       m.Notes,
		Error:       m.Error,
		RequestedBy: m.RequestedBy,
		RequestedAt: m.RequestedAt,
		DeliveredAt: m.DeliveredAt,
	}
}
