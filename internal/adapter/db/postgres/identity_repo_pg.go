package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"court-service/internal/domain/identity"
	"court-service/pkg/security"
)

// IdentityRepoPG reads the registry mirror and writes the verification audit trail.
type IdentityRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewIdentityRepoPG creates a new instance of IdentityRepoPG.
func NewIdentityRepoPG(db *gorm.DB, log *zap.Logger) *IdentityRepoPG {
	return &IdentityRepoPG{db: db, log: log}
}

// FindRecord looks up a NIN in the registry mirror. It returns nil, nil when absent.
func (r *IdentityRepoPG) FindRecord(ctx context.Context, nin string) (*identity.Record, error) {
	var m IdentityRecordSchema
	if err := r.db.WithContext(ctx).Where("nin = ?", nin).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to look up identity record", zap.Error(err), zap.String("nin", security.Mask(nin, 4)))
		return nil, fmt.Errorf("failed to look up identity record: %w", err)
	}
	return &identity.Record{
		NIN:         m.NIN,
		FirstName:   m.FirstName,
		MiddleName:  m.MiddleName,
		LastName:    m.LastName,
		DateOfBirth: m.DateOfBirth,
		Gender:      m.Gender,
		Phone:       m.Phone,
		State:       m.State,
		Address:     m.Address,
		PhotoURL:    m.PhotoURL,
		Active:      m.Active,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// FindOfficial looks up a court official. It returns nil, nil when absent.
func (r *IdentityRepoPG) FindOfficial(ctx context.Context, officialID string) (*identity.Official, error) {
	var m CourtOfficialSchema
	if err := r.db.WithContext(ctx).Where("official_id = ?", officialID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to look up court official", zap.Error(err), zap.String("official_id", officialID))
		return nil, fmt.Errorf("failed to look up court official: %w", err)
	}
	return &identity.Official{
		OfficialID: m.OfficialID,
		FullName:   m.FullName,
		Role:       m.Role,
		Court:      m.Court,
		Active:     m.Active,
	}, nil
}

// SaveAudit appends an entry to the verification audit trail.
func (r *IdentityRepoPG) SaveAudit(ctx context.Context, a *identity.Audit) error {
	model := VerificationAuditSchema{
		Kind:        a.Kind,
		Subject:     a.Subject,
		Verified:    a.Verified,
		Reason:      a.Reason,
		RequestedBy: a.RequestedBy,
		CreatedAt:   a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to save verification audit", zap.Error(err), zap.String("kind", a.Kind))
		return translate(err, "verification audit")
	}
	a.ID = model.ID
	return nil
}
