package identity

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"court-service/internal/adapter/cache"
	domain "court-service/internal/domain/identity"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/metrics"
	"court-service/pkg/security"
)

// Registry looks up the registry mirror and records the audit trail.
type Registry interface {
	FindRecord(ctx context.Context, nin string) (*domain.Record, error)
	FindOfficial(ctx context.Context, officialID string) (*domain.Official, error)
	SaveAudit(ctx context.Context, a *domain.Audit) error
}

// VerifyNINRequest is the payload of a NIN verification.
type VerifyNINRequest struct {
	NIN string `json:"nin"`
}

// VerifyOfficialRequest is the payload of a court official verification.
type VerifyOfficialRequest struct {
	OfficialID   string `json:"official_id"`
	ExpectedRole string `json:"expected_role,omitempty"`
}

// Usecase verifies identities against the registry mirror.
type Usecase struct {
	registry Registry
	cache    cache.IdentityCache
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

// New creates an identity Usecase. The cache may be nil.
func New(registry Registry, c cache.IdentityCache, m *metrics.Metrics, log *zap.Logger) *Usecase {
	return &Usecase{registry: registry, cache: c, metrics: m, log: log, now: time.Now}
}

// VerifyNIN checks a National Identification Number.
func (uc *Usecase) VerifyNIN(ctx context.Context, requestedBy int64, in VerifyNINRequest) (*domain.NINResult, error) {
	nin := strings.TrimSpace(in.NIN)
	if !domain.ValidNIN(nin) {
		return nil, apperrors.NewValidationError("nin", "NIN must be exactly 11 digits")
	}
	masked := security.Mask(nin, 4)

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, nin)
		if err != nil {
			uc.log.Warn("identity cache unavailable, querying registry", zap.Error(err))
		} else if cached != nil {
			cached.Cached = true
			uc.record(ctx, domain.KindNIN, masked, true, "cached", requestedBy)
			return cached, nil
		}
	}

	rec, err := uc.registry.FindRecord(ctx, nin)
	if err != nil {
		uc.log.Error("registry lookup failed", zap.String("nin", masked), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err, "identity registry unavailable")
	}

	res := &domain.NINResult{VerificationSource: domain.Source, VerifiedAt: uc.now().UTC()}
	switch {
	case rec == nil:
		res.Reason = "NIN not found in registry"
	case !rec.Active:
		res.Reason = "NIN record is inactive"
	default:
		res.Verified = true
		res.Person = rec
		res.VerificationID = domain.NewVerificationID()
	}

	uc.record(ctx, domain.KindNIN, masked, res.Verified, res.Reason, requestedBy)
	uc.log.Info("NIN verification", zap.String("nin", masked), zap.Bool("verified", res.Verified))

	if res.Verified && uc.cache != nil {
		if err := uc.cache.Set(ctx, nin, res); err != nil {
			uc.log.Warn("failed to cache verification", zap.String("nin", masked), zap.Error(err))
		}
	}
	return res, nil
}

// VerifyOfficial checks a court official and, optionally, their role.
func (uc *Usecase) VerifyOfficial(ctx context.Context, requestedBy int64, in VerifyOfficialRequest) (*domain.OfficialResult, error) {
	id := strings.TrimSpace(in.OfficialID)
	if id == "" {
		return nil, apperrors.NewValidationError("official_id", "official_id is required")
	}

	off, err := uc.registry.FindOfficial(ctx, id)
	if err != nil {
		uc.log.Error("official lookup failed", zap.String("official_id", id), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err, "official registry unavailable")
	}

	res := &domain.OfficialResult{VerifiedAt: uc.now().UTC()}
	switch {
	case off == nil:
		res.Reason = "official not found"
	case !off.Active:
		res.Reason = "official is not active"
	case in.ExpectedRole != "" && !strings.EqualFold(off.Role, in.ExpectedRole):
		res.Reason = "official is not authorized as " + in.ExpectedRole
	default:
		res.Verified = true
		res.Official = off
	}

	uc.record(ctx, domain.KindOfficial, id, res.Verified, res.Reason, requestedBy)
	return res, nil
}

func (uc *Usecase) record(ctx context.Context, kind, subject string, verified bool, reason string, by int64) {
	result := "rejected"
	if verified {
		result = "verified"
	}
	if uc.metrics != nil {
		uc.metrics.IdentityVerifications.WithLabelValues(kind, result).Inc()
	}

	err := uc.registry.SaveAudit(ctx, &domain.Audit{
		Kind:        kind,
		Subject:     subject,
		Verified:    verified,
		Reason:      reason,
		RequestedBy: by,
		CreatedAt:   uc.now().UTC(),
	})
	if err != nil {
		uc.log.Warn("failed to write verification audit", zap.String("kind", kind), zap.Error(err))
	}
}
