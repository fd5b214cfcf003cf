package cached

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"court-service/internal/adapter/cache"
	domain "court-service/internal/domain/casefile"
	"court-service/internal/usecase/casefile"
)

// CaseRepository implements casefile.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CaseRepository struct {
	dbRepo casefile.Repository
	cache  cache.CaseCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCaseRepository creates a new instance of CaseRepository.
func NewCaseRepository(dbRepo casefile.Repository, cache cache.CaseCache, log *zap.Logger) casefile.Repository {
	return &CaseRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	return r.dbRepo.Create(ctx, c)
}

// GetByID retrieves a case by ID using Cache-Aside pattern.
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*domain.Case, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("case:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Another request may have populated the cache while we waited
		if r.cache != nil {
			cached, err := r.cache.Get(ctx, id)
			if err == nil && cached != nil {
				return cached, nil
			}
		}

		c, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, c); err != nil {
				r.log.Warn("failed to cache case", zap.Int64("id", id), zap.Error(err))
			}
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	return detach(result.(*domain.Case)), nil
}

// detach copies src deeply enough that callers sharing a single-flight result
// can mutate their case without touching each other's slices.
func detach(src *domain.Case) *domain.Case {
	c := *src
	c.Charges = slices.Clone(src.Charges)
	c.Keywords = slices.Clone(src.Keywords)
	if src.JudgeID != nil {
		id := *src.JudgeID
		c.JudgeID = &id
	}
	return &c
}

// GetByNumber delegates to the DB repository.
func (r *CaseRepository) GetByNumber(ctx context.Context, number string) (*domain.Case, error) {
	return r.dbRepo.GetByNumber(ctx, number)
}

// Update updates the case in DB and invalidates the cache.
func (r *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	if err := r.dbRepo.Update(ctx, c); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, c.ID); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.Int64("id", c.ID), zap.Error(err))
		}
	}
	return nil
}

// List delegates to the DB repository.
func (r *CaseRepository) List(ctx context.Context, f domain.Filter) ([]domain.Case, int64, error) {
	return r.dbRepo.List(ctx, f)
}

// AddDocument delegates to the DB repository.
func (r *CaseRepository) AddDocument(ctx context.Context, d *domain.Document) error {
	return r.dbRepo.AddDocument(ctx, d)
}

// ListDocuments delegates to the DB repository.
func (r *CaseRepository) ListDocuments(ctx context.Context, caseID int64) ([]domain.Document, error) {
	return r.dbRepo.ListDocuments(ctx, caseID)
}
