package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "court-service/internal/domain/casefile"
	"court-service/pkg/metrics"
)

// CaseCache defines the interface for case caching operations.
type CaseCache interface {
	// Get retrieves a case from cache by ID.
	// Returns nil if the case is not cached.
	Get(ctx context.Context, id int64) (*domain.Case, error)

	// Set stores a case in cache with the configured TTL.
	Set(ctx context.Context, c *domain.Case) error

	// Delete removes a case from cache by ID.
	Delete(ctx context.Context, id int64) error
}

// RedisCaseCache implements CaseCache using Redis as the backing store.
type RedisCaseCache struct {
	client  *redis.Client
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewRedisCaseCache creates a new Redis-backed case cache. m may be nil.
func NewRedisCaseCache(client *redis.Client, ttl time.Duration, log *zap.Logger, m *metrics.Metrics) CaseCache {
	return &RedisCaseCache{
		client:  client,
		ttl:     ttl,
		log:     log,
		metrics: m,
	}
}

func (c *RedisCaseCache) cacheKey(id int64) string {
	return fmt.Sprintf("case:%d", id)
}

// Get retrieves a case from Redis cache.
func (c *RedisCaseCache) Get(ctx context.Context, id int64) (*domain.Case, error) {
	data, err := c.client.Get(ctx, c.cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.Int64("case_id", id))
		observe(c.metrics, "case", "miss")
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("case_id", id), zap.Error(err))
		observe(c.metrics, "case", "error")
		return nil, err
	}

	var cs domain.Case
	if err := json.Unmarshal(data, &cs); err != nil {
		c.log.Error("failed to unmarshal cached case", zap.Int64("case_id", id), zap.Error(err))
		return nil, err
	}

	observe(c.metrics, "case", "hit")
	return &cs, nil
}

// Set stores a case in Redis cache with TTL.
func (c *RedisCaseCache) Set(ctx context.Context, cs *domain.Case) error {
	if cs == nil {
		return fmt.Errorf("cannot cache nil case")
	}

	data, err := json.Marshal(cs)
	if err != nil {
		c.log.Error("failed to marshal case for cache", zap.Int64("case_id", cs.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, c.cacheKey(cs.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.Int64("case_id", cs.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached case", zap.Int64("case_id", cs.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a case from Redis cache.
func (c *RedisCaseCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.cacheKey(id)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("case_id", id), zap.Error(err))
		return err
	}
	return nil
}

func observe(m *metrics.Metrics, cache, result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(cache, result).Inc()
	}
}
