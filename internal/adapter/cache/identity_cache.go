package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"court-service/internal/domain/identity"
	"court-service/pkg/metrics"
	"court-service/pkg/security"
)

// IdentityCache keeps positive NIN verifications.
type IdentityCache interface {
	Get(ctx context.Context, nin string) (*identity.NINResult, error)
	Set(ctx context.Context, nin string, res *identity.NINResult) error
}

// RedisIdentityCache implements IdentityCache on Redis.
type RedisIdentityCache struct {
	client  *redis.Client
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewRedisIdentityCache creates a Redis-backed identity cache. m may be nil.
func NewRedisIdentityCache(client *redis.Client, ttl time.Duration, log *zap.Logger, m *metrics.Metrics) IdentityCache {
	return &RedisIdentityCache{client: client, ttl: ttl, log: log, metrics: m}
}

func ninKey(nin string) string { return "identity:nin:" + nin }

// Get returns the cached result for nin, or nil on a miss.
func (c *RedisIdentityCache) Get(ctx context.Context, nin string) (*identity.NINResult, error) {
	data, err := c.client.Get(ctx, ninKey(nin)).Bytes()
	if errors.Is(err, redis.Nil) {
		observe(c.metrics, "identity", "miss")
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get identity from cache", zap.String("nin", security.Mask(nin, 4)), zap.Error(err))
		observe(c.metrics, "identity", "error")
		return nil, err
	}

	var res identity.NINResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	observe(c.metrics, "identity", "hit")
	return &res, nil
}

// Set caches res for the configured TTL.
func (c *RedisIdentityCache) Set(ctx context.Context, nin string, res *identity.NINResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, ninKey(nin), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to cache identity", zap.String("nin", security.Mask(nin, 4)), zap.Error(err))
		return err
	}
	return nil
}
