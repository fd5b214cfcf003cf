package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RevocationList tracks revoked token IDs until they would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// RedisRevocationList implements RevocationList with one expiring key per token.
type RedisRevocationList struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisRevocationList creates a Redis-backed revocation list.
func NewRedisRevocationList(client *redis.Client, log *zap.Logger) RevocationList {
	return &RedisRevocationList{client: client, log: log}
}

func revokedKey(jti string) string { return "auth:revoked:" + jti }

// Revoke blacklists jti for ttl. Already-expired tokens need no entry.
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(jti), "1", ttl).Err(); err != nil {
		r.log.Error("failed to revoke token", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeOnce revokes jti and reports whether this call did it. Of several
// concurrent callers exactly one sees true. Expired tokens are never claimed.
func (r *RedisRevocationList) RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	ok, err := r.client.SetNX(ctx, revokedKey(jti), "1", ttl).Result()
	if err != nil {
		r.log.Error("failed to revoke token", zap.String("jti", jti), zap.Error(err))
		return false, err
	}
	return ok, nil
}
