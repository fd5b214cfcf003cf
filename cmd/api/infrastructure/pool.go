package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"court-service/internal/config"
)

// NewPool creates the pgx pool used by the job queue and migrations.
func NewPool(ctx context.Context, cfg *config.Config, l *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.URL())
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if cfg.DB.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.DB.MaxOpenConns) //nolint: gosec
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.DB.ConnMaxLifetime) * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not reach postgres: %w", err)
	}

	l.Info("pgx pool connected", zap.Int32("max_conns", poolCfg.MaxConns))
	return pool, nil
}
