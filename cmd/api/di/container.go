package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"court-service/cmd/api/infrastructure"
	"court-service/internal/adapter/agency"
	"court-service/internal/adapter/cache"
	"court-service/internal/adapter/db/postgres"
	ginhandler "court-service/internal/adapter/gin/handler"
	ginrouter "court-service/internal/adapter/gin/router"
	grpcadapter "court-service/internal/adapter/grpc"
	"court-service/internal/adapter/grpc/middleware"
	"court-service/internal/adapter/queue"
	"court-service/internal/adapter/repository/cached"
	"court-service/internal/adapter/storage"
	"court-service/internal/adapter/stream"
	"court-service/internal/adapter/transcriber"
	"court-service/internal/config"
	"court-service/internal/usecase/anonymize"
	authuc "court-service/internal/usecase/auth"
	"court-service/internal/usecase/casefile"
	"court-service/internal/usecase/identity"
	"court-service/internal/usecase/judicial"
	"court-service/internal/usecase/transcription"
	"court-service/internal/usecase/user"
	"court-service/internal/usecase/virtualcourt"
	"court-service/internal/usecase/warrant"
	jwtauth "court-service/pkg/auth"
	"court-service/pkg/logger"
	"court-service/pkg/metrics"
	redisclient "court-service/pkg/redis"
)

const deliveryTimeout = 30 * time.Second

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Pool        *pgxpool.Pool
	RedisClient *redisclient.Client
	Metrics     *metrics.Metrics

	TranscriptionUC *transcription.Usecase
	WarrantUC       *warrant.Usecase

	RateLimiter  *middleware.RateLimiter
	Handlers     ginrouter.Handlers
	RouterOpts   ginrouter.Options
	HealthServer *grpcadapter.HealthServer

	workers *river.Client[pgx.Tx]
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	pool, err := infrastructure.NewPool(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize pgx pool: %w", err)
	}
	c.Pool = pool

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	c.Metrics = metrics.New(prometheus.DefaultRegisterer)

	// Cache layer
	caseCache := cache.NewRedisCaseCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l, c.Metrics)
	identityCache := cache.NewRedisIdentityCache(rdb.Client, cfg.Identity.CacheTTL, l, c.Metrics)
	revoked := cache.NewRedisRevocationList(rdb.Client, l)

	files, err := storage.NewLocal(cfg.Storage.UploadDir, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	jobs, err := queue.NewInsertOnly(pool, cfg.Worker.MaxAttempts, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize job queue: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepoPG(db, l)
	caseRepo := cached.NewCaseRepository(postgres.NewCaseRepoPG(db, l), caseCache, l)

	transcriptionRepo := postgres.NewTranscriptionRepoPG(db, l)

	hub := stream.NewHub(rdb.Client, l)

	// Use cases
	tokens := jwtauth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	authUC := authuc.New(userRepo, tokens, revoked, l)
	userUC := user.New(userRepo, l)
	caseUC := casefile.New(caseRepo, files, cfg.Storage.MaxUploadSize, l)
	c.TranscriptionUC = transcription.New(
		transcriptionRepo,
		newTranscriber(cfg, l),
		hub,
		jobs,
		files,
		transcription.Config{
			DefaultLanguage: cfg.Transcription.DefaultLanguage,
			MaxChunkSize:    cfg.Storage.MaxAudioChunkSize,
			MaxUploadSize:   cfg.Storage.MaxUploadSize,
		},
		c.Metrics,
		l,
	)
	c.WarrantUC = warrant.New(postgres.NewWarrantRepoPG(db, l), newDeliverer(cfg, l), jobs, []byte(cfg.Auth.SecretKey), c.Metrics, l)
	identityUC := identity.New(postgres.NewIdentityRepoPG(db, l), identityCache, c.Metrics, l)
	courtUC := virtualcourt.New(postgres.NewCourtSessionRepoPG(db, l), caseRepo, l)
	judicialUC := judicial.New(postgres.NewJudicialRepoPG(db, l), caseRepo, l)
	anonymizeUC := anonymize.New(transcriptionRepo, l)

	c.RateLimiter = middleware.NewRateLimiter(
		rdb.Client,
		middleware.RateLimiterConfig{
			RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
			BurstCapacity:     cfg.RateLimit.Burst,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	sqlDB, err := db.DB()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	health := ginhandler.NewHealthHandler(
		map[string]ginhandler.Pinger{
			"database": ginhandler.PingFunc(sqlDB.PingContext),
			"redis":    rdb,
			"queue":    ginhandler.PingFunc(pool.Ping),
		},
		ginhandler.ServiceInfo{
			Name:        cfg.Logger.ServiceName,
			Version:     cfg.Logger.ServiceVersion,
			Environment: cfg.Env,
		},
		l,
	)
	c.HealthServer = grpcadapter.NewHealthServer(health, grpcadapter.DefaultHealthInterval, l)

	transcriptionHandler := ginhandler.NewTranscriptionHandler(c.TranscriptionUC, hub, cfg.App.CORSOrigins, l).
		WithUploadLimits(cfg.Storage.MaxAudioChunkSize, cfg.Storage.MaxUploadSize)
	c.Handlers = ginrouter.Handlers{
		Auth:          ginhandler.NewAuthHandler(authUC, l),
		Transcription: transcriptionHandler,
		Identity:      ginhandler.NewIdentityHandler(identityUC, l),
		Cases:         ginhandler.NewCaseHandler(caseUC, l).WithMaxUpload(cfg.Storage.MaxUploadSize),
		Warrants:      ginhandler.NewWarrantHandler(c.WarrantUC, l),
		VirtualCourt:  ginhandler.NewVirtualCourtHandler(courtUC, l),
		Judicial:      ginhandler.NewJudicialHandler(judicialUC, l),
		Anonymize:     ginhandler.NewAnonymizeHandler(anonymizeUC, l),
		Health:        health,
		Users:         ginhandler.NewUserHandler(userUC, l),
	}
	c.RouterOpts = ginrouter.Options{
		BasePath:    cfg.App.BasePath,
		CORSOrigins: cfg.App.CORSOrigins,
		Features: ginrouter.Features{
			VirtualCourt:    cfg.Features.VirtualCourt,
			DecisionSupport: cfg.Features.DecisionSupport,
			WarrantTransfer: cfg.Features.WarrantTransfer,
		},
		Authenticator: authUC,
		RateLimiter:   c.RateLimiter,
		Metrics:       c.Metrics,
		Gatherer:      prometheus.DefaultGatherer,
		EnablePprof:   cfg.App.EnablePprof,
	}

	return c, nil
}

// newTranscriber returns nil when no provider is configured; live chunks and
// queued jobs then fail with 503.
func newTranscriber(cfg *config.Config, l *zap.Logger) transcription.Transcriber {
	if cfg.Transcription.ProviderURL == "" {
		l.Warn("no transcription provider configured")
		return nil
	}
	return transcriber.New(
		&http.Client{Timeout: cfg.Transcription.Timeout},
		cfg.Transcription.ProviderURL,
		cfg.Transcription.APIKey,
		cfg.Transcription.Model,
		l,
	)
}

func newDeliverer(cfg *config.Config, l *zap.Logger) warrant.Deliverer {
	if cfg.Warrant.DeliveryMode == "http" {
		return agency.NewHTTPDeliverer(&http.Client{Timeout: deliveryTimeout}, cfg.Warrant.AgencyEndpoints, l)
	}
	return agency.NewRecorder(l)
}

// StartWorkers starts the river client working transcription and delivery jobs.
func (c *Container) StartWorkers(ctx context.Context) error {
	client, err := queue.Start(ctx, c.Pool, queue.WorkerConfig{
		MaxWorkers:        c.Config.Worker.MaxWorkers,
		TranscribeTimeout: c.Config.Transcription.Timeout,
	}, c.TranscriptionUC, c.WarrantUC, logger.Slog(c.Logger, "river"))
	if err != nil {
		return err
	}
	c.workers = client
	c.Logger.Info("job workers started", zap.Int("max_workers", c.Config.Worker.MaxWorkers))
	return nil
}

// StopWorkers waits for running jobs to finish or ctx to expire.
func (c *Container) StopWorkers(ctx context.Context) error {
	if c.workers == nil {
		return nil
	}
	if err := c.workers.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop job workers: %w", err)
	}
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.Pool != nil {
		c.Pool.Close()
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
