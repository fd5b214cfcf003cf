package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpcadapter "court-service/internal/adapter/grpc"
	"court-service/internal/adapter/grpc/middleware"
	"court-service/pkg/logger"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(health *grpcadapter.HealthServer, rateLimiter *middleware.RateLimiter, l *zap.Logger) *grpc.Server {
	// Create gRPC server with request ID and rate limit interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	health.Register(grpcServer)

	l.Info("gRPC health service registered")
	return grpcServer
}
