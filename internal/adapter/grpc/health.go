// Package grpc serves grpc.health.v1 for orchestrator probes, fed by the
// dependency checks behind the REST health endpoint.
package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultHealthInterval is how often dependency health is re-probed.
const DefaultHealthInterval = 10 * time.Second

// HealthChecker probes the service dependencies.
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// HealthServer mirrors dependency health into the grpc.health.v1 service. The
// overall status is registered under the empty service name and every
// dependency under its own name.
type HealthServer struct {
	*health.Server
	checker  HealthChecker
	interval time.Duration
	log      *zap.Logger
}

// NewHealthServer creates a HealthServer that starts NOT_SERVING until the
// first probe completes.
func NewHealthServer(checker HealthChecker, interval time.Duration, log *zap.Logger) *HealthServer {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	s := &HealthServer{Server: health.NewServer(), checker: checker, interval: interval, log: log}
	s.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Register attaches the health service to srv.
func (s *HealthServer) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.Server)
}

// Run probes dependencies until ctx is done, then marks every service NOT_SERVING
// so load balancers drain the instance during shutdown.
func (s *HealthServer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh runs one probe and publishes the result.
func (s *HealthServer) Refresh(ctx context.Context) {
	checks, healthy := s.checker.Check(ctx)
	for name, state := range checks {
		s.SetServingStatus(name, servingStatus(state == "ok"))
	}
	if !healthy {
		s.log.Warn("grpc health degraded", zap.Any("checks", checks))
	}
	s.SetServingStatus("", servingStatus(healthy))
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
