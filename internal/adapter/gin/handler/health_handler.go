package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ServiceInfo identifies the running build in health responses.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks"`
	Timestamp   time.Time         `json:"timestamp"`
}

// HealthHandler reports the state of the service dependencies.
type HealthHandler struct {
	checks map[string]Pinger
	info   ServiceInfo
	log    *zap.Logger
}

// NewHealthHandler creates a HealthHandler probing checks by name.
func NewHealthHandler(checks map[string]Pinger, info ServiceInfo, log *zap.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, info: info, log: log}
}

// Check probes every dependency and reports whether all are healthy.
func (h *HealthHandler) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "unavailable"
			healthy = false
			continue
		}
		results[name] = "ok"
	}
	return results, healthy
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	checks, healthy := h.Check(c.Request.Context())

	resp := HealthResponse{
		Status:      "healthy",
		Service:     h.info.Name,
		Version:     h.info.Version,
		Environment: h.info.Environment,
		Checks:      checks,
		Timestamp:   time.Now().UTC(),
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
