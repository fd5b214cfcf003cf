package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginrouter "court-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server. There is no
// WriteTimeout because transcript streams are long-lived websockets.
func SetupGinServer(handlers ginrouter.Handlers, opts ginrouter.Options, ginAddr string, l *zap.Logger) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(handlers, opts, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr), zap.String("base_path", opts.BasePath))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}
