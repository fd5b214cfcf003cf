package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// WithSignal returns a context that is canceled on SIGINT or SIGTERM so the
// servers and job workers can drain open hearings and transcription streams.
// A second signal while draining exits the process.
func WithSignal(ctx context.Context, log *zap.Logger) (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, shutdownSignals...)

	ctx, cancel := watchSignals(ctx, log, sigCh, func() { os.Exit(1) })
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func watchSignals(ctx context.Context, log *zap.Logger, sigCh <-chan os.Signal, exit func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case sig := <-sigCh:
			log.Info("shutdown signal received, draining court-service",
				zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
			return
		}

		// Draining is bounded by the server shutdown timeout; a second signal
		// abandons it.
		if sig, ok := <-sigCh; ok {
			log.Warn("second shutdown signal, abandoning drain",
				zap.String("signal", sig.String()))
			exit()
		}
	}()
	return ctx, cancel
}
