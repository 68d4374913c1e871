package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/internal/app"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/pkg/config"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

const (
	statsInterval = time.Minute
	// maxOutboxLag marks the worker not ready once events wait this long.
	maxOutboxLag = 5 * time.Minute
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := observability.LoggerFromEnv()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFormat := observability.LogFormatText
	if cfg.IsProduction() {
		logFormat = observability.LogFormatJSON
	}
	logger = observability.NewLogger(observability.LogConfig{
		Level:          observability.LogLevel(cfg.LogLevel),
		Format:         logFormat,
		Output:         os.Stdout,
		ServiceName:    observability.ServiceName + "-worker",
		ServiceVersion: cli.Version,
	})
	logger.Info("starting atelier worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	health := container.HealthRegistry()

	// Outbox processor
	var processor *outbox.Processor
	if cfg.OutboxProcessorEnabled {
		processor, err = container.NewOutboxProcessor()
		if err != nil {
			logger.Error("failed to create outbox processor", "error", err)
			os.Exit(1)
		}
		if err := processor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
		health.Register("outbox", observability.PingChecker("outbox", true, processor.HealthCheck(maxOutboxLag)))
		go logStats(ctx, processor, logger)
	} else {
		logger.Info("outbox processor disabled")
	}

	// Broker consumer
	consumer, err := container.NewEventConsumer()
	if err != nil {
		logger.Error("failed to create event consumer", "error", err)
		os.Exit(1)
	}
	if consumer != nil {
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event consumer stopped", "error", err)
			}
		}()
	}

	// Weekly review worker
	reviewWorker, err := container.NewWeeklyReviewWorker()
	if err != nil {
		logger.Error("failed to create weekly review worker", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := reviewWorker.Run(ctx); err != nil {
			logger.Error("weekly review worker stopped", "error", err)
		}
	}()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := newHealthServer(cfg, health, processor)
		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	reviewWorker.Stop()
	if processor != nil {
		processor.Stop()
	}
	logger.Info("worker stopped")
}

// newHealthServer serves liveness on /healthz and component readiness on
// /readyz.
func newHealthServer(cfg *config.Config, health *observability.HealthRegistry, processor *outbox.Processor) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{"status": "ok"}
		if processor != nil {
			stats := processor.GetStats()
			response["outbox"] = map[string]any{
				"running":           stats.IsRunning,
				"published":         stats.PublishedCount,
				"failed":            stats.FailedCount,
				"dead":              stats.DeadCount,
				"last_processed_at": stats.LastProcessedAt,
				"last_error_at":     stats.LastErrorAt,
				"last_error":        stats.LastError,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})
	mux.Handle("/readyz", health.Handler())

	return &http.Server{
		Addr:              cfg.WorkerHealthAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func logStats(ctx context.Context, processor *outbox.Processor, logger *slog.Logger) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := processor.GetStats()
			logger.Info("outbox stats",
				"running", stats.IsRunning,
				"published", stats.PublishedCount,
				"failed", stats.FailedCount,
				"dead", stats.DeadCount,
				"lag_seconds", stats.LagSeconds,
				"oldest_message_at", stats.OldestMessageAt,
				"last_processed_at", stats.LastProcessedAt,
				"last_error", stats.LastError,
			)
		}
	}
}
