// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rewards-workers/internal/common/camunda"
	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/database"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/common/observability"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(ctx, observability.Config{
		ServiceName:  cfg.App.Name,
		Environment:  cfg.App.Environment,
		Version:      cfg.App.Version,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		OTLPInsecure: cfg.Observability.OTLPInsecure,
		SampleRatio:  cfg.Observability.SampleRatio,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe connection failed", zap.Error(err))
	}

	// --- Stores ---
	var conns *database.Connections
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "database connections", func(ctx context.Context) error {
		var err error
		conns, err = database.Open(ctx, cfg)
		return err
	})
	if err != nil {
		zapLog.Fatal("database connection failed", zap.Error(err))
	}

	deps, err := buildDependencies(ctx, cfg, conns, log)
	if err != nil {
		zapLog.Fatal("dependency setup failed", zap.Error(err))
	}

	workers, err := registerWorkers(zeebe.GetClient(), cfg, deps, obs, log)
	if err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newServeMux(readiness(conns, zeebe)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping HTTP server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := conns.Close(); err != nil {
		log.Error("Error closing database connections", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing telemetry", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped", nil)
}
