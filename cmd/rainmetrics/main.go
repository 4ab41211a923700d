// Command rainmetrics serves the rain-gauge completeness pipeline over HTTP.
// It loads the treated wide-format dataset at startup and exposes analysis,
// stability, and summary endpoints plus health and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/rain-gauge-metrics/internal/adapter/csvio"
	httpadapter "github.com/couchcryptid/rain-gauge-metrics/internal/adapter/http"
	"github.com/couchcryptid/rain-gauge-metrics/internal/config"
	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
	"github.com/couchcryptid/rain-gauge-metrics/internal/observability"
	"github.com/couchcryptid/rain-gauge-metrics/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	records, err := csvio.ReadDatasetFile(cfg.DatasetPath)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	dataset := pipeline.NewDataset(records)
	metrics.DatasetLoaded.Set(1)
	logger.Info("dataset loaded",
		"path", cfg.DatasetPath,
		"records", len(records),
		"stations", len(domain.UniqueStations(records)),
		"hash", dataset.Hash[:12],
	)

	runner := pipeline.NewRunner(logger, metrics, cfg.MemoCacheSize)

	seeds := cfg.Seeds
	if len(seeds) == 0 {
		seeds = domain.CanonicalSeeds
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, dataset, httpadapter.Defaults{
		Fraction: cfg.SampleFraction,
		Seeds:    seeds,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the memo cache with the default analysis so /readyz flips as soon
	// as the result the dashboard asks for first is available.
	go func() {
		if _, err := runner.Analyze(ctx, dataset, cfg.SampleFraction, seeds[0]); err != nil {
			logger.Error("warm-up analysis failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
