package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/fireops-dashboard-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/fireops-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/fireops-dashboard-service/internal/adapter/mapbox"
	"github.com/couchcryptid/fireops-dashboard-service/internal/adapter/regionfile"
	"github.com/couchcryptid/fireops-dashboard-service/internal/config"
	"github.com/couchcryptid/fireops-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"github.com/couchcryptid/fireops-dashboard-service/internal/observability"
	"github.com/couchcryptid/fireops-dashboard-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	opts := dashboard.Options{
		Catalog:       domain.DefaultCatalog(),
		Predictor:     domain.NewHeuristicPredictor(domain.RandomJitter(domain.NewSource(time.Now().UnixNano()))),
		DatasetSize:   cfg.DatasetSize,
		DatasetSeed:   cfg.DatasetSeed,
		ReportingDays: cfg.ReportingDays,
	}

	if cfg.RegionsFile != "" {
		f, err := regionfile.Load(cfg.RegionsFile)
		if err != nil {
			logger.Error("failed to load region file", "error", err)
			os.Exit(1)
		}
		opts.Catalog = opts.Catalog.WithRegions(f.Regions)
		opts.Defaults = f.Defaults
		logger.Info("region table loaded", "path", cfg.RegionsFile, "cities", f.Regions.Len())
	}

	// Map centering is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts.Geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The publisher outlives the signal context so requests still in flight
	// during server shutdown can enqueue; shutdown cancels it afterwards.
	var (
		writer        io.Closer
		stopPublisher context.CancelFunc
		wg            sync.WaitGroup
	)
	if cfg.KafkaEnabled {
		kw := kafkaadapter.NewWriter(cfg, logger)
		writer = kw
		publisher := pipeline.New(kw, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval)
		opts.Sink = publisher
		logger.Info("prediction publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaPredictionTopic)

		var publisherCtx context.Context
		publisherCtx, stopPublisher = context.WithCancel(context.Background())
		defer stopPublisher()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := publisher.Run(publisherCtx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
	} else {
		logger.Info("prediction publishing disabled")
	}

	svc := dashboard.NewService(opts, logger, metrics)
	if err := svc.Warm(ctx); err != nil {
		logger.Error("failed to generate dataset", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	shutdown(shutdownCtx, logger, srv, stopPublisher, &wg, writer)

	logger.Info("shutdown complete")
}
