package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admetrica/spendlens/internal/config"
	"github.com/admetrica/spendlens/internal/engine"
	"github.com/admetrica/spendlens/internal/ingest"
	"github.com/admetrica/spendlens/internal/metrics"
	"github.com/admetrica/spendlens/internal/regression"
	"github.com/admetrica/spendlens/internal/services"
	"github.com/admetrica/spendlens/internal/transforms"
	"github.com/admetrica/spendlens/internal/utils"
)

func main() {
	var configPath, inputPath, outputPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&inputPath, "input", "", "Path to the raw CSV (overrides config)")
	flag.StringVar(&outputPath, "output", "", "Path for the enriched CSV (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if cfg.Input.Path == "" {
		slog.Error("no input file configured")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting spendlens", slog.String("input", cfg.Input.Path))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Metrics.Address,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Metrics.Address))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
			}
		}()
	}

	loader := ingest.NewLoader(logger, cfg.Input.DateColumn, cfg.Input.SpendColumn, cfg.Input.VisitsColumn)
	writer := ingest.NewWriter(logger)
	pipeline := engine.NewPipeline(
		logger,
		transforms.NewCleaner(logger),
		transforms.NewFeatureEngineer(transforms.DefaultMAWindow),
		transforms.NewOutlierDetector(cfg.Pipeline.OutlierThreshold),
		regression.NewOLS(),
		regression.NewRobust(cfg.Pipeline.HuberTuning),
	)
	service := services.NewAnalysisService(logger, loader, writer, pipeline, cfg.Input.Path, cfg.Output.Path)

	summary, err := service.Run(ctx)
	if err != nil {
		logger.Error("analysis failed", slog.Any("error", err))
		shutdownMetrics(logger, metricsServer)
		os.Exit(1)
	}

	fmt.Print(services.FormatSummary(summary))
	shutdownMetrics(logger, metricsServer)
	logger.Info("spendlens finished")
}

func shutdownMetrics(logger *slog.Logger, server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("metrics server shutdown", slog.Any("error", err))
	}
}
