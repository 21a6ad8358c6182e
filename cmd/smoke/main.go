package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rupamthxt/vectrasmoke/internal/client"
	"github.com/rupamthxt/vectrasmoke/internal/config"
	"github.com/rupamthxt/vectrasmoke/internal/metrics"
	"github.com/rupamthxt/vectrasmoke/internal/report"
	"github.com/rupamthxt/vectrasmoke/internal/workflow"
)

// Edit these by hand to point the run somewhere else.
const (
	ServerURL    = "http://localhost:8080"
	ServiceName  = "Hermes"
	VectorDim    = 1536
	TotalVectors = 50_000
	TopK         = 5
	IDPrefix     = "doc_"
)

// ConfigEnv names an optional YAML file layered over the constants above.
const ConfigEnv = "VECTRASMOKE_CONFIG"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return 1
	}

	logger, err := report.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	runner := workflow.New(cfg,
		client.New(cfg.ServerURL, cfg.RequestTimeout),
		report.Stdout(),
		workflow.WithLogger(logger),
		workflow.WithMetrics(metrics.NewClient(reg)),
	)

	outcome := runner.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}
	return outcome.ExitCode()
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	cfg.ServerURL = ServerURL
	cfg.ServiceName = ServiceName
	cfg.Dimension = VectorDim
	cfg.TotalVectors = TotalVectors
	cfg.TopK = TopK
	cfg.IDPrefix = IDPrefix

	if path := os.Getenv(ConfigEnv); path != "" {
		loaded, err := config.Load(path, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
