package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	vectorHttp "github.com/rupamthxt/vectrasmoke/internal/http"
	"github.com/rupamthxt/vectrasmoke/internal/metrics"
	"github.com/rupamthxt/vectrasmoke/internal/report"
	"github.com/rupamthxt/vectrasmoke/internal/store"
)

const (
	ListenAddr = ":8080"
	// Dimension 0 lets the first insert decide.
	Dimension = 0
)

func main() {
	logger, err := report.NewLogger(os.Getenv("VECTRASMOKE_DEBUG") != "")
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	db := store.New(Dimension)
	handler := vectorHttp.NewHandler(db, metrics.NewServer(reg))
	app := vectorHttp.NewApp(handler, reg, true)

	logger.Info("reference target listening", zap.String("addr", ListenAddr), zap.Int("dimension", Dimension))
	if err := app.Listen(ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
