package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/honeycarbs/jobnexus/internal/config"
	"github.com/honeycarbs/jobnexus/internal/mcp"
	"github.com/honeycarbs/jobnexus/internal/metrics"
	"github.com/honeycarbs/jobnexus/pkg/logging"
	"github.com/honeycarbs/jobnexus/pkg/shutdown"
)

const (
	initTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	initCtx, cancel := context.WithTimeout(context.Background(), initTimeout)
	res, cleanup, err := mcp.InitializeResources(initCtx, cfg, logger, m)
	cancel()
	if err != nil {
		logger.Error("failed to initialize resources", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := mcp.NewServer(logger, cfg, res, reg)

	steps := []shutdown.Step{{Name: "mcp server", Stop: srv}}
	if res.Scheduler != nil {
		res.Scheduler.Start()
		steps = append(steps, shutdown.Step{Name: "refresh scheduler", Stop: res.Scheduler})
	}
	steps = append(steps, shutdown.Step{Name: "background persistence", Stop: res.Background})

	done := make(chan struct{})
	go func() {
		defer close(done)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			shutdownTimeout,
			logger,
			steps...,
		)
	}()

	logger.Info("MCP server initialized and starting", "history", cfg.History.Backend)

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		shutdown.Stop(shutdownTimeout, logger, steps[1:]...)
		return
	}

	<-done
	logger.Info("MCP server stopped")
}
