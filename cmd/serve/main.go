package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/config"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/logging"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/server"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file (default: config.yaml when present)")
	addr := flag.String("addr", "", "Listen address, overriding the configured host:port")
	modelDir := flag.String("model-dir", "", "Model export directory, overriding the configured one")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *modelDir != "" {
		cfg.ModelDir = *modelDir
	}
	listenAddr := cfg.ListenAddr()
	if *addr != "" {
		listenAddr = *addr
	}

	logger, err := logging.Setup(cfg.LogLevel, "json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := server.NewModelState(logging.ForSubsystem(logger, logging.Server))
	if err := state.LoadFrom(cfg.ModelDir); err != nil {
		// The API serves 503 until a model shows up; the watcher picks up
		// the next export.
		logger.Warn("starting without a model", "dir", cfg.ModelDir, "error", err)
	}

	go func() {
		if err := state.Watch(ctx, cfg.ModelDir); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("model watcher stopped", "error", err)
		}
	}()

	srv := server.NewServer(state, server.NewMetrics(), logger)
	go func() {
		logger.Info("listening", "addr", listenAddr)
		if err := srv.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
}
