// Package main is the entry point for the citation-service HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/brandpulse/citation-service/internal/catalog"
	"github.com/brandpulse/citation-service/internal/config"
	"github.com/brandpulse/citation-service/internal/server"
	"github.com/brandpulse/citation-service/internal/service"
	"github.com/brandpulse/citation-service/internal/storage"
)

func main() {
	// os.Exit ensures the process exits with a non-zero code on failure.
	// We call run() separately so deferred cleanup functions execute properly
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CITE_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up structured logging with zap — JSON in production, human-readable
	// in development.
	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync flushes buffered log entries. We intentionally ignore the error
	// because Sync commonly fails on stdout/stderr (not a real problem).
	defer func() { _ = logger.Sync() }()

	// The platform catalog is built once here and injected everywhere —
	// read-only for the life of the process.
	registry, err := catalog.FromConfig(cfg.Providers)
	if err != nil {
		return fmt.Errorf("building platform catalog: %w", err)
	}

	// Audit storage
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	archive, err := storage.NewResponseArchive(cfg.Storage.ArchiveDir)
	if err != nil {
		return fmt.Errorf("creating response archive: %w", err)
	}

	calls := storage.NewCallRepository(db)
	citations := service.NewCitationService(
		registry,
		calls,
		archive,
		cfg.Providers.Timeout(),
		cfg.Providers.RatePerMinute,
		logger,
	)

	srv := server.New(cfg, server.Deps{
		Citations: citations,
		Registry:  registry,
		Calls:     calls,
	}, logger)

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or the server errors out.
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
