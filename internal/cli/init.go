// Package cli provides common initialization for the command line
// entrypoint: env file, logging, configuration and the ledger store.
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kasicka/internal/config"
	"kasicka/internal/log"
	"kasicka/internal/services"
	"kasicka/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently, the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger installs the default structured logger at the configured
// level.
func SetupLogger(level string) *slog.Logger {
	return log.Setup(level)
}

// ValidateConfig validates an already loaded configuration, exiting
// the process on validation failure.
func ValidateConfig(logger *slog.Logger, cfg *config.Config) *config.Config {
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the ledger store, exiting the process on failure.
func InitStore(logger *slog.Logger, dbPath string) *storage.Store {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open ledger store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

// StartRecurrence launches one recurrence pass in the background and
// returns a join function that blocks until the pass finished. A
// failing pass is logged, never fatal: the command the user asked for
// still runs.
func StartRecurrence(ctx context.Context, processor *services.RecurringProcessor) func() {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := processor.ProcessDue(gctx, time.Now())
		return err
	})
	return func() {
		if err := g.Wait(); err != nil {
			slog.ErrorContext(ctx, "Recurrence processing failed", "error", err)
		}
	}
}
