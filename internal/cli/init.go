// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/ezba and cmd/ezba-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ezba/internal/config"
	"ezba/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitReplica initializes the SQLite replica at the given path.
// Returns the repository or exits the process on failure.
func InitReplica(logger *slog.Logger, cfg *config.Config) *storage.Repository {
	repo, err := storage.NewRepository(cfg.SQLiteDBPath, cfg.Location())
	if err != nil {
		logger.Error("Failed to initialize SQLite replica", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	return repo
}
