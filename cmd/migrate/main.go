package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/leaddesk/leaddesk-dashboard/config"
	"github.com/leaddesk/leaddesk-dashboard/pkg/db"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// Usage: migrate [up|down]. "down" rolls back one step.
func main() {
	direction := db.Up
	if len(os.Args) > 1 {
		switch db.Direction(os.Args[1]) {
		case db.Up:
		case db.Down:
			direction = db.Down
		default:
			fmt.Fprintf(os.Stderr, "Unknown direction %q, expected up or down\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		ServiceName: "leaddesk-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.Database.Enabled() {
		logger.Error("DATABASE_URL is required to run migrations")
		os.Exit(1)
	}

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("direction", string(direction)))

	// Run migrations
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.CACertPath, "file://migrations", direction); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides the password in a database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
