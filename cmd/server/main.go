// Package main implements the entry point for the store rating API server.
// Normal users rate stores, store owners read the ratings of their stores and
// system administrators manage users and stores.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/store-rating-api/internal/config"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/redact"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, reset, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		log.Fatalf("store rating API: %s", redact.Error(err))
	}
}

// run loads configuration, sets up logging and the database, then either
// executes a migration command or serves HTTP until a shutdown signal arrives.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if migrateCmd != "" {
		return runMigrations(ctx, cfg.Database, migrateCmd, appLogger)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newApplication(cfg, appLogger, db, reg)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database after init error", redact.Attr(closeErr))
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from the environment,
// an optional .env file and an optional config.yaml.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cors_allowed_origins", cfg.Server.CORSAllowedOrigins)
	slog.Debug("Auth configuration",
		"jwt_secret_present", cfg.Auth.JWTSecret != "",
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	return cfg, nil
}
