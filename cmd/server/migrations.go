package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/config"
	"github.com/phrazzld/store-rating-api/internal/platform/postgres"
	"github.com/phrazzld/store-rating-api/internal/redact"
	"github.com/pressly/goose/v3"
)

// migrationCommands are the goose commands accepted by -migrate.
var migrationCommands = []string{"up", "down", "status", "reset", "version"}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding messages to Error.
// It does NOT call os.Exit so main decides how the process ends.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func validateMigrationCommand(command string) error {
	for _, c := range migrationCommands {
		if c == command {
			return nil
		}
	}
	return fmt.Errorf("unknown migration command: %s (expected one of %s)",
		command, strings.Join(migrationCommands, ", "))
}

// runMigrations opens its own connection and runs one goose command against
// the embedded schema migrations.
func runMigrations(ctx context.Context, cfg config.DatabaseConfig, command string, logger *slog.Logger) error {
	if err := validateMigrationCommand(command); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", redact.Attr(err))
		}
	}()

	return executeMigration(ctx, db, command, logger)
}

// executeMigration runs command with goose and logs the schema version
// before and after. Every log line shares one correlation ID.
func executeMigration(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if err := validateMigrationCommand(command); err != nil {
		return err
	}

	migrationLogger := logger.With(
		"correlation_id", uuid.NewString(),
		"component", "migrations",
		"command", command,
	)
	startTime := time.Now()

	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})
	goose.SetBaseFS(postgres.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	before, err := currentVersion(ctx, db)
	if err != nil {
		migrationLogger.Warn("Failed to retrieve current migration version", redact.Attr(err))
	} else {
		migrationLogger.Info("Current database migration version", "version", before)
	}

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, postgres.MigrationsDir)
	case "down":
		err = goose.DownContext(ctx, db, postgres.MigrationsDir)
	case "reset":
		err = goose.ResetContext(ctx, db, postgres.MigrationsDir)
	case "status":
		err = goose.StatusContext(ctx, db, postgres.MigrationsDir)
	case "version":
		err = goose.VersionContext(ctx, db, postgres.MigrationsDir)
	}
	if err != nil {
		migrationLogger.Error("Migration command failed",
			redact.Attr(err),
			"duration_ms", time.Since(startTime).Milliseconds())
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	if command == "up" || command == "down" || command == "reset" {
		after, err := currentVersion(ctx, db)
		switch {
		case err != nil:
			migrationLogger.Warn("Failed to retrieve new migration version", redact.Attr(err))
		case after != before:
			migrationLogger.Info("Database schema version changed",
				"previous_version", before,
				"new_version", after)
		default:
			migrationLogger.Info("Database schema version unchanged", "version", after)
		}
	}

	migrationLogger.Info("Migration command executed successfully",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

// currentVersion reports the applied schema version, 0 on a fresh database.
func currentVersion(ctx context.Context, db *sql.DB) (int64, error) {
	v, err := goose.GetDBVersionContext(ctx, db)
	if errors.Is(err, goose.ErrNoCurrentVersion) {
		return 0, nil
	}
	return v, err
}
