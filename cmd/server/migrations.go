package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/phrazzld/flashgen/internal/platform/postgres"
)

var migrationCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
	postgres.MigrateReset,
	postgres.MigrateVersion,
}

// runMigrations executes one goose command with the embedded migrations.
func runMigrations(ctx context.Context, db *sql.DB, command string, l *slog.Logger) error {
	if !slices.Contains(migrationCommands, command) {
		return fmt.Errorf("unknown migration command %q (want one of %v)", command, migrationCommands)
	}

	start := time.Now()
	l.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command, l); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	l.Info("Migrations finished", "command", command, "duration", time.Since(start))
	return nil
}
