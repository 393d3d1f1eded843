// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration wraps golang-migrate for the catalogue schema.
//
// The API server applies pending migrations at start-up; the admin CLI can
// also step the schema down or print the current version.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner owns one golang-migrate instance.
type Runner struct {
	migrator *migrate.Migrate
	logger   *slog.Logger
}

// Open prepares a Runner for the database at dsn and the migrations in dir.
func Open(dsn, dir string, logger *slog.Logger) (*Runner, error) {
	migrator, err := migrate.New("file://"+dir, ToPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	return &Runner{migrator: migrator, logger: logger}, nil
}

// Close releases the source and database handles.
func (runner *Runner) Close() {
	sourceErr, dbErr := runner.migrator.Close()
	if sourceErr != nil {
		runner.logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
	}
	if dbErr != nil {
		runner.logger.Error("migration_db_close_failed", slog.Any("error", dbErr))
	}
}

// Version returns the applied version and whether the schema is dirty.
// A database without migrations reports version 0.
func (runner *Runner) Version() (uint, bool, error) {
	version, dirty, err := runner.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return version, dirty, nil
}

// Up applies all pending migrations. A dirty schema is refused.
func (runner *Runner) Up() error {
	current, dirty, err := runner.Version()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("migration: database is dirty at version %d (manual intervention required)", current)
	}

	runner.logger.Info("migration_started", slog.Uint64("current_version", uint64(current)))

	if err := runner.migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			runner.logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	next, _, _ := runner.Version()
	runner.logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(current)),
		slog.Uint64("to_version", uint64(next)),
	)
	return nil
}

// Down rolls back the given number of migrations.
func (runner *Runner) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migration: steps must be positive, got %d", steps)
	}
	if err := runner.migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: down failed: %w", err)
	}
	runner.logger.Info("migration_rolled_back", slog.Int("steps", steps))
	return nil
}

// RunUp opens a Runner, applies pending migrations and closes it.
func RunUp(dsn, dir string, logger *slog.Logger) error {
	runner, err := Open(dsn, dir, logger)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.Up()
}

// ToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// that golang-migrate's pgx/v5 driver registers.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
