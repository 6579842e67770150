// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the artist store schema with golang-migrate.
//
// # Architecture
//
// Migrations only run when the Postgres store is selected, at startup and
// before traffic is served. A cancelled context asks golang-migrate to stop
// after the migration in flight.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Result reports the schema version before and after a run.
type Result struct {
	FromVersion uint
	ToVersion   uint
	Applied     bool
}

/*
RunUp applies every pending up migration found under dir.

Parameters:
  - context: Cancels the run between migrations
  - dsn: postgres:// or postgresql:// URL
  - dir: Filesystem path holding the NNNNNN_name.{up,down}.sql files

Returns:
  - Result: Versions before and after
  - error: Setup failure, dirty schema or failed migration
*/
func RunUp(context context.Context, dsn, dir string, logger *slog.Logger) (Result, error) {
	migrator, err := migrate.New("file://"+dir, toPgx5DSN(dsn))
	if err != nil {
		return Result{}, fmt.Errorf("migration_init_failed: %w", err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = &migrateLogger{logger: logger, verbose: logger.Enabled(context, slog.LevelDebug)}

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Result{}, fmt.Errorf("migration_version_failed: %w", err)
	}
	if dirty {
		return Result{FromVersion: from}, fmt.Errorf("migration_dirty: schema version %d needs manual repair", from)
	}

	stop := context.Done()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-stop:
			migrator.GracefulStop <- true
		case <-done:
		}
	}()

	logger.Info("migration_started", slog.Uint64("from_version", uint64(from)))

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return Result{FromVersion: from, ToVersion: from}, nil
	case err != nil:
		return Result{FromVersion: from}, fmt.Errorf("migration_up_failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return Result{FromVersion: from, ToVersion: to, Applied: to != from}, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if sourceErr != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
	}
	if databaseErr != nil {
		logger.Error("migration_database_close_failed", slog.Any("error", databaseErr))
	}
}

// toPgx5DSN swaps the postgres schemes for the pgx5 scheme golang-migrate
// registers. Anything else passes through.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger routes golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
