// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/artverify/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// resource names the entity used in NOT_FOUND messages (e.g. "Artist").
// action is a snake_case label attached to the debug log for correlation.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	// 3. Everything else is an Internal Server Error
	slog.Debug("db_error", slog.String("action", action), slog.Any("error", err))
	return apperr.Internal(err)
}
