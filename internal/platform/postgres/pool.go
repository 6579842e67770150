// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool used by
// the Postgres-backed artist store.
//
// # Architecture
//
// This package only manages physical connections (pgxpool); the queries live
// next to the domain in internal/core/artist.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
)

// Options tunes the pool. Zero values fall back to the defaults below.
type Options struct {
	// MaxConns caps open connections. Default 10.
	MaxConns int32

	// StatementTimeout is applied to every session so no query outlives the
	// HTTP request that issued it. Default 30s.
	StatementTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConns <= 0 {
		o.MaxConns = 10
	}
	if o.StatementTimeout <= 0 {
		o.StatementTimeout = 30 * time.Second
	}
	return o
}

// NewPool creates a pool and pings it once before returning.
//
// # Parameters
//   - ctx: Bounds the initial connection attempt.
//   - dsn: A libpq-compatible connection string or postgres:// URL.
//   - options: Pool sizing and per-session timeouts.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, dsn string, options Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	options = options.withDefaults()

	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = min(2, options.MaxConns)
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	statementTimeout := fmt.Sprintf("SET statement_timeout = %d", options.StatementTimeout.Milliseconds())
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeout)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(options.MaxConns)),
		slog.Duration("statement_timeout", options.StatementTimeout),
	)

	return pool, nil
}

// Ping verifies that the pool can reach the server.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

// Close drains the pool, logging the connection totals first.
func Close(pool *pgxpool.Pool, logger *slog.Logger) {
	stats := pool.Stat()
	logger.Info("closing_postgres_pool",
		slog.Int("total_conns", int(stats.TotalConns())),
		slog.Int64("acquire_count", stats.AcquireCount()),
	)
	pool.Close()
}
