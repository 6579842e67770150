// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the artist verification HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the artist store (seeded memory store, or PostgreSQL + migrations).
//  4. Connect to Redis when configured (verification stats cache).
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/artverify/internal/api"
	"github.com/taibuivan/artverify/internal/core/artist"
	"github.com/taibuivan/artverify/internal/platform/config"
	"github.com/taibuivan/artverify/internal/platform/constants"
	"github.com/taibuivan/artverify/internal/platform/migration"
	pgstore "github.com/taibuivan/artverify/internal/platform/postgres"
	redisstore "github.com/taibuivan/artverify/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires and serves the API. Deferred cleanup finishes before main picks
// the exit status.
func run() error {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store", cfg.StoreDriver),
	)

	// Bounded so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// Root context for background workers (rate limiter cleanup).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	var health api.HealthDependencies

	// ── 3. Artist Store ───────────────────────────────────────────────────
	var repository artist.Repository

	if cfg.UsesPostgres() {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.Options{
			MaxConns:         cfg.DatabaseMaxConns,
			StatementTimeout: constants.GlobalRequestTimeout,
		}, log)
		must(log, err, "connect to postgres")
		defer pgstore.Close(pool, log)

		_, err = migration.RunUp(startupCtx, cfg.DatabaseURL, cfg.MigrationPath, log)
		must(log, err, "run migrations")

		repository = artist.NewPostgresRepository(pool, time.Now)
		health.CheckStore = func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}
	} else {
		seed, err := artist.LoadSeed(cfg.SeedPath)
		must(log, err, "load seed fixture")

		repository = artist.NewMemoryRepository(seed, artist.WithLatency(cfg.StoreLatency))
		log.Info("memory_store_seeded",
			slog.Int("artists", len(seed.Artists)),
			slog.Int("artworks", len(seed.Artworks)),
			slog.Duration("latency", cfg.StoreLatency),
		)
	}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var cache artist.StatsCache = artist.NoopStatsCache{}

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.Options{PoolSize: cfg.RedisPoolSize}, log)
		must(log, err, "connect to redis")
		defer redisstore.Close(rdb, log)

		cache = artist.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	artistService := artist.NewService(repository, cache, log)
	artistHandler := artist.NewHandler(artistService)

	server := api.NewServer(rootCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Artist:    artistHandler,
	})

	// ── 6. Serve until SIGINT/SIGTERM ─────────────────────────────────────
	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := server.Run(signalCtx, constants.ShutdownTimeout); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		return err
	}
	return nil
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
