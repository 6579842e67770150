// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client behind the verification stats cache.

The cache is optional: nothing here is reached unless REDIS_URL is set.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second
)

// Options tunes the client. Zero values fall back to defaults.
type Options struct {
	// PoolSize caps socket connections. Default 5; the stats cache issues
	// at most one command per request.
	PoolSize int
}

// NewClient parses a redis:// URL, applies options and pings once.
func NewClient(ctx context.Context, redisURL string, options Options, logger *slog.Logger) (*redis.Client, error) {
	clientOptions, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	clientOptions.PoolSize = options.PoolSize
	if clientOptions.PoolSize <= 0 {
		clientOptions.PoolSize = 5
	}
	clientOptions.MinIdleConns = 1
	clientOptions.MaxIdleConns = max(1, clientOptions.PoolSize/2)

	clientOptions.DialTimeout = dialTimeout
	clientOptions.ReadTimeout = ioTimeout
	clientOptions.WriteTimeout = ioTimeout

	client := redis.NewClient(clientOptions)

	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", clientOptions.Addr),
		slog.Int("db", clientOptions.DB),
		slog.Int("pool_size", clientOptions.PoolSize),
	)

	return client, nil
}

// Ping verifies that the server answers within pingTimeout.
func Ping(ctx context.Context, client *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}

// Close releases the client, logging instead of returning a close failure.
func Close(client *redis.Client, logger *slog.Logger) {
	logger.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		logger.Error("redis_close_error", slog.Any("error", err))
	}
}
