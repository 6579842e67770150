// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the store, cache and server via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported artist store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the artist verification API.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Artist store
	StoreDriver  string        `env:"STORE_DRIVER"  envDefault:"memory"`
	StoreLatency time.Duration `env:"STORE_LATENCY" envDefault:"300ms"`
	SeedPath     string        `env:"SEED_PATH"     envDefault:"./data/seed/artists.yaml"`

	// Relational Database (PostgreSQL), only used by the postgres store
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the stats cache.
	RedisURL      string        `env:"REDIS_URL"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"5"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s"`

	// TrustedProxies lists the CIDRs whose X-Real-IP / X-Forwarded-For headers
	// name the client. Empty means the socket peer is the client.
	TrustedProxies []netip.Prefix `env:"TRUSTED_PROXIES" envSeparator:","`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.StoreLatency < 0 {
		return errors.New("config: STORE_LATENCY must not be negative")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesPostgres reports whether the artist store is backed by PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.StoreDriver == StorePostgres
}

// OriginSuffix implements the CORS policy input for production origins.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
