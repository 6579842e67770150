// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/artverify/internal/platform/constants"
)

/*
StatsCache holds the last computed [Stats] between mutations.

Entries are tagged with the generation that was current when the caller
started computing them. Invalidate advances the generation, so an entry
computed concurrently with a mutation is never served.
*/
type StatsCache interface {
	// Get returns the current generation. ok is false on a miss or when the
	// stored entry belongs to an older generation.
	Get(context context.Context) (stats *Stats, generation uint64, ok bool, err error)
	// Set stores stats computed at generation.
	Set(context context.Context, generation uint64, stats *Stats) error
	Invalidate(context context.Context) error
}

// statsEntry is the cached JSON value.
type statsEntry struct {
	Generation uint64 `json:"generation"`
	Stats      Stats  `json:"stats"`
}

// # Redis Stats Cache

// RedisStatsCache implements [StatsCache] with a counter key and a JSON entry
// key that expires after the configured TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache creates a Redis-backed StatsCache.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

/*
Get loads the generation counter and the cached entry in one round trip.

Returns:
  - *Stats: Decoded value, nil on a miss
  - uint64: The current generation
  - bool: Whether a current entry was present
  - error: Connectivity or decoding failures
*/
func (cache *RedisStatsCache) Get(context context.Context) (*Stats, uint64, bool, error) {
	values, err := cache.client.MGet(context,
		constants.RedisKeyVerificationStatsGeneration,
		constants.RedisKeyVerificationStats,
	).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis_stats_get_failed: %w", err)
	}
	return decodeStatsEntry(values[0], values[1])
}

/*
Set stores stats for the configured TTL under the given generation.

The write is skipped when the generation has moved on, either before the
WATCH or between the WATCH and EXEC.
*/
func (cache *RedisStatsCache) Set(context context.Context, generation uint64, stats *Stats) error {
	raw, err := json.Marshal(statsEntry{Generation: generation, Stats: *stats})
	if err != nil {
		return fmt.Errorf("redis_stats_encode_failed: %w", err)
	}

	err = cache.client.Watch(context, func(tx *redis.Tx) error {
		current, err := tx.Get(context, constants.RedisKeyVerificationStatsGeneration).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(context, func(pipe redis.Pipeliner) error {
			pipe.Set(context, constants.RedisKeyVerificationStats, raw, cache.ttl)
			return nil
		})
		return err
	}, constants.RedisKeyVerificationStatsGeneration)

	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("redis_stats_set_failed: %w", err)
	}
	return nil
}

// Invalidate advances the generation and drops the cached entry.
func (cache *RedisStatsCache) Invalidate(context context.Context) error {
	_, err := cache.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Incr(context, constants.RedisKeyVerificationStatsGeneration)
		pipe.Del(context, constants.RedisKeyVerificationStats)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_stats_invalidate_failed: %w", err)
	}
	return nil
}

// decodeStatsEntry interprets the MGET reply. A nil element is a missing key.
func decodeStatsEntry(rawGeneration, rawEntry any) (*Stats, uint64, bool, error) {
	var generation uint64
	if rawGeneration != nil {
		text, isString := rawGeneration.(string)
		if !isString {
			return nil, 0, false, fmt.Errorf("redis_stats_decode_failed: generation is %T", rawGeneration)
		}
		parsed, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, 0, false, fmt.Errorf("redis_stats_decode_failed: %w", err)
		}
		generation = parsed
	}

	if rawEntry == nil {
		return nil, generation, false, nil
	}
	text, isString := rawEntry.(string)
	if !isString {
		return nil, generation, false, fmt.Errorf("redis_stats_decode_failed: entry is %T", rawEntry)
	}

	var entry statsEntry
	if err := json.Unmarshal([]byte(text), &entry); err != nil {
		return nil, generation, false, fmt.Errorf("redis_stats_decode_failed: %w", err)
	}
	if entry.Generation != generation {
		return nil, generation, false, nil
	}
	return &entry.Stats, generation, true, nil
}

// # No-op Stats Cache

// NoopStatsCache always misses. It is used when no Redis URL is configured.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(context.Context) (*Stats, uint64, bool, error) { return nil, 0, false, nil }
func (NoopStatsCache) Set(context.Context, uint64, *Stats) error         { return nil }
func (NoopStatsCache) Invalidate(context.Context) error                  { return nil }
