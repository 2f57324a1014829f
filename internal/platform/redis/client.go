// Copyright (c) 2026 Ultimate Library. All rights reserved.

/*
Package redis provides a managed client for volatile infrastructure state.

The Ultimate Library core stores no domain data outside MongoDB; Redis is
used only for cross-instance rate limiting buckets, which need TTL semantics
and must be shared between replicas.

Core Responsibilities:

  - Volatility: Handles data with TTL (Time-To-Live).
  - Safety: Manages connection pooling automatically.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fabinnerself/ultimate-library/internal/platform/constants"
)

// Opinionated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxIdleConns = 5

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// # Rate Limiting

// FixedWindowLimiter counts requests per key in fixed time windows.
//
// It is used when multiple API replicas must share one budget; the
// single-instance deployment uses the in-process token bucket instead.
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter creates a limiter allowing limit requests per window.
func NewFixedWindowLimiter(client *redis.Client, limit int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether the request identified by key fits in the current
// window. The first hit of a window sets the key's TTL; subsequent hits only
// increment.
func (limiter *FixedWindowLimiter) Allow(context stdctx.Context, key string) (bool, error) {
	redisKey := constants.RedisPrefixRateLimit + key

	count, err := limiter.client.Incr(context, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit incr: %w", err)
	}

	if count == 1 {
		if err := limiter.client.Expire(context, redisKey, limiter.window).Err(); err != nil {
			return false, fmt.Errorf("redis: rate limit expire: %w", err)
		}
	}

	return count <= limiter.limit, nil
}
