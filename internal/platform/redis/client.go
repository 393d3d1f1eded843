// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis owns the client for short-lived data.

Refresh-token sessions and email verification tokens live here and expire
through key TTLs, so nothing in Redis needs a migration or a cleanup job.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// tune sizes the pool for the session and token lookups made on the login
// and refresh paths.
func tune(options *redis.Options) {
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 2 * time.Second
	options.WriteTimeout = 2 * time.Second
	options.ContextTimeoutEnabled = true
}

/*
NewClient connects to the server named by redisURL and pings it.

Parameters:
  - ctx: Bounds the initial ping
  - redisURL: redis:// or rediss:// URL, database index in the path
  - logger: *slog.Logger

Returns:
  - *redis.Client
  - error: Invalid URL or unreachable server
*/
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	tune(options)

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Bool("tls", options.TLSConfig != nil),
	)
	return client, nil
}

// Ping reports whether the server answered within two seconds.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
