// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres owns the pgx connection pool and the transaction helper
// shared by every PostgreSQL repository.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
)

const (
	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second
)

// PoolOptions sizes the pool. Zero fields keep the defaults from
// [DefaultPoolOptions].
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultPoolOptions fits a single API instance. The notification fan-out
// holds one connection for the length of its batch.
var DefaultPoolOptions = PoolOptions{
	MaxConns:        25,
	MinConns:        5,
	MaxConnLifetime: time.Hour,
	MaxConnIdleTime: 10 * time.Minute,
}

func (options PoolOptions) apply(config *pgxpool.Config) {
	defaults := DefaultPoolOptions
	config.MaxConns = pick(options.MaxConns, defaults.MaxConns)
	config.MinConns = pick(options.MinConns, defaults.MinConns)
	config.MaxConnLifetime = pick(options.MaxConnLifetime, defaults.MaxConnLifetime)
	config.MaxConnIdleTime = pick(options.MaxConnIdleTime, defaults.MaxConnIdleTime)
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = connectTimeout
}

func pick[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

/*
NewPool connects to PostgreSQL and verifies the connection.

Every physical connection gets a statement_timeout equal to the request
timeout, so a slow catalogue query cannot outlive the HTTP request.

Parameters:
  - ctx: Bounds the initial connection attempt
  - dsn: postgres:// URL or libpq keyword string
  - logger: *slog.Logger
  - options: Optional sizing; the first value wins

Returns:
  - *pgxpool.Pool: A pool that answered a ping
  - error: Parse, connect or ping failures
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger, options ...PoolOptions) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	sizing := DefaultPoolOptions
	if len(options) > 0 {
		sizing = options[0]
	}
	sizing.apply(config)

	statementTimeout := fmt.Sprintf("SET statement_timeout = '%dms'", constants.GlobalRequestTimeout.Milliseconds())
	config.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeout)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("database", config.ConnConfig.Database),
		slog.Int("max_conns", int(config.MaxConns)),
	)
	return pool, nil
}

// Ping checks that the pool can reach the server within pingTimeout.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
