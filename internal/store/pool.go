// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Backoff bounds for the startup connection loop.
const (
	defaultConnectTimeout = 30 * time.Second
	defaultBaseDelay      = 250 * time.Millisecond
	maxDelay              = 5 * time.Second
)

// ConnectOptions configures Connect.
type ConnectOptions struct {
	// Timeout bounds the total time spent retrying. Zero means 30s.
	Timeout time.Duration
	// Logger receives one line per failed attempt. Nil means slog.Default().
	Logger *slog.Logger

	baseDelay time.Duration
}

// Connect opens a connection pool and pings it, retrying with exponential
// backoff while the database is unreachable. Configuration errors and
// non-connectivity failures are not retried.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		// The DSN may carry a password; do not echo it.
		return nil, oops.Code("STORE_CONFIG_INVALID").Errorf("invalid database URL")
	}

	var pool *pgxpool.Pool
	err = withRetry(ctx, opts, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, cfg.Copy())
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		code := "STORE_CONNECT_FAILED"
		if IsUnavailable(err) {
			code = "STORE_UNAVAILABLE"
		}
		return nil, oops.Code(code).
			With("host", cfg.ConnConfig.Host).
			With("database", cfg.ConnConfig.Database).
			Wrap(err)
	}
	return pool, nil
}

// withRetry runs fn until it succeeds, fails with a non-connectivity error,
// or the retry budget is spent.
func withRetry(ctx context.Context, opts ConnectOptions, fn func(context.Context) error) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	base := opts.baseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := retry.NewExponential(base)
	backoff = retry.WithCappedDuration(maxDelay, backoff)
	backoff = retry.WithMaxDuration(timeout, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsUnavailable(err) {
			return err
		}
		logger.WarnContext(ctx, "database not reachable, retrying",
			"attempt", attempt,
			"error", err)
		return retry.RetryableError(err)
	})
}
