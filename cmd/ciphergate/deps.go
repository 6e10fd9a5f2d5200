// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ciphergate/ciphergate/internal/analyst/postgres"
	"github.com/ciphergate/ciphergate/internal/api"
	"github.com/ciphergate/ciphergate/internal/observability"
	"github.com/ciphergate/ciphergate/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseFactory opens the analyst store.
	// Default: store.Connect
	DatabaseFactory func(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error)

	// MigratorFactory creates the schema migrator used by --auto-migrate.
	// Default: store.NewMigrator
	MigratorFactory func(dsn string) (AutoMigrator, error)

	// ObservabilityServerFactory creates the metrics and health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, isReady observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: api.NewServer
	APIServerFactory func(addr string, handler http.Handler, logger *slog.Logger) APIServer
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.DatabaseFactory == nil {
		out.DatabaseFactory = func(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error) {
			pool, err := store.Connect(ctx, dsn, opts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(dsn string) (AutoMigrator, error) {
			m, err := store.NewMigrator(dsn)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, isReady observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, isReady, logger)
		}
	}
	if out.APIServerFactory == nil {
		out.APIServerFactory = func(addr string, handler http.Handler, logger *slog.Logger) APIServer {
			return api.NewServer(addr, handler, logger)
		}
	}
	return &out
}

// Database is the connection pool the analyst repository runs on.
type Database interface {
	postgres.DB
	Close()
}

// AutoMigrator wraps the migrator methods serve uses.
type AutoMigrator interface {
	Up() error
	Close() error
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer interface wraps the methods used from api.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
