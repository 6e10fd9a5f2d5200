// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ciphergate/ciphergate/internal/analyst"
	"github.com/ciphergate/ciphergate/internal/analyst/postgres"
	"github.com/ciphergate/ciphergate/internal/api"
	"github.com/ciphergate/ciphergate/internal/config"
	"github.com/ciphergate/ciphergate/internal/logging"
	"github.com/ciphergate/ciphergate/internal/observability"
	"github.com/ciphergate/ciphergate/internal/store"
)

const serviceName = "ciphergate"

// serveOptions holds flags that are not part of the persisted config.
type serveOptions struct {
	autoMigrate bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CipherGate HTTP API",
		Long: `Start the CipherGate HTTP API. The server connects to PostgreSQL,
applies pending migrations unless --auto-migrate=false, and serves the API
until it receives SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, opts, nil)
		},
	}

	cmd.Flags().String("http-addr", defaults.HTTPAddr, "HTTP API listen address")
	cmd.Flags().String("metrics-addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", defaults.LogFormat, "log format (json or text)")
	cmd.Flags().String("environment", defaults.Environment, "deployment environment (development or production)")
	cmd.Flags().Int("bcrypt-cost", defaults.BcryptCost, "bcrypt work factor for new passwords")
	cmd.Flags().BoolVar(&opts.autoMigrate, "auto-migrate", true, "apply pending database migrations on startup")

	return cmd
}

// runServeWithDeps runs the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, opts *serveOptions, deps *ServeDeps) error {
	deps = deps.withDefaults()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.LogFormat,
		Level:   logging.LevelFor(cfg.Environment),
		Writer:  cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)
	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting ciphergate",
		"http_addr", cfg.HTTPAddr,
		"metrics_addr", cfg.MetricsAddr,
		"environment", cfg.Environment,
	)

	db, err := deps.DatabaseFactory(ctx, cfg.DatabaseURL, store.ConnectOptions{
		Timeout: cfg.ConnectTimeout,
		Logger:  logger,
	})
	if err != nil {
		return oops.With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	if opts.autoMigrate {
		if err := runAutoMigration(deps.MigratorFactory, cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	repo := postgres.NewRepository(db)
	svc, err := analyst.NewServiceWithLogger(repo, analyst.NewBcryptHasher(cfg.BcryptCost), logger)
	if err != nil {
		return oops.With("operation", "create analyst service").Wrap(err)
	}
	svc.Warm()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	}

	var (
		obsServer ObservabilityServer
		metrics   *observability.Metrics
	)
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, repo.Ping, logger)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability", logger)
		metrics = obsServer.Metrics()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	router, err := api.NewRouter(api.Deps{Analysts: svc, Metrics: metrics, Logger: logger}, api.Config{
		Version:        apiVersion(),
		MaxBodyBytes:   cfg.MaxBodyBytes,
		LogAllRequests: cfg.LogAllRequests(),
	})
	if err != nil {
		stopObservability(shutdownCtx, obsServer, logger)
		return oops.With("operation", "build router").Wrap(err)
	}

	apiServer := deps.APIServerFactory(cfg.HTTPAddr, router, logger)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopObservability(shutdownCtx, obsServer, logger)
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api", logger)

	cmd.Printf("CipherGate listening on %s\n", apiServer.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopCtx, stopCancel := shutdownCtx()
	defer stopCancel()

	if err := apiServer.Stop(stopCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(stopCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// runAutoMigration applies pending migrations and always closes the migrator.
func runAutoMigration(factory func(string) (AutoMigrator, error), dsn string, logger *slog.Logger) (err error) {
	migrator, err := factory(dsn)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	logger.Info("applying database migrations")
	if err := migrator.Up(); err != nil {
		return oops.Code("AUTO_MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	return nil
}

func stopObservability(newCtx func() (context.Context, context.CancelFunc), srv ObservabilityServer, logger *slog.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := newCtx()
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Warn("failed to stop observability server during cleanup", "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports a runtime failure.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}

// apiVersion is the version reported by the health route. Development
// builds report the API version.
func apiVersion() string {
	if version == "" || version == "dev" {
		return api.DefaultVersion
	}
	return version
}
