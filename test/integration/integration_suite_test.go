// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

//go:build integration

// Package integration provides end-to-end integration tests for CipherGate.
package integration

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ciphergate/ciphergate/internal/analyst"
	analystpg "github.com/ciphergate/ciphergate/internal/analyst/postgres"
	"github.com/ciphergate/ciphergate/internal/api"
	"github.com/ciphergate/ciphergate/internal/observability"
	"github.com/ciphergate/ciphergate/internal/store"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integration Suite")
}

// testEnv holds the resources shared by the suite.
type testEnv struct {
	container *postgres.PostgresContainer
	connStr   string
	pool      *pgxpool.Pool
}

var env *testEnv

var _ = BeforeSuite(func(ctx context.Context) {
	gin.SetMode(gin.TestMode)

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ciphergate_test"),
		postgres.WithUsername("ciphergate"),
		postgres.WithPassword("ciphergate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	Expect(err).NotTo(HaveOccurred())

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	migrator, err := store.NewMigrator(connStr)
	Expect(err).NotTo(HaveOccurred())
	Expect(migrator.Up()).To(Succeed())
	Expect(migrator.Close()).To(Succeed())

	pool, err := store.Connect(ctx, connStr, store.ConnectOptions{Timeout: 30 * time.Second})
	Expect(err).NotTo(HaveOccurred())

	env = &testEnv{container: container, connStr: connStr, pool: pool}
})

var _ = AfterSuite(func(ctx context.Context) {
	if env == nil {
		return
	}
	if env.pool != nil {
		env.pool.Close()
	}
	if env.container != nil {
		Expect(env.container.Terminate(ctx)).To(Succeed())
	}
})

// app is one running instance of the HTTP API against the shared database.
type app struct {
	server  *httptest.Server
	metrics *observability.Metrics
}

// startApp wires the real stack: pool, repository, bcrypt, gin router.
func startApp(db analystpg.DB) *app {
	logger := slog.New(slog.DiscardHandler)
	repo := analystpg.NewRepository(db)
	svc, err := analyst.NewServiceWithLogger(repo, analyst.NewBcryptHasher(4), logger)
	Expect(err).NotTo(HaveOccurred())

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	router, err := api.NewRouter(api.Deps{Analysts: svc, Metrics: metrics, Logger: logger}, api.Config{})
	Expect(err).NotTo(HaveOccurred())

	a := &app{server: httptest.NewServer(router), metrics: metrics}
	DeferCleanup(a.server.Close)
	return a
}

// truncate removes every analyst so each test starts from an empty store.
func truncate(ctx context.Context) {
	_, err := env.pool.Exec(ctx, "TRUNCATE analysts")
	Expect(err).NotTo(HaveOccurred())
}
