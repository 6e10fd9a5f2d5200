// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"

	"github.com/ciphergate/ciphergate/internal/observability"
)

var tracer = otel.Tracer("ciphergate/api")

// DefaultVersion is reported by the health and banner routes unless
// overridden.
const DefaultVersion = "2.0.0"

// DefaultMaxBodyBytes caps request bodies when Config leaves it unset.
const DefaultMaxBodyBytes int64 = 10 << 20

// Config configures the router.
type Config struct {
	// Version is reported by health and banner. Empty means DefaultVersion.
	Version string
	// MaxBodyBytes caps request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// LogAllRequests logs every request, not only failures.
	LogAllRequests bool
}

// Deps are the collaborators the router needs. Metrics may be nil.
type Deps struct {
	Analysts Analysts
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

type handler struct {
	analysts Analysts
	metrics  *observability.Metrics
	logger   *slog.Logger
	version  string
	now      func() time.Time
}

// NewRouter builds the gin engine serving every CipherGate route.
func NewRouter(deps Deps, cfg Config) (*gin.Engine, error) {
	if deps.Analysts == nil {
		return nil, oops.Errorf("analyst service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	h := &handler{
		analysts: deps.Analysts,
		metrics:  deps.Metrics,
		logger:   logger,
		version:  cfg.Version,
		now:      time.Now,
	}
	return h.routes(cfg), nil
}

func (h *handler) routes(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = false
	engine.Use(
		RequestID(),
		Recovery(h.logger),
		RequestLogger(h.logger, cfg.LogAllRequests),
		Metrics(h.metrics),
		BodyLimit(cfg.MaxBodyBytes),
	)

	engine.GET("/", h.banner)

	api := engine.Group("/api")
	api.GET("/health", h.health)

	gate := RequireAnalyst(h.analysts, h.metrics, h.logger)

	auth := api.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/verify", gate, h.verify)

	cipherGroup := api.Group("/cipher", gate)
	cipherGroup.POST("/decode-message", h.decodeMessage)
	cipherGroup.GET("/profile", h.profile)
	cipherGroup.POST("/profile", h.profile)

	engine.NoRoute(h.notFound)
	return engine
}
