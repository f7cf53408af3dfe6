// Package httptransport assembles the public HTTP surface: the verification
// endpoint plus health and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"batchtrace/internal/platform/health"
	"batchtrace/internal/platform/middleware"
	verifhandler "batchtrace/internal/verification/handler"
)

// RouterConfig carries the collaborators the router mounts.
type RouterConfig struct {
	Verification *verifhandler.Handler
	Health       *health.Handler
	Logger       *slog.Logger

	// RequestTimeout bounds each request; zero means 30s.
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints with middleware. The verification
// endpoint is browser-facing, so CORS runs before the timeout and
// content-type guards and answers preflights itself.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Timeout(timeout))

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		cfg.Verification.Register(r)
	})

	return r
}
