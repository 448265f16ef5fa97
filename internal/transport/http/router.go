package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"surveybench/internal/config"
	"surveybench/internal/middleware"
)

// NewRouter assembles the HTTP router with the standard middleware
// chain and all routes mounted. metricsHandler may be nil, in which
// case /metrics is not exposed.
func NewRouter(service BenchmarkService, cfg *config.Config, metricsHandler http.Handler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))
	if cfg.Server.RateLimit > 0 {
		rl := middleware.NewRateLimiter(float64(cfg.Server.RateLimit), cfg.Server.RateLimit*2, logger)
		r.Use(rl.Handler)
	}

	health := NewHealthHandler(logger)
	r.Method(http.MethodGet, "/health", health)

	api := NewBenchmarkHandler(service, logger).Routes()
	api.Method(http.MethodGet, "/health", health)
	r.Mount("/api", api)

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
