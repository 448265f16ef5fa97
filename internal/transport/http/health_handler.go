package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"surveybench/pkg/contracts"
)

// HealthHandler serves liveness checks.
type HealthHandler struct {
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates the handler.
func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:  logger.With(slog.String("component", "health_handler")),
		started: time.Now(),
	}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(h.started).String(),
		"version": contracts.GetVersionInfo(),
	})
}
