package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "surveybench/internal/errors"
	"surveybench/internal/services"
	"surveybench/pkg/contracts/domain"
)

// BenchmarkHandler serves the discovery and aggregation endpoints.
type BenchmarkHandler struct {
	service BenchmarkService
	logger  *slog.Logger
}

// NewBenchmarkHandler creates the handler.
func NewBenchmarkHandler(service BenchmarkService, logger *slog.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		service: service,
		logger:  logger.With(slog.String("component", "benchmark_handler")),
	}
}

// Routes returns the benchmark routes.
func (h *BenchmarkHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/variables", h.GetVariables)
	r.Get("/aggregate", h.GetAggregate)
	r.Get("/summary", h.GetSummary)
	r.Post("/invalidate/{event}", h.Invalidate)

	return r
}

// GetVariables handles GET /variables?category=.
func (h *BenchmarkHandler) GetVariables(w http.ResponseWriter, r *http.Request) {
	category := domain.SourceCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		apierrors.WriteError(w, apierrors.ErrValidation("category", "unknown source category"))
		return
	}

	variables, err := h.service.DiscoverVariables(r.Context(), category)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "variable discovery failed", slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.FromError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"variables": variables,
		"count":     len(variables),
	})
}

// GetAggregate handles GET /aggregate with optional filter parameters.
func (h *BenchmarkHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.AggregationFilter{
		Specialty:    q.Get("specialty"),
		Region:       q.Get("region"),
		ProviderType: q.Get("provider_type"),
		SurveySource: q.Get("survey_source"),
	}

	records, err := h.service.GetAggregatedData(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "aggregation failed", slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.FromError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// GetSummary handles GET /summary.
func (h *BenchmarkHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetVariableSummary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "variable summary failed", slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.FromError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"summary": summary,
		"count":   len(summary),
	})
}

// invalidateRequest carries the optional event payload.
type invalidateRequest struct {
	SourceID  string `json:"source_id"`
	Dimension string `json:"dimension"`
}

// Invalidate handles POST /invalidate/{event}. Known events:
// source-ingested, source-removed, mapping-changed,
// variable-selection-changed, filter-changed, corpus-cleared.
func (h *BenchmarkHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var req invalidateRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	switch event {
	case "source-ingested":
		h.service.OnNewSourceIngested(req.SourceID)
	case "source-removed":
		h.service.OnSourceRemoved(req.SourceID)
	case "mapping-changed":
		h.service.OnMappingChanged(domain.Dimension(req.Dimension))
	case "variable-selection-changed":
		h.service.OnVariableSelectionChanged()
	case "filter-changed":
		h.service.OnFilterChanged()
	case "corpus-cleared":
		h.service.OnCorpusCleared()
	default:
		apierrors.WriteError(w, apierrors.ErrValidation("event", "unknown invalidation event"))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "invalidated",
		"event":  event,
	})
}
