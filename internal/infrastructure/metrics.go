package infrastructure

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EngineMetrics holds the engine's OpenTelemetry instruments. All methods
// are safe on a nil receiver so components can run unmetered in tests.
type EngineMetrics struct {
	rowsNormalized      metric.Int64Counter
	sourcesSkipped      metric.Int64Counter
	cacheHits           metric.Int64Counter
	cacheMisses         metric.Int64Counter
	staleServes         metric.Int64Counter
	aggregationDuration metric.Float64Histogram
}

// NewEngineMetrics creates the engine instruments on the given meter.
func NewEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	m := &EngineMetrics{}
	var err error

	if m.rowsNormalized, err = meter.Int64Counter("surveybench_rows_normalized_total",
		metric.WithDescription("Raw rows normalized across all sources")); err != nil {
		return nil, fmt.Errorf("create rows_normalized counter: %w", err)
	}
	if m.sourcesSkipped, err = meter.Int64Counter("surveybench_sources_skipped_total",
		metric.WithDescription("Sources skipped because of per-source failures")); err != nil {
		return nil, fmt.Errorf("create sources_skipped counter: %w", err)
	}
	if m.cacheHits, err = meter.Int64Counter("surveybench_cache_hits_total",
		metric.WithDescription("Cache hits by slot")); err != nil {
		return nil, fmt.Errorf("create cache_hits counter: %w", err)
	}
	if m.cacheMisses, err = meter.Int64Counter("surveybench_cache_misses_total",
		metric.WithDescription("Cache misses by slot")); err != nil {
		return nil, fmt.Errorf("create cache_misses counter: %w", err)
	}
	if m.staleServes, err = meter.Int64Counter("surveybench_cache_stale_serves_total",
		metric.WithDescription("Stale-but-usable serves by slot")); err != nil {
		return nil, fmt.Errorf("create stale_serves counter: %w", err)
	}
	if m.aggregationDuration, err = meter.Float64Histogram("surveybench_aggregation_duration_seconds",
		metric.WithDescription("Wall time of full aggregation passes")); err != nil {
		return nil, fmt.Errorf("create aggregation_duration histogram: %w", err)
	}

	return m, nil
}

// AddRowsNormalized counts normalized rows.
func (m *EngineMetrics) AddRowsNormalized(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.rowsNormalized.Add(ctx, int64(n))
}

// IncSourceSkipped counts one skipped source.
func (m *EngineMetrics) IncSourceSkipped(ctx context.Context, sourceID string) {
	if m == nil {
		return
	}
	m.sourcesSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("source", sourceID)))
}

// IncCacheHit counts one cache hit for a slot.
func (m *EngineMetrics) IncCacheHit(ctx context.Context, slot string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("slot", slot)))
}

// IncCacheMiss counts one cache miss for a slot.
func (m *EngineMetrics) IncCacheMiss(ctx context.Context, slot string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("slot", slot)))
}

// IncStaleServe counts one stale-but-usable serve for a slot.
func (m *EngineMetrics) IncStaleServe(ctx context.Context, slot string) {
	if m == nil {
		return
	}
	m.staleServes.Add(ctx, 1, metric.WithAttributes(attribute.String("slot", slot)))
}

// RecordAggregationDuration records one full aggregation pass.
func (m *EngineMetrics) RecordAggregationDuration(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.aggregationDuration.Record(ctx, seconds)
}
