package http

import (
	"context"

	"surveybench/internal/cache"
	"surveybench/internal/services"
	"surveybench/pkg/contracts/domain"
)

// BenchmarkService is the service surface the handlers depend on.
type BenchmarkService interface {
	DiscoverVariables(ctx context.Context, categoryFilter domain.SourceCategory) ([]domain.DiscoveredVariable, error)
	GetAggregatedData(ctx context.Context, filter services.AggregationFilter) ([]domain.AggregatedRecord, error)
	GetVariableSummary(ctx context.Context) ([]cache.VariableSummary, error)

	OnNewSourceIngested(sourceID string)
	OnSourceRemoved(sourceID string)
	OnMappingChanged(dimension domain.Dimension)
	OnVariableSelectionChanged()
	OnFilterChanged()
	OnCorpusCleared()
}
