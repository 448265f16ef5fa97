package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"surveybench/internal/aggregate"
	"surveybench/internal/cache"
	"surveybench/internal/discovery"
	apperrors "surveybench/internal/errors"
	"surveybench/internal/infrastructure"
	"surveybench/internal/mappings"
	"surveybench/internal/normalize"
	"surveybench/internal/pipeline"
	"surveybench/internal/rowstore"
	"surveybench/pkg/contracts/domain"
)

// Config tunes the service's corpus traversal.
type Config struct {
	// ChunkSize is the page size used when pulling rows from the store.
	ChunkSize int
	// SourceConcurrency bounds how many sources are processed at once.
	SourceConcurrency int
}

// DefaultConfig returns the traversal defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:         5000,
		SourceConcurrency: 4,
	}
}

// AggregationFilter narrows aggregated output to matching group keys.
// Empty fields match everything.
type AggregationFilter struct {
	Specialty    string `json:"specialty" validate:"omitempty,min=1,max=200"`
	Region       string `json:"region" validate:"omitempty,min=1,max=100"`
	ProviderType string `json:"provider_type" validate:"omitempty,min=1,max=100"`
	SurveySource string `json:"survey_source" validate:"omitempty,min=1,max=200"`
}

// IsZero reports whether the filter matches the whole corpus.
func (f AggregationFilter) IsZero() bool {
	return f.Specialty == "" && f.Region == "" && f.ProviderType == "" && f.SurveySource == ""
}

// CacheKey returns a stable key for the filtered-result cache.
func (f AggregationFilter) CacheKey() string {
	return strings.Join([]string{f.Specialty, f.Region, f.ProviderType, f.SurveySource}, "\x1f")
}

func (f AggregationFilter) matches(key domain.GroupKey) bool {
	if f.Specialty != "" && !strings.EqualFold(f.Specialty, key.Specialty) {
		return false
	}
	if f.Region != "" && !strings.EqualFold(f.Region, key.Region) {
		return false
	}
	if f.ProviderType != "" && !strings.EqualFold(f.ProviderType, key.ProviderType) {
		return false
	}
	if f.SurveySource != "" && !normalize.SourceMatches(f.SurveySource, key.SurveySource) {
		return false
	}
	return true
}

// BenchmarkService orchestrates discovery and aggregation over the row
// store, with caching and mapping resolution.
type BenchmarkService struct {
	store    rowstore.Store
	mappings mappings.Provider
	cache    *cache.Cache
	engine   *aggregate.Engine
	metrics  *infrastructure.EngineMetrics
	logger   *slog.Logger
	validate *validator.Validate
	cfg      Config
}

// NewBenchmarkService creates the service. A nil logger falls back to
// slog.Default; a nil metrics handle disables instrumentation.
func NewBenchmarkService(store rowstore.Store, provider mappings.Provider, c *cache.Cache, metrics *infrastructure.EngineMetrics, logger *slog.Logger, cfg Config) *BenchmarkService {
	if logger == nil {
		logger = slog.Default()
	}
	if c == nil {
		c = cache.New(cache.DefaultConfig(), logger)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.SourceConcurrency <= 0 {
		cfg.SourceConcurrency = DefaultConfig().SourceConcurrency
	}
	return &BenchmarkService{
		store:    store,
		mappings: provider,
		cache:    c,
		engine:   aggregate.New(logger),
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// buildNormalizers assembles the per-dimension normalizers from the
// current mapping tables. Tables are cached; learned mappings are read
// fresh each pass since they change whenever a user confirms a match.
func (s *BenchmarkService) buildNormalizers(ctx context.Context) (*pipeline.Pipeline, *discovery.Service, error) {
	dims := []domain.Dimension{
		domain.DimensionSpecialty,
		domain.DimensionRegion,
		domain.DimensionProviderType,
		domain.DimensionVariable,
	}

	tables, freshness := s.cache.Mappings()
	if freshness != cache.Fresh {
		s.metrics.IncCacheMiss(ctx, "mappings")
		tables = make(map[domain.Dimension]domain.MappingTable, len(dims))
		for _, dim := range dims {
			table, err := s.mappings.MappingTable(ctx, dim)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: load %s table: %v", apperrors.ErrMappingsUnavailable, dim, err)
			}
			tables[dim] = table
		}
		s.cache.SetMappings(tables)
	} else {
		s.metrics.IncCacheHit(ctx, "mappings")
	}

	learned := make(map[domain.Dimension]domain.LearnedMappings, len(dims))
	for _, dim := range dims {
		lm, err := s.mappings.LearnedMappings(ctx, dim)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: load learned %s mappings: %v", apperrors.ErrMappingsUnavailable, dim, err)
		}
		learned[dim] = lm
	}

	specialty := normalize.NewNameNormalizer(domain.DimensionSpecialty, tables[domain.DimensionSpecialty], learned[domain.DimensionSpecialty], s.logger)
	region := normalize.NewNameNormalizer(domain.DimensionRegion, tables[domain.DimensionRegion], learned[domain.DimensionRegion], s.logger)
	providerType := normalize.NewNameNormalizer(domain.DimensionProviderType, tables[domain.DimensionProviderType], learned[domain.DimensionProviderType], s.logger)
	variables := normalize.NewVariableNormalizer(tables[domain.DimensionVariable], learned[domain.DimensionVariable], s.logger)

	pl := pipeline.New(specialty, region, providerType, variables, s.logger)
	disco := discovery.New(variables, s.logger)
	return pl, disco, nil
}

// fetchRows pages through a source's rows, honoring ctx between pages.
func (s *BenchmarkService) fetchRows(ctx context.Context, sourceID string) ([]domain.RawRow, error) {
	var all []domain.RawRow
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.store.GetRows(ctx, sourceID, nil, s.cfg.ChunkSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch rows for %s at offset %d: %w", sourceID, offset, err)
		}
		all = append(all, page...)
		if len(page) < s.cfg.ChunkSize {
			return all, nil
		}
		offset += len(page)
	}
}

// listSources wraps store failures as a corpus-level error.
func (s *BenchmarkService) listSources(ctx context.Context) ([]domain.SurveySource, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRowStoreUnavailable, err)
	}
	return sources, nil
}

// forEachSource runs fn over every source with bounded concurrency.
// A per-source failure is logged and the source skipped; only context
// cancellation aborts the whole traversal.
func (s *BenchmarkService) forEachSource(ctx context.Context, sources []domain.SurveySource, fn func(ctx context.Context, src domain.SurveySource) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SourceConcurrency)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			if err := fn(gctx, src); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn("skipping source after failure",
					slog.String("source", src.ID),
					slog.String("vendor", src.VendorName),
					slog.String("error", err.Error()))
				s.metrics.IncSourceSkipped(gctx, src.ID)
			}
			return nil
		})
	}
	return g.Wait()
}

// computeAggregation runs the full normalize-and-aggregate pass over
// every source in the store.
func (s *BenchmarkService) computeAggregation(ctx context.Context) ([]domain.AggregatedRecord, error) {
	start := time.Now()

	sources, err := s.listSources(ctx)
	if err != nil {
		return nil, err
	}
	pl, _, err := s.buildNormalizers(ctx)
	if err != nil {
		return nil, err
	}

	normalized := make([][]domain.NormalizedRow, len(sources))
	index := make(map[string]int, len(sources))
	for i, src := range sources {
		index[src.ID] = i
	}

	err = s.forEachSource(ctx, sources, func(ctx context.Context, src domain.SurveySource) error {
		rows, err := s.fetchRows(ctx, src.ID)
		if err != nil {
			return err
		}
		out := make([]domain.NormalizedRow, 0, len(rows))
		for i, raw := range rows {
			if i%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			nr := pl.NormalizeRow(src, raw)
			if len(nr.Variables) == 0 {
				continue
			}
			out = append(out, nr)
		}
		normalized[index[src.ID]] = out
		s.metrics.AddRowsNormalized(ctx, len(out))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Concatenate in source order so earliest-wins ties stay stable.
	var all []domain.NormalizedRow
	for _, rows := range normalized {
		all = append(all, rows...)
	}

	records := s.engine.Aggregate(all)
	s.metrics.RecordAggregationDuration(ctx, time.Since(start).Seconds())
	s.logger.Info("aggregation pass complete",
		slog.Int("sources", len(sources)),
		slog.Int("rows", len(all)),
		slog.Int("groups", len(records)),
		slog.Duration("elapsed", time.Since(start)))
	return records, nil
}

// aggregation returns the corpus-wide aggregation, serving cache when
// fresh, serving stale data with a background refresh when usable, and
// computing inline otherwise.
func (s *BenchmarkService) aggregation(ctx context.Context) ([]domain.AggregatedRecord, error) {
	records, freshness := s.cache.Aggregation()
	switch freshness {
	case cache.Fresh:
		s.metrics.IncCacheHit(ctx, "aggregation")
		return records, nil
	case cache.Stale:
		s.metrics.IncStaleServe(ctx, "aggregation")
		s.refreshAggregationAsync()
		return records, nil
	}

	s.metrics.IncCacheMiss(ctx, "aggregation")
	records, err := s.computeAggregation(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetAggregation(records)
	return records, nil
}

// refreshAggregationAsync recomputes the aggregation in the background.
// At most one refresh runs at a time.
func (s *BenchmarkService) refreshAggregationAsync() {
	if !s.cache.TryBeginRefresh() {
		return
	}
	go func() {
		defer s.cache.EndRefresh()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		records, err := s.computeAggregation(ctx)
		if err != nil {
			s.logger.Warn("background aggregation refresh failed", slog.String("error", err.Error()))
			return
		}
		s.cache.SetAggregation(records)
	}()
}

// GetAggregatedData returns aggregated records matching the filter.
func (s *BenchmarkService) GetAggregatedData(ctx context.Context, filter AggregationFilter) ([]domain.AggregatedRecord, error) {
	if err := s.validate.Struct(filter); err != nil {
		return nil, fmt.Errorf("invalid aggregation filter: %w", err)
	}

	if filter.IsZero() {
		return s.aggregation(ctx)
	}

	key := filter.CacheKey()
	if cached, freshness := s.cache.Filtered(key); freshness == cache.Fresh {
		s.metrics.IncCacheHit(ctx, "filtered")
		return cached, nil
	}
	s.metrics.IncCacheMiss(ctx, "filtered")

	records, err := s.aggregation(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.AggregatedRecord, 0)
	for _, rec := range records {
		if filter.matches(rec.GroupKey) {
			filtered = append(filtered, rec)
		}
	}
	s.cache.SetFiltered(key, filtered)
	return filtered, nil
}

// rawScans returns the per-source raw label scans, cached since they
// are independent of the mapping tables.
func (s *BenchmarkService) rawScans(ctx context.Context, disco *discovery.Service, sources []domain.SurveySource) (map[string][]domain.RawLabelScan, error) {
	scans, freshness := s.cache.RawScans()
	if freshness == cache.Fresh {
		s.metrics.IncCacheHit(ctx, "rawscan")
		return scans, nil
	}
	s.metrics.IncCacheMiss(ctx, "rawscan")

	scans = make(map[string][]domain.RawLabelScan, len(sources))
	var mu sync.Mutex
	err := s.forEachSource(ctx, sources, func(ctx context.Context, src domain.SurveySource) error {
		rows, err := s.fetchRows(ctx, src.ID)
		if err != nil {
			return err
		}
		scan, err := disco.ScanSource(ctx, src, rows)
		if err != nil {
			return err
		}
		mu.Lock()
		scans[src.ID] = scan
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.SetRawScans(scans)
	return scans, nil
}

// computeDiscovery runs the full scan-and-resolve pass over the corpus.
func (s *BenchmarkService) computeDiscovery(ctx context.Context, categoryFilter domain.SourceCategory) ([]domain.DiscoveredVariable, error) {
	sources, err := s.listSources(ctx)
	if err != nil {
		return nil, err
	}
	_, disco, err := s.buildNormalizers(ctx)
	if err != nil {
		return nil, err
	}

	scans, err := s.rawScans(ctx, disco, sources)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.SurveySource, len(sources))
	for _, src := range sources {
		byID[src.ID] = src
	}

	return disco.Resolve(scans, byID, categoryFilter), nil
}

// refreshDiscoveryAsync recomputes the unfiltered catalog in the
// background. At most one refresh runs at a time.
func (s *BenchmarkService) refreshDiscoveryAsync() {
	if !s.cache.TryBeginRefresh() {
		return
	}
	go func() {
		defer s.cache.EndRefresh()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		catalog, err := s.computeDiscovery(ctx, "")
		if err != nil {
			s.logger.Warn("background discovery refresh failed", slog.String("error", err.Error()))
			return
		}
		s.cache.SetDiscovery(catalog)
	}()
}

// DiscoverVariables scans the corpus for distinct metric labels and
// resolves them to canonical variables. categoryFilter narrows results
// to sources of one category; filtered discovery is computed on demand
// and only the unfiltered catalog is cached.
func (s *BenchmarkService) DiscoverVariables(ctx context.Context, categoryFilter domain.SourceCategory) ([]domain.DiscoveredVariable, error) {
	if categoryFilter == "" {
		cached, freshness := s.cache.Discovery()
		switch freshness {
		case cache.Fresh:
			s.metrics.IncCacheHit(ctx, "discovery")
			return cached, nil
		case cache.Stale:
			s.metrics.IncStaleServe(ctx, "discovery")
			s.refreshDiscoveryAsync()
			return cached, nil
		}
		s.metrics.IncCacheMiss(ctx, "discovery")
	}

	catalog, err := s.computeDiscovery(ctx, categoryFilter)
	if err != nil {
		return nil, err
	}
	if categoryFilter == "" {
		s.cache.SetDiscovery(catalog)
	}
	return catalog, nil
}

// GetVariableSummary returns per-variable coverage counts across the
// aggregated corpus.
func (s *BenchmarkService) GetVariableSummary(ctx context.Context) ([]cache.VariableSummary, error) {
	if cached, freshness := s.cache.Summary(); freshness == cache.Fresh {
		s.metrics.IncCacheHit(ctx, "summary")
		return cached, nil
	}
	s.metrics.IncCacheMiss(ctx, "summary")

	records, err := s.aggregation(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]int)
	sourceSets := make(map[string]map[string]struct{})
	for _, rec := range records {
		for key := range rec.Variables {
			groups[key]++
			set := sourceSets[key]
			if set == nil {
				set = make(map[string]struct{})
				sourceSets[key] = set
			}
			set[rec.SurveySource] = struct{}{}
		}
	}

	summary := make([]cache.VariableSummary, 0, len(groups))
	for key, n := range groups {
		summary = append(summary, cache.VariableSummary{
			CanonicalKey: key,
			GroupCount:   n,
			SourceCount:  len(sourceSets[key]),
		})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].CanonicalKey < summary[j].CanonicalKey })

	s.cache.SetSummary(summary)
	return summary, nil
}

// OnNewSourceIngested invalidates everything derived from the corpus.
func (s *BenchmarkService) OnNewSourceIngested(sourceID string) {
	s.logger.Info("source ingested, invalidating caches", slog.String("source", sourceID))
	s.cache.OnNewSourceIngested()
}

// OnSourceRemoved invalidates corpus-derived state but keeps mapping tables.
func (s *BenchmarkService) OnSourceRemoved(sourceID string) {
	s.logger.Info("source removed, invalidating caches", slog.String("source", sourceID))
	s.cache.OnSourceRemoved()
}

// OnMappingChanged invalidates mapping-dependent state. Raw label scans
// survive so discovery re-resolves without re-reading the corpus.
func (s *BenchmarkService) OnMappingChanged(dimension domain.Dimension) {
	s.logger.Info("mapping changed, invalidating derived caches", slog.String("dimension", string(dimension)))
	s.cache.OnMappingChanged()
}

// OnVariableSelectionChanged invalidates only the variable summary.
func (s *BenchmarkService) OnVariableSelectionChanged() {
	s.cache.OnVariableSelectionChanged()
}

// OnFilterChanged invalidates only filtered result sets.
func (s *BenchmarkService) OnFilterChanged() {
	s.cache.OnFilterChanged()
}

// OnCorpusCleared invalidates everything.
func (s *BenchmarkService) OnCorpusCleared() {
	s.logger.Info("corpus cleared, invalidating all caches")
	s.cache.OnCorpusCleared()
}
