package cache

import (
	"log/slog"
	"sync"
	"time"

	"surveybench/pkg/contracts/domain"
)

// Freshness classifies a cached value's age.
type Freshness int

const (
	// Missing means no value is cached.
	Missing Freshness = iota
	// Fresh values are served directly.
	Fresh
	// Stale values are served immediately while a background recompute runs.
	Stale
	// Expired values require a blocking recompute.
	Expired
)

// Config holds the cache freshness windows.
type Config struct {
	// FreshFor is the window during which a cached value is served as-is.
	FreshFor time.Duration
	// StaleFor extends FreshFor: within it a value is stale-but-usable.
	StaleFor time.Duration
}

// DefaultConfig returns the standard 5m fresh / 5m stale windows.
func DefaultConfig() Config {
	return Config{FreshFor: 5 * time.Minute, StaleFor: 5 * time.Minute}
}

type slot[T any] struct {
	value    T
	cachedAt time.Time
	valid    bool
}

// Cache is the memoization state for one corpus. There is no package
// level instance: callers own a *Cache and thread it through.
//
// Slots, from raw to derived:
//
//   - rawScan: per-source raw label scans, mapping-independent
//   - discovery: the canonical variable catalog
//   - mappings: mapping-table snapshots per dimension
//   - aggregation: the full (unfiltered) aggregated record set
//   - summary: grouping/selection derivatives for UI consumption
//   - filtered: filter-scoped aggregation derivatives keyed by filter
//
// Invalidation events clear exactly the subset each upstream mutation makes
// stale; see the On* methods.
type Cache struct {
	mu  sync.Mutex
	cfg Config
	// now is replaceable in tests.
	now    func() time.Time
	logger *slog.Logger

	rawScan     slot[map[string][]domain.RawLabelScan]
	discovery   slot[[]domain.DiscoveredVariable]
	mappings    slot[map[domain.Dimension]domain.MappingTable]
	aggregation slot[[]domain.AggregatedRecord]
	summary     slot[[]VariableSummary]
	filtered    map[string]slot[[]domain.AggregatedRecord]

	refreshing bool
}

// VariableSummary is a per-variable roll-up across the aggregated record
// set, used by variable-selection UIs.
type VariableSummary struct {
	CanonicalKey string `json:"canonical_key"`
	GroupCount   int    `json:"group_count"`
	SourceCount  int    `json:"source_count"`
}

// New creates a cache with the given windows.
func New(cfg Config, logger *slog.Logger) *Cache {
	if cfg.FreshFor <= 0 {
		cfg.FreshFor = DefaultConfig().FreshFor
	}
	if cfg.StaleFor <= 0 {
		cfg.StaleFor = DefaultConfig().StaleFor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
		filtered: make(map[string]slot[[]domain.AggregatedRecord]),
	}
}

// SetClock replaces the cache's time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) freshness(s time.Time, valid bool) Freshness {
	if !valid {
		return Missing
	}
	age := c.now().Sub(s)
	switch {
	case age <= c.cfg.FreshFor:
		return Fresh
	case age <= c.cfg.FreshFor+c.cfg.StaleFor:
		return Stale
	default:
		return Expired
	}
}

// Discovery returns the cached variable catalog and its freshness.
func (c *Cache) Discovery() ([]domain.DiscoveredVariable, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discovery.value, c.freshness(c.discovery.cachedAt, c.discovery.valid)
}

// SetDiscovery caches the variable catalog.
func (c *Cache) SetDiscovery(v []domain.DiscoveredVariable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discovery = slot[[]domain.DiscoveredVariable]{value: v, cachedAt: c.now(), valid: true}
}

// RawScans returns the cached per-source raw scans.
func (c *Cache) RawScans() (map[string][]domain.RawLabelScan, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rawScan.value, c.freshness(c.rawScan.cachedAt, c.rawScan.valid)
}

// SetRawScans caches per-source raw scans keyed by source ID.
func (c *Cache) SetRawScans(v map[string][]domain.RawLabelScan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rawScan = slot[map[string][]domain.RawLabelScan]{value: v, cachedAt: c.now(), valid: true}
}

// Mappings returns the cached mapping-table snapshot.
func (c *Cache) Mappings() (map[domain.Dimension]domain.MappingTable, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mappings.value, c.freshness(c.mappings.cachedAt, c.mappings.valid)
}

// SetMappings caches the mapping-table snapshot.
func (c *Cache) SetMappings(v map[domain.Dimension]domain.MappingTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mappings = slot[map[domain.Dimension]domain.MappingTable]{value: v, cachedAt: c.now(), valid: true}
}

// Aggregation returns the cached full aggregation and its freshness.
func (c *Cache) Aggregation() ([]domain.AggregatedRecord, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aggregation.value, c.freshness(c.aggregation.cachedAt, c.aggregation.valid)
}

// SetAggregation caches the full aggregation.
func (c *Cache) SetAggregation(v []domain.AggregatedRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aggregation = slot[[]domain.AggregatedRecord]{value: v, cachedAt: c.now(), valid: true}
}

// Summary returns the cached variable summary.
func (c *Cache) Summary() ([]VariableSummary, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary.value, c.freshness(c.summary.cachedAt, c.summary.valid)
}

// SetSummary caches the variable summary.
func (c *Cache) SetSummary(v []VariableSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = slot[[]VariableSummary]{value: v, cachedAt: c.now(), valid: true}
}

// Filtered returns the cached filter-scoped derivative for one filter key.
func (c *Cache) Filtered(key string) ([]domain.AggregatedRecord, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.filtered[key]
	return s.value, c.freshness(s.cachedAt, s.valid)
}

// SetFiltered caches a filter-scoped derivative.
func (c *Cache) SetFiltered(key string, v []domain.AggregatedRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filtered[key] = slot[[]domain.AggregatedRecord]{value: v, cachedAt: c.now(), valid: true}
}

// TryBeginRefresh claims the single background-refresh token. It returns
// false if a refresh is already in flight.
func (c *Cache) TryBeginRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refreshing {
		return false
	}
	c.refreshing = true
	return true
}

// EndRefresh releases the background-refresh token.
func (c *Cache) EndRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false
}

// OnNewSourceIngested clears everything: a new source changes the corpus,
// the catalog and every derivative.
func (c *Cache) OnNewSourceIngested() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearAllLocked()
	c.logger.Debug("cache cleared: new source ingested")
}

// OnSourceRemoved clears the aggregation and summary derivatives along with
// the corpus-derived scans; the mapping-table snapshot survives, mappings
// are not corpus-scoped.
func (c *Cache) OnSourceRemoved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rawScan = slot[map[string][]domain.RawLabelScan]{}
	c.discovery = slot[[]domain.DiscoveredVariable]{}
	c.aggregation = slot[[]domain.AggregatedRecord]{}
	c.summary = slot[[]VariableSummary]{}
	c.filtered = make(map[string]slot[[]domain.AggregatedRecord])
	c.logger.Debug("cache cleared: source removed (mappings kept)")
}

// OnMappingChanged clears mapping-dependent derivatives. The raw scans
// survive: re-resolving labels against new mappings does not require
// re-reading rows.
func (c *Cache) OnMappingChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mappings = slot[map[domain.Dimension]domain.MappingTable]{}
	c.discovery = slot[[]domain.DiscoveredVariable]{}
	c.aggregation = slot[[]domain.AggregatedRecord]{}
	c.summary = slot[[]VariableSummary]{}
	c.filtered = make(map[string]slot[[]domain.AggregatedRecord])
	c.logger.Debug("cache cleared: mapping changed (raw scans kept)")
}

// OnVariableSelectionChanged clears the summary and grouping derivatives.
func (c *Cache) OnVariableSelectionChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = slot[[]VariableSummary]{}
	c.logger.Debug("cache cleared: variable selection changed")
}

// OnFilterChanged clears only the filter-scoped derivatives.
func (c *Cache) OnFilterChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filtered = make(map[string]slot[[]domain.AggregatedRecord])
	c.logger.Debug("cache cleared: filter changed")
}

// OnCorpusCleared clears everything.
func (c *Cache) OnCorpusCleared() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearAllLocked()
	c.logger.Debug("cache cleared: corpus cleared")
}

func (c *Cache) clearAllLocked() {
	c.rawScan = slot[map[string][]domain.RawLabelScan]{}
	c.discovery = slot[[]domain.DiscoveredVariable]{}
	c.mappings = slot[map[domain.Dimension]domain.MappingTable]{}
	c.aggregation = slot[[]domain.AggregatedRecord]{}
	c.summary = slot[[]VariableSummary]{}
	c.filtered = make(map[string]slot[[]domain.AggregatedRecord])
}
