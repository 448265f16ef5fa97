package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func testCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	c := New(Config{FreshFor: 5 * time.Minute, StaleFor: 5 * time.Minute}, nil)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })
	return c, &now
}

func sampleRecords() []domain.AggregatedRecord {
	return []domain.AggregatedRecord{
		{
			GroupKey: domain.GroupKey{Specialty: "Cardiology", SurveySource: "MGMA", ProviderType: "Physician", Region: "Midwest"},
			Variables: map[string]domain.VariableMetrics{
				"tcc": {P50: 250000},
			},
		},
	}
}

func TestFreshnessWindows(t *testing.T) {
	c, now := testCache(t)

	_, freshness := c.Aggregation()
	assert.Equal(t, Missing, freshness)

	c.SetAggregation(sampleRecords())

	_, freshness = c.Aggregation()
	assert.Equal(t, Fresh, freshness)

	*now = now.Add(4 * time.Minute)
	_, freshness = c.Aggregation()
	assert.Equal(t, Fresh, freshness)

	*now = now.Add(3 * time.Minute) // age 7m: inside the stale window
	records, freshness := c.Aggregation()
	assert.Equal(t, Stale, freshness)
	require.Len(t, records, 1)

	*now = now.Add(4 * time.Minute) // age 11m: past fresh+stale
	_, freshness = c.Aggregation()
	assert.Equal(t, Expired, freshness)
}

func TestFilteredSlotsAreIndependent(t *testing.T) {
	c, _ := testCache(t)

	c.SetFiltered("cardiology", sampleRecords())

	_, freshness := c.Filtered("cardiology")
	assert.Equal(t, Fresh, freshness)
	_, freshness = c.Filtered("dermatology")
	assert.Equal(t, Missing, freshness)
}

func TestOnMappingChangedKeepsRawScans(t *testing.T) {
	c, _ := testCache(t)

	c.SetRawScans(map[string][]domain.RawLabelScan{
		"MGMA": {{RawLabel: "Total Cash Compensation", Format: "long", RecordCount: 10}},
	})
	c.SetDiscovery([]domain.DiscoveredVariable{{CanonicalKey: "tcc"}})
	c.SetMappings(map[domain.Dimension]domain.MappingTable{domain.DimensionVariable: nil})
	c.SetAggregation(sampleRecords())
	c.SetSummary([]VariableSummary{{CanonicalKey: "tcc", GroupCount: 1}})
	c.SetFiltered("k", sampleRecords())

	c.OnMappingChanged()

	scans, freshness := c.RawScans()
	assert.Equal(t, Fresh, freshness)
	require.Contains(t, scans, "MGMA")

	_, freshness = c.Discovery()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Mappings()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Aggregation()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Summary()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Filtered("k")
	assert.Equal(t, Missing, freshness)
}

func TestOnSourceRemovedKeepsMappings(t *testing.T) {
	c, _ := testCache(t)

	c.SetRawScans(map[string][]domain.RawLabelScan{"MGMA": nil})
	c.SetMappings(map[domain.Dimension]domain.MappingTable{domain.DimensionVariable: nil})
	c.SetAggregation(sampleRecords())

	c.OnSourceRemoved()

	_, freshness := c.RawScans()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Aggregation()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Mappings()
	assert.Equal(t, Fresh, freshness)
}

func TestOnNewSourceIngestedClearsEverything(t *testing.T) {
	c, _ := testCache(t)

	c.SetRawScans(map[string][]domain.RawLabelScan{"MGMA": nil})
	c.SetMappings(map[domain.Dimension]domain.MappingTable{domain.DimensionVariable: nil})
	c.SetAggregation(sampleRecords())

	c.OnNewSourceIngested()

	_, freshness := c.RawScans()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Mappings()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Aggregation()
	assert.Equal(t, Missing, freshness)
}

func TestOnVariableSelectionChangedClearsOnlySummary(t *testing.T) {
	c, _ := testCache(t)

	c.SetAggregation(sampleRecords())
	c.SetSummary([]VariableSummary{{CanonicalKey: "tcc"}})

	c.OnVariableSelectionChanged()

	_, freshness := c.Summary()
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Aggregation()
	assert.Equal(t, Fresh, freshness)
}

func TestOnFilterChangedClearsOnlyFiltered(t *testing.T) {
	c, _ := testCache(t)

	c.SetAggregation(sampleRecords())
	c.SetFiltered("k", sampleRecords())

	c.OnFilterChanged()

	_, freshness := c.Filtered("k")
	assert.Equal(t, Missing, freshness)
	_, freshness = c.Aggregation()
	assert.Equal(t, Fresh, freshness)
}

func TestRefreshToken(t *testing.T) {
	c, _ := testCache(t)

	assert.True(t, c.TryBeginRefresh())
	assert.False(t, c.TryBeginRefresh())
	c.EndRefresh()
	assert.True(t, c.TryBeginRefresh())
}
