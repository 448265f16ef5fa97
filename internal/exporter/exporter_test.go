package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func sampleRecords() []domain.AggregatedRecord {
	return []domain.AggregatedRecord{
		{
			GroupKey: domain.GroupKey{
				Specialty:    "Cardiology",
				SurveySource: "MGMA_2024",
				ProviderType: "Physician",
				Region:       "Midwest",
			},
			Variables: map[string]domain.VariableMetrics{
				"work_rvus": {NOrgs: 40, NIncumbents: 500, P25: 7000, P50: 8200, P75: 9500, P90: 11000},
				"tcc":       {NOrgs: 42, NIncumbents: 510, P25: 450000, P50: 520000, P75: 610000, P90: 700000},
			},
		},
	}
}

func TestWriteAggregatedCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	require.NoError(t, w.WriteAggregatedCSV(sampleRecords()))

	f, err := os.Open(filepath.Join(dir, "aggregated.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"specialty", "survey_source", "provider_type", "region", "variable", "n_orgs", "n_incumbents", "p25", "p50", "p75", "p90"}, rows[0])

	// Variables come out in sorted key order.
	assert.Equal(t, []string{"Cardiology", "MGMA_2024", "Physician", "Midwest", "tcc", "42", "510", "450000", "520000", "610000", "700000"}, rows[1])
	assert.Equal(t, "work_rvus", rows[2][4])
	assert.Equal(t, "8200", rows[2][8])
}

func TestWriteAggregatedJSON(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	require.NoError(t, w.WriteAggregatedJSON(sampleRecords()))

	data, err := os.ReadFile(filepath.Join(dir, "aggregated.json"))
	require.NoError(t, err)

	var decoded []domain.AggregatedRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Cardiology", decoded[0].Specialty)
	assert.Equal(t, 520000.0, decoded[0].Variables["tcc"].P50)
}

func TestWriteVariableCatalog(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	catalog := []domain.DiscoveredVariable{
		{RawLabel: "Total Cash Compensation", CanonicalKey: "tcc", Sources: []string{"MGMA_2024"}, RecordCount: 120},
	}
	require.NoError(t, w.WriteVariableCatalog(catalog))

	data, err := os.ReadFile(filepath.Join(dir, "variables.json"))
	require.NoError(t, err)

	var decoded []domain.DiscoveredVariable
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "tcc", decoded[0].CanonicalKey)
}

func TestNewWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewWriter(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
