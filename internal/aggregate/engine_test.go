package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func row(specialty, source, providerType, region string, vars map[string]domain.VariableMetrics) domain.NormalizedRow {
	return domain.NormalizedRow{
		Specialty:    specialty,
		ProviderType: providerType,
		Region:       region,
		SurveySource: source,
		Variables:    vars,
	}
}

func TestAggregateGroupsAndMerges(t *testing.T) {
	e := New(nil)

	rows := []domain.NormalizedRow{
		row("Cardiology", "MGMA_2024", "Physician", "Midwest", map[string]domain.VariableMetrics{
			"tcc": {NOrgs: 120, NIncumbents: 480, P50: 250000},
		}),
		row("Cardiology", "MGMA_2024", "Physician", "Midwest", map[string]domain.VariableMetrics{
			"work_rvus": {NOrgs: 120, NIncumbents: 480, P50: 4500},
		}),
		row("Cardiology", "MGMA_2024", "Physician", "National", map[string]domain.VariableMetrics{
			"tcc": {P50: 260000},
		}),
	}

	records := e.Aggregate(rows)
	require.Len(t, records, 2)

	// Sorted by group key: Midwest before National.
	midwest := records[0]
	assert.Equal(t, "Midwest", midwest.Region)
	require.Len(t, midwest.Variables, 2)
	assert.Equal(t, 250000.0, midwest.Variables["tcc"].P50)
	assert.Equal(t, 4500.0, midwest.Variables["work_rvus"].P50)

	national := records[1]
	assert.Equal(t, "National", national.Region)
	assert.Equal(t, 260000.0, national.Variables["tcc"].P50)
}

func TestAggregateEarliestNonzeroWins(t *testing.T) {
	e := New(nil)

	rows := []domain.NormalizedRow{
		// Zero median means no data; it must not claim the variable.
		row("Cardiology", "MGMA_2024", "Physician", "Midwest", map[string]domain.VariableMetrics{
			"tcc": {NOrgs: 10, P50: 0},
		}),
		row("Cardiology", "MGMA_2024", "Physician", "Midwest", map[string]domain.VariableMetrics{
			"tcc": {NOrgs: 20, P50: 250000, P75: 300000},
		}),
		// A later nonzero row does not displace the earlier winner.
		row("Cardiology", "MGMA_2024", "Physician", "Midwest", map[string]domain.VariableMetrics{
			"tcc": {NOrgs: 30, P50: 999999},
		}),
	}

	records := e.Aggregate(rows)
	require.Len(t, records, 1)

	m := records[0].Variables["tcc"]
	assert.Equal(t, 20, m.NOrgs)
	assert.Equal(t, 250000.0, m.P50)
	// Percentiles pass through from the winning row unchanged.
	assert.Equal(t, 300000.0, m.P75)
}

func TestAggregateDropsVariablesWithoutData(t *testing.T) {
	e := New(nil)

	rows := []domain.NormalizedRow{
		row("Cardiology", "MGMA_2024", "Physician", "Midwest", map[string]domain.VariableMetrics{
			"tcc":       {P50: 250000},
			"incentive": {NOrgs: 15, P50: 0},
		}),
	}

	records := e.Aggregate(rows)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Variables, "tcc")
	assert.NotContains(t, records[0].Variables, "incentive")
}

func TestAggregateEmptyInput(t *testing.T) {
	e := New(nil)
	assert.Empty(t, e.Aggregate(nil))
}

func TestAggregateSortsByFullKey(t *testing.T) {
	e := New(nil)

	rows := []domain.NormalizedRow{
		row("Dermatology", "AMGA", "Physician", "National", map[string]domain.VariableMetrics{"tcc": {P50: 1}}),
		row("Cardiology", "MGMA", "Physician", "National", map[string]domain.VariableMetrics{"tcc": {P50: 1}}),
		row("Cardiology", "AMGA", "Physician", "National", map[string]domain.VariableMetrics{"tcc": {P50: 1}}),
	}

	records := e.Aggregate(rows)
	require.Len(t, records, 3)
	assert.Equal(t, "Cardiology", records[0].Specialty)
	assert.Equal(t, "AMGA", records[0].SurveySource)
	assert.Equal(t, "Cardiology", records[1].Specialty)
	assert.Equal(t, "MGMA", records[1].SurveySource)
	assert.Equal(t, "Dermatology", records[2].Specialty)
}
