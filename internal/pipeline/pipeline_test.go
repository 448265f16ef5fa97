package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/internal/normalize"
	"surveybench/pkg/contracts/domain"
)

func newTestPipeline() *Pipeline {
	specialty := normalize.NewNameNormalizer(domain.DimensionSpecialty, nil, nil, nil)
	region := normalize.NewNameNormalizer(domain.DimensionRegion, nil, nil, nil)
	providerType := normalize.NewNameNormalizer(domain.DimensionProviderType, nil, nil, nil)
	variables := normalize.NewVariableNormalizer(nil, nil, nil)
	return New(specialty, region, providerType, variables, nil)
}

func compensationSource() domain.SurveySource {
	return domain.SurveySource{
		ID:         "MGMA_2024",
		VendorName: "MGMA",
		Category:   domain.CategoryCompensation,
		Year:       2024,
	}
}

func TestNormalizeRowLongFormat(t *testing.T) {
	p := newTestPipeline()

	row := domain.RawRow{
		"specialty":     "Cardiology",
		"region":        "Midwest",
		"provider_type": "Staff Physician",
		"variable":      "Total Cash Compensation",
		"n_orgs":        "1,200",
		"n_incumbents":  "***",
		"p25":           "$200,000",
		"p50":           "$250,000",
		"p75":           "$300,000",
		"p90":           "$350,000",
	}

	out := p.NormalizeRow(compensationSource(), row)

	assert.Equal(t, "Cardiology", out.Specialty)
	assert.Equal(t, "Midwest", out.Region)
	assert.Equal(t, "Physician", out.ProviderType)
	assert.Equal(t, "MGMA_2024", out.SurveySource)
	assert.Equal(t, 2024, out.SurveyYear)

	require.Contains(t, out.Variables, "tcc")
	m := out.Variables["tcc"]
	assert.Equal(t, 1200, m.NOrgs)
	assert.Equal(t, 0, m.NIncumbents)
	assert.Equal(t, 200000.0, m.P25)
	assert.Equal(t, 250000.0, m.P50)
	assert.Equal(t, 300000.0, m.P75)
	assert.Equal(t, 350000.0, m.P90)
}

func TestNormalizeRowWideFormat(t *testing.T) {
	p := newTestPipeline()

	row := domain.RawRow{
		"specialty": "Cardiology",
		"tcc_p25":   "200000",
		"tcc_p50":   "250000",
		"wrvu_p50":  "4500",
		"cf_p50":    "55.5",
	}

	out := p.NormalizeRow(compensationSource(), row)

	require.Contains(t, out.Variables, "tcc")
	require.Contains(t, out.Variables, "work_rvus")
	require.Contains(t, out.Variables, "tcc_per_work_rvu")

	assert.Equal(t, 250000.0, out.Variables["tcc"].P50)
	assert.Equal(t, 200000.0, out.Variables["tcc"].P25)
	assert.Equal(t, 4500.0, out.Variables["work_rvus"].P50)
	assert.Equal(t, 55.5, out.Variables["tcc_per_work_rvu"].P50)
}

func TestNormalizeRowLongWinsOverWideDuplicate(t *testing.T) {
	p := newTestPipeline()

	// The long-format variable resolves to tcc; the wide tcc_* group on the
	// same row resolves to the same key and must not overwrite it.
	row := domain.RawRow{
		"variable": "Total Cash Compensation",
		"p50":      "260000",
		"tcc_p50":  "111111",
	}

	out := p.NormalizeRow(compensationSource(), row)

	require.Contains(t, out.Variables, "tcc")
	assert.Equal(t, 260000.0, out.Variables["tcc"].P50)
}

func TestNormalizeRowFixedProviderType(t *testing.T) {
	p := newTestPipeline()

	source := domain.SurveySource{
		ID:           "CallPay_2024",
		VendorName:   "CallPay",
		Category:     domain.CategoryCallPay,
		ProviderType: "Physician",
		Year:         2024,
	}
	row := domain.RawRow{
		"specialty": "Cardiology",
		"variable":  "Daily Call Rate",
		"p50":       "1500",
	}

	out := p.NormalizeRow(source, row)
	assert.Equal(t, "Physician", out.ProviderType)
	require.Contains(t, out.Variables, "call_pay_daily")
}

func TestNormalizeRowNoMetrics(t *testing.T) {
	p := newTestPipeline()

	row := domain.RawRow{"specialty": "Cardiology", "region": "Midwest"}
	out := p.NormalizeRow(compensationSource(), row)

	assert.Equal(t, "Cardiology", out.Specialty)
	assert.Empty(t, out.Variables)
}

func TestNormalizeRowMedianAliasAccepted(t *testing.T) {
	p := newTestPipeline()

	row := domain.RawRow{
		"variable": "Work RVUs",
		"Median":   "4,800",
	}

	out := p.NormalizeRow(compensationSource(), row)
	require.Contains(t, out.Variables, "work_rvus")
	assert.Equal(t, 4800.0, out.Variables["work_rvus"].P50)
}
