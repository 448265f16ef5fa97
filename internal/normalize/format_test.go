package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func TestSplitMetricColumn(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		wantBase string
		wantPct  string
		wantOK   bool
	}{
		{name: "underscore separator", column: "tcc_p50", wantBase: "tcc", wantPct: "p50", wantOK: true},
		{name: "hyphen separator", column: "wrvu-p25", wantBase: "wrvu", wantPct: "p25", wantOK: true},
		{name: "space separator", column: "cf p90", wantBase: "cf", wantPct: "p90", wantOK: true},
		{name: "ordinal token", column: "comp_75th", wantBase: "comp", wantPct: "p75", wantOK: true},
		{name: "median token", column: "base_median", wantBase: "base", wantPct: "p50", wantOK: true},
		{name: "bare p token", column: "wrvup50", wantBase: "wrvu", wantPct: "p50", wantOK: true},
		{name: "bare ordinal rejected", column: "comp25th", wantOK: false},
		{name: "uppercase", column: "TCC_P50", wantBase: "tcc", wantPct: "p50", wantOK: true},
		{name: "no token", column: "specialty", wantOK: false},
		{name: "token only", column: "p50", wantOK: false},
		{name: "separator only head", column: "_p50", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, pct, ok := SplitMetricColumn(tt.column)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantBase, base)
				assert.Equal(t, tt.wantPct, pct)
			}
		})
	}
}

func TestDetectRowFormat(t *testing.T) {
	t.Run("long format via variable field", func(t *testing.T) {
		row := domain.RawRow{
			"specialty": "Cardiology",
			"variable":  "Total Cash Compensation",
			"p50":       "250000",
		}
		format := DetectRowFormat(row)
		require.True(t, format.IsLong())
		assert.Equal(t, "variable", format.Long.VariableField)
		assert.False(t, format.IsWide())
	})

	t.Run("long format via benchmark alias", func(t *testing.T) {
		row := domain.RawRow{"Benchmark": "Work RVUs"}
		format := DetectRowFormat(row)
		require.True(t, format.IsLong())
		assert.Equal(t, "Benchmark", format.Long.VariableField)
	})

	t.Run("empty variable field is not long", func(t *testing.T) {
		row := domain.RawRow{"variable": "  "}
		format := DetectRowFormat(row)
		assert.False(t, format.IsLong())
	})

	t.Run("wide format groups by base", func(t *testing.T) {
		row := domain.RawRow{
			"specialty": "Cardiology",
			"tcc_p25":   "200000",
			"tcc_p50":   "250000",
			"tcc_p75":   "300000",
			"wrvu_p50":  "4500",
		}
		format := DetectRowFormat(row)
		require.True(t, format.IsWide())
		require.Len(t, format.Wide.Groups, 2)

		// Groups sorted by base name.
		assert.Equal(t, "tcc", format.Wide.Groups[0].Base)
		assert.Len(t, format.Wide.Groups[0].Columns, 3)
		assert.Equal(t, "tcc_p50", format.Wide.Groups[0].Columns["p50"])
		assert.Equal(t, "wrvu", format.Wide.Groups[1].Base)
	})

	t.Run("mixed row is both long and wide", func(t *testing.T) {
		row := domain.RawRow{
			"variable": "Base Salary",
			"tcc_p50":  "250000",
		}
		format := DetectRowFormat(row)
		assert.True(t, format.IsLong())
		assert.True(t, format.IsWide())
	})

	t.Run("plain identity row is neither", func(t *testing.T) {
		row := domain.RawRow{"specialty": "Cardiology", "region": "Midwest"}
		format := DetectRowFormat(row)
		assert.False(t, format.IsLong())
		assert.False(t, format.IsWide())
	})
}

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases and trims", input: "  Cardiology  ", want: "cardiology"},
		{name: "ampersand unified", input: "Obstetrics & Gynecology", want: "obstetrics and gynecology"},
		{name: "punctuation stripped", input: "Hematology/Oncology", want: "hematology/oncology"},
		{name: "commas and parens stripped", input: "Surgery, General (Adult)", want: "surgery general adult"},
		{name: "whitespace collapsed", input: "internal   medicine", want: "internal medicine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestSourceMatches(t *testing.T) {
	tests := []struct {
		name   string
		entry  string
		source string
		want   bool
	}{
		{name: "exact", entry: "MGMA", source: "MGMA", want: true},
		{name: "entry carries year", entry: "MGMA 2023", source: "MGMA", want: true},
		{name: "source carries year", entry: "MGMA", source: "MGMA_2024", want: true},
		{name: "both carry years", entry: "MGMA 2023", source: "MGMA 2024", want: true},
		{name: "case insensitive", entry: "mgma", source: "MGMA", want: true},
		{name: "different vendor", entry: "MGMA", source: "SullivanCotter", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceMatches(tt.entry, tt.source))
		})
	}
}
