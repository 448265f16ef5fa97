package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"surveybench/pkg/contracts/domain"
)

func specialtyTable() domain.MappingTable {
	return domain.MappingTable{
		{
			StandardizedName: "Cardiology",
			SourceEntries: []domain.MappingEntry{
				{SurveySource: "MGMA 2023", OriginalLabel: "Cardiology (Noninvasive)"},
				{SurveySource: "SullivanCotter", OriginalLabel: "Cardiology - General"},
			},
		},
	}
}

func TestNameNormalizerResolutionOrder(t *testing.T) {
	learned := domain.LearnedMappings{
		"cards": "Cardiology",
	}
	n := NewNameNormalizer(domain.DimensionSpecialty, specialtyTable(), learned, nil)

	tests := []struct {
		name   string
		source string
		raw    string
		want   string
	}{
		{
			name:   "curated exact with year-tolerant source",
			source: "MGMA 2024",
			raw:    "Cardiology (Noninvasive)",
			want:   "Cardiology",
		},
		{
			name:   "curated fuzzy ignores case and punctuation",
			source: "SullivanCotter",
			raw:    "cardiology   general",
			want:   "Cardiology",
		},
		{
			name:   "learned by lowercased label",
			source: "AMGA",
			raw:    "Cards",
			want:   "Cardiology",
		},
		{
			name:   "unmapped label passes through cleaned",
			source: "AMGA",
			raw:    "  Pediatric   Neurology ",
			want:   "Pediatric Neurology",
		},
		{
			name:   "curated entry does not leak across vendors",
			source: "AMGA",
			raw:    "Cardiology (Noninvasive)",
			want:   "Cardiology (Noninvasive)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.source, tt.raw))
		})
	}
}

func TestNameNormalizerEmptyLabel(t *testing.T) {
	n := NewNameNormalizer(domain.DimensionSpecialty, nil, nil, nil)
	assert.Equal(t, "", n.Normalize("MGMA", "   "))
}

func TestRegionBucketing(t *testing.T) {
	n := NewNameNormalizer(domain.DimensionRegion, nil, nil, nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "national", raw: "National", want: RegionNational},
		{name: "all collapses to national", raw: "All", want: RegionNational},
		{name: "northeast", raw: "North East Region", want: RegionNortheast},
		{name: "eastern buckets northeast", raw: "Eastern", want: RegionNortheast},
		{name: "southern buckets southeast", raw: "Southern", want: RegionSoutheast},
		{name: "midwest", raw: "MIDWEST", want: RegionMidwest},
		{name: "north central buckets midwest", raw: "North Central", want: RegionMidwest},
		{name: "west buckets western", raw: "West", want: RegionWestern},
		{name: "new england preserved", raw: "New England", want: "New England"},
		{name: "mid atlantic preserved", raw: "Mid-Atlantic", want: "Mid-Atlantic"},
		{name: "pacific preserved", raw: "Pacific", want: "Pacific"},
		{name: "mountain preserved", raw: "Mountain", want: "Mountain"},
		{name: "unknown passes through", raw: "Gulf Coast", want: "Gulf Coast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize("MGMA", tt.raw))
		})
	}
}

func TestProviderTypeClassification(t *testing.T) {
	n := NewNameNormalizer(domain.DimensionProviderType, nil, nil, nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "physician", raw: "Staff Physician", want: ProviderPhysician},
		{name: "md", raw: "MD", want: ProviderPhysician},
		{name: "nurse practitioner", raw: "Nurse Practitioner", want: ProviderAPP},
		{name: "physician assistant", raw: "Physician Assistant", want: ProviderAPP},
		{name: "app abbreviation", raw: "APP", want: ProviderAPP},
		{name: "crna", raw: "CRNA", want: ProviderCRNA},
		{name: "nurse anesthetist", raw: "Certified Nurse Anesthetist", want: ProviderCRNA},
		{name: "chief preserved verbatim", raw: "Chief of Cardiology", want: "Chief of Cardiology"},
		{name: "medical director preserved", raw: "Medical Director", want: "Medical Director"},
		{name: "department chair preserved", raw: "Department Chair, Surgery", want: "Department Chair, Surgery"},
		{name: "vice president preserved", raw: "Vice President, Medical Affairs", want: "Vice President, Medical Affairs"},
		{name: "unknown passes through", raw: "Locum Tenens", want: "Locum Tenens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize("MGMA", tt.raw))
		})
	}
}
