package pipeline

import (
	"log/slog"
	"strings"

	"surveybench/internal/normalize"
	"surveybench/pkg/contracts/domain"
)

// Field alias lists, highest priority first. Vendors disagree on header
// naming; the first present non-empty alias wins.
var (
	specialtyAliases = []string{
		"specialty", "Specialty", "specialty_name", "Specialty Name",
		"SPECIALTY", "medical_specialty", "Medical Specialty",
	}
	regionAliases = []string{
		"region", "Region", "geographic_region", "Geographic Region",
		"geography", "Geography", "REGION",
	}
	providerTypeAliases = []string{
		"provider_type", "Provider Type", "providerType", "position",
		"Position", "title", "Title", "staff_type",
	}
	orgCountAliases = []string{
		"n_orgs", "N Orgs", "# Orgs", "orgs", "org_count",
		"n_organizations", "Number of Orgs",
	}
	incumbentCountAliases = []string{
		"n_incumbents", "N Incumbents", "# Incumbents", "incumbents",
		"incumbent_count", "n", "N",
	}
	percentileAliases = map[string][]string{
		"p25": {"p25", "P25", "25th", "25th Percentile", "percentile_25"},
		"p50": {"p50", "P50", "50th", "50th Percentile", "percentile_50", "median", "Median"},
		"p75": {"p75", "P75", "75th", "75th Percentile", "percentile_75"},
		"p90": {"p90", "P90", "90th", "90th Percentile", "percentile_90"},
	}
)

// fixedProviderTypeCategories are source categories whose extracts describe a
// single provider population; rows there routinely omit a provider-type
// column and fall back to the source's own declared provider type.
var fixedProviderTypeCategories = map[domain.SourceCategory]bool{
	domain.CategoryCallPay:      true,
	domain.CategoryMoonlighting: true,
}

// Pipeline turns one raw row into one normalized row. It composes the format
// detector with the per-dimension name normalizers and the variable
// normalizer; all mapping state is fixed at construction.
type Pipeline struct {
	specialty    *normalize.NameNormalizer
	region       *normalize.NameNormalizer
	providerType *normalize.NameNormalizer
	variables    *normalize.VariableNormalizer
	logger       *slog.Logger
}

// New creates a pipeline over the given normalizers.
func New(specialty, region, providerType *normalize.NameNormalizer, variables *normalize.VariableNormalizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		specialty:    specialty,
		region:       region,
		providerType: providerType,
		variables:    variables,
		logger:       logger,
	}
}

// NormalizeRow produces the canonical form of one raw row. A row with no
// recognizable metric data still yields a normalized row with an empty
// variable map; callers decide whether to keep it.
func (p *Pipeline) NormalizeRow(source domain.SurveySource, row domain.RawRow) domain.NormalizedRow {
	out := domain.NormalizedRow{
		SurveySource: source.ID,
		SurveyYear:   source.Year,
		Variables:    make(map[string]domain.VariableMetrics),
	}

	out.Specialty = p.specialty.Normalize(source.ID, firstField(row, specialtyAliases))
	out.Region = p.region.Normalize(source.ID, firstField(row, regionAliases))

	rawProvider := firstField(row, providerTypeAliases)
	if rawProvider == "" && fixedProviderTypeCategories[source.Category] {
		rawProvider = source.ProviderType
	}
	if rawProvider == "" {
		rawProvider = source.ProviderType
	}
	out.ProviderType = p.providerType.Normalize(source.ID, rawProvider)

	nOrgs := CoerceCount(firstField(row, orgCountAliases))
	nIncumbents := CoerceCount(firstField(row, incumbentCountAliases))

	format := normalize.DetectRowFormat(row)

	if format.IsLong() {
		p.extractLong(source.ID, row, format.Long, nOrgs, nIncumbents, out.Variables)
	}
	if format.IsWide() {
		p.extractWide(source.ID, row, format.Wide, nOrgs, nIncumbents, out.Variables)
	}

	return out
}

// extractLong stores the row's single variable under its canonical key,
// reading the four percentiles from their accepted field aliases.
func (p *Pipeline) extractLong(sourceID string, row domain.RawRow, long *normalize.LongFormat, nOrgs, nIncumbents int, vars map[string]domain.VariableMetrics) {
	label := strings.TrimSpace(row[long.VariableField])
	if label == "" {
		return
	}

	metrics := domain.VariableMetrics{
		NOrgs:       nOrgs,
		NIncumbents: nIncumbents,
		P25:         CoerceNumber(firstField(row, percentileAliases["p25"])),
		P50:         CoerceNumber(firstField(row, percentileAliases["p50"])),
		P75:         CoerceNumber(firstField(row, percentileAliases["p75"])),
		P90:         CoerceNumber(firstField(row, percentileAliases["p90"])),
	}

	key := p.variables.Normalize(sourceID, label, metrics.P50)
	if key == "" {
		return
	}
	vars[key] = metrics
}

// extractWide stores one VariableMetrics per discovered base-name group.
func (p *Pipeline) extractWide(sourceID string, row domain.RawRow, wide *normalize.WideFormat, nOrgs, nIncumbents int, vars map[string]domain.VariableMetrics) {
	for _, group := range wide.Groups {
		metrics := domain.VariableMetrics{NOrgs: nOrgs, NIncumbents: nIncumbents}
		for pct, column := range group.Columns {
			value := CoerceNumber(row[column])
			switch pct {
			case "p25":
				metrics.P25 = value
			case "p50":
				metrics.P50 = value
			case "p75":
				metrics.P75 = value
			case "p90":
				metrics.P90 = value
			}
		}

		key := p.variables.NormalizeWideBase(sourceID, group.Base, metrics.P50)
		if key == "" {
			continue
		}
		// A long-format variable on the same row keeps precedence over a
		// wide group that resolves to the same canonical key.
		if _, exists := vars[key]; exists {
			continue
		}
		vars[key] = metrics
	}
}

// firstField returns the first present, non-empty field among the aliases.
func firstField(row domain.RawRow, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
