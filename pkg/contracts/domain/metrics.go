package domain

// VariableMetrics is the vendor-supplied distribution summary for one
// canonical variable. Percentiles are passed through from source data and
// never recomputed.
//
// A zero-valued median marks the "no data" state: vendors report suppressed
// cells with sentinel markers that coerce to zero, so a zero median is
// treated as missing rather than as a true measurement.
type VariableMetrics struct {
	NOrgs       int     `json:"n_orgs"`
	NIncumbents int     `json:"n_incumbents"`
	P25         float64 `json:"p25"`
	P50         float64 `json:"p50"`
	P75         float64 `json:"p75"`
	P90         float64 `json:"p90"`
}

// HasData reports whether the metrics represent an actual observation.
func (m VariableMetrics) HasData() bool {
	return m.P50 != 0
}

// NormalizedRow is the canonical form of one raw row. It is transient:
// produced fresh per aggregation pass and never persisted.
type NormalizedRow struct {
	Specialty    string                     `json:"specialty"`
	ProviderType string                     `json:"provider_type"`
	Region       string                     `json:"region"`
	SurveySource string                     `json:"survey_source"`
	SurveyYear   int                        `json:"survey_year"`
	Variables    map[string]VariableMetrics `json:"variables"`
}

// GroupKey identifies one aggregation cell. It is a pure function of the
// four identity fields of a NormalizedRow.
type GroupKey struct {
	Specialty    string `json:"specialty"`
	SurveySource string `json:"survey_source"`
	ProviderType string `json:"provider_type"`
	Region       string `json:"region"`
}

// Key returns the grouping key for the row.
func (r NormalizedRow) Key() GroupKey {
	return GroupKey{
		Specialty:    r.Specialty,
		SurveySource: r.SurveySource,
		ProviderType: r.ProviderType,
		Region:       r.Region,
	}
}

// AggregatedRecord is one aggregation cell: the grouping key plus the
// representative metrics for every canonical variable observed in the group.
type AggregatedRecord struct {
	GroupKey
	Variables map[string]VariableMetrics `json:"variables"`
}
