package aggregate

import (
	"log/slog"
	"sort"

	"surveybench/pkg/contracts/domain"
)

// Engine groups normalized rows into aggregation cells and selects one
// representative metrics value per canonical variable per cell.
type Engine struct {
	logger *slog.Logger
}

// New creates an aggregation engine.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Aggregate groups rows by (specialty, surveySource, providerType, region)
// and emits one record per group over the union of canonical variables seen
// in that group.
//
// Representative selection is earliest-nonzero-wins: the first row in input
// order whose metrics for a variable carry a nonzero median supplies that
// variable's metrics unchanged. If no row qualifies, the variable is absent
// from the record (no data), never recorded as zero. This tie-break exists
// for compatibility with curated historical output; do not reuse it in new
// aggregation paths.
func (e *Engine) Aggregate(rows []domain.NormalizedRow) []domain.AggregatedRecord {
	type group struct {
		key  domain.GroupKey
		vars map[string]domain.VariableMetrics
	}

	groups := make(map[domain.GroupKey]*group)
	order := make([]domain.GroupKey, 0)

	for _, row := range rows {
		key := row.Key()
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, vars: make(map[string]domain.VariableMetrics)}
			groups[key] = g
			order = append(order, key)
		}

		for variable, metrics := range row.Variables {
			if existing, seen := g.vars[variable]; seen && existing.HasData() {
				continue
			}
			if metrics.HasData() {
				g.vars[variable] = metrics
				continue
			}
			// Remember that the variable was observed, without data, so the
			// record's variable union is still correct when no row qualifies.
			if _, seen := g.vars[variable]; !seen {
				g.vars[variable] = domain.VariableMetrics{}
			}
		}
	}

	records := make([]domain.AggregatedRecord, 0, len(groups))
	for _, key := range order {
		g := groups[key]
		record := domain.AggregatedRecord{
			GroupKey:  g.key,
			Variables: make(map[string]domain.VariableMetrics, len(g.vars)),
		}
		for variable, metrics := range g.vars {
			if !metrics.HasData() {
				continue
			}
			record.Variables[variable] = metrics
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].GroupKey, records[j].GroupKey
		if a.Specialty != b.Specialty {
			return a.Specialty < b.Specialty
		}
		if a.SurveySource != b.SurveySource {
			return a.SurveySource < b.SurveySource
		}
		if a.ProviderType != b.ProviderType {
			return a.ProviderType < b.ProviderType
		}
		return a.Region < b.Region
	})

	e.logger.Debug("aggregation complete",
		slog.Int("rows", len(rows)),
		slog.Int("groups", len(records)))

	return records
}
