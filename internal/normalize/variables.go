package normalize

import (
	"log/slog"
	"strings"

	"surveybench/pkg/contracts/domain"
)

// VariableNormalizer resolves raw metric labels (long-format text or
// wide-format base names) to canonical variable keys. Resolution order:
//
//  1. curated variable mapping table: exact (surveySource, rawLabel) key,
//     then a source-agnostic fallback over the same table
//  2. learned mapping by lowercased raw label
//  3. static alias dictionary over the folded label
//  4. ordered keyword rules, most specific first
//  5. numeric-magnitude disambiguation for inconclusive matches
//
// An unresolvable label keys under its folded form so distinct unknown
// metrics stay distinct.
type VariableNormalizer struct {
	table   domain.MappingTable
	learned domain.LearnedMappings
	logger  *slog.Logger
}

// NewVariableNormalizer creates a variable normalizer over the given
// read-only mapping state.
func NewVariableNormalizer(table domain.MappingTable, learned domain.LearnedMappings, logger *slog.Logger) *VariableNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &VariableNormalizer{table: table, learned: learned, logger: logger}
}

// Normalize resolves one raw metric label. median is the observed median
// value for the label when known, or 0; it only participates in the final
// magnitude heuristic.
func (v *VariableNormalizer) Normalize(sourceID, rawLabel string, median float64) string {
	cleaned := Clean(rawLabel)
	if cleaned == "" {
		return ""
	}
	folded := Fold(cleaned)

	if key, ok := v.lookupCurated(sourceID, cleaned, folded); ok {
		return key
	}

	if key, ok := v.learned[strings.ToLower(cleaned)]; ok {
		return key
	}

	if key, ok := variableAliases[folded]; ok {
		return disambiguateByMagnitude(key, median)
	}

	if key, ok := classifyByRules(folded); ok {
		return disambiguateByMagnitude(key, median)
	}

	v.logger.Debug("variable label unresolved, keying by folded form",
		slog.String("source", sourceID),
		slog.String("raw_label", cleaned))
	return strings.ReplaceAll(folded, " ", "_")
}

// NormalizeWideBase resolves a wide-format base name extracted from metric
// column headers. Base names get an extra abbreviation dictionary before
// falling through to the standard resolution chain.
func (v *VariableNormalizer) NormalizeWideBase(sourceID, base string, median float64) string {
	folded := Fold(base)
	if key, ok := wideBaseAliases[folded]; ok {
		return key
	}
	return v.Normalize(sourceID, base, median)
}

func (v *VariableNormalizer) lookupCurated(sourceID, cleaned, folded string) (string, bool) {
	// Exact (surveySource, rawLabel).
	for _, m := range v.table {
		for _, e := range m.SourceEntries {
			if e.OriginalLabel == cleaned && SourceMatches(e.SurveySource, sourceID) {
				return m.StandardizedName, true
			}
		}
	}
	// Source-agnostic fallback over folded labels.
	for _, m := range v.table {
		for _, e := range m.SourceEntries {
			if Fold(e.OriginalLabel) == folded {
				return m.StandardizedName, true
			}
		}
	}
	return "", false
}

// Magnitude bounds for the disambiguation heuristic. Annual work RVUs run in
// the thousands while per-RVU conversion factors run 30-120; a value on the
// wrong side of these bounds means the keyword match picked the wrong unit.
const (
	maxPlausibleRatio   = 200
	minPlausibleAnnualC = 10000
)

// disambiguateByMagnitude reclassifies a keyword match whose median value is
// implausible for the matched unit. Best effort: a zero median (no data)
// never reclassifies.
func disambiguateByMagnitude(key string, median float64) string {
	if median == 0 {
		return key
	}
	switch key {
	case KeyWorkRVUs:
		if median > 0 && median < maxPlausibleRatio {
			return KeyTCCPerWorkRVU
		}
	case KeyTCCPerWorkRVU:
		if median >= minPlausibleAnnualC {
			return KeyTCC
		}
	}
	return key
}
