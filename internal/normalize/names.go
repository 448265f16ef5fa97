package normalize

import (
	"log/slog"
	"strings"

	"surveybench/pkg/contracts/domain"
)

// NameNormalizer resolves raw specialty, region and provider-type labels to
// canonical names. Resolution order, first match wins:
//
//  1. exact curated mapping entry for (surveySource, rawLabel)
//  2. fuzzy curated match (folded comparison on both sides)
//  3. learned mapping by lowercased raw label
//  4. dimension-specific keyword heuristics
//  5. the cleaned input unchanged
//
// Resolution is deterministic for a fixed mapping state.
type NameNormalizer struct {
	dimension domain.Dimension
	table     domain.MappingTable
	learned   domain.LearnedMappings
	logger    *slog.Logger
}

// NewNameNormalizer creates a normalizer for one dimension over the given
// read-only mapping state.
func NewNameNormalizer(dimension domain.Dimension, table domain.MappingTable, learned domain.LearnedMappings, logger *slog.Logger) *NameNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NameNormalizer{
		dimension: dimension,
		table:     table,
		learned:   learned,
		logger:    logger,
	}
}

// Normalize resolves one raw label observed in the given survey source.
func (n *NameNormalizer) Normalize(sourceID, raw string) string {
	cleaned := Clean(raw)
	if cleaned == "" {
		return ""
	}

	// Curated table, exact label with year-tolerant source match.
	for _, m := range n.table {
		for _, e := range m.SourceEntries {
			if e.OriginalLabel == cleaned && SourceMatches(e.SurveySource, sourceID) {
				return m.StandardizedName
			}
		}
	}

	// Curated table, folded comparison.
	folded := Fold(cleaned)
	for _, m := range n.table {
		for _, e := range m.SourceEntries {
			if Fold(e.OriginalLabel) == folded && SourceMatches(e.SurveySource, sourceID) {
				return m.StandardizedName
			}
		}
	}

	if canonical, ok := n.learned[strings.ToLower(cleaned)]; ok {
		return canonical
	}

	switch n.dimension {
	case domain.DimensionRegion:
		if bucket, ok := bucketRegion(folded); ok {
			return bucket
		}
	case domain.DimensionProviderType:
		if pt, ok := classifyProviderType(cleaned, folded); ok {
			return pt
		}
	}

	return cleaned
}

// Macro-region buckets.
const (
	RegionNational  = "National"
	RegionNortheast = "Northeast"
	RegionSoutheast = "Southeast"
	RegionMidwest   = "Midwest"
	RegionWestern   = "Western"
)

// Recognized census-style subregions. These are legitimate region names in
// their own right and must never collapse into their macro bucket.
var preservedSubregions = map[string]string{
	"new england":        "New England",
	"mid atlantic":       "Mid-Atlantic",
	"middle atlantic":    "Mid-Atlantic",
	"south atlantic":     "South Atlantic",
	"east north central": "East North Central",
	"west north central": "West North Central",
	"east south central": "East South Central",
	"west south central": "West South Central",
	"pacific":            "Pacific",
	"mountain":           "Mountain",
}

func bucketRegion(folded string) (string, bool) {
	if name, ok := preservedSubregions[folded]; ok {
		return name, true
	}

	switch {
	case strings.Contains(folded, "national"), folded == "all", folded == "overall", folded == "total":
		return RegionNational, true
	case strings.Contains(folded, "northeast"), strings.Contains(folded, "north east"), strings.Contains(folded, "eastern"):
		return RegionNortheast, true
	case strings.Contains(folded, "southeast"), strings.Contains(folded, "south east"), strings.Contains(folded, "southern"):
		return RegionSoutheast, true
	case strings.Contains(folded, "midwest"), strings.Contains(folded, "mid west"), strings.Contains(folded, "north central"), strings.Contains(folded, "central"):
		return RegionMidwest, true
	case strings.Contains(folded, "west"):
		return RegionWestern, true
	case strings.Contains(folded, "south"):
		return RegionSoutheast, true
	}
	return "", false
}

// Generic provider-type buckets.
const (
	ProviderPhysician = "Physician"
	ProviderAPP       = "Advanced Practice Provider"
	ProviderCRNA      = "CRNA"
)

// Leadership and administrative titles are preserved as-is: a "Chief of
// Cardiology" compensates differently from a staff physician and must never
// merge into the generic physician bucket, even when the title contains
// physician-like substrings.
var leadershipMarkers = []string{
	"chief", "chair", "director", "head", "lead ", "president",
	"vice", "dean", "administrator", "executive",
}

func classifyProviderType(cleaned, folded string) (string, bool) {
	for _, marker := range leadershipMarkers {
		if strings.Contains(folded, marker) {
			return cleaned, true
		}
	}

	switch {
	case strings.Contains(folded, "crna"), strings.Contains(folded, "nurse anesthetist"):
		return ProviderCRNA, true
	case strings.Contains(folded, "nurse practitioner"),
		strings.Contains(folded, "physician assistant"),
		strings.Contains(folded, "advanced practice"),
		folded == "np", folded == "pa", folded == "app":
		return ProviderAPP, true
	case strings.Contains(folded, "physician"),
		strings.Contains(folded, "doctor"),
		folded == "md", folded == "do", folded == "md do":
		return ProviderPhysician, true
	}
	return "", false
}
