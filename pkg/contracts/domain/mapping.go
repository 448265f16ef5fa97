package domain

// MappingEntry ties one vendor label to the survey source it was observed in.
type MappingEntry struct {
	SurveySource  string `json:"survey_source"`
	OriginalLabel string `json:"original_label"`
}

// Mapping is one curated correspondence: a canonical name and the vendor
// labels that resolve to it, scoped per source.
type Mapping struct {
	StandardizedName string         `json:"standardized_name"`
	SourceEntries    []MappingEntry `json:"source_entries"`
}

// MappingTable is the curated mapping set for one dimension. It is produced
// by the external curation workflow and read-only here.
type MappingTable []Mapping

// LearnedMappings is the source-agnostic override dictionary recorded from
// prior user corrections, keyed by lowercased original label.
type LearnedMappings map[string]string

// RawLabelScan is one raw label tally from scanning a source's rows, before
// any mapping resolution. Scans are cached separately from the catalog so a
// mapping change can rebuild DiscoveredVariables without re-reading rows.
type RawLabelScan struct {
	RawLabel    string  `json:"raw_label"`
	Format      string  `json:"format"` // "long" or "wide"
	RecordCount int     `json:"record_count"`
	NonzeroRows int     `json:"nonzero_rows"`
	MedianHint  float64 `json:"median_hint,omitempty"`
}

// DiscoveredVariable is one entry of the variable catalog built by the
// discovery service: a raw vendor label resolved to its canonical key, with
// source attribution and a data-quality score in [0,1].
type DiscoveredVariable struct {
	RawLabel     string         `json:"raw_label"`
	CanonicalKey string         `json:"canonical_key"`
	Category     SourceCategory `json:"category"`
	Sources      []string       `json:"sources"`
	RecordCount  int            `json:"record_count"`
	DataQuality  float64        `json:"data_quality"`
	Format       string         `json:"format"` // "long" or "wide"
}
