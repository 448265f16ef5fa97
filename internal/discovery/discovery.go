package discovery

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"surveybench/internal/normalize"
	"surveybench/internal/pipeline"
	"surveybench/pkg/contracts/domain"
)

// checkInterval is how many rows a scan processes between context checks.
const checkInterval = 500

// SourceRows pairs a survey source with its raw rows for one scan pass.
type SourceRows struct {
	Source domain.SurveySource
	Rows   []domain.RawRow
}

// Service enumerates the canonical variables present in a corpus, with
// source attribution and data-quality scores. Scanning and resolution are
// split: ScanSource tallies raw labels (mapping-independent, cacheable) and
// Resolve folds scans through the variable normalizer into the catalog.
type Service struct {
	variables *normalize.VariableNormalizer
	logger    *slog.Logger
}

// New creates a discovery service over the given variable normalizer.
func New(variables *normalize.VariableNormalizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{variables: variables, logger: logger}
}

// ScanSource tallies the distinct raw variable labels in one source's rows:
// long-format labels via the accepted field aliases (case-insensitive) and
// wide-format base names via percentile-suffix matching across all columns.
// The context is honored between chunks of rows.
func (s *Service) ScanSource(ctx context.Context, source domain.SurveySource, rows []domain.RawRow) ([]domain.RawLabelScan, error) {
	type tally struct {
		format  string
		count   int
		nonzero int
		median  float64
	}
	tallies := make(map[string]*tally)

	bump := func(label, format string, median float64) {
		t, ok := tallies[label]
		if !ok {
			t = &tally{format: format}
			tallies[label] = t
		}
		t.count++
		if median != 0 {
			t.nonzero++
			if t.median == 0 {
				t.median = median
			}
		}
	}

	for i, row := range rows {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		format := normalize.DetectRowFormat(row)
		if format.IsLong() {
			label := strings.TrimSpace(row[format.Long.VariableField])
			if label != "" {
				bump(label, "long", longMedian(row))
			}
		}
		if format.IsWide() {
			for _, group := range format.Wide.Groups {
				median := 0.0
				if col, ok := group.Columns["p50"]; ok {
					median = pipeline.CoerceNumber(row[col])
				}
				bump(group.Base, "wide", median)
			}
		}
	}

	scans := make([]domain.RawLabelScan, 0, len(tallies))
	for label, t := range tallies {
		scans = append(scans, domain.RawLabelScan{
			RawLabel:    label,
			Format:      t.format,
			RecordCount: t.count,
			NonzeroRows: t.nonzero,
			MedianHint:  t.median,
		})
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i].RawLabel < scans[j].RawLabel })

	s.logger.Debug("source scan complete",
		slog.String("source", source.ID),
		slog.Int("rows", len(rows)),
		slog.Int("distinct_labels", len(scans)))

	return scans, nil
}

// Resolve folds per-source scans through the variable normalizer and merges
// them into the catalog, keyed by canonical key. Source attribution is
// deduplicated; record counts accumulate; data quality is the fraction of
// attributed rows whose median is nonzero. Sources are visited in sorted
// ID order so the representative RawLabel, Format, and Category of a merged
// entry are the same on every call.
func (s *Service) Resolve(scans map[string][]domain.RawLabelScan, sources map[string]domain.SurveySource, categoryFilter domain.SourceCategory) []domain.DiscoveredVariable {
	type accum struct {
		v           domain.DiscoveredVariable
		sourcesSeen map[string]bool
		nonzero     int
	}
	catalog := make(map[string]*accum)

	sourceIDs := make([]string, 0, len(scans))
	for sourceID := range scans {
		sourceIDs = append(sourceIDs, sourceID)
	}
	sort.Strings(sourceIDs)

	for _, sourceID := range sourceIDs {
		sourceScans := scans[sourceID]
		source, ok := sources[sourceID]
		if !ok {
			continue
		}
		if categoryFilter != "" && source.Category != categoryFilter {
			continue
		}

		for _, scan := range sourceScans {
			var key string
			if scan.Format == "wide" {
				key = s.variables.NormalizeWideBase(sourceID, scan.RawLabel, scan.MedianHint)
			} else {
				key = s.variables.Normalize(sourceID, scan.RawLabel, scan.MedianHint)
			}
			if key == "" {
				continue
			}

			a, ok := catalog[key]
			if !ok {
				a = &accum{
					v: domain.DiscoveredVariable{
						RawLabel:     scan.RawLabel,
						CanonicalKey: key,
						Category:     source.Category,
						Format:       scan.Format,
					},
					sourcesSeen: make(map[string]bool),
				}
				catalog[key] = a
			}
			if !a.sourcesSeen[sourceID] {
				a.sourcesSeen[sourceID] = true
				a.v.Sources = append(a.v.Sources, sourceID)
			}
			a.v.RecordCount += scan.RecordCount
			a.nonzero += scan.NonzeroRows
		}
	}

	out := make([]domain.DiscoveredVariable, 0, len(catalog))
	for _, a := range catalog {
		if a.v.RecordCount > 0 {
			a.v.DataQuality = float64(a.nonzero) / float64(a.v.RecordCount)
		}
		sort.Strings(a.v.Sources)
		out = append(out, a.v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CanonicalKey < out[j].CanonicalKey })
	return out
}

// longMedian extracts the median value of a long-format row for quality
// tallying, trying the accepted median field aliases.
func longMedian(row domain.RawRow) float64 {
	for _, alias := range []string{"p50", "P50", "50th", "50th Percentile", "percentile_50", "median", "Median"} {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			return pipeline.CoerceNumber(v)
		}
	}
	return 0
}
