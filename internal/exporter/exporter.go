// Package exporter writes discovery and aggregation results to disk as
// CSV and JSON.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"surveybench/pkg/contracts/domain"
)

// Writer exports engine results into a target directory.
type Writer struct {
	outDir string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at outDir, creating it if needed.
func NewWriter(outDir string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outDir, err)
	}
	return &Writer{outDir: outDir, logger: logger}, nil
}

// WriteVariableCatalog writes the discovered variable catalog as JSON.
func (w *Writer) WriteVariableCatalog(catalog []domain.DiscoveredVariable) error {
	path := filepath.Join(w.outDir, "variables.json")
	if err := writeJSON(path, catalog); err != nil {
		return err
	}
	w.logger.Info("variable catalog written",
		slog.String("path", path),
		slog.Int("variables", len(catalog)))
	return nil
}

// WriteAggregatedCSV flattens aggregated records to one CSV row per
// group and variable, percentiles as columns.
func (w *Writer) WriteAggregatedCSV(records []domain.AggregatedRecord) error {
	path := filepath.Join(w.outDir, "aggregated.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	header := []string{"specialty", "survey_source", "provider_type", "region", "variable", "n_orgs", "n_incumbents", "p25", "p50", "p75", "p90"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for _, rec := range records {
		keys := make([]string, 0, len(rec.Variables))
		for key := range rec.Variables {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			m := rec.Variables[key]
			row := []string{
				rec.Specialty,
				rec.SurveySource,
				rec.ProviderType,
				rec.Region,
				key,
				strconv.Itoa(m.NOrgs),
				strconv.Itoa(m.NIncumbents),
				formatMetric(m.P25),
				formatMetric(m.P50),
				formatMetric(m.P75),
				formatMetric(m.P90),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
			rows++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	w.logger.Info("aggregated records written",
		slog.String("path", path),
		slog.Int("groups", len(records)),
		slog.Int("rows", rows))
	return nil
}

// WriteAggregatedJSON writes the aggregated records as JSON.
func (w *Writer) WriteAggregatedJSON(records []domain.AggregatedRecord) error {
	path := filepath.Join(w.outDir, "aggregated.json")
	if err := writeJSON(path, records); err != nil {
		return err
	}
	w.logger.Info("aggregated records written", slog.String("path", path), slog.Int("groups", len(records)))
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
