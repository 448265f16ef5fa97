package rowstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"surveybench/pkg/contracts/domain"
)

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// LoadDir ingests every CSV and XLSX extract under dir into the store.
// Source metadata is inferred from the file name: the vendor is the
// name minus year and category tokens, e.g. "SullivanCotter_2024.csv"
// or "MGMA_call-pay_2023.xlsx". Unreadable files are logged and
// skipped.
func LoadDir(store *MemoryStore, dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read extracts directory %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var rows []domain.RawRow
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv":
			rows, err = LoadCSV(path)
		case ".xlsx":
			rows, err = LoadExcel(path, "")
		default:
			continue
		}
		if err != nil {
			logger.Warn("skipping unreadable extract",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}

		source := sourceFromFilename(entry.Name())
		store.AddSource(source, rows)
		logger.Info("extract loaded",
			slog.String("source", source.ID),
			slog.String("vendor", source.VendorName),
			slog.Int("year", source.Year),
			slog.Int("rows", len(rows)))
		loaded++
	}

	if loaded == 0 {
		logger.Warn("no extracts found", slog.String("dir", dir))
	}
	return nil
}

// sourceFromFilename derives source metadata from an extract file name.
func sourceFromFilename(name string) domain.SurveySource {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	source := domain.SurveySource{
		ID:       base,
		Category: domain.CategoryCompensation,
	}

	if match := yearPattern.FindString(base); match != "" {
		source.Year, _ = strconv.Atoi(match)
	}

	var vendorParts []string
	for _, part := range strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == ' ' }) {
		lower := strings.ToLower(part)
		switch {
		case yearPattern.MatchString(part) && len(part) == 4:
			continue
		case lower == "call-pay" || lower == "callpay":
			source.Category = domain.CategoryCallPay
		case lower == "moonlighting":
			source.Category = domain.CategoryMoonlighting
		case lower == "custom":
			source.Category = domain.CategoryCustom
		default:
			vendorParts = append(vendorParts, part)
		}
	}
	source.VendorName = strings.Join(vendorParts, " ")
	if source.VendorName == "" {
		source.VendorName = base
	}
	return source
}
