package rowstore

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"surveybench/pkg/contracts/domain"
)

// LoadExcel reads a vendor Excel extract into field-keyed raw rows. The
// sheet is chosen by name when given, otherwise the first sheet whose first
// non-empty row looks like a tabular header is used.
func LoadExcel(path, sheet string) ([]domain.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel extract: %w", err)
	}
	defer f.Close()

	var rows [][]string
	if sheet != "" {
		rows, err = f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
	} else {
		for _, name := range f.GetSheetList() {
			candidate, readErr := f.GetRows(name)
			if readErr != nil || len(candidate) < 2 {
				continue
			}
			rows = candidate
			break
		}
		if rows == nil {
			return nil, fmt.Errorf("no tabular sheet found in %s", path)
		}
	}

	headerIdx := -1
	for i, row := range rows {
		if !isEmptyRecord(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 || headerIdx == len(rows)-1 {
		return nil, nil
	}

	header := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]domain.RawRow, 0, len(rows)-headerIdx-1)
	for _, record := range rows[headerIdx+1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(domain.RawRow, len(header))
		for i, field := range header {
			if field == "" {
				continue
			}
			if i < len(record) {
				row[field] = record[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}
