package rowstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"surveybench/pkg/contracts/domain"
)

// LoadCSV reads a vendor CSV extract into field-keyed raw rows. The first
// record is the header; short records are padded, long ones truncated, so a
// ragged extract still loads.
func LoadCSV(path string) ([]domain.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv extract: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv extract: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
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
		rows = append(rows, row)
	}
	return rows, nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
