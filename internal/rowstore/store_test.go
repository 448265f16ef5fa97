package rowstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func TestMemoryStoreAddListRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.AddSource(domain.SurveySource{ID: "MGMA", Year: 2024}, []domain.RawRow{{"a": "1"}})
	s.AddSource(domain.SurveySource{ID: "AMGA", Year: 2023}, []domain.RawRow{{"a": "2"}})

	sources, err := s.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	// Re-adding replaces rows, not duplicates the source.
	s.AddSource(domain.SurveySource{ID: "MGMA", Year: 2025}, []domain.RawRow{{"a": "3"}, {"a": "4"}})
	sources, err = s.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	rows, err := s.GetRows(ctx, "MGMA", nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	s.RemoveSource("AMGA")
	sources, err = s.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "MGMA", sources[0].ID)

	_, err = s.GetRows(ctx, "AMGA", nil, 0, 0)
	assert.Error(t, err)
}

func TestMemoryStorePaging(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rows := make([]domain.RawRow, 10)
	for i := range rows {
		rows[i] = domain.RawRow{"n": string(rune('0' + i))}
	}
	s.AddSource(domain.SurveySource{ID: "MGMA"}, rows)

	page, err := s.GetRows(ctx, "MGMA", nil, 4, 0)
	require.NoError(t, err)
	assert.Len(t, page, 4)

	page, err = s.GetRows(ctx, "MGMA", nil, 4, 8)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = s.GetRows(ctx, "MGMA", nil, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStoreFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.AddSource(domain.SurveySource{ID: "MGMA"}, []domain.RawRow{
		{"specialty": "Cardiology", "region": "Midwest"},
		{"specialty": "Cardiology", "region": "National"},
		{"specialty": "Dermatology", "region": "Midwest"},
	})

	rows, err := s.GetRows(ctx, "MGMA", RowFilter{"specialty": "Cardiology"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.GetRows(ctx, "MGMA", RowFilter{"specialty": "Cardiology", "region": "Midwest"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extract.csv")
	content := "specialty,variable,p50\nCardiology,TCC,\"250,000\"\n\nDermatology,TCC,180000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cardiology", rows[0]["specialty"])
	assert.Equal(t, "250,000", rows[0]["p50"])
	assert.Equal(t, "Dermatology", rows[1]["specialty"])
}

func TestSourceFromFilename(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		wantVendor   string
		wantYear     int
		wantCategory domain.SourceCategory
	}{
		{
			name:         "vendor and year",
			file:         "SullivanCotter_2024.csv",
			wantVendor:   "SullivanCotter",
			wantYear:     2024,
			wantCategory: domain.CategoryCompensation,
		},
		{
			name:         "call pay token",
			file:         "MGMA_call-pay_2023.xlsx",
			wantVendor:   "MGMA",
			wantYear:     2023,
			wantCategory: domain.CategoryCallPay,
		},
		{
			name:         "no year",
			file:         "CustomSurvey_custom.csv",
			wantVendor:   "CustomSurvey",
			wantYear:     0,
			wantCategory: domain.CategoryCustom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sourceFromFilename(tt.file)
			assert.Equal(t, tt.wantVendor, src.VendorName)
			assert.Equal(t, tt.wantYear, src.Year)
			assert.Equal(t, tt.wantCategory, src.Category)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	csvContent := "specialty,variable,p50\nCardiology,TCC,250000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MGMA_2024.csv"), []byte(csvContent), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	store := NewMemoryStore()
	require.NoError(t, LoadDir(store, dir, nil))

	sources, err := store.ListSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "MGMA_2024", sources[0].ID)
	assert.Equal(t, "MGMA", sources[0].VendorName)
	assert.Equal(t, 2024, sources[0].Year)
}
