// Package rowstore provides the row-store collaborator: the engine consumes
// survey sources and raw rows through the Store interface and never owns
// their persistence. The in-memory implementation here backs the binaries
// and tests; production deployments can substitute any store that satisfies
// the interface.
package rowstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"surveybench/pkg/contracts/domain"
)

// RowFilter restricts GetRows to rows whose fields match the given values
// exactly (after trimming). An empty filter matches every row.
type RowFilter map[string]string

// Store is the row-store contract the engine consumes.
type Store interface {
	// ListSources returns every ingested survey source.
	ListSources(ctx context.Context) ([]domain.SurveySource, error)
	// GetRows returns up to limit rows of one source starting at offset.
	// limit <= 0 means no limit.
	GetRows(ctx context.Context, sourceID string, filter RowFilter, limit, offset int) ([]domain.RawRow, error)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	sources []domain.SurveySource
	rows    map[string][]domain.RawRow
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]domain.RawRow)}
}

// AddSource ingests one source with its rows. Re-adding an existing source
// ID replaces its rows.
func (s *MemoryStore) AddSource(source domain.SurveySource, rows []domain.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rows[source.ID]; !exists {
		s.sources = append(s.sources, source)
	} else {
		for i, existing := range s.sources {
			if existing.ID == source.ID {
				s.sources[i] = source
				break
			}
		}
	}
	s.rows[source.ID] = rows
}

// RemoveSource drops one source and its rows.
func (s *MemoryStore) RemoveSource(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, sourceID)
	for i, existing := range s.sources {
		if existing.ID == sourceID {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			break
		}
	}
}

// Clear drops every source.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = nil
	s.rows = make(map[string][]domain.RawRow)
}

// ListSources implements Store.
func (s *MemoryStore) ListSources(ctx context.Context) ([]domain.SurveySource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SurveySource, len(s.sources))
	copy(out, s.sources)
	return out, nil
}

// GetRows implements Store.
func (s *MemoryStore) GetRows(ctx context.Context, sourceID string, filter RowFilter, limit, offset int) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.rows[sourceID]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", sourceID)
	}

	matched := rows
	if len(filter) > 0 {
		matched = make([]domain.RawRow, 0, len(rows))
		for _, row := range rows {
			if filterMatches(filter, row) {
				matched = append(matched, row)
			}
		}
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]domain.RawRow, len(matched))
	copy(out, matched)
	return out, nil
}

func filterMatches(filter RowFilter, row domain.RawRow) bool {
	for field, want := range filter {
		if strings.TrimSpace(row[field]) != strings.TrimSpace(want) {
			return false
		}
	}
	return true
}
