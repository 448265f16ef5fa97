// Package mappings provides read-only access to the curated mapping tables
// and learned mappings produced by the external curation workflow. The
// engine never mutates or validates them.
package mappings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"surveybench/pkg/contracts/domain"
)

// Provider is the mapping-curation contract the engine consumes.
type Provider interface {
	// MappingTable returns the curated table for one dimension.
	MappingTable(ctx context.Context, dimension domain.Dimension) (domain.MappingTable, error)
	// LearnedMappings returns the source-agnostic override dictionary for
	// one dimension, keyed by lowercased original label.
	LearnedMappings(ctx context.Context, dimension domain.Dimension) (domain.LearnedMappings, error)
}

// fileDocument is the on-disk layout of a curated mappings export: one
// object per dimension carrying its table and learned overrides.
type fileDocument map[string]struct {
	Table   domain.MappingTable `json:"table"`
	Learned map[string]string   `json:"learned"`
}

// FileProvider serves mapping state from a curated JSON export, loaded once
// and held immutable. Reload builds a fresh snapshot; callers must not
// reload while an aggregation or discovery pass over the same corpus is in
// flight (documented precondition, not an enforced lock).
type FileProvider struct {
	path string

	mu  sync.RWMutex
	doc fileDocument
}

// NewFileProvider loads the curated export at path.
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads the export from disk.
func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read mappings file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse mappings file: %w", err)
	}

	p.mu.Lock()
	p.doc = doc
	p.mu.Unlock()
	return nil
}

// MappingTable implements Provider.
func (p *FileProvider) MappingTable(ctx context.Context, dimension domain.Dimension) (domain.MappingTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.doc[string(dimension)]
	if !ok {
		return nil, nil
	}
	return entry.Table, nil
}

// LearnedMappings implements Provider.
func (p *FileProvider) LearnedMappings(ctx context.Context, dimension domain.Dimension) (domain.LearnedMappings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.doc[string(dimension)]
	if !ok {
		return domain.LearnedMappings{}, nil
	}

	learned := make(domain.LearnedMappings, len(entry.Learned))
	for label, canonical := range entry.Learned {
		learned[strings.ToLower(label)] = canonical
	}
	return learned, nil
}

// MemoryProvider is an in-memory Provider for tests and embedded use.
type MemoryProvider struct {
	mu      sync.RWMutex
	tables  map[domain.Dimension]domain.MappingTable
	learned map[domain.Dimension]domain.LearnedMappings
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		tables:  make(map[domain.Dimension]domain.MappingTable),
		learned: make(map[domain.Dimension]domain.LearnedMappings),
	}
}

// SetTable replaces the curated table for one dimension.
func (p *MemoryProvider) SetTable(dimension domain.Dimension, table domain.MappingTable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables[dimension] = table
}

// SetLearned replaces the learned overrides for one dimension. Keys are
// lowercased on the way in.
func (p *MemoryProvider) SetLearned(dimension domain.Dimension, learned domain.LearnedMappings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	normalized := make(domain.LearnedMappings, len(learned))
	for label, canonical := range learned {
		normalized[strings.ToLower(label)] = canonical
	}
	p.learned[dimension] = normalized
}

// MappingTable implements Provider.
func (p *MemoryProvider) MappingTable(ctx context.Context, dimension domain.Dimension) (domain.MappingTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tables[dimension], nil
}

// LearnedMappings implements Provider.
func (p *MemoryProvider) LearnedMappings(ctx context.Context, dimension domain.Dimension) (domain.LearnedMappings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	if l, ok := p.learned[dimension]; ok {
		return l, nil
	}
	return domain.LearnedMappings{}, nil
}
