package profiles

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryProfileRepository is an in-memory implementation for scaffolding and tests.
type MemoryProfileRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Profile
	nameIndex map[string]uuid.UUID
}

// NewMemoryProfileRepository creates an empty in-memory profile repository.
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		records:   make(map[uuid.UUID]*Profile),
		nameIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied profile.
func (m *MemoryProfileRepository) Create(_ context.Context, record *Profile) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneProfile(record)
	m.records[copied.ID] = copied
	m.nameIndex[strings.ToLower(copied.Name)] = copied.ID
	return cloneProfile(copied), nil
}

// Update replaces the stored profile.
func (m *MemoryProfileRepository) Update(_ context.Context, record *Profile) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, ErrProfileNotFound
	}
	copied := cloneProfile(record)
	m.records[copied.ID] = copied
	m.nameIndex[strings.ToLower(copied.Name)] = copied.ID
	return cloneProfile(copied), nil
}

// GetByID retrieves a profile by identifier.
func (m *MemoryProfileRepository) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return cloneProfile(record), nil
}

// GetByName retrieves a profile by its unique name.
func (m *MemoryProfileRepository) GetByName(_ context.Context, name string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.nameIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return cloneProfile(m.records[id]), nil
}

// List returns all stored profiles.
func (m *MemoryProfileRepository) List(_ context.Context) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Profile, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, cloneProfile(record))
	}
	return out, nil
}

func cloneProfile(src *Profile) *Profile {
	if src == nil {
		return nil
	}
	copied := *src
	if src.LanguageOverrides != nil {
		copied.LanguageOverrides = maps.Clone(src.LanguageOverrides)
	}
	return &copied
}
