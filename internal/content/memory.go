package content

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

// MemorySource is an in-memory content source for scaffolding and tests. It
// implements interfaces.ContentSource plus the moderation state writer hook so
// a host can exercise the whole sync pipeline without a CMS.
type MemorySource struct {
	mu           sync.RWMutex
	items        map[interfaces.EntityRef]*interfaces.ContentItem
	references   map[interfaces.EntityRef][]interfaces.EntityReference
	translations map[interfaces.EntityRef]map[string]map[string]any
	types        map[string]struct{}
}

// NewMemorySource creates an empty in-memory source supporting the given
// entity types. With no types supplied every type is accepted.
func NewMemorySource(entityTypes ...string) *MemorySource {
	source := &MemorySource{
		items:        make(map[interfaces.EntityRef]*interfaces.ContentItem),
		references:   make(map[interfaces.EntityRef][]interfaces.EntityReference),
		translations: make(map[interfaces.EntityRef]map[string]map[string]any),
	}
	if len(entityTypes) > 0 {
		source.types = make(map[string]struct{}, len(entityTypes))
		for _, entityType := range entityTypes {
			source.types[entityType] = struct{}{}
		}
	}
	return source
}

// Put stores or replaces an item.
func (m *MemorySource) Put(item *interfaces.ContentItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.Ref] = cloneItem(item)
}

// Remove deletes an item, simulating entity deletion in the host CMS.
func (m *MemorySource) Remove(ref interfaces.EntityRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, ref)
}

// SetReferences records the entities referenced from an item's fields.
func (m *MemorySource) SetReferences(ref interfaces.EntityRef, references []interfaces.EntityReference) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.references[ref] = append([]interfaces.EntityReference(nil), references...)
}

// GetItem implements interfaces.ContentSource.
func (m *MemorySource) GetItem(_ context.Context, ref interfaces.EntityRef) (*interfaces.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.supports(ref.Type) {
		return nil, interfaces.ErrEntityTypeUnsupported
	}
	item, ok := m.items[ref]
	if !ok {
		return nil, interfaces.ErrItemNotFound
	}
	return cloneItem(item), nil
}

// Supports implements interfaces.ContentSource.
func (m *MemorySource) Supports(entityType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.supports(entityType)
}

func (m *MemorySource) supports(entityType string) bool {
	if m.types == nil {
		return true
	}
	_, ok := m.types[entityType]
	return ok
}

// ListReferences implements interfaces.ContentSource.
func (m *MemorySource) ListReferences(_ context.Context, ref interfaces.EntityRef) ([]interfaces.EntityReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]interfaces.EntityReference(nil), m.references[ref]...), nil
}

// WriteTranslation implements interfaces.ContentSource.
func (m *MemorySource) WriteTranslation(_ context.Context, ref interfaces.EntityRef, langcode string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[ref]; !ok {
		return interfaces.ErrItemNotFound
	}
	byLocale, ok := m.translations[ref]
	if !ok {
		byLocale = make(map[string]map[string]any)
		m.translations[ref] = byLocale
	}
	byLocale[langcode] = maps.Clone(fields)
	return nil
}

// Translation returns the stored translation for inspection in tests.
func (m *MemorySource) Translation(ref interfaces.EntityRef, langcode string) (map[string]any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byLocale, ok := m.translations[ref]
	if !ok {
		return nil, false
	}
	fields, ok := byLocale[langcode]
	if !ok {
		return nil, false
	}
	return maps.Clone(fields), true
}

// SetModerationState implements the moderation state writer hook.
func (m *MemorySource) SetModerationState(_ context.Context, ref interfaces.EntityRef, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[ref]
	if !ok {
		return interfaces.ErrItemNotFound
	}
	item.ModerationState = state
	return nil
}

func cloneItem(src *interfaces.ContentItem) *interfaces.ContentItem {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Fields != nil {
		copied.Fields = maps.Clone(src.Fields)
	}
	return &copied
}
