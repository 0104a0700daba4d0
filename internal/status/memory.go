package status

import (
	"context"
	"sync"

	"github.com/goliatone/go-tms-sync/internal/domain"
)

// MemoryRepository is an in-memory metadata repository for scaffolding and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  map[domain.EntityRef]*Record
	docIndex map[string]domain.EntityRef
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:  make(map[domain.EntityRef]*Record),
		docIndex: make(map[string]domain.EntityRef),
	}
}

// GetByRef retrieves the record for an entity reference.
func (m *MemoryRepository) GetByRef(_ context.Context, ref domain.EntityRef) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[ref]
	if !ok {
		return nil, &NotFoundError{Key: ref.String()}
	}
	return cloneRecord(record), nil
}

// GetByDocumentID retrieves the record tracking a TMS document id.
func (m *MemoryRepository) GetByDocumentID(_ context.Context, documentID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.docIndex[documentID]
	if !ok {
		return nil, &NotFoundError{Key: documentID}
	}
	return cloneRecord(m.records[ref]), nil
}

// ListByJobID returns records stamped with the job grouping tag.
func (m *MemoryRepository) ListByJobID(_ context.Context, jobID string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0)
	for _, record := range m.records {
		if record.JobID == jobID {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

// Upsert inserts or replaces the record keyed by its entity reference.
func (m *MemoryRepository) Upsert(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneRecord(record)
	ref := copied.Ref()
	if existing, ok := m.records[ref]; ok && existing.DocumentID != "" && existing.DocumentID != copied.DocumentID {
		delete(m.docIndex, existing.DocumentID)
	}
	m.records[ref] = copied
	if copied.DocumentID != "" {
		m.docIndex[copied.DocumentID] = ref
	}
	return cloneRecord(copied), nil
}

// Delete removes the record for an entity reference.
func (m *MemoryRepository) Delete(_ context.Context, ref domain.EntityRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[ref]
	if !ok {
		return &NotFoundError{Key: ref.String()}
	}
	if record.DocumentID != "" {
		delete(m.docIndex, record.DocumentID)
	}
	delete(m.records, ref)
	return nil
}
