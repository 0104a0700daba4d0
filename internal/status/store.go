package status

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/identity"
)

// Store is the shared mutable resource of the module: every engine operation
// reads and writes sync metadata through it. Each mutation is a
// read-modify-write against the record keyed by entity reference, serialized
// per key so two concurrent operations on the same item (a user click racing a
// queued auto-download) cannot silently lose a status update. Records are
// created lazily on first mutation.
type Store struct {
	repo Repository
	now  func() time.Time

	mu    sync.Mutex
	locks map[domain.EntityRef]*sync.Mutex
}

// StoreOption configures the store.
type StoreOption func(*Store)

// WithClock overrides the timestamp source, used mainly for tests.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore wraps a repository with per-key mutation serialization.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:  repo,
		now:   time.Now,
		locks: make(map[domain.EntityRef]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) keyLock(ref domain.EntityRef) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[ref]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[ref] = lock
	}
	return lock
}

// Mutate re-reads the record, applies fn, and persists the result, all under
// the per-key lock. A missing record is materialized as an untracked one so
// metadata springs into existence on the first upload attempt.
func (s *Store) Mutate(ctx context.Context, ref domain.EntityRef, fn func(*Record) error) (*Record, error) {
	lock := s.keyLock(ref)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		record = s.newRecord(ref)
	}
	if err := fn(record); err != nil {
		return nil, err
	}
	record.UpdatedAt = s.now()
	return s.repo.Upsert(ctx, record)
}

// Get returns the stored record, or an untracked zero record when none exists.
func (s *Store) Get(ctx context.Context, ref domain.EntityRef) (*Record, error) {
	record, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if IsNotFound(err) {
			return s.newRecord(ref), nil
		}
		return nil, err
	}
	return record, nil
}

func (s *Store) newRecord(ref domain.EntityRef) *Record {
	now := s.now()
	return &Record{
		ID:           identity.MetadataUUID(ref),
		EntityType:   ref.Type,
		EntityID:     ref.ID,
		SourceStatus: domain.StatusUntracked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// GetSourceStatus returns the tracked source status.
func (s *Store) GetSourceStatus(ctx context.Context, ref domain.EntityRef) (domain.Status, error) {
	record, err := s.Get(ctx, ref)
	if err != nil {
		return domain.StatusUntracked, err
	}
	return record.SourceStatus, nil
}

// SetSourceStatus records the source status.
func (s *Store) SetSourceStatus(ctx context.Context, ref domain.EntityRef, status domain.Status) error {
	_, err := s.Mutate(ctx, ref, func(record *Record) error {
		record.SourceStatus = status
		return nil
	})
	return err
}

// GetTargetStatus returns the tracked status for a locale, StatusUntracked
// when the locale was never requested.
func (s *Store) GetTargetStatus(ctx context.Context, ref domain.EntityRef, locale string) (domain.Status, error) {
	record, err := s.Get(ctx, ref)
	if err != nil {
		return domain.StatusUntracked, err
	}
	return record.Target(locale), nil
}

// SetTargetStatus records the status for a locale.
func (s *Store) SetTargetStatus(ctx context.Context, ref domain.EntityRef, locale string, status domain.Status) error {
	_, err := s.Mutate(ctx, ref, func(record *Record) error {
		record.SetTarget(locale, status)
		return nil
	})
	return err
}

// SetAllTargetsStatus bulk-sets every currently tracked locale, used when a
// source change invalidates all targets.
func (s *Store) SetAllTargetsStatus(ctx context.Context, ref domain.EntityRef, status domain.Status) error {
	_, err := s.Mutate(ctx, ref, func(record *Record) error {
		for locale := range record.TargetStatus {
			record.TargetStatus[locale] = status
		}
		return nil
	})
	return err
}

// GetDocumentID returns the stored TMS document id, empty when never uploaded.
func (s *Store) GetDocumentID(ctx context.Context, ref domain.EntityRef) (string, error) {
	record, err := s.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	return record.DocumentID, nil
}

// SetDocumentID stores the TMS document id.
func (s *Store) SetDocumentID(ctx context.Context, ref domain.EntityRef, documentID string) error {
	_, err := s.Mutate(ctx, ref, func(record *Record) error {
		record.DocumentID = documentID
		return nil
	})
	return err
}

// GetByDocumentID resolves the entity tracked under a TMS document id, used by
// inbound webhook handling.
func (s *Store) GetByDocumentID(ctx context.Context, documentID string) (*Record, error) {
	return s.repo.GetByDocumentID(ctx, documentID)
}

// ListByJobID returns all records stamped with the given job grouping tag.
func (s *Store) ListByJobID(ctx context.Context, jobID string) ([]*Record, error) {
	return s.repo.ListByJobID(ctx, jobID)
}

// GetHash returns the content fingerprint of the last successful upload.
func (s *Store) GetHash(ctx context.Context, ref domain.EntityRef) (string, error) {
	record, err := s.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	return record.Hash, nil
}

// SetHash stores the content fingerprint.
func (s *Store) SetHash(ctx context.Context, ref domain.EntityRef, hash string) error {
	_, err := s.Mutate(ctx, ref, func(record *Record) error {
		record.Hash = hash
		return nil
	})
	return err
}

// Delete removes the metadata record entirely ("disassociate"). The content
// item itself is untouched and the TMS is not called.
func (s *Store) Delete(ctx context.Context, ref domain.EntityRef) error {
	lock := s.keyLock(ref)
	lock.Lock()
	defer lock.Unlock()
	err := s.repo.Delete(ctx, ref)
	if IsNotFound(err) {
		return nil
	}
	return err
}
