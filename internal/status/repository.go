package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-tms-sync/internal/domain"
)

// NotFoundError represents missing metadata records from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("status: metadata not found for %s", e.Key)
}

// Repository abstracts persistence of sync metadata records. Implementations
// must return *NotFoundError for absent records so the store can create them
// lazily on first mutation.
type Repository interface {
	GetByRef(ctx context.Context, ref domain.EntityRef) (*Record, error)
	GetByDocumentID(ctx context.Context, documentID string) (*Record, error)
	ListByJobID(ctx context.Context, jobID string) ([]*Record, error)
	Upsert(ctx context.Context, record *Record) (*Record, error)
	Delete(ctx context.Context, ref domain.EntityRef) error
}

// IsNotFound reports whether err marks a missing metadata record.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
