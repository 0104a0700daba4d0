package profiles

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunProfileRepository persists profiles through go-repository-bun, optionally
// wrapped with a read-through cache. Profiles are read on every engine
// operation, so the cache wrapper pays for itself quickly.
type BunProfileRepository struct {
	repo repository.Repository[*Profile]
}

// NewBunProfileRepository constructs an uncached Bun-backed repository.
func NewBunProfileRepository(db *bun.DB) *BunProfileRepository {
	return NewBunProfileRepositoryWithCache(db, nil, nil)
}

// NewBunProfileRepositoryWithCache constructs a Bun-backed repository wrapped
// with the supplied cache service when both cache arguments are non-nil.
func NewBunProfileRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProfileRepository {
	base := newProfileRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunProfileRepository{repo: wrapped}
}

func newProfileRepository(db *bun.DB) repository.Repository[*Profile] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Profile]{
		NewRecord: func() *Profile { return &Profile{} },
		GetID: func(p *Profile) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Profile, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(p *Profile) string {
			return p.Name
		},
	})
}

// Create inserts the supplied profile.
func (r *BunProfileRepository) Create(ctx context.Context, record *Profile) (*Profile, error) {
	return r.repo.Create(ctx, record)
}

// Update replaces the stored profile.
func (r *BunProfileRepository) Update(ctx context.Context, record *Profile) (*Profile, error) {
	return r.repo.Update(ctx, record)
}

// GetByID retrieves a profile by identifier.
func (r *BunProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

// GetByName retrieves a profile by its unique name.
func (r *BunProfileRepository) GetByName(ctx context.Context, name string) (*Profile, error) {
	result, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, name)
	}
	return result, nil
}

// List returns all stored profiles.
func (r *BunProfileRepository) List(ctx context.Context) ([]*Profile, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, key)
	}
	return fmt.Errorf("profile repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
