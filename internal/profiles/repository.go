package profiles

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository abstracts storage of sync profiles.
type ProfileRepository interface {
	Create(ctx context.Context, record *Profile) (*Profile, error)
	Update(ctx context.Context, record *Profile) (*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByName(ctx context.Context, name string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
}
