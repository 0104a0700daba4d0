package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrItemNotFound reports that the referenced content item no longer exists.
	ErrItemNotFound = errors.New("content: item not found")
	// ErrEntityTypeUnsupported reports an entity type the content source cannot load.
	ErrEntityTypeUnsupported = errors.New("content: entity type unsupported")
)

// EntityRef identifies a content item by entity type and id. The pair is the
// key for all sync metadata; the module never interprets the id beyond that.
type EntityRef struct {
	Type string
	ID   string
}

func (r EntityRef) String() string {
	return r.Type + ":" + r.ID
}

// IsZero reports whether the reference is empty.
func (r EntityRef) IsZero() bool {
	return r.Type == "" && r.ID == ""
}

// ContentItem is the module's view of a CMS entity: identity, bundle, source
// language, translatable field values, and the moderation state when content
// moderation applies. Field values are an opaque document keyed by field name.
type ContentItem struct {
	Ref             EntityRef
	Bundle          string
	Title           string
	SourceLanguage  string
	Fields          map[string]any
	ModerationState string
}

// EntityReference describes an entity referenced from a field of another item,
// used to build the closure of related entities bundled into one upload.
type EntityReference struct {
	Field string
	Ref   EntityRef
}

// ContentSource adapts the host CMS. The sync engine reads items and writes
// translations through it and never touches CMS storage directly.
type ContentSource interface {
	// GetItem loads the live item. Returns ErrItemNotFound when it no longer
	// exists and ErrEntityTypeUnsupported for unknown entity types.
	GetItem(ctx context.Context, ref EntityRef) (*ContentItem, error)
	// Supports reports whether the source can load the given entity type.
	Supports(entityType string) bool
	// ListReferences returns the entities referenced from the item's fields.
	ListReferences(ctx context.Context, ref EntityRef) ([]EntityReference, error)
	// WriteTranslation stores translated field values for the language. It must
	// be safe to call repeatedly with the same payload.
	WriteTranslation(ctx context.Context, ref EntityRef, langcode string, fields map[string]any) error
}
