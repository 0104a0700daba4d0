package related

import (
	"context"
	"errors"

	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

// DefaultMaxDepth bounds reference traversal when the caller does not supply a depth.
const DefaultMaxDepth = 2

// ErrSourceRequired signals the extractor was built without a content source.
var ErrSourceRequired = errors.New("related: content source is required")

// Extractor walks entity references to compute which related entities get
// bundled into the parent's translation unit and which are translated on
// their own. References reached through a field named in the independent set
// go to the independent list; everything else is bundled and descended into.
//
// The visited set is keyed by entity reference and shared by reference with
// the caller, so reference cycles (A -> B -> A) terminate: an already visited
// entity is never re-descended into.
type Extractor struct {
	source            interfaces.ContentSource
	independentFields map[string]struct{}
	maxDepth          int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithIndependentFields marks fields whose referenced entities are translated
// independently instead of being inlined into the parent document.
func WithIndependentFields(fields []string) Option {
	return func(e *Extractor) {
		for _, field := range fields {
			if field != "" {
				e.independentFields[field] = struct{}{}
			}
		}
	}
}

// WithMaxDepth caps traversal depth regardless of the caller-supplied bound.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewExtractor builds the default related-entity strategy over a content source.
func NewExtractor(source interfaces.ContentSource, opts ...Option) *Extractor {
	e := &Extractor{
		source:            source,
		independentFields: make(map[string]struct{}),
		maxDepth:          DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract implements interfaces.RelatedExtractor.
func (e *Extractor) Extract(ctx context.Context, item *interfaces.ContentItem, depth int, visited map[interfaces.EntityRef]struct{}) (*interfaces.RelatedEntities, error) {
	if e.source == nil {
		return nil, ErrSourceRequired
	}
	if item == nil {
		return &interfaces.RelatedEntities{}, nil
	}
	if visited == nil {
		visited = make(map[interfaces.EntityRef]struct{})
	}
	if depth <= 0 || depth > e.maxDepth {
		depth = e.maxDepth
	}

	result := &interfaces.RelatedEntities{}
	visited[item.Ref] = struct{}{}
	if err := e.walk(ctx, item.Ref, depth, visited, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Extractor) walk(ctx context.Context, ref interfaces.EntityRef, depth int, visited map[interfaces.EntityRef]struct{}, result *interfaces.RelatedEntities) error {
	if depth <= 0 {
		return nil
	}
	references, err := e.source.ListReferences(ctx, ref)
	if err != nil {
		return err
	}
	for _, reference := range references {
		if _, seen := visited[reference.Ref]; seen {
			continue
		}
		visited[reference.Ref] = struct{}{}
		if _, independent := e.independentFields[reference.Field]; independent {
			result.Independent = append(result.Independent, reference.Ref)
			continue
		}
		result.Bundled = append(result.Bundled, reference.Ref)
		if err := e.walk(ctx, reference.Ref, depth-1, visited, result); err != nil {
			return err
		}
	}
	return nil
}
