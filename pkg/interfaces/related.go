package interfaces

import "context"

// RelatedEntities is the result of related-entity extraction: entities whose
// content is bundled into the parent's upload, and entities translated on
// their own because they were reached through an independently translatable
// field.
type RelatedEntities struct {
	Bundled     []EntityRef
	Independent []EntityRef
}

// RelatedExtractor computes the closure of entities to include in one
// translation unit. The visited set is shared across nested calls so
// reference cycles terminate; callers seed it with an empty map and must not
// reuse it across unrelated extractions. Depth bounds the recursion.
type RelatedExtractor interface {
	Extract(ctx context.Context, item *ContentItem, depth int, visited map[EntityRef]struct{}) (*RelatedEntities, error)
}
