package interfaces

import "context"

// ModerationGate lets a content-moderation workflow veto uploads and apply a
// configured transition after a translation lands. Implementations decide both
// policies from the item's moderation state; the engine only asks.
type ModerationGate interface {
	// ShouldPreventUpload reports whether the item's moderation state blocks an
	// upload to the TMS.
	ShouldPreventUpload(ctx context.Context, item *ContentItem) (bool, error)
	// PerformTransitionIfNeeded applies the configured post-download transition
	// when the item's current state matches the configured "from" state. A
	// non-matching state is a no-op, not an error.
	PerformTransitionIfNeeded(ctx context.Context, ref EntityRef) error
}
