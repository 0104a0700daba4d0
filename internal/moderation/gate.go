package moderation

import (
	"context"
	"strings"

	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

// StateWriter mutates the moderation state of a content item. The host CMS
// supplies it when post-download transitions are configured.
type StateWriter interface {
	SetModerationState(ctx context.Context, ref interfaces.EntityRef, state string) error
}

// Gate is the default moderation strategy: a set of states that block uploads
// and one configured transition applied after a translation lands. Both are
// plain configuration; there is no plugin discovery.
type Gate struct {
	source         interfaces.ContentSource
	writer         StateWriter
	preventStates  map[string]struct{}
	transitionFrom string
	transitionTo   string
}

// Option configures the gate.
type Option func(*Gate)

// WithUploadBlockedStates names the moderation states that veto uploads.
func WithUploadBlockedStates(states []string) Option {
	return func(g *Gate) {
		for _, state := range states {
			if trimmed := normalizeState(state); trimmed != "" {
				g.preventStates[trimmed] = struct{}{}
			}
		}
	}
}

// WithDownloadTransition configures the post-download transition: items in the
// "from" state are moved to the "to" state after a translation is written.
func WithDownloadTransition(from, to string) Option {
	return func(g *Gate) {
		g.transitionFrom = normalizeState(from)
		g.transitionTo = normalizeState(to)
	}
}

// WithStateWriter supplies the host hook used to apply transitions.
func WithStateWriter(writer StateWriter) Option {
	return func(g *Gate) {
		g.writer = writer
	}
}

// NewGate builds a moderation gate over the content source.
func NewGate(source interfaces.ContentSource, opts ...Option) *Gate {
	g := &Gate{
		source:        source,
		preventStates: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ShouldPreventUpload implements interfaces.ModerationGate.
func (g *Gate) ShouldPreventUpload(_ context.Context, item *interfaces.ContentItem) (bool, error) {
	if item == nil {
		return false, nil
	}
	_, blocked := g.preventStates[normalizeState(item.ModerationState)]
	return blocked, nil
}

// PerformTransitionIfNeeded implements interfaces.ModerationGate. The
// transition only fires when the item's current state matches the configured
// "from" state; anything else is a no-op.
func (g *Gate) PerformTransitionIfNeeded(ctx context.Context, ref interfaces.EntityRef) error {
	if g.writer == nil || g.transitionFrom == "" || g.transitionTo == "" {
		return nil
	}
	item, err := g.source.GetItem(ctx, ref)
	if err != nil {
		return err
	}
	if normalizeState(item.ModerationState) != g.transitionFrom {
		return nil
	}
	return g.writer.SetModerationState(ctx, ref, g.transitionTo)
}

func normalizeState(state string) string {
	return strings.ToLower(strings.TrimSpace(state))
}
