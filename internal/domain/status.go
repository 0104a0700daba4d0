package domain

import "strings"

// Status tracks where a piece of content sits in the translation lifecycle.
// The same enumeration serves the source document and each target locale;
// not every value is legal in every position (the engine enforces that).
type Status string

const (
	// StatusUntracked marks content the TMS has never seen, or a locale that
	// was never requested.
	StatusUntracked Status = "untracked"
	// StatusEdited marks source content changed locally since the last upload.
	StatusEdited Status = "edited"
	// StatusCurrent marks content that matches the TMS-side state.
	StatusCurrent Status = "current"
	// StatusImporting marks a source document the TMS is still processing.
	StatusImporting Status = "importing"
	// StatusPending marks a requested target with no finished translation yet.
	StatusPending Status = "pending"
	// StatusReady marks a target whose translation is complete and downloadable.
	StatusReady Status = "ready"
	// StatusIntermediate marks a partially complete target translation.
	StatusIntermediate Status = "intermediate"
	// StatusError marks an operation failure recorded against the item/locale.
	StatusError Status = "error"
	// StatusArchived marks a document archived on the TMS side.
	StatusArchived Status = "archived"
	// StatusCancelled marks a cancelled document or target.
	StatusCancelled Status = "cancelled"
	// StatusDisabled marks a locale excluded by profile configuration.
	StatusDisabled Status = "disabled"
	// StatusRequest marks a target queued for request but not yet sent.
	StatusRequest Status = "request"
	// StatusNone is the absence of a tracked status.
	StatusNone Status = "none"
	// StatusLocked marks a document superseded by a newer TMS document id.
	StatusLocked Status = "locked"
	// StatusDuplicate marks content whose fingerprint collides with another
	// tracked document, gating uploads until resolved.
	StatusDuplicate Status = "duplicate"
)

// NormalizeStatus coerces arbitrary status strings into a known value,
// defaulting to StatusUntracked for unknown or empty input.
func NormalizeStatus(input string) Status {
	status := Status(strings.ToLower(strings.TrimSpace(input)))
	switch status {
	case StatusUntracked, StatusEdited, StatusCurrent, StatusImporting,
		StatusPending, StatusReady, StatusIntermediate, StatusError,
		StatusArchived, StatusCancelled, StatusDisabled, StatusRequest,
		StatusNone, StatusLocked, StatusDuplicate:
		return status
	default:
		return StatusUntracked
	}
}

// UploadBlocked reports whether a source status gates further uploads.
func (s Status) UploadBlocked() bool {
	return s == StatusLocked || s == StatusDuplicate
}

// Downloadable reports whether a target status allows a download. A partial
// translation (intermediate) is not downloadable; callers re-check the remote
// percent when local state says otherwise.
func (s Status) Downloadable() bool {
	return s == StatusReady || s == StatusCurrent
}
