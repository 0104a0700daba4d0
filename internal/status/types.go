package status

import (
	"maps"
	"time"

	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/google/uuid"
)

// Record is the sync metadata kept per content item: the TMS document linkage,
// the content fingerprint of the last successful upload, the source status,
// and a status per requested target locale. Absence of a locale key means the
// locale was never requested.
type Record struct {
	ID           uuid.UUID
	EntityType   string
	EntityID     string
	DocumentID   string
	Hash         string
	SourceStatus domain.Status
	TargetStatus map[string]domain.Status
	JobID        string
	ProfileID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the entity reference the record belongs to.
func (r *Record) Ref() domain.EntityRef {
	return domain.EntityRef{Type: r.EntityType, ID: r.EntityID}
}

// Target returns the tracked status for a locale, StatusUntracked when the
// locale was never requested.
func (r *Record) Target(locale string) domain.Status {
	if r == nil || r.TargetStatus == nil {
		return domain.StatusUntracked
	}
	if status, ok := r.TargetStatus[locale]; ok {
		return status
	}
	return domain.StatusUntracked
}

// SetTarget records the status for a locale, allocating the map lazily.
func (r *Record) SetTarget(locale string, status domain.Status) {
	if r.TargetStatus == nil {
		r.TargetStatus = make(map[string]domain.Status, 1)
	}
	r.TargetStatus[locale] = status
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	copied := *src
	if src.TargetStatus != nil {
		copied.TargetStatus = maps.Clone(src.TargetStatus)
	}
	return &copied
}
