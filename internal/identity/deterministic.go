package identity

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-tms-sync/pkg/interfaces"
	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// MetadataUUID derives the sync metadata record id for an entity reference.
func MetadataUUID(ref interfaces.EntityRef) uuid.UUID {
	return UUID("go-tms-sync:metadata:" + ref.Type + ":" + ref.ID)
}

// ProfileUUID derives the id for a named sync profile.
func ProfileUUID(name string) uuid.UUID {
	return UUID("go-tms-sync:profile:" + strings.ToLower(strings.TrimSpace(name)))
}

// ContentFingerprint derives a stable fingerprint for translatable content.
// json.Marshal sorts map keys, so logically equal payloads hash identically.
// The fingerprint is what the upload hash gate compares to decide whether the
// TMS document needs an update.
func ContentFingerprint(title string, fields map[string]any) string {
	payload, err := json.Marshal(struct {
		Title  string         `json:"title"`
		Fields map[string]any `json:"fields"`
	}{Title: title, Fields: fields})
	if err != nil {
		return UUID("go-tms-sync:content:" + title).String()
	}
	return UUID("go-tms-sync:content:" + string(payload)).String()
}
