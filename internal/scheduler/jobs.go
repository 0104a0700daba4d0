package scheduler

import "github.com/goliatone/go-tms-sync/internal/domain"

const (
	// JobTypeTranslationDownload downloads one completed translation target.
	JobTypeTranslationDownload = "tms.translation.download"
)

// Payload keys shared between the engine (producer) and the download worker.
const (
	PayloadKeyEntityType = "entity_type_id"
	PayloadKeyEntityID   = "entity_id"
	PayloadKeyLocale     = "locale"
	PayloadKeyDocumentID = "document_id"
)

// DownloadJobKey builds the idempotency key for a translation download, one
// job per (entity, locale) pair so re-notification replaces the pending job
// instead of duplicating it.
func DownloadJobKey(ref domain.EntityRef, langcode string) string {
	return "tms:download:" + ref.Type + ":" + ref.ID + ":" + langcode
}

// DownloadJobPayload builds the payload carried by a download job.
func DownloadJobPayload(ref domain.EntityRef, langcode, documentID string) map[string]any {
	return map[string]any{
		PayloadKeyEntityType: ref.Type,
		PayloadKeyEntityID:   ref.ID,
		PayloadKeyLocale:     langcode,
		PayloadKeyDocumentID: documentID,
	}
}
