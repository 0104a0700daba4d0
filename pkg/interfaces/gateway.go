package interfaces

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound reports that the TMS no longer knows the document id.
	ErrDocumentNotFound = errors.New("gateway: document not found")
	// ErrTargetExists reports that the translation target was already requested.
	// Callers treat this as success so repeated requests stay idempotent.
	ErrTargetExists = errors.New("gateway: translation target already exists")
	// ErrPaymentRequired reports that the TMS community is disabled for billing reasons.
	ErrPaymentRequired = errors.New("gateway: payment required")
)

// DocumentArchivedError reports that the stored document id points at an
// archived document. The usual recovery is a fresh upload, decided by the
// caller rather than retried inside the engine.
type DocumentArchivedError struct {
	DocumentID string
}

func (e *DocumentArchivedError) Error() string {
	return fmt.Sprintf("gateway: document %s is archived", e.DocumentID)
}

// DocumentLockedError reports that the TMS holds a newer document id than the
// one supplied. NewDocumentID carries the replacement so local metadata can be
// corrected before the condition is surfaced.
type DocumentLockedError struct {
	DocumentID    string
	NewDocumentID string
}

func (e *DocumentLockedError) Error() string {
	return fmt.Sprintf("gateway: document %s is locked, superseded by %s", e.DocumentID, e.NewDocumentID)
}

// APIError wraps any other failure reported by the TMS REST layer.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: api error %d: %s", e.Code, e.Message)
}

// DocumentRouting carries the TMS routing configuration applied when a
// document is created or a target is requested.
type DocumentRouting struct {
	Project   string
	Workflow  string
	Vault     string
	Filter    string
	Subfilter string
}

// DocumentStatus reports the TMS-side state of an uploaded document.
type DocumentStatus struct {
	Importing       bool
	PercentComplete int
}

// TranslationGateway is the module's view of the TMS REST API. Implementations
// own transport concerns (auth, retries, timeouts); the sync engine only sees
// the semantic operations and the typed error conditions above.
type TranslationGateway interface {
	// CreateDocument uploads new source content and returns the TMS document id.
	CreateDocument(ctx context.Context, title string, content map[string]any, sourceLocale string, routing DocumentRouting) (string, error)
	// UpdateDocument replaces the content of an existing document.
	UpdateDocument(ctx context.Context, documentID string, content map[string]any) error
	// AddTranslationTarget requests a translation of the document into locale.
	// Implementations return ErrTargetExists when the target was requested before.
	AddTranslationTarget(ctx context.Context, documentID, locale string, routing DocumentRouting) error
	// GetDocumentStatus polls the source document import/progress state.
	GetDocumentStatus(ctx context.Context, documentID string) (DocumentStatus, error)
	// GetTranslationStatus reports the percent complete for one target locale.
	GetTranslationStatus(ctx context.Context, documentID, locale string) (int, error)
	// GetTranslationContent fetches the translated field values for a locale.
	GetTranslationContent(ctx context.Context, documentID, locale string) (map[string]any, error)
	// CancelDocument cancels the document and every outstanding target.
	CancelDocument(ctx context.Context, documentID string) error
	// CancelTarget cancels a single translation target.
	CancelTarget(ctx context.Context, documentID, locale string) error
}
