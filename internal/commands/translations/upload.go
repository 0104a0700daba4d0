package translationscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-tms-sync/internal/commands"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

const (
	uploadMessageType  = "tms.translation.upload"
	requestMessageType = "tms.translation.request"
)

// UploadDocumentCommand pushes one item's source content to the TMS.
type UploadDocumentCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
	JobID      string `json:"job_id,omitempty"`
	Profile    string `json:"profile,omitempty"`
}

// Type implements command.Message.
func (UploadDocumentCommand) Type() string { return uploadMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UploadDocumentCommand) Validate() error {
	return validateRef(uploadMessageType, m.EntityType, m.EntityID)
}

func (m UploadDocumentCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// UploadDocumentHandler uploads content via the sync engine using the shared
// command handler foundation.
type UploadDocumentHandler struct {
	inner *commands.Handler[UploadDocumentCommand]
}

// NewUploadDocumentHandler constructs a handler wired to the provided engine.
func NewUploadDocumentHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UploadDocumentCommand]) *UploadDocumentHandler {
	exec := func(ctx context.Context, msg UploadDocumentCommand) error {
		_, err := service.UploadDocument(ctx, msg.ref(), engine.UploadOptions{
			JobID:   msg.JobID,
			Profile: msg.Profile,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[UploadDocumentCommand]{
		commands.WithLogger[UploadDocumentCommand](logger),
		commands.WithOperation[UploadDocumentCommand]("translation.upload"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UploadDocumentHandler{
		inner: commands.NewHandler[UploadDocumentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UploadDocumentCommand].Execute.
func (h *UploadDocumentHandler) Execute(ctx context.Context, msg UploadDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RequestTranslationsCommand requests targets for every configured language.
type RequestTranslationsCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
}

// Type implements command.Message.
func (RequestTranslationsCommand) Type() string { return requestMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m RequestTranslationsCommand) Validate() error {
	return validateRef(requestMessageType, m.EntityType, m.EntityID)
}

func (m RequestTranslationsCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// RequestTranslationsHandler requests translation targets via the sync engine.
type RequestTranslationsHandler struct {
	inner *commands.Handler[RequestTranslationsCommand]
}

// NewRequestTranslationsHandler constructs a handler wired to the provided engine.
func NewRequestTranslationsHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RequestTranslationsCommand]) *RequestTranslationsHandler {
	exec := func(ctx context.Context, msg RequestTranslationsCommand) error {
		_, err := service.RequestTranslations(ctx, msg.ref())
		return err
	}

	handlerOpts := []commands.HandlerOption[RequestTranslationsCommand]{
		commands.WithLogger[RequestTranslationsCommand](logger),
		commands.WithOperation[RequestTranslationsCommand]("translation.request"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RequestTranslationsHandler{
		inner: commands.NewHandler[RequestTranslationsCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RequestTranslationsCommand].Execute.
func (h *RequestTranslationsHandler) Execute(ctx context.Context, msg RequestTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func validateRef(messageType, entityType, entityID string) error {
	errs := validation.Errors{}
	if entityType == "" {
		errs["entity_type_id"] = validation.NewError(messageType+".entity_type_required", "entity_type_id is required")
	}
	if entityID == "" {
		errs["entity_id"] = validation.NewError(messageType+".entity_id_required", "entity_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
