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
	downloadMessageType    = "tms.translation.download_one"
	targetReadyMessageType = "tms.translation.target_ready"
)

// DownloadTranslationCommand fetches one completed translation and writes it
// into the content source.
type DownloadTranslationCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
	Locale     string `json:"locale"`
}

// Type implements command.Message.
func (DownloadTranslationCommand) Type() string { return downloadMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DownloadTranslationCommand) Validate() error {
	if err := validateRef(downloadMessageType, m.EntityType, m.EntityID); err != nil {
		return err
	}
	if m.Locale == "" {
		return validation.Errors{
			"locale": validation.NewError(downloadMessageType+".locale_required", "locale is required"),
		}
	}
	return nil
}

func (m DownloadTranslationCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// DownloadTranslationHandler downloads translations via the sync engine.
type DownloadTranslationHandler struct {
	inner *commands.Handler[DownloadTranslationCommand]
}

// NewDownloadTranslationHandler constructs a handler wired to the provided engine.
func NewDownloadTranslationHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DownloadTranslationCommand]) *DownloadTranslationHandler {
	exec := func(ctx context.Context, msg DownloadTranslationCommand) error {
		return service.DownloadDocument(ctx, msg.ref(), msg.Locale)
	}

	handlerOpts := []commands.HandlerOption[DownloadTranslationCommand]{
		commands.WithLogger[DownloadTranslationCommand](logger),
		commands.WithOperation[DownloadTranslationCommand]("translation.download"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DownloadTranslationHandler{
		inner: commands.NewHandler[DownloadTranslationCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DownloadTranslationCommand].Execute.
func (h *DownloadTranslationHandler) Execute(ctx context.Context, msg DownloadTranslationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// TargetReadyCommand processes an inbound completion notification, typically
// translated from a TMS webhook by the host application.
type TargetReadyCommand struct {
	DocumentID string `json:"document_id"`
	Locale     string `json:"locale"`
}

// Type implements command.Message.
func (TargetReadyCommand) Type() string { return targetReadyMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m TargetReadyCommand) Validate() error {
	errs := validation.Errors{}
	if m.DocumentID == "" {
		errs["document_id"] = validation.NewError(targetReadyMessageType+".document_id_required", "document_id is required")
	}
	if m.Locale == "" {
		errs["locale"] = validation.NewError(targetReadyMessageType+".locale_required", "locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TargetReadyHandler routes completion notifications to the sync engine.
type TargetReadyHandler struct {
	inner *commands.Handler[TargetReadyCommand]
}

// NewTargetReadyHandler constructs a handler wired to the provided engine.
func NewTargetReadyHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[TargetReadyCommand]) *TargetReadyHandler {
	exec := func(ctx context.Context, msg TargetReadyCommand) error {
		return service.HandleTargetReady(ctx, msg.DocumentID, msg.Locale)
	}

	handlerOpts := []commands.HandlerOption[TargetReadyCommand]{
		commands.WithLogger[TargetReadyCommand](logger),
		commands.WithOperation[TargetReadyCommand]("translation.target_ready"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TargetReadyHandler{
		inner: commands.NewHandler[TargetReadyCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TargetReadyCommand].Execute.
func (h *TargetReadyHandler) Execute(ctx context.Context, msg TargetReadyCommand) error {
	return h.inner.Execute(ctx, msg)
}
