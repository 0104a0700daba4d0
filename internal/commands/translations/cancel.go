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
	cancelMessageType       = "tms.translation.cancel"
	cancelTargetMessageType = "tms.translation.cancel_target"
	disassociateMessageType = "tms.translation.disassociate"
)

// CancelDocumentCommand cancels a document and all its targets on the TMS.
type CancelDocumentCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
}

// Type implements command.Message.
func (CancelDocumentCommand) Type() string { return cancelMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CancelDocumentCommand) Validate() error {
	return validateRef(cancelMessageType, m.EntityType, m.EntityID)
}

func (m CancelDocumentCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// CancelDocumentHandler cancels documents via the sync engine.
type CancelDocumentHandler struct {
	inner *commands.Handler[CancelDocumentCommand]
}

// NewCancelDocumentHandler constructs a handler wired to the provided engine.
func NewCancelDocumentHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CancelDocumentCommand]) *CancelDocumentHandler {
	exec := func(ctx context.Context, msg CancelDocumentCommand) error {
		return service.CancelDocument(ctx, msg.ref())
	}

	handlerOpts := []commands.HandlerOption[CancelDocumentCommand]{
		commands.WithLogger[CancelDocumentCommand](logger),
		commands.WithOperation[CancelDocumentCommand]("translation.cancel"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CancelDocumentHandler{
		inner: commands.NewHandler[CancelDocumentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CancelDocumentCommand].Execute.
func (h *CancelDocumentHandler) Execute(ctx context.Context, msg CancelDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CancelTargetCommand cancels one translation target.
type CancelTargetCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
	Locale     string `json:"locale"`
}

// Type implements command.Message.
func (CancelTargetCommand) Type() string { return cancelTargetMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CancelTargetCommand) Validate() error {
	if err := validateRef(cancelTargetMessageType, m.EntityType, m.EntityID); err != nil {
		return err
	}
	if m.Locale == "" {
		return validation.Errors{
			"locale": validation.NewError(cancelTargetMessageType+".locale_required", "locale is required"),
		}
	}
	return nil
}

func (m CancelTargetCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// CancelTargetHandler cancels single targets via the sync engine.
type CancelTargetHandler struct {
	inner *commands.Handler[CancelTargetCommand]
}

// NewCancelTargetHandler constructs a handler wired to the provided engine.
func NewCancelTargetHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CancelTargetCommand]) *CancelTargetHandler {
	exec := func(ctx context.Context, msg CancelTargetCommand) error {
		return service.CancelDocumentTarget(ctx, msg.ref(), msg.Locale)
	}

	handlerOpts := []commands.HandlerOption[CancelTargetCommand]{
		commands.WithLogger[CancelTargetCommand](logger),
		commands.WithOperation[CancelTargetCommand]("translation.cancel_target"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CancelTargetHandler{
		inner: commands.NewHandler[CancelTargetCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CancelTargetCommand].Execute.
func (h *CancelTargetHandler) Execute(ctx context.Context, msg CancelTargetCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DisassociateCommand removes local sync metadata without touching the TMS.
type DisassociateCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
}

// Type implements command.Message.
func (DisassociateCommand) Type() string { return disassociateMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DisassociateCommand) Validate() error {
	return validateRef(disassociateMessageType, m.EntityType, m.EntityID)
}

func (m DisassociateCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// DisassociateHandler drops sync metadata via the sync engine.
type DisassociateHandler struct {
	inner *commands.Handler[DisassociateCommand]
}

// NewDisassociateHandler constructs a handler wired to the provided engine.
func NewDisassociateHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DisassociateCommand]) *DisassociateHandler {
	exec := func(ctx context.Context, msg DisassociateCommand) error {
		return service.DeleteMetadata(ctx, msg.ref())
	}

	handlerOpts := []commands.HandlerOption[DisassociateCommand]{
		commands.WithLogger[DisassociateCommand](logger),
		commands.WithOperation[DisassociateCommand]("translation.disassociate"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DisassociateHandler{
		inner: commands.NewHandler[DisassociateCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DisassociateCommand].Execute.
func (h *DisassociateHandler) Execute(ctx context.Context, msg DisassociateCommand) error {
	return h.inner.Execute(ctx, msg)
}
