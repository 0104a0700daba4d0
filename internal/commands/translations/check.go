package translationscmd

import (
	"context"

	"github.com/goliatone/go-tms-sync/internal/commands"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

const checkStatusMessageType = "tms.translation.check_status"

// CheckStatusCommand polls the TMS for the source document state and every
// tracked target locale.
type CheckStatusCommand struct {
	EntityType string `json:"entity_type_id"`
	EntityID   string `json:"entity_id"`
}

// Type implements command.Message.
func (CheckStatusCommand) Type() string { return checkStatusMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CheckStatusCommand) Validate() error {
	return validateRef(checkStatusMessageType, m.EntityType, m.EntityID)
}

func (m CheckStatusCommand) ref() domain.EntityRef {
	return domain.EntityRef{Type: m.EntityType, ID: m.EntityID}
}

// CheckStatusHandler refreshes source and target statuses via the sync engine.
type CheckStatusHandler struct {
	inner *commands.Handler[CheckStatusCommand]
}

// NewCheckStatusHandler constructs a handler wired to the provided engine.
func NewCheckStatusHandler(service engine.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CheckStatusCommand]) *CheckStatusHandler {
	exec := func(ctx context.Context, msg CheckStatusCommand) error {
		ref := msg.ref()
		if _, err := service.CheckSourceStatus(ctx, ref); err != nil {
			return err
		}
		_, err := service.CheckTargetStatuses(ctx, ref)
		return err
	}

	handlerOpts := []commands.HandlerOption[CheckStatusCommand]{
		commands.WithLogger[CheckStatusCommand](logger),
		commands.WithOperation[CheckStatusCommand]("translation.check_status"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckStatusHandler{
		inner: commands.NewHandler[CheckStatusCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CheckStatusCommand].Execute.
func (h *CheckStatusHandler) Execute(ctx context.Context, msg CheckStatusCommand) error {
	return h.inner.Execute(ctx, msg)
}
