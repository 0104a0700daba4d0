package bulk

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/internal/logging"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
	"github.com/google/uuid"
)

var ErrEngineRequired = errors.New("bulk: sync engine is required")

// Action names a bulk operation applied to a selection of items.
type Action string

const (
	ActionUpload       Action = "upload"
	ActionRequest      Action = "request"
	ActionCheckSource  Action = "check_source"
	ActionCheckTargets Action = "check_targets"
	ActionDownload     Action = "download"
	ActionCancel       Action = "cancel"
	ActionCancelTarget Action = "cancel_target"
	ActionDisassociate Action = "disassociate"
)

var knownActions = map[Action]domain.Operation{
	ActionUpload:       domain.OperationUpload,
	ActionRequest:      domain.OperationRequest,
	ActionCheckSource:  domain.OperationCheckSource,
	ActionCheckTargets: domain.OperationCheckTarget,
	ActionDownload:     domain.OperationDownload,
	ActionCancel:       domain.OperationCancel,
	ActionCancelTarget: domain.OperationCancelTarget,
	ActionDisassociate: domain.OperationDisassociate,
}

// Request describes one bulk operation over a selection.
type Request struct {
	Action  Action
	Refs    []domain.EntityRef
	Locale  string
	JobID   string
	Profile string
}

// Validate checks the request before any item is processed.
func (r Request) Validate() error {
	errs := validation.Errors{}
	if _, ok := knownActions[r.Action]; !ok {
		errs["action"] = validation.NewError("tms.bulk.action_unknown",
			fmt.Sprintf("unknown bulk action %q", r.Action))
	}
	if len(r.Refs) == 0 {
		errs["refs"] = validation.NewError("tms.bulk.refs_empty", "selection is empty")
	}
	if (r.Action == ActionDownload || r.Action == ActionCancelTarget) && r.Locale == "" {
		errs["locale"] = validation.NewError("tms.bulk.locale_required",
			fmt.Sprintf("action %q needs a target locale", r.Action))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Result aggregates per-item outcomes. KeepSelection tells the presentation
// layer to leave the selection in place because nothing was submitted, so the
// user can retry without re-selecting.
type Result struct {
	Outcomes      []domain.Outcome
	Submitted     int
	KeepSelection bool
}

// Executor applies one engine operation across a selection with per-item
// failure isolation: one failing item never aborts the rest.
type Executor struct {
	engine engine.Service
	logger interfaces.Logger
}

// Option configures the executor.
type Option func(*Executor)

// WithLogger sets the executor logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor builds a bulk executor over the sync engine.
func NewExecutor(svc engine.Service, opts ...Option) (*Executor, error) {
	if svc == nil {
		return nil, ErrEngineRequired
	}
	e := &Executor{engine: svc, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Execute runs the whole request in one call. Hosts that drive progress bars
// use NewBatch and Step instead.
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	batch, err := e.NewBatch(req)
	if err != nil {
		return nil, err
	}
	for {
		done, err := batch.Step(ctx)
		if err != nil {
			return batch.Result(), err
		}
		if done {
			return batch.Result(), nil
		}
	}
}

// Batch is an externally drivable cursor over a bulk request: the host calls
// Step once per item, typically from a batch-processing UI callback.
type Batch struct {
	executor  *Executor
	request   Request
	operation domain.Operation
	index     int
	outcomes  []domain.Outcome
	submitted int
}

// NewBatch validates the request and prepares a stepper. A request without a
// job id gets a generated one so all items share a grouping tag.
func (e *Executor) NewBatch(req Request) (*Batch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	return &Batch{
		executor:  e,
		request:   req,
		operation: knownActions[req.Action],
		outcomes:  make([]domain.Outcome, 0, len(req.Refs)),
	}, nil
}

// Progress reports items processed so far and the total.
func (b *Batch) Progress() (int, int) {
	return b.index, len(b.request.Refs)
}

// Step processes the next item. It returns true when the batch is exhausted.
// A per-item failure is recorded in the outcome list, not returned; Step only
// errors when the context is cancelled.
func (b *Batch) Step(ctx context.Context) (bool, error) {
	if b.index >= len(b.request.Refs) {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ref := b.request.Refs[b.index]
	b.index++

	outcome := b.executor.runItem(ctx, b.request, b.operation, ref)
	b.outcomes = append(b.outcomes, outcome)
	if outcome.OK() {
		b.submitted++
	} else {
		b.executor.logger.Warn("bulk item failed",
			"action", string(b.request.Action), "entity", ref.String(), "error", outcome.Err)
	}
	return b.index >= len(b.request.Refs), nil
}

// Result returns the aggregate for the items processed so far.
func (b *Batch) Result() *Result {
	return &Result{
		Outcomes:      b.outcomes,
		Submitted:     b.submitted,
		KeepSelection: b.submitted == 0 && len(b.outcomes) > 0,
	}
}

func (e *Executor) runItem(ctx context.Context, req Request, operation domain.Operation, ref domain.EntityRef) domain.Outcome {
	outcome := domain.Outcome{Ref: ref, Operation: operation, Locale: req.Locale}
	outcome.Err = e.applyAction(ctx, req, ref)

	// A stale document id pointing at an archived document is recoverable:
	// drop the linkage, upload fresh, and retry the action once.
	var archived *interfaces.DocumentArchivedError
	if errors.As(outcome.Err, &archived) {
		e.logger.Info("document archived, re-uploading",
			"entity", ref.String(), "document_id", archived.DocumentID)
		outcome.FellBack = true
		outcome.Err = e.reuploadAndRetry(ctx, req, ref)
	}
	return outcome
}

func (e *Executor) reuploadAndRetry(ctx context.Context, req Request, ref domain.EntityRef) error {
	if err := e.engine.DeleteMetadata(ctx, ref); err != nil {
		return err
	}
	if _, err := e.engine.UploadDocument(ctx, ref, engine.UploadOptions{JobID: req.JobID, Profile: req.Profile}); err != nil {
		return err
	}
	if req.Action == ActionUpload {
		return nil
	}
	return e.applyAction(ctx, req, ref)
}

func (e *Executor) applyAction(ctx context.Context, req Request, ref domain.EntityRef) error {
	switch req.Action {
	case ActionUpload:
		_, err := e.engine.UploadDocument(ctx, ref, engine.UploadOptions{JobID: req.JobID, Profile: req.Profile})
		return err
	case ActionRequest:
		_, err := e.engine.RequestTranslations(ctx, ref)
		return err
	case ActionCheckSource:
		_, err := e.engine.CheckSourceStatus(ctx, ref)
		return err
	case ActionCheckTargets:
		_, err := e.engine.CheckTargetStatuses(ctx, ref)
		return err
	case ActionDownload:
		return e.engine.DownloadDocument(ctx, ref, req.Locale)
	case ActionCancel:
		return e.engine.CancelDocument(ctx, ref)
	case ActionCancelTarget:
		return e.engine.CancelDocumentTarget(ctx, ref, req.Locale)
	case ActionDisassociate:
		return e.engine.DeleteMetadata(ctx, ref)
	default:
		return fmt.Errorf("bulk: unknown action %q", req.Action)
	}
}
