package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/internal/logging"
	"github.com/goliatone/go-tms-sync/internal/scheduler"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchedulerRequired = errors.New("jobs: scheduler is required")
	ErrEngineRequired    = errors.New("jobs: sync engine is required")
)

// downloadPayloadSchema validates the job payload before any work happens so a
// malformed job fails loudly on its first attempt instead of surfacing as a
// confusing downstream error.
const downloadPayloadSchema = `{
	"type": "object",
	"required": ["entity_type_id", "entity_id", "locale"],
	"properties": {
		"entity_type_id": {"type": "string", "minLength": 1},
		"entity_id": {"type": ["string", "integer"], "minLength": 1},
		"locale": {"type": "string", "minLength": 1},
		"document_id": {"type": "string"}
	}
}`

var downloadSchema = jsonschema.MustCompileString("download_payload.json", downloadPayloadSchema)

// Worker drains due translation download jobs from the scheduler. Delivery is
// at least once: a job that fails is retried by the scheduler, and the
// engine's download is idempotent so replays after a crash are harmless.
type Worker struct {
	scheduler interfaces.Scheduler
	engine    engine.Service
	source    interfaces.ContentSource
	audit     AuditRecorder
	logger    interfaces.Logger
	now       func() time.Time
	batchSize int
}

// Option configures the worker.
type Option func(*Worker)

// WithAuditRecorder records an audit event per processed download.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

// WithContentSource enables the entity type guard; without it the worker
// trusts the payload and lets the engine fail on unknown entities.
func WithContentSource(source interfaces.ContentSource) Option {
	return func(w *Worker) {
		w.source = source
	}
}

// WithLogger sets the worker logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the time source, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

// WithBatchSize caps how many due jobs one Process pass drains.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// NewWorker builds a download worker over the scheduler and sync engine.
func NewWorker(queue interfaces.Scheduler, svc engine.Service, opts ...Option) (*Worker, error) {
	if queue == nil {
		return nil, ErrSchedulerRequired
	}
	if svc == nil {
		return nil, ErrEngineRequired
	}
	w := &Worker{
		scheduler: queue,
		engine:    svc,
		logger:    logging.NoOp(),
		now:       time.Now,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Process drains one batch of due jobs. Failures mark the job failed and move
// on; one poisonous job never blocks the rest of the batch.
func (w *Worker) Process(ctx context.Context) error {
	due, err := w.scheduler.ListDue(ctx, w.now(), w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range due {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job); err != nil {
			w.logger.Error("download job failed",
				"job_id", job.ID, "job_type", job.Type, "attempt", job.Attempt, "error", err)
			if merr := w.scheduler.MarkFailed(ctx, job.ID, err); merr != nil {
				w.logger.Error("failed to mark job failed", "job_id", job.ID, "error", merr)
			}
			continue
		}
		if merr := w.scheduler.MarkDone(ctx, job.ID); merr != nil {
			w.logger.Error("failed to mark job done", "job_id", job.ID, "error", merr)
		}
	}
	return nil
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job) error {
	switch job.Type {
	case scheduler.JobTypeTranslationDownload:
		return w.processDownload(ctx, job)
	default:
		return nil
	}
}

func (w *Worker) processDownload(ctx context.Context, job *interfaces.Job) error {
	ref, langcode, err := parseDownloadPayload(job.Payload)
	if err != nil {
		return err
	}
	if w.source != nil && !w.source.Supports(ref.Type) {
		return fmt.Errorf("jobs: entity type %q is not translatable", ref.Type)
	}

	if err := w.engine.DownloadDocument(ctx, ref, langcode); err != nil {
		return err
	}

	w.recordAudit(ctx, AuditEvent{
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Action:     "translation_download",
		OccurredAt: w.now(),
		Metadata: map[string]any{
			"job_id":   job.ID,
			"job_type": job.Type,
			"locale":   langcode,
			"attempt":  job.Attempt,
		},
	})
	w.logger.Info("translation download processed",
		"entity", ref.String(), "locale", langcode, "job_id", job.ID)
	return nil
}

func (w *Worker) recordAudit(ctx context.Context, event AuditEvent) {
	if w.audit == nil {
		return
	}
	_ = w.audit.Record(ctx, event)
}

func parseDownloadPayload(payload map[string]any) (domain.EntityRef, string, error) {
	if payload == nil {
		return domain.EntityRef{}, "", fmt.Errorf("jobs: missing payload")
	}
	if err := downloadSchema.Validate(map[string]any(payload)); err != nil {
		return domain.EntityRef{}, "", fmt.Errorf("jobs: invalid download payload: %w", err)
	}
	ref := domain.EntityRef{
		Type: payload[scheduler.PayloadKeyEntityType].(string),
		ID:   entityIDString(payload[scheduler.PayloadKeyEntityID]),
	}
	return ref, payload[scheduler.PayloadKeyLocale].(string), nil
}

// entityIDString coerces the schema-validated entity id to a string. Hosts
// with integer entity ids enqueue numbers, which survive JSON round trips as
// float64 or json.Number.
func entityIDString(value any) string {
	switch id := value.(type) {
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}
