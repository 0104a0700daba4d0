package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-tms-sync/internal/content"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/internal/jobs"
	"github.com/goliatone/go-tms-sync/internal/scheduler"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

type downloadCall struct {
	ref      domain.EntityRef
	langcode string
}

// stubEngine records download requests; every other operation is unused by the worker.
type stubEngine struct {
	engine.Service
	downloads []downloadCall
	err       error
}

func (s *stubEngine) DownloadDocument(_ context.Context, ref domain.EntityRef, langcode string) error {
	s.downloads = append(s.downloads, downloadCall{ref: ref, langcode: langcode})
	return s.err
}

func enqueueDownload(t *testing.T, queue interfaces.Scheduler, ref domain.EntityRef, langcode string, runAt time.Time) *interfaces.Job {
	t.Helper()
	job, err := queue.Enqueue(context.Background(), interfaces.JobSpec{
		Key:     scheduler.DownloadJobKey(ref, langcode),
		Type:    scheduler.JobTypeTranslationDownload,
		RunAt:   runAt,
		Payload: scheduler.DownloadJobPayload(ref, langcode, "doc-1"),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return job
}

func TestWorkerProcessesDueDownloads(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := scheduler.NewInMemory(scheduler.WithClock(func() time.Time { return now }))
	stub := &stubEngine{}
	audit := jobs.NewInMemoryAuditRecorder()

	worker, err := jobs.NewWorker(queue, stub,
		jobs.WithAuditRecorder(audit),
		jobs.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	ref := domain.EntityRef{Type: "node", ID: "42"}
	job := enqueueDownload(t, queue, ref, "es", now.Add(-time.Minute))

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stub.downloads) != 1 {
		t.Fatalf("expected one download, got %d", len(stub.downloads))
	}
	if stub.downloads[0].ref != ref || stub.downloads[0].langcode != "es" {
		t.Fatalf("unexpected download call %+v", stub.downloads[0])
	}

	stored, err := queue.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != interfaces.JobStatusCompleted {
		t.Fatalf("expected completed job, got %s", stored.Status)
	}
	events := audit.Events()
	if len(events) != 1 || events[0].Action != "translation_download" {
		t.Fatalf("expected a download audit event, got %v", events)
	}
}

func TestWorkerMarksFailedJobsAndContinues(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := scheduler.NewInMemory(scheduler.WithClock(func() time.Time { return now }))
	stub := &stubEngine{err: errors.New("gateway unavailable")}

	worker, err := jobs.NewWorker(queue, stub, jobs.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	refA := domain.EntityRef{Type: "node", ID: "1"}
	refB := domain.EntityRef{Type: "node", ID: "2"}
	jobA := enqueueDownload(t, queue, refA, "es", now.Add(-time.Minute))
	enqueueDownload(t, queue, refB, "fr", now.Add(-time.Minute))

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	// Both jobs were attempted despite the first failing.
	if len(stub.downloads) != 2 {
		t.Fatalf("expected both jobs attempted, got %d", len(stub.downloads))
	}
	stored, err := queue.Get(ctx, jobA.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status == interfaces.JobStatusCompleted {
		t.Fatal("expected failed job not to be completed")
	}
	if stored.Attempt != 1 {
		t.Fatalf("expected one recorded attempt, got %d", stored.Attempt)
	}
}

func TestWorkerRejectsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := scheduler.NewInMemory(scheduler.WithClock(func() time.Time { return now }))
	stub := &stubEngine{}

	worker, err := jobs.NewWorker(queue, stub, jobs.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	job, err := queue.Enqueue(ctx, interfaces.JobSpec{
		Key:     "tms:download:broken",
		Type:    scheduler.JobTypeTranslationDownload,
		RunAt:   now.Add(-time.Minute),
		Payload: map[string]any{"entity_id": "42"},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stub.downloads) != 0 {
		t.Fatal("expected no download for a malformed payload")
	}
	stored, _ := queue.Get(ctx, job.ID)
	if stored.LastError == "" {
		t.Fatal("expected validation failure recorded on the job")
	}
}

func TestWorkerAcceptsIntegerEntityIDs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := scheduler.NewInMemory(scheduler.WithClock(func() time.Time { return now }))
	stub := &stubEngine{}

	worker, err := jobs.NewWorker(queue, stub, jobs.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	// Hosts keyed by numeric primary keys enqueue the id as a number.
	job, err := queue.Enqueue(ctx, interfaces.JobSpec{
		Key:   "tms:download:node:42:es",
		Type:  scheduler.JobTypeTranslationDownload,
		RunAt: now.Add(-time.Minute),
		Payload: map[string]any{
			scheduler.PayloadKeyEntityType: "node",
			scheduler.PayloadKeyEntityID:   42,
			scheduler.PayloadKeyLocale:     "es",
			scheduler.PayloadKeyDocumentID: "doc-1",
		},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stub.downloads) != 1 {
		t.Fatalf("expected one download, got %d", len(stub.downloads))
	}
	if got := stub.downloads[0].ref; got.Type != "node" || got.ID != "42" {
		t.Fatalf("expected entity id coerced to string, got %+v", got)
	}
	stored, err := queue.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != interfaces.JobStatusCompleted {
		t.Fatalf("expected completed job, got %s", stored.Status)
	}
}

func TestWorkerGuardsUnsupportedEntityTypes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := scheduler.NewInMemory(scheduler.WithClock(func() time.Time { return now }))
	stub := &stubEngine{}
	source := content.NewMemorySource("node")

	worker, err := jobs.NewWorker(queue, stub,
		jobs.WithContentSource(source),
		jobs.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	job := enqueueDownload(t, queue, domain.EntityRef{Type: "widget", ID: "9"}, "es", now.Add(-time.Minute))

	if err := worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stub.downloads) != 0 {
		t.Fatal("expected unsupported entity type to be rejected before download")
	}
	stored, _ := queue.Get(ctx, job.ID)
	if stored.LastError == "" {
		t.Fatal("expected rejection recorded on the job")
	}
}
