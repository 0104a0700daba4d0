package bulk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-tms-sync/internal/bulk"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

// scriptedEngine returns canned errors per entity id and records call order.
type scriptedEngine struct {
	engine.Service
	uploadErrs   map[string]error
	checkErrs    map[string]error
	calls        []string
	deletedRefs  []domain.EntityRef
	uploadedRefs []domain.EntityRef
}

func newScriptedEngine() *scriptedEngine {
	return &scriptedEngine{
		uploadErrs: map[string]error{},
		checkErrs:  map[string]error{},
	}
}

func (s *scriptedEngine) UploadDocument(_ context.Context, ref domain.EntityRef, _ engine.UploadOptions) (string, error) {
	s.calls = append(s.calls, "upload:"+ref.ID)
	s.uploadedRefs = append(s.uploadedRefs, ref)
	if err := s.uploadErrs[ref.ID]; err != nil {
		return "", err
	}
	return "doc-" + ref.ID, nil
}

func (s *scriptedEngine) CheckSourceStatus(_ context.Context, ref domain.EntityRef) (domain.Status, error) {
	s.calls = append(s.calls, "check:"+ref.ID)
	if err := s.checkErrs[ref.ID]; err != nil {
		delete(s.checkErrs, ref.ID)
		return domain.StatusError, err
	}
	return domain.StatusCurrent, nil
}

func (s *scriptedEngine) DeleteMetadata(_ context.Context, ref domain.EntityRef) error {
	s.calls = append(s.calls, "delete:"+ref.ID)
	s.deletedRefs = append(s.deletedRefs, ref)
	return nil
}

func refs(ids ...string) []domain.EntityRef {
	out := make([]domain.EntityRef, len(ids))
	for i, id := range ids {
		out[i] = domain.EntityRef{Type: "node", ID: id}
	}
	return out
}

func TestExecutorIsolatesItemFailures(t *testing.T) {
	ctx := context.Background()
	stub := newScriptedEngine()
	stub.uploadErrs["2"] = errors.New("item gone")
	executor, err := bulk.NewExecutor(stub)
	if err != nil {
		t.Fatalf("new executor: %v", err)
	}

	result, err := executor.Execute(ctx, bulk.Request{
		Action: bulk.ActionUpload,
		Refs:   refs("1", "2", "3"),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(result.Outcomes))
	}
	if result.Submitted != 2 {
		t.Fatalf("expected 2 submitted, got %d", result.Submitted)
	}
	if result.KeepSelection {
		t.Fatal("expected selection released when some items submitted")
	}
	if result.Outcomes[1].OK() || !result.Outcomes[0].OK() || !result.Outcomes[2].OK() {
		t.Fatalf("unexpected outcome pattern: %+v", result.Outcomes)
	}
}

func TestExecutorKeepsSelectionWhenNothingSubmitted(t *testing.T) {
	ctx := context.Background()
	stub := newScriptedEngine()
	stub.uploadErrs["1"] = errors.New("boom")
	stub.uploadErrs["2"] = errors.New("boom")
	executor, _ := bulk.NewExecutor(stub)

	result, err := executor.Execute(ctx, bulk.Request{
		Action: bulk.ActionUpload,
		Refs:   refs("1", "2"),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.KeepSelection {
		t.Fatal("expected keep-selection signal when nothing was submitted")
	}
}

func TestExecutorFallsBackOnArchivedDocument(t *testing.T) {
	ctx := context.Background()
	stub := newScriptedEngine()
	stub.checkErrs["1"] = &interfaces.DocumentArchivedError{DocumentID: "doc-old"}
	executor, _ := bulk.NewExecutor(stub)

	result, err := executor.Execute(ctx, bulk.Request{
		Action: bulk.ActionCheckSource,
		Refs:   refs("1"),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	outcome := result.Outcomes[0]
	if !outcome.OK() {
		t.Fatalf("expected fallback to recover, got %v", outcome.Err)
	}
	if !outcome.FellBack {
		t.Fatal("expected fallback to be recorded")
	}
	want := []string{"check:1", "delete:1", "upload:1", "check:1"}
	if len(stub.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, stub.calls)
	}
	for i, call := range want {
		if stub.calls[i] != call {
			t.Fatalf("expected calls %v, got %v", want, stub.calls)
		}
	}
}

func TestBatchSteppingReportsProgress(t *testing.T) {
	ctx := context.Background()
	stub := newScriptedEngine()
	executor, _ := bulk.NewExecutor(stub)

	batch, err := executor.NewBatch(bulk.Request{
		Action: bulk.ActionUpload,
		Refs:   refs("1", "2", "3"),
	})
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}

	processed, total := batch.Progress()
	if processed != 0 || total != 3 {
		t.Fatalf("expected 0/3, got %d/%d", processed, total)
	}

	done, err := batch.Step(ctx)
	if err != nil || done {
		t.Fatalf("expected more work, done=%v err=%v", done, err)
	}
	processed, _ = batch.Progress()
	if processed != 1 {
		t.Fatalf("expected 1 processed, got %d", processed)
	}

	for !done {
		done, err = batch.Step(ctx)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if result := batch.Result(); result.Submitted != 3 {
		t.Fatalf("expected 3 submitted, got %d", result.Submitted)
	}
}

func TestRequestValidation(t *testing.T) {
	stub := newScriptedEngine()
	executor, _ := bulk.NewExecutor(stub)

	if _, err := executor.NewBatch(bulk.Request{Action: bulk.ActionUpload}); err == nil {
		t.Fatal("expected empty selection to fail validation")
	}
	if _, err := executor.NewBatch(bulk.Request{Action: bulk.ActionDownload, Refs: refs("1")}); err == nil {
		t.Fatal("expected download without locale to fail validation")
	}
	if _, err := executor.NewBatch(bulk.Request{Action: "explode", Refs: refs("1")}); err == nil {
		t.Fatal("expected unknown action to fail validation")
	}
}
