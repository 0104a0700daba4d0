package status_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/status"
)

func newTestStore() *status.Store {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return status.NewStore(status.NewMemoryRepository(), status.WithClock(func() time.Time { return now }))
}

func TestStoreLazyRecordCreation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	ref := domain.EntityRef{Type: "node", ID: "1"}

	source, err := store.GetSourceStatus(ctx, ref)
	if err != nil {
		t.Fatalf("get source status: %v", err)
	}
	if source != domain.StatusUntracked {
		t.Fatalf("expected untracked source, got %s", source)
	}

	if err := store.SetDocumentID(ctx, ref, "doc-1"); err != nil {
		t.Fatalf("set document id: %v", err)
	}
	id, err := store.GetDocumentID(ctx, ref)
	if err != nil {
		t.Fatalf("get document id: %v", err)
	}
	if id != "doc-1" {
		t.Fatalf("expected doc-1, got %q", id)
	}
}

func TestStoreTargetStatusAbsentMeansUntracked(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	ref := domain.EntityRef{Type: "node", ID: "2"}

	got, err := store.GetTargetStatus(ctx, ref, "es_ES")
	if err != nil {
		t.Fatalf("get target status: %v", err)
	}
	if got != domain.StatusUntracked {
		t.Fatalf("expected untracked, got %s", got)
	}

	if err := store.SetTargetStatus(ctx, ref, "es_ES", domain.StatusPending); err != nil {
		t.Fatalf("set target status: %v", err)
	}
	got, _ = store.GetTargetStatus(ctx, ref, "es_ES")
	if got != domain.StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
}

func TestStoreSetAllTargetsStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	ref := domain.EntityRef{Type: "node", ID: "3"}

	for _, locale := range []string{"es_ES", "fr_FR", "de_DE"} {
		if err := store.SetTargetStatus(ctx, ref, locale, domain.StatusCurrent); err != nil {
			t.Fatalf("set target: %v", err)
		}
	}
	if err := store.SetAllTargetsStatus(ctx, ref, domain.StatusPending); err != nil {
		t.Fatalf("set all targets: %v", err)
	}
	record, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(record.TargetStatus) != 3 {
		t.Fatalf("expected 3 tracked locales, got %d", len(record.TargetStatus))
	}
	for locale, got := range record.TargetStatus {
		if got != domain.StatusPending {
			t.Fatalf("expected %s pending, got %s", locale, got)
		}
	}
	// Untracked locales stay untracked.
	if got := record.Target("ja_JP"); got != domain.StatusUntracked {
		t.Fatalf("expected untracked ja_JP, got %s", got)
	}
}

func TestStoreGetByDocumentID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	ref := domain.EntityRef{Type: "node", ID: "4"}

	if err := store.SetDocumentID(ctx, ref, "doc-4"); err != nil {
		t.Fatalf("set document id: %v", err)
	}
	record, err := store.GetByDocumentID(ctx, "doc-4")
	if err != nil {
		t.Fatalf("get by document id: %v", err)
	}
	if record.Ref() != ref {
		t.Fatalf("expected %v, got %v", ref, record.Ref())
	}

	if _, err := store.GetByDocumentID(ctx, "missing"); !status.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreDeleteClearsLinkage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	ref := domain.EntityRef{Type: "node", ID: "5"}

	if err := store.SetDocumentID(ctx, ref, "doc-5"); err != nil {
		t.Fatalf("set document id: %v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	id, err := store.GetDocumentID(ctx, ref)
	if err != nil {
		t.Fatalf("get document id: %v", err)
	}
	if id != "" {
		t.Fatalf("expected cleared document id, got %q", id)
	}
	// Deleting absent metadata is a no-op.
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestStoreConcurrentMutationsMerge(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	ref := domain.EntityRef{Type: "node", ID: "6"}

	locales := []string{"es_ES", "fr_FR", "de_DE", "it_IT", "ja_JP", "ko_KR"}
	var wg sync.WaitGroup
	for _, locale := range locales {
		wg.Add(1)
		go func(locale string) {
			defer wg.Done()
			if err := store.SetTargetStatus(ctx, ref, locale, domain.StatusPending); err != nil {
				t.Errorf("set target %s: %v", locale, err)
			}
		}(locale)
	}
	wg.Wait()

	record, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(record.TargetStatus) != len(locales) {
		t.Fatalf("lost writes: expected %d locales, got %d", len(locales), len(record.TargetStatus))
	}
}

func TestStoreJobGrouping(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for i, id := range []string{"10", "11", "12"} {
		ref := domain.EntityRef{Type: "node", ID: id}
		jobID := "batch-a"
		if i == 2 {
			jobID = "batch-b"
		}
		if _, err := store.Mutate(ctx, ref, func(record *status.Record) error {
			record.JobID = jobID
			return nil
		}); err != nil {
			t.Fatalf("mutate: %v", err)
		}
	}

	records, err := store.ListByJobID(ctx, "batch-a")
	if err != nil {
		t.Fatalf("list by job id: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}
