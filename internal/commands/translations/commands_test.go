package translationscmd_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	translationscmd "github.com/goliatone/go-tms-sync/internal/commands/translations"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
)

type recordingEngine struct {
	engine.Service
	uploads    []domain.EntityRef
	downloads  []string
	readyCalls []string
	cancels    []domain.EntityRef
	disassoc   []domain.EntityRef
}

func (r *recordingEngine) UploadDocument(_ context.Context, ref domain.EntityRef, _ engine.UploadOptions) (string, error) {
	r.uploads = append(r.uploads, ref)
	return "doc-1", nil
}

func (r *recordingEngine) DownloadDocument(_ context.Context, ref domain.EntityRef, langcode string) error {
	r.downloads = append(r.downloads, ref.String()+"@"+langcode)
	return nil
}

func (r *recordingEngine) HandleTargetReady(_ context.Context, documentID, locale string) error {
	r.readyCalls = append(r.readyCalls, documentID+"@"+locale)
	return nil
}

func (r *recordingEngine) CancelDocument(_ context.Context, ref domain.EntityRef) error {
	r.cancels = append(r.cancels, ref)
	return nil
}

func (r *recordingEngine) DeleteMetadata(_ context.Context, ref domain.EntityRef) error {
	r.disassoc = append(r.disassoc, ref)
	return nil
}

func TestUploadCommandValidation(t *testing.T) {
	stub := &recordingEngine{}
	handler := translationscmd.NewUploadDocumentHandler(stub, nil)

	err := handler.Execute(context.Background(), translationscmd.UploadDocumentCommand{})
	if err == nil {
		t.Fatal("expected validation error for empty message")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(stub.uploads) != 0 {
		t.Fatal("expected engine untouched on validation failure")
	}
}

func TestUploadCommandDelegatesToEngine(t *testing.T) {
	stub := &recordingEngine{}
	handler := translationscmd.NewUploadDocumentHandler(stub, nil)

	err := handler.Execute(context.Background(), translationscmd.UploadDocumentCommand{
		EntityType: "node",
		EntityID:   "42",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.uploads) != 1 || stub.uploads[0] != (domain.EntityRef{Type: "node", ID: "42"}) {
		t.Fatalf("unexpected upload calls %v", stub.uploads)
	}
}

func TestDownloadCommandRequiresLocale(t *testing.T) {
	stub := &recordingEngine{}
	handler := translationscmd.NewDownloadTranslationHandler(stub, nil)

	err := handler.Execute(context.Background(), translationscmd.DownloadTranslationCommand{
		EntityType: "node",
		EntityID:   "42",
	})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := handler.Execute(context.Background(), translationscmd.DownloadTranslationCommand{
		EntityType: "node",
		EntityID:   "42",
		Locale:     "es",
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.downloads) != 1 || stub.downloads[0] != "node:42@es" {
		t.Fatalf("unexpected download calls %v", stub.downloads)
	}
}

func TestTargetReadyCommandDelegatesToEngine(t *testing.T) {
	stub := &recordingEngine{}
	handler := translationscmd.NewTargetReadyHandler(stub, nil)

	if err := handler.Execute(context.Background(), translationscmd.TargetReadyCommand{
		DocumentID: "doc-7",
		Locale:     "es_ES",
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.readyCalls) != 1 || stub.readyCalls[0] != "doc-7@es_ES" {
		t.Fatalf("unexpected ready calls %v", stub.readyCalls)
	}
}

func TestCancelAndDisassociateCommands(t *testing.T) {
	stub := &recordingEngine{}
	ref := domain.EntityRef{Type: "node", ID: "9"}

	cancel := translationscmd.NewCancelDocumentHandler(stub, nil)
	if err := cancel.Execute(context.Background(), translationscmd.CancelDocumentCommand{
		EntityType: ref.Type, EntityID: ref.ID,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(stub.cancels) != 1 || stub.cancels[0] != ref {
		t.Fatalf("unexpected cancel calls %v", stub.cancels)
	}

	disassociate := translationscmd.NewDisassociateHandler(stub, nil)
	if err := disassociate.Execute(context.Background(), translationscmd.DisassociateCommand{
		EntityType: ref.Type, EntityID: ref.ID,
	}); err != nil {
		t.Fatalf("disassociate: %v", err)
	}
	if len(stub.disassoc) != 1 || stub.disassoc[0] != ref {
		t.Fatalf("unexpected disassociate calls %v", stub.disassoc)
	}
}
