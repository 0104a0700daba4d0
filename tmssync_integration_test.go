package tmssync_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tmssync "github.com/goliatone/go-tms-sync"
	"github.com/goliatone/go-tms-sync/internal/bulk"
	"github.com/goliatone/go-tms-sync/internal/content"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/scheduler"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

type stubDocument struct {
	title        string
	content      map[string]any
	sourceLocale string
	targets      map[string]int
	translations map[string]map[string]any
}

type stubGateway struct {
	mu     sync.Mutex
	nextID int
	docs   map[string]*stubDocument
}

func newStubGateway() *stubGateway {
	return &stubGateway{docs: map[string]*stubDocument{}}
}

func (g *stubGateway) CreateDocument(_ context.Context, title string, content map[string]any, sourceLocale string, _ interfaces.DocumentRouting) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := fmt.Sprintf("doc-%d", g.nextID)
	g.docs[id] = &stubDocument{
		title:        title,
		content:      content,
		sourceLocale: sourceLocale,
		targets:      map[string]int{},
		translations: map[string]map[string]any{},
	}
	return id, nil
}

func (g *stubGateway) UpdateDocument(_ context.Context, documentID string, content map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[documentID]
	if !ok {
		return interfaces.ErrDocumentNotFound
	}
	doc.content = content
	return nil
}

func (g *stubGateway) AddTranslationTarget(_ context.Context, documentID, locale string, _ interfaces.DocumentRouting) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[documentID]
	if !ok {
		return interfaces.ErrDocumentNotFound
	}
	if _, exists := doc.targets[locale]; exists {
		return interfaces.ErrTargetExists
	}
	doc.targets[locale] = 0
	return nil
}

func (g *stubGateway) GetDocumentStatus(_ context.Context, documentID string) (interfaces.DocumentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.docs[documentID]; !ok {
		return interfaces.DocumentStatus{}, interfaces.ErrDocumentNotFound
	}
	return interfaces.DocumentStatus{PercentComplete: 100}, nil
}

func (g *stubGateway) GetTranslationStatus(_ context.Context, documentID, locale string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[documentID]
	if !ok {
		return 0, interfaces.ErrDocumentNotFound
	}
	return doc.targets[locale], nil
}

func (g *stubGateway) GetTranslationContent(_ context.Context, documentID, locale string) (map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[documentID]
	if !ok {
		return nil, interfaces.ErrDocumentNotFound
	}
	translation, ok := doc.translations[locale]
	if !ok {
		return nil, &interfaces.APIError{Code: 404, Message: "translation missing"}
	}
	return translation, nil
}

func (g *stubGateway) CancelDocument(_ context.Context, documentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.docs[documentID]; !ok {
		return interfaces.ErrDocumentNotFound
	}
	delete(g.docs, documentID)
	return nil
}

func (g *stubGateway) CancelTarget(_ context.Context, documentID, locale string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[documentID]
	if !ok {
		return interfaces.ErrDocumentNotFound
	}
	delete(doc.targets, locale)
	return nil
}

func (g *stubGateway) setTranslation(documentID, locale string, translation map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc := g.docs[documentID]
	doc.targets[locale] = 100
	doc.translations[locale] = translation
}

func newTestConfig() tmssync.Config {
	cfg := tmssync.DefaultConfig()
	cfg.Languages = []string{"es", "fr"}
	cfg.Cache.Enabled = false
	return cfg
}

func TestNewRequiresGatewayAndSource(t *testing.T) {
	cfg := newTestConfig()

	if _, err := tmssync.New(cfg, tmssync.Dependencies{}); !errors.Is(err, tmssync.ErrGatewayRequired) {
		t.Fatalf("expected ErrGatewayRequired, got %v", err)
	}

	deps := tmssync.Dependencies{Gateway: newStubGateway()}
	if _, err := tmssync.New(cfg, deps); !errors.Is(err, tmssync.ErrSourceRequired) {
		t.Fatalf("expected ErrSourceRequired, got %v", err)
	}

	cfg.Enabled = false
	deps.Source = content.NewMemorySource()
	if _, err := tmssync.New(cfg, deps); !errors.Is(err, tmssync.ErrModuleDisabled) {
		t.Fatalf("expected ErrModuleDisabled, got %v", err)
	}
}

func TestModuleSeedsConfiguredProfiles(t *testing.T) {
	module, err := tmssync.New(newTestConfig(), tmssync.Dependencies{
		Gateway: newStubGateway(),
		Source:  content.NewMemorySource(),
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	profile, err := module.Profiles().GetByName(context.Background(), "automatic")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !profile.AutoUpload || !profile.AutoRequest || !profile.AutoDownload {
		t.Fatalf("expected automation flags on seeded profile, got %+v", profile)
	}
}

func TestModuleEndToEndTranslationFlow(t *testing.T) {
	ctx := context.Background()
	gateway := newStubGateway()
	source := content.NewMemorySource()
	module, err := tmssync.New(newTestConfig(), tmssync.Dependencies{
		Gateway: gateway,
		Source:  source,
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	ref := tmssync.EntityRef{Type: "node", ID: "42"}
	source.Put(&interfaces.ContentItem{
		Ref:            ref,
		Title:          "Release notes",
		SourceLanguage: "en",
		Fields:         map[string]any{"body": "All systems nominal"},
	})

	svc := module.Sync()
	documentID, err := svc.UploadDocument(ctx, ref, tmssync.UploadOptions{})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.AddTarget(ctx, ref, "es"); err != nil {
		t.Fatalf("add target: %v", err)
	}

	gateway.setTranslation(documentID, "es_ES", map[string]any{
		"title":  "Notas de la versión",
		"fields": map[string]any{"body": "Todos los sistemas operativos"},
	})

	// The webhook notification marks the target ready; the manual profile
	// leaves the actual download to the host.
	if err := svc.HandleTargetReady(ctx, documentID, "es_ES"); err != nil {
		t.Fatalf("target ready: %v", err)
	}
	got, err := module.StatusStore().GetTargetStatus(ctx, ref, "es")
	if err != nil {
		t.Fatalf("target status: %v", err)
	}
	if got != domain.StatusReady {
		t.Fatalf("expected ready target, got %s", got)
	}

	if err := svc.DownloadDocument(ctx, ref, "es"); err != nil {
		t.Fatalf("download: %v", err)
	}
	fields, ok := source.Translation(ref, "es")
	if !ok {
		t.Fatal("expected a stored translation")
	}
	if fields["title"] != "Notas de la versión" {
		t.Fatalf("unexpected translated title %q", fields["title"])
	}
	if fields["body"] != "Todos los sistemas operativos" {
		t.Fatalf("unexpected translated body %q", fields["body"])
	}
}

func TestModuleWorkerDrainsQueuedDownloads(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	cfg.Features.DownloadWorker = true
	cfg.Worker.Enabled = true
	cfg.Profiles.Default = "background"
	cfg.Profiles.Definitions = append(cfg.Profiles.Definitions, tmssync.ProfileDefinition{
		Name:               "background",
		AutoDownload:       true,
		AutoDownloadWorker: true,
	})

	gateway := newStubGateway()
	source := content.NewMemorySource()
	module, err := tmssync.New(cfg, tmssync.Dependencies{
		Gateway: gateway,
		Source:  source,
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if module.Worker() == nil {
		t.Fatal("expected the download worker to be configured")
	}

	ref := tmssync.EntityRef{Type: "node", ID: "7"}
	source.Put(&interfaces.ContentItem{
		Ref:            ref,
		Title:          "Headline",
		SourceLanguage: "en",
		Fields:         map[string]any{"body": "Body"},
	})

	svc := module.Sync()
	documentID, err := svc.UploadDocument(ctx, ref, tmssync.UploadOptions{})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.AddTarget(ctx, ref, "es"); err != nil {
		t.Fatalf("add target: %v", err)
	}
	gateway.setTranslation(documentID, "es_ES", map[string]any{
		"title":  "Titular",
		"fields": map[string]any{"body": "Cuerpo"},
	})

	if err := svc.HandleTargetReady(ctx, documentID, "es_ES"); err != nil {
		t.Fatalf("target ready: %v", err)
	}
	if _, ok := source.Translation(ref, "es"); ok {
		t.Fatal("expected the download to wait for the worker")
	}

	if err := module.Worker().Process(ctx); err != nil {
		t.Fatalf("worker process: %v", err)
	}
	fields, ok := source.Translation(ref, "es")
	if !ok {
		t.Fatal("expected the worker to write the translation")
	}
	if fields["title"] != "Titular" {
		t.Fatalf("unexpected translated title %q", fields["title"])
	}
}

func TestModuleDropsQueuedDownloadsWithoutWorker(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	cfg.Profiles.Default = "background"
	cfg.Profiles.Definitions = append(cfg.Profiles.Definitions, tmssync.ProfileDefinition{
		Name:               "background",
		AutoDownload:       true,
		AutoDownloadWorker: true,
	})

	gateway := newStubGateway()
	source := content.NewMemorySource()
	module, err := tmssync.New(cfg, tmssync.Dependencies{
		Gateway: gateway,
		Source:  source,
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if module.Worker() != nil {
		t.Fatal("expected no worker when the feature is off")
	}

	ref := tmssync.EntityRef{Type: "node", ID: "7"}
	source.Put(&interfaces.ContentItem{
		Ref:            ref,
		Title:          "Headline",
		SourceLanguage: "en",
		Fields:         map[string]any{"body": "Body"},
	})

	svc := module.Sync()
	documentID, err := svc.UploadDocument(ctx, ref, tmssync.UploadOptions{})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.AddTarget(ctx, ref, "es"); err != nil {
		t.Fatalf("add target: %v", err)
	}
	gateway.setTranslation(documentID, "es_ES", map[string]any{
		"title":  "Titular",
		"fields": map[string]any{"body": "Cuerpo"},
	})
	if err := svc.HandleTargetReady(ctx, documentID, "es_ES"); err != nil {
		t.Fatalf("target ready: %v", err)
	}

	// With no worker to drain them, deferred downloads must not accumulate.
	queue := module.Scheduler()
	key := scheduler.DownloadJobKey(ref, "es")
	if _, err := queue.GetByKey(ctx, key); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected no retained job, got %v", err)
	}
	due, err := queue.ListDue(ctx, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected an empty due list, got %d jobs", len(due))
	}
}

func TestModuleBulkCheckAcrossEntities(t *testing.T) {
	ctx := context.Background()
	gateway := newStubGateway()
	source := content.NewMemorySource()
	module, err := tmssync.New(newTestConfig(), tmssync.Dependencies{
		Gateway: gateway,
		Source:  source,
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	refs := []tmssync.EntityRef{
		{Type: "node", ID: "1"},
		{Type: "node", ID: "2"},
	}
	for _, ref := range refs {
		source.Put(&interfaces.ContentItem{
			Ref:            ref,
			Title:          "Item " + ref.ID,
			SourceLanguage: "en",
			Fields:         map[string]any{"body": "text"},
		})
		if _, err := module.Sync().UploadDocument(ctx, ref, tmssync.UploadOptions{}); err != nil {
			t.Fatalf("upload %s: %v", ref, err)
		}
	}

	result, err := module.Bulk().Execute(ctx, bulk.Request{
		Action: bulk.ActionCheckSource,
		Refs:   refs,
	})
	if err != nil {
		t.Fatalf("bulk execute: %v", err)
	}
	if result.Submitted != len(refs) {
		t.Fatalf("expected %d submitted items, got %d", len(refs), result.Submitted)
	}
	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			t.Fatalf("unexpected outcome error for %s: %v", outcome.Ref, outcome.Err)
		}
	}
}
