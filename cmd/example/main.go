package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	tmssync "github.com/goliatone/go-tms-sync"
	"github.com/goliatone/go-tms-sync/internal/content"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

// demoGateway is an in-process stand-in for a real TMS REST client. It stores
// documents in memory and returns canned translations so the example runs
// without network access.
type demoGateway struct {
	mu     sync.Mutex
	nextID int
	docs   map[string]map[string]any
}

func newDemoGateway() *demoGateway {
	return &demoGateway{docs: map[string]map[string]any{}}
}

func (g *demoGateway) CreateDocument(_ context.Context, title string, content map[string]any, sourceLocale string, _ interfaces.DocumentRouting) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := fmt.Sprintf("demo-doc-%d", g.nextID)
	g.docs[id] = content
	log.Printf("gateway: created %s (%s, %q)", id, sourceLocale, title)
	return id, nil
}

func (g *demoGateway) UpdateDocument(_ context.Context, documentID string, content map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.docs[documentID]; !ok {
		return interfaces.ErrDocumentNotFound
	}
	g.docs[documentID] = content
	return nil
}

func (g *demoGateway) AddTranslationTarget(_ context.Context, documentID, locale string, _ interfaces.DocumentRouting) error {
	log.Printf("gateway: requested %s target for %s", locale, documentID)
	return nil
}

func (g *demoGateway) GetDocumentStatus(context.Context, string) (interfaces.DocumentStatus, error) {
	return interfaces.DocumentStatus{PercentComplete: 100}, nil
}

func (g *demoGateway) GetTranslationStatus(context.Context, string, string) (int, error) {
	return 100, nil
}

func (g *demoGateway) GetTranslationContent(_ context.Context, documentID, locale string) (map[string]any, error) {
	return map[string]any{
		"title":  "Hola desde " + locale,
		"fields": map[string]any{"body": "Contenido traducido para " + documentID},
	}, nil
}

func (g *demoGateway) CancelDocument(context.Context, string) error {
	return nil
}

func (g *demoGateway) CancelTarget(context.Context, string, string) error {
	return nil
}

func main() {
	ctx := context.Background()

	cfg := tmssync.DefaultConfig()
	cfg.Languages = []string{"es"}
	cfg.Cache.Enabled = false
	cfg.Features.Logger = true
	cfg.Logging.Level = "debug"

	source := content.NewMemorySource()
	module, err := tmssync.New(cfg, tmssync.Dependencies{
		Gateway: newDemoGateway(),
		Source:  source,
	})
	if err != nil {
		log.Fatalf("new module: %v", err)
	}

	ref := tmssync.EntityRef{Type: "node", ID: "1"}
	source.Put(&interfaces.ContentItem{
		Ref:            ref,
		Title:          "Hello from the example",
		SourceLanguage: "en",
		Fields:         map[string]any{"body": "This document round-trips through the demo gateway."},
	})

	svc := module.Sync()
	documentID, err := svc.UploadDocument(ctx, ref, tmssync.UploadOptions{})
	if err != nil {
		log.Fatalf("upload: %v", err)
	}
	if err := svc.AddTarget(ctx, ref, "es"); err != nil {
		log.Fatalf("add target: %v", err)
	}
	if err := svc.DownloadDocument(ctx, ref, "es"); err != nil {
		log.Fatalf("download: %v", err)
	}

	fields, _ := source.Translation(ref, "es")
	fmt.Printf("document %s translated: %v\n", documentID, fields["title"])
}
