package tmssync

import (
	"context"
	"errors"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-tms-sync/internal/bulk"
	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/engine"
	"github.com/goliatone/go-tms-sync/internal/identity"
	"github.com/goliatone/go-tms-sync/internal/jobs"
	"github.com/goliatone/go-tms-sync/internal/locales"
	"github.com/goliatone/go-tms-sync/internal/logging"
	"github.com/goliatone/go-tms-sync/internal/logging/console"
	"github.com/goliatone/go-tms-sync/internal/logging/gologger"
	"github.com/goliatone/go-tms-sync/internal/moderation"
	"github.com/goliatone/go-tms-sync/internal/profiles"
	"github.com/goliatone/go-tms-sync/internal/related"
	"github.com/goliatone/go-tms-sync/internal/scheduler"
	"github.com/goliatone/go-tms-sync/internal/status"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
	"github.com/uptrace/bun"
)

// SyncService exports the engine contract for consumers of the tmssync package.
type SyncService = engine.Service

// UploadOptions exports the per-upload overrides accepted by the engine.
type UploadOptions = engine.UploadOptions

// BulkExecutor exports the bulk operation runner.
type BulkExecutor = bulk.Executor

// BulkRequest exports the bulk request payload.
type BulkRequest = bulk.Request

// BulkResult exports the bulk execution summary.
type BulkResult = bulk.Result

// BulkBatch exports the externally drivable bulk batch.
type BulkBatch = bulk.Batch

// DownloadWorker exports the queued download worker.
type DownloadWorker = jobs.Worker

// EntityRef exports the entity reference used across the public surface.
type EntityRef = interfaces.EntityRef

// ContentItem exports the content item DTO supplied by content sources.
type ContentItem = interfaces.ContentItem

// TranslationGateway exports the TMS gateway contract hosts implement.
type TranslationGateway = interfaces.TranslationGateway

// ContentSource exports the content source contract hosts implement.
type ContentSource = interfaces.ContentSource

// Scheduler exports the job scheduler contract.
type Scheduler = interfaces.Scheduler

// Status exports the sync status enumeration.
type Status = domain.Status

var (
	// ErrGatewayRequired reports a missing TMS gateway dependency.
	ErrGatewayRequired = errors.New("tms: translation gateway dependency is required")
	// ErrSourceRequired reports a missing content source dependency.
	ErrSourceRequired = errors.New("tms: content source dependency is required")
	// ErrModuleDisabled reports construction of a disabled module.
	ErrModuleDisabled = errors.New("tms: module is disabled by configuration")
)

// Dependencies carries the host-supplied integrations the module builds on.
// Gateway and Source are mandatory; the rest fall back to in-memory defaults.
type Dependencies struct {
	Gateway   interfaces.TranslationGateway
	Source    interfaces.ContentSource
	DB        *bun.DB
	Scheduler interfaces.Scheduler
	Logger    interfaces.LoggerProvider
}

// Module is the top level sync runtime façade. It wires the status store, the
// profile repository, the engine, bulk execution, and the optional download
// worker from one configuration struct.
type Module struct {
	cfg Config

	provider interfaces.LoggerProvider
	mapper   *locales.Mapper
	store    *status.Store
	profiles profiles.ProfileRepository
	queue    interfaces.Scheduler
	engine   engine.Service
	bulk     *bulk.Executor
	worker   *jobs.Worker
}

// New constructs the sync module using the provided configuration and host
// dependencies.
func New(cfg Config, deps Dependencies) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, ErrModuleDisabled
	}
	if deps.Gateway == nil {
		return nil, ErrGatewayRequired
	}
	if deps.Source == nil {
		return nil, ErrSourceRequired
	}

	m := &Module{cfg: cfg}

	provider, err := resolveLoggerProvider(cfg, deps.Logger)
	if err != nil {
		return nil, err
	}
	m.provider = provider

	mapperOpts := []locales.Option{locales.WithLanguages(supportedLangcodes(cfg))}
	for langcode, locale := range cfg.LocaleMappings {
		mapperOpts = append(mapperOpts, locales.WithMapping(langcode, locale))
	}
	m.mapper = locales.NewMapper(mapperOpts...)

	var statusRepo status.Repository
	if deps.DB != nil {
		statusRepo = status.NewBunRepository(deps.DB)
	} else {
		statusRepo = status.NewMemoryRepository()
	}
	m.store = status.NewStore(statusRepo)

	m.profiles = buildProfileRepository(cfg, deps.DB)
	if err := seedProfiles(context.Background(), m.profiles, cfg.Profiles.Definitions); err != nil {
		return nil, err
	}

	m.queue = deps.Scheduler
	if m.queue == nil {
		if cfg.Features.DownloadWorker {
			m.queue = scheduler.NewInMemory(
				scheduler.WithDefaultMaxAttempts(cfg.Worker.MaxAttempts),
			)
		} else {
			// No worker drains the queue, so deferred downloads are dropped
			// instead of piling up as jobs nobody will ever run.
			m.queue = scheduler.NewNoOp()
		}
	}

	engineOpts := []engine.Option{
		engine.WithScheduler(m.queue),
		engine.WithTargetLanguages(cfg.Languages),
		engine.WithLogger(logging.EngineLogger(provider)),
	}
	if cfg.Features.Profiles {
		engineOpts = append(engineOpts,
			engine.WithProfiles(m.profiles),
			engine.WithDefaultProfile(cfg.Profiles.Default),
		)
	}
	if cfg.Features.Moderation {
		engineOpts = append(engineOpts, engine.WithModerationGate(buildGate(cfg, deps.Source)))
	}
	if cfg.Features.RelatedBundling {
		extractorOpts := []related.Option{
			related.WithIndependentFields(cfg.Upload.IndependentFields),
		}
		if cfg.Upload.MaxDepth > 0 {
			extractorOpts = append(extractorOpts, related.WithMaxDepth(cfg.Upload.MaxDepth))
		}
		engineOpts = append(engineOpts, engine.WithRelatedExtractor(
			related.NewExtractor(deps.Source, extractorOpts...),
		))
	}
	if cfg.Upload.MaxDepth > 0 {
		engineOpts = append(engineOpts, engine.WithUploadDepth(cfg.Upload.MaxDepth))
	}
	if cfg.Worker.MaxAttempts > 0 {
		engineOpts = append(engineOpts, engine.WithMaxJobAttempts(cfg.Worker.MaxAttempts))
	}

	svc, err := engine.New(deps.Gateway, deps.Source, m.store, m.mapper, engineOpts...)
	if err != nil {
		return nil, err
	}
	m.engine = svc

	executor, err := bulk.NewExecutor(svc, bulk.WithLogger(logging.BulkLogger(provider)))
	if err != nil {
		return nil, err
	}
	m.bulk = executor

	if cfg.Worker.Enabled && cfg.Features.DownloadWorker {
		workerOpts := []jobs.Option{
			jobs.WithContentSource(deps.Source),
			jobs.WithLogger(logging.WorkerLogger(provider)),
		}
		if cfg.Worker.BatchSize > 0 {
			workerOpts = append(workerOpts, jobs.WithBatchSize(cfg.Worker.BatchSize))
		}
		worker, err := jobs.NewWorker(m.queue, svc, workerOpts...)
		if err != nil {
			return nil, err
		}
		m.worker = worker
	}

	return m, nil
}

// Sync returns the configured sync engine.
func (m *Module) Sync() SyncService {
	return m.engine
}

// Bulk returns the bulk operation executor.
func (m *Module) Bulk() *BulkExecutor {
	return m.bulk
}

// Worker returns the download worker, or nil when the worker is disabled.
func (m *Module) Worker() *DownloadWorker {
	if m == nil {
		return nil
	}
	return m.worker
}

// Scheduler returns the job scheduler used for deferred downloads.
func (m *Module) Scheduler() interfaces.Scheduler {
	return m.queue
}

// StatusStore returns the sync status store for host inspection.
func (m *Module) StatusStore() *status.Store {
	return m.store
}

// Profiles returns the sync profile repository.
func (m *Module) Profiles() profiles.ProfileRepository {
	return m.profiles
}

// Mapper returns the langcode/locale mapper built from the configuration.
func (m *Module) Mapper() *locales.Mapper {
	return m.mapper
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(module string) interfaces.Logger {
	if m == nil {
		return logging.NoOp()
	}
	return logging.ModuleLogger(m.provider, module)
}

func resolveLoggerProvider(cfg Config, supplied interfaces.LoggerProvider) (interfaces.LoggerProvider, error) {
	if supplied != nil {
		return supplied, nil
	}
	if !cfg.Features.Logger {
		return nil, nil
	}
	switch cfg.Logging.Provider {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
	default:
		var minLevel *console.Level
		if level, ok := consoleLevel(cfg.Logging.Level); ok {
			minLevel = &level
		}
		return console.NewProvider(console.Options{MinLevel: minLevel}), nil
	}
}

func consoleLevel(level string) (console.Level, bool) {
	switch level {
	case "trace":
		return console.LevelTrace, true
	case "debug":
		return console.LevelDebug, true
	case "info":
		return console.LevelInfo, true
	case "warn", "warning":
		return console.LevelWarn, true
	case "error":
		return console.LevelError, true
	case "fatal":
		return console.LevelFatal, true
	default:
		return console.LevelInfo, false
	}
}

func supportedLangcodes(cfg Config) []string {
	langcodes := make([]string, 0, len(cfg.Languages)+1)
	if cfg.SourceLocale != "" {
		langcodes = append(langcodes, cfg.SourceLocale)
	}
	langcodes = append(langcodes, cfg.Languages...)
	return langcodes
}

func buildProfileRepository(cfg Config, db *bun.DB) profiles.ProfileRepository {
	if db == nil {
		return profiles.NewMemoryProfileRepository()
	}
	if !cfg.Cache.Enabled {
		return profiles.NewBunProfileRepository(db)
	}

	cacheCfg := repocache.DefaultConfig()
	if cfg.Cache.DefaultTTL > 0 {
		cacheCfg.TTL = cfg.Cache.DefaultTTL
	}
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return profiles.NewBunProfileRepository(db)
	}
	return profiles.NewBunProfileRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
}

func buildGate(cfg Config, source interfaces.ContentSource) *moderation.Gate {
	gateOpts := []moderation.Option{
		moderation.WithUploadBlockedStates(cfg.Moderation.BlockedStates),
		moderation.WithDownloadTransition(cfg.Moderation.TransitionFrom, cfg.Moderation.TransitionTo),
	}
	if writer, ok := source.(moderation.StateWriter); ok {
		gateOpts = append(gateOpts, moderation.WithStateWriter(writer))
	}
	return moderation.NewGate(source, gateOpts...)
}

// seedProfiles upserts the configured profile definitions. Existing profiles
// keep their id so repeated bootstraps stay deterministic.
func seedProfiles(ctx context.Context, repo profiles.ProfileRepository, definitions []ProfileDefinition) error {
	for _, definition := range definitions {
		record := &profiles.Profile{
			ID:                 identity.ProfileUUID(definition.Name),
			Name:               definition.Name,
			AutoUpload:         definition.AutoUpload,
			AutoRequest:        definition.AutoRequest,
			AutoDownload:       definition.AutoDownload,
			AutoDownloadWorker: definition.AutoDownloadWorker,
			Project:            definition.Project,
			Workflow:           definition.Workflow,
			Vault:              definition.Vault,
			Filter:             definition.Filter,
			Subfilter:          definition.Subfilter,
		}
		if err := record.Validate(); err != nil {
			return err
		}

		existing, err := repo.GetByName(ctx, definition.Name)
		if err == nil {
			record.ID = existing.ID
			record.LanguageOverrides = existing.LanguageOverrides
			if _, err := repo.Update(ctx, record); err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, profiles.ErrProfileNotFound) {
			return err
		}
		if _, err := repo.Create(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
