package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/goliatone/go-tms-sync/internal/identity"
	"github.com/goliatone/go-tms-sync/internal/locales"
	"github.com/goliatone/go-tms-sync/internal/logging"
	"github.com/goliatone/go-tms-sync/internal/profiles"
	"github.com/goliatone/go-tms-sync/internal/related"
	"github.com/goliatone/go-tms-sync/internal/scheduler"
	"github.com/goliatone/go-tms-sync/internal/status"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

// Service drives the translation lifecycle of tracked content: upload, target
// requests, status polling, download, and cancellation. All state lives in the
// status store; the TMS remains the ground truth for translation progress and
// the store is a cache the service keeps consistent.
type Service interface {
	// UploadDocument pushes the item's content to the TMS, creating the document
	// on first upload and updating it when the content fingerprint changed.
	// Unchanged content is a no-op. Returns the TMS document id.
	UploadDocument(ctx context.Context, ref domain.EntityRef, opts UploadOptions) (string, error)
	// AddTarget requests a translation into the given language. Requesting an
	// existing target is a no-op.
	AddTarget(ctx context.Context, ref domain.EntityRef, langcode string) error
	// RequestTranslations adds a target for every configured language that is
	// resolvable, enabled, and not yet requested. Returns the languages requested.
	RequestTranslations(ctx context.Context, ref domain.EntityRef) ([]string, error)
	// CheckSourceStatus polls the TMS import state of the source document.
	CheckSourceStatus(ctx context.Context, ref domain.EntityRef) (domain.Status, error)
	// CheckTargetStatus polls the TMS progress of one target language.
	CheckTargetStatus(ctx context.Context, ref domain.EntityRef, langcode string) (domain.Status, error)
	// CheckTargetStatuses polls every tracked target language.
	CheckTargetStatuses(ctx context.Context, ref domain.EntityRef) (map[string]domain.Status, error)
	// DownloadDocument fetches the completed translation for one language and
	// writes it into the content source. Safe to call repeatedly.
	DownloadDocument(ctx context.Context, ref domain.EntityRef, langcode string) error
	// DownloadDocuments downloads every target currently marked ready. One
	// failing language does not block the others.
	DownloadDocuments(ctx context.Context, ref domain.EntityRef) error
	// CancelDocument cancels the document and all its targets on the TMS and
	// records the cancellation locally.
	CancelDocument(ctx context.Context, ref domain.EntityRef) error
	// CancelDocumentTarget cancels a single target language.
	CancelDocumentTarget(ctx context.Context, ref domain.EntityRef, langcode string) error
	// DeleteMetadata removes the local sync record without touching the TMS.
	DeleteMetadata(ctx context.Context, ref domain.EntityRef) error
	// HandleTargetReady processes an inbound completion notification for a
	// (document, locale) pair, marking the target ready and, when the profile
	// allows it, downloading inline or through the job queue.
	HandleTargetReady(ctx context.Context, documentID, locale string) error
}

// UploadOptions carries optional upload context: a job grouping tag applied to
// the metadata record and a profile name overriding the stored one.
type UploadOptions struct {
	JobID   string
	Profile string
}

type service struct {
	gateway   interfaces.TranslationGateway
	source    interfaces.ContentSource
	store     *status.Store
	mapper    *locales.Mapper
	profiles  profiles.ProfileRepository
	gate      interfaces.ModerationGate
	extractor interfaces.RelatedExtractor
	queue     interfaces.Scheduler
	logger    interfaces.Logger

	defaultProfile  string
	targetLanguages []string
	uploadDepth     int
	maxJobAttempts  int
	now             func() time.Time
}

// Option configures the engine service.
type Option func(*service)

// WithProfiles supplies the profile repository used to resolve sync policies.
func WithProfiles(repo profiles.ProfileRepository) Option {
	return func(s *service) { s.profiles = repo }
}

// WithDefaultProfile names the profile used when a record carries none.
func WithDefaultProfile(name string) Option {
	return func(s *service) { s.defaultProfile = name }
}

// WithModerationGate installs the upload veto and post-download transition hook.
func WithModerationGate(gate interfaces.ModerationGate) Option {
	return func(s *service) { s.gate = gate }
}

// WithRelatedExtractor installs the related-entity bundling strategy.
func WithRelatedExtractor(extractor interfaces.RelatedExtractor) Option {
	return func(s *service) { s.extractor = extractor }
}

// WithScheduler supplies the job queue used for deferred downloads.
func WithScheduler(queue interfaces.Scheduler) Option {
	return func(s *service) { s.queue = queue }
}

// WithTargetLanguages sets the candidate languages for RequestTranslations.
// When omitted the mapper's full supported set is used.
func WithTargetLanguages(langcodes []string) Option {
	return func(s *service) { s.targetLanguages = langcodes }
}

// WithUploadDepth bounds related-entity traversal during payload assembly.
func WithUploadDepth(depth int) Option {
	return func(s *service) {
		if depth > 0 {
			s.uploadDepth = depth
		}
	}
}

// WithMaxJobAttempts caps retries for enqueued download jobs.
func WithMaxJobAttempts(attempts int) Option {
	return func(s *service) {
		if attempts > 0 {
			s.maxJobAttempts = attempts
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// New builds the sync engine over its collaborators.
func New(gateway interfaces.TranslationGateway, source interfaces.ContentSource, store *status.Store, mapper *locales.Mapper, opts ...Option) (Service, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if mapper == nil {
		return nil, ErrMapperRequired
	}
	s := &service{
		gateway:        gateway,
		source:         source,
		store:          store,
		mapper:         mapper,
		logger:         logging.NoOp(),
		uploadDepth:    related.DefaultMaxDepth,
		maxJobAttempts: 3,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) UploadDocument(ctx context.Context, ref domain.EntityRef, opts UploadOptions) (string, error) {
	return s.upload(ctx, ref, opts, map[domain.EntityRef]struct{}{})
}

func (s *service) upload(ctx context.Context, ref domain.EntityRef, opts UploadOptions, visited map[domain.EntityRef]struct{}) (string, error) {
	item, err := s.source.GetItem(ctx, ref)
	if err != nil {
		return "", err
	}

	if s.gate != nil {
		blocked, err := s.gate.ShouldPreventUpload(ctx, item)
		if err != nil {
			return "", err
		}
		if blocked {
			return "", &UploadBlockedError{Ref: ref, State: item.ModerationState}
		}
	}

	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	if record.SourceStatus.UploadBlocked() {
		return "", fmt.Errorf("engine: upload of %s blocked by source status %s", ref, record.SourceStatus)
	}

	bundled, independent, err := s.relatedItems(ctx, item, visited)
	if err != nil {
		return "", err
	}

	payload := buildPayload(item, bundled)
	hash := identity.ContentFingerprint(item.Title, payload)

	profileName := s.profileName(record, opts.Profile)
	profile := s.loadProfile(ctx, profileName)
	sourceLocale := s.sourceLocale(item)

	documentID := record.DocumentID
	switch {
	case documentID == "":
		documentID, err = s.gateway.CreateDocument(ctx, item.Title, payload, sourceLocale, profile.Routing())
		if err != nil {
			return "", s.failSource(ctx, ref, err)
		}
		s.logger.Info("document created", "entity", ref.String(), "document_id", documentID)
	case record.Hash == hash:
		s.logger.Debug("content unchanged, skipping upload", "entity", ref.String(), "document_id", documentID)
		return documentID, nil
	default:
		if err := s.gateway.UpdateDocument(ctx, documentID, payload); err != nil {
			return "", s.failSource(ctx, ref, err)
		}
		s.logger.Info("document updated", "entity", ref.String(), "document_id", documentID)
	}

	_, err = s.store.Mutate(ctx, ref, func(r *status.Record) error {
		r.DocumentID = documentID
		r.Hash = hash
		r.SourceStatus = domain.StatusCurrent
		if opts.JobID != "" {
			r.JobID = opts.JobID
		}
		if profileName != "" {
			r.ProfileID = profileName
		}
		// A source change invalidates every outstanding translation.
		for locale, current := range r.TargetStatus {
			if current != domain.StatusDisabled {
				r.TargetStatus[locale] = domain.StatusPending
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if profile.AutoUpload {
		for _, childRef := range independent {
			if _, err := s.upload(ctx, childRef, opts, visited); err != nil {
				s.logger.Warn("independent entity upload failed",
					"entity", childRef.String(), "parent", ref.String(), "error", err)
			}
		}
	}

	return documentID, nil
}

func (s *service) relatedItems(ctx context.Context, item *interfaces.ContentItem, visited map[domain.EntityRef]struct{}) ([]*interfaces.ContentItem, []domain.EntityRef, error) {
	if s.extractor == nil {
		return nil, nil, nil
	}
	result, err := s.extractor.Extract(ctx, item, s.uploadDepth, visited)
	if err != nil {
		return nil, nil, err
	}
	bundled := make([]*interfaces.ContentItem, 0, len(result.Bundled))
	for _, ref := range result.Bundled {
		child, err := s.source.GetItem(ctx, ref)
		if err != nil {
			if errors.Is(err, interfaces.ErrItemNotFound) || errors.Is(err, interfaces.ErrEntityTypeUnsupported) {
				s.logger.Warn("skipping unloadable related entity", "entity", ref.String(), "error", err)
				continue
			}
			return nil, nil, err
		}
		bundled = append(bundled, child)
	}
	return bundled, result.Independent, nil
}

func (s *service) AddTarget(ctx context.Context, ref domain.EntityRef, langcode string) error {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return err
	}
	if record.DocumentID == "" {
		return ErrNoDocument
	}

	langcode = locales.NormalizeLangcode(langcode)
	locale, ok := s.mapper.ToTMSLocale(langcode)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocaleUnsupported, langcode)
	}

	profile := s.loadProfile(ctx, s.profileName(record, ""))
	settings, enabled := profile.TargetSettings(langcode)
	if !enabled {
		return fmt.Errorf("%w: %s", ErrLocaleDisabled, langcode)
	}

	if current := record.Target(langcode); current == domain.StatusPending || current.Downloadable() {
		return nil
	}

	if err := s.gateway.AddTranslationTarget(ctx, record.DocumentID, locale, settings.Routing); err != nil {
		if !errors.Is(err, interfaces.ErrTargetExists) {
			return s.failTarget(ctx, ref, langcode, err)
		}
		s.logger.Debug("target already exists upstream", "entity", ref.String(), "locale", locale)
	}
	return s.store.SetTargetStatus(ctx, ref, langcode, domain.StatusPending)
}

func (s *service) RequestTranslations(ctx context.Context, ref domain.EntityRef) ([]string, error) {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if record.DocumentID == "" {
		return nil, ErrNoDocument
	}
	item, err := s.source.GetItem(ctx, ref)
	if err != nil {
		return nil, err
	}
	sourceLang := locales.NormalizeLangcode(item.SourceLanguage)

	candidates := s.targetLanguages
	if len(candidates) == 0 {
		candidates = s.mapper.Supported()
	}
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	requested := []string{}
	for _, raw := range sorted {
		langcode := locales.NormalizeLangcode(raw)
		if langcode == "" || langcode == sourceLang {
			continue
		}
		if _, ok := s.mapper.ToTMSLocale(langcode); !ok {
			s.logger.Debug("skipping unsupported language", "entity", ref.String(), "langcode", langcode)
			continue
		}
		switch record.Target(langcode) {
		case domain.StatusUntracked, domain.StatusNone, domain.StatusRequest:
		default:
			continue
		}
		if err := s.AddTarget(ctx, ref, langcode); err != nil {
			if errors.Is(err, ErrLocaleDisabled) {
				continue
			}
			return requested, err
		}
		requested = append(requested, langcode)
	}
	return requested, nil
}

func (s *service) CheckSourceStatus(ctx context.Context, ref domain.EntityRef) (domain.Status, error) {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return domain.StatusUntracked, err
	}
	if record.DocumentID == "" {
		return record.SourceStatus, ErrNoDocument
	}

	documentStatus, err := s.gateway.GetDocumentStatus(ctx, record.DocumentID)
	if err != nil {
		if errors.Is(err, interfaces.ErrDocumentNotFound) {
			// The TMS no longer knows the document. Drop the linkage so the
			// next upload recreates it instead of erroring forever.
			if _, merr := s.store.Mutate(ctx, ref, func(r *status.Record) error {
				r.DocumentID = ""
				r.Hash = ""
				r.SourceStatus = domain.StatusUntracked
				return nil
			}); merr != nil {
				s.logger.Error("failed to clear stale document linkage", "entity", ref.String(), "error", merr)
			}
			return domain.StatusUntracked, err
		}
		return domain.StatusError, s.failSource(ctx, ref, err)
	}

	next := domain.StatusCurrent
	if documentStatus.Importing {
		next = domain.StatusImporting
	}
	if err := s.store.SetSourceStatus(ctx, ref, next); err != nil {
		return next, err
	}
	return next, nil
}

func (s *service) CheckTargetStatus(ctx context.Context, ref domain.EntityRef, langcode string) (domain.Status, error) {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return domain.StatusUntracked, err
	}
	if record.DocumentID == "" {
		return domain.StatusUntracked, ErrNoDocument
	}
	langcode = locales.NormalizeLangcode(langcode)
	locale, ok := s.mapper.ToTMSLocale(langcode)
	if !ok {
		return domain.StatusUntracked, fmt.Errorf("%w: %s", ErrLocaleUnsupported, langcode)
	}

	percent, err := s.gateway.GetTranslationStatus(ctx, record.DocumentID, locale)
	if err != nil {
		return domain.StatusError, s.failTarget(ctx, ref, langcode, err)
	}
	next := statusForProgress(percent, record.Target(langcode))
	if err := s.store.SetTargetStatus(ctx, ref, langcode, next); err != nil {
		return next, err
	}
	return next, nil
}

// statusForProgress maps TMS percent complete onto a target status. An already
// downloaded target stays current instead of flapping back to ready.
func statusForProgress(percent int, current domain.Status) domain.Status {
	switch {
	case percent >= 100:
		if current == domain.StatusCurrent {
			return domain.StatusCurrent
		}
		return domain.StatusReady
	case percent > 0:
		return domain.StatusIntermediate
	default:
		return domain.StatusPending
	}
}

func (s *service) CheckTargetStatuses(ctx context.Context, ref domain.EntityRef) (map[string]domain.Status, error) {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if record.DocumentID == "" {
		return nil, ErrNoDocument
	}

	results := make(map[string]domain.Status, len(record.TargetStatus))
	var errs []error
	for _, langcode := range sortedLocales(record.TargetStatus) {
		switch record.TargetStatus[langcode] {
		case domain.StatusCancelled, domain.StatusDisabled:
			results[langcode] = record.TargetStatus[langcode]
			continue
		}
		next, err := s.CheckTargetStatus(ctx, ref, langcode)
		results[langcode] = next
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", langcode, err))
		}
	}
	return results, errors.Join(errs...)
}

func (s *service) DownloadDocument(ctx context.Context, ref domain.EntityRef, langcode string) error {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return err
	}
	if record.DocumentID == "" {
		return ErrNoDocument
	}
	langcode = locales.NormalizeLangcode(langcode)
	locale, ok := s.mapper.ToTMSLocale(langcode)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocaleUnsupported, langcode)
	}

	// Local state is a cache; when it does not say downloadable, ask the TMS
	// before refusing.
	if !record.Target(langcode).Downloadable() {
		percent, err := s.gateway.GetTranslationStatus(ctx, record.DocumentID, locale)
		if err != nil {
			return s.failTarget(ctx, ref, langcode, err)
		}
		if percent < 100 {
			return fmt.Errorf("%w: %s is %d%% complete", ErrTargetNotReady, langcode, percent)
		}
	}

	content, err := s.gateway.GetTranslationContent(ctx, record.DocumentID, locale)
	if err != nil {
		return s.failTarget(ctx, ref, langcode, err)
	}

	fields, relatedContent := splitTranslation(content)
	if err := s.source.WriteTranslation(ctx, ref, langcode, fields); err != nil {
		return s.failTarget(ctx, ref, langcode, err)
	}
	for key, relatedFields := range relatedContent {
		childRef, ok := parseRefKey(key)
		if !ok {
			s.logger.Warn("unparseable related entry in translation", "entity", ref.String(), "key", key)
			continue
		}
		if err := s.source.WriteTranslation(ctx, childRef, langcode, relatedFields); err != nil {
			return s.failTarget(ctx, ref, langcode, err)
		}
	}

	if s.gate != nil {
		if err := s.gate.PerformTransitionIfNeeded(ctx, ref); err != nil {
			s.logger.Warn("post-download moderation transition failed",
				"entity", ref.String(), "locale", langcode, "error", err)
		}
	}

	if err := s.store.SetTargetStatus(ctx, ref, langcode, domain.StatusCurrent); err != nil {
		return err
	}
	s.logger.Info("translation downloaded", "entity", ref.String(), "locale", langcode)
	return nil
}

func (s *service) DownloadDocuments(ctx context.Context, ref domain.EntityRef) error {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return err
	}
	if record.DocumentID == "" {
		return ErrNoDocument
	}

	var errs []error
	for _, langcode := range sortedLocales(record.TargetStatus) {
		if record.TargetStatus[langcode] != domain.StatusReady {
			continue
		}
		if err := s.DownloadDocument(ctx, ref, langcode); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", langcode, err))
		}
	}
	return errors.Join(errs...)
}

func (s *service) CancelDocument(ctx context.Context, ref domain.EntityRef) error {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return err
	}
	if record.DocumentID == "" {
		return nil
	}

	if err := s.gateway.CancelDocument(ctx, record.DocumentID); err != nil {
		if !errors.Is(err, interfaces.ErrDocumentNotFound) {
			return s.failSource(ctx, ref, err)
		}
		s.logger.Debug("document already gone on cancel", "entity", ref.String(), "document_id", record.DocumentID)
	}

	_, err = s.store.Mutate(ctx, ref, func(r *status.Record) error {
		r.SourceStatus = domain.StatusCancelled
		for locale := range r.TargetStatus {
			r.TargetStatus[locale] = domain.StatusCancelled
		}
		return nil
	})
	return err
}

func (s *service) CancelDocumentTarget(ctx context.Context, ref domain.EntityRef, langcode string) error {
	record, err := s.store.Get(ctx, ref)
	if err != nil {
		return err
	}
	if record.DocumentID == "" {
		return nil
	}
	langcode = locales.NormalizeLangcode(langcode)
	locale, ok := s.mapper.ToTMSLocale(langcode)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocaleUnsupported, langcode)
	}

	if err := s.gateway.CancelTarget(ctx, record.DocumentID, locale); err != nil {
		if !errors.Is(err, interfaces.ErrDocumentNotFound) {
			return s.failTarget(ctx, ref, langcode, err)
		}
		s.logger.Debug("target already gone on cancel", "entity", ref.String(), "locale", locale)
	}
	return s.store.SetTargetStatus(ctx, ref, langcode, domain.StatusCancelled)
}

func (s *service) DeleteMetadata(ctx context.Context, ref domain.EntityRef) error {
	return s.store.Delete(ctx, ref)
}

func (s *service) HandleTargetReady(ctx context.Context, documentID, locale string) error {
	record, err := s.store.GetByDocumentID(ctx, documentID)
	if err != nil {
		return err
	}
	ref := record.Ref()

	langcode, ok := s.mapper.ToLangcode(locale)
	if !ok {
		// Notifications sometimes carry the CMS-side code already.
		langcode = locales.NormalizeLangcode(locale)
		if _, supported := s.mapper.ToTMSLocale(langcode); !supported {
			return fmt.Errorf("%w: %s", ErrLocaleUnsupported, locale)
		}
	}

	if err := s.store.SetTargetStatus(ctx, ref, langcode, domain.StatusReady); err != nil {
		return err
	}

	profile := s.loadProfile(ctx, s.profileName(record, ""))
	settings, enabled := profile.TargetSettings(langcode)
	if !enabled || !settings.AutoDownload {
		return nil
	}

	if profile.AutoDownloadWorker && s.queue != nil {
		_, err := s.queue.Enqueue(ctx, interfaces.JobSpec{
			Key:         scheduler.DownloadJobKey(ref, langcode),
			Type:        scheduler.JobTypeTranslationDownload,
			RunAt:       s.now(),
			Payload:     scheduler.DownloadJobPayload(ref, langcode, documentID),
			MaxAttempts: s.maxJobAttempts,
		})
		if err != nil {
			return err
		}
		s.logger.Info("download queued", "entity", ref.String(), "locale", langcode)
		return nil
	}
	return s.DownloadDocument(ctx, ref, langcode)
}

func (s *service) sourceLocale(item *interfaces.ContentItem) string {
	if locale, ok := s.mapper.ToTMSLocale(item.SourceLanguage); ok {
		return locale
	}
	return item.SourceLanguage
}

func (s *service) profileName(record *status.Record, override string) string {
	if override != "" {
		return override
	}
	if record.ProfileID != "" {
		return record.ProfileID
	}
	return s.defaultProfile
}

// loadProfile resolves a profile by name, falling back to a zero-value manual
// profile when the name is empty, the repository is absent, or the lookup
// fails. Sync operations keep working without profile storage.
func (s *service) loadProfile(ctx context.Context, name string) *profiles.Profile {
	if name == "" || s.profiles == nil {
		return &profiles.Profile{}
	}
	profile, err := s.profiles.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, profiles.ErrProfileNotFound) {
			s.logger.Warn("profile lookup failed", "profile", name, "error", err)
		}
		return &profiles.Profile{}
	}
	return profile
}

// recoverable reports error conditions the caller is expected to handle
// without the engine recording an error status: billing lockouts leave state
// untouched, archived documents get re-uploaded, locked documents get their id
// corrected.
func recoverable(err error) bool {
	var locked *interfaces.DocumentLockedError
	var archived *interfaces.DocumentArchivedError
	return errors.Is(err, interfaces.ErrPaymentRequired) ||
		errors.As(err, &locked) ||
		errors.As(err, &archived)
}

// reconcile applies the local corrections a gateway error demands before it is
// surfaced: locked documents update the stored document id, archived documents
// record the archived source status.
func (s *service) reconcile(ctx context.Context, ref domain.EntityRef, err error) {
	var locked *interfaces.DocumentLockedError
	if errors.As(err, &locked) && locked.NewDocumentID != "" {
		if serr := s.store.SetDocumentID(ctx, ref, locked.NewDocumentID); serr != nil {
			s.logger.Error("failed to store corrected document id",
				"entity", ref.String(), "document_id", locked.NewDocumentID, "error", serr)
		} else {
			s.logger.Info("document id corrected after lock",
				"entity", ref.String(), "document_id", locked.NewDocumentID)
		}
	}
	var archived *interfaces.DocumentArchivedError
	if errors.As(err, &archived) {
		if serr := s.store.SetSourceStatus(ctx, ref, domain.StatusArchived); serr != nil {
			s.logger.Error("failed to record archived status", "entity", ref.String(), "error", serr)
		}
	}
}

func (s *service) failSource(ctx context.Context, ref domain.EntityRef, err error) error {
	s.reconcile(ctx, ref, err)
	if !recoverable(err) {
		if serr := s.store.SetSourceStatus(ctx, ref, domain.StatusError); serr != nil {
			s.logger.Error("failed to record source error status", "entity", ref.String(), "error", serr)
		}
	}
	return err
}

func (s *service) failTarget(ctx context.Context, ref domain.EntityRef, langcode string, err error) error {
	s.reconcile(ctx, ref, err)
	if !recoverable(err) {
		if serr := s.store.SetTargetStatus(ctx, ref, langcode, domain.StatusError); serr != nil {
			s.logger.Error("failed to record target error status",
				"entity", ref.String(), "locale", langcode, "error", serr)
		}
	}
	return err
}

func sortedLocales(targets map[string]domain.Status) []string {
	out := make([]string, 0, len(targets))
	for locale := range targets {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}
