package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrLanguagesRequired              = errors.New("tms config: at least one target language is required")
	ErrUploadDepthInvalid             = errors.New("tms config: upload max depth must be zero or positive")
	ErrWorkerBatchSizeInvalid         = errors.New("tms config: worker batch size must be positive")
	ErrWorkerMaxAttemptsInvalid       = errors.New("tms config: worker max attempts must be zero or positive")
	ErrWorkerFeatureRequired          = errors.New("tms config: download worker feature must be enabled to configure the worker")
	ErrModerationTransitionIncomplete = errors.New("tms config: moderation transition needs both from and to states")
	ErrProfileNameDuplicate           = errors.New("tms config: profile names must be unique")
	ErrDefaultProfileUnknown          = errors.New("tms config: default profile is not defined")
	ErrLoggingProviderRequired        = errors.New("tms config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown         = errors.New("tms config: logging provider is invalid")
	ErrLoggingLevelInvalid            = errors.New("tms config: logging level is invalid")
	ErrLoggingFormatInvalid           = errors.New("tms config: logging format is invalid")
)

// Config aggregates feature flags and behaviour settings for the sync module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled        bool
	SourceLocale   string
	Languages      []string
	LocaleMappings map[string]string
	Storage        StorageConfig
	Cache          CacheConfig
	Profiles       ProfilesConfig
	Upload         UploadConfig
	Moderation     ModerationConfig
	Worker         WorkerConfig
	Commands       CommandsConfig
	Features       Features
	Logging        LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// ProfilesConfig seeds sync profiles and names the default one.
type ProfilesConfig struct {
	Default     string
	Definitions []ProfileDefinition
}

// ProfileDefinition mirrors the persisted profile fields for bootstrap seeding.
type ProfileDefinition struct {
	Name               string
	AutoUpload         bool
	AutoRequest        bool
	AutoDownload       bool
	AutoDownloadWorker bool
	Project            string
	Workflow           string
	Vault              string
	Filter             string
	Subfilter          string
}

// UploadConfig controls payload assembly.
type UploadConfig struct {
	// MaxDepth bounds related-entity traversal. Zero uses the built-in default.
	MaxDepth int
	// IndependentFields names reference fields whose entities are translated
	// on their own instead of bundled into the parent document.
	IndependentFields []string
}

// ModerationConfig captures the upload gate and post-download transition.
type ModerationConfig struct {
	BlockedStates  []string
	TransitionFrom string
	TransitionTo   string
}

// WorkerConfig controls the queued download worker.
type WorkerConfig struct {
	Enabled     bool
	BatchSize   int
	MaxAttempts int
	Interval    time.Duration
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// Features toggles module functionality.
type Features struct {
	Profiles        bool
	Moderation      bool
	RelatedBundling bool
	DownloadWorker  bool
	Logger          bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		SourceLocale:   "en",
		Languages:      []string{"es", "fr", "de"},
		LocaleMappings: map[string]string{},
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Profiles: ProfilesConfig{
			Default: "manual",
			Definitions: []ProfileDefinition{
				{Name: "manual"},
				{
					Name:         "automatic",
					AutoUpload:   true,
					AutoRequest:  true,
					AutoDownload: true,
				},
			},
		},
		Upload: UploadConfig{
			MaxDepth: 2,
		},
		Moderation: ModerationConfig{},
		Worker: WorkerConfig{
			BatchSize:   50,
			MaxAttempts: 3,
			Interval:    time.Minute,
		},
		Commands: CommandsConfig{},
		Features: Features{
			Profiles:        true,
			RelatedBundling: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Enabled && len(cfg.Languages) == 0 {
		return ErrLanguagesRequired
	}
	if cfg.Upload.MaxDepth < 0 {
		return ErrUploadDepthInvalid
	}
	if cfg.Worker.Enabled {
		if !cfg.Features.DownloadWorker {
			return ErrWorkerFeatureRequired
		}
		if cfg.Worker.BatchSize <= 0 {
			return ErrWorkerBatchSizeInvalid
		}
	}
	if cfg.Worker.MaxAttempts < 0 {
		return ErrWorkerMaxAttemptsInvalid
	}
	from := strings.TrimSpace(cfg.Moderation.TransitionFrom)
	to := strings.TrimSpace(cfg.Moderation.TransitionTo)
	if (from == "") != (to == "") {
		return ErrModerationTransitionIncomplete
	}
	if err := cfg.validateProfiles(); err != nil {
		return err
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func (cfg Config) validateProfiles() error {
	seen := make(map[string]struct{}, len(cfg.Profiles.Definitions))
	for _, definition := range cfg.Profiles.Definitions {
		name := strings.ToLower(strings.TrimSpace(definition.Name))
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s", ErrProfileNameDuplicate, definition.Name)
		}
		seen[name] = struct{}{}
	}
	if def := strings.ToLower(strings.TrimSpace(cfg.Profiles.Default)); def != "" && len(cfg.Profiles.Definitions) > 0 {
		if _, ok := seen[def]; !ok {
			return fmt.Errorf("%w: %s", ErrDefaultProfileUnknown, cfg.Profiles.Default)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
