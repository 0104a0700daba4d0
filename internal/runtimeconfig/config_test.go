package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateRequiresLanguages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Languages = nil
	if err := cfg.Validate(); !errors.Is(err, ErrLanguagesRequired) {
		t.Fatalf("expected ErrLanguagesRequired, got %v", err)
	}
	cfg.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled module does not need languages, got %v", err)
	}
}

func TestValidateWorkerNeedsFeatureFlag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Worker.Enabled = true
	if err := cfg.Validate(); !errors.Is(err, ErrWorkerFeatureRequired) {
		t.Fatalf("expected ErrWorkerFeatureRequired, got %v", err)
	}

	cfg.Features.DownloadWorker = true
	cfg.Worker.BatchSize = 0
	if err := cfg.Validate(); !errors.Is(err, ErrWorkerBatchSizeInvalid) {
		t.Fatalf("expected ErrWorkerBatchSizeInvalid, got %v", err)
	}

	cfg.Worker.BatchSize = 25
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid worker config, got %v", err)
	}
}

func TestValidateModerationTransitionPairs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Moderation.TransitionFrom = "in_translation"
	if err := cfg.Validate(); !errors.Is(err, ErrModerationTransitionIncomplete) {
		t.Fatalf("expected ErrModerationTransitionIncomplete, got %v", err)
	}
	cfg.Moderation.TransitionTo = "translated"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected complete transition to validate, got %v", err)
	}
}

func TestValidateProfiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profiles.Definitions = append(cfg.Profiles.Definitions, ProfileDefinition{Name: "Manual"})
	if err := cfg.Validate(); !errors.Is(err, ErrProfileNameDuplicate) {
		t.Fatalf("expected duplicate profile error, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Profiles.Default = "missing"
	if err := cfg.Validate(); !errors.Is(err, ErrDefaultProfileUnknown) {
		t.Fatalf("expected unknown default profile error, got %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected logging config to validate, got %v", err)
	}
}
