package tmssync

import "github.com/goliatone/go-tms-sync/internal/runtimeconfig"

var (
	ErrLanguagesRequired              = runtimeconfig.ErrLanguagesRequired
	ErrUploadDepthInvalid             = runtimeconfig.ErrUploadDepthInvalid
	ErrWorkerBatchSizeInvalid         = runtimeconfig.ErrWorkerBatchSizeInvalid
	ErrWorkerMaxAttemptsInvalid       = runtimeconfig.ErrWorkerMaxAttemptsInvalid
	ErrWorkerFeatureRequired          = runtimeconfig.ErrWorkerFeatureRequired
	ErrModerationTransitionIncomplete = runtimeconfig.ErrModerationTransitionIncomplete
	ErrProfileNameDuplicate           = runtimeconfig.ErrProfileNameDuplicate
	ErrDefaultProfileUnknown          = runtimeconfig.ErrDefaultProfileUnknown
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	ProfilesConfig    = runtimeconfig.ProfilesConfig
	ProfileDefinition = runtimeconfig.ProfileDefinition
	UploadConfig      = runtimeconfig.UploadConfig
	ModerationConfig  = runtimeconfig.ModerationConfig
	WorkerConfig      = runtimeconfig.WorkerConfig
	CommandsConfig    = runtimeconfig.CommandsConfig
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
