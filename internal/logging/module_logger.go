package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

const (
	rootModule      = "tms"
	engineModule    = "tms.engine"
	statusModule    = "tms.status"
	bulkModule      = "tms.bulk"
	workerModule    = "tms.worker"
	schedulerModule = "tms.scheduler"
)

const (
	fieldEntity    = "entity"
	fieldLocale    = "locale"
	fieldOperation = "operation"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EngineLogger returns the logger namespace reserved for the sync engine.
func EngineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, engineModule)
}

// StatusLogger returns the logger namespace reserved for the status store.
func StatusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, statusModule)
}

// BulkLogger returns the logger namespace reserved for bulk operations.
func BulkLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, bulkModule)
}

// WorkerLogger returns the logger namespace reserved for the download worker.
func WorkerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workerModule)
}

// SchedulerLogger returns the logger namespace reserved for scheduler internals.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// WithSyncContext enriches the provided logger with the common sync fields:
// the entity reference, the target locale, and the operation in flight. Empty
// values are ignored.
func WithSyncContext(logger interfaces.Logger, entity, locale, operation string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(entity); trimmed != "" {
		fields[fieldEntity] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	if trimmed := strings.TrimSpace(operation); trimmed != "" {
		fields[fieldOperation] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
