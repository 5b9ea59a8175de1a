// Package observability provides logging, metrics and tracing hooks for
// handlestore registries.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Span events via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// LogIndexAttached logs a new dedup index on a registry.
func LogIndexAttached(logger *slog.Logger, registry, keyType string) {
	if logger == nil {
		return
	}
	logger.Debug("index attached",
		slog.String("registry", registry),
		slog.String("key_type", keyType),
	)
}

// LogCommit logs a newly stored element.
func LogCommit(logger *slog.Logger, registry, source string, handle uint64) {
	if logger == nil {
		return
	}
	logger.Debug("element stored",
		slog.String("registry", registry),
		slog.String("source", source),
		slog.Uint64("handle", handle),
	)
}

// LogHit logs a construction served from a dedup index.
func LogHit(logger *slog.Logger, registry, keyType string, handle uint64) {
	if logger == nil {
		return
	}
	logger.Debug("index hit",
		slog.String("registry", registry),
		slog.String("key_type", keyType),
		slog.Uint64("handle", handle),
	)
}

// LogRejected logs an element that failed validation and was not stored.
func LogRejected(logger *slog.Logger, registry, source string) {
	if logger == nil {
		return
	}
	logger.Debug("element rejected",
		slog.String("registry", registry),
		slog.String("source", source),
	)
}

// LogFull logs capacity exhaustion.
func LogFull(logger *slog.Logger, registry, source string, capacity uint64) {
	if logger == nil {
		return
	}
	logger.Warn("registry full",
		slog.String("registry", registry),
		slog.String("source", source),
		slog.Uint64("cap", capacity),
	)
}

// LogDestroy logs a destroyed element. purged reports whether its dedup
// index entry was dropped too.
func LogDestroy(logger *slog.Logger, registry string, handle uint64, purged bool) {
	if logger == nil {
		return
	}
	logger.Debug("element destroyed",
		slog.String("registry", registry),
		slog.Uint64("handle", handle),
		slog.Bool("index_purged", purged),
	)
}

// LogClear logs a full reset.
func LogClear(logger *slog.Logger, registry string, elements, indexEntries int) {
	if logger == nil {
		return
	}
	logger.Debug("registry cleared",
		slog.String("registry", registry),
		slog.Int("elements", elements),
		slog.Int("index_entries", indexEntries),
	)
}
