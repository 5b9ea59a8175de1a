package observability

import (
	"context"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordAllocation does nothing.
func (NoopMetrics) RecordAllocation(_ context.Context, _, _ string) {}

// RecordLookup does nothing.
func (NoopMetrics) RecordLookup(_ context.Context, _, _ string, _ bool) {}

// RecordRejection does nothing.
func (NoopMetrics) RecordRejection(_ context.Context, _, _ string) {}

// RecordFull does nothing.
func (NoopMetrics) RecordFull(_ context.Context, _, _ string) {}

// RecordRelease does nothing.
func (NoopMetrics) RecordRelease(_ context.Context, _ string, _ int) {}
