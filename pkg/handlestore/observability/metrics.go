package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordAllocation records a handle allocated for a stored element.
	// source is "add" or the key type of the index that built it.
	RecordAllocation(ctx context.Context, registry, source string)

	// RecordLookup records a dedup index lookup.
	RecordLookup(ctx context.Context, registry, keyType string, hit bool)

	// RecordRejection records an element that failed validation.
	RecordRejection(ctx context.Context, registry, source string)

	// RecordFull records an allocation refused because the registry is full.
	RecordFull(ctx context.Context, registry, source string)

	// RecordRelease records elements removed by Destroy or Clear.
	RecordRelease(ctx context.Context, registry string, count int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	allocations metric.Int64Counter
	lookups     metric.Int64Counter
	rejections  metric.Int64Counter
	full        metric.Int64Counter
	releases    metric.Int64Counter
	live        metric.Int64UpDownCounter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("handlestore")

	allocations, err := meter.Int64Counter("handlestore.handles.allocated",
		metric.WithDescription("Number of handles allocated"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("handlestore.index.lookups",
		metric.WithDescription("Number of dedup index lookups"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter("handlestore.elements.rejected",
		metric.WithDescription("Number of elements rejected by validation"),
	)
	if err != nil {
		return nil, err
	}

	full, err := meter.Int64Counter("handlestore.full",
		metric.WithDescription("Number of allocations refused because the registry is full"),
	)
	if err != nil {
		return nil, err
	}

	releases, err := meter.Int64Counter("handlestore.handles.released",
		metric.WithDescription("Number of elements removed by destroy or clear"),
	)
	if err != nil {
		return nil, err
	}

	live, err := meter.Int64UpDownCounter("handlestore.elements.live",
		metric.WithDescription("Number of live elements"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		allocations: allocations,
		lookups:     lookups,
		rejections:  rejections,
		full:        full,
		releases:    releases,
		live:        live,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordAllocation records a handle allocation.
func (m *otelMetrics) RecordAllocation(ctx context.Context, registry, source string) {
	attrs := metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("source", source),
	)
	m.allocations.Add(ctx, 1, attrs)
	m.live.Add(ctx, 1, metric.WithAttributes(attribute.String("registry", registry)))
}

// RecordLookup records a dedup index lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, registry, keyType string, hit bool) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("key_type", keyType),
		attribute.Bool("hit", hit),
	))
}

// RecordRejection records a validation rejection.
func (m *otelMetrics) RecordRejection(ctx context.Context, registry, source string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("source", source),
	))
}

// RecordFull records capacity exhaustion.
func (m *otelMetrics) RecordFull(ctx context.Context, registry, source string) {
	m.full.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("source", source),
	))
}

// RecordRelease records removed elements.
func (m *otelMetrics) RecordRelease(ctx context.Context, registry string, count int) {
	if count <= 0 {
		return
	}
	attrs := metric.WithAttributes(attribute.String("registry", registry))
	m.releases.Add(ctx, int64(count), attrs)
	m.live.Add(ctx, -int64(count), attrs)
}
