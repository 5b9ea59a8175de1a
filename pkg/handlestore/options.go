package handlestore

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/handlestore/pkg/handlestore/config"
	"github.com/randalmurphal/handlestore/pkg/handlestore/observability"
)

// IndexPolicy controls what Destroy does to dedup index entries.
type IndexPolicy int

const (
	// PurgeOnDestroy removes the index entry that produced a handle when the
	// handle is destroyed. A later Construct with the same key builds a fresh
	// element.
	PurgeOnDestroy IndexPolicy = iota

	// RetainOnDestroy leaves index entries in place on Destroy. A later
	// Construct with the same key returns the destroyed handle, which Get
	// reports as absent. Entries are only dropped by Clear.
	RetainOnDestroy
)

// String returns the policy name used in configuration.
func (p IndexPolicy) String() string {
	switch p {
	case PurgeOnDestroy:
		return "purge"
	case RetainOnDestroy:
		return "retain"
	default:
		return "unknown"
	}
}

// ParseIndexPolicy parses "purge" or "retain".
func ParseIndexPolicy(s string) (IndexPolicy, error) {
	switch s {
	case "purge":
		return PurgeOnDestroy, nil
	case "retain":
		return RetainOnDestroy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndexPolicy, s)
	}
}

// options holds registry configuration.
type options struct {
	name     string
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	policy   IndexPolicy
	sizeHint int
}

// defaultOptions returns the default registry configuration.
func defaultOptions() options {
	return options{
		name:    fmt.Sprintf("reg-%s", uuid.New().String()[:8]),
		metrics: observability.NoopMetrics{},
		policy:  PurgeOnDestroy,
	}
}

// Option configures a Registry.
type Option func(*options)

// WithName sets the registry name used in logs, metrics and errors.
// Default: "reg-" followed by 8 random hex characters.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for registry events.
// A nil logger disables logging, which is the default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}
//
// Example:
//
//	r := handlestore.New[Config, uint32](
//	    handlestore.WithMetrics(observability.NewMetricsRecorder()),
//	)
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithIndexPolicy sets what Destroy does to dedup index entries.
// Default: PurgeOnDestroy
func WithIndexPolicy(p IndexPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithSizeHint pre-sizes the element and index maps.
func WithSizeHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sizeHint = n
		}
	}
}

// OptionsFromConfig translates a config into registry options.
//
// Recognized keys:
//   - name: registry name
//   - index_policy: "purge" or "retain"
//   - metrics: true to record OpenTelemetry metrics
//   - size_hint: initial map capacity
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	var opts []Option

	if name := cfg.String("name", ""); name != "" {
		opts = append(opts, WithName(name))
	}

	if cfg.Has("index_policy") {
		p, err := ParseIndexPolicy(cfg.String("index_policy", ""))
		if err != nil {
			return nil, fmt.Errorf("index_policy: %w", err)
		}
		opts = append(opts, WithIndexPolicy(p))
	}

	if cfg.Bool("metrics", false) {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}

	if n := cfg.Int("size_hint", 0); n > 0 {
		opts = append(opts, WithSizeHint(n))
	}

	return opts, nil
}
