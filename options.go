package cwater

import (
	"log/slog"

	"github.com/hupe1980/cwater/codec"
	"github.com/hupe1980/cwater/internal/collect"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	codec            codec.Codec
	concurrency      int
	maxWaters        int
	memoryLimit      int64
	readLimit        int64
	strict           bool
	mobilityCutoff   float64
	normalizedCutoff float64
	refineQuery      bool
}

// Option configures a Finder.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := cwater.NewJSONLogger(slog.LevelInfo)
//	f := cwater.New(cwater.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithCodec configures the codec used for the JSON summary written by
// Publish. If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithConcurrency bounds the number of structures loaded and refined in
// parallel. Values <= 0 mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithMaxWaters sets the merged water count at which a run is aborted with
// a *ResourceExhaustionError. Values <= 0 mean 50,000.
func WithMaxWaters(n int) Option {
	return func(o *options) {
		o.maxWaters = n
	}
}

// WithMemoryLimit bounds the memory reserved for the pairwise distance
// matrix. 0 disables the check.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithReadLimit throttles structure reads to bytesPerSec. 0 disables
// throttling.
func WithReadLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.readLimit = bytesPerSec
	}
}

// WithStrictThreshold makes clusters need a score strictly above the
// probability instead of at least the probability.
func WithStrictThreshold() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithRefinementCutoffs overrides the removal cutoffs of the mobility (2.0)
// and normalized B-factor (1.0) heuristics. Zero keeps the default.
func WithRefinementCutoffs(mobility, normalizedB float64) Option {
	return func(o *options) {
		o.mobilityCutoff = mobility
		o.normalizedCutoff = normalizedB
	}
}

// WithQueryRefinement applies the refinement filter to the query structure
// as well. By default every query water takes part in clustering. A refined
// query still never gets excluded.
func WithQueryRefinement() Option {
	return func(o *options) {
		o.refineQuery = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		codec:            codec.Default,
		maxWaters:        collect.DefaultLimit,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.maxWaters <= 0 {
		o.maxWaters = collect.DefaultLimit
	}
	return o
}
