package orbit

import "log/slog"

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	incremental      bool
}

// Option configures Accelerator constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring
// tracking and orbit-search operations. Pass nil to disable metrics
// collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
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

// WithIncrementalTracking enables incremental tracking from construction.
// Equivalent to calling AllowIncrementalTracking(true) afterwards.
func WithIncrementalTracking(flag bool) Option {
	return func(o *options) {
		o.incremental = flag
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
