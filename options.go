package crossrank

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/internal/resource"
)

// DefaultK is the number of neighbors retrieved per index and query.
const DefaultK = 5

type options struct {
	k                int
	measure          distance.Measure
	normalize        bool
	classFeature     bool
	workers          int
	memoryLimit      int64
	ioLimit          int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithK sets the number of neighbors retrieved per index and query.
// Values below 1 make New fail with ErrInvalidK.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithMeasure selects the distance measure (L1 by default).
func WithMeasure(m distance.Measure) Option {
	return func(o *options) {
		o.measure = m
	}
}

// WithNormalization toggles min/max normalization of numeric attributes.
// Enabled by default.
func WithNormalization(enabled bool) Option {
	return func(o *options) {
		o.normalize = enabled
	}
}

// WithClassFeature makes the class attribute count as a feature in the
// distance. Disabled by default, so documents of different classes are
// compared on their features alone.
func WithClassFeature(enabled bool) Option {
	return func(o *options) {
		o.classFeature = enabled
	}
}

// WithWorkers bounds the number of indices and queries processed at once.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLimits sets the memory budget for loaded indices and the read
// throughput for index files. Zero means unlimited.
func WithLimits(memoryBytes, ioBytesPerSec int64) Option {
	return func(o *options) {
		o.memoryLimit = memoryBytes
		o.ioLimit = ioBytesPerSec
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &crossrank.BasicMetricsCollector{}
//	eng, _ := crossrank.New(crossrank.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Loads: %d, Avg latency: %dns\n", stats.LoadCount, stats.LoadAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := crossrank.NewJSONLogger(slog.LevelInfo)
//	eng, _ := crossrank.New(crossrank.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		measure:          distance.L1,
		normalize:        true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o options) resourceConfig() resource.Config {
	return resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		MaxWorkers:         int64(o.workers),
		IOLimitBytesPerSec: o.ioLimit,
	}
}
