package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/crossrank"
)

const namespace = "crossrank"

var _ crossrank.MetricsCollector = (*Collector)(nil)

// Collector implements crossrank.MetricsCollector on a private registry.
type Collector struct {
	registry *prometheus.Registry

	opLatency   *prometheus.HistogramVec
	operations  *prometheus.CounterVec
	records     prometheus.Counter
	bytesRead   prometheus.Counter
	queries     prometheus.Counter
	candidates  prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of load, select and aggregate operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total operations by type and outcome",
		}, []string{"op", "status"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_records_loaded_total",
			Help:      "Total records loaded from index files",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_bytes_read_total",
			Help:      "Total stored bytes of loaded index files",
		}),
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_queries_total",
			Help:      "Total query documents found across index selections",
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_candidates",
			Help:      "Distinct candidate documents per aggregated query",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful operation",
		}),
	}

	c.registry.MustRegister(
		c.opLatency,
		c.operations,
		c.records,
		c.bytesRead,
		c.queries,
		c.candidates,
		c.lastSuccess,
	)
	return c
}

// Registry returns the registry holding all crossrank metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes the registry in the text exposition format, atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// RecordLoad implements crossrank.MetricsCollector.
func (c *Collector) RecordLoad(records int, bytes int64, d time.Duration, err error) {
	if c.observe("load", d, err) {
		c.records.Add(float64(records))
		c.bytesRead.Add(float64(bytes))
	}
}

// RecordSelect implements crossrank.MetricsCollector.
func (c *Collector) RecordSelect(queries, _ int, d time.Duration, err error) {
	if c.observe("select", d, err) {
		c.queries.Add(float64(queries))
	}
}

// RecordAggregate implements crossrank.MetricsCollector.
func (c *Collector) RecordAggregate(candidates int, d time.Duration, err error) {
	if c.observe("aggregate", d, err) {
		c.candidates.Observe(float64(candidates))
	}
}

func (c *Collector) observe(op string, d time.Duration, err error) bool {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.operations.WithLabelValues(op, status).Inc()
	if err == nil {
		c.lastSuccess.SetToCurrentTime()
	}
	return err == nil
}
