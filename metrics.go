package crossrank

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheus for a ready-made Prometheus collector.
type MetricsCollector interface {
	// RecordLoad is called after each index file load.
	// bytes is the size of the file as stored, err is nil if successful.
	RecordLoad(records int, bytes int64, duration time.Duration, err error)

	// RecordSelect is called after the top-k selection over one index.
	// queries is the number of queries found in the index.
	RecordSelect(queries, k int, duration time.Duration, err error)

	// RecordAggregate is called after each per-query aggregation.
	// candidates is the number of distinct documents ranked.
	RecordAggregate(candidates int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSelect(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordAggregate(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount           atomic.Int64
	LoadErrors          atomic.Int64
	LoadRecords         atomic.Int64
	LoadBytes           atomic.Int64
	LoadTotalNanos      atomic.Int64
	SelectCount         atomic.Int64
	SelectErrors        atomic.Int64
	SelectQueries       atomic.Int64
	SelectTotalNanos    atomic.Int64
	AggregateCount      atomic.Int64
	AggregateErrors     atomic.Int64
	AggregateCandidates atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records int, bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadRecords.Add(int64(records))
	b.LoadBytes.Add(bytes)
}

// RecordSelect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSelect(queries, _ int, duration time.Duration, err error) {
	b.SelectCount.Add(1)
	b.SelectTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SelectErrors.Add(1)
		return
	}
	b.SelectQueries.Add(int64(queries))
}

// RecordAggregate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAggregate(candidates int, _ time.Duration, err error) {
	b.AggregateCount.Add(1)
	if err != nil {
		b.AggregateErrors.Add(1)
		return
	}
	b.AggregateCandidates.Add(int64(candidates))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:           b.LoadCount.Load(),
		LoadErrors:          b.LoadErrors.Load(),
		LoadRecords:         b.LoadRecords.Load(),
		LoadBytes:           b.LoadBytes.Load(),
		LoadAvgNanos:        avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		SelectCount:         b.SelectCount.Load(),
		SelectErrors:        b.SelectErrors.Load(),
		SelectQueries:       b.SelectQueries.Load(),
		SelectAvgNanos:      avg(b.SelectTotalNanos.Load(), b.SelectCount.Load()),
		AggregateCount:      b.AggregateCount.Load(),
		AggregateErrors:     b.AggregateErrors.Load(),
		AggregateCandidates: b.AggregateCandidates.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount           int64
	LoadErrors          int64
	LoadRecords         int64
	LoadBytes           int64
	LoadAvgNanos        int64
	SelectCount         int64
	SelectErrors        int64
	SelectQueries       int64
	SelectAvgNanos      int64
	AggregateCount      int64
	AggregateErrors     int64
	AggregateCandidates int64
}
