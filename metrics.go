package orbit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordTrack is called after each TrackBeam operation. incremental
	// reports whether the cached bunch was reused, duration is the total
	// time taken, err is nil if successful.
	RecordTrack(incremental bool, duration time.Duration, err error)

	// RecordAdvance is called after each incremental gap-closing advance of
	// a cached bunch. elements is the number of elements tracked.
	RecordAdvance(elements int, duration time.Duration)

	// RecordOrbitSearch is called after each closed-orbit search.
	// iterations is the number of Newton passes executed.
	RecordOrbitSearch(iterations int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrack(bool, time.Duration, error) {}

func (NoopMetricsCollector) RecordAdvance(int, time.Duration) {}

func (NoopMetricsCollector) RecordOrbitSearch(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrackCount        atomic.Int64
	TrackIncremental  atomic.Int64
	TrackErrors       atomic.Int64
	TrackTotalNanos   atomic.Int64
	AdvanceCount      atomic.Int64
	AdvanceElements   atomic.Int64
	OrbitSearchCount  atomic.Int64
	OrbitSearchErrors atomic.Int64
	OrbitIterations   atomic.Int64
}

// RecordTrack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrack(incremental bool, duration time.Duration, err error) {
	b.TrackCount.Add(1)
	b.TrackTotalNanos.Add(duration.Nanoseconds())
	if incremental {
		b.TrackIncremental.Add(1)
	}
	if err != nil {
		b.TrackErrors.Add(1)
	}
}

// RecordAdvance implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdvance(elements int, duration time.Duration) {
	b.AdvanceCount.Add(1)
	b.AdvanceElements.Add(int64(elements))
}

// RecordOrbitSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOrbitSearch(iterations int, duration time.Duration, err error) {
	b.OrbitSearchCount.Add(1)
	b.OrbitIterations.Add(int64(iterations))
	if err != nil {
		b.OrbitSearchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrackCount:        b.TrackCount.Load(),
		TrackIncremental:  b.TrackIncremental.Load(),
		TrackErrors:       b.TrackErrors.Load(),
		TrackAvgNanos:     b.getAvgTrackNanos(),
		AdvanceCount:      b.AdvanceCount.Load(),
		AdvanceElements:   b.AdvanceElements.Load(),
		OrbitSearchCount:  b.OrbitSearchCount.Load(),
		OrbitSearchErrors: b.OrbitSearchErrors.Load(),
		OrbitIterations:   b.OrbitIterations.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgTrackNanos() int64 {
	count := b.TrackCount.Load()
	if count == 0 {
		return 0
	}
	return b.TrackTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrackCount        int64
	TrackIncremental  int64
	TrackErrors       int64
	TrackAvgNanos     int64
	AdvanceCount      int64
	AdvanceElements   int64
	OrbitSearchCount  int64
	OrbitSearchErrors int64
	OrbitIterations   int64
}
