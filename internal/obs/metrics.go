package obs

import (
	"sync/atomic"
	"time"
)

// Metrics collects lightweight counters and latency stats for one chase run.
type Metrics struct {
	quotesReceived   uint64
	quotesThrottled  uint64
	quotesDispatched uint64

	placeLatency  LatencyStats
	cancelLatency LatencyStats
	pollLatency   LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	QuotesReceived   uint64
	QuotesThrottled  uint64
	QuotesDispatched uint64
	PlaceLatency     LatencySnapshot
	CancelLatency    LatencySnapshot
	PollLatency      LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncQuoteReceived records a quote dequeued from the stream.
func (m *Metrics) IncQuoteReceived() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.quotesReceived, 1)
}

// IncQuoteThrottled records a quote discarded by the dispatcher.
func (m *Metrics) IncQuoteThrottled() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.quotesThrottled, 1)
}

// IncQuoteDispatched records a quote handed to the engine.
func (m *Metrics) IncQuoteDispatched() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.quotesDispatched, 1)
}

// ObservePlace measures a place-limit gateway call.
func (m *Metrics) ObservePlace(d time.Duration) {
	if m == nil {
		return
	}
	m.placeLatency.Observe(d)
}

// ObserveCancel measures a cancel gateway call.
func (m *Metrics) ObserveCancel(d time.Duration) {
	if m == nil {
		return
	}
	m.cancelLatency.Observe(d)
}

// ObservePoll measures a fill-poll gateway call.
func (m *Metrics) ObservePoll(d time.Duration) {
	if m == nil {
		return
	}
	m.pollLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		QuotesReceived:   atomic.LoadUint64(&m.quotesReceived),
		QuotesThrottled:  atomic.LoadUint64(&m.quotesThrottled),
		QuotesDispatched: atomic.LoadUint64(&m.quotesDispatched),
		PlaceLatency:     m.placeLatency.Snapshot(),
		CancelLatency:    m.cancelLatency.Snapshot(),
		PollLatency:      m.pollLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
