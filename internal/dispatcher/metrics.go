package dispatcher

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks dispatch counters and tick timing.
type Metrics struct {
	installs        atomic.Uint64
	pressesAccepted atomic.Uint64
	pressesRejected atomic.Uint64
	unbound         atomic.Uint64
	releases        atomic.Uint64
	doneCalls       atomic.Uint64
	actions         atomic.Uint64
	cancellations   atomic.Uint64
	ticks           atomic.Uint64
	errors          atomic.Uint64

	// Tick latency ring buffer
	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int

	peakTick atomic.Int64

	startTime time.Time
}

const maxLatencySamples = 512

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]time.Duration, maxLatencySamples),
		startTime: time.Now(),
	}
}

func (m *Metrics) recordInstall() {
	if m != nil {
		m.installs.Add(1)
	}
}

func (m *Metrics) recordPress(accepted bool) {
	if m == nil {
		return
	}
	if accepted {
		m.pressesAccepted.Add(1)
	} else {
		m.pressesRejected.Add(1)
	}
}

func (m *Metrics) recordUnbound() {
	if m != nil {
		m.unbound.Add(1)
	}
}

func (m *Metrics) recordRelease() {
	if m != nil {
		m.releases.Add(1)
	}
}

func (m *Metrics) recordDone() {
	if m != nil {
		m.doneCalls.Add(1)
	}
}

func (m *Metrics) recordAction(cancelled bool) {
	if m == nil {
		return
	}
	m.actions.Add(1)
	if cancelled {
		m.cancellations.Add(1)
	}
}

func (m *Metrics) recordError() {
	if m != nil {
		m.errors.Add(1)
	}
}

func (m *Metrics) recordTick(latency time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Add(1)

	ns := latency.Nanoseconds()
	for {
		current := m.peakTick.Load()
		if ns <= current || m.peakTick.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % len(m.latencies)
	m.mu.Unlock()
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	Installs        uint64
	PressesAccepted uint64
	PressesRejected uint64
	Unbound         uint64
	Releases        uint64
	DoneCalls       uint64
	Actions         uint64
	Cancellations   uint64
	Ticks           uint64
	Errors          uint64

	AvgTickLatency  time.Duration
	P99TickLatency  time.Duration
	PeakTickLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}

	m.mu.Lock()
	samples := make([]time.Duration, 0, len(m.latencies))
	for _, l := range m.latencies {
		if l > 0 {
			samples = append(samples, l)
		}
	}
	m.mu.Unlock()

	snap := MetricsSnapshot{
		Installs:        m.installs.Load(),
		PressesAccepted: m.pressesAccepted.Load(),
		PressesRejected: m.pressesRejected.Load(),
		Unbound:         m.unbound.Load(),
		Releases:        m.releases.Load(),
		DoneCalls:       m.doneCalls.Load(),
		Actions:         m.actions.Load(),
		Cancellations:   m.cancellations.Load(),
		Ticks:           m.ticks.Load(),
		Errors:          m.errors.Load(),
		PeakTickLatency: time.Duration(m.peakTick.Load()),
		Uptime:          time.Since(m.startTime),
	}
	snap.AvgTickLatency, snap.P99TickLatency = latencyStats(samples)
	return snap
}

// latencyStats returns the average and p99 of samples.
func latencyStats(samples []time.Duration) (avg, p99 time.Duration) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, l := range samples {
		sum += l
	}
	avg = sum / time.Duration(len(samples))

	slices.Sort(samples)
	idx := int(float64(len(samples)) * 0.99)
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return avg, samples[idx]
}
