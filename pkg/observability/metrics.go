package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Default bucket configurations for the latency histograms below.
var (
	// KeyGenLatencyBuckets bounds key-generation latency, in microseconds.
	KeyGenLatencyBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000}

	// OperationLatencyBuckets bounds encapsulate/decapsulate latency, in
	// microseconds.
	OperationLatencyBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000}
)

// Collector aggregates counters and latency histograms across this
// module's three operations (KeyGen, Encapsulate, Decapsulate) and its
// self-test subsystem.
//
// Grounded on pkg/metrics.Collector's atomic-counter-plus-histogram
// shape, rescoped from tunnel session/traffic/rekey counters to ML-KEM
// operation counters.
type Collector struct {
	keyGensTotal        atomic.Uint64
	encapsulationsTotal atomic.Uint64
	decapsulationsTotal atomic.Uint64

	encapsulateErrors atomic.Uint64
	decapsulateErrors atomic.Uint64

	implicitRejections atomic.Uint64

	postRuns    atomic.Uint64
	postFailures atomic.Uint64
	cstRuns     atomic.Uint64
	cstFailures atomic.Uint64

	keyGenLatency     *Histogram
	encapsulateLatency *Histogram
	decapsulateLatency *Histogram

	createdAt time.Time
	labels    Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}
	return &Collector{
		keyGenLatency:      NewHistogram(KeyGenLatencyBuckets),
		encapsulateLatency: NewHistogram(OperationLatencyBuckets),
		decapsulateLatency: NewHistogram(OperationLatencyBuckets),
		createdAt:          time.Now(),
		labels:             labels,
	}
}

// RecordKeyGen records a completed key generation and its latency.
func (c *Collector) RecordKeyGen(d time.Duration) {
	c.keyGensTotal.Add(1)
	c.keyGenLatency.Observe(float64(d.Microseconds()))
}

// RecordEncapsulate records a completed encapsulation, its latency, and
// whether it failed (e.g. the ek modulus check rejected its input).
func (c *Collector) RecordEncapsulate(d time.Duration, err error) {
	c.encapsulationsTotal.Add(1)
	c.encapsulateLatency.Observe(float64(d.Microseconds()))
	if err != nil {
		c.encapsulateErrors.Add(1)
	}
}

// RecordDecapsulate records a completed decapsulation and its latency.
// err reflects only malformed-input rejection (wrong-length keys or
// ciphertext); a ciphertext absorbed by implicit rejection is not an
// error and is tracked separately via RecordImplicitRejection.
func (c *Collector) RecordDecapsulate(d time.Duration, err error) {
	c.decapsulationsTotal.Add(1)
	c.decapsulateLatency.Observe(float64(d.Microseconds()))
	if err != nil {
		c.decapsulateErrors.Add(1)
	}
}

// RecordImplicitRejection records that a Decapsulate call fell through
// the Fujisaki-Okamoto implicit-rejection path.
func (c *Collector) RecordImplicitRejection() {
	c.implicitRejections.Add(1)
}

// RecordPOST records the outcome of a Power-On Self-Test run.
func (c *Collector) RecordPOST(passed bool) {
	c.postRuns.Add(1)
	if !passed {
		c.postFailures.Add(1)
	}
}

// RecordCST records the outcome of a Conditional Self-Test run.
func (c *Collector) RecordCST(passed bool) {
	c.cstRuns.Add(1)
	if !passed {
		c.cstFailures.Add(1)
	}
}

// Snapshot is a point-in-time view of every counter and histogram.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	KeyGensTotal        uint64
	EncapsulationsTotal uint64
	DecapsulationsTotal uint64

	EncapsulateErrors uint64
	DecapsulateErrors uint64

	ImplicitRejections uint64

	POSTRuns     uint64
	POSTFailures uint64
	CSTRuns      uint64
	CSTFailures  uint64

	KeyGenLatency      HistogramSummary
	EncapsulateLatency HistogramSummary
	DecapsulateLatency HistogramSummary

	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:           time.Now(),
		Uptime:              time.Since(c.createdAt),
		KeyGensTotal:        c.keyGensTotal.Load(),
		EncapsulationsTotal: c.encapsulationsTotal.Load(),
		DecapsulationsTotal: c.decapsulationsTotal.Load(),
		EncapsulateErrors:   c.encapsulateErrors.Load(),
		DecapsulateErrors:   c.decapsulateErrors.Load(),
		ImplicitRejections:  c.implicitRejections.Load(),
		POSTRuns:            c.postRuns.Load(),
		POSTFailures:        c.postFailures.Load(),
		CSTRuns:             c.cstRuns.Load(),
		CSTFailures:         c.cstFailures.Load(),
		KeyGenLatency:       c.keyGenLatency.Summary(),
		EncapsulateLatency:  c.encapsulateLatency.Summary(),
		DecapsulateLatency:  c.decapsulateLatency.Summary(),
		Labels:              c.labels,
	}
}

// Reset clears all metrics. Useful for tests.
func (c *Collector) Reset() {
	c.keyGensTotal.Store(0)
	c.encapsulationsTotal.Store(0)
	c.decapsulationsTotal.Store(0)
	c.encapsulateErrors.Store(0)
	c.decapsulateErrors.Store(0)
	c.implicitRejections.Store(0)
	c.postRuns.Store(0)
	c.postFailures.Store(0)
	c.cstRuns.Store(0)
	c.cstFailures.Store(0)
	c.keyGenLatency.Reset()
	c.encapsulateLatency.Reset()
	c.decapsulateLatency.Reset()
	c.createdAt = time.Now()
}

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// GlobalCollector returns the global metrics collector, creating one with
// default labels on first use.
func GlobalCollector() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"module": "mlkem-go"})
	})
	return globalCollector
}

// SetGlobalCollector replaces the global metrics collector. Must be
// called before any metrics are recorded through GlobalCollector.
func SetGlobalCollector(c *Collector) {
	globalCollectorOnce.Do(func() {})
	globalCollector = c
}
