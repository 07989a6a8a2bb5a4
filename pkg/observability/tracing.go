package observability

import (
	"context"
	"sync"
	"time"
)

// Tracer provides distributed tracing for ML-KEM operations, plugging in
// different backends (OpenTelemetry, an in-memory recorder, or none).
//
// Grounded on pkg/metrics/tracing.go's Tracer/SpanEnder/SpanOption shape.
type Tracer interface {
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder)
}

// SpanEnder ends a span. A nil error marks it successful.
type SpanEnder func(err error)

// SpanOption configures span behavior.
type SpanOption func(*spanConfig)

type spanConfig struct {
	kind       SpanKind
	attributes map[string]interface{}
}

// SpanKind identifies the type of span.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindServer
	SpanKindClient
)

// WithSpanKind sets the span kind.
func WithSpanKind(kind SpanKind) SpanOption {
	return func(c *spanConfig) { c.kind = kind }
}

// WithAttributes sets span attributes.
func WithAttributes(attrs map[string]interface{}) SpanOption {
	return func(c *spanConfig) { c.attributes = attrs }
}

// NoOpTracer discards every span. It is the default global tracer.
type NoOpTracer struct{}

func (NoOpTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	return ctx, func(err error) {}
}

// SimpleTracer records spans in memory, for tests and local debugging.
type SimpleTracer struct {
	mu    sync.Mutex
	spans []RecordedSpan
}

// RecordedSpan is one completed span.
type RecordedSpan struct {
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Kind       SpanKind
	Attributes map[string]interface{}
	Error      error
}

// NewSimpleTracer constructs an empty SimpleTracer.
func NewSimpleTracer() *SimpleTracer {
	return &SimpleTracer{spans: make([]RecordedSpan, 0)}
}

func (t *SimpleTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	cfg := &spanConfig{kind: SpanKindInternal, attributes: make(map[string]interface{})}
	for _, opt := range opts {
		opt(cfg)
	}

	span := &RecordedSpan{
		Name:       name,
		StartTime:  time.Now(),
		Kind:       cfg.kind,
		Attributes: cfg.attributes,
	}

	return ctx, func(err error) {
		span.EndTime = time.Now()
		span.Duration = span.EndTime.Sub(span.StartTime)
		span.Error = err

		t.mu.Lock()
		t.spans = append(t.spans, *span)
		t.mu.Unlock()
	}
}

// Spans returns a copy of every span recorded so far.
func (t *SimpleTracer) Spans() []RecordedSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RecordedSpan, len(t.spans))
	copy(out, t.spans)
	return out
}

// Reset clears all recorded spans.
func (t *SimpleTracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = t.spans[:0]
}

var (
	globalTracer   Tracer = NoOpTracer{}
	globalTracerMu sync.RWMutex
)

// SetTracer sets the package-global tracer.
func SetTracer(t Tracer) {
	globalTracerMu.Lock()
	defer globalTracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the package-global tracer.
func GetTracer() Tracer {
	globalTracerMu.RLock()
	defer globalTracerMu.RUnlock()
	return globalTracer
}

// StartSpan starts a span on the package-global tracer.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	return GetTracer().StartSpan(ctx, name, opts...)
}

// Standard span names for this module's operations.
const (
	SpanKeyGen      = "mlkem.keygen"
	SpanEncapsulate = "mlkem.encapsulate"
	SpanDecapsulate = "mlkem.decapsulate"
	SpanSelfTest    = "mlkem.selftest"
)

// Attributes holds the public, non-secret fields worth attaching to a
// span for an ML-KEM operation.
type Attributes struct {
	ParameterSet string
	Outcome      string
	Error        string
}

// ToMap converts Attributes to the generic map StartSpan's WithAttributes
// expects.
func (a Attributes) ToMap() map[string]interface{} {
	m := make(map[string]interface{})
	if a.ParameterSet != "" {
		m["mlkem.parameter_set"] = a.ParameterSet
	}
	if a.Outcome != "" {
		m["mlkem.outcome"] = a.Outcome
	}
	if a.Error != "" {
		m["error.message"] = a.Error
	}
	return m
}
