package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel(LevelDebug), WithName("test"))
	l.Info("keygen complete", Fields{"parameter_set": "ML-KEM-768"})

	out := buf.String()
	if !strings.Contains(out, "keygen complete") || !strings.Contains(out, "parameter_set=ML-KEM-768") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithFormat(FormatJSON))
	l.Warn("decapsulation fallback", Fields{"outcome": "implicit-reject"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON, got error: %v (line: %q)", err, buf.String())
	}
	if entry["msg"] != "decapsulation fallback" {
		t.Errorf("msg = %v, want %q", entry["msg"], "decapsulation fallback")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel(LevelWarn))
	l.Debug("should not appear")
	l.Info("also should not appear")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below the configured level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "WARN": LevelWarn, "garbage": LevelInfo}
	for s, want := range cases {
		if got := ParseLevel(s); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestSimpleTracerRecordsSpans(t *testing.T) {
	tracer := NewSimpleTracer()
	SetTracer(tracer)
	defer SetTracer(NoOpTracer{})

	_, end := StartSpan(context.Background(), SpanEncapsulate, WithAttributes(Attributes{ParameterSet: "ML-KEM-768"}.ToMap()))
	end(nil)

	spans := tracer.Spans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 recorded span, got %d", len(spans))
	}
	if spans[0].Name != SpanEncapsulate {
		t.Errorf("span name = %q, want %q", spans[0].Name, SpanEncapsulate)
	}
	if spans[0].Error != nil {
		t.Errorf("expected no error on successful span, got %v", spans[0].Error)
	}
}

func TestNoOpTracerIsDefault(t *testing.T) {
	SetTracer(NoOpTracer{})
	ctx, end := StartSpan(context.Background(), "noop")
	end(nil)
	if ctx == nil {
		t.Fatal("NoOpTracer should still return a usable context")
	}
}
