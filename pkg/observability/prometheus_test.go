package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPrometheusExporterWriteMetrics(t *testing.T) {
	c := NewCollector(Labels{"module": "mlkem-go"})
	c.RecordKeyGen(100 * time.Microsecond)
	c.RecordEncapsulate(50*time.Microsecond, nil)

	exp := NewPrometheusExporter(c, "mlkem")
	var buf bytes.Buffer
	exp.WriteMetrics(&buf)

	out := buf.String()
	for _, want := range []string{
		"# HELP mlkem_keygens_total",
		"# TYPE mlkem_keygens_total counter",
		`mlkem_keygens_total{module="mlkem-go"} 1`,
		"mlkem_keygen_duration_microseconds_bucket",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nfull output:\n%s", want, out)
		}
	}
}

func TestPrometheusExporterHandler(t *testing.T) {
	c := NewCollector(nil)
	exp := NewPrometheusExporter(c, "mlkem")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestEscapePromValue(t *testing.T) {
	if got := escapePromValue(`a"b\c` + "\n"); got != `a\"b\\c\n` {
		t.Errorf("escapePromValue = %q", got)
	}
}
