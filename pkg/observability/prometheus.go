package observability

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"
)

// PrometheusExporter exports a Collector's metrics in Prometheus text
// format.
//
// Grounded on pkg/metrics/prometheus.go's HELP/TYPE/bucket writer shape,
// rescoped from tunnel session/traffic counters to ML-KEM operation
// counters and latency histograms.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a Prometheus exporter for the given
// collector. namespace is prepended to every metric name (e.g. "mlkem").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{collector: c, namespace: namespace}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to w.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	e.writeHelp(w, "keygens_total", "Total number of ML-KEM key generations")
	e.writeType(w, "keygens_total", "counter")
	e.writeMetric(w, "keygens_total", labels, float64(snap.KeyGensTotal))

	e.writeHelp(w, "encapsulations_total", "Total number of encapsulations attempted")
	e.writeType(w, "encapsulations_total", "counter")
	e.writeMetric(w, "encapsulations_total", labels, float64(snap.EncapsulationsTotal))

	e.writeHelp(w, "decapsulations_total", "Total number of decapsulations attempted")
	e.writeType(w, "decapsulations_total", "counter")
	e.writeMetric(w, "decapsulations_total", labels, float64(snap.DecapsulationsTotal))

	e.writeHelp(w, "encapsulate_errors_total", "Total encapsulation input validation failures")
	e.writeType(w, "encapsulate_errors_total", "counter")
	e.writeMetric(w, "encapsulate_errors_total", labels, float64(snap.EncapsulateErrors))

	e.writeHelp(w, "decapsulate_errors_total", "Total decapsulation input validation failures")
	e.writeType(w, "decapsulate_errors_total", "counter")
	e.writeMetric(w, "decapsulate_errors_total", labels, float64(snap.DecapsulateErrors))

	e.writeHelp(w, "implicit_rejections_total", "Total decapsulations that fell through implicit rejection")
	e.writeType(w, "implicit_rejections_total", "counter")
	e.writeMetric(w, "implicit_rejections_total", labels, float64(snap.ImplicitRejections))

	e.writeHelp(w, "post_runs_total", "Total Power-On Self-Test runs")
	e.writeType(w, "post_runs_total", "counter")
	e.writeMetric(w, "post_runs_total", labels, float64(snap.POSTRuns))

	e.writeHelp(w, "post_failures_total", "Total Power-On Self-Test failures")
	e.writeType(w, "post_failures_total", "counter")
	e.writeMetric(w, "post_failures_total", labels, float64(snap.POSTFailures))

	e.writeHelp(w, "cst_runs_total", "Total Conditional Self-Test runs")
	e.writeType(w, "cst_runs_total", "counter")
	e.writeMetric(w, "cst_runs_total", labels, float64(snap.CSTRuns))

	e.writeHelp(w, "cst_failures_total", "Total Conditional Self-Test failures")
	e.writeType(w, "cst_failures_total", "counter")
	e.writeMetric(w, "cst_failures_total", labels, float64(snap.CSTFailures))

	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	e.writeHistogram(w, "keygen_duration_microseconds", "Key generation duration in microseconds", labels, snap.KeyGenLatency)
	e.writeHistogram(w, "encapsulate_duration_microseconds", "Encapsulation duration in microseconds", labels, snap.EncapsulateLatency)
	e.writeHistogram(w, "decapsulate_duration_microseconds", "Decapsulation duration in microseconds", labels, snap.DecapsulateLatency)
}

func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := escapePromValue(labels[k])
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, v))
	}

	return strings.Join(parts, ",")
}

func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

const (
	metricsReadHeaderTimeout = 5 * time.Second
	metricsReadTimeout       = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 120 * time.Second
)

// ServeMetrics starts an HTTP server serving this collector's metrics at
// /metrics. A convenience wrapper for simple deployments; production
// deployments should mount Handler() on their own mux instead.
func ServeMetrics(addr string, c *Collector, namespace string) error {
	exp := NewPrometheusExporter(c, namespace)
	mux := http.NewServeMux()
	mux.Handle("/metrics", exp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		ReadTimeout:       metricsReadTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}
	return srv.ListenAndServe()
}
