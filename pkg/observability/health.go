package observability

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthStatus represents the overall health state.
//
// Grounded on pkg/metrics/health.go's HealthCheck/HealthStatus shape,
// rescoped from VPN session/traffic health to this module's self-test
// subsystem: a "post" check reporting whether the Power-On Self-Test has
// run and passed is the one check every deployment of this module cares
// about, in place of the teacher's memory/connectivity placeholders.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck provides health check functionality for processes embedding
// this module.
type HealthCheck struct {
	mu        sync.RWMutex
	checks    map[string]CheckFunc
	collector *Collector
	startTime time.Time
	version   string
}

// CheckFunc performs a health check, returning nil if healthy or an error
// describing the problem.
type CheckFunc func() error

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Metrics   *HealthMetrics         `json:"metrics,omitempty"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthMetrics summarizes a few top-line counters for the health
// response, so a dashboard doesn't need to scrape /metrics separately.
type HealthMetrics struct {
	KeyGensTotal        uint64  `json:"keygens_total"`
	EncapsulationsTotal uint64  `json:"encapsulations_total"`
	DecapsulationsTotal uint64  `json:"decapsulations_total"`
	ErrorRate           float64 `json:"error_rate,omitempty"`
}

// NewHealthCheck creates a health check instance, pre-registering a
// "post" check that reports the Power-On Self-Test's cached result.
func NewHealthCheck(collector *Collector, version string, postCheck CheckFunc) *HealthCheck {
	h := &HealthCheck{
		checks:    make(map[string]CheckFunc),
		collector: collector,
		startTime: time.Now(),
		version:   version,
	}
	if postCheck != nil {
		h.AddCheck("post", postCheck)
	}
	return h
}

// AddCheck registers a named health check.
func (h *HealthCheck) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// RemoveCheck removes a named health check.
func (h *HealthCheck) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.checks, name)
}

// Check runs all registered checks and returns the overall status.
func (h *HealthCheck) Check() HealthResponse {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()

	response := HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Uptime:    formatDuration(time.Since(h.startTime)),
		Version:   h.version,
		Checks:    make(map[string]CheckResult),
	}

	hasUnhealthy := false
	hasDegraded := false

	for name, check := range checks {
		start := time.Now()
		err := check()
		latency := time.Since(start)

		result := CheckResult{Status: HealthStatusHealthy, Latency: latency.String()}
		if err != nil {
			result.Status = HealthStatusUnhealthy
			result.Message = err.Error()
			hasUnhealthy = true
		}
		response.Checks[name] = result
	}

	if h.collector != nil {
		snap := h.collector.Snapshot()
		response.Metrics = &HealthMetrics{
			KeyGensTotal:        snap.KeyGensTotal,
			EncapsulationsTotal: snap.EncapsulationsTotal,
			DecapsulationsTotal: snap.DecapsulationsTotal,
		}

		totalOps := snap.EncapsulationsTotal + snap.DecapsulationsTotal
		totalErrors := snap.EncapsulateErrors + snap.DecapsulateErrors
		if totalOps > 0 {
			response.Metrics.ErrorRate = float64(totalErrors) / float64(totalOps)
			if response.Metrics.ErrorRate > 0.01 {
				hasDegraded = true
			}
		}
	}

	switch {
	case hasUnhealthy:
		response.Status = HealthStatusUnhealthy
	case hasDegraded:
		response.Status = HealthStatusDegraded
	}

	return response
}

// Handler returns an http.Handler for the health check endpoint.
func (h *HealthCheck) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := h.Check()
		w.Header().Set("Content-Type", "application/json")
		switch response.Status {
		case HealthStatusUnhealthy:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	})
}

// LivenessHandler returns a handler that always reports 200 while the
// process is up, independent of self-test state.
func (h *HealthCheck) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	})
}

// ReadinessHandler returns a handler that reports readiness based on
// whether every registered check (in particular, "post") currently
// passes.
func (h *HealthCheck) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := h.Check()
		w.Header().Set("Content-Type", "application/json")
		if response.Status == HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": response.Status,
			"ready":  response.Status != HealthStatusUnhealthy,
		})
	})
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return formatInt(days) + "d" + formatInt(hours) + "h" + formatInt(minutes) + "m"
	case hours > 0:
		return formatInt(hours) + "h" + formatInt(minutes) + "m" + formatInt(seconds) + "s"
	case minutes > 0:
		return formatInt(minutes) + "m" + formatInt(seconds) + "s"
	case seconds > 0:
		return formatInt(seconds) + "s"
	default:
		return "0s"
	}
}

func formatInt(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Server provides HTTP endpoints for metrics and health, for processes
// that embed this module as a long-running service.
type Server struct {
	mux        *http.ServeMux
	collector  *Collector
	health     *HealthCheck
	prometheus *PrometheusExporter
}

// ServerConfig configures the observability Server.
type ServerConfig struct {
	Collector        *Collector
	Version          string
	Namespace        string
	PostCheck        CheckFunc
	EnablePrometheus bool
	EnableHealth     bool
}

// NewServer builds an observability Server per cfg.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Collector == nil {
		cfg.Collector = GlobalCollector()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "mlkem"
	}

	s := &Server{mux: http.NewServeMux(), collector: cfg.Collector}

	if cfg.EnablePrometheus {
		s.prometheus = NewPrometheusExporter(cfg.Collector, cfg.Namespace)
		s.mux.Handle("/metrics", s.prometheus.Handler())
	}

	if cfg.EnableHealth {
		s.health = NewHealthCheck(cfg.Collector, cfg.Version, cfg.PostCheck)
		s.mux.Handle("/health", s.health.Handler())
		s.mux.Handle("/healthz", s.health.LivenessHandler())
		s.mux.Handle("/readyz", s.health.ReadinessHandler())
	}

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// AddHealthCheck adds a health check to the server, if health is enabled.
func (s *Server) AddHealthCheck(name string, check CheckFunc) {
	if s.health != nil {
		s.health.AddCheck(name, check)
	}
}

// ListenAndServe starts the observability server.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		ReadTimeout:       metricsReadTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}
	return srv.ListenAndServe()
}
