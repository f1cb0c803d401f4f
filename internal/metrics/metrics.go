package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates Prometheus instrumentation for the server, the mock layer,
// the API client and the preference store. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	mockRequests    *prometheus.CounterVec
	mockLatency     prometheus.Histogram
	clientDuration  *prometheus.HistogramVec
	clientErrors    *prometheus.CounterVec
	prefWrites      *prometheus.CounterVec
	mockResets      prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	mockCount            uint64
	mockMissCount        uint64
	clientCount          uint64
	clientErrorCount     uint64
}

// Snapshot is a point-in-time summary for the admin endpoint.
type Snapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	MockRequestsTotal        uint64    `json:"mock_requests_total"`
	MockRouteMisses          uint64    `json:"mock_route_misses"`
	ClientRequestsTotal      uint64    `json:"client_requests_total"`
	ClientErrorsTotal        uint64    `json:"client_errors_total"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	mockRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mock_requests_total",
		Help: "Requests answered by the mock API, by route pattern",
	}, []string{"method", "route", "code"})

	mockLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mock_simulated_latency_seconds",
		Help:    "Artificial latency applied by the mock API",
		Buckets: []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.5, 1},
	})

	clientDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_client_request_duration_seconds",
		Help:    "Duration of API client calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	clientErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_client_errors_total",
		Help: "API client failures by kind",
	}, []string{"kind"})

	prefWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "preference_writes_total",
		Help: "Preference writes by backend and result",
	}, []string{"backend", "result"})

	mockResets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mock_database_resets_total",
		Help: "Times the mock dataset was regenerated",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, mockRequests, mockLatency, clientDuration, clientErrors, prefWrites, mockResets, goroutines)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		mockRequests:    mockRequests,
		mockLatency:     mockLatency,
		clientDuration:  clientDuration,
		clientErrors:    clientErrors,
		prefWrites:      prefWrites,
		mockResets:      mockResets,
	}
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one request served by the gin server.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveMockRequest records one request answered by the mock API. An empty route means a routing miss.
func (m *Metrics) ObserveMockRequest(method, route string, code int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
		atomic.AddUint64(&m.mockMissCount, 1)
	}
	m.mockRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	atomic.AddUint64(&m.mockCount, 1)
}

// ObserveMockLatency records the simulated delay.
func (m *Metrics) ObserveMockLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.mockLatency.Observe(d.Seconds())
}

// RecordMockReset counts dataset regenerations.
func (m *Metrics) RecordMockReset() {
	if m == nil {
		return
	}
	m.mockResets.Inc()
}

// ObserveClientRequest records an API client call. status is 0 for transport failures.
func (m *Metrics) ObserveClientRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.clientDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
	atomic.AddUint64(&m.clientCount, 1)
}

// RecordClientError counts a failed API client call by kind (network, http, decode).
func (m *Metrics) RecordClientError(kind string) {
	if m == nil {
		return
	}
	m.clientErrors.WithLabelValues(kind).Inc()
	atomic.AddUint64(&m.clientErrorCount, 1)
}

// RecordPreferenceWrite counts a preference write.
func (m *Metrics) RecordPreferenceWrite(backend string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.prefWrites.WithLabelValues(backend, result).Inc()
}

// Snapshot returns aggregated counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return Snapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		MockRequestsTotal:        atomic.LoadUint64(&m.mockCount),
		MockRouteMisses:          atomic.LoadUint64(&m.mockMissCount),
		ClientRequestsTotal:      atomic.LoadUint64(&m.clientCount),
		ClientErrorsTotal:        atomic.LoadUint64(&m.clientErrorCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
