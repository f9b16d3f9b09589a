package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the API instrumentation on a private registry, so the
// exposition holds exactly the serving metrics and nothing process-global.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heart_api_requests_total",
			Help: "API requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heart_api_request_latency_seconds",
			Help:    "Request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heart_api_errors_total",
			Help: "Requests that ended in a 5xx response, by path.",
		}, []string{"path"}),
	}

	registry.MustRegister(m.requests, m.latency, m.errors)
	return m
}

// Record books one completed request.
func (m *Metrics) Record(method, path string, status int, seconds float64) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, path).Observe(seconds)
	if status >= http.StatusInternalServerError {
		m.errors.WithLabelValues(path).Inc()
	}
}

// Handler serves the Prometheus text exposition.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
