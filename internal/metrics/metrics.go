package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the application metrics
type Metrics struct {
	registry *prometheus.Registry

	// Inbound admin console requests
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Outbound backend API calls
	APIRequestTotal    *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	LoginAttempts  *prometheus.CounterVec
	ActiveSessions prometheus.GaugeFunc
}

// New creates a Metrics instance backed by its own registry. activeSessions
// is sampled on every scrape; pass nil when there is nothing to report.
func New(activeSessions func() float64) *Metrics {
	if activeSessions == nil {
		activeSessions = func() float64 { return 0 }
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logineko_admin_http_requests_total",
			Help: "Total number of admin console HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logineko_admin_http_request_duration_seconds",
			Help:    "Admin console HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		APIRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logineko_admin_api_requests_total",
			Help: "Total number of requests sent to the backend API",
		}, []string{"method", "endpoint", "status"}),

		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logineko_admin_api_request_duration_seconds",
			Help:    "Backend API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logineko_admin_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),

		ActiveSessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "logineko_admin_active_sessions",
			Help: "Number of browser sessions holding an access token",
		}, activeSessions),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestTotal,
		m.HTTPRequestDuration,
		m.APIRequestTotal,
		m.APIRequestDuration,
		m.LoginAttempts,
		m.ActiveSessions,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one inbound request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAPICall records one backend call. status is 0 for network failures.
func (m *Metrics) ObserveAPICall(method, endpoint string, status int, elapsed time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.APIRequestTotal.WithLabelValues(method, endpoint, label).Inc()
	m.APIRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveLogin records a login outcome: "success", "invalid", "failed" or "limited".
func (m *Metrics) ObserveLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}
