// Package metrics provides Prometheus metrics for the analysis service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains Prometheus metrics for analyses, summaries and HTTP
// traffic. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	forecastsTotal   *prometheus.CounterVec
	inventoryAlerts  *prometheus.GaugeVec
	summariesTotal   *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates and registers the metrics on registry
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) initMetrics() {
	m.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restopro_analyses_total",
			Help: "Total number of analyses run",
		},
		[]string{"source", "status"}, // status: success, error
	)

	m.analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restopro_analysis_duration_seconds",
			Help:    "Time taken to load tables and run one analysis",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"source"},
	)

	m.forecastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restopro_forecasts_total",
			Help: "Total number of forecasts by result status",
		},
		[]string{"status"}, // available, unavailable, failed
	)

	m.inventoryAlerts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "restopro_inventory_alerts",
			Help: "Inventory alerts raised by the latest analysis",
		},
		[]string{"tier"},
	)

	m.summariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restopro_summary_requests_total",
			Help: "Total number of review summary requests",
		},
		[]string{"status"}, // success, failure
	)

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restopro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restopro_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.analysesTotal.Describe(ch)
	m.analysisDuration.Describe(ch)
	m.forecastsTotal.Describe(ch)
	m.inventoryAlerts.Describe(ch)
	m.summariesTotal.Describe(ch)
	m.httpRequestsTotal.Describe(ch)
	m.httpRequestDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.analysesTotal.Collect(ch)
	m.analysisDuration.Collect(ch)
	m.forecastsTotal.Collect(ch)
	m.inventoryAlerts.Collect(ch)
	m.summariesTotal.Collect(ch)
	m.httpRequestsTotal.Collect(ch)
	m.httpRequestDuration.Collect(ch)
}

// RecordAnalysis records one analysis run and its duration
func (m *Metrics) RecordAnalysis(source, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(source, status).Inc()
	m.analysisDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) RecordForecast(status string) {
	if m == nil {
		return
	}
	m.forecastsTotal.WithLabelValues(status).Inc()
}

// SetInventoryAlerts replaces the per-tier alert counts.
func (m *Metrics) SetInventoryAlerts(counts map[string]int) {
	if m == nil {
		return
	}
	m.inventoryAlerts.Reset()
	for tier, n := range counts {
		m.inventoryAlerts.WithLabelValues(tier).Set(float64(n))
	}
}

func (m *Metrics) RecordSummary(status string) {
	if m == nil {
		return
	}
	m.summariesTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
