package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestRecordAnalysis(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordAnalysis("local", "success", 120*time.Millisecond)
	m.RecordAnalysis("local", "success", 80*time.Millisecond)
	m.RecordAnalysis("s3", "error", time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.analysesTotal.WithLabelValues("local", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.analysesTotal.WithLabelValues("s3", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.analysisDuration))
}

func TestSetInventoryAlerts_ReplacesPrevious(t *testing.T) {
	m := newTestMetrics(t)

	m.SetInventoryAlerts(map[string]int{"Critical": 2, "Overstock": 1})
	m.SetInventoryAlerts(map[string]int{"Warning": 3})

	assert.Equal(t, 1, testutil.CollectAndCount(m.inventoryAlerts))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.inventoryAlerts.WithLabelValues("Warning")))
}

func TestRecordForecastAndSummary(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordForecast("available")
	m.RecordForecast("failed")
	m.RecordSummary("failure")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.forecastsTotal.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.summariesTotal.WithLabelValues("failure")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordHTTPRequest("GET", "/health", "200", 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordAnalysis("local", "success", time.Second)
		m.RecordForecast("available")
		m.SetInventoryAlerts(map[string]int{"Critical": 1})
		m.RecordSummary("success")
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}

func TestNew_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New(registry)
	require.NoError(t, err)

	_, err = New(registry)
	assert.Error(t, err)
}
