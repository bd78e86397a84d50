package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/forecast"
	"github.com/AnasB0/Resto-Pro/internal/loader"
	"github.com/AnasB0/Resto-Pro/internal/metrics"
	"github.com/AnasB0/Resto-Pro/internal/pipeline"
	"github.com/AnasB0/Resto-Pro/internal/textfeature"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSummarizer struct {
	reply string
	texts []string
}

func (r *recordingSummarizer) Summarize(_ context.Context, text string) string {
	r.texts = append(r.texts, text)
	return r.reply
}

type failingSource struct{}

func (failingSource) Load(context.Context) (domain.Tables, error) {
	return domain.Tables{}, errors.New("bucket not found")
}

func testTables() domain.Tables {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return domain.Tables{
		HasText: true,
		Reviews: []domain.Review{
			{Text: "great pizza"},
			{Text: "terrible burger"},
			{Text: "delicious pasta"},
			{Text: "awful soup"},
			{Text: "good curry"},
		},
		Sales: []domain.SaleRecord{
			{Item: "Pizza", Quantity: 4, UnitPrice: 12, Date: day(1)},
			{Item: "Pasta", Quantity: 2, UnitPrice: 9, Date: day(2)},
			{Item: "Pizza", Quantity: 3, UnitPrice: 12, Date: day(3)},
			{Item: "Curry", Quantity: 5, UnitPrice: 11, Date: day(4)},
		},
		Inventory: []domain.InventoryItem{
			{Item: "Pizza", QuantityOnHand: 7},
			{Item: "Curry", QuantityOnHand: 400},
		},
	}
}

func newTestService(t *testing.T, src loader.Source, s *recordingSummarizer) (*AnalysisService, *metrics.Metrics) {
	t.Helper()
	extractor, err := textfeature.NewExtractor(config.Capabilities{})
	require.NoError(t, err)
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	analyzer := pipeline.NewAnalyzer(extractor, forecast.NewARIMA(), 14)
	return NewAnalysisService("local", src, analyzer, s, 50, m), m
}

func TestAnalysisService_Report(t *testing.T) {
	svc, m := newTestService(t, loader.NewStaticSource(testTables()), &recordingSummarizer{})

	report, err := svc.Report(context.Background(), pipeline.Options{Periods: 3})
	require.NoError(t, err)

	assert.Len(t, report.Reviews, 5)
	assert.Equal(t, 5, report.Overview.TotalReviews)
	assert.NotEmpty(t, report.Ranking)
	require.Len(t, report.Alerts, 2)
	assert.Equal(t, domain.TierCritical, report.Alerts[0].Tier)
	assert.Equal(t, domain.TierOverstock, report.Alerts[1].Tier)
	assert.Equal(t, 3, report.Forecast.HorizonDays)

	body := `
# HELP restopro_analyses_total Total number of analyses run
# TYPE restopro_analyses_total counter
restopro_analyses_total{source="local",status="success"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(body), "restopro_analyses_total"))
}

func TestAnalysisService_SourceError(t *testing.T) {
	svc, m := newTestService(t, failingSource{}, &recordingSummarizer{})

	_, err := svc.Report(context.Background(), pipeline.Options{})
	assert.ErrorContains(t, err, "bucket not found")
	assert.ErrorContains(t, err, "local source")

	_, err = svc.Reviews(context.Background(), ReviewFilter{})
	assert.Error(t, err)

	body := `
# HELP restopro_analyses_total Total number of analyses run
# TYPE restopro_analyses_total counter
restopro_analyses_total{source="local",status="error"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(body), "restopro_analyses_total"))
}

func TestAnalysisService_AnalyzeTables(t *testing.T) {
	svc, _ := newTestService(t, failingSource{}, &recordingSummarizer{})

	report := svc.AnalyzeTables(testTables(), pipeline.Options{})
	assert.Len(t, report.Reviews, 5)
	assert.Equal(t, 14, report.Forecast.HorizonDays)
}

func TestAnalysisService_Reviews(t *testing.T) {
	svc, _ := newTestService(t, loader.NewStaticSource(testTables()), &recordingSummarizer{})

	tests := []struct {
		name   string
		filter ReviewFilter
		want   []string
	}{
		{"default limit", ReviewFilter{}, []string{"great pizza", "terrible burger", "delicious pasta", "awful soup", "good curry"}},
		{"last two", ReviewFilter{Limit: 2}, []string{"awful soup", "good curry"}},
		{"negative", ReviewFilter{Label: domain.SentimentNegative}, []string{"terrible burger", "awful soup"}},
		{"last positive", ReviewFilter{Label: domain.SentimentPositive, Limit: 1}, []string{"good curry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews, err := svc.Reviews(context.Background(), tt.filter)
			require.NoError(t, err)

			var texts []string
			for _, r := range reviews {
				texts = append(texts, r.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestAnalysisService_Summary(t *testing.T) {
	s := &recordingSummarizer{reply: "Customers love the pizza."}
	svc, m := newTestService(t, loader.NewStaticSource(testTables()), s)

	out, err := svc.Summary(context.Background(), ReviewFilter{Label: domain.SentimentPositive, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, "Customers love the pizza.", out)
	assert.Equal(t, []string{"great pizza\ndelicious pasta"}, s.texts)

	body := `
# HELP restopro_summary_requests_total Total number of review summary requests
# TYPE restopro_summary_requests_total counter
restopro_summary_requests_total{status="success"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(body), "restopro_summary_requests_total"))
}

func TestAnalysisService_SummaryFailureIsNotAnError(t *testing.T) {
	s := &recordingSummarizer{reply: "LLM summary failed: status 401"}
	svc, _ := newTestService(t, loader.NewStaticSource(testTables()), s)

	out, err := svc.Summary(context.Background(), ReviewFilter{})
	require.NoError(t, err)
	assert.Equal(t, "LLM summary failed: status 401", out)
}

func TestAnalysisService_SummaryWithoutText(t *testing.T) {
	tables := testTables()
	tables.HasText = false
	s := &recordingSummarizer{}
	svc, _ := newTestService(t, loader.NewStaticSource(tables), s)

	_, err := svc.Summary(context.Background(), ReviewFilter{})
	assert.ErrorIs(t, err, ErrNoReviewText)
	assert.Empty(t, s.texts)
}

func TestAnalysisService_AlertsAndForecast(t *testing.T) {
	svc, _ := newTestService(t, loader.NewStaticSource(testTables()), &recordingSummarizer{})

	all, err := svc.Alerts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	summary, err := svc.Forecast(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.HorizonDays)
	assert.Len(t, summary.History, 4)
	if summary.Status == string(forecast.StatusAvailable) {
		assert.Len(t, summary.Points, 5)
	}
}
