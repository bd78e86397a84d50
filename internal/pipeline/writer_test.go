package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestReportWriter_Write(t *testing.T) {
	stub := &stubForecaster{result: forecast.Available([]float64{2.5, 3})}
	report := newTestAnalyzer(t, stub).Analyze(fixtureTables(), Options{Periods: 2})
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, NewReportWriter(dir).Write(report))

	ranking := readCSV(t, filepath.Join(dir, RankingFile))
	assert.Equal(t, rankingHeaders, ranking[0])
	assert.Len(t, ranking, len(report.Ranking)+1)
	assert.Equal(t, "pizza", ranking[1][0])

	alerts := readCSV(t, filepath.Join(dir, AlertsFile))
	require.Len(t, alerts, 3)
	assert.Equal(t, []string{"Pizza", "Critical", "1", "5", "5",
		"LOW STOCK: Pizza has only 1.0 days of stock remaining"}, alerts[1])

	fc := readCSV(t, filepath.Join(dir, ForecastFile))
	assert.Equal(t, [][]string{
		{"date", "predicted_qty"},
		{"2024-01-05", "2.5"},
		{"2024-01-06", "3"},
	}, fc)

	reviews := readCSV(t, filepath.Join(dir, ReviewsFile))
	require.Len(t, reviews, 5)
	assert.Equal(t, []string{"great pizza", "4", "", "pizza", "0.8", "Positive"}, reviews[3])

	data, err := os.ReadFile(filepath.Join(dir, ReportFile))
	require.NoError(t, err)
	var decoded domain.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Overview.TotalReviews, decoded.Overview.TotalReviews)
	assert.Equal(t, report.Forecast.Points, decoded.Forecast.Points)
}

func TestReportWriter_EmptyReport(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewReportWriter(dir).Write(domain.Report{}))

	for _, name := range []string{RankingFile, AlertsFile, ForecastFile, ReviewsFile} {
		records := readCSV(t, filepath.Join(dir, name))
		assert.Len(t, records, 1, name)
	}
	assert.FileExists(t, filepath.Join(dir, ReportFile))
}
