package forecast

import (
	"sort"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/domain"
)

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Stats compares the forecast against the history it was fitted on.
type Stats struct {
	HistoryAvg  float64
	ForecastAvg float64
	Trend       string
	ChangePct   int
}

// DailySeries sums sold quantity per calendar day (UTC) in date order.
// Records without a date are ignored.
func DailySeries(sales []domain.SaleRecord) ([]time.Time, []float64) {
	totals := make(map[time.Time]float64)
	for _, s := range sales {
		if s.Date.IsZero() {
			continue
		}
		day := truncateDay(s.Date)
		totals[day] += float64(s.Quantity)
	}

	dates := make([]time.Time, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = totals[d]
	}
	return dates, values
}

// Points dates forecast values on the days following last.
func Points(last time.Time, values []float64) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, len(values))
	for i, v := range values {
		points[i] = domain.ForecastPoint{
			Date:              truncateDay(last).AddDate(0, 0, i+1),
			PredictedQuantity: v,
		}
	}
	return points
}

func Summarize(history, forecast []float64) Stats {
	stats := Stats{
		HistoryAvg:  mean(history),
		ForecastAvg: mean(forecast),
	}

	switch {
	case stats.ForecastAvg > stats.HistoryAvg:
		stats.Trend = TrendUp
	case stats.ForecastAvg < stats.HistoryAvg:
		stats.Trend = TrendDown
	default:
		stats.Trend = TrendStable
	}

	base := stats.HistoryAvg
	if base < 1 {
		base = 1
	}
	stats.ChangePct = int((stats.ForecastAvg - stats.HistoryAvg) / base * 100)

	return stats
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
