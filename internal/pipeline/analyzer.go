package pipeline

import (
	"math"
	"sort"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/forecast"
	"github.com/AnasB0/Resto-Pro/internal/inventory"
	"github.com/AnasB0/Resto-Pro/internal/ranking"
	"github.com/AnasB0/Resto-Pro/internal/textfeature"
)

const (
	MoodHappy   = "happy"
	MoodNeutral = "neutral"
	MoodUnhappy = "unhappy"

	topDishLimit = 10
)

// Analyzer runs every analysis branch over one set of input tables.
// It holds no per-analysis state, so one Analyzer may serve concurrent calls.
type Analyzer struct {
	extractor  *textfeature.Extractor
	engine     *inventory.Engine
	forecaster forecast.Forecaster
	periods    int
}

func NewAnalyzer(extractor *textfeature.Extractor, forecaster forecast.Forecaster, defaultPeriods int) *Analyzer {
	return &Analyzer{
		extractor:  extractor,
		engine:     inventory.NewEngine(),
		forecaster: forecaster,
		periods:    defaultPeriods,
	}
}

// Analyze derives the full report from tables. The result depends only on
// its arguments.
func (a *Analyzer) Analyze(tables domain.Tables, opts Options) domain.Report {
	reviews := a.Enrich(tables)

	return domain.Report{
		Overview: BuildOverview(reviews, tables.Sales),
		Reviews:  reviews,
		Ranking:  ranking.Rank(reviews, tables.Sales),
		Alerts:   a.Alerts(tables, false),
		Forecast: a.Forecast(tables.Sales, opts.Periods),
	}
}

func (a *Analyzer) Enrich(tables domain.Tables) []domain.EnrichedReview {
	return a.extractor.Enrich(tables)
}

// Alerts returns the flagged inventory items, or every item when all is set.
func (a *Analyzer) Alerts(tables domain.Tables, all bool) []domain.InventoryAlert {
	if all {
		return a.engine.Assess(tables.Inventory, tables.Sales)
	}
	return a.engine.Alerts(tables.Inventory, tables.Sales)
}

// Forecast predicts daily sold quantity for the given number of days.
func (a *Analyzer) Forecast(sales []domain.SaleRecord, periods int) domain.ForecastSummary {
	if periods == 0 {
		periods = a.periods
	}

	dates, values := forecast.DailySeries(sales)
	summary := domain.ForecastSummary{
		History:     make([]domain.ForecastPoint, len(dates)),
		HorizonDays: periods,
	}
	for i, d := range dates {
		summary.History[i] = domain.ForecastPoint{Date: d, PredictedQuantity: values[i]}
	}

	result := a.forecaster.Forecast(values, periods)
	summary.Status = string(result.Status)
	summary.Reason = result.Reason
	if !result.OK() {
		return summary
	}

	stats := forecast.Summarize(values, result.Values)
	summary.Points = forecast.Points(dates[len(dates)-1], result.Values)
	summary.HistoryAvg = round(stats.HistoryAvg, 2)
	summary.ForecastAvg = round(stats.ForecastAvg, 2)
	summary.Trend = stats.Trend
	summary.ChangePct = stats.ChangePct
	return summary
}

// BuildOverview computes the headline numbers of an analysis.
func BuildOverview(reviews []domain.EnrichedReview, sales []domain.SaleRecord) domain.Overview {
	overview := domain.Overview{
		TotalReviews: len(reviews),
		Distribution: map[domain.SentimentLabel]int{
			domain.SentimentPositive: 0,
			domain.SentimentNeutral:  0,
			domain.SentimentNegative: 0,
		},
		TopDishes: topDishes(reviews),
	}

	for _, s := range sales {
		overview.ItemsSold += s.Quantity
	}

	var sentimentSum, ratingSum float64
	var rated int
	for _, r := range reviews {
		sentimentSum += r.Sentiment
		overview.Distribution[r.SentimentLabel]++
		if r.Rating != nil {
			ratingSum += *r.Rating
			rated++
		}
	}

	avg := 0.0
	if len(reviews) > 0 {
		avg = sentimentSum / float64(len(reviews))
		overview.PositivePct = round(float64(overview.Distribution[domain.SentimentPositive])/float64(len(reviews))*100, 1)
	}
	overview.AvgSentiment = round(avg, 3)
	overview.AvgStarRating = round(avg*5, 2)
	overview.Mood = mood(avg)

	if rated > 0 {
		rating := round(ratingSum/float64(rated), 2)
		overview.AvgCustomerScore = &rating
	}

	return overview
}

func mood(avg float64) string {
	switch {
	case avg > 0.3:
		return MoodHappy
	case avg > -0.3:
		return MoodNeutral
	default:
		return MoodUnhappy
	}
}

func topDishes(reviews []domain.EnrichedReview) []domain.DishMention {
	counts := make(map[string]int)
	for _, r := range reviews {
		counts[r.Dish]++
	}

	mentions := make([]domain.DishMention, 0, len(counts))
	for dish, n := range counts {
		mentions = append(mentions, domain.DishMention{Dish: dish, Count: n})
	}
	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].Count != mentions[j].Count {
			return mentions[i].Count > mentions[j].Count
		}
		return mentions[i].Dish < mentions[j].Dish
	})

	if len(mentions) > topDishLimit {
		mentions = mentions[:topDishLimit]
	}
	return mentions
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
