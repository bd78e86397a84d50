package ranking

import (
	"sort"

	"github.com/AnasB0/Resto-Pro/internal/domain"
)

const (
	sentimentWeight  = 0.4
	popularityWeight = 0.3
	salesWeight      = 0.3
)

type dishStats struct {
	name         string
	sentimentSum float64
	reviews      int
	positive     int
	qty          int
	priceSum     float64
	priceRows    int
}

// Rank scores every dish by sentiment, popularity and sales and returns the
// rows ordered by overall score, highest first. Dishes with equal scores are
// ordered by name.
func Rank(reviews []domain.EnrichedReview, sales []domain.SaleRecord) []domain.DishPerformance {
	if len(reviews) == 0 {
		return []domain.DishPerformance{}
	}

	stats := make(map[string]*dishStats)
	get := func(name string) *dishStats {
		key := domain.ItemKey(name)
		s, ok := stats[key]
		if !ok {
			s = &dishStats{name: name}
			stats[key] = s
		}
		return s
	}

	for _, r := range reviews {
		s := get(r.Dish)
		s.sentimentSum += r.Sentiment
		s.reviews++
		if r.SentimentLabel == domain.SentimentPositive {
			s.positive++
		}
	}

	for _, sale := range sales {
		s := get(sale.Item)
		s.qty += sale.Quantity
		s.priceSum += sale.UnitPrice
		s.priceRows++
	}

	rows := make([]domain.DishPerformance, 0, len(stats))
	var maxReviews, maxQty int
	for _, s := range stats {
		row := domain.DishPerformance{
			Dish:          s.name,
			ReviewCount:   s.reviews,
			PositiveCount: s.positive,
			TotalQtySold:  s.qty,
		}
		if s.reviews > 0 {
			row.AvgSentiment = roundFloat(s.sentimentSum/float64(s.reviews), 3)
		}
		if s.priceRows > 0 {
			row.AvgPrice = roundFloat(s.priceSum/float64(s.priceRows), 2)
		}

		if s.reviews > maxReviews {
			maxReviews = s.reviews
		}
		if s.qty > maxQty {
			maxQty = s.qty
		}
		rows = append(rows, row)
	}

	for i := range rows {
		row := &rows[i]
		row.SentimentScore = (row.AvgSentiment + 1) / 2 * 100
		row.PopularityScore = normalise(row.ReviewCount, maxReviews)
		row.SalesScore = normalise(row.TotalQtySold, maxQty)
		row.OverallScore = OverallScore(row.SentimentScore, row.PopularityScore, row.SalesScore)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OverallScore != rows[j].OverallScore {
			return rows[i].OverallScore > rows[j].OverallScore
		}
		return rows[i].Dish < rows[j].Dish
	})

	return rows
}

// OverallScore combines the three component scores into one value rounded
// to one decimal.
func OverallScore(sentiment, popularity, sales float64) float64 {
	return roundFloat(sentimentWeight*sentiment+popularityWeight*popularity+salesWeight*sales, 1)
}

func normalise(v, peak int) float64 {
	if peak <= 0 {
		return 0
	}
	return float64(v) / float64(peak) * 100
}
