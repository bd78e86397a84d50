package domain

import "time"

// UnknownDish is the dish assigned when no vocabulary keyword is found.
const UnknownDish = "Unknown"

// Review is a raw customer review row.
type Review struct {
	Text   string     `json:"text" db:"text"`
	Rating *float64   `json:"rating,omitempty" db:"rating"`
	Date   *time.Time `json:"date,omitempty" db:"date"`
}

// EnrichedReview is a review with its derived dish and sentiment fields.
type EnrichedReview struct {
	Review
	Dish           string         `json:"dish"`
	Sentiment      float64        `json:"sentiment"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
}

// SaleRecord is one POS line.
type SaleRecord struct {
	Item      string    `json:"item" db:"item"`
	Quantity  int       `json:"qty" db:"qty"`
	UnitPrice float64   `json:"price" db:"price"`
	Date      time.Time `json:"date" db:"date"`
}

// InventoryItem is the on-hand stock for one item.
type InventoryItem struct {
	Item           string  `json:"item" db:"item"`
	QuantityOnHand float64 `json:"qty_on_hand" db:"qty_on_hand"`
}

// Tables holds the three input tables of one analysis.
// HasText is false when the review table had no usable text column.
type Tables struct {
	Reviews   []Review        `json:"reviews"`
	HasText   bool            `json:"has_text"`
	Sales     []SaleRecord    `json:"sales"`
	Inventory []InventoryItem `json:"inventory"`
}

// DishPerformance is one row of the dish ranking.
type DishPerformance struct {
	Dish            string  `json:"dish"`
	AvgSentiment    float64 `json:"avg_sentiment"`
	ReviewCount     int     `json:"review_count"`
	PositiveCount   int     `json:"positive_count"`
	TotalQtySold    int     `json:"total_qty_sold"`
	AvgPrice        float64 `json:"avg_price"`
	SentimentScore  float64 `json:"sentiment_score"`
	PopularityScore float64 `json:"popularity_score"`
	SalesScore      float64 `json:"sales_score"`
	OverallScore    float64 `json:"overall_score"`
}

// InventoryAlert describes the stock cover of one inventory item.
type InventoryAlert struct {
	Item           string    `json:"item"`
	Tier           AlertTier `json:"tier"`
	DaysRemaining  float64   `json:"days_remaining"`
	QuantityOnHand float64   `json:"qty_on_hand"`
	AvgDailySales  float64   `json:"avg_daily_sales"`
	Message        string    `json:"message,omitempty"`
}

// ForecastPoint is one predicted day.
type ForecastPoint struct {
	Date              time.Time `json:"date"`
	PredictedQuantity float64   `json:"predicted_qty"`
}

// DishMention counts how often a dish was mentioned in reviews.
type DishMention struct {
	Dish  string `json:"dish"`
	Count int    `json:"count"`
}

// Overview holds the headline numbers of an analysis.
type Overview struct {
	TotalReviews     int                    `json:"total_reviews"`
	AvgSentiment     float64                `json:"avg_sentiment"`
	Mood             string                 `json:"mood"`
	PositivePct      float64                `json:"positive_pct"`
	AvgStarRating    float64                `json:"avg_star_rating"`
	AvgCustomerScore *float64               `json:"avg_customer_rating,omitempty"`
	ItemsSold        int                    `json:"items_sold"`
	Distribution     map[SentimentLabel]int `json:"sentiment_distribution"`
	TopDishes        []DishMention          `json:"top_dishes"`
}

// ForecastSummary is the forecast branch of a report.
type ForecastSummary struct {
	Status      string          `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	History     []ForecastPoint `json:"history"`
	Points      []ForecastPoint `json:"points,omitempty"`
	HistoryAvg  float64         `json:"history_avg"`
	ForecastAvg float64         `json:"forecast_avg"`
	Trend       string          `json:"trend,omitempty"`
	ChangePct   int             `json:"change_pct"`
	HorizonDays int             `json:"horizon_days"`
}

// Report is the full derived output of one analysis.
type Report struct {
	Overview Overview          `json:"overview"`
	Reviews  []EnrichedReview  `json:"reviews"`
	Ranking  []DishPerformance `json:"ranking"`
	Alerts   []InventoryAlert  `json:"alerts"`
	Forecast ForecastSummary   `json:"forecast"`
}
