package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	RankingFile  = "ranking.csv"
	AlertsFile   = "alerts.csv"
	ForecastFile = "forecast.csv"
	ReviewsFile  = "reviews.csv"
	ReportFile   = "report.json"

	dateLayout = "2006-01-02"
)

// ReportWriter exports a report as CSV tables plus the full JSON document.
type ReportWriter struct {
	outputDir string
}

func NewReportWriter(outputDir string) *ReportWriter {
	return &ReportWriter{outputDir: outputDir}
}

// Write creates the output directory and writes every export file into it.
func (w *ReportWriter) Write(report domain.Report) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tables := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{RankingFile, rankingHeaders, rankingRows(report.Ranking)},
		{AlertsFile, alertHeaders, alertRows(report.Alerts)},
		{ForecastFile, forecastHeaders, forecastRows(report.Forecast)},
		{ReviewsFile, reviewHeaders, reviewRows(report.Reviews)},
	}
	for _, t := range tables {
		path := filepath.Join(w.outputDir, t.name)
		if err := writeCSV(path, t.headers, t.rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.name, err)
		}
		log.Debug().Str("path", path).Int("rows", len(t.rows)).Msg("wrote report table")
	}

	if err := w.writeJSON(report); err != nil {
		return fmt.Errorf("failed to write %s: %w", ReportFile, err)
	}

	log.Info().Str("dir", w.outputDir).Msg("report written")
	return nil
}

func (w *ReportWriter) writeJSON(report domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.outputDir, ReportFile), data, 0644)
}

// writeCSV writes rows to a CSV file under the given header.
func writeCSV(path string, headers []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

var (
	rankingHeaders = []string{
		"dish", "avg_sentiment", "review_count", "positive_count", "total_qty_sold",
		"avg_price", "sentiment_score", "popularity_score", "sales_score", "overall_score",
	}
	alertHeaders    = []string{"item", "tier", "days_remaining", "qty_on_hand", "avg_daily_sales", "message"}
	forecastHeaders = []string{"date", "predicted_qty"}
	reviewHeaders   = []string{"text", "rating", "date", "dish", "sentiment", "sentiment_label"}
)

func rankingRows(ranking []domain.DishPerformance) [][]string {
	rows := make([][]string, 0, len(ranking))
	for _, p := range ranking {
		rows = append(rows, []string{
			p.Dish,
			formatFloat(p.AvgSentiment),
			strconv.Itoa(p.ReviewCount),
			strconv.Itoa(p.PositiveCount),
			strconv.Itoa(p.TotalQtySold),
			formatFloat(p.AvgPrice),
			formatFloat(p.SentimentScore),
			formatFloat(p.PopularityScore),
			formatFloat(p.SalesScore),
			formatFloat(p.OverallScore),
		})
	}
	return rows
}

func alertRows(alerts []domain.InventoryAlert) [][]string {
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.Item,
			string(a.Tier),
			formatFloat(a.DaysRemaining),
			formatFloat(a.QuantityOnHand),
			formatFloat(a.AvgDailySales),
			a.Message,
		})
	}
	return rows
}

func forecastRows(summary domain.ForecastSummary) [][]string {
	rows := make([][]string, 0, len(summary.Points))
	for _, p := range summary.Points {
		rows = append(rows, []string{p.Date.Format(dateLayout), formatFloat(p.PredictedQuantity)})
	}
	return rows
}

func reviewRows(reviews []domain.EnrichedReview) [][]string {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		var rating, date string
		if r.Rating != nil {
			rating = formatFloat(*r.Rating)
		}
		if r.Date != nil {
			date = r.Date.Format(dateLayout)
		}
		rows = append(rows, []string{
			r.Text,
			rating,
			date,
			r.Dish,
			formatFloat(r.Sentiment),
			string(r.SentimentLabel),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
