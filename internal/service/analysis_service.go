package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/loader"
	"github.com/AnasB0/Resto-Pro/internal/metrics"
	"github.com/AnasB0/Resto-Pro/internal/pipeline"
	"github.com/AnasB0/Resto-Pro/internal/summary"
	"github.com/rs/zerolog/log"
)

const (
	DefaultReviewLimit = 20

	// RequestSource labels analyses of tables posted by a client.
	RequestSource = "request"
)

// ErrNoReviewText is returned when a summary is requested but the review
// table has no text to summarise.
var ErrNoReviewText = errors.New("no review text available")

// ReviewFilter selects reviews for browsing and summaries. An empty Label
// matches every review.
type ReviewFilter struct {
	Label domain.SentimentLabel
	Limit int
}

// AnalysisService loads tables from its source and runs the analysis on
// every call. Nothing derived is kept between calls.
type AnalysisService struct {
	source     loader.Source
	sourceName string
	analyzer   *pipeline.Analyzer
	summarizer summary.Summarizer
	maxReviews int
	metrics    *metrics.Metrics
}

func NewAnalysisService(
	sourceName string,
	source loader.Source,
	analyzer *pipeline.Analyzer,
	summarizer summary.Summarizer,
	maxReviews int,
	m *metrics.Metrics,
) *AnalysisService {
	return &AnalysisService{
		source:     source,
		sourceName: sourceName,
		analyzer:   analyzer,
		summarizer: summarizer,
		maxReviews: maxReviews,
		metrics:    m,
	}
}

func (s *AnalysisService) load(ctx context.Context) (domain.Tables, error) {
	tables, err := s.source.Load(ctx)
	if err != nil {
		return domain.Tables{}, fmt.Errorf("failed to load tables from %s source: %w", s.sourceName, err)
	}
	return tables, nil
}

// Report loads the current tables and runs the full analysis.
func (s *AnalysisService) Report(ctx context.Context, opts pipeline.Options) (domain.Report, error) {
	start := time.Now()

	tables, err := s.load(ctx)
	if err != nil {
		s.metrics.RecordAnalysis(s.sourceName, "error", time.Since(start))
		return domain.Report{}, err
	}

	report := s.analyze(tables, opts, s.sourceName, start)
	return report, nil
}

// AnalyzeTables runs the full analysis on tables supplied by the caller.
func (s *AnalysisService) AnalyzeTables(tables domain.Tables, opts pipeline.Options) domain.Report {
	return s.analyze(tables, opts, RequestSource, time.Now())
}

func (s *AnalysisService) analyze(tables domain.Tables, opts pipeline.Options, source string, start time.Time) domain.Report {
	report := s.analyzer.Analyze(tables, opts)
	elapsed := time.Since(start)

	s.metrics.RecordAnalysis(source, "success", elapsed)
	s.metrics.RecordForecast(report.Forecast.Status)
	s.metrics.SetInventoryAlerts(countTiers(report.Alerts))

	log.Info().
		Str("source", source).
		Int("reviews", len(report.Reviews)).
		Int("dishes", len(report.Ranking)).
		Int("alerts", len(report.Alerts)).
		Str("forecast", report.Forecast.Status).
		Dur("duration", elapsed).
		Msg("analysis completed")

	return report
}

func (s *AnalysisService) Overview(ctx context.Context) (domain.Overview, error) {
	tables, err := s.load(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	return pipeline.BuildOverview(s.analyzer.Enrich(tables), tables.Sales), nil
}

func (s *AnalysisService) Ranking(ctx context.Context) ([]domain.DishPerformance, error) {
	report, err := s.Report(ctx, pipeline.Options{})
	if err != nil {
		return nil, err
	}
	return report.Ranking, nil
}

// Alerts returns flagged inventory items, or every item when all is set.
func (s *AnalysisService) Alerts(ctx context.Context, all bool) ([]domain.InventoryAlert, error) {
	tables, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Alerts(tables, all), nil
}

func (s *AnalysisService) Forecast(ctx context.Context, periods int) (domain.ForecastSummary, error) {
	tables, err := s.load(ctx)
	if err != nil {
		return domain.ForecastSummary{}, err
	}

	result := s.analyzer.Forecast(tables.Sales, periods)
	s.metrics.RecordForecast(result.Status)
	return result, nil
}

// Reviews returns the last filter.Limit enriched reviews matching the label.
func (s *AnalysisService) Reviews(ctx context.Context, filter ReviewFilter) ([]domain.EnrichedReview, error) {
	tables, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultReviewLimit
	}

	matched := filterReviews(s.analyzer.Enrich(tables), filter.Label)
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// Summary asks the summarizer for insights about the first filter.Limit
// reviews matching the label. Summarizer failures come back as the
// failure message, not as an error.
func (s *AnalysisService) Summary(ctx context.Context, filter ReviewFilter) (string, error) {
	tables, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	if !tables.HasText {
		return "", ErrNoReviewText
	}

	matched := filterReviews(s.analyzer.Enrich(tables), filter.Label)
	if len(matched) == 0 {
		return "", ErrNoReviewText
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.maxReviews
	}

	out := s.summarizer.Summarize(ctx, summary.BatchReviewText(matched, limit))
	if summary.IsFailure(out) {
		log.Warn().Str("summary", out).Msg("review summary failed")
		s.metrics.RecordSummary("failure")
	} else {
		s.metrics.RecordSummary("success")
	}
	return out, nil
}

func filterReviews(reviews []domain.EnrichedReview, label domain.SentimentLabel) []domain.EnrichedReview {
	if label == "" {
		return reviews
	}
	out := make([]domain.EnrichedReview, 0, len(reviews))
	for _, r := range reviews {
		if r.SentimentLabel == label {
			out = append(out, r)
		}
	}
	return out
}

func countTiers(alerts []domain.InventoryAlert) map[string]int {
	counts := map[string]int{
		string(domain.TierCritical):  0,
		string(domain.TierWarning):   0,
		string(domain.TierOverstock): 0,
	}
	for _, a := range alerts {
		if a.Tier != domain.TierNone {
			counts[string(a.Tier)]++
		}
	}
	return counts
}
