package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/pipeline"
	"github.com/AnasB0/Resto-Pro/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxForecastPeriods = 365

type AnalysisHandler struct {
	service *service.AnalysisService
}

func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

type alertResponse struct {
	domain.InventoryAlert
	Severity string `json:"severity,omitempty"`
}

type summaryRequest struct {
	Sentiment string `json:"sentiment"`
	Limit     int    `json:"limit"`
}

func errorResponse(c *gin.Context, statusCode int, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(statusCode, body)
}

// parsePeriods reads the optional periods query parameter. Zero means the
// configured default.
func parsePeriods(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("periods"))
	if raw == "" {
		return 0, true
	}
	periods, err := strconv.Atoi(raw)
	if err != nil || periods < 1 || periods > maxForecastPeriods {
		errorResponse(c, http.StatusBadRequest, "periods must be an integer between 1 and 365", nil)
		return 0, false
	}
	return periods, true
}

func parseSentiment(c *gin.Context, raw string) (domain.SentimentLabel, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", true
	}
	label, ok := domain.ParseSentimentLabel(raw)
	if !ok {
		errorResponse(c, http.StatusBadRequest, "invalid sentiment value", nil)
		return "", false
	}
	return label, true
}

func (h *AnalysisHandler) GetReport(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	report, err := h.service.Report(c.Request.Context(), pipeline.Options{Periods: periods})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to run analysis", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeTables analyses the tables in the request body without touching
// the configured source.
func (h *AnalysisHandler) AnalyzeTables(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	var req analyzeTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid tables payload", err)
		return
	}

	c.JSON(http.StatusOK, h.service.AnalyzeTables(req.tables(), pipeline.Options{Periods: periods}))
}

// analyzeTablesRequest mirrors domain.Tables with an optional has_text.
type analyzeTablesRequest struct {
	Reviews   []domain.Review        `json:"reviews"`
	HasText   *bool                  `json:"has_text"`
	Sales     []domain.SaleRecord    `json:"sales"`
	Inventory []domain.InventoryItem `json:"inventory"`
}

// tables infers has_text from the reviews when the client left it out.
func (r analyzeTablesRequest) tables() domain.Tables {
	hasText := false
	if r.HasText != nil {
		hasText = *r.HasText
	} else {
		for _, rv := range r.Reviews {
			if strings.TrimSpace(rv.Text) != "" {
				hasText = true
				break
			}
		}
	}

	return domain.Tables{
		Reviews:   r.Reviews,
		HasText:   hasText,
		Sales:     r.Sales,
		Inventory: r.Inventory,
	}
}

func (h *AnalysisHandler) GetOverview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AnalysisHandler) GetRanking(c *gin.Context) {
	ranking, err := h.service.Ranking(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch dish ranking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ranking, "total": len(ranking)})
}

func (h *AnalysisHandler) GetAlerts(c *gin.Context) {
	all, err := strconv.ParseBool(c.DefaultQuery("all", "false"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid all value", nil)
		return
	}

	alerts, err := h.service.Alerts(c.Request.Context(), all)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch inventory alerts", err)
		return
	}

	data := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		data = append(data, alertResponse{InventoryAlert: a, Severity: a.Tier.Severity()})
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": len(data)})
}

func (h *AnalysisHandler) GetForecast(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	forecast, err := h.service.Forecast(c.Request.Context(), periods)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to forecast sales", err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

func (h *AnalysisHandler) GetReviews(c *gin.Context) {
	label, ok := parseSentiment(c, c.Query("sentiment"))
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultReviewLimit)))
	if err != nil || limit < 1 {
		errorResponse(c, http.StatusBadRequest, "limit must be a positive integer", nil)
		return
	}

	reviews, err := h.service.Reviews(c.Request.Context(), service.ReviewFilter{Label: label, Limit: limit})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch reviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews, "total": len(reviews)})
}

// SummarizeReviews returns the summary text. A failed summary is still a
// 200 response whose text carries the failure.
func (h *AnalysisHandler) SummarizeReviews(c *gin.Context) {
	var req summaryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid summary request", err)
			return
		}
	}
	if req.Limit < 0 {
		errorResponse(c, http.StatusBadRequest, "limit must not be negative", nil)
		return
	}

	label, ok := parseSentiment(c, req.Sentiment)
	if !ok {
		return
	}

	text, err := h.service.Summary(c.Request.Context(), service.ReviewFilter{Label: label, Limit: req.Limit})
	if errors.Is(err, service.ErrNoReviewText) {
		errorResponse(c, http.StatusUnprocessableEntity, "no review text to summarize", nil)
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to summarize reviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": text})
}
