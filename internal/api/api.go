package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/api/handlers"
	"github.com/AnasB0/Resto-Pro/internal/api/middleware"
	"github.com/AnasB0/Resto-Pro/internal/metrics"
	"github.com/AnasB0/Resto-Pro/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	AnalysisService *service.AnalysisService
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if services != nil && services.Metrics != nil {
		router.Use(middleware.Metrics(services.Metrics))
	}

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	if services.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(services.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	if services.AnalysisService != nil {
		h := handlers.NewAnalysisHandler(services.AnalysisService)
		apiGroup := router.Group("/api/v1")
		{
			analysisGroup := apiGroup.Group("/analysis")
			{
				analysisGroup.GET("/report", h.GetReport)
				analysisGroup.POST("", h.AnalyzeTables)
				analysisGroup.GET("/overview", h.GetOverview)
			}

			apiGroup.GET("/dishes/ranking", h.GetRanking)
			apiGroup.GET("/inventory/alerts", h.GetAlerts)
			apiGroup.GET("/sales/forecast", h.GetForecast)

			reviewsGroup := apiGroup.Group("/reviews")
			{
				reviewsGroup.GET("", h.GetReviews)
				reviewsGroup.POST("/summary", h.SummarizeReviews)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
