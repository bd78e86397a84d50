package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/api"
	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/service"
	"github.com/AnasB0/Resto-Pro/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.SetLevel(cfg.Log.Level)
	log := logger.Component("server")
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	m, err := service.NewMetrics(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	analysisService, closeSource, err := service.Build(context.Background(), cfg, cfg.App.Source, m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize analysis service")
	}
	defer func() {
		if err := closeSource(); err != nil {
			log.Error().Err(err).Msg("Failed to close table source")
		}
	}()

	router := api.NewRouter(&api.Services{
		AnalysisService: analysisService,
		Metrics:         m,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("source", cfg.App.Source).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
