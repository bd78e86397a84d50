package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnasB0/Resto-Pro/internal/cache"
	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/forecast"
	"github.com/AnasB0/Resto-Pro/internal/loader"
	"github.com/AnasB0/Resto-Pro/internal/metrics"
	"github.com/AnasB0/Resto-Pro/internal/pipeline"
	"github.com/AnasB0/Resto-Pro/internal/summary"
	"github.com/AnasB0/Resto-Pro/internal/textfeature"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewAnalyzer resolves the optional capabilities once and builds the
// analyzer shared by every analysis.
func NewAnalyzer(cfg *config.Config) (*pipeline.Analyzer, error) {
	extractor, err := textfeature.NewExtractor(cfg.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to load text feature lexicons: %w", err)
	}
	return pipeline.NewAnalyzer(extractor, forecast.NewForecaster(cfg.Capabilities), cfg.Forecast.Periods), nil
}

// NewSummarizer builds the summary client, cached when the summary cache is
// enabled. The caller closes the returned cache.
func NewSummarizer(ctx context.Context, cfg *config.Config) (summary.Summarizer, cache.SummaryCache, error) {
	summaryCache, err := cache.NewSummaryCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init summary cache: %w", err)
	}
	client := summary.NewClient(cfg.Summary)
	return summary.NewCachedSummarizer(client, summaryCache, cfg.Summary.Model), summaryCache, nil
}

// NewMetrics returns nil when metrics are disabled.
func NewMetrics(cfg *config.Config) (*metrics.Metrics, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return metrics.New(registry)
}

// Build wires an AnalysisService for the given source kind. The returned
// close function releases the source connection and the summary cache.
func Build(ctx context.Context, cfg *config.Config, sourceKind string, m *metrics.Metrics) (*AnalysisService, func() error, error) {
	if sourceKind == "" {
		sourceKind = cfg.App.Source
	}

	analyzer, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, nil, err
	}

	summarizer, summaryCache, err := NewSummarizer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	source, closeSource, err := loader.NewSource(ctx, sourceKind, cfg)
	if err != nil {
		_ = summaryCache.Close()
		return nil, nil, fmt.Errorf("failed to init %s source: %w", sourceKind, err)
	}

	closeFn := func() error {
		return errors.Join(closeSource(), summaryCache.Close())
	}
	return NewAnalysisService(sourceKind, source, analyzer, summarizer, cfg.Summary.MaxReviews, m), closeFn, nil
}
