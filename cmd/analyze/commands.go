package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/forecast"
	"github.com/AnasB0/Resto-Pro/internal/loader"
	"github.com/AnasB0/Resto-Pro/internal/pipeline"
	"github.com/AnasB0/Resto-Pro/internal/repository/postgres"
	"github.com/AnasB0/Resto-Pro/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runAnalyze(c *cli.Context) error {
	cfg := loadConfig(c)
	outputDir := c.String("output-dir")
	if outputDir == "" {
		outputDir = cfg.App.OutputDir
	}

	svc, closeSource, err := service.Build(c.Context, cfg, cfg.App.Source, nil)
	if err != nil {
		return err
	}
	defer closeSource()

	report, err := svc.Report(c.Context, pipeline.Options{Periods: c.Int("periods")})
	if err != nil {
		return err
	}

	if err := pipeline.NewReportWriter(outputDir).Write(report); err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

func runBatch(c *cli.Context) error {
	cfg := loadConfig(c)

	analyzer, err := service.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	batch := pipeline.DefaultBatchConfig(c.String("root"))
	batch.OutputDir = c.String("output-dir")
	batch.WorkerCount = c.Int("workers")
	batch.Periods = c.Int("periods")

	results, err := pipeline.NewWorker(analyzer, batch).Run(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SNAPSHOT\tSTATUS\tREVIEWS\tALERTS\tDURATION\tERROR")
	var failed int
	for _, r := range results {
		if r.Status == pipeline.StatusFailed {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Name, r.Status, r.Reviews, r.Alerts, r.Duration.Round(time.Millisecond), r.ErrorMessage)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d snapshots failed", failed, len(results))
	}
	return nil
}

func runSummarize(c *cli.Context) error {
	cfg := loadConfig(c)

	var label domain.SentimentLabel
	if raw := c.String("sentiment"); raw != "" {
		parsed, ok := domain.ParseSentimentLabel(raw)
		if !ok {
			return fmt.Errorf("invalid sentiment %q", raw)
		}
		label = parsed
	}

	svc, closeSource, err := service.Build(c.Context, cfg, cfg.App.Source, nil)
	if err != nil {
		return err
	}
	defer closeSource()

	text, err := svc.Summary(c.Context, service.ReviewFilter{Label: label, Limit: c.Int("limit")})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, text)
	return nil
}

func runSeed(c *cli.Context) error {
	cfg := loadConfig(c)

	tables, err := loader.NewDirSource(cfg.App.DataDir).Load(c.Context)
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	defer cancel()

	if err := postgres.NewTablesRepository(db).ReplaceTables(ctx, tables); err != nil {
		return fmt.Errorf("failed to seed input tables: %w", err)
	}

	log.Info().Str("data_dir", cfg.App.DataDir).Msg("seed completed")
	return nil
}

func runClearCache(c *cli.Context) error {
	cfg := loadConfig(c)
	if !cfg.Cache.Enabled {
		log.Warn().Msg("summary cache is disabled, nothing to clear")
		return nil
	}

	_, summaryCache, err := service.NewSummarizer(c.Context, cfg)
	if err != nil {
		return err
	}
	defer summaryCache.Close()

	if err := summaryCache.InvalidateAll(c.Context); err != nil {
		return fmt.Errorf("failed to clear summary cache: %w", err)
	}

	log.Info().Msg("summary cache cleared")
	return nil
}

func printReport(out io.Writer, report domain.Report) {
	ov := report.Overview
	fmt.Fprintf(out, "Reviews: %d  Sentiment: %.2f (%s)  Positive: %.0f%%  Items sold: %d\n",
		ov.TotalReviews, ov.AvgSentiment, ov.Mood, ov.PositivePct, ov.ItemsSold)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nDISH\tSCORE\tREVIEWS\tSOLD")
	for _, p := range report.Ranking {
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%d\n", p.Dish, p.OverallScore, p.ReviewCount, p.TotalQtySold)
	}
	w.Flush()

	for _, a := range report.Alerts {
		fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(a.Tier.Severity()), a.Message)
	}

	fc := report.Forecast
	if fc.Status != string(forecast.StatusAvailable) {
		fmt.Fprintf(out, "Forecast %s: %s\n", fc.Status, fc.Reason)
		return
	}
	fmt.Fprintf(out, "Forecast (%d days): avg %.1f/day, trend %s (%+d%%)\n",
		fc.HorizonDays, fc.ForecastAvg, fc.Trend, fc.ChangePct)
}
