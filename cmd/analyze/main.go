package main

import (
	"os"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newSourceFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "source",
		Usage:   "Table source: local, s3, drive or postgres",
		EnvVars: []string{"APP_SOURCE"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing reviews, pos_sales and inventory files",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func newOutputDirFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output-dir",
		Usage:   "Directory the report files are written to",
		Value:   value,
		EnvVars: []string{"APP_OUTPUT_DIR"},
	}
}

func newPeriodsFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "periods",
		Usage:   "Number of days to forecast (0 uses FORECAST_PERIODS)",
		EnvVars: []string{"FORECAST_PERIODS"},
	}
}

// loadConfig applies the flags shared by every command on top of the
// environment configuration.
func loadConfig(c *cli.Context) *config.Config {
	cfg := config.Load()
	if dir := c.String("data-dir"); dir != "" {
		cfg.App.DataDir = dir
	}
	if source := c.String("source"); source != "" {
		cfg.App.Source = source
	}
	return cfg
}

func main() {
	// flags read their EnvVars before config.Load runs
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "analyze",
		Usage: "Analyse restaurant reviews, POS sales and inventory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Run the full analysis once and export the report",
				Flags: []cli.Flag{
					newSourceFlag(),
					newDataDirFlag(),
					newOutputDirFlag(""),
					newPeriodsFlag(),
				},
				Action: runAnalyze,
			},
			{
				Name:  "batch",
				Usage: "Analyse every snapshot sub-directory of a root directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "root",
						Usage:    "Directory whose sub-directories are snapshots",
						Required: true,
					},
					newOutputDirFlag("./data/output/batch"),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of snapshots analysed concurrently",
						Value: 4,
					},
					newPeriodsFlag(),
				},
				Action: runBatch,
			},
			{
				Name:  "summarize",
				Usage: "Summarize reviews with the configured LLM endpoint",
				Flags: []cli.Flag{
					newSourceFlag(),
					newDataDirFlag(),
					&cli.StringFlag{
						Name:  "sentiment",
						Usage: "Only summarize positive, negative or neutral reviews",
					},
					&cli.IntFlag{
						Name:    "limit",
						Usage:   "Maximum number of reviews sent (0 uses SUMMARY_MAX_REVIEWS)",
						EnvVars: []string{"SUMMARY_MAX_REVIEWS"},
					},
				},
				Action: runSummarize,
			},
			{
				Name:  "seed",
				Usage: "Load local table files into the postgres input tables",
				Flags: []cli.Flag{
					newDataDirFlag(),
				},
				Action: runSeed,
			},
			{
				Name:   "clear-cache",
				Usage:  "Remove cached review summaries",
				Action: runClearCache,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analyze failed")
	}
}
