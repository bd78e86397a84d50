package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/loader"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Worker analyses many snapshot directories, each with its own tables and
// report.
type Worker struct {
	analyzer *Analyzer
	config   BatchConfig
	// source builds the table source for one snapshot directory.
	source func(dir string) loader.Source
}

// NewWorker creates a new batch worker
func NewWorker(analyzer *Analyzer, config BatchConfig) *Worker {
	return &Worker{
		analyzer: analyzer,
		config:   config,
		source: func(dir string) loader.Source {
			return loader.NewDirSource(dir)
		},
	}
}

// Snapshots lists the sub-directories of the batch root in name order.
func (w *Worker) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(w.config.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch root: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(w.config.Root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Run analyses every snapshot using a bounded pool of goroutines. A failing
// snapshot is recorded in its result and does not stop the others. The
// returned results follow snapshot name order.
func (w *Worker) Run(ctx context.Context) ([]SnapshotResult, error) {
	dirs, err := w.Snapshots()
	if err != nil {
		return nil, err
	}

	log.Info().Str("root", w.config.Root).Int("snapshots", len(dirs)).Msg("starting batch")

	workerCount := w.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	results := make([]SnapshotResult, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)

	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = w.processSnapshot(gctx, dir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	var failed int
	for _, r := range results {
		if r.Status == StatusFailed {
			failed++
		}
	}
	log.Info().Int("snapshots", len(results)).Int("failed", failed).Msg("batch completed")

	return results, nil
}

// processSnapshot loads, analyses and exports a single snapshot
func (w *Worker) processSnapshot(ctx context.Context, dir string) SnapshotResult {
	start := time.Now()
	name := filepath.Base(dir)
	result := SnapshotResult{Name: name, Dir: dir}

	fail := func(err error) SnapshotResult {
		log.Error().Err(err).Str("snapshot", name).Msg("snapshot failed")
		result.Status = StatusFailed
		result.ErrorMessage = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	tables, err := w.source(dir).Load(ctx)
	if err != nil {
		return fail(fmt.Errorf("load tables: %w", err))
	}

	report := w.analyzer.Analyze(tables, Options{Periods: w.config.Periods})

	outDir := filepath.Join(w.config.OutputDir, name)
	if err := NewReportWriter(outDir).Write(report); err != nil {
		return fail(err)
	}

	result.Status = StatusCompleted
	result.OutputDir = outDir
	result.Reviews = len(report.Reviews)
	result.Alerts = len(report.Alerts)
	result.Duration = time.Since(start)

	log.Info().
		Str("snapshot", name).
		Int("reviews", result.Reviews).
		Int("alerts", result.Alerts).
		Dur("duration", result.Duration).
		Msg("snapshot analysed")

	return result
}
