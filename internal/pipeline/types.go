package pipeline

import "time"

// Options tune a single analysis. A zero Periods uses the analyzer default.
type Options struct {
	Periods int
}

// BatchConfig holds configuration for a batch run over snapshot directories.
type BatchConfig struct {
	Root        string // Directory whose sub-directories are snapshots
	OutputDir   string // Each snapshot report goes to OutputDir/<snapshot>
	WorkerCount int    // Number of snapshots analysed concurrently
	Periods     int
}

// DefaultBatchConfig returns sensible defaults
func DefaultBatchConfig(root string) BatchConfig {
	return BatchConfig{
		Root:        root,
		OutputDir:   "output/batch",
		WorkerCount: 4,
	}
}

// SnapshotStatus represents the outcome of one snapshot in a batch run
type SnapshotStatus string

const (
	StatusCompleted SnapshotStatus = "completed"
	StatusFailed    SnapshotStatus = "failed"
)

// SnapshotResult tracks the processing of a single snapshot directory
type SnapshotResult struct {
	Name         string         `json:"name"`
	Dir          string         `json:"dir"`
	OutputDir    string         `json:"output_dir,omitempty"`
	Status       SnapshotStatus `json:"status"`
	ErrorMessage string         `json:"error,omitempty"`
	Reviews      int            `json:"reviews"`
	Alerts       int            `json:"alerts"`
	Duration     time.Duration  `json:"duration"`
}
