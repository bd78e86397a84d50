package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:          config.AppConfig{DataDir: t.TempDir(), Source: loader.SourceLocal},
		Capabilities: config.Capabilities{Linguistic: true, Forecasting: true},
		Forecast:     config.ForecastConfig{Periods: 7},
		Summary:      config.SummaryConfig{MaxReviews: 10},
	}
}

func TestNewMetrics(t *testing.T) {
	cfg := testConfig(t)

	m, err := NewMetrics(cfg)
	require.NoError(t, err)
	assert.Nil(t, m)

	cfg.Metrics.Enabled = true
	m, err = NewMetrics(cfg)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotNil(t, m.Registry())
}

func TestBuild_LocalSource(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.App.DataDir, "reviews.csv"),
		[]byte("text,rating\nthe pizza was great,5\n"), 0o644))

	svc, closeFn, err := Build(context.Background(), cfg, "", nil)
	require.NoError(t, err)
	defer closeFn()

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalReviews)
}

func TestBuild_UnknownSource(t *testing.T) {
	_, _, err := Build(context.Background(), testConfig(t), "ftp", nil)
	assert.ErrorIs(t, err, loader.ErrUnknownSource)
}
