package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/caravail/config"
	"github.com/kilianp07/caravail/core/history"
	"github.com/kilianp07/caravail/core/model"
)

func testConfig(t *testing.T, cars string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Data.Path = filepath.Join(dir, "cars.json")
	cfg.Availability.Timezone = "UTC"
	cfg.History.Backend = history.BackendJSONL
	cfg.History.Path = filepath.Join(dir, "runs.jsonl")
	cfg.Metrics.Textfile = filepath.Join(dir, "caravail.prom")
	cfg.Log.Level = "error"
	require.NoError(t, cfg.Validate())
	require.NoError(t, os.WriteFile(cfg.Data.Path, []byte(cars), 0o644))
	return cfg
}

func at(day string) func() time.Time {
	return func() time.Time {
		d, _ := time.Parse(model.DateLayout, day)
		return d.Add(12 * time.Hour)
	}
}

func TestServiceRunWritesHistoryAndMetrics(t *testing.T) {
	cfg := testConfig(t, `[{"id":1,"brand":"Kia"},{"id":2,"brand":"BMW"}]`)
	svc, err := New(cfg, WithNow(at("2025-06-01")))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Updated 2 cars with availability from 2025-06-01 to 2030-12-30", res.Summary())

	runs, err := svc.History(context.Background(), history.Query{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusOK, runs[0].Status)
	assert.Equal(t, 2, runs[0].Count)
	assert.Equal(t, cfg.Data.Path, runs[0].Path)

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(prom), "caravail_cars_updated 2"))
}

func TestServiceRunFailureIsRecorded(t *testing.T) {
	cfg := testConfig(t, `[]`)
	require.NoError(t, os.Remove(cfg.Data.Path))
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	_, err = svc.Run(context.Background())
	require.Error(t, err)

	runs, err := svc.History(context.Background(), history.Query{Status: history.StatusFailed})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].Error, "cars.json")
}

func TestServiceMetricsSurviveFailedRun(t *testing.T) {
	cfg := testConfig(t, `[{"id":1},{"id":2}]`)
	svc, err := New(cfg, WithNow(at("2025-06-01")))
	require.NoError(t, err)
	_, err = svc.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	require.NoError(t, os.Remove(cfg.Data.Path))
	svc, err = New(cfg, WithNow(at("2025-06-02")))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	_, err = svc.Run(context.Background())
	require.Error(t, err)

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "caravail_cars_updated 2")
	assert.Contains(t, string(prom), `caravail_runs_total{status="ok"} 1`)
	assert.Contains(t, string(prom), `caravail_runs_total{status="failed"} 1`)
}

func TestServiceDryRun(t *testing.T) {
	in := `[{"id":1}]`
	cfg := testConfig(t, in)
	svc, err := New(cfg, WithDryRun(true), WithNow(at("2025-06-01")))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	got, err := os.ReadFile(cfg.Data.Path)
	require.NoError(t, err)
	assert.Equal(t, in, string(got))
}

func TestServiceCheck(t *testing.T) {
	cfg := testConfig(t, `[{"id":1},{"id":2}]`)
	svc, err := New(cfg, WithNow(at("2025-06-01")))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	from, _ := model.ParseDate("2025-06-01")
	to, _ := model.ParseDate("2025-06-02")
	cars, err := svc.Check(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, cars, "records without a window are not available")

	_, err = svc.Run(context.Background())
	require.NoError(t, err)
	cars, err = svc.Check(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, cars, 2)
	assert.Equal(t, "2025-06-01", svc.Today().Format(model.DateLayout))
}

func TestServiceRejectsUnknownHistoryBackend(t *testing.T) {
	cfg := config.Default()
	cfg.History.Backend = "redis"
	_, err := New(cfg)
	assert.Error(t, err)
}
