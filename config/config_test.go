package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caravail.yaml")
	data := `data:
  path: "fleet/cars.json"
  direct_write: true
availability:
  end_date: "2031-06-30"
  timezone: "UTC"
history:
  backend: "sqlite"
  path: "runs.db"
metrics:
  textfile: "/var/lib/node_exporter/caravail.prom"
log:
  level: "debug"
  format: "console"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"data.path", cfg.Data.Path, "fleet/cars.json"},
		{"data.direct_write", cfg.Data.DirectWrite, true},
		{"availability.end_date", cfg.Availability.EndDate, "2031-06-30"},
		{"availability.timezone", cfg.Availability.Timezone, "UTC"},
		{"history.backend", cfg.History.Backend, "sqlite"},
		{"history.path", cfg.History.Path, "runs.db"},
		{"metrics.textfile", cfg.Metrics.Textfile, "/var/lib/node_exporter/caravail.prom"},
		{"log.level", cfg.Log.Level, "debug"},
		{"log.format", cfg.Log.Format, "console"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data/cars.json", cfg.Data.Path)
	assert.False(t, cfg.Data.DirectWrite)
	assert.Equal(t, "2030-12-30", cfg.Availability.EndDate)
	assert.Equal(t, "none", cfg.History.Backend)
	assert.Equal(t, "", cfg.Metrics.Textfile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Default(), cfg)
}

func TestLoadJSONWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caravail.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":{"path":"a.json"},"history":{"backend":"jsonl"}}`), 0o644))
	t.Setenv("CARAVAIL_DATA__PATH", "b.json")
	t.Setenv("CARAVAIL_HISTORY__MAX_BACKUPS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "b.json", cfg.Data.Path)
	assert.Equal(t, "jsonl", cfg.History.Backend)
	assert.Equal(t, 3, cfg.History.MaxBackups)
	assert.Equal(t, "data/availability_runs.jsonl", cfg.History.Path)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("CARAVAIL_DATA__PATH", "other/cars.json")
	t.Setenv("CARAVAIL_DATA__DIRECT_WRITE", "true")
	t.Setenv("CARAVAIL_HISTORY__BACKEND", "sqlite")
	t.Setenv("CARAVAIL_AVAILABILITY__END_DATE", "2031-01-31")
	t.Setenv("CARAVAIL_METRICS__PUSHGATEWAY", "http://gateway:9091")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "other/cars.json", cfg.Data.Path)
	assert.True(t, cfg.Data.DirectWrite)
	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.Equal(t, "data/availability_runs.db", cfg.History.Path)
	assert.Equal(t, "2031-01-31", cfg.Availability.EndDate)
	assert.Equal(t, "http://gateway:9091", cfg.Metrics.Pushgateway)
	assert.Equal(t, "caravail", cfg.Metrics.Job)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "caravail.toml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("availability:\n  end_date: \"30.12.2030\"\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	badTZ := filepath.Join(dir, "tz.yaml")
	require.NoError(t, os.WriteFile(badTZ, []byte("availability:\n  timezone: \"Mars/Olympus\"\n"), 0o644))
	_, err = Load(badTZ)
	assert.Error(t, err)

	badPush := filepath.Join(dir, "push.yaml")
	require.NoError(t, os.WriteFile(badPush, []byte("metrics:\n  pushgateway: \"localhost:9091\"\n"), 0o644))
	_, err = Load(badPush)
	assert.Error(t, err)

	t.Setenv("CARAVAIL_LOG__LEVEL", "trace")
	_, err = Load("")
	assert.Error(t, err)
}
