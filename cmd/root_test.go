package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args against a car file in a temporary directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, dryRun, checkFrom, checkTo = "", false, "", ""
	historyLimit, historyStatus, historySince, historyUntil = 20, "", "", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setup(t *testing.T, cars string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cars.json")
	require.NoError(t, os.WriteFile(path, []byte(cars), 0o644))
	t.Setenv("CARAVAIL_DATA__PATH", path)
	t.Setenv("CARAVAIL_LOG__LEVEL", "error")
	t.Setenv("CARAVAIL_HISTORY__BACKEND", "jsonl")
	t.Setenv("CARAVAIL_HISTORY__PATH", filepath.Join(dir, "runs.jsonl"))
	return path
}

func today() string { return time.Now().Format("2006-01-02") }

func daysFromNow(n int) string { return time.Now().AddDate(0, 0, n).Format("2006-01-02") }

func TestRootUpdatesFile(t *testing.T) {
	path := setup(t, `[{"id":1,"availability":{"isAvailable":false}},{"id":2}]`)
	out, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "Updated 2 cars with availability from "+today()+" to 2030-12-30\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startDate": "`+today()+`"`)
	assert.Contains(t, string(data), `"isAvailable": true`)
}

func TestUpdateDryRun(t *testing.T) {
	in := `[{"id":1}]`
	path := setup(t, in)
	out, err := execute(t, "update", "--dry-run")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Updated 1 cars"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, string(data))
}

func TestRootMissingFile(t *testing.T) {
	path := setup(t, `[]`)
	require.NoError(t, os.Remove(path))
	out, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, out, "cars.json")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootRejectsArguments(t *testing.T) {
	setup(t, `[]`)
	_, err := execute(t, "data/other.json")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	setup(t, `[
  {"id": 1, "brand": "Kia", "model": "Rio", "availability": {"startDate": "2020-01-01", "endDate": "2030-12-30", "isAvailable": true}},
  {"id": 2, "brand": "BMW", "model": "X5", "availability": {"startDate": "2020-01-01", "endDate": "2030-12-30", "isAvailable": false}}
]`)
	out, err := execute(t, "check", "--from", "2025-06-01", "--to", "2025-06-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Kia")
	assert.NotContains(t, out, "BMW")
	assert.Contains(t, out, "1 cars available from 2025-06-01 to 2025-06-03")

	_, err = execute(t, "check", "--from", "2025-06-05", "--to", "2025-06-03")
	assert.Error(t, err)
	_, err = execute(t, "check", "--from", "June 1st")
	assert.Error(t, err)
}

func TestCheckFromOnlyLastsOneDay(t *testing.T) {
	setup(t, `[{"id": 1, "brand": "Kia", "availability": {"startDate": "2020-01-01", "endDate": "2099-12-31", "isAvailable": true}}]`)
	from := time.Now().AddDate(0, 0, 10)
	out, err := execute(t, "check", "--from", from.Format("2006-01-02"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 cars available from "+from.Format("2006-01-02")+" to "+from.AddDate(0, 0, 1).Format("2006-01-02"))
}

func TestHistorySinceUntil(t *testing.T) {
	setup(t, `[{"id":1}]`)
	_, err := execute(t)
	require.NoError(t, err)

	out, err := execute(t, "history", "--since", daysFromNow(-1), "--until", daysFromNow(1))
	require.NoError(t, err)
	assert.Contains(t, out, today()+" → 2030-12-30")

	out, err = execute(t, "history", "--since", daysFromNow(2))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")

	out, err = execute(t, "history", "--until", daysFromNow(-2))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")

	_, err = execute(t, "history", "--since", daysFromNow(1), "--until", daysFromNow(-1))
	assert.Error(t, err)
	_, err = execute(t, "history", "--since", "yesterday")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	setup(t, `[{"id":1}]`)
	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")

	_, err = execute(t)
	require.NoError(t, err)
	_, err = execute(t, "update", "--dry-run")
	require.NoError(t, err)

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "ok (dry run)")
	assert.Contains(t, out, today()+" → 2030-12-30")

	out, err = execute(t, "history", "--status", "failed")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")

	_, err = execute(t, "history", "--status", "maybe")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	setup(t, `[{"id":1}]`)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "caravail.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("availability:\n  end_date: \"2031-01-31\"\n"), 0o644))
	out, err := execute(t, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "to 2031-01-31")
}
