package scenarios

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/caravail/core/availability"
	"github.com/kilianp07/caravail/core/history"
	"github.com/kilianp07/caravail/infra/carfile"
	"github.com/kilianp07/caravail/infra/logger"
)

// RunScenario executes sc against a car file in a temporary directory.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cars.json")
	if sc.Input != nil {
		if err := os.WriteFile(path, []byte(*sc.Input), 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	if sc.ReadOnlyDir {
		if os.Geteuid() == 0 {
			t.Skip("permissions are not enforced for root")
		}
		if err := os.Chmod(dir, 0o555); err != nil {
			t.Fatalf("chmod: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	}

	store, err := history.NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	u, err := availability.NewUpdater(carfile.New(path),
		availability.WithClock(sc.Clock()),
		availability.WithEndDate(sc.EndDate),
		availability.WithRecorder(store),
		availability.WithLogger(logger.NopLogger{}),
	)
	if err != nil {
		t.Fatalf("updater: %v", err)
	}

	res, err := u.Run(context.Background())
	checkError(t, sc, err)
	if sc.Expected.Error == "" && res.Count != sc.Expected.Count {
		t.Errorf("scenario %s expected %d cars, got %d", sc.Name, sc.Expected.Count, res.Count)
	}

	after, readErr := os.ReadFile(path)
	switch {
	case sc.Input == nil:
		if !errors.Is(readErr, os.ErrNotExist) {
			t.Errorf("scenario %s: file must not be created", sc.Name)
		}
	case sc.Expected.Error != "":
		if string(after) != *sc.Input {
			t.Errorf("scenario %s: file changed on failure:\n%s", sc.Name, after)
		}
	case sc.Expected.Output != "":
		if string(after) != sc.Expected.Output {
			t.Errorf("scenario %s output mismatch:\ngot:\n%s\nwant:\n%s", sc.Name, after, sc.Expected.Output)
		}
	}

	runs, err := store.Query(context.Background(), history.Query{})
	if err != nil {
		t.Fatalf("history query: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("scenario %s expected 1 history record, got %d", sc.Name, len(runs))
	}
}

func checkError(t *testing.T, sc *Scenario, err error) {
	t.Helper()
	var want error
	switch sc.Expected.Error {
	case "":
		if err != nil {
			t.Fatalf("scenario %s: unexpected error %v", sc.Name, err)
		}
		return
	case "input":
		want = availability.ErrInput
	case "output":
		want = availability.ErrOutput
	default:
		t.Fatalf("scenario %s: unknown expected error %q", sc.Name, sc.Expected.Error)
	}
	if !errors.Is(err, want) {
		t.Fatalf("scenario %s: expected %v, got %v", sc.Name, want, err)
	}
}
