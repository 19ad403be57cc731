package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/caravail/core/model"
)

// Expected describes the outcome of a scenario. Error is empty, "input" or
// "output". Output, when set, must equal the written file byte for byte.
type Expected struct {
	Count  int    `yaml:"count"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Scenario is one update run described in YAML.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	RunDate     string   `yaml:"run_date"`
	EndDate     string   `yaml:"end_date,omitempty"`
	Input       *string  `yaml:"input"`
	ReadOnlyDir bool     `yaml:"read_only_dir,omitempty"`
	Expected    Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if _, err := model.ParseDate(sc.RunDate); err != nil {
		return nil, fmt.Errorf("scenario %s: run_date: %w", path, err)
	}
	if sc.EndDate == "" {
		sc.EndDate = model.DefaultEndDate
	}
	return &sc, nil
}

// Clock returns a clock fixed at noon UTC on the run date.
func (s Scenario) Clock() func() time.Time {
	d, _ := model.ParseDate(s.RunDate)
	return func() time.Time { return d.Add(12 * time.Hour) }
}
