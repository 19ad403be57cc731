// Package availability stamps every car record with a fresh availability
// window and persists the collection back through a Repository.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/caravail/core/history"
	"github.com/kilianp07/caravail/core/logger"
	"github.com/kilianp07/caravail/core/metrics"
	"github.com/kilianp07/caravail/core/model"
)

// Repository loads and saves the whole car collection.
type Repository interface {
	Load(ctx context.Context) ([]model.Car, error)
	Save(ctx context.Context, cars []model.Car) error
	Path() string
}

// Recorder appends run records to the history.
type Recorder interface {
	Append(ctx context.Context, rec history.Record) error
}

// Result describes a completed run.
type Result struct {
	RunID     string
	Path      string
	Count     int
	Window    model.Availability
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool
}

// Summary is the single line printed after a run.
func (r Result) Summary() string {
	return fmt.Sprintf("Updated %d cars with availability from %s to %s", r.Count, r.Window.StartDate, r.Window.EndDate)
}

// Updater applies the availability window to every record of a repository.
type Updater struct {
	repo     Repository
	clock    func() time.Time
	endDate  string
	recorder Recorder
	metrics  metrics.RunRecorder
	log      logger.Logger
	dryRun   bool
}

// Option configures an Updater.
type Option func(*Updater)

// WithClock overrides the run date source. The returned time's location
// decides the calendar day.
func WithClock(clock func() time.Time) Option {
	return func(u *Updater) { u.clock = clock }
}

// WithEndDate overrides the window end date.
func WithEndDate(end string) Option {
	return func(u *Updater) { u.endDate = end }
}

// WithRecorder appends a history record for every run.
func WithRecorder(r Recorder) Option {
	return func(u *Updater) { u.recorder = r }
}

// WithMetrics reports every run to m.
func WithMetrics(m metrics.RunRecorder) Option {
	return func(u *Updater) { u.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(u *Updater) { u.log = l }
}

// WithDryRun stamps records in memory without saving them.
func WithDryRun(dry bool) Option {
	return func(u *Updater) { u.dryRun = dry }
}

// NewUpdater creates an Updater writing back to repo.
func NewUpdater(repo Repository, opts ...Option) (*Updater, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	u := &Updater{
		repo:     repo,
		clock:    time.Now,
		endDate:  model.DefaultEndDate,
		recorder: history.NopStore{},
		metrics:  metrics.NopSink{},
		log:      logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(u)
	}
	if _, err := model.ParseDate(u.endDate); err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	return u, nil
}

// Stamp replaces the availability field of every record with w, in order.
// It returns the number of records stamped.
func Stamp(cars []model.Car, w model.Availability) (int, error) {
	for i := range cars {
		if err := cars[i].SetAvailability(w); err != nil {
			return i, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return len(cars), nil
}

// Run loads the collection, stamps every record and saves it back.
func (u *Updater) Run(ctx context.Context) (Result, error) {
	started := u.clock()
	res := Result{
		RunID:     uuid.NewString(),
		Path:      u.repo.Path(),
		Window:    model.NewAvailability(started, u.endDate),
		StartedAt: started,
		DryRun:    u.dryRun,
	}
	u.log.Debugw("run started", map[string]any{
		"run_id": res.RunID,
		"path":   res.Path,
		"start":  res.Window.StartDate,
		"end":    res.Window.EndDate,
	})

	err := u.apply(ctx, &res)
	res.Duration = u.clock().Sub(started)
	u.report(ctx, res, err)
	return res, err
}

func (u *Updater) apply(ctx context.Context, res *Result) error {
	cars, err := u.repo.Load(ctx)
	if err != nil {
		return err
	}
	n, err := Stamp(cars, res.Window)
	if err != nil {
		return err
	}
	res.Count = n
	if u.dryRun {
		u.log.Infof("dry run: %d cars stamped, %s left untouched", n, res.Path)
		return nil
	}
	if err := u.repo.Save(ctx, cars); err != nil {
		return err
	}
	u.log.Infof("%d cars written to %s", n, res.Path)
	return nil
}

// report stores the history record and metrics. Failures here never fail the
// run since the data file has already been handled.
func (u *Updater) report(ctx context.Context, res Result, runErr error) {
	status := history.StatusOK
	var msg string
	if runErr != nil {
		status = history.StatusFailed
		msg = runErr.Error()
		u.log.Errorf("run %s failed: %v", res.RunID, runErr)
	}
	rec := history.Record{
		RunID:      res.RunID,
		Timestamp:  res.StartedAt,
		Path:       res.Path,
		Status:     status,
		Count:      res.Count,
		StartDate:  res.Window.StartDate,
		EndDate:    res.Window.EndDate,
		DurationMS: res.Duration.Milliseconds(),
		DryRun:     res.DryRun,
		Error:      msg,
	}
	if err := u.recorder.Append(ctx, rec); err != nil {
		u.log.Errorf("history append: %v", err)
	}
	ev := metrics.RunEvent{
		Status:   status,
		Count:    res.Count,
		Duration: res.Duration,
		Time:     res.StartedAt,
		DryRun:   res.DryRun,
	}
	if err := u.metrics.RecordRun(ev); err != nil {
		u.log.Errorf("metrics: %v", err)
	}
}
