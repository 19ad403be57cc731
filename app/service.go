package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/caravail/config"
	"github.com/kilianp07/caravail/core/availability"
	"github.com/kilianp07/caravail/core/history"
	"github.com/kilianp07/caravail/core/model"
	"github.com/kilianp07/caravail/infra/carfile"
	"github.com/kilianp07/caravail/infra/logger"
	"github.com/kilianp07/caravail/infra/metrics"
)

// Service wires the updater to the file repository, run history and metrics.
type Service struct {
	Updater *availability.Updater
	Repo    *carfile.Repository
	history history.Store
	now     func() time.Time
	log     logger.Logger
}

// Option tunes a Service.
type Option func(*options)

type options struct {
	dryRun bool
	now    func() time.Time
}

// WithDryRun stamps in memory only.
func WithDryRun(dry bool) Option {
	return func(o *options) { o.dryRun = dry }
}

// WithNow overrides the wall clock. The configured timezone still applies.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	logger.Configure(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logg := logger.New("service")

	loc, err := cfg.Availability.Location()
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	sink, err := metrics.NewRunRecorder(metrics.Options{
		Textfile:    cfg.Metrics.Textfile,
		Pushgateway: cfg.Metrics.Pushgateway,
		Job:         cfg.Metrics.Job,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	repo := carfile.New(cfg.Data.Path, carfile.WithDirectWrite(cfg.Data.DirectWrite))
	clock := func() time.Time { return o.now().In(loc) }
	updater, err := availability.NewUpdater(repo,
		availability.WithClock(clock),
		availability.WithEndDate(cfg.Availability.EndDate),
		availability.WithRecorder(store),
		availability.WithMetrics(sink),
		availability.WithLogger(logger.New("updater")),
		availability.WithDryRun(o.dryRun),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("updater: %w", err)
	}
	return &Service{
		Updater: updater,
		Repo:    repo,
		history: store,
		now:     clock,
		log:     logg,
	}, nil
}

// Run performs one update pass.
func (s *Service) Run(ctx context.Context) (availability.Result, error) {
	return s.Updater.Run(ctx)
}

// Check lists the cars available for the whole [from, to] range.
func (s *Service) Check(ctx context.Context, from, to time.Time) ([]model.Car, error) {
	cars, err := s.Repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return availability.Check(cars, from, to), nil
}

// Today is the current calendar day in the configured timezone.
func (s *Service) Today() time.Time { return s.now() }

// History returns past runs matching q.
func (s *Service) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	return s.history.Query(ctx, q)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if err := s.history.Close(); err != nil {
		s.log.Warnf("closing history store: %v", err)
		return err
	}
	return nil
}
