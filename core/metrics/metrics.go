package metrics

import "time"

// RunEvent summarises one updater run for observability purposes.
type RunEvent struct {
	Status   string
	Count    int
	Duration time.Duration
	Time     time.Time
	DryRun   bool
}

// RunRecorder records updater runs.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// NopSink implements RunRecorder and discards events.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error { return nil }
