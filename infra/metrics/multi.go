package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/caravail/core/metrics"
)

// MultiSink fanouts run events to multiple recorders.
type MultiSink struct {
	Sinks []coremetrics.RunRecorder
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.RunRecorder) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to every sink. A failing sink does not stop
// the others; their errors are joined.
func (m *MultiSink) RecordRun(ev coremetrics.RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
