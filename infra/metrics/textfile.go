package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	coremetrics "github.com/kilianp07/caravail/core/metrics"
)

// TextfileSink exports run metrics to a file read by the node exporter
// textfile collector. Values already in the file are restored before the
// first run is recorded, then the file is rewritten after every run.
type TextfileSink struct {
	path     string
	reg      *prometheus.Registry
	prom     *PromSink
	restored bool
}

// NewTextfileSink creates a sink backed by a private registry.
func NewTextfileSink(path string) (*TextfileSink, error) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		return nil, err
	}
	return &TextfileSink{path: path, reg: reg, prom: prom}, nil
}

// RecordRun records the event and writes the exposition file. An unreadable
// previous file is replaced and reported once the new file is written.
func (s *TextfileSink) RecordRun(ev coremetrics.RunEvent) error {
	var restoreErr error
	if !s.restored {
		restoreErr = s.restore()
		s.restored = true
	}
	if err := s.prom.RecordRun(ev); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(s.path, s.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	if restoreErr != nil {
		return fmt.Errorf("previous metrics in %s discarded: %w", s.path, restoreErr)
	}
	return nil
}

func (s *TextfileSink) restore() error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(f)
	if err != nil {
		return err
	}
	s.prom.Restore(families)
	return nil
}

// Options selects the metric exporters.
type Options struct {
	Textfile    string
	Pushgateway string
	Job         string
}

// NewRunRecorder builds the configured exporters. With none configured it
// returns a NopSink, with several a MultiSink.
func NewRunRecorder(o Options) (coremetrics.RunRecorder, error) {
	var sinks []coremetrics.RunRecorder
	if o.Textfile != "" {
		s, err := NewTextfileSink(o.Textfile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if o.Pushgateway != "" {
		s, err := NewPushSink(o.Pushgateway, o.Job)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
