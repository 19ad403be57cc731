package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/caravail/core/metrics"
)

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "caravail"

// PushSink sends run metrics to a Prometheus Pushgateway after every run.
// Metrics are added to the job group, so the success gauges pushed by an
// earlier successful run survive a failed one.
type PushSink struct {
	url    string
	pusher *push.Pusher
	prom   *PromSink
}

// NewPushSink creates a sink pushing to the gateway at url under job.
func NewPushSink(url, job string) (*PushSink, error) {
	if job == "" {
		job = DefaultJob
	}
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		return nil, err
	}
	return &PushSink{url: url, pusher: push.New(url, job).Gatherer(reg), prom: prom}, nil
}

func (s *PushSink) RecordRun(ev coremetrics.RunEvent) error {
	if err := s.prom.RecordRun(ev); err != nil {
		return err
	}
	if err := s.pusher.Add(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", s.url, err)
	}
	return nil
}
