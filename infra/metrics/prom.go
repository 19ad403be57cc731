package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/kilianp07/caravail/core/history"
	coremetrics "github.com/kilianp07/caravail/core/metrics"
)

const (
	runsName        = "caravail_runs_total"
	carsName        = "caravail_cars_updated"
	lastRunName     = "caravail_last_run_timestamp_seconds"
	lastSuccessName = "caravail_last_success_timestamp_seconds"
	durationName    = "caravail_last_run_duration_seconds"
)

// PromSink records updater runs in Prometheus metrics. The success gauges
// are only exported once a successful run has been recorded or restored.
type PromSink struct {
	runs        *prometheus.CounterVec
	cars        *prometheus.GaugeVec
	lastRun     prometheus.Gauge
	lastSuccess *prometheus.GaugeVec
	duration    prometheus.Gauge
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: runsName,
		Help: "Total number of availability update runs",
	}, []string{"status"})
	cars := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: carsName,
		Help: "Number of car records stamped by the last successful run",
	}, nil)
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: lastRunName,
		Help: "Unix time of the last run",
	})
	lastSuccess := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: lastSuccessName,
		Help: "Unix time of the last successful run",
	}, nil)
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: durationName,
		Help: "Time spent loading, stamping and saving the car file in the last run",
	})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if cars, err = register(reg, cars); err != nil {
		return nil, err
	}
	if lastRun, err = register(reg, lastRun); err != nil {
		return nil, err
	}
	if lastSuccess, err = register(reg, lastSuccess); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, cars: cars, lastRun: lastRun, lastSuccess: lastSuccess, duration: duration}, nil
}

// register returns the already registered collector when c is a duplicate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates the run counters and gauges. A failed run leaves the
// success gauges untouched.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	s.lastRun.Set(float64(ev.Time.Unix()))
	s.duration.Set(ev.Duration.Seconds())
	if ev.Status == history.StatusOK {
		s.cars.WithLabelValues().Set(float64(ev.Count))
		s.lastSuccess.WithLabelValues().Set(float64(ev.Time.Unix()))
	}
	return nil
}

// Restore seeds the collectors with values exported by an earlier process,
// so counters keep growing across runs.
func (s *PromSink) Restore(families map[string]*dto.MetricFamily) {
	for _, m := range families[runsName].GetMetric() {
		if v := m.GetCounter().GetValue(); v > 0 {
			s.runs.WithLabelValues(labelValue(m, "status")).Add(v)
		}
	}
	if m := firstMetric(families[carsName]); m != nil {
		s.cars.WithLabelValues().Set(m.GetGauge().GetValue())
	}
	if m := firstMetric(families[lastSuccessName]); m != nil {
		s.lastSuccess.WithLabelValues().Set(m.GetGauge().GetValue())
	}
	if m := firstMetric(families[lastRunName]); m != nil {
		s.lastRun.Set(m.GetGauge().GetValue())
	}
	if m := firstMetric(families[durationName]); m != nil {
		s.duration.Set(m.GetGauge().GetValue())
	}
}

func firstMetric(mf *dto.MetricFamily) *dto.Metric {
	if ms := mf.GetMetric(); len(ms) > 0 {
		return ms[0]
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
