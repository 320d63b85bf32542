// Package metrics exposes Prometheus counters for plans and applies.
//
// Every run owns a Metrics value with its own registry. The CLI writes the
// registry to a node-exporter textfile when a path is configured so runs
// from CI pipelines can be scraped after the process exits.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kustokeeper"

// Metrics collects run metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	changes  *prometheus.CounterVec
	scripts  *prometheus.CounterVec
	batches  prometheus.Counter
	polls    prometheus.Counter
	duration *prometheus.HistogramVec
}

// New creates a Metrics value with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "plan",
				Name:      "changes_total",
				Help:      "Planned changes by target, entity kind and operation.",
			},
			[]string{"target", "entity", "operation", "valid"},
		),
		scripts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apply",
				Name:      "scripts_total",
				Help:      "Applied scripts by terminal state.",
			},
			[]string{"state"},
		),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "apply",
			Name:      "batches_total",
			Help:      "Script batches submitted.",
		}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "apply",
			Name:      "operation_polls_total",
			Help:      "Status queries issued for async operations.",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "target_duration_seconds",
				Help:      "Time spent per target.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"target", "mode"},
		),
	}

	m.registry.MustRegister(m.changes, m.scripts, m.batches, m.polls, m.duration)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordChange counts one planned change.
func (m *Metrics) RecordChange(target, entity, operation string, valid bool) {
	if m == nil {
		return
	}

	v := "true"
	if !valid {
		v = "false"
	}
	m.changes.WithLabelValues(target, entity, operation, v).Inc()
}

// RecordScript counts one applied script by its terminal state.
func (m *Metrics) RecordScript(state string) {
	if m == nil {
		return
	}
	m.scripts.WithLabelValues(state).Inc()
}

// RecordBatch counts one batch submission.
func (m *Metrics) RecordBatch() {
	if m == nil {
		return
	}
	m.batches.Inc()
}

// RecordPoll counts one async operation status query.
func (m *Metrics) RecordPoll() {
	if m == nil {
		return
	}
	m.polls.Inc()
}

// ObserveTarget records how long a target took in the given mode.
func (m *Metrics) ObserveTarget(target, mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(target, mode).Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format.
// An empty path is a no-op.
//
// Example:
//
//	m := metrics.New()
//	// ... run
//	if err := m.WriteTextfile("/var/lib/node_exporter/kustokeeper.prom"); err != nil {
//		return err
//	}
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}

	return errors.Wrapf(prometheus.WriteToTextfile(path, m.registry), "failed to write metrics to %s", path)
}
