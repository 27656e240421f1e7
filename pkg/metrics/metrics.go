// Package metrics exports run statistics of a reconciliation as Prometheus
// metrics, written to a node-exporter textfile after each run.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

const (
	defaultNamespace = "coreoffset"
	defaultSubsystem = "reconcile"
)

// Manager holds the metrics of one run on a private registry.
type Manager struct {
	namespace string
	subsystem string
	labels    prometheus.Labels
	registry  *prometheus.Registry

	records    *prometheus.CounterVec
	models     *prometheus.GaugeVec
	mismatches *prometheus.CounterVec
	duration   prometheus.Gauge
	lastRun    prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithConstLabels adds constant labels to all metrics.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels != nil {
			m.labels = labels
		}
	}
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		subsystem: defaultSubsystem,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.records = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_total",
		Help:        "Records observed, by source",
		ConstLabels: m.labels,
	}, []string{"source"})

	m.models = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "models",
		Help:        "Models in the merged map, by classification",
		ConstLabels: m.labels,
	}, []string{"classification"})

	m.mismatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mismatches_total",
		Help:        "Conflicting observations, by source and resolution",
		ConstLabels: m.labels,
	}, []string{"source", "resolution"})

	m.duration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_seconds",
		Help:        "Duration of the last reconciliation",
		ConstLabels: m.labels,
	})

	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last reconciliation finished",
		ConstLabels: m.labels,
	})
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Record copies the statistics of a result into the metrics.
func (m *Manager) Record(result *reconciler.Result) {
	if result == nil {
		return
	}

	for source, n := range result.Metadata.Stats.RecordsBySource {
		m.records.WithLabelValues(source.String()).Add(float64(n))
	}

	counts := map[string]int{
		coretemp.CoreIndex(0).String():       0,
		coretemp.CoreIndex(1).String():       0,
		coretemp.NoCoreTemperature.String(): 0,
	}
	for _, c := range result.Map {
		counts[c.String()]++
	}
	for label, n := range counts {
		m.models.WithLabelValues(label).Set(float64(n))
	}

	for _, mm := range result.Mismatches {
		m.mismatches.WithLabelValues(mm.Source.String(), mm.Resolution.String()).Inc()
	}

	m.duration.Set(result.Metadata.Duration.Seconds())
	m.lastRun.Set(float64(result.Metadata.EndTime.Unix()))
}

// Write writes every metric in the text exposition format.
func (m *Manager) Write(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return errors.WrapResource("gather", "metrics", "", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.WrapEncode("metrics", err)
		}
	}
	return nil
}

// WriteTextfile atomically writes the metrics to path for the node
// exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	return errors.WrapIO("write", path, prometheus.WriteToTextfile(path, m.registry))
}
