// Package metrics records graph build metrics with Prometheus collectors.
// A CLI run is short-lived, so metrics are exported by writing a
// node_exporter textfile rather than serving /metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns a private registry and the build collectors.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	rowsParsed       prometheus.Counter
	buildsTotal      prometheus.Counter
	regroupsTotal    *prometheus.CounterVec
	buildDuration    prometheus.Histogram
	nodes            prometheus.Gauge
	edges            *prometheus.GaugeVec
	groups           prometheus.Gauge
	unavailableEdges prometheus.Gauge
	locatedNodes     prometheus.Gauge
	lastBuildUnix    prometheus.Gauge
}

// NewManager creates a manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "atlas",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "rows_parsed_total",
		Help:        "Dataset rows read from input",
		ConstLabels: m.constLabels,
	})
	m.buildsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "builds_total",
		Help:        "Graphs built",
		ConstLabels: m.constLabels,
	})
	m.regroupsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "regroups_total",
		Help:        "Group assignments computed, by group key",
		ConstLabels: m.constLabels,
	}, []string{"key"})
	m.buildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "build_duration_seconds",
		Help:        "Time spent normalizing rows and building the graph",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.nodes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "graph_nodes",
		Help:        "Nodes in the last built graph",
		ConstLabels: m.constLabels,
	})
	m.edges = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "graph_edges",
		Help:        "Edges in the last built graph, by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})
	m.groups = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "graph_groups",
		Help:        "Partner groups in the last built graph",
		ConstLabels: m.constLabels,
	})
	m.unavailableEdges = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "graph_unavailable_edges",
		Help:        "Edges whose distance could not be computed",
		ConstLabels: m.constLabels,
	})
	m.locatedNodes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "graph_located_nodes",
		Help:        "Nodes with usable GPS coordinates",
		ConstLabels: m.constLabels,
	})
	m.lastBuildUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "last_build_timestamp_seconds",
		Help:        "Unix time of the last build",
		ConstLabels: m.constLabels,
	})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRows counts parsed dataset rows.
func (m *Manager) RecordRows(n int) {
	m.rowsParsed.Add(float64(n))
}

// RecordBuild stores the shape of a freshly built graph.
func (m *Manager) RecordBuild(s graph.Stats, took time.Duration) {
	m.buildsTotal.Inc()
	m.buildDuration.Observe(took.Seconds())
	m.nodes.Set(float64(s.Nodes))
	m.edges.WithLabelValues(string(graph.EdgeMember)).Set(float64(s.MemberEdges))
	m.edges.WithLabelValues(string(graph.EdgeHub)).Set(float64(s.HubEdges))
	m.groups.Set(float64(s.Groups))
	m.unavailableEdges.Set(float64(s.UnavailableEdges))
	m.locatedNodes.Set(float64(s.LocatedNodes))
	m.lastBuildUnix.SetToCurrentTime()
}

// RecordRegroup counts one assignment batch for key.
func (m *Manager) RecordRegroup(key graph.GroupKey) {
	m.regroupsTotal.WithLabelValues(string(key)).Inc()
}

// WriteTextfile writes the registry in the text exposition format,
// atomically, for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
