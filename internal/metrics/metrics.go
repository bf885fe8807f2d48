// Package metrics exposes Prometheus instruments for network generation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeCanceled = "canceled"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Collector holds all Prometheus metrics for molnet.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Pipeline metrics
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	StageDuration *prometheus.HistogramVec

	// Shape of the last generated network
	Nodes      prometheus.Gauge
	Edges      prometheus.Gauge
	Components prometheus.Gauge
	Isolated   prometheus.Gauge

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry under namespace.
// Each call returns independent instruments, so tests can build as many as
// they need.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of network generation runs by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Network generation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"stage"},
		),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_nodes",
			Help:      "Nodes in the last generated network",
		}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_edges",
			Help:      "Edges in the last generated network",
		}),
		Components: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_components",
			Help:      "Connected components in the last generated network",
		}),
		Isolated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_isolated_nodes",
			Help:      "Isolated nodes in the last generated network",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(
		c.Runs,
		c.RunDuration,
		c.StageDuration,
		c.Nodes,
		c.Edges,
		c.Components,
		c.Isolated,
		c.HTTPRequests,
	)

	return c
}

// ObserveRun records one finished run. A nil collector is a no-op.
func (c *Collector) ObserveRun(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(outcome).Inc()
	c.RunDuration.Observe(d.Seconds())
}

// ObserveStage records the duration of one pipeline stage. A nil collector is a no-op.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// SetShape publishes the size of the last generated network. A nil collector is a no-op.
func (c *Collector) SetShape(nodes, edges, components, isolated int) {
	if c == nil {
		return
	}
	c.Nodes.Set(float64(nodes))
	c.Edges.Set(float64(edges))
	c.Components.Set(float64(components))
	c.Isolated.Set(float64(isolated))
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
