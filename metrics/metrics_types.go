// Package metrics holds the Prometheus metrics of ontograph.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Layout Metrics
	LayoutTicksTotal   prometheus.Counter
	LayoutTickDuration prometheus.Histogram
	LayoutAlpha        prometheus.Gauge
	LayoutSettledTotal prometheus.Counter

	// Graph Metrics
	GraphsStored     prometheus.Gauge
	ExportsTotal     *prometheus.CounterVec
	ExtractionsTotal *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.Mutex
	settled  bool
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initHTTPMetrics()
	r.initLayoutMetrics()
	r.initGraphMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
