package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ontograph_layout_ticks_total",
			Help: "Total number of layout ticks run",
		},
	)

	r.LayoutTickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ontograph_layout_tick_duration_seconds",
			Help:    "Time spent in one layout tick, rendering included",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.033, 0.1},
		},
	)

	r.LayoutAlpha = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ontograph_layout_alpha",
			Help: "Alpha of the most recent layout tick",
		},
	)

	r.LayoutSettledTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ontograph_layout_settled_total",
			Help: "Number of times a layout came to rest",
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphsStored = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ontograph_graphs_stored",
			Help: "Number of graphs held by the graph store",
		},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontograph_exports_total",
			Help: "Graph exports to the external database",
		},
		[]string{"status"},
	)

	r.ExtractionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontograph_extractions_total",
			Help: "Ontology extractions from uploaded files",
		},
		[]string{"processor", "status"},
	)
}
