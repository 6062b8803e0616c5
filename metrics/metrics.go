package metrics

import (
	"time"

	"github.com/TFMV/ontograph/physics"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveTick records a layout tick. A layout counts as settled once per
// transition into rest, however many ticks report it.
func (r *Registry) ObserveTick(ev physics.TickEvent) {
	r.LayoutTicksTotal.Inc()
	r.LayoutTickDuration.Observe(ev.Duration.Seconds())
	r.LayoutAlpha.Set(ev.Alpha)

	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.Settled && !r.settled {
		r.LayoutSettledTotal.Inc()
	}
	r.settled = ev.Settled
}

// RecordExport records the outcome of a graph export
func (r *Registry) RecordExport(err error) {
	r.ExportsTotal.WithLabelValues(status(err)).Inc()
}

// RecordExtraction records an ontology extraction by processor name
func (r *Registry) RecordExtraction(processor string, err error) {
	r.ExtractionsTotal.WithLabelValues(processor, status(err)).Inc()
}

// SetGraphsStored sets the stored-graph gauge
func (r *Registry) SetGraphsStored(n int) {
	r.GraphsStored.Set(float64(n))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
