package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/ontograph/physics"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.HTTPRequestsTotal)
	assert.NotNil(t, r.LayoutTicksTotal)
	assert.NotNil(t, r.GraphsStored)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/api/graph", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/graph", "200", 50*time.Millisecond)
	r.RecordHTTPRequest("POST", "/api/graph", "400", 10*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/api/graph", "200")
	require.NoError(t, err)

	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	assert.Equal(t, 2.0, metric.Counter.GetValue())
	assert.Equal(t, 1.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("POST", "/api/graph", "400")))
}

func TestObserveTick(t *testing.T) {
	r := NewRegistry()
	var _ physics.TickObserver = r

	r.ObserveTick(physics.TickEvent{Tick: 1, Alpha: 0.5, Duration: time.Millisecond})
	r.ObserveTick(physics.TickEvent{Tick: 2, Alpha: 0.0009, Settled: true, Duration: time.Millisecond})
	r.ObserveTick(physics.TickEvent{Tick: 3, Alpha: 0.0008, Settled: true, Duration: time.Millisecond})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.LayoutTicksTotal))
	assert.Equal(t, 0.0008, testutil.ToFloat64(r.LayoutAlpha))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LayoutSettledTotal))

	// reheated then settled again
	r.ObserveTick(physics.TickEvent{Tick: 4, Alpha: 0.3})
	r.ObserveTick(physics.TickEvent{Tick: 5, Alpha: 0.0001, Settled: true})
	assert.Equal(t, 2.0, testutil.ToFloat64(r.LayoutSettledTotal))

	var metric dto.Metric
	require.NoError(t, r.LayoutTickDuration.Write(&metric))
	assert.Equal(t, uint64(5), metric.Histogram.GetSampleCount())
}

func TestRecordOutcomes(t *testing.T) {
	r := NewRegistry()
	r.RecordExport(nil)
	r.RecordExport(errors.New("boom"))
	r.RecordExtraction("CSV Processor", nil)
	r.SetGraphsStored(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExportsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExportsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues("CSV Processor", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.GraphsStored))
}

func TestRegistryGathers(t *testing.T) {
	r := NewRegistry()
	r.ObserveTick(physics.TickEvent{Tick: 1, Alpha: 1})

	families, err := r.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ontograph_layout_ticks_total")
	assert.Contains(t, names, "ontograph_layout_alpha")
}
