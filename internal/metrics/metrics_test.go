package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManual(t *testing.T) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	r, err := New(mp.Meter(Scope))
	require.NoError(t, err)
	return r, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, key, val string) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "not an int64 sum: %T", data)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == val {
			return dp.Value
		}
	}
	return 0
}

func TestRecorder_Counts(t *testing.T) {
	r, reader := newManual(t)
	ctx := context.Background()

	r.FellBack(ctx, "disabled")
	r.FellBack(ctx, "disabled")
	r.FellBack(ctx, "schema")
	r.Generated(ctx, "fallback", 3)
	r.Generated(ctx, "ai", 6)

	got := collect(t, reader)
	assert.EqualValues(t, 2, sumFor(t, got["workflow.fallbacks"], "cause", "disabled"))
	assert.EqualValues(t, 1, sumFor(t, got["workflow.fallbacks"], "cause", "schema"))
	assert.EqualValues(t, 1, sumFor(t, got["workflow.generated"], "source", "fallback"))
	assert.EqualValues(t, 1, sumFor(t, got["workflow.generated"], "source", "ai"))

	hist, ok := got["workflow.nodes"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var count uint64
	var total int64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.EqualValues(t, 2, count)
	assert.EqualValues(t, 9, total)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Generated(context.Background(), "ai", 5)
		r.FellBack(context.Background(), "schema")
	})
}

func TestNew_GlobalMeter(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestPrometheusProvider(t *testing.T) {
	mp, h, err := NewPrometheusProvider()
	require.NoError(t, err)
	defer mp.Shutdown(context.Background())

	r, err := New(mp.Meter(Scope))
	require.NoError(t, err)
	r.FellBack(context.Background(), "disabled")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "workflow_fallbacks")
	assert.Contains(t, string(body), `cause="disabled"`)
}
