package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false, ServiceName: "catalog-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestCounter_AddAndInc(t *testing.T) {
	reader, provider := newManualMeter(t)
	ctx := context.Background()

	counter, err := NewCounter(provider.Meter("test"), "test_counter", "Test counter", "1")
	require.NoError(t, err)

	counter.Add(ctx, 5, AttrHTTPMethod.String("GET"))
	counter.Inc(ctx, AttrHTTPMethod.String("GET"))
	counter.Inc(ctx, AttrHTTPMethod.String("POST"))

	metrics := collect(t, reader)
	assert.Equal(t, int64(6), sumOf(t, metrics["test_counter"], AttrHTTPMethod.String("GET")))
	assert.Equal(t, int64(1), sumOf(t, metrics["test_counter"], AttrHTTPMethod.String("POST")))
}

func TestHistogram_RecordDuration(t *testing.T) {
	reader, provider := newManualMeter(t)
	ctx := context.Background()

	h, err := NewHistogram(provider.Meter("test"), HistogramOpts{
		Name:       "test_duration_seconds",
		Unit:       "s",
		Boundaries: TransferDurationBuckets,
	})
	require.NoError(t, err)

	h.RecordDuration(ctx, 250*time.Millisecond)
	h.Record(ctx, 2)

	hist, ok := collect(t, reader)["test_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 2.25, hist.DataPoints[0].Sum, 1e-9)
	assert.Equal(t, TransferDurationBuckets, hist.DataPoints[0].Bounds)
}
