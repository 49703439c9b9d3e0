package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

func newTestRegistry(t *testing.T) (*Registry, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	registry, err := NewRegistry(provider.Meter("test"))
	require.NoError(t, err)
	return registry, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %s not collected", name)
	return metricdata.Metrics{}
}

func TestNewRegistryNilMeter(t *testing.T) {
	registry, err := NewRegistry(nil)
	assert.Error(t, err)
	assert.Nil(t, registry)
}

func TestCounter(t *testing.T) {
	registry, reader := newTestRegistry(t)
	ctx := context.Background()

	c, err := registry.Counter("http_client", "requests_total",
		metrics.WithDescription("Total number of HTTP requests"),
		metrics.WithLabels("host", "method"),
	)
	require.NoError(t, err)

	c.Increment(ctx, metrics.Labels{"host": "example.com", "method": "GET"})
	c.Increment(ctx, metrics.Labels{"method": "GET", "host": "example.com"})
	c.Add(ctx, 4, metrics.Labels{"host": "example.com", "method": "POST"})

	m := collect(t, reader, "http_client_requests_total")
	assert.Equal(t, "Total number of HTTP requests", m.Description)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)
	assert.True(t, sum.IsMonotonic)

	got := map[string]int64{}
	for _, dp := range sum.DataPoints {
		method, _ := dp.Attributes.Value(attribute.Key("method"))
		got[method.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"GET": 2, "POST": 4}, got)
}

func TestHistogramBuckets(t *testing.T) {
	registry, reader := newTestRegistry(t)

	h, err := registry.Histogram("http_client", "request_duration",
		metrics.WithUnit(metrics.UnitSeconds),
		metrics.WithBuckets(0.01, 0.1, 1),
	)
	require.NoError(t, err)

	h.Measure(context.Background(), metrics.Labels{"host": "example.com"}, 0.05)
	h.Measure(context.Background(), metrics.Labels{"host": "example.com"}, 2)

	m := collect(t, reader, "http_client_request_duration")
	assert.Equal(t, "s", m.Unit)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected Histogram[float64], got %T", m.Data)
	require.Len(t, hist.DataPoints, 1)

	dp := hist.DataPoints[0]
	assert.Equal(t, []float64{0.01, 0.1, 1}, dp.Bounds)
	assert.Equal(t, uint64(2), dp.Count)
	assert.Equal(t, []uint64{0, 1, 0, 1}, dp.BucketCounts)
}

func TestRegistryReusesInstruments(t *testing.T) {
	registry, _ := newTestRegistry(t)

	first, err := registry.Counter("app", "jobs_total")
	require.NoError(t, err)
	second, err := registry.Counter("app", "jobs_total")
	require.NoError(t, err)
	assert.Same(t, first, second)

	h1, err := registry.Histogram("app", "latency")
	require.NoError(t, err)
	h2, err := registry.Histogram("app", "latency")
	require.NoError(t, err)
	assert.Same(t, h1, h2)
}

func TestRegistryValidation(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Counter("app", "bad name")
	assert.ErrorIs(t, err, metrics.ErrInvalidName)

	_, err = registry.Histogram("app", "latency", metrics.WithBuckets(2, 1))
	assert.ErrorIs(t, err, metrics.ErrInvalidBuckets)
}

func TestConvertLabelsToAttributes(t *testing.T) {
	assert.Nil(t, convertLabelsToAttributes(nil))

	attrs := convertLabelsToAttributes(metrics.Labels{"status": "200", "host": "a", "method": "GET"})
	require.Len(t, attrs, 3)
	assert.Equal(t, attribute.String("host", "a"), attrs[0])
	assert.Equal(t, attribute.String("method", "GET"), attrs[1])
	assert.Equal(t, attribute.String("status", "200"), attrs[2])
}

func TestUnitSymbol(t *testing.T) {
	assert.Equal(t, "s", unitSymbol(metrics.UnitSeconds))
	assert.Equal(t, "ms", unitSymbol("milliseconds"))
	assert.Equal(t, "By", unitSymbol("bytes"))
	assert.Equal(t, "{request}", unitSymbol("{request}"))
}
