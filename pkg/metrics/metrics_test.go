package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
	"github.com/JailtonJunior94/httpmetrics/pkg/metrics/fake"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "http_client_requests_total", metrics.FullName("http_client", "requests_total"))
	assert.Equal(t, "requests_total", metrics.FullName("", "requests_total"))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		metric  string
		wantErr bool
	}{
		{name: "valid", group: "http_client", metric: "requests_total"},
		{name: "empty group allowed", group: "", metric: "requests_total"},
		{name: "empty name", group: "g", metric: "", wantErr: true},
		{name: "dash in name", group: "g", metric: "requests-total", wantErr: true},
		{name: "leading digit in group", group: "1g", metric: "x", wantErr: true},
		{name: "dot in group", group: "http.client", metric: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := metrics.ValidateName(tt.group, tt.metric)
			if tt.wantErr {
				assert.ErrorIs(t, err, metrics.ErrInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewInstrumentConfig(t *testing.T) {
	cfg, err := metrics.NewInstrumentConfig("g", "latency",
		metrics.WithDescription("latency in seconds"),
		metrics.WithUnit(metrics.UnitSeconds),
		metrics.WithLabels("host", "method"),
		metrics.WithBuckets(0.1, 1, 10),
	)
	require.NoError(t, err)

	assert.Equal(t, "latency in seconds", cfg.Description)
	assert.Equal(t, metrics.UnitSeconds, cfg.Unit)
	assert.Equal(t, []string{"host", "method"}, cfg.Labels)
	assert.Equal(t, []float64{0.1, 1, 10}, cfg.Buckets)
	assert.True(t, cfg.HasLabel("host"))
	assert.False(t, cfg.HasLabel("status"))
}

func TestNewInstrumentConfigRejectsUnsortedBuckets(t *testing.T) {
	_, err := metrics.NewInstrumentConfig("g", "latency", metrics.WithBuckets(1, 0.5))
	assert.True(t, errors.Is(err, metrics.ErrInvalidBuckets))

	_, err = metrics.NewInstrumentConfig("g", "latency", metrics.WithBuckets(1, 1))
	assert.ErrorIs(t, err, metrics.ErrInvalidBuckets)
}

func TestNewInstrumentConfigRejectsBadLabel(t *testing.T) {
	_, err := metrics.NewInstrumentConfig("g", "x", metrics.WithLabels("error-class"))
	assert.ErrorIs(t, err, metrics.ErrInvalidName)
}

func TestGroup(t *testing.T) {
	registry := fake.NewRegistry()

	group, err := metrics.NewGroup(registry, "svc")
	require.NoError(t, err)
	assert.Equal(t, "svc", group.Name())

	counter, err := group.Counter("hits_total", metrics.WithLabels("route"))
	require.NoError(t, err)
	counter.Increment(context.Background(), metrics.Labels{"route": "/"})

	got := registry.GetCounter("svc", "hits_total")
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Count(metrics.Labels{"route": "/"}))

	_, err = group.Histogram("bad-name")
	assert.ErrorIs(t, err, metrics.ErrInvalidName)
}

func TestNewGroupValidation(t *testing.T) {
	_, err := metrics.NewGroup(nil, "svc")
	assert.Error(t, err)

	_, err = metrics.NewGroup(fake.NewRegistry(), "bad name")
	assert.ErrorIs(t, err, metrics.ErrInvalidName)
}
