package otel

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

// Registry implements metrics.Registry using an OpenTelemetry meter.
// Instruments are created once and reused, so repeated registration is safe.
type Registry struct {
	meter metric.Meter

	mu         sync.Mutex
	counters   map[string]*otelCounter
	histograms map[string]*otelHistogram
}

// NewRegistry creates a registry that records on meter.
func NewRegistry(meter metric.Meter) (*Registry, error) {
	if meter == nil {
		return nil, fmt.Errorf("otel: meter cannot be nil")
	}

	return &Registry{
		meter:      meter,
		counters:   make(map[string]*otelCounter),
		histograms: make(map[string]*otelHistogram),
	}, nil
}

// Counter creates or returns an Int64Counter named group_name.
func (r *Registry) Counter(group, name string, opts ...metrics.InstrumentOption) (metrics.Counter, error) {
	cfg, err := metrics.NewInstrumentConfig(group, name, opts...)
	if err != nil {
		return nil, err
	}

	key := metrics.FullName(group, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[key]; ok {
		return c, nil
	}

	counter, err := r.meter.Int64Counter(
		key,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(unitSymbol(cfg.Unit)),
	)
	if err != nil {
		return nil, fmt.Errorf("otel: create counter %s: %w", key, err)
	}

	c := &otelCounter{counter: counter}
	r.counters[key] = c
	return c, nil
}

// Histogram creates or returns a Float64Histogram named group_name with the
// configured explicit bucket boundaries.
func (r *Registry) Histogram(group, name string, opts ...metrics.InstrumentOption) (metrics.Histogram, error) {
	cfg, err := metrics.NewInstrumentConfig(group, name, opts...)
	if err != nil {
		return nil, err
	}

	key := metrics.FullName(group, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.histograms[key]; ok {
		return h, nil
	}

	histogramOpts := []metric.Float64HistogramOption{
		metric.WithDescription(cfg.Description),
		metric.WithUnit(unitSymbol(cfg.Unit)),
	}
	if len(cfg.Buckets) > 0 {
		histogramOpts = append(histogramOpts, metric.WithExplicitBucketBoundaries(cfg.Buckets...))
	}

	histogram, err := r.meter.Float64Histogram(key, histogramOpts...)
	if err != nil {
		return nil, fmt.Errorf("otel: create histogram %s: %w", key, err)
	}

	h := &otelHistogram{histogram: histogram}
	r.histograms[key] = h
	return h, nil
}

// unitSymbol maps unit names to UCUM symbols expected by OTel exporters.
func unitSymbol(unit string) string {
	switch unit {
	case metrics.UnitSeconds:
		return "s"
	case "milliseconds":
		return "ms"
	case "bytes":
		return "By"
	default:
		return unit
	}
}

// otelCounter implements metrics.Counter.
type otelCounter struct {
	counter metric.Int64Counter
}

func (c *otelCounter) Increment(ctx context.Context, labels metrics.Labels) {
	c.Add(ctx, 1, labels)
}

func (c *otelCounter) Add(ctx context.Context, value int64, labels metrics.Labels) {
	if len(labels) == 0 {
		c.counter.Add(ctx, value)
		return
	}

	c.counter.Add(ctx, value, metric.WithAttributes(convertLabelsToAttributes(labels)...))
}

// otelHistogram implements metrics.Histogram.
type otelHistogram struct {
	histogram metric.Float64Histogram
}

func (h *otelHistogram) Measure(ctx context.Context, labels metrics.Labels, value float64) {
	if len(labels) == 0 {
		h.histogram.Record(ctx, value)
		return
	}

	h.histogram.Record(ctx, value, metric.WithAttributes(convertLabelsToAttributes(labels)...))
}
