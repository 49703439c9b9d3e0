package noop

import (
	"context"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

// Registry is a metrics.Registry with zero runtime overhead.
// Use this when you want to disable metrics completely.
type Registry struct{}

// NewRegistry creates a new no-op registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Counter returns a no-op counter. The definition is still validated.
func (r *Registry) Counter(group, name string, opts ...metrics.InstrumentOption) (metrics.Counter, error) {
	if _, err := metrics.NewInstrumentConfig(group, name, opts...); err != nil {
		return nil, err
	}
	return noopCounter{}, nil
}

// Histogram returns a no-op histogram. The definition is still validated.
func (r *Registry) Histogram(group, name string, opts ...metrics.InstrumentOption) (metrics.Histogram, error) {
	if _, err := metrics.NewInstrumentConfig(group, name, opts...); err != nil {
		return nil, err
	}
	return noopHistogram{}, nil
}

type noopCounter struct{}

func (noopCounter) Increment(ctx context.Context, labels metrics.Labels) {}

func (noopCounter) Add(ctx context.Context, value int64, labels metrics.Labels) {}

type noopHistogram struct{}

func (noopHistogram) Measure(ctx context.Context, labels metrics.Labels, value float64) {}
