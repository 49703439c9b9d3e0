package fake

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

// Registry implements metrics.Registry in memory for testing purposes.
// It captures every measurement so it can be inspected in tests.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	histograms map[string]*Histogram
}

// NewRegistry creates a new fake registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		histograms: make(map[string]*Histogram),
	}
}

// Counter returns or creates a fake counter.
func (r *Registry) Counter(group, name string, opts ...metrics.InstrumentOption) (metrics.Counter, error) {
	cfg, err := metrics.NewInstrumentConfig(group, name, opts...)
	if err != nil {
		return nil, err
	}

	key := metrics.FullName(group, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, exists := r.counters[key]; exists {
		return c, nil
	}

	c := &Counter{Name: key, Config: cfg}
	r.counters[key] = c
	return c, nil
}

// Histogram returns or creates a fake histogram.
func (r *Registry) Histogram(group, name string, opts ...metrics.InstrumentOption) (metrics.Histogram, error) {
	cfg, err := metrics.NewInstrumentConfig(group, name, opts...)
	if err != nil {
		return nil, err
	}

	key := metrics.FullName(group, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, exists := r.histograms[key]; exists {
		return h, nil
	}

	h := &Histogram{Name: key, Config: cfg}
	r.histograms[key] = h
	return h, nil
}

// GetCounter returns a counter by group and name for test assertions.
func (r *Registry) GetCounter(group, name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[metrics.FullName(group, name)]
}

// GetHistogram returns a histogram by group and name for test assertions.
func (r *Registry) GetHistogram(group, name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[metrics.FullName(group, name)]
}

// Reset clears all captured measurements but keeps the registered instruments.
func (r *Registry) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.counters {
		c.reset()
	}
	for _, h := range r.histograms {
		h.reset()
	}
}

// Counter captures counter operations.
type Counter struct {
	mu     sync.RWMutex
	Name   string
	Config metrics.InstrumentConfig
	values []CounterValue
}

// CounterValue represents a captured counter increment.
type CounterValue struct {
	Value     int64
	Labels    metrics.Labels
	Timestamp time.Time
}

// Increment increments the counter by 1.
func (c *Counter) Increment(ctx context.Context, labels metrics.Labels) {
	c.Add(ctx, 1, labels)
}

// Add captures a counter increment.
func (c *Counter) Add(ctx context.Context, value int64, labels metrics.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, CounterValue{
		Value:     value,
		Labels:    maps.Clone(labels),
		Timestamp: time.Now(),
	})
}

// GetValues returns all captured values.
func (c *Counter) GetValues() []CounterValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CounterValue, len(c.values))
	copy(result, c.values)
	return result
}

// Count returns the sum of increments whose labels equal labels exactly.
func (c *Counter) Count(labels metrics.Labels) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, v := range c.values {
		if maps.Equal(v.Labels, labels) {
			total += v.Value
		}
	}
	return total
}

// Total returns the sum of all increments regardless of labels.
func (c *Counter) Total() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, v := range c.values {
		total += v.Value
	}
	return total
}

func (c *Counter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = nil
}

// Histogram captures histogram operations.
type Histogram struct {
	mu     sync.RWMutex
	Name   string
	Config metrics.InstrumentConfig
	values []HistogramValue
}

// HistogramValue represents a captured observation.
type HistogramValue struct {
	Value     float64
	Labels    metrics.Labels
	Timestamp time.Time
}

// Measure captures an observation.
func (h *Histogram) Measure(ctx context.Context, labels metrics.Labels, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, HistogramValue{
		Value:     value,
		Labels:    maps.Clone(labels),
		Timestamp: time.Now(),
	})
}

// GetValues returns all captured observations.
func (h *Histogram) GetValues() []HistogramValue {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]HistogramValue, len(h.values))
	copy(result, h.values)
	return result
}

// Observations returns the observed values whose labels equal labels exactly.
func (h *Histogram) Observations(labels metrics.Labels) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var result []float64
	for _, v := range h.values {
		if maps.Equal(v.Labels, labels) {
			result = append(result, v.Value)
		}
	}
	return result
}

func (h *Histogram) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = nil
}
