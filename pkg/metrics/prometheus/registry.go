// Package prometheus exposes metrics.Registry instruments as Prometheus collectors.
//
// Each group becomes the metric namespace, so the counter "requests_total" in the
// group "http_client" is exported as http_client_requests_total. Histograms with
// unit metrics.UnitSeconds get a "_seconds" suffix when the name lacks one.
package prometheus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

// Registry implements metrics.Registry on top of a prometheus.Registerer.
type Registry struct {
	registerer prom.Registerer

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

// NewRegistry creates a registry that registers collectors on registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewRegistry(registerer prom.Registerer) *Registry {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	return &Registry{
		registerer: registerer,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

// Counter registers (or reuses) a CounterVec named group_name.
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

	vec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: group,
		Name:      name,
		Help:      helpText(cfg, key),
	}, cfg.Labels)

	if err := r.registerer.Register(vec); err != nil {
		var already prom.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("prometheus: register counter %s: %w", key, err)
		}
		existing, ok := already.ExistingCollector.(*prom.CounterVec)
		if !ok {
			return nil, fmt.Errorf("prometheus: %s already registered with a different type", key)
		}
		vec = existing
	}

	c := &counter{vec: vec}
	r.counters[key] = c
	return c, nil
}

// Histogram registers (or reuses) a HistogramVec named group_name.
// Without explicit buckets prometheus.DefBuckets are used.
func (r *Registry) Histogram(group, name string, opts ...metrics.InstrumentOption) (metrics.Histogram, error) {
	cfg, err := metrics.NewInstrumentConfig(group, name, opts...)
	if err != nil {
		return nil, err
	}

	name = withUnitSuffix(name, cfg.Unit)
	key := metrics.FullName(group, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.histograms[key]; ok {
		return h, nil
	}

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	vec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: group,
		Name:      name,
		Help:      helpText(cfg, key),
		Buckets:   buckets,
	}, cfg.Labels)

	if err := r.registerer.Register(vec); err != nil {
		var already prom.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("prometheus: register histogram %s: %w", key, err)
		}
		existing, ok := already.ExistingCollector.(*prom.HistogramVec)
		if !ok {
			return nil, fmt.Errorf("prometheus: %s already registered with a different type", key)
		}
		vec = existing
	}

	h := &histogram{vec: vec}
	r.histograms[key] = h
	return h, nil
}

func helpText(cfg metrics.InstrumentConfig, fallback string) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return fallback
}

func withUnitSuffix(name, unit string) string {
	if unit != metrics.UnitSeconds || strings.HasSuffix(name, "_seconds") {
		return name
	}
	return name + "_seconds"
}

// counter adapts a CounterVec. Labels that do not match the declared
// label names make client_golang panic; the panic is not recovered here.
type counter struct {
	vec *prom.CounterVec
}

func (c *counter) Increment(ctx context.Context, labels metrics.Labels) {
	c.vec.With(prom.Labels(labels)).Inc()
}

func (c *counter) Add(ctx context.Context, value int64, labels metrics.Labels) {
	c.vec.With(prom.Labels(labels)).Add(float64(value))
}

type histogram struct {
	vec *prom.HistogramVec
}

func (h *histogram) Measure(ctx context.Context, labels metrics.Labels, value float64) {
	h.vec.With(prom.Labels(labels)).Observe(value)
}
