package metrics

import (
	"fmt"
	"slices"
)

// UnitSeconds is the unit used for latency histograms.
const UnitSeconds = "seconds"

// InstrumentConfig carries the static definition of an instrument.
type InstrumentConfig struct {
	Description string
	Unit        string
	Labels      []string
	Buckets     []float64
}

// InstrumentOption configures an instrument at registration time.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets the help text exposed by the backend.
func WithDescription(description string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Description = description
	}
}

// WithUnit sets the instrument unit (for example "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Unit = unit
	}
}

// WithLabels declares the label names every measurement carries.
func WithLabels(names ...string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Labels = append(c.Labels, names...)
	}
}

// WithBuckets sets explicit histogram bucket boundaries. Ignored for counters.
func WithBuckets(buckets ...float64) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Buckets = append([]float64(nil), buckets...)
	}
}

// NewInstrumentConfig applies opts and validates the result for group_name.
func NewInstrumentConfig(group, name string, opts ...InstrumentOption) (InstrumentConfig, error) {
	cfg := InstrumentConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ValidateName(group, name); err != nil {
		return InstrumentConfig{}, err
	}

	for _, label := range cfg.Labels {
		if !namePattern.MatchString(label) {
			return InstrumentConfig{}, fmt.Errorf("%w: label %q on %s", ErrInvalidName, label, FullName(group, name))
		}
	}

	for i := 1; i < len(cfg.Buckets); i++ {
		if cfg.Buckets[i] <= cfg.Buckets[i-1] {
			return InstrumentConfig{}, fmt.Errorf("%w: %s", ErrInvalidBuckets, FullName(group, name))
		}
	}

	return cfg, nil
}

// HasLabel reports whether name was declared on the instrument.
func (c InstrumentConfig) HasLabel(name string) bool {
	return slices.Contains(c.Labels, name)
}
