package metrics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidName is returned when a group or instrument name is not a valid metric identifier.
	ErrInvalidName = errors.New("metrics: invalid metric name")

	// ErrInvalidBuckets is returned when histogram buckets are not strictly increasing.
	ErrInvalidBuckets = errors.New("metrics: histogram buckets must be strictly increasing")
)

var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Labels is the set of dimension values attached to a single measurement.
type Labels map[string]string

// Registry creates named instruments grouped under a common prefix.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Counter returns a counter registered as group_name.
	Counter(group, name string, opts ...InstrumentOption) (Counter, error)

	// Histogram returns a histogram registered as group_name.
	Histogram(group, name string, opts ...InstrumentOption) (Histogram, error)
}

// Counter is a monotonically increasing metric.
type Counter interface {
	// Increment increments the counter by 1.
	Increment(ctx context.Context, labels Labels)

	// Add increments the counter by value.
	Add(ctx context.Context, value int64, labels Labels)
}

// Histogram records a distribution of values into fixed buckets.
type Histogram interface {
	// Measure records a single observation.
	Measure(ctx context.Context, labels Labels, value float64)
}

// FullName joins a group and an instrument name the way every backend exposes them.
func FullName(group, name string) string {
	if group == "" {
		return name
	}
	return group + "_" + name
}

// ValidateName reports whether group and name can be used as a metric identifier.
func ValidateName(group, name string) error {
	if group != "" && !namePattern.MatchString(group) {
		return fmt.Errorf("%w: group %q", ErrInvalidName, group)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
