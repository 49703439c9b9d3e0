package otel

import (
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

// convertLabelsToAttributes converts labels to OTel attributes ordered by key.
// Returns nil for empty label sets to avoid unnecessary allocations.
func convertLabelsToAttributes(labels metrics.Labels) []attribute.KeyValue {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	attrs := make([]attribute.KeyValue, len(keys))
	for i, k := range keys {
		attrs[i] = attribute.String(k, labels[k])
	}
	return attrs
}
