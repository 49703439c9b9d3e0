package httpmetrics

import "time"

// Clock supplies the instants used to time request attempts.
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock. The returned times carry a monotonic
// reading, so durations computed with Sub are immune to wall clock changes.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
