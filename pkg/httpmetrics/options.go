package httpmetrics

import "go.uber.org/zap"

// Option configures an Instrumentor.
type Option func(*Instrumentor)

// WithGroup overrides the metric group. Default: DefaultGroup.
func WithGroup(name string) Option {
	return func(i *Instrumentor) {
		i.group = name
	}
}

// WithClock replaces the system clock, typically with a controllable one in tests.
func WithClock(clock Clock) Option {
	return func(i *Instrumentor) {
		if clock != nil {
			i.clock = clock
		}
	}
}

// WithLogger sets the logger used when instrumenting sessions.
// Default: zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(i *Instrumentor) {
		if logger != nil {
			i.logger = logger
		}
	}
}
