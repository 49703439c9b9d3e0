package metrics

import "fmt"

// Group registers instruments under a shared prefix on a Registry.
type Group struct {
	name     string
	registry Registry
}

// NewGroup returns a Group writing to registry. The name must be a valid metric identifier.
func NewGroup(registry Registry, name string) (*Group, error) {
	if registry == nil {
		return nil, fmt.Errorf("metrics: registry cannot be nil")
	}
	if err := ValidateName("", name); err != nil {
		return nil, err
	}
	return &Group{name: name, registry: registry}, nil
}

// Name returns the group prefix.
func (g *Group) Name() string {
	return g.name
}

// Counter registers a counter in the group.
func (g *Group) Counter(name string, opts ...InstrumentOption) (Counter, error) {
	c, err := g.registry.Counter(g.name, name, opts...)
	if err != nil {
		return nil, fmt.Errorf("metrics: register counter %s: %w", FullName(g.name, name), err)
	}
	return c, nil
}

// Histogram registers a histogram in the group.
func (g *Group) Histogram(name string, opts ...InstrumentOption) (Histogram, error) {
	h, err := g.registry.Histogram(g.name, name, opts...)
	if err != nil {
		return nil, fmt.Errorf("metrics: register histogram %s: %w", FullName(g.name, name), err)
	}
	return h, nil
}
