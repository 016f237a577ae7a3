package probe

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

type entry struct {
	probe  Probe
	status Status
}

// Registry holds the probe set and the runtime status of each probe. The set
// is built once at startup; statuses change on every poll.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds p. Names must be unique and intervals positive.
func (r *Registry) Register(p Probe) error {
	name := p.Name()
	if every := p.Interval(); every <= 0 {
		return fmt.Errorf("probe %q: interval must be positive, got %v", name, every)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("probe %q already registered", name)
	}
	r.entries[name] = &entry{probe: p, status: Status{Name: name, Healthy: true}}
	return nil
}

// Get looks up a probe by name.
func (r *Registry) Get(name string) (Probe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.probe, true
	}
	return nil, false
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Status returns a copy of the named probe's status.
func (r *Registry) Status(name string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.status, true
	}
	return Status{}, false
}

// AllStatus copies every status, sorted by probe name.
func (r *Registry) AllStatus() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.status)
	}
	slices.SortFunc(out, func(a, b Status) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// record applies fn to the named probe's status under the write lock.
func (r *Registry) record(name string, fn func(*Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		fn(&e.status)
	}
}

// probes returns the registered probes in name order.
func (r *Registry) probes() []Probe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Probe, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.probe)
	}
	slices.SortFunc(out, func(a, b Probe) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}
