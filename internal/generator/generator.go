// Package generator provides the pseudo-random number sources evaluated by
// the statistical battery.
// GLI-19 §3.2: General RNG Requirements — candidate generators under review
//
// A Source produces a deterministic sequence of 32-bit values from an
// internal state, advanced one value per call. Sources are not safe for
// concurrent use; each evaluation owns its source.
package generator

import (
	"fmt"
	"sort"
)

// Source is a deterministic stream of unsigned 32-bit values.
type Source interface {
	// Next advances the internal state and returns the next value.
	Next() uint32

	// Name identifies the algorithm for reports and the API registry.
	Name() string
}

// Fill draws len(buf) consecutive values from src into buf.
func Fill(src Source, buf []uint32) {
	for i := range buf {
		buf[i] = src.Next()
	}
}

// Factory constructs a seeded source. Algorithms with 32-bit state truncate
// the seed.
type Factory func(seed uint64) Source

// Registry maps algorithm names to seeded factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry pre-populated with the built-in
// deterministic generators.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(NameLCG, func(seed uint64) Source { return NewLCG(uint32(seed)) })
	r.Register(NameXORShift32, func(seed uint64) Source { return NewXORShift32(uint32(seed)) })
	r.Register(NameMWC, func(seed uint64) Source { return NewMWC(seed) })
	return r
}

// Register adds a factory under the given name, replacing any previous entry.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New constructs a seeded source by algorithm name.
func (r *Registry) New(name string, seed uint64) (Source, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q", name)
	}
	return f(seed), nil
}

// Names returns the registered algorithm names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
