package lang

import (
	"log/slog"
	"sort"
)

// Registry is the forward-reference symbol table for one configuration
// section. Names are subscribed once, either as unresolved placeholders
// or with an immediate value, and updated exactly once with a concrete
// value. Entries are never removed except by Clear.
//
// A Registry is not safe for concurrent use; hosts processing sections
// from multiple goroutines must serialize access or use one Registry
// per section.
type Registry struct {
	entries map[string]entry
}

type entry struct {
	value    any
	resolved bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Subscribe registers name as an unresolved placeholder so that parsed
// expressions recognize it as a forward reference. Subscribing a name
// twice is a configuration error.
func (g *Registry) Subscribe(name string) error {
	if _, exists := g.entries[name]; exists {
		return ErrDuplicateName.With(slog.String("name", name))
	}

	g.entries[name] = entry{}

	return nil
}

// SubscribeValue registers name with an immediately concrete value.
func (g *Registry) SubscribeValue(name string, value any) error {
	if _, exists := g.entries[name]; exists {
		return ErrDuplicateName.With(slog.String("name", name))
	}

	g.entries[name] = entry{value: value, resolved: true}

	return nil
}

// Update resolves a previously subscribed name to a concrete value.
// Updating a name that was never subscribed is a programmer error.
func (g *Registry) Update(name string, value any) error {
	if _, exists := g.entries[name]; !exists {
		return ErrUnknownName.With(slog.String("name", name))
	}

	g.entries[name] = entry{value: value, resolved: true}

	return nil
}

// Known reports whether name has been subscribed, resolved or not.
// The parser uses this to recognize forward references.
func (g *Registry) Known(name string) bool {
	if g == nil {
		return false
	}

	_, exists := g.entries[name]

	return exists
}

// Resolved reports whether name currently has a concrete value.
func (g *Registry) Resolved(name string) bool {
	if g == nil {
		return false
	}

	return g.entries[name].resolved
}

// Value returns the concrete value for name. The second result is false
// if the name is unknown or still a placeholder.
func (g *Registry) Value(name string) (any, bool) {
	if g == nil {
		return nil, false
	}

	e, exists := g.entries[name]
	if !exists || !e.resolved {
		return nil, false
	}

	return e.value, true
}

// Names returns all subscribed names in sorted order.
func (g *Registry) Names() []string {
	if g == nil {
		return nil
	}

	names := make([]string, 0, len(g.entries))
	for name := range g.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Clear removes every entry. Callers must clear the registry before
// processing an unrelated configuration section to prevent stale
// forward references from leaking across sections.
func (g *Registry) Clear() {
	clear(g.entries)
}
