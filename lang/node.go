package lang

import "strings"

// Node is one vertex of a parse tree. Every Node belongs to exactly one
// tree, and exactly one Node in a tree is the root at any time
// (ownership shifts during construction when attach rotates subtrees).
type Node interface {
	// Evaluate computes the node's value post-order. Every forward
	// reference in UsedNames must be resolved before Evaluate is
	// called; Ready reports whether that holds.
	Evaluate(reg *Registry, ctx Context) (any, error)

	// UsedNames returns the forward-reference names used transitively
	// by this node and its descendants.
	UsedNames() []string

	// Ready reports whether every used name currently has a concrete
	// value in the registry.
	Ready(reg *Registry) bool

	// String returns the canonical, fully parenthesized form.
	String() string

	priority() int
}

// Terminal wraps a raw trimmed substring. It evaluates to a bool, an
// int64, a float64, a string, a context-provided symbol value, or, if
// its text exactly matches a subscribed forward-reference name, the
// registry's current value for that name.
type Terminal struct {
	raw  string
	used []string
}

// NewTerminal creates a Terminal from raw text. If the trimmed text
// matches a name currently subscribed in reg, the terminal records it
// as a used forward reference.
func NewTerminal(raw string, reg *Registry) *Terminal {
	t := &Terminal{raw: strings.TrimSpace(raw)}
	if reg.Known(t.raw) {
		t.used = []string{t.raw}
	}

	return t
}

// Evaluate resolves the terminal's text per the literal resolution
// order: registry name, bool, int, float, context symbol, string.
func (t *Terminal) Evaluate(reg *Registry, ctx Context) (any, error) {
	return resolveLiteral(t.raw, reg, ctx)
}

// UsedNames returns the forward-reference names used by this terminal.
func (t *Terminal) UsedNames() []string { return t.used }

// Ready reports whether every used name is resolved in reg.
func (t *Terminal) Ready(reg *Registry) bool {
	for _, name := range t.used {
		if !reg.Resolved(name) {
			return false
		}
	}

	return true
}

// String returns the terminal's raw text.
func (t *Terminal) String() string { return t.raw }

func (t *Terminal) priority() int { return prioPass }
