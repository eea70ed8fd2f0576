package lang

import (
	"log/slog"
	"strings"
)

// List is a sequence of sibling expressions produced by splitting input
// on commas outside any parenthesized group. It evaluates to a []any
// holding each item's value in order.
type List struct {
	items []Node
}

// parseList splits s on its top-level commas and parses each piece.
func parseList(s string, reg *Registry, ctx Context) (Node, error) {
	parts := splitTopLevel(s)
	items := make([]Node, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return nil, ErrEmptyExpression.With(slog.String("text", s))
		}

		item, err := parseSegment(part, reg, ctx)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return &List{items: items}, nil
}

// Items returns the list's parsed elements in order.
func (l *List) Items() []Node { return l.items }

// Evaluate returns the items' values as a []any, in order.
func (l *List) Evaluate(reg *Registry, ctx Context) (any, error) {
	values := make([]any, len(l.items))

	for i, item := range l.items {
		v, err := item.Evaluate(reg, ctx)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	return values, nil
}

// UsedNames returns the union of the items' used names, preserving
// first-use order.
func (l *List) UsedNames() []string {
	var names []string

	seen := make(map[string]bool)

	for _, item := range l.items {
		for _, name := range item.UsedNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// Ready reports whether every used name is resolved in reg.
func (l *List) Ready(reg *Registry) bool {
	for _, item := range l.items {
		if !item.Ready(reg) {
			return false
		}
	}

	return true
}

// String joins the items' canonical forms with ", ".
func (l *List) String() string {
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		parts[i] = item.String()
	}

	return strings.Join(parts, ", ")
}

func (l *List) priority() int { return prioPass }

// hasTopLevelComma reports whether s contains a comma outside every
// parenthesized group and quoted region.
func hasTopLevelComma(s string) bool {
	depth := 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return true
			}
		}
	}

	return false
}

// splitTopLevel splits s on commas outside parenthesized groups and
// quoted regions.
func splitTopLevel(s string) []string {
	var parts []string

	depth, start := 0, 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}
