package lang

import "slices"

// Context supplies values for the reserved coordinate symbols. Hosts
// that evaluate expressions over a spatial domain provide one; when no
// Context is supplied the reserved names fall through to plain string
// terminals.
type Context interface {
	// Lookup returns the value bound to a reserved symbol name.
	Lookup(name string) (any, bool)
}

// contextSymbols is the fixed set of reserved names a Context may
// provide. Ordered longest-first so prefix matching prefers "x[0]"
// over "x".
//
//nolint:gochecknoglobals
var contextSymbols = []string{"x[0]", "x[1]", "x[2]", "x", "y", "z"}

// ContextSymbols returns the reserved context symbol names.
func ContextSymbols() []string {
	return slices.Clone(contextSymbols)
}

func isContextSymbol(s string) bool {
	return slices.Contains(contextSymbols, s)
}

// Arithmetic lets externally built values (for example, spatial fields
// produced by a builder) participate in binary operators. Apply is
// invoked with the operator's display symbol and the other operand;
// rhs is true when the receiver appeared on the right-hand side.
type Arithmetic interface {
	Apply(op string, other any, rhs bool) (any, error)
}

// Mapper lets externally built values pass through the unary math
// functions and negation. Map is invoked with the function's display
// name and its pointwise float implementation.
type Mapper interface {
	Map(name string, fn func(float64) float64) (any, error)
}
