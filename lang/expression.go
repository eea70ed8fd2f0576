package lang

import "log/slog"

// Expression is an interior node: an operator with an optional left
// child and an optional right child. A leaf Expression with the
// pass-through operator degenerates to its left child's value.
type Expression struct {
	op    operator
	left  Node
	right Node
}

// Evaluate walks the tree post-order: children first, then the node's
// operator function. Function nodes apply to the right child only, and
// the pass-through operator returns the left child's value unchanged.
func (e *Expression) Evaluate(reg *Registry, ctx Context) (any, error) {
	switch {
	case e.op.kind == OpPass:
		if e.left == nil {
			return nil, ErrMissingOperand.With(slog.String("expression", e.String()))
		}

		return e.left.Evaluate(reg, ctx)

	case e.op.kind == OpNeg:
		v, err := e.rightValue(reg, ctx)
		if err != nil {
			return nil, err
		}

		return e.negate(v)

	case e.op.isFunc():
		v, err := e.rightValue(reg, ctx)
		if err != nil {
			return nil, err
		}

		return e.call(v)

	default:
		return e.binary(reg, ctx)
	}
}

func (e *Expression) rightValue(reg *Registry, ctx Context) (any, error) {
	if e.right == nil {
		return nil, ErrMissingOperand.With(slog.String("expression", e.String()))
	}

	return e.right.Evaluate(reg, ctx)
}

func (e *Expression) negate(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return -n, nil
	case float64:
		return -n, nil
	}

	if m, ok := v.(Mapper); ok {
		return m.Map("-", func(x float64) float64 { return -x })
	}

	return nil, e.malformed(typeError("-", nil, v))
}

func (e *Expression) call(v any) (any, error) {
	fn := funcTable[e.op.kind]

	switch n := v.(type) {
	case int64:
		if e.op.kind == OpAbs {
			if n < 0 {
				return -n, nil
			}

			return n, nil
		}

		return fn(float64(n)), nil

	case float64:
		return fn(n), nil
	}

	if m, ok := v.(Mapper); ok {
		return m.Map(e.op.symbol, fn)
	}

	return nil, e.malformed(typeError(e.op.symbol, nil, v))
}

func (e *Expression) binary(reg *Registry, ctx Context) (any, error) {
	if e.left == nil || e.right == nil {
		return nil, ErrMissingOperand.With(slog.String("expression", e.String()))
	}

	l, err := e.left.Evaluate(reg, ctx)
	if err != nil {
		return nil, err
	}

	r, err := e.right.Evaluate(reg, ctx)
	if err != nil {
		return nil, err
	}

	// External operands take over dispatch for their own arithmetic.
	if a, ok := l.(Arithmetic); ok {
		return a.Apply(e.op.symbol, r, false)
	}

	if a, ok := r.(Arithmetic); ok {
		return a.Apply(e.op.symbol, l, true)
	}

	v, err := e.op.apply(l, r)
	if err != nil {
		return nil, e.malformed(err)
	}

	return v, nil
}

// malformed tags an evaluation failure with the canonical string form
// of the offending subexpression.
func (e *Expression) malformed(err error) error {
	return ErrMalformedExpression.Wrap(err).
		With(slog.String("expression", e.String()))
}

// UsedNames returns the union of the children's used names, preserving
// first-use order.
func (e *Expression) UsedNames() []string {
	var names []string

	seen := make(map[string]bool)

	for _, child := range []Node{e.left, e.right} {
		if child == nil {
			continue
		}

		for _, name := range child.UsedNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// Ready reports whether every used name is resolved in reg.
func (e *Expression) Ready(reg *Registry) bool {
	for _, name := range e.UsedNames() {
		if !reg.Resolved(name) {
			return false
		}
	}

	return true
}

// String returns the canonical, fully parenthesized form: binary nodes
// print as "(left<op>right)", negation as "-right", function calls as
// "name(right)", and pass-through nodes print their operand's own form
// (so a parenthesized group reproduces the group's parentheses).
func (e *Expression) String() string {
	switch {
	case e.op.kind == OpPass:
		if e.left == nil {
			return ""
		}

		return e.left.String()

	case e.op.kind == OpNeg:
		if e.right == nil {
			return "-"
		}

		return "-" + e.right.String()

	case e.op.isFunc():
		if e.right == nil {
			return e.op.symbol + "()"
		}

		return e.op.symbol + "(" + stripOuterParens(e.right.String()) + ")"

	default:
		var l, r string
		if e.left != nil {
			l = e.left.String()
		}

		if e.right != nil {
			r = e.right.String()
		}

		return "(" + l + e.op.symbol + r + ")"
	}
}

func (e *Expression) priority() int { return e.op.prio }
