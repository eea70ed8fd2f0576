package builder

import (
	"fmt"
	"log/slog"

	"github.com/mhollis/cfgexpr/lang"
)

// condition assembles a stepped indicator field: 1 where the comparison
// between lhs and rhs holds, 0 elsewhere. The operands accept a numeric
// scalar or a field, and the operator accepts both symbol and word
// forms ("<", "<=", ">", ">=", "=", "==", "!=", "~=", "lt", "le", "gt",
// "ge", "eq", "ne").
type condition struct {
	operator *string
	lhs, rhs *operand
}

// operand is one side of the comparison, evaluated pointwise.
type operand struct {
	at   func([]float64) float64
	desc string
}

func (c *condition) Assign(name string, value any) error {
	switch name {
	case "operator":
		s, ok := value.(string)
		if !ok {
			return c.invalid(name)
		}

		c.operator = &s

		return nil

	case "lhs":
		o, ok := conditionOperand(value)
		if !ok {
			return c.invalid(name)
		}

		c.lhs = &o

		return nil

	case "rhs":
		o, ok := conditionOperand(value)
		if !ok {
			return c.invalid(name)
		}

		c.rhs = &o

		return nil

	default:
		return ErrUnknownProperty.With(
			slog.String("type", "condition"),
			slog.String("property", name),
		)
	}
}

func (c *condition) invalid(name string) error {
	return ErrInvalidProperty.With(
		slog.String("type", "condition"),
		slog.String("property", name),
	)
}

func (c *condition) Build() (any, error) {
	for name, missing := range map[string]bool{
		"operator": c.operator == nil,
		"lhs":      c.lhs == nil,
		"rhs":      c.rhs == nil,
	} {
		if missing {
			return nil, ErrMissingProperty.With(
				slog.String("type", "condition"),
				slog.String("property", name),
			)
		}
	}

	cmp, ok := conditionOps[*c.operator]
	if !ok {
		return nil, ErrInvalidProperty.With(
			slog.String("type", "condition"),
			slog.String("property", "operator"),
			slog.String("operator", *c.operator),
		)
	}

	lhs, rhs := *c.lhs, *c.rhs

	at := func(p []float64) float64 {
		if cmp(lhs.at(p), rhs.at(p)) {
			return 1
		}

		return 0
	}

	desc := fmt.Sprintf("condition(%s %s %s)", lhs.desc, *c.operator, rhs.desc)

	return NewField(desc, at), nil
}

// conditionOperand widens a comparison operand: a numeric scalar
// becomes a uniform pointwise function, a field contributes its own.
func conditionOperand(v any) (operand, bool) {
	if f, ok := v.(*Field); ok {
		return operand{at: f.fn, desc: f.desc}, true
	}

	n, ok := scalar(v)
	if !ok {
		return operand{}, false
	}

	return operand{
		at:   func([]float64) float64 { return n },
		desc: lang.FormatValue(v),
	}, true
}

//nolint:gochecknoglobals
var conditionOps = map[string]func(l, r float64) bool{
	"<":  func(l, r float64) bool { return l < r },
	"<=": func(l, r float64) bool { return l <= r },
	">":  func(l, r float64) bool { return l > r },
	">=": func(l, r float64) bool { return l >= r },
	"=":  func(l, r float64) bool { return l == r },
	"==": func(l, r float64) bool { return l == r },
	"!=": func(l, r float64) bool { return l != r },
	"~=": func(l, r float64) bool { return l != r },
	"lt": func(l, r float64) bool { return l < r },
	"le": func(l, r float64) bool { return l <= r },
	"gt": func(l, r float64) bool { return l > r },
	"ge": func(l, r float64) bool { return l >= r },
	"eq": func(l, r float64) bool { return l == r },
	"ne": func(l, r float64) bool { return l != r },
}
