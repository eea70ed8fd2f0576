package builder

import (
	"log/slog"
	"math"

	"github.com/mhollis/cfgexpr/lang"
)

// Field is a pointwise scalar field over spatial coordinates. Fields
// are immutable: combining a field with a scalar or another field
// produces a new field that evaluates both operands at the same point.
type Field struct {
	fn   func([]float64) float64
	desc string
}

// NewField creates a field from a description and its pointwise
// implementation.
func NewField(desc string, fn func([]float64) float64) *Field {
	return &Field{fn: fn, desc: desc}
}

// At evaluates the field at the given coordinates.
func (f *Field) At(p []float64) float64 { return f.fn(p) }

// String returns the field's printable description.
func (f *Field) String() string { return f.desc }

// MarshalYAML renders the field as its description, so processed
// sections containing fields serialize cleanly.
func (f *Field) MarshalYAML() (any, error) { return f.desc, nil }

// Apply implements [lang.Arithmetic]. The other operand may be a
// numeric scalar or another Field. Scientific notation is not defined
// on fields.
func (f *Field) Apply(op string, other any, rhs bool) (any, error) {
	var (
		fn   func([]float64) float64
		desc string
	)

	switch v := other.(type) {
	case int64:
		fn = func([]float64) float64 { return float64(v) }
		desc = lang.FormatValue(v)
	case float64:
		fn = func([]float64) float64 { return v }
		desc = lang.FormatValue(v)
	case *Field:
		fn = v.fn
		desc = v.desc
	default:
		return nil, ErrFieldOperand.With(
			slog.String("operator", op),
			slog.String("field", f.desc),
		)
	}

	combine, ok := fieldOps[op]
	if !ok {
		return nil, ErrFieldOperand.With(
			slog.String("operator", op),
			slog.String("field", f.desc),
		)
	}

	l, r := f.fn, fn
	ldesc, rdesc := f.desc, desc

	if rhs {
		l, r = r, l
		ldesc, rdesc = rdesc, ldesc
	}

	return &Field{
		fn:   func(p []float64) float64 { return combine(l(p), r(p)) },
		desc: "(" + ldesc + op + rdesc + ")",
	}, nil
}

// Map implements [lang.Mapper]: unary functions and negation apply
// pointwise to the field's output.
func (f *Field) Map(name string, fn func(float64) float64) (any, error) {
	inner := f.fn

	desc := name + "(" + f.desc + ")"
	if name == "-" {
		desc = "-" + f.desc
	}

	return &Field{
		fn:   func(p []float64) float64 { return fn(inner(p)) },
		desc: desc,
	}, nil
}

//nolint:gochecknoglobals
var fieldOps = map[string]func(l, r float64) float64{
	"+": func(l, r float64) float64 { return l + r },
	"-": func(l, r float64) float64 { return l - r },
	"*": func(l, r float64) float64 { return l * r },
	"/": func(l, r float64) float64 { return l / r },
	"^": math.Pow,
}
