package builder

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestBuildConstant(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name  string
		value any
	}{
		{"integer", int64(4)},
		{"float", 4.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.Build("constant", map[string]any{"value": tt.value})
			if err != nil {
				t.Fatalf("build error: %v", err)
			}

			if v != tt.value {
				t.Errorf("expected %v (%T), got %v (%T)", tt.value, tt.value, v, v)
			}
		})
	}
}

func TestBuildConstantErrors(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name  string
		props map[string]any
		want  error
	}{
		{"missing value", map[string]any{}, ErrMissingProperty},
		{"unknown property", map[string]any{"value": int64(1), "extra": int64(2)}, ErrUnknownProperty},
		{"invalid value", map[string]any{"value": "text"}, ErrInvalidProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Build("constant", tt.props); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildGaussian(t *testing.T) {
	f := NewFactory()

	v, err := f.Build("gaussian", map[string]any{
		"mean":  []any{0.5, 0.5, 0.5},
		"sd":    0.5,
		"scale": int64(10),
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	field, ok := v.(*Field)
	if !ok {
		t.Fatalf("expected *Field, got %T", v)
	}

	// At the mean the exponent vanishes and the field equals scale.
	if got := field.At([]float64{0.5, 0.5, 0.5}); math.Abs(got-10) > 1e-12 {
		t.Errorf("expected 10 at the peak, got %v", got)
	}

	// One sd away on a single axis the field drops by exp(-1/2).
	want := 10 * math.Exp(-0.5)
	if got := field.At([]float64{1.0, 0.5, 0.5}); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v one sd off the peak, got %v", want, got)
	}
}

func TestBuildGaussianScalarBroadcast(t *testing.T) {
	f := NewFactory()

	v, err := f.Build("gaussian", map[string]any{
		"mean":  0.0,
		"sd":    1.0,
		"scale": 2.0,
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	field := v.(*Field)

	// The scalar mean and sd stretch to any point dimension.
	for _, p := range [][]float64{{0}, {0, 0}, {0, 0, 0}} {
		if got := field.At(p); math.Abs(got-2.0) > 1e-12 {
			t.Errorf("expected 2.0 at origin of dim %d, got %v", len(p), got)
		}
	}
}

func TestBuildGaussianMissingProperty(t *testing.T) {
	f := NewFactory()

	_, err := f.Build("gaussian", map[string]any{"mean": 0.5, "sd": 0.5})
	if !errors.Is(err, ErrMissingProperty) {
		t.Errorf("expected %v, got %v", ErrMissingProperty, err)
	}
}

func TestBuildUnknownType(t *testing.T) {
	f := NewFactory()

	_, err := f.Build("gausian", map[string]any{})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected %v, got %v", ErrUnknownType, err)
	}

	if got := f.closest("gausian"); got != "gaussian" {
		t.Errorf("expected suggestion %q, got %q", "gaussian", got)
	}
}

func TestRegisterDuplicateType(t *testing.T) {
	f := NewFactory()

	err := f.Register("Constant", func() Instance { return &constant{} })
	if !errors.Is(err, ErrDuplicateType) {
		t.Errorf("expected %v, got %v", ErrDuplicateType, err)
	}
}

func TestFactoryTypes(t *testing.T) {
	got := NewFactory().Types()
	want := []string{"condition", "constant", "gaussian"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestBuildCondition(t *testing.T) {
	f := NewFactory()

	field := NewField("f", func(p []float64) float64 { return p[0] })

	v, err := f.Build("condition", map[string]any{
		"lhs":      field,
		"operator": "<",
		"rhs":      0.5,
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	cond, ok := v.(*Field)
	if !ok {
		t.Fatalf("expected *Field, got %T", v)
	}

	if got := cond.At([]float64{0.2}); got != 1 {
		t.Errorf("expected 1 where the comparison holds, got %v", got)
	}

	if got := cond.At([]float64{0.9}); got != 0 {
		t.Errorf("expected 0 where the comparison fails, got %v", got)
	}

	if got := cond.String(); got != "condition(f < 0.5)" {
		t.Errorf("expected %q, got %q", "condition(f < 0.5)", got)
	}
}

func TestBuildConditionOperators(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		op   string
		l, r any
		want float64
	}{
		{"<", 1.0, 2.0, 1},
		{"<=", 2.0, 2.0, 1},
		{">", 1.0, 2.0, 0},
		{">=", 2.0, 2.0, 1},
		{"=", 3.0, 3.0, 1},
		{"==", 3.0, 4.0, 0},
		{"!=", 3.0, 4.0, 1},
		{"~=", 3.0, 3.0, 0},
		{"lt", 1.0, 2.0, 1},
		{"le", 3.0, 2.0, 0},
		{"gt", int64(3), int64(2), 1},
		{"ge", 1.0, 2.0, 0},
		{"eq", int64(2), 2.0, 1},
		{"ne", 2.0, 2.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			v, err := f.Build("condition", map[string]any{
				"lhs":      tt.l,
				"operator": tt.op,
				"rhs":      tt.r,
			})
			if err != nil {
				t.Fatalf("build error: %v", err)
			}

			if got := v.(*Field).At(nil); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildConditionErrors(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name  string
		props map[string]any
		want  error
	}{
		{
			"unknown operator",
			map[string]any{"lhs": 1.0, "operator": "<>", "rhs": 2.0},
			ErrInvalidProperty,
		},
		{
			"operator not a string",
			map[string]any{"lhs": 1.0, "operator": int64(1), "rhs": 2.0},
			ErrInvalidProperty,
		},
		{
			"operand not numeric",
			map[string]any{"lhs": true, "operator": "<", "rhs": 2.0},
			ErrInvalidProperty,
		},
		{
			"missing rhs",
			map[string]any{"lhs": 1.0, "operator": "<"},
			ErrMissingProperty,
		},
		{
			"unknown property",
			map[string]any{"lhs": 1.0, "operator": "<", "rhs": 2.0, "extra": 1.0},
			ErrUnknownProperty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Build("condition", tt.props); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFieldApplyScalar(t *testing.T) {
	f := NewField("f", func(p []float64) float64 { return p[0] })

	v, err := f.Apply("+", 2.0, false)
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}

	sum := v.(*Field)

	if got := sum.At([]float64{3}); got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestFieldApplyReversedOperands(t *testing.T) {
	f := NewField("f", func(p []float64) float64 { return p[0] })

	// rhs true places the field on the right of the operator, so
	// 10 - f(3) = 7.
	v, err := f.Apply("-", 10.0, true)
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}

	diff := v.(*Field)

	if got := diff.At([]float64{3}); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestFieldApplyField(t *testing.T) {
	f := NewField("f", func(p []float64) float64 { return p[0] })
	g := NewField("g", func(p []float64) float64 { return p[0] * 2 })

	v, err := f.Apply("*", g, false)
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}

	prod := v.(*Field)

	if got := prod.At([]float64{3}); got != 18 {
		t.Errorf("expected 18, got %v", got)
	}

	if got := prod.String(); got != "(f*g)" {
		t.Errorf("expected %q, got %q", "(f*g)", got)
	}
}

func TestFieldApplyErrors(t *testing.T) {
	f := NewField("f", func(p []float64) float64 { return p[0] })

	if _, err := f.Apply("e", 2.0, false); !errors.Is(err, ErrFieldOperand) {
		t.Errorf("expected %v for scientific notation, got %v", ErrFieldOperand, err)
	}

	if _, err := f.Apply("+", "text", false); !errors.Is(err, ErrFieldOperand) {
		t.Errorf("expected %v for a string operand, got %v", ErrFieldOperand, err)
	}
}

func TestFieldMap(t *testing.T) {
	f := NewField("f", func(p []float64) float64 { return p[0] })

	v, err := f.Map("sqrt", math.Sqrt)
	if err != nil {
		t.Fatalf("map error: %v", err)
	}

	root := v.(*Field)

	if got := root.At([]float64{9}); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}

	if got := root.String(); got != "sqrt(f)" {
		t.Errorf("expected %q, got %q", "sqrt(f)", got)
	}
}

func TestFieldMapNegation(t *testing.T) {
	f := NewField("f", func(p []float64) float64 { return p[0] })

	v, err := f.Map("-", func(x float64) float64 { return -x })
	if err != nil {
		t.Fatalf("map error: %v", err)
	}

	neg := v.(*Field)

	if got := neg.At([]float64{4}); got != -4 {
		t.Errorf("expected -4, got %v", got)
	}

	if got := neg.String(); got != "-f" {
		t.Errorf("expected %q, got %q", "-f", got)
	}
}

func TestGaussianDescription(t *testing.T) {
	f := NewFactory()

	v, err := f.Build("gaussian", map[string]any{
		"mean":  0.5,
		"sd":    0.5,
		"scale": 10.0,
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	desc := v.(*Field).String()
	if !strings.HasPrefix(desc, "gaussian(") {
		t.Errorf("unexpected description %q", desc)
	}
}
