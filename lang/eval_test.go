package lang

import (
	"errors"
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func evalString(t *testing.T, input string, reg *Registry) any {
	t.Helper()

	node, err := Parse(input, reg, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	v, err := node.Evaluate(reg, nil)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	return v
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1 + 1", 2},
		{"2 - 1", 1},
		{"2 * 2", 4},
		{"4 / 2", 2},
		{"1.5 + 3", 4.5},
		{"2.9e2", 290},
		{"-1 + 5", 4},
		{"2 * 3 * 4", 24},
		{" 1 - 2 - 3 ", -4},
		{"1 - (2 - 3)", 2},
		{"1 / 2 / 3", 1.0 / 6},
		{"1 / 2 / 3 / 4", 1.0 / 24},
		{"2 + 2 / 4 + 1 / 2", 3},
		{"-8e-2 * -100", 8},
		{"2^2", 4},
		{"((8-13e-1)*(1e1+1-2/2)+(4-2)^2-3^(1+3))*-0.1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := evalString(t, tt.input, nil)

			got, ok := toFloat(v)
			if !ok {
				t.Fatalf("expected numeric result, got %T", v)
			}

			if !almost(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluateIntegerPreservation(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1 + 1", 2},
		{"2 * 3 * 4", 24},
		{"2^10", 1024},
		{"-5", -5},
		{"abs(-3)", 3},
		{"7 - 10", -3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := evalString(t, tt.input, nil)
			if v != tt.want {
				t.Errorf("expected int64 %d, got %v (%T)", tt.want, v, v)
			}
		})
	}
}

func TestEvaluatePowOverflowWidens(t *testing.T) {
	// 10^19 exceeds int64; the result widens to float instead of
	// wrapping.
	v := evalString(t, "10^19", nil)

	f, ok := v.(float64)
	if !ok {
		t.Fatalf("expected float64 for an overflowing power, got %v (%T)", v, v)
	}

	if !almost(f, 1e19) {
		t.Errorf("expected 1e19, got %v", f)
	}
}

func TestEvaluateDivisionAlwaysFloat(t *testing.T) {
	v := evalString(t, "4 / 2", nil)
	if _, ok := v.(float64); !ok {
		t.Errorf("expected float64, got %T", v)
	}
}

func TestEvaluateStringConcat(t *testing.T) {
	v := evalString(t, "foo + bar", nil)
	if v != "foobar" {
		t.Errorf("expected %q, got %v", "foobar", v)
	}
}

func TestEvaluateFunctions(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"sqrt(4)", 2},
		{"sqrt(2^2 + 3^2 * 0)", 2},
		{"exp(0)", 1},
		{"cos(0)", 1},
		{"sin(0)", 0},
		{"tan(0)", 0},
		{"abs(-1.5)", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := evalString(t, tt.input, nil)

			got, ok := toFloat(v)
			if !ok {
				t.Fatalf("expected numeric result, got %T", v)
			}

			if !almost(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluateForwardReference(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Subscribe("mean"); err != nil {
		t.Fatalf("subscribe error: %v", err)
	}

	node, err := Parse("mean * 2 + 1", reg, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if err := reg.Update("mean", 1.5); err != nil {
		t.Fatalf("update error: %v", err)
	}

	v, err := node.Evaluate(reg, nil)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if v != 4.0 {
		t.Errorf("expected 4.0, got %v (%T)", v, v)
	}
}

func TestEvaluateTypeMismatch(t *testing.T) {
	for _, input := range []string{"foo - 1", "'a' * 2", "foo / bar"} {
		t.Run(input, func(t *testing.T) {
			node, err := Parse(input, nil, nil)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			_, err = node.Evaluate(nil, nil)
			if !errors.Is(err, ErrMalformedExpression) {
				t.Errorf("expected %v, got %v", ErrMalformedExpression, err)
			}

			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("expected %v, got %v", ErrTypeMismatch, err)
			}
		})
	}
}
