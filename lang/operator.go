package lang

import (
	"log/slog"
	"math"
)

// OpKind identifies one operator in the closed operator set.
type OpKind int

const (
	// OpPass is the sentinel pass-through operator used when a node has
	// no right operand. Evaluation returns the left child's value
	// unchanged.
	OpPass OpKind = iota

	// OpAdd is addition (or string concatenation).
	OpAdd

	// OpSub is subtraction.
	OpSub

	// OpMul is multiplication.
	OpMul

	// OpDiv is true division. The result is always a float.
	OpDiv

	// OpPow is exponentiation.
	OpPow

	// OpSci is the scientific-notation infix: l e r == l * 10^r.
	OpSci

	// OpNeg is unary negation.
	OpNeg

	// Unary math functions, applied to the right child only.
	OpAbs
	OpCos
	OpExp
	OpSin
	OpSqrt
	OpTan
)

// Operator priorities. Higher values bind tighter. Operators of equal
// priority combine left-associatively, which attach enforces through
// its rotation rule.
const (
	prioAdd  = 1
	prioMul  = 2
	prioPow  = 3
	prioSci  = 4
	prioNeg  = 5
	prioFunc = 6
	prioPass = 7
)

// operator is an immutable (priority, apply function, display symbol)
// triple. The table below is the single source of dispatch: there is no
// reflection and no name-based method lookup anywhere in evaluation.
type operator struct {
	kind   OpKind
	prio   int
	symbol string
	apply  func(l, r any) (any, error)
}

//nolint:gochecknoglobals
var opTable = map[OpKind]operator{
	OpPass: {OpPass, prioPass, "", nil},
	OpAdd:  {OpAdd, prioAdd, "+", applyAdd},
	OpSub:  {OpSub, prioAdd, "-", applySub},
	OpMul:  {OpMul, prioMul, "*", applyMul},
	OpDiv:  {OpDiv, prioMul, "/", applyDiv},
	OpPow:  {OpPow, prioPow, "^", applyPow},
	OpSci:  {OpSci, prioSci, "e", applySci},
	OpNeg:  {OpNeg, prioNeg, "-", nil},
	OpAbs:  {OpAbs, prioFunc, "abs", nil},
	OpCos:  {OpCos, prioFunc, "cos", nil},
	OpExp:  {OpExp, prioFunc, "exp", nil},
	OpSin:  {OpSin, prioFunc, "sin", nil},
	OpSqrt: {OpSqrt, prioFunc, "sqrt", nil},
	OpTan:  {OpTan, prioFunc, "tan", nil},
}

// funcKinds maps unary math function names to their operator kinds.
// The set is closed; unknown names never parse as function calls.
//
//nolint:gochecknoglobals
var funcKinds = map[string]OpKind{
	"abs":  OpAbs,
	"cos":  OpCos,
	"exp":  OpExp,
	"sin":  OpSin,
	"sqrt": OpSqrt,
	"tan":  OpTan,
}

// funcTable maps unary function kinds to their float implementations.
//
//nolint:gochecknoglobals
var funcTable = map[OpKind]func(float64) float64{
	OpAbs:  math.Abs,
	OpCos:  math.Cos,
	OpExp:  math.Exp,
	OpSin:  math.Sin,
	OpSqrt: math.Sqrt,
	OpTan:  math.Tan,
}

// opForSymbol returns the binary operator denoted by a single character
// of the input string.
func opForSymbol(c byte) (operator, bool) {
	switch c {
	case '+':
		return opTable[OpAdd], true
	case '-':
		return opTable[OpSub], true
	case '*':
		return opTable[OpMul], true
	case '/':
		return opTable[OpDiv], true
	case '^':
		return opTable[OpPow], true
	case 'e':
		return opTable[OpSci], true
	default:
		return operator{}, false
	}
}

func isOperatorSymbol(c byte) bool {
	_, ok := opForSymbol(c)

	return ok
}

func (o operator) isFunc() bool {
	_, ok := funcTable[o.kind]

	return ok
}

// toFloat widens a numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func bothInt(l, r any) (int64, int64, bool) {
	li, lok := l.(int64)
	ri, rok := r.(int64)

	return li, ri, lok && rok
}

func typeError(op string, l, r any) error {
	return ErrTypeMismatch.With(
		slog.String("operator", op),
		slog.String("left", typeName(l)),
		slog.String("right", typeName(r)),
	)
}

func applyAdd(l, r any) (any, error) {
	if li, ri, ok := bothInt(l, r); ok {
		return li + ri, nil
	}

	if ls, lok := l.(string); lok {
		if rs, rok := r.(string); rok {
			return ls + rs, nil
		}
	}

	lf, lok := toFloat(l)

	rf, rok := toFloat(r)
	if lok && rok {
		return lf + rf, nil
	}

	return nil, typeError("+", l, r)
}

func applySub(l, r any) (any, error) {
	if li, ri, ok := bothInt(l, r); ok {
		return li - ri, nil
	}

	lf, lok := toFloat(l)

	rf, rok := toFloat(r)
	if lok && rok {
		return lf - rf, nil
	}

	return nil, typeError("-", l, r)
}

func applyMul(l, r any) (any, error) {
	if li, ri, ok := bothInt(l, r); ok {
		return li * ri, nil
	}

	lf, lok := toFloat(l)

	rf, rok := toFloat(r)
	if lok && rok {
		return lf * rf, nil
	}

	return nil, typeError("*", l, r)
}

// applyDiv performs true division: the result is a float even for two
// integer operands, matching "1 / 2 / 3" == 1/6.
func applyDiv(l, r any) (any, error) {
	lf, lok := toFloat(l)

	rf, rok := toFloat(r)
	if lok && rok {
		return lf / rf, nil
	}

	return nil, typeError("/", l, r)
}

func applyPow(l, r any) (any, error) {
	if li, ri, ok := bothInt(l, r); ok && ri >= 0 {
		if p, ok := intPow(li, ri); ok {
			return p, nil
		}
		// Overflowing integer powers widen to float.
	}

	lf, lok := toFloat(l)

	rf, rok := toFloat(r)
	if lok && rok {
		return math.Pow(lf, rf), nil
	}

	return nil, typeError("^", l, r)
}

func applySci(l, r any) (any, error) {
	lf, lok := toFloat(l)

	rf, rok := toFloat(r)
	if lok && rok {
		return lf * math.Pow(10, rf), nil
	}

	return nil, typeError("e", l, r)
}

// intPow computes base**exp in int64, reporting false on overflow so
// the caller can widen to float.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)

	for ; exp > 0; exp-- {
		next := result * base
		if base != 0 && next/base != result {
			return 0, false
		}

		result = next
	}

	return result, true
}
