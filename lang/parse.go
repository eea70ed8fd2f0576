package lang

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"
)

// Parse parses raw expression text into a tree. The registry supplies
// the forward-reference names the parser must recognize (it may be nil
// when no forward references are in play), and the context supplies the
// reserved symbol names. A string containing a top-level comma parses
// as a [List]; everything else parses as a single expression.
func Parse(text string, reg *Registry, ctx Context) (Node, error) {
	s := stripSpace(text)
	if s == "" {
		return nil, ErrEmptyExpression.With(slog.String("text", text))
	}

	if hasStrayClose(s) {
		return nil, ErrUnbalancedGroup.With(slog.String("text", text))
	}

	if hasTopLevelComma(s) {
		return parseList(s, reg, ctx)
	}

	return parseSegment(s, reg, ctx)
}

// parseSegment parses one comma-free segment. The precedence of checks
// follows the grammar: grouping, unary negation, function call, whole
// literal, known-name prefix, then the generic binary split.
func parseSegment(s string, reg *Registry, ctx Context) (Node, error) {
	if s == "" {
		return nil, ErrEmptyExpression
	}

	if s[0] == '(' {
		return parseGroup(s, reg, ctx)
	}

	if s[0] == '-' {
		self := &Expression{op: opTable[OpNeg]}

		rhs, err := parseSegment(s[1:], reg, ctx)
		if err != nil {
			return nil, err
		}

		return attach(self, rhs), nil
	}

	if kind, rest, ok := splitFuncCall(s); ok {
		self := &Expression{op: opTable[kind]}

		rhs, err := parseSegment(rest, reg, ctx)
		if err != nil {
			return nil, err
		}

		return attach(self, rhs), nil
	}

	// The whole string may be a literal that happens to contain an
	// operator character, like "false" or a quoted string; probe before
	// scanning for operators. Exponent floats are excluded so "2.9e2"
	// still splits on the scientific-notation operator.
	if isWholeLiteral(s, reg, ctx) {
		return NewTerminal(s, reg), nil
	}

	if name, op, rest, ok := splitKnownName(s, reg); ok {
		self := &Expression{op: op, left: NewTerminal(name, reg)}

		rhs, err := parseSegment(rest, reg, ctx)
		if err != nil {
			return nil, err
		}

		return attach(self, rhs), nil
	}

	return parseSplit(s, reg, ctx)
}

// parseGroup parses a leading parenthesized group, then any trailing
// infix operator and right operand.
func parseGroup(s string, reg *Registry, ctx Context) (Node, error) {
	j := matchParen(s)
	if j < 0 {
		return nil, ErrUnterminatedGroup.With(slog.String("text", s))
	}

	inner := s[1:j]

	var interior Node

	var err error

	if hasTopLevelComma(inner) {
		interior, err = parseList(inner, reg, ctx)
	} else {
		interior, err = parseSegment(inner, reg, ctx)
	}

	if err != nil {
		return nil, err
	}

	group := &Expression{op: opTable[OpPass], left: interior}
	if j == len(s)-1 {
		return group, nil
	}

	rest := s[j+1:]

	op, ok := opForSymbol(rest[0])
	if !ok {
		return nil, ErrMissingOperator.With(slog.String("text", rest))
	}

	self := &Expression{op: op, left: group}

	rhs, err := parseSegment(rest[1:], reg, ctx)
	if err != nil {
		return nil, err
	}

	return attach(self, rhs), nil
}

// parseSplit performs the generic binary split: partition at the
// earliest character that is a recognized operator symbol. With no
// operator present the whole string is a terminal.
func parseSplit(s string, reg *Registry, ctx Context) (Node, error) {
	i := indexOperator(s)
	if i < 0 {
		return NewTerminal(s, reg), nil
	}

	if i == 0 {
		return nil, ErrMissingOperand.With(slog.String("text", s))
	}

	op, _ := opForSymbol(s[i])
	self := &Expression{op: op, left: NewTerminal(s[:i], reg)}

	rhs, err := parseSegment(s[i+1:], reg, ctx)
	if err != nil {
		return nil, err
	}

	return attach(self, rhs), nil
}

// attach inserts a freshly parsed right subtree f under self.
//
// If f's root binds strictly tighter than self's operator (or is a
// terminal, a group, or a prefix node with no left child), f simply
// becomes self's right child. Otherwise rotate: f's left child is
// re-attached under self (recursively, since it may itself need
// rotation), and self, now settled, becomes f's new left child. The
// rotation makes equal-priority chains group left-associatively and
// restores precedence for mixed chains without a second parsing pass.
func attach(self *Expression, f Node) Node {
	fe, ok := f.(*Expression)
	if !ok || fe.left == nil || fe.op.prio > self.op.prio {
		self.right = f

		return self
	}

	fe.left = attach(self, fe.left)

	return fe
}

// splitFuncCall matches a leading unary function name immediately
// followed by an opening parenthesis, returning the remainder starting
// at that parenthesis.
func splitFuncCall(s string) (OpKind, string, bool) {
	for name, kind := range funcKinds {
		if strings.HasPrefix(s, name) && len(s) > len(name) && s[len(name)] == '(' {
			return kind, s[len(name):], true
		}
	}

	return OpPass, "", false
}

// isWholeLiteral reports whether the whole string is a single terminal:
// a bool, an integer, an exponent-free float, a quoted string, a
// subscribed forward-reference name, or a reserved context symbol.
func isWholeLiteral(s string, reg *Registry, ctx Context) bool {
	if _, ok := tryParseBool(s); ok {
		return true
	}

	if _, ok := tryParseInt(s); ok {
		return true
	}

	if _, ok := tryParsePlainFloat(s); ok {
		return true
	}

	if isQuoted(s) {
		return true
	}

	if reg.Known(s) {
		return true
	}

	return ctx != nil && isContextSymbol(s)
}

// splitKnownName matches a leading subscribed forward-reference name or
// reserved context symbol followed immediately by an operator symbol.
// Longer names win so that, for example, "x[0]" is preferred over "x".
func splitKnownName(s string, reg *Registry) (string, operator, string, bool) {
	names := append(reg.Names(), contextSymbols...)
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, name := range names {
		if !strings.HasPrefix(s, name) || len(s) <= len(name) {
			continue
		}

		if op, ok := opForSymbol(s[len(name)]); ok {
			return name, op, s[len(name)+1:], true
		}
	}

	return "", operator{}, "", false
}

// indexOperator returns the index of the earliest operator symbol in s,
// skipping quoted regions, or -1 if none occurs. Scanning left to right
// yields the split with the shortest left-hand substring.
func indexOperator(s string) int {
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}

			continue
		}

		if c == '\'' || c == '"' {
			quote = c

			continue
		}

		if isOperatorSymbol(c) {
			return i
		}
	}

	return -1
}

// hasStrayClose reports whether s contains a closing parenthesis with
// no matching opener, outside quoted regions. A missing closer is
// caught later by matchParen; this catches the mirror case so "1+2)"
// fails instead of parsing "2)" as a string terminal.
func hasStrayClose(s string) bool {
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
			if depth < 0 {
				return true
			}
		}
	}

	return false
}

// matchParen returns the index of the parenthesis matching s[0],
// or -1 when the grouping is unterminated.
func matchParen(s string) int {
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
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// stripSpace removes all whitespace outside quoted regions.
func stripSpace(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	var quote rune

	for _, r := range s {
		if quote != 0 {
			if r == quote {
				quote = 0
			}

			b.WriteRune(r)

			continue
		}

		if r == '\'' || r == '"' {
			quote = r

			b.WriteRune(r)

			continue
		}

		if unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// stripOuterParens removes one matching layer of surrounding
// parentheses, if the pair actually encloses the whole string.
func stripOuterParens(s string) string {
	if len(s) >= 2 && s[0] == '(' && matchParen(s) == len(s)-1 {
		return s[1 : len(s)-1]
	}

	return s
}
