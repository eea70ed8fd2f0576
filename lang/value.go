package lang

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

// resolveLiteral converts a raw token string into a typed value.
//
// Order of checks: (1) exact match against a subscribed forward
// reference, (2) boolean, (3) integer, (4) float, (5) reserved context
// symbol, (6) string with one layer of surrounding quotes stripped.
// There is no implicit coercion between numeric and string results.
func resolveLiteral(text string, reg *Registry, ctx Context) (any, error) {
	if reg.Known(text) {
		v, ok := reg.Value(text)
		if !ok {
			// Callers are expected to gate evaluation on Ready.
			return nil, ErrUnresolvedName.With(slog.String("name", text))
		}

		return v, nil
	}

	if b, ok := tryParseBool(text); ok {
		return b, nil
	}

	if i, ok := tryParseInt(text); ok {
		return i, nil
	}

	if f, ok := tryParseFloat(text); ok {
		return f, nil
	}

	if ctx != nil && isContextSymbol(text) {
		if v, ok := ctx.Lookup(text); ok {
			return v, nil
		}
	}

	return unquote(text), nil
}

func tryParseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func tryParseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(s, 10, 64)

	return i, err == nil
}

func tryParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)

	return f, err == nil
}

// tryParsePlainFloat accepts only exponent-free floats. The parser uses
// it for the whole-string literal probe: "3.1" is a terminal, but
// "2.9e2" must still split on the scientific-notation operator.
func tryParsePlainFloat(s string) (float64, bool) {
	if strings.ContainsAny(s, "eE") {
		return 0, false
	}

	return tryParseFloat(s)
}

// isQuoted reports whether s is entirely surrounded by a matching pair
// of single or double quotes.
func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	first, last := s[0], s[len(s)-1]

	return (first == '\'' || first == '"') && first == last
}

// unquote strips one layer of surrounding quotes, if present.
func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}

	return s
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}

// FormatValue formats an evaluated result for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""

	case bool:
		return strconv.FormatBool(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)

	case string:
		return val

	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}

		return strings.Join(parts, ", ")

	default:
		return fmt.Sprintf("%v", val)
	}
}
