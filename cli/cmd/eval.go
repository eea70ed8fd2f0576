package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mhollis/cfgexpr/lang"
)

// Eval evaluates expressions from the command line. An argument of the
// form "name = expr" binds the expression's value to a name that later
// arguments may reference; every other argument is evaluated and its
// result printed.
type Eval struct {
	Exprs []string `arg:"" help:"Expressions or name=expr bindings" name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	reg := lang.NewRegistry()

	for _, arg := range e.Exprs {
		name, expr, bound := splitBinding(arg)

		node, err := lang.Parse(expr, reg, nil)
		if err != nil {
			return lang.WrapError(err).
				With(slog.String("input", arg))
		}

		v, err := node.Evaluate(reg, nil)
		if err != nil {
			return lang.WrapError(err).
				With(slog.String("input", arg))
		}

		if bound {
			if err := reg.SubscribeValue(name, v); err != nil {
				return err
			}

			continue
		}

		fmt.Println(lang.FormatValue(v))
	}

	return nil
}

// splitBinding recognizes a "name = expr" argument. The name must be a
// plain identifier; anything else is treated as expression text.
func splitBinding(arg string) (name, expr string, ok bool) {
	lhs, rhs, found := strings.Cut(arg, "=")
	if !found {
		return "", arg, false
	}

	name = strings.TrimSpace(lhs)
	if name == "" || !isIdentifier(name) {
		return "", arg, false
	}

	return name, rhs, true
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}
