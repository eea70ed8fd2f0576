package builder

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mhollis/cfgexpr/lang"
)

// Predefined errors (sentinel values).
var (
	ErrUnknownType     = lang.NewError("unknown builder type")
	ErrDuplicateType   = lang.NewError("builder type already registered")
	ErrUnknownProperty = lang.NewError("property not valid for builder")
	ErrMissingProperty = lang.NewError("required property not defined")
	ErrInvalidProperty = lang.NewError("property has incompatible type")
	ErrFieldOperand    = lang.NewError("operation not defined on field")
)

// Instance is one in-progress build. Assign is called once per grouped
// property, then Build produces the finished value.
type Instance interface {
	// Assign sets a property by name, validating its type.
	Assign(name string, value any) error

	// Build returns the finished value. All required properties must
	// have been assigned.
	Build() (any, error)
}

// Factory builds typed values from grouped configuration properties.
// It satisfies the config package's Builder interface.
type Factory struct {
	constructors map[string]func() Instance
}

// NewFactory creates a Factory with the built-in types registered:
// "constant", "gaussian", and "condition".
func NewFactory() *Factory {
	f := &Factory{constructors: make(map[string]func() Instance)}

	_ = f.Register("constant", func() Instance { return &constant{} })
	_ = f.Register("gaussian", func() Instance { return &gaussian{} })
	_ = f.Register("condition", func() Instance { return &condition{} })

	return f
}

// Register adds a constructor under the given type name. Names are
// case-insensitive.
func (f *Factory) Register(name string, make func() Instance) error {
	key := strings.ToLower(name)
	if _, exists := f.constructors[key]; exists {
		return ErrDuplicateType.With(slog.String("type", name))
	}

	f.constructors[key] = make

	return nil
}

// Types returns the registered type names in sorted order.
func (f *Factory) Types() []string {
	types := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		types = append(types, name)
	}

	sort.Strings(types)

	return types
}

// Build assembles a value of the named type from its properties.
func (f *Factory) Build(typeName string, props map[string]any) (any, error) {
	ctor, ok := f.constructors[strings.ToLower(typeName)]
	if !ok {
		err := ErrUnknownType.With(slog.String("type", typeName))

		if match := f.closest(typeName); match != "" {
			err = err.With(slog.String("suggestion", match))
		}

		return nil, err
	}

	inst := ctor()

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}

	// Deterministic assignment order for reproducible error reporting.
	sort.Strings(names)

	for _, name := range names {
		if err := inst.Assign(name, props[name]); err != nil {
			return nil, err
		}
	}

	return inst.Build()
}

// closest returns the registered type name most similar to the given
// misspelling, or "" when nothing is close.
func (f *Factory) closest(typeName string) string {
	matches := fuzzy.Find(strings.ToLower(typeName), f.Types())
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// scalar widens a numeric property value to float64.
func scalar(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// vector accepts a numeric scalar or a list of numeric scalars. A
// scalar yields a single-element vector with broadcast true, meaning it
// stretches to the dimension of the evaluation point.
func vector(v any) ([]float64, bool, bool) {
	if n, ok := scalar(v); ok {
		return []float64{n}, true, true
	}

	items, ok := v.([]any)
	if !ok {
		return nil, false, false
	}

	vec := make([]float64, len(items))

	for i, item := range items {
		n, ok := scalar(item)
		if !ok {
			return nil, false, false
		}

		vec[i] = n
	}

	return vec, false, true
}
