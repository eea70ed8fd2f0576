package builder

import "log/slog"

// constant assembles a uniform value across the whole domain. The
// single property "value" is returned as-is, preserving integer typing.
type constant struct {
	value any
}

func (c *constant) Assign(name string, value any) error {
	if name != "value" {
		return ErrUnknownProperty.With(
			slog.String("type", "constant"),
			slog.String("property", name),
		)
	}

	switch value.(type) {
	case int64, float64:
		c.value = value

		return nil
	default:
		return ErrInvalidProperty.With(
			slog.String("type", "constant"),
			slog.String("property", name),
		)
	}
}

func (c *constant) Build() (any, error) {
	if c.value == nil {
		return nil, ErrMissingProperty.With(
			slog.String("type", "constant"),
			slog.String("property", "value"),
		)
	}

	return c.value, nil
}
