package builder

import (
	"fmt"
	"log/slog"
	"math"
)

// gaussian assembles a symmetric bump field with its peak of height
// "scale" at "mean", decaying with standard deviation "sd". The mean
// and sd properties accept a scalar (broadcast to every axis) or a
// vector matching the dimension of the evaluation point.
type gaussian struct {
	mean, sd             []float64
	meanSpread, sdSpread bool
	scale                *float64
}

func (g *gaussian) Assign(name string, value any) error {
	switch name {
	case "mean":
		vec, spread, ok := vector(value)
		if !ok {
			return g.invalid(name)
		}

		g.mean, g.meanSpread = vec, spread

		return nil

	case "sd":
		vec, spread, ok := vector(value)
		if !ok {
			return g.invalid(name)
		}

		g.sd, g.sdSpread = vec, spread

		return nil

	case "scale":
		n, ok := scalar(value)
		if !ok {
			return g.invalid(name)
		}

		g.scale = &n

		return nil

	default:
		return ErrUnknownProperty.With(
			slog.String("type", "gaussian"),
			slog.String("property", name),
		)
	}
}

func (g *gaussian) invalid(name string) error {
	return ErrInvalidProperty.With(
		slog.String("type", "gaussian"),
		slog.String("property", name),
	)
}

func (g *gaussian) Build() (any, error) {
	for name, missing := range map[string]bool{
		"mean":  g.mean == nil,
		"sd":    g.sd == nil,
		"scale": g.scale == nil,
	} {
		if missing {
			return nil, ErrMissingProperty.With(
				slog.String("type", "gaussian"),
				slog.String("property", name),
			)
		}
	}

	mean, meanSpread := g.mean, g.meanSpread
	sd, sdSpread := g.sd, g.sdSpread
	scale := *g.scale

	at := func(p []float64) float64 {
		sum := 0.0

		for i, x := range p {
			m := component(mean, meanSpread, i)
			s := component(sd, sdSpread, i)
			d := (x - m) / s
			sum += d * d
		}

		return scale * math.Exp(-0.5*sum)
	}

	desc := fmt.Sprintf("gaussian(mean=%v, sd=%v, scale=%v)",
		flatten(mean, meanSpread), flatten(sd, sdSpread), scale)

	return NewField(desc, at), nil
}

// component indexes a property vector, repeating a broadcast scalar
// along every axis.
func component(vec []float64, spread bool, i int) float64 {
	if spread {
		return vec[0]
	}

	return vec[i]
}

func flatten(vec []float64, spread bool) any {
	if spread {
		return vec[0]
	}

	return vec
}
