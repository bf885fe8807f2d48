// SPDX-License-Identifier: MIT

package layout

import (
	"context"
	"math"

	"github.com/katalvlaran/molnet/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

// Circle is a trivial Strategy placing nodes on a circle in index order, with
// neighboring nodes 3·max radius apart along the circumference. It ignores
// edges and is useful as a fast preview or as a test double.
type Circle struct{}

// Layout implements Strategy.
func (Circle) Layout(ctx context.Context, n int, _ []graph.Edge, radii []float64) ([]r2.Vec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(radii) != n {
		return nil, ErrMismatch
	}
	maxR := 0.0
	for _, r := range radii {
		maxR = math.Max(maxR, r)
	}
	out := make([]r2.Vec, n)
	if n == 0 {
		return out, nil
	}
	radius := 3 * maxR * float64(n) / (2 * math.Pi)
	step := 2 * math.Pi / float64(n)
	for i := range out {
		a := step * float64(i)
		out[i] = r2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}

	return out, nil
}
