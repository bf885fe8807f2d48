// SPDX-License-Identifier: MIT

// Package layout positions the nodes of a molecular network in the plane.
//
// It owns three pieces of the pipeline:
//
//	Strategy        - pluggable per-component algorithm (forceatlas2.Engine by default)
//	LayoutComponent - analytic placement for 1- and 2-node components, Strategy otherwise
//	Compose         - tiles per-component boxes into one global frame and flags isolated nodes
//
// Coordinates use the screen convention: x grows rightward, y grows downward.
package layout

import (
	"context"
	"errors"
	"math"

	"github.com/katalvlaran/molnet/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for layout operations.
var (
	// ErrMismatch indicates inconsistent lengths between parallel inputs
	// (components vs. local layouts, nodes vs. radii, strategy output vs. nodes).
	ErrMismatch = errors.New("layout: input length mismatch")

	// ErrMissingPosition indicates a component node without a local position.
	ErrMissingPosition = errors.New("layout: node has no position")

	// ErrNilStrategy indicates a component of 3+ nodes with no Strategy.
	ErrNilStrategy = errors.New("layout: nil strategy")

	// ErrGraphNil is returned if a nil graph pointer is passed to Compose.
	ErrGraphNil = errors.New("layout: graph is nil")
)

// Strategy lays out one connected component. Nodes are locally indexed
// 0..n-1; edges use local indices; radii[i] is the effective radius of node i.
// Implementations must be deterministic for identical inputs and must honor
// ctx cancellation by returning ctx.Err().
type Strategy interface {
	Layout(ctx context.Context, n int, edges []graph.Edge, radii []float64) ([]r2.Vec, error)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(ctx context.Context, n int, edges []graph.Edge, radii []float64) ([]r2.Vec, error)

// Layout calls f.
func (f StrategyFunc) Layout(ctx context.Context, n int, edges []graph.Edge, radii []float64) ([]r2.Vec, error) {
	return f(ctx, n, edges, radii)
}

// Layout maps node index → position.
type Layout []r2.Vec

// Bounds returns the axis-aligned box of the layout; the zero Box when empty.
func (l Layout) Bounds() Box {
	return boundsOf(l)
}

// Box is an axis-aligned rectangle.
type Box struct {
	Min, Max r2.Vec
}

// Width of the box.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height of the box.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Expand grows the box by d on every side.
func (b Box) Expand(d float64) Box {
	return Box{
		Min: r2.Vec{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: r2.Vec{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

func boundsOf(points []r2.Vec) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range points {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}

	return b
}
