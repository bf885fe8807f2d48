// SPDX-License-Identifier: MIT
// File: compose.go
// Role: tile per-component layouts into one global frame.
// Determinism:
//   - Tiles are assigned in the order components are given (largest first
//     when they come from components.Find), so identical inputs place every
//     component at the same offset.

package layout

import (
	"fmt"
	"math"

	"github.com/katalvlaran/molnet/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// borderFactor pads a component box by this many max radii.
	borderFactor = 5.0

	// smallBorderFactor is used for 1- and 2-node components.
	smallBorderFactor = 2.0

	// rowWidthFactor caps a row at this multiple of the first box's width.
	rowWidthFactor = 2.0
)

// Compose translates each component's local layout into a shared frame.
//
// Each component's bounding box is padded by a border of 5× its largest node
// radius (2× for components of one or two nodes). Boxes are placed
// left-to-right; a new row starts when the next box would push the row width
// beyond twice the width of the first (largest) box. A row always accepts at
// least one box. Rows stack downward; each is as tall as its tallest box.
//
// The isolated set lists, ascending, every node with degree zero in g. Those
// nodes still receive coordinates (as their own 1-node components).
//
// Errors: ErrGraphNil, ErrMismatch (len(comps) != len(local)),
// ErrMissingPosition, graph.ErrVertexNotFound.
// Complexity: O(V).
func Compose(comps [][]int, local []map[int]r2.Vec, g *graph.Graph) (Layout, []int, error) {
	if g == nil {
		return nil, nil, ErrGraphNil
	}
	if len(comps) != len(local) {
		return nil, nil, fmt.Errorf("Compose: %d components, %d layouts: %w", len(comps), len(local), ErrMismatch)
	}

	out := make(Layout, g.VertexCount())
	var (
		cursor    r2.Vec  // top-left of the next tile
		rowHeight float64 // tallest box in the current row
		rowLimit  float64 // set from the first box
	)
	for ci, comp := range comps {
		box, err := paddedBox(comp, local[ci], g)
		if err != nil {
			return nil, nil, fmt.Errorf("Compose: component %d: %w", ci, err)
		}
		w, h := box.Width(), box.Height()

		if ci == 0 {
			rowLimit = rowWidthFactor * w
		} else if cursor.X > 0 && cursor.X+w > rowLimit {
			cursor = r2.Vec{X: 0, Y: cursor.Y + rowHeight}
			rowHeight = 0
		}

		// Shift so the padded box's top-left corner lands on the cursor.
		offset := r2.Sub(cursor, box.Min)
		for _, v := range comp {
			out[v] = r2.Add(local[ci][v], offset)
		}

		cursor.X += w
		rowHeight = math.Max(rowHeight, h)
	}

	isolated, err := Isolated(g)
	if err != nil {
		return nil, nil, err
	}

	return out, isolated, nil
}

// paddedBox returns the bounding box of a component's local positions grown by
// the radius-derived border.
func paddedBox(comp []int, local map[int]r2.Vec, g *graph.Graph) (Box, error) {
	points := make([]r2.Vec, 0, len(comp))
	maxR := 0.0
	for _, v := range comp {
		p, ok := local[v]
		if !ok {
			return Box{}, fmt.Errorf("node %d: %w", v, ErrMissingPosition)
		}
		points = append(points, p)
		r, err := g.Radius(v)
		if err != nil {
			return Box{}, fmt.Errorf("node %d: %w", v, err)
		}
		maxR = math.Max(maxR, r)
	}

	factor := borderFactor
	if len(comp) <= 2 {
		factor = smallBorderFactor
	}

	return boundsOf(points).Expand(factor * maxR), nil
}

// Isolated returns, ascending, the nodes of g with degree zero.
func Isolated(g *graph.Graph) ([]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	var out []int
	for v := 0; v < g.VertexCount(); v++ {
		d, err := g.Degree(v)
		if err != nil {
			return nil, err
		}
		if d == 0 {
			out = append(out, v)
		}
	}

	return out, nil
}
