// SPDX-License-Identifier: MIT

package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/molnet/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

// LayoutComponent positions one component.
//
//   - 1 node:  (0,0).
//   - 2 nodes: (0,-r) and (0,+r), r = max(radius0, radius1); the pair sits on the
//     y-axis exactly 2·r apart. No iteration.
//   - 3+ nodes: delegated to s with local indices.
//
// edgesWithin use local indices (position in nodeIDs), as produced by
// graph.EdgesWithin. radii are local too. The result is keyed by global node id.
func LayoutComponent(ctx context.Context, s Strategy, nodeIDs []int, edgesWithin []graph.Edge, radii []float64) (map[int]r2.Vec, error) {
	if len(radii) != len(nodeIDs) {
		return nil, fmt.Errorf("LayoutComponent: %d radii for %d nodes: %w", len(radii), len(nodeIDs), ErrMismatch)
	}
	out := make(map[int]r2.Vec, len(nodeIDs))

	switch len(nodeIDs) {
	case 0:
		return out, nil
	case 1:
		out[nodeIDs[0]] = r2.Vec{}
		return out, nil
	case 2:
		r := math.Max(radii[0], radii[1])
		out[nodeIDs[0]] = r2.Vec{X: 0, Y: -r}
		out[nodeIDs[1]] = r2.Vec{X: 0, Y: r}
		return out, nil
	}

	if s == nil {
		return nil, ErrNilStrategy
	}
	pos, err := s.Layout(ctx, len(nodeIDs), edgesWithin, radii)
	if err != nil {
		return nil, err
	}
	if len(pos) != len(nodeIDs) {
		return nil, fmt.Errorf("LayoutComponent: strategy returned %d positions for %d nodes: %w", len(pos), len(nodeIDs), ErrMismatch)
	}
	for i, id := range nodeIDs {
		out[id] = pos[i]
	}

	return out, nil
}
