// SPDX-License-Identifier: MIT

package network

import (
	"encoding/json"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/layout"
)

// Result is the output of one pipeline run.
type Result struct {
	// Edges sorted by (Source, Target), Source < Target.
	Edges []graph.Edge

	// Components, largest first, each sorted ascending.
	Components [][]int

	// Layout holds one position per node, in the global frame.
	Layout layout.Layout

	// Isolated lists, ascending, the nodes with no edge.
	Isolated []int

	// Graph is the interaction graph the run populated. A Builder reuses it
	// on Regenerate with keepVertices.
	Graph *graph.Graph
}

// NotIsolated returns a mask with true for every node that has at least one edge.
func (r *Result) NotIsolated() []bool {
	mask := make([]bool, len(r.Layout))
	for i := range mask {
		mask[i] = true
	}
	for _, v := range r.Isolated {
		mask[v] = false
	}

	return mask
}

// Node is the per-node view of a Result.
type Node struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Isolated bool    `json:"isolated"`
}

// Nodes returns one Node per vertex, ordered by id.
func (r *Result) Nodes() []Node {
	mask := r.NotIsolated()
	var radii []float64
	if r.Graph != nil {
		radii = r.Graph.Radii()
	}
	out := make([]Node, len(r.Layout))
	for i, p := range r.Layout {
		out[i] = Node{ID: i, X: p.X, Y: p.Y, Isolated: !mask[i]}
		if i < len(radii) {
			out[i].Radius = radii[i]
		}
	}

	return out
}

type resultJSON struct {
	Nodes      []Node       `json:"nodes"`
	Edges      []graph.Edge `json:"edges"`
	Components [][]int      `json:"components"`
	Isolated   []int        `json:"isolated"`
}

// MarshalJSON encodes the result as nodes, edges, components and isolated ids.
func (r *Result) MarshalJSON() ([]byte, error) {
	doc := resultJSON{
		Nodes:      r.Nodes(),
		Edges:      r.Edges,
		Components: r.Components,
		Isolated:   r.Isolated,
	}
	if doc.Edges == nil {
		doc.Edges = []graph.Edge{}
	}
	if doc.Isolated == nil {
		doc.Isolated = []int{}
	}
	if doc.Components == nil {
		doc.Components = [][]int{}
	}

	return json.Marshal(doc)
}
