// SPDX-License-Identifier: MIT

// Package graph defines the interaction graph built from a similarity matrix:
// a fixed vertex set 0..n-1 carrying per-node radii, and undirected weighted
// edges without loops or parallel edges.
//
// This file declares Edge, Graph, Option, sentinel errors, and the New constructor.
//
// Errors:
//
//	ErrVertexNotFound      - vertex index outside 0..n-1.
//	ErrLoopNotAllowed      - self-loop (source == target).
//	ErrMultiEdgeNotAllowed - the unordered pair is already connected.
//	ErrBadWeight           - NaN or ±Inf weight.
//	ErrBadRadius           - negative or non-finite radius, or len(radii) ∉ {0, n}.
//	ErrBadVertexCount      - negative vertex count.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// DefaultRadius is the node radius substituted for a stored radius of zero.
// It matches the viewer's default node size.
const DefaultRadius = 30.0

// Sentinel errors for graph operations.
var (
	// ErrVertexNotFound indicates an operation referenced an index outside 0..n-1.
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("graph: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a second edge between the same pair.
	ErrMultiEdgeNotAllowed = errors.New("graph: multi-edges not allowed")

	// ErrBadWeight indicates a NaN or ±Inf edge weight.
	ErrBadWeight = errors.New("graph: weight must be finite")

	// ErrBadRadius indicates an invalid radius array.
	ErrBadRadius = errors.New("graph: invalid radius")

	// ErrBadVertexCount indicates a negative vertex count.
	ErrBadVertexCount = errors.New("graph: vertex count must be >= 0")
)

// Edge connects two vertices with a similarity weight.
// Edges stored in a Graph are normalized so that Source < Target.
type Edge struct {
	// Source is the smaller vertex index.
	Source int `json:"source"`

	// Target is the larger vertex index.
	Target int `json:"target"`

	// Weight is the similarity score that produced the edge.
	Weight float64 `json:"weight"`
}

// Normalized returns e with endpoints ordered so Source < Target.
func (e Edge) Normalized() Edge {
	if e.Source > e.Target {
		e.Source, e.Target = e.Target, e.Source
	}

	return e
}

// Option configures a Graph before creation.
type Option func(g *Graph)

// WithDefaultRadius sets the radius used for vertices whose stored radius is 0.
// Panics on r <= 0 or non-finite r; option constructors validate eagerly.
func WithDefaultRadius(r float64) Option {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		panic(fmt.Sprintf("graph: WithDefaultRadius(%v)", r))
	}

	return func(g *Graph) { g.defaultRadius = r }
}

// Graph is an undirected, weighted, loop-free simple graph on vertices 0..n-1.
//
// mu guards radii and adjacency. The vertex count is fixed at construction;
// edges can be cleared and re-added (the "keep existing vertex set" path).
type Graph struct {
	mu sync.RWMutex

	defaultRadius float64

	n     int
	radii []float64 // stored radii, 0 means "use defaultRadius"

	// adjacency[u][v] = weight, mirrored for v→u.
	adjacency []map[int]float64
	edgeCount int
}

// New creates a Graph with n vertices and the given per-vertex radii.
// radii may be nil/empty (every vertex gets the default radius) or have exactly
// n entries, each finite and >= 0.
// Complexity: O(n).
func New(n int, radii []float64, opts ...Option) (*Graph, error) {
	if n < 0 {
		return nil, ErrBadVertexCount
	}
	if len(radii) != 0 && len(radii) != n {
		return nil, fmt.Errorf("New: %d radii for %d vertices: %w", len(radii), n, ErrBadRadius)
	}
	g := &Graph{
		defaultRadius: DefaultRadius,
		n:             n,
		radii:         make([]float64, n),
		adjacency:     make([]map[int]float64, n),
	}
	for _, opt := range opts {
		opt(g)
	}
	for i, r := range radii {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("New: radius[%d]=%v: %w", i, r, ErrBadRadius)
		}
		g.radii[i] = r
	}

	return g, nil
}
