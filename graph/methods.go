// SPDX-License-Identifier: MIT
// File: methods.go
// Role: vertex/edge queries and mutation for Graph.
// Determinism:
//   - Edges(), Neighbors() and EdgesWithin() return sorted results.
// Concurrency:
//   - Mutators take the write lock, queries the read lock.

package graph

import (
	"fmt"
	"math"
	"sort"
)

// VertexCount returns n.
func (g *Graph) VertexCount() int {
	return g.n // immutable after New
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgeCount
}

// HasVertex reports whether 0 <= v < n.
func (g *Graph) HasVertex(v int) bool {
	return v >= 0 && v < g.n
}

// Radius returns the effective radius of v (stored radius, or the default when 0).
func (g *Graph) Radius(v int) (float64, error) {
	if !g.HasVertex(v) {
		return 0, ErrVertexNotFound
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.effectiveRadius(v), nil
}

// Radii returns the effective radius of every vertex, indexed by vertex.
func (g *Graph) Radii() []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]float64, g.n)
	for v := range out {
		out[v] = g.effectiveRadius(v)
	}

	return out
}

// SetRadius overwrites the stored radius of v. A value of 0 restores the default.
func (g *Graph) SetRadius(v int, r float64) error {
	if !g.HasVertex(v) {
		return ErrVertexNotFound
	}
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("SetRadius(%d): %w", v, ErrBadRadius)
	}
	g.mu.Lock()
	g.radii[v] = r
	g.mu.Unlock()

	return nil
}

func (g *Graph) effectiveRadius(v int) float64 {
	if r := g.radii[v]; r > 0 {
		return r
	}

	return g.defaultRadius
}

// AddEdge inserts the undirected edge {u,v} with weight w.
// Errors: ErrVertexNotFound, ErrLoopNotAllowed, ErrBadWeight, ErrMultiEdgeNotAllowed.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(u, v int, w float64) error {
	if !g.HasVertex(u) || !g.HasVertex(v) {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrVertexNotFound)
	}
	if u == v {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrLoopNotAllowed)
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrBadWeight)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.adjacency[u][v]; ok {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrMultiEdgeNotAllowed)
	}
	g.link(u, v, w)
	g.link(v, u, w)
	g.edgeCount++

	return nil
}

func (g *Graph) link(from, to int, w float64) {
	if g.adjacency[from] == nil {
		g.adjacency[from] = make(map[int]float64)
	}
	g.adjacency[from][to] = w
}

// HasEdge reports whether {u,v} is connected.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.HasVertex(u) || !g.HasVertex(v) {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[u][v]

	return ok
}

// Degree returns the number of edges incident to v.
func (g *Graph) Degree(v int) (int, error) {
	if !g.HasVertex(v) {
		return 0, ErrVertexNotFound
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adjacency[v]), nil
}

// Neighbors returns the neighbors of v in ascending order.
// Complexity: O(d·log d).
func (g *Graph) Neighbors(v int) ([]int, error) {
	if !g.HasVertex(v) {
		return nil, ErrVertexNotFound
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]int, 0, len(g.adjacency[v]))
	for u := range g.adjacency[v] {
		out = append(out, u)
	}
	sort.Ints(out)

	return out, nil
}

// Edges returns every edge once, normalized and sorted by (Source, Target).
// Complexity: O(E·log E).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, 0, g.edgeCount)
	for u, nbrs := range g.adjacency {
		for v, w := range nbrs {
			if u < v {
				out = append(out, Edge{Source: u, Target: v, Weight: w})
			}
		}
	}
	SortEdges(out)

	return out
}

// EdgesWithin returns the edges of the subgraph induced by nodes, with endpoints
// re-indexed to positions in nodes (local index i ⇔ nodes[i]). Sorted.
// Complexity: O(Σ deg(nodes) + k·log k).
func (g *Graph) EdgesWithin(nodes []int) ([]Edge, error) {
	local := make(map[int]int, len(nodes))
	for i, v := range nodes {
		if !g.HasVertex(v) {
			return nil, fmt.Errorf("EdgesWithin: %d: %w", v, ErrVertexNotFound)
		}
		local[v] = i
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for i, u := range nodes {
		for v, w := range g.adjacency[u] {
			j, ok := local[v]
			if ok && i < j {
				out = append(out, Edge{Source: i, Target: j, Weight: w})
			}
		}
	}
	SortEdges(out)

	return out, nil
}

// ClearEdges removes all edges while keeping the vertex set and radii.
// Complexity: O(n).
func (g *Graph) ClearEdges() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.adjacency {
		g.adjacency[i] = nil
	}
	g.edgeCount = 0
}

// CloneEmpty returns a new Graph with the same vertex set, stored radii and
// default radius, but no edges. The source is not modified.
// Complexity: O(n).
func (g *Graph) CloneEmpty() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return &Graph{
		defaultRadius: g.defaultRadius,
		n:             g.n,
		radii:         append([]float64(nil), g.radii...),
		adjacency:     make([]map[int]float64, g.n),
	}
}

// SortEdges orders edges by (Source, Target) in place.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
}
