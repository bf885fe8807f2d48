// Package components partitions an interaction graph into connected
// components, ordered largest first.
//
// Ordering is part of the contract: the layout compositor tiles components in
// this order, so identical inputs must yield identical partitions.
//   - each component is sorted ascending;
//   - components are sorted by descending size, ties by smallest member.
package components

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/molnet/graph"
)

// ErrGraphNil is returned if a nil graph pointer is passed.
var ErrGraphNil = errors.New("components: graph is nil")

// Find returns the connected components of g. Vertices without edges form
// singleton components.
//
// Time:   O(V + E + V·log V).
// Memory: O(V) for visited flags and output.
func Find(g *graph.Graph) ([][]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	n := g.VertexCount()
	seen := make([]bool, n)
	var comps [][]int

	for v0 := 0; v0 < n; v0++ {
		if seen[v0] {
			continue
		}
		// BFS to collect component
		queue := []int{v0}
		seen[v0] = true
		for qi := 0; qi < len(queue); qi++ {
			nbrs, err := g.Neighbors(queue[qi])
			if err != nil {
				return nil, fmt.Errorf("components: neighbors of %d: %w", queue[qi], err)
			}
			for _, u := range nbrs {
				if !seen[u] {
					seen[u] = true
					queue = append(queue, u)
				}
			}
		}
		sort.Ints(queue)
		comps = append(comps, queue)
	}
	Sort(comps)

	return comps, nil
}

// FromEdges builds a transient graph of n vertices from edges and partitions it.
// Endpoints outside 0..n-1 yield graph.ErrVertexNotFound.
func FromEdges(n int, edges []graph.Edge) ([][]int, error) {
	g, err := graph.New(n, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err = g.AddEdge(e.Source, e.Target, e.Weight); err != nil && !errors.Is(err, graph.ErrMultiEdgeNotAllowed) {
			return nil, fmt.Errorf("components: %w", err)
		}
	}

	return Find(g)
}

// Sort orders components by descending size, ties by smallest first element.
// Each component must already be sorted ascending.
func Sort(comps [][]int) {
	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
}
