// Package topk turns a symmetric similarity matrix into a sparse, deduplicated
// edge list by keeping, per node, its K best-scoring neighbors above a threshold.
package topk

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/matrix"
)

// pairKey is an unordered pair normalized to u < v.
type pairKey struct {
	u, v int
}

// Generate selects edges from m.
//
// For every row i, columns j≠i with m[i][j] >= MinScore are ranked by
// descending score, ties broken by lower j first, and the first K are kept
// (all of them when K == 0). The pair {i,j} is emitted once if either endpoint
// selected the other. Its weight is max(m[i][j], m[j][i]) so it does not depend
// on which endpoint selected it.
//
// The result is sorted by (Source, Target) with Source < Target.
// Returns ErrInvalidInput (wrapping the matrix sentinel) before any work for a
// malformed matrix, ErrOptionViolation for bad options, or the context error.
//
// Complexity: O(n²·log n) time, O(n + E) extra memory.
func Generate(m matrix.Matrix, opts ...Option) ([]graph.Edge, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateSimilarity(m, o.Tolerance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	n := m.Rows()
	selected := make(map[pairKey]float64)
	cands := make([]Candidate, 0, n)
	for i := 0; i < n; i++ {
		// cancellation check (once per row)
		select {
		case <-o.Ctx.Done():
			return nil, o.Ctx.Err()
		default:
		}

		cands = rank(m, i, o, cands[:0])
		for _, c := range cands {
			key := pairKey{u: i, v: c.Index}
			if key.u > key.v {
				key.u, key.v = key.v, key.u
			}
			if _, ok := selected[key]; ok {
				continue
			}
			w := c.Score
			if back, _ := m.At(c.Index, i); back > w {
				w = back
			}
			selected[key] = w
		}
	}

	edges := make([]graph.Edge, 0, len(selected))
	for key, w := range selected {
		edges = append(edges, graph.Edge{Source: key.u, Target: key.v, Weight: w})
	}
	graph.SortEdges(edges)

	return edges, nil
}

// Neighbors returns the ranked selection of a single row, exactly as Generate
// sees it before deduplication.
func Neighbors(m matrix.Matrix, row int, opts ...Option) ([]Candidate, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateSimilarity(m, o.Tolerance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if row < 0 || row >= m.Rows() {
		return nil, fmt.Errorf("Neighbors(%d): %w", row, ErrRowOutOfRange)
	}

	return rank(m, row, o, nil), nil
}

// rank appends the kept candidates of row i to buf and returns it.
func rank(m matrix.Matrix, i int, o Options, buf []Candidate) []Candidate {
	n := m.Cols()
	for j := 0; j < n; j++ {
		if j == i {
			continue // diagonal is self-similarity
		}
		v, _ := m.At(i, j) // in range after validation
		if v >= o.MinScore {
			buf = append(buf, Candidate{Index: j, Score: v})
		}
	}
	// Stable order on (score desc, index asc); indices are unique so the
	// comparator is total and sort.Slice is deterministic.
	sort.Slice(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		return buf[a].Index < buf[b].Index
	})
	if o.K > 0 && len(buf) > o.K {
		buf = buf[:o.K]
	}

	return buf
}
