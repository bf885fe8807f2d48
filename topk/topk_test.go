package topk_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/matrix"
	"github.com/katalvlaran/molnet/topk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniform builds an n×n matrix with 1 on the diagonal and v elsewhere.
func uniform(t *testing.T, n int, v float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				require.NoError(t, m.Set(i, j, 1))
			} else {
				require.NoError(t, m.Set(i, j, v))
			}
		}
	}
	return m
}

// randomSymmetric builds a reproducible symmetric matrix with scores in [0,1).
func randomSymmetric(t *testing.T, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := uniform(t, n, 0)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := rng.Float64()
			require.NoError(t, m.Set(i, j, v))
			require.NoError(t, m.Set(j, i, v))
		}
	}
	return m
}

func TestGenerate_SinglePairScenario(t *testing.T) {
	m := uniform(t, 5, 0.1)
	require.NoError(t, m.Set(0, 1, 0.9))
	require.NoError(t, m.Set(1, 0, 0.9))

	edges, err := topk.Generate(m, topk.WithK(10), topk.WithMinScore(0.65))
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{{Source: 0, Target: 1, Weight: 0.9}}, edges)
}

func TestGenerate_TopOneOnCompleteGraph(t *testing.T) {
	m := uniform(t, 4, 0.8)

	edges, err := topk.Generate(m, topk.WithK(1), topk.WithMinScore(0.65))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(edges), 4)

	// Ties resolve to the lowest index: 0→1, 1→0, 2→0, 3→0.
	assert.Equal(t, []graph.Edge{
		{Source: 0, Target: 1, Weight: 0.8},
		{Source: 0, Target: 2, Weight: 0.8},
		{Source: 0, Target: 3, Weight: 0.8},
	}, edges)

	for i := 0; i < 4; i++ {
		own, err := topk.Neighbors(m, i, topk.WithK(1), topk.WithMinScore(0.65))
		require.NoError(t, err)
		assert.Len(t, own, 1, "node %d selects exactly one neighbor", i)
	}
}

func TestGenerate_ZeroKMeansNoCap(t *testing.T) {
	m := uniform(t, 5, 0.8)

	edges, err := topk.Generate(m, topk.WithK(0), topk.WithMinScore(0.5))
	require.NoError(t, err)
	assert.Len(t, edges, 10, "complete graph K5 has 10 edges")
}

func TestGenerate_ThresholdIsInclusive(t *testing.T) {
	m := uniform(t, 3, 0.1)
	require.NoError(t, m.Set(1, 2, 0.65))
	require.NoError(t, m.Set(2, 1, 0.65))

	edges, err := topk.Generate(m, topk.WithMinScore(0.65))
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{{Source: 1, Target: 2, Weight: 0.65}}, edges)
}

func TestGenerate_EmptyAndDisconnected(t *testing.T) {
	empty, err := matrix.NewDenseFrom(nil)
	require.NoError(t, err)
	edges, err := topk.Generate(empty)
	require.NoError(t, err)
	assert.Empty(t, edges)

	edges, err = topk.Generate(uniform(t, 6, 0.2), topk.WithMinScore(0.9))
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestGenerate_DiagonalIgnored(t *testing.T) {
	m := uniform(t, 3, 0)

	edges, err := topk.Generate(m, topk.WithMinScore(0.5))
	require.NoError(t, err)
	assert.Empty(t, edges, "self-similarity must never produce an edge")
}

func TestGenerate_WeightIsMaxOfBothDirections(t *testing.T) {
	// Only row 0 selects 1; row 1 prefers 2. m[1][0] is higher within tolerance.
	m, err := matrix.NewDenseFrom([][]float64{
		{1, 0.8, 0.1},
		{0.8000005, 1, 0.95},
		{0.1, 0.95, 1},
	})
	require.NoError(t, err)

	edges, err := topk.Generate(m, topk.WithK(1), topk.WithMinScore(0.5))
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{
		{Source: 0, Target: 1, Weight: 0.8000005},
		{Source: 1, Target: 2, Weight: 0.95},
	}, edges)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := topk.Generate(nil)
	assert.ErrorIs(t, err, topk.ErrInvalidInput)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)

	nonSquare, _ := matrix.NewDenseFrom([][]float64{{1, 0.5, 0.2}, {0.5, 1, 0.3}})
	_, err = topk.Generate(nonSquare)
	assert.ErrorIs(t, err, topk.ErrInvalidInput)
	assert.ErrorIs(t, err, matrix.ErrNonSquare)

	asym, _ := matrix.NewDenseFrom([][]float64{{1, 0.9}, {0.1, 1}})
	_, err = topk.Generate(asym)
	assert.ErrorIs(t, err, topk.ErrInvalidInput)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)

	ok := uniform(t, 3, 0.5)
	_, err = topk.Generate(ok, topk.WithK(-1))
	assert.ErrorIs(t, err, topk.ErrOptionViolation)
	_, err = topk.Generate(ok, topk.WithTolerance(-1))
	assert.ErrorIs(t, err, topk.ErrOptionViolation)

	_, err = topk.Neighbors(ok, 3)
	assert.ErrorIs(t, err, topk.ErrRowOutOfRange)
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := topk.Generate(uniform(t, 4, 0.9), topk.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestGenerate_Properties checks, over a set of random symmetric matrices,
// that no self-loop or duplicate pair is produced, that every edge meets the
// threshold, and that repeated runs are identical.
func TestGenerate_Properties(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		n := 5 + int(seed)%17
		m := randomSymmetric(t, n, seed)
		k := int(seed % 4)

		edges, err := topk.Generate(m, topk.WithK(k), topk.WithMinScore(0.3))
		require.NoError(t, err)

		seen := make(map[[2]int]bool, len(edges))
		for _, e := range edges {
			require.NotEqual(t, e.Source, e.Target, "self-loop")
			require.Less(t, e.Source, e.Target, "edges are normalized")
			key := [2]int{e.Source, e.Target}
			require.False(t, seen[key], "duplicate pair %v", key)
			seen[key] = true
			require.GreaterOrEqual(t, e.Weight, 0.3)
		}
		if k > 0 {
			require.LessOrEqual(t, len(edges), n*k)
		}

		again, err := topk.Generate(m, topk.WithK(k), topk.WithMinScore(0.3))
		require.NoError(t, err)
		require.Equal(t, edges, again, "seed %d: output must be deterministic", seed)
	}
}
