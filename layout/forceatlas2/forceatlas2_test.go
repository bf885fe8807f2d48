// SPDX-License-Identifier: MIT

package forceatlas2_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/layout/forceatlas2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func ring(n int) []graph.Edge {
	edges := make([]graph.Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, graph.Edge{Source: i, Target: (i + 1) % n, Weight: 0.8}.Normalized())
	}
	return edges
}

func requireFinite(t *testing.T, pos []r2.Vec) {
	t.Helper()
	for i, p := range pos {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "node %d is NaN", i)
		require.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0), "node %d is Inf", i)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	eng := forceatlas2.New(forceatlas2.WithIterations(200))
	edges := ring(12)

	a, err := eng.Layout(context.Background(), 12, edges, ones(12))
	require.NoError(t, err)
	b, err := eng.Layout(context.Background(), 12, edges, ones(12))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	requireFinite(t, a)
}

func TestLayout_SeedChangesStart(t *testing.T) {
	edges := ring(6)
	a, err := forceatlas2.New(forceatlas2.WithIterations(10), forceatlas2.WithSeed(1)).
		Layout(context.Background(), 6, edges, ones(6))
	require.NoError(t, err)
	b, err := forceatlas2.New(forceatlas2.WithIterations(10), forceatlas2.WithSeed(2)).
		Layout(context.Background(), 6, edges, ones(6))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLayout_ExactAndApproximateAreFinite(t *testing.T) {
	edges := ring(40)
	for name, eng := range map[string]*forceatlas2.Engine{
		"barnes-hut": forceatlas2.New(forceatlas2.WithIterations(100)),
		"exact":      forceatlas2.New(forceatlas2.WithIterations(100), forceatlas2.WithoutBarnesHut()),
		"linlog":     forceatlas2.New(forceatlas2.WithIterations(100), forceatlas2.WithLinLog()),
		"strong":     forceatlas2.New(forceatlas2.WithIterations(100), forceatlas2.WithStrongGravity()),
		"dissuade":   forceatlas2.New(forceatlas2.WithIterations(100), forceatlas2.WithOutboundAttractionDistribution()),
	} {
		t.Run(name, func(t *testing.T) {
			pos, err := eng.Layout(context.Background(), 40, edges, ones(40))
			require.NoError(t, err)
			require.Len(t, pos, 40)
			requireFinite(t, pos)
		})
	}
}

func TestLayout_ClustersStayTogether(t *testing.T) {
	// Two triangles without a bridge: gravity keeps them in frame, repulsion
	// pushes them apart, attraction keeps each triangle tight.
	edges := []graph.Edge{
		{Source: 0, Target: 1, Weight: 1}, {Source: 0, Target: 2, Weight: 1}, {Source: 1, Target: 2, Weight: 1},
		{Source: 3, Target: 4, Weight: 1}, {Source: 3, Target: 5, Weight: 1}, {Source: 4, Target: 5, Weight: 1},
	}
	pos, err := forceatlas2.New(forceatlas2.WithIterations(500), forceatlas2.WithoutBarnesHut()).
		Layout(context.Background(), 6, edges, ones(6))
	require.NoError(t, err)

	dist := func(i, j int) float64 { return r2.Norm(r2.Sub(pos[i], pos[j])) }
	var intra, inter float64
	for _, e := range edges {
		intra += dist(e.Source, e.Target)
	}
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			inter += dist(i, j)
		}
	}
	assert.Less(t, intra/6, inter/9)
}

func TestLayout_RadiusScaling(t *testing.T) {
	edges := ring(5)
	base, err := forceatlas2.New(forceatlas2.WithIterations(50), forceatlas2.WithRadiusScaling(false)).
		Layout(context.Background(), 5, edges, []float64{2, 2, 2, 2, 2})
	require.NoError(t, err)
	scaled, err := forceatlas2.New(forceatlas2.WithIterations(50)).
		Layout(context.Background(), 5, edges, []float64{2, 2, 2, 2, 2})
	require.NoError(t, err)

	for i := range base {
		assert.Equal(t, r2.Scale(2, base[i]), scaled[i])
	}
}

func TestLayout_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pos, err := forceatlas2.New().Layout(ctx, 3, ring(3), ones(3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, pos)
}

func TestLayout_Errors(t *testing.T) {
	eng := forceatlas2.New(forceatlas2.WithIterations(1))

	_, err := eng.Layout(context.Background(), 3, nil, ones(2))
	assert.ErrorIs(t, err, forceatlas2.ErrRadiiLength)

	_, err = eng.Layout(context.Background(), 3, []graph.Edge{{Source: 0, Target: 3, Weight: 1}}, ones(3))
	assert.ErrorIs(t, err, forceatlas2.ErrEdgeOutOfRange)

	pos, err := eng.Layout(context.Background(), 0, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pos)
}

func TestOptions_Panic(t *testing.T) {
	assert.Panics(t, func() { forceatlas2.WithIterations(0) })
	assert.Panics(t, func() { forceatlas2.WithScalingRatio(0) })
	assert.Panics(t, func() { forceatlas2.WithScalingRatio(math.Inf(1)) })
	assert.Panics(t, func() { forceatlas2.WithGravity(-1) })
	assert.Panics(t, func() { forceatlas2.WithEdgeWeightInfluence(math.NaN()) })
	assert.Panics(t, func() { forceatlas2.WithJitterTolerance(0) })
	assert.Panics(t, func() { forceatlas2.WithBarnesHut(-0.5) })
	assert.Panics(t, func() { forceatlas2.WithCheckEvery(0) })
	assert.NotPanics(t, func() { forceatlas2.WithGravity(0) })
	assert.Equal(t, 7, forceatlas2.New(forceatlas2.WithIterations(7)).Iterations())
}

func ExampleEngine_Layout() {
	eng := forceatlas2.New(forceatlas2.WithIterations(100))
	edges := []graph.Edge{
		{Source: 0, Target: 1, Weight: 0.9},
		{Source: 1, Target: 2, Weight: 0.8},
		{Source: 0, Target: 2, Weight: 0.7},
	}
	pos, err := eng.Layout(context.Background(), 3, edges, []float64{30, 30, 30})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(pos))
	// Output: 3
}
