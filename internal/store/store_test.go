package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/layout"
	"github.com/katalvlaran/molnet/matrix"
	"github.com/katalvlaran/molnet/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func pairResult(t *testing.T) *network.Result {
	t.Helper()
	m, err := matrix.NewDenseFrom([][]float64{
		{1, 0.9, 0.1},
		{0.9, 1, 0.1},
		{0.1, 0.1, 1},
	})
	require.NoError(t, err)
	res, err := network.Generate(context.Background(), m, []float64{10, 20, 0})
	require.NoError(t, err)
	return res
}

func TestSaveGet_RoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	res := pairResult(t)
	params := Params{TopK: 10, MinScore: 0.65, Iterations: 1000, Seed: 42, DefaultRadius: 30}

	id, err := s.Save(ctx, params, res)
	require.NoError(t, err)

	run, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, params, run.Params)
	assert.Equal(t, res.Edges, run.Edges)
	assert.Equal(t, res.Components, run.Components)
	assert.Equal(t, res.Nodes(), run.Nodes)
	assert.Equal(t, []int{2}, run.Isolated())
	assert.Equal(t, 30.0, run.Nodes[2].Radius, "default radius is stored resolved")
}

func TestGet_NotFound(t *testing.T) {
	s := openMemory(t)

	_, err := s.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * 100 * time.Millisecond)
		s.now = func() time.Time { return at }
		id, err := s.Save(ctx, Params{}, pairResult(t))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, Summary{ID: ids[0], CreatedAt: base, Nodes: 3, Edges: 1, Components: 2, Isolated: 1}, all[2])

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestSave_EmptyNetwork(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	g, err := graph.New(0, nil)
	require.NoError(t, err)

	id, err := s.Save(ctx, Params{}, &network.Result{Layout: layout.Layout{}, Graph: g})
	require.NoError(t, err)
	run, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, run.Nodes)
	assert.Empty(t, run.Edges)
	assert.Empty(t, run.Components)
}

func TestDelete(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	id, err := s.Save(ctx, Params{}, pairResult(t))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestDelete_CascadesOnEveryConnection(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	id, err := s.Save(ctx, Params{}, pairResult(t))
	require.NoError(t, err)

	// Hold one connection so the next statements get another from the pool.
	pinned, err := s.db.Conn(ctx)
	require.NoError(t, err)
	defer pinned.Close()
	other, err := s.db.Conn(ctx)
	require.NoError(t, err)
	var fk, timeout int
	require.NoError(t, other.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	require.NoError(t, other.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
	require.NoError(t, other.Close())
	assert.Equal(t, 1, fk)
	assert.Equal(t, 5000, timeout)

	require.NoError(t, s.Delete(ctx, id))
	var orphans int
	require.NoError(t, pinned.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM run_nodes) + (SELECT COUNT(*) FROM run_edges)`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestOpen_FileReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.Save(context.Background(), Params{TopK: 3}, pairResult(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	run, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Params.TopK)
}
