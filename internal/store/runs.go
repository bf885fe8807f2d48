package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/network"
)

// timeLayout has a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Save stores res with its parameters under a new id and returns the id.
func (s *Store) Save(ctx context.Context, params Params, res *network.Result) (string, error) {
	if res == nil {
		return "", errors.New("store: nil result")
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("store: encoding params: %w", err)
	}
	comps := res.Components
	if comps == nil {
		comps = [][]int{}
	}
	compsJSON, err := json.Marshal(comps)
	if err != nil {
		return "", fmt.Errorf("store: encoding components: %w", err)
	}

	id := uuid.NewString()
	nodes := res.Nodes()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, params, components, node_count, edge_count, comp_count, isolated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(timeLayout), string(paramsJSON), string(compsJSON),
		len(nodes), len(res.Edges), len(res.Components), len(res.Isolated),
	)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_nodes (run_id, node, x, y, radius, isolated) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("store: prepare nodes: %w", err)
	}
	defer nodeStmt.Close()
	for _, n := range nodes {
		if _, err = nodeStmt.ExecContext(ctx, id, n.ID, n.X, n.Y, n.Radius, n.Isolated); err != nil {
			return "", fmt.Errorf("store: insert node %d: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_edges (run_id, source, target, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("store: prepare edges: %w", err)
	}
	defer edgeStmt.Close()
	for _, e := range res.Edges {
		if _, err = edgeStmt.ExecContext(ctx, id, e.Source, e.Target, e.Weight); err != nil {
			return "", fmt.Errorf("store: insert edge %d-%d: %w", e.Source, e.Target, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}

	return id, nil
}

// Get loads the run with the given id. Malformed ids and unknown ids both
// return ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	var (
		run       = Run{ID: id}
		created   string
		paramsRaw string
		compsRaw  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, params, components FROM runs WHERE id = ?`, id,
	).Scan(&created, &paramsRaw, &compsRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("store: created_at: %w", err)
	}
	if err = json.Unmarshal([]byte(paramsRaw), &run.Params); err != nil {
		return nil, fmt.Errorf("store: params: %w", err)
	}
	if err = json.Unmarshal([]byte(compsRaw), &run.Components); err != nil {
		return nil, fmt.Errorf("store: components: %w", err)
	}

	if run.Nodes, err = s.nodes(ctx, id); err != nil {
		return nil, err
	}
	if run.Edges, err = s.edges(ctx, id); err != nil {
		return nil, err
	}

	return &run, nil
}

func (s *Store) nodes(ctx context.Context, id string) ([]network.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT node, x, y, radius, isolated FROM run_nodes WHERE run_id = ? ORDER BY node`, id)
	if err != nil {
		return nil, fmt.Errorf("store: nodes: %w", err)
	}
	defer rows.Close()

	out := []network.Node{}
	for rows.Next() {
		var n network.Node
		if err = rows.Scan(&n.ID, &n.X, &n.Y, &n.Radius, &n.Isolated); err != nil {
			return nil, fmt.Errorf("store: scan node: %w", err)
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

func (s *Store) edges(ctx context.Context, id string) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, target, weight FROM run_edges WHERE run_id = ? ORDER BY source, target`, id)
	if err != nil {
		return nil, fmt.Errorf("store: edges: %w", err)
	}
	defer rows.Close()

	out := []graph.Edge{}
	for rows.Next() {
		var e graph.Edge
		if err = rows.Scan(&e.Source, &e.Target, &e.Weight); err != nil {
			return nil, fmt.Errorf("store: scan edge: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// List returns up to limit runs, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, node_count, edge_count, comp_count, isolated
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			created string
		)
		if err = rows.Scan(&sum.ID, &created, &sum.Nodes, &sum.Edges, &sum.Components, &sum.Isolated); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("store: created_at: %w", err)
		}
		out = append(out, sum)
	}

	return out, rows.Err()
}

// Delete removes a run with its nodes and edges.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return nil
}
