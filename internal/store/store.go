// Package store persists generated networks in SQLite so the CLI and the HTTP
// service can list and reload past runs.
//
// A run keeps its parameters, every node (position, radius, isolated flag) and
// every edge. It is a results cache, not a project file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/network"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("store: run not found")

// Params records the pipeline parameters of a run.
type Params struct {
	TopK          int     `json:"top_k"`
	MinScore      float64 `json:"min_score"`
	Iterations    int     `json:"iterations"`
	Seed          int64   `json:"seed"`
	DefaultRadius float64 `json:"default_radius"`
}

// Run is a stored network.
type Run struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Params     Params         `json:"params"`
	Nodes      []network.Node `json:"nodes"`
	Edges      []graph.Edge   `json:"edges"`
	Components [][]int        `json:"components"`
}

// Isolated returns the ids of isolated nodes, ascending.
func (r *Run) Isolated() []int {
	out := []int{}
	for _, n := range r.Nodes {
		if n.Isolated {
			out = append(out, n.ID)
		}
	}
	return out
}

// Summary is one line of List.
type Summary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	Components int       `json:"components"`
	Isolated   int       `json:"isolated"`
}

// Store is a SQLite-backed run store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
// Pass MemoryPath for a throwaway database.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err = s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}

	return s, nil
}

// connPragmas run on every new pooled connection.
var connPragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// dsn appends connPragmas to path in the driver's _pragma query form.
func dsn(path string) string {
	q := make(url.Values)
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
