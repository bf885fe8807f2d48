package store

import "fmt"

// migrations are applied in order; the index+1 is the schema version.
var migrations = []string{
	`CREATE TABLE runs (
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		params      TEXT NOT NULL,
		components  TEXT NOT NULL,
		node_count  INTEGER NOT NULL,
		edge_count  INTEGER NOT NULL,
		comp_count  INTEGER NOT NULL,
		isolated    INTEGER NOT NULL
	);
	CREATE INDEX idx_runs_created ON runs(created_at);
	CREATE TABLE run_nodes (
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		node     INTEGER NOT NULL,
		x        REAL NOT NULL,
		y        REAL NOT NULL,
		radius   REAL NOT NULL,
		isolated INTEGER NOT NULL,
		PRIMARY KEY (run_id, node)
	);
	CREATE TABLE run_edges (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source INTEGER NOT NULL,
		target INTEGER NOT NULL,
		weight REAL NOT NULL,
		PRIMARY KEY (run_id, source, target)
	);`,
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}
	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err = tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err = tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err = tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
