package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"postino/internal/adapters/memory"
)

const schemaVersion = "1"

// Node kinds stored in the nodes table.
const (
	kindObject = "object"
	kindList   = "list"
	kindLeaf   = "leaf"
)

// Store persists an object graph in SQLite, one row per node. Objects and
// lists are container rows; scalars are leaf rows holding their value as
// JSON. It is the durable counterpart of the in-memory graph: load the
// graph at open, write it back on every mutation.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open initializes the database at path, creating the file and schema when
// missing. A leading ~ is expanded to the user's home directory.
func Open(path string) (*Store, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode keeps readers unblocked during the snapshot rewrites.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS nodes (
			id        INTEGER PRIMARY KEY,
			parent_id INTEGER,
			edge      TEXT,
			position  INTEGER,
			kind      TEXT NOT NULL,
			leaf      TEXT
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, dbPath: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Backing loads the persisted graph into a memory store wired to write
// every mutation back to the database. An empty database is seeded with
// seed first, so the first run and every later run serve the same graph.
func (s *Store) Backing(scheme string, seed map[string]any, opts ...memory.Option) (*memory.Store, error) {
	root, ok, err := s.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		root = seed
		if err := s.Save(root); err != nil {
			return nil, err
		}
	}
	opts = append(opts, memory.WithWriteHook(s.Save))
	return memory.New(scheme, root, opts...), nil
}

// Load reads the stored graph. ok is false when the database holds no
// graph yet.
func (s *Store) Load() (map[string]any, bool, error) {
	rows, err := s.db.Query(`SELECT id, parent_id, edge, position, kind, leaf FROM nodes`)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var (
		all      []nodeRow
		rootAt   = -1
		byParent = map[int64][]nodeRow{}
	)
	for rows.Next() {
		var r nodeRow
		if err := rows.Scan(&r.id, &r.parent, &r.edge, &r.position, &r.kind, &r.leaf); err != nil {
			return nil, false, fmt.Errorf("failed to scan node: %w", err)
		}
		all = append(all, r)
		if r.parent.Valid {
			byParent[r.parent.Int64] = append(byParent[r.parent.Int64], r)
		} else {
			rootAt = len(all) - 1
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to read nodes: %w", err)
	}
	if rootAt < 0 {
		return nil, false, nil
	}

	v, err := buildValue(all[rootAt], byParent)
	if err != nil {
		return nil, false, err
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("stored root node %d is not an object", all[rootAt].id)
	}
	return root, true, nil
}

// Save rewrites the stored graph to match root. The rewrite runs in one
// transaction, so a reopened database never sees a partial graph.
func (s *Store) Save(root map[string]any) error {
	t, err := s.beginRewrite()
	if err != nil {
		return fmt.Errorf("failed to begin graph rewrite: %w", err)
	}
	if err := t.insertValue(root, nil, nil, nil); err != nil {
		t.rollback()
		return fmt.Errorf("failed to write graph: %w", err)
	}
	if err := t.commit(); err != nil {
		return fmt.Errorf("failed to commit graph: %w", err)
	}
	return nil
}

// Seed replaces the stored graph with the JSON document in data.
func (s *Store) Seed(data []byte) error {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to decode seed document: %w", err)
	}
	return s.Save(root)
}

type nodeRow struct {
	id       int64
	parent   sql.NullInt64
	edge     sql.NullString
	position sql.NullInt64
	kind     string
	leaf     sql.NullString
}

func buildValue(r nodeRow, byParent map[int64][]nodeRow) (any, error) {
	switch r.kind {
	case kindObject:
		children := byParent[r.id]
		m := make(map[string]any, len(children))
		for _, child := range children {
			v, err := buildValue(child, byParent)
			if err != nil {
				return nil, err
			}
			m[child.edge.String] = v
		}
		return m, nil

	case kindList:
		children := byParent[r.id]
		sort.Slice(children, func(a, b int) bool {
			return children[a].position.Int64 < children[b].position.Int64
		})
		seq := make([]any, 0, len(children))
		for _, child := range children {
			v, err := buildValue(child, byParent)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil

	default:
		if !r.leaf.Valid {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal([]byte(r.leaf.String), &v); err != nil {
			return nil, fmt.Errorf("failed to decode leaf node %d: %w", r.id, err)
		}
		return v, nil
	}
}
