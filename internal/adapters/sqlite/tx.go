package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
)

// graphTx writes one full graph inside a transaction. Node ids are assigned
// in walk order, parents before children.
type graphTx struct {
	tx   *sql.Tx
	stmt *sql.Stmt
	next int64
}

func (s *Store) beginRewrite() (*graphTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		tx.Rollback()
		return nil, err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO nodes (id, parent_id, edge, position, kind, leaf)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &graphTx{tx: tx, stmt: stmt, next: 1}, nil
}

// insertValue stores v and recurses into its children. parent, edge and
// position are nil at the root; edge is set under objects and position
// under lists.
func (t *graphTx) insertValue(v, parent, edge, position any) error {
	id := t.next
	t.next++

	switch val := v.(type) {
	case map[string]any:
		if _, err := t.stmt.Exec(id, parent, edge, position, kindObject, nil); err != nil {
			return err
		}
		// Sorted keys keep the stored row order deterministic.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := t.insertValue(val[k], id, k, nil); err != nil {
				return err
			}
		}

	case []any:
		if _, err := t.stmt.Exec(id, parent, edge, position, kindList, nil); err != nil {
			return err
		}
		for i, item := range val {
			if err := t.insertValue(item, id, nil, i); err != nil {
				return err
			}
		}

	default:
		leaf, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("cannot encode value under %v/%v: %w", edge, position, err)
		}
		if _, err := t.stmt.Exec(id, parent, edge, position, kindLeaf, string(leaf)); err != nil {
			return err
		}
	}
	return nil
}

func (t *graphTx) commit() error {
	t.stmt.Close()
	return t.tx.Commit()
}

func (t *graphTx) rollback() error {
	t.stmt.Close()
	return t.tx.Rollback()
}
