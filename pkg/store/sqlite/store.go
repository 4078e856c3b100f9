// Package sqlite provides a Store implementation persisted to a SQLite
// database, so a formula-tester session can reference records that
// survive restarts. The driver is modernc.org/sqlite (pure Go, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sandrolain/rowcalc/pkg/store"
)

const ddl = `
CREATE TABLE IF NOT EXISTS entities (
	id     TEXT PRIMARY KEY,
	fields TEXT NOT NULL
);
`

// Store persists entities in a single SQLite table. Non-id fields are
// stored as a JSON document, which keeps the schema free-form the same
// way the in-memory store is.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create entities table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetEntities returns all stored entities.
func (s *Store) GetEntities(ctx context.Context) ([]store.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, fields FROM entities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var entities []store.Entity
	for rows.Next() {
		var id, fields string
		if err := rows.Scan(&id, &fields); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}

		e := store.Entity{}
		if err := json.Unmarshal([]byte(fields), &e); err != nil {
			return nil, fmt.Errorf("decode entity %s: %w", id, err)
		}
		e[store.FieldID] = id
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// Put inserts or replaces an entity, keyed by its id.
// A missing id is filled with a random UUID. Returns the id.
func (s *Store) Put(ctx context.Context, e store.Entity) (string, error) {
	id := store.ID(e)
	if id == "" {
		id = uuid.NewString()
	}

	fields := make(map[string]interface{}, len(e))
	for k, v := range e {
		if k == store.FieldID {
			continue
		}
		fields[k] = v
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode entity %s: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (id, fields) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET fields = excluded.fields`,
		id, string(doc))
	if err != nil {
		return "", fmt.Errorf("put entity %s: %w", id, err)
	}
	return id, nil
}

// Delete removes the entity with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entity %s: %w", id, err)
	}
	return nil
}
