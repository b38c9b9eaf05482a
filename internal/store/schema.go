// Package store provides the SQLite-backed recipe collection with optional
// FTS5 full-text search.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	prep_time      TEXT NOT NULL DEFAULT '',
	cook_time      TEXT NOT NULL DEFAULT '',
	total_time     TEXT NOT NULL DEFAULT '',
	servings       TEXT NOT NULL DEFAULT '',
	cuisine        TEXT NOT NULL DEFAULT '',
	meal_type      TEXT NOT NULL DEFAULT '',
	source_url     TEXT NOT NULL DEFAULT '',
	image_url      TEXT NOT NULL DEFAULT '',
	image_data_b64 TEXT NOT NULL DEFAULT '',
	ingredients    TEXT NOT NULL DEFAULT '[]',
	instructions   TEXT NOT NULL DEFAULT '[]',
	keywords       TEXT NOT NULL DEFAULT '[]',
	added_on       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_recipes_added_on ON recipes(added_on);
`

// DB wraps a sql.DB with recipe collection operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
