package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with pulsedesk-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    channel TEXT NOT NULL DEFAULT 'web',
    language TEXT NOT NULL DEFAULT 'ar',
    tone TEXT NOT NULL DEFAULT 'formal' CHECK(tone IN ('formal','casual')),
    needs TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interactions (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    occurred_at DATETIME NOT NULL DEFAULT (datetime('now')),
    specialist_id TEXT NOT NULL DEFAULT '',
    channel TEXT NOT NULL DEFAULT 'web',
    summary TEXT NOT NULL DEFAULT '',
    sentiment TEXT NOT NULL DEFAULT 'neutral',
    outcome TEXT NOT NULL DEFAULT 'pending' CHECK(outcome IN ('resolved','pending','escalated')),
    follow_up INTEGER NOT NULL DEFAULT 0,
    UNIQUE(customer_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_interactions_customer ON interactions(customer_id, seq);

CREATE TABLE IF NOT EXISTS opportunities (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
    title TEXT NOT NULL DEFAULT '',
    stage TEXT NOT NULL DEFAULT 'lead' CHECK(stage IN ('lead','qualified','proposal','negotiation','won','lost')),
    value_sar REAL NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_opportunities_stage ON opportunities(stage);
CREATE INDEX IF NOT EXISTS idx_opportunities_customer ON opportunities(customer_id);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
    kind TEXT NOT NULL DEFAULT 'phone' CHECK(kind IN ('phone','email')),
    address TEXT NOT NULL,
    UNIQUE(customer_id, kind, address)
);

CREATE INDEX IF NOT EXISTS idx_contacts_customer ON contacts(customer_id);
`
