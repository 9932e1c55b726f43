package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Every schema object is IF NOT EXISTS so the pipeline can replay after
// a state reset without disturbing existing data.

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const baseSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS groups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS network_services (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	group_id INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	host TEXT NOT NULL,
	port INTEGER NOT NULL,
	protocol TEXT NOT NULL DEFAULT 'tcp',
	status TEXT NOT NULL DEFAULT 'unknown',
	owner TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	last_checked_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (host, port, protocol)
);

CREATE INDEX IF NOT EXISTS idx_network_services_group ON network_services(group_id);
CREATE INDEX IF NOT EXISTS idx_network_services_status ON network_services(status);

CREATE TABLE IF NOT EXISTS status_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	service_id INTEGER NOT NULL REFERENCES network_services(id) ON DELETE CASCADE,
	old_status TEXT NOT NULL,
	new_status TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_status_events_created ON status_events(created_at DESC);
`

func (s *Store) ensureLedger(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ledgerSchema); err != nil {
		return &SchemaError{Err: fmt.Errorf("ensure ledger: %w", err)}
	}
	return nil
}

func (s *Store) applyBaseSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, baseSchema); err != nil {
		return &SchemaError{Err: fmt.Errorf("base schema: %w", err)}
	}
	s.schemaApplies.Add(1)
	return nil
}

func ledgerExists(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
