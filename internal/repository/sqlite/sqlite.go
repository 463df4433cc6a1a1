// Package sqlite implements repository.UserRepository on SQLite.
//
// WHY SQLITE?
// The whole account store is one table of point queries — an embedded database
// handles that without any server to operate. modernc.org/sqlite is a pure-Go
// translation of SQLite (no CGo), so the binary cross-compiles cleanly and
// tests can run against ":memory:" databases.
//
// sql.DB is a connection POOL, not a single connection. Each HTTP request
// borrows a connection for its query and returns it; that pool is the only
// shared mutable state in the process.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool and carries the repository methods (user.go).
type DB struct {
	conn *sql.DB
}

// New opens the database, verifies connectivity, and bootstraps the schema.
//
// dbPath is either a file path ("data/accounts.db") or ":memory:" for tests.
//
// Bootstrap failure is FATAL: New returns the error and the caller refuses to
// start. An account service that cannot guarantee its users table exists would
// fail every request anyway, so failing fast at startup is strictly better
// than logging and limping on.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open is lazy — Ping forces a real connection so a bad path or
	// permission problem surfaces here, not on the first login.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — needed once
	// concurrent HTTP requests share the pool.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.bootstrap(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: bootstrapping schema: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this behind graceful
// shutdown so the WAL is flushed before the process exits.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the store is reachable. Used by the health endpoint.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// bootstrap idempotently ensures the users table exists.
//
// CREATE TABLE IF NOT EXISTS is the entire migration story here — the schema
// has a single table and no history of shape changes. The UNIQUE constraints
// on username, email, and validation_key are the service's only concurrency
// defense against duplicate registrations: two racing inserts resolve at the
// store, and the loser gets a constraint error.
func (db *DB) bootstrap() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id        TEXT PRIMARY KEY,
			username       TEXT NOT NULL UNIQUE,
			email          TEXT NOT NULL UNIQUE,
			password       TEXT NOT NULL,
			validation_key TEXT NOT NULL UNIQUE,
			validated      INTEGER NOT NULL DEFAULT 0,
			creation_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
