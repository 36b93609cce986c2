// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go build of SQLite, so the binary stays
// CGo-free and tests can run against ":memory:" databases with zero setup.
// The profile's sub-documents (skills, social links, experience, education)
// are stored as JSON columns: they are only ever read and written as part
// of the whole profile document, so relational decomposition would buy
// nothing and cost several joins per read.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool and implements repository.Users,
// repository.Profiles, and repository.Accounts.
type DB struct {
	conn *sql.DB
}

// New opens the database, verifies the connection, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pool connection to ":memory:" would otherwise get its own empty
	// database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed during writes — necessary under concurrent
	// HTTP traffic. Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar        TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// user_id is UNIQUE: at most one profile per user, and the target of
	// the upsert's ON CONFLICT clause.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			status          TEXT NOT NULL,
			company         TEXT NOT NULL DEFAULT '',
			website         TEXT NOT NULL DEFAULT '',
			location        TEXT NOT NULL DEFAULT '',
			bio             TEXT NOT NULL DEFAULT '',
			github_username TEXT NOT NULL DEFAULT '',
			skills          TEXT NOT NULL DEFAULT '[]',
			social          TEXT NOT NULL DEFAULT '{}',
			experience      TEXT NOT NULL DEFAULT '[]',
			education       TEXT NOT NULL DEFAULT '[]',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	return nil
}
