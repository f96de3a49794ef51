// Package sqlite provides SQLite-based persistent storage for Questify.
// Uses WAL mode for concurrent reads and crash-safe writes. The engine
// loads everything on startup and writes back after every mutation.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Key-value store for the scalar fields of UserStats
		`CREATE TABLE IF NOT EXISTS stats (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Per-badge progress and unlock state; display metadata lives in
		// the in-code catalog and is merged on load
		`CREATE TABLE IF NOT EXISTS badges (
			id          TEXT PRIMARY KEY,
			progress    INTEGER NOT NULL DEFAULT 0,
			unlocked    BOOLEAN NOT NULL DEFAULT 0,
			unlocked_at INTEGER
		)`,

		// Daily quests, accumulated across days and never pruned
		`CREATE TABLE IF NOT EXISTS quests (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			target      REAL NOT NULL,
			progress    REAL NOT NULL DEFAULT 0,
			xp_reward   INTEGER NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT 0,
			date        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quests_date ON quests(date)`,

		// Notification outbox (pending until the UI marks them shown)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			payload    TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_created ON notifications(created_at)`,

		// XP audit trail, append-only
		`CREATE TABLE IF NOT EXISTS xp_ledger (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			source      TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			total_after INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_ts ON xp_ledger(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ResetAll wipes all persisted gamification state. Used by the
// user-initiated reset flow.
func (d *DB) ResetAll() error {
	for _, table := range []string{"stats", "badges", "quests", "notifications", "xp_ledger"} {
		if _, err := d.db.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
