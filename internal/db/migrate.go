package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order and recorded in schema_migrations by
// their 1-based position. Append only.
var migrations = []string{
	`CREATE TABLE projects (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		bond_category TEXT NOT NULL
		              CHECK(bond_category IN ('BID','PERFORMANCE','ADVANCE_PAYMENT','QUALITY','MIGRANT_WORKER')),
		status        TEXT NOT NULL DEFAULT 'Draft'
		              CHECK(status IN ('Draft','Reviewing','Approved','Rejected','Completed')),
		customer_name TEXT NOT NULL DEFAULT '',
		amount        REAL NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX idx_projects_created ON projects(created_at)`,

	`CREATE TABLE operation_logs (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		action     TEXT NOT NULL,
		details    TEXT NOT NULL DEFAULT '',
		user       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX idx_operation_logs_project ON operation_logs(project_id, created_at)`,

	// Snapshot of the submitted review report as JSON.
	`ALTER TABLE projects ADD COLUMN report_json TEXT NOT NULL DEFAULT ''`,
}

// Migrate applies every migration not yet recorded. Safe to call repeatedly.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var applied int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := applied; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// SchemaVersion returns the number of applied migrations.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	return v, err
}
