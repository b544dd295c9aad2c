package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "operation_logs", "schema_migrations"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	for _, idx := range []string{"idx_projects_created", "idx_operation_logs_project"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_StatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, bond_category, status, created_at, updated_at)
		VALUES ('p1', 'x', 'BID', 'Archived', '2025-01-01', '2025-01-01')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO projects (id, name, bond_category, status, created_at, updated_at)
		VALUES ('p1', 'x', 'SURETY', 'Draft', '2025-01-01', '2025-01-01')`)
	assert.Error(t, err)
}

func TestMigrate_LogsCascadeWithProject(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, bond_category, created_at, updated_at)
		VALUES ('p1', 'x', 'BID', '2025-01-01', '2025-01-01')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO operation_logs (id, project_id, action, created_at)
		VALUES ('l1', 'p1', 'project_created', '2025-01-01')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM operation_logs`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_RejectsOrphanLog(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO operation_logs (id, project_id, action, created_at)
		VALUES ('l1', 'missing', 'status_changed', '2025-01-01')`)
	assert.Error(t, err)
}

func TestOpenDB_FileReopenKeepsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "surety.db")

	first, err := OpenDB(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO projects (id, name, bond_category, created_at, updated_at)
		VALUES ('p1', 'x', 'QUALITY', '2025-01-01', '2025-01-01')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenDB(path)
	require.NoError(t, err)
	defer second.Close()

	v, err := SchemaVersion(second)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)

	var n int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	assert.Equal(t, 1, n)
}
