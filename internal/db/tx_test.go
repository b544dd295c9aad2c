package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/db"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertProject(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (id, name, bond_category, created_at, updated_at)
		VALUES (?, 'n', 'BID', '2025-01-01', '2025-01-01')`, id)
	return err
}

func countProjects(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	return n
}

func TestWithinTx_CommitsProjectAndLog(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "p1"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO operation_logs (id, project_id, action, created_at)
			VALUES ('l1', 'p1', 'project_created', '2025-01-01')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countProjects(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	failure := errors.New("log insert failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "p2"); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)
	assert.Zero(t, countProjects(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "p3")
			panic("boom")
		})
	})
	assert.Zero(t, countProjects(t, database))
}

func TestWithinTx_BeginAndCommitFailures(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	uow := db.NewSQLiteUnitOfWork(mockDB)

	mock.ExpectBegin().WillReturnError(errors.New("locked"))
	err = uow.WithinTx(context.Background(), func(context.Context, db.DBTX) error { return nil })
	assert.ErrorContains(t, err, "beginning transaction")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))
	err = uow.WithinTx(context.Background(), func(context.Context, db.DBTX) error { return nil })
	assert.ErrorContains(t, err, "committing transaction")

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("conn gone"))
	err = uow.WithinTx(context.Background(), func(context.Context, db.DBTX) error { return errors.New("fn failed") })
	assert.ErrorContains(t, err, "rolling back")
	assert.ErrorContains(t, err, "fn failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}
