package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/testutil"
)

func TestSQLiteProjectRepo_ListBreaksTiesByInsertOrder(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	at := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)

	for _, name := range []string{"older", "newer"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestProject(name, testutil.WithCreatedAt(at))))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Name)
}

func TestSQLiteProjectRepo_RejectsInvalidStatus(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	p := testutil.NewTestProject("A", testutil.WithProjectStatus("Archived"))
	assert.Error(t, repo.Create(context.Background(), p))
}

func TestSQLiteOperationLogRepo_RequiresProject(t *testing.T) {
	logs := NewSQLiteOperationLogRepo(testutil.NewTestDB(t))
	err := logs.Insert(context.Background(), testutil.NewTestLog("ghost", domain.ActionStatusChanged, time.Now()))
	assert.Error(t, err)
}

func TestSQLiteStore_FailingSecondWriteRollsBackFirst(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := NewSQLiteStoreWithUoW(database, &testutil.FailingUoW{
		DB: database, FailOn: 2, Err: errors.New("injected"),
	})
	ctx := context.Background()
	p := testutil.NewTestProject("A")

	err := store.WithinTx(ctx, func(ctx context.Context, projects ProjectRepo, logs OperationLogRepo) error {
		if err := projects.Create(ctx, p); err != nil {
			return err
		}
		return logs.Insert(ctx, testutil.NewTestLog(p.ID, domain.ActionProjectCreated, p.CreatedAt))
	})
	require.ErrorContains(t, err, "injected")

	_, err = store.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteProjectRepo_DriverErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewSQLiteProjectRepo(mockDB)
	ctx := context.Background()

	mock.ExpectQuery("SELECT .* FROM projects ORDER BY").WillReturnError(errors.New("io"))
	_, err = repo.List(ctx)
	assert.ErrorContains(t, err, "listing projects")

	mock.ExpectExec("UPDATE projects SET status").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no rows info")))
	err = repo.UpdateStatus(ctx, "p1", domain.ProjectApproved, time.Now())
	assert.ErrorContains(t, err, "updating project status")

	mock.ExpectExec("UPDATE projects SET status").WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateStatus(ctx, "p1", domain.ProjectApproved, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteProjectRepo_CorruptTimestamp(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "bond_category", "status", "customer_name", "amount", "report_json", "created_at", "updated_at"}).
		AddRow("p1", "A", "BID", "Draft", "", 0.0, "", "yesterday", "yesterday")
	mock.ExpectQuery("SELECT .* FROM projects WHERE id").WithArgs("p1").WillReturnRows(rows)

	_, err = NewSQLiteProjectRepo(mockDB).GetByID(context.Background(), "p1")
	assert.ErrorContains(t, err, "parsing created_at")
}
