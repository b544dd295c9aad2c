package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/testutil"
)

// storeFactories runs every contract test against both backends.
var storeFactories = map[string]func(t *testing.T) Store{
	"sqlite": func(t *testing.T) Store {
		return NewSQLiteStore(testutil.NewTestDB(t))
	},
	"redis": func(t *testing.T) Store {
		_, client := testutil.NewTestRedis(t)
		return NewRedisStore(client, "test")
	},
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func TestStore_CreateAndGetByID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		report := testutil.NewTestReport("城南污水处理厂", "华建集团", "¥500,000")
		p := testutil.NewTestProject("城南污水处理厂",
			testutil.WithCategory(domain.BondPerformance),
			testutil.WithReport(report))
		require.NoError(t, s.Projects().Create(ctx, p))

		got, err := s.Projects().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, domain.BondPerformance, got.BondCategory)
		assert.Equal(t, domain.ProjectReviewing, got.Status)
		assert.Equal(t, p.CustomerName, got.CustomerName)
		assert.InDelta(t, p.Amount, got.Amount, 0)
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt), "created_at round-trips")
		require.NotNil(t, got.Report)
		assert.Equal(t, "¥500,000", got.Report.GuaranteeInfo.Amount)
	})
}

func TestStore_CreateWithoutReport(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := testutil.NewTestProject("无报告")
		require.NoError(t, s.Projects().Create(ctx, p))

		got, err := s.Projects().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Report)
	})
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := testutil.NewTestProject("A")
		require.NoError(t, s.Projects().Create(ctx, p))
		assert.Error(t, s.Projects().Create(ctx, p))
	})
}

func TestStore_GetByID_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.Projects().GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ListNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		for i, name := range []string{"first", "second", "third"} {
			p := testutil.NewTestProject(name, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, s.Projects().Create(ctx, p))
		}

		list, err := s.Projects().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "third", list[0].Name)
		assert.Equal(t, "second", list[1].Name)
		assert.Equal(t, "first", list[2].Name)
	})
}

func TestStore_ListEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		list, err := s.Projects().List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestStore_UpdateStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := testutil.NewTestProject("A", testutil.WithCreatedAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, s.Projects().Create(ctx, p))

		at := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, s.Projects().UpdateStatus(ctx, p.ID, domain.ProjectApproved, at))

		got, err := s.Projects().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectApproved, got.Status)
		assert.True(t, at.Equal(got.UpdatedAt))
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt), "created_at untouched")
	})
}

func TestStore_UpdateStatus_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		err := s.Projects().UpdateStatus(context.Background(), "missing", domain.ProjectApproved, time.Now())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_LogsInsertAndList(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := testutil.NewTestProject("A")
		require.NoError(t, s.Projects().Create(ctx, p))

		t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.Logs().Insert(ctx, testutil.NewTestLog(p.ID, domain.ActionProjectCreated, t0)))
		require.NoError(t, s.Logs().Insert(ctx, testutil.NewTestLog(p.ID, domain.ActionStatusChanged, t0.Add(time.Minute))))

		logs, err := s.Logs().ListByProject(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, domain.ActionProjectCreated, logs[0].Action)
		assert.Equal(t, domain.ActionStatusChanged, logs[1].Action)

		none, err := s.Logs().ListByProject(ctx, "other")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestStore_WithinTx_CommitsTogether(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := testutil.NewTestProject("A")

		err := s.WithinTx(ctx, func(ctx context.Context, projects ProjectRepo, logs OperationLogRepo) error {
			if err := projects.Create(ctx, p); err != nil {
				return err
			}
			return logs.Insert(ctx, testutil.NewTestLog(p.ID, domain.ActionProjectCreated, p.CreatedAt))
		})
		require.NoError(t, err)

		_, err = s.Projects().GetByID(ctx, p.ID)
		require.NoError(t, err)
		logs, err := s.Logs().ListByProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := testutil.NewTestProject("A")
		failure := errors.New("log write failed")

		err := s.WithinTx(ctx, func(ctx context.Context, projects ProjectRepo, _ OperationLogRepo) error {
			if err := projects.Create(ctx, p); err != nil {
				return err
			}
			return failure
		})
		require.ErrorIs(t, err, failure)

		_, err = s.Projects().GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		list, err := s.Projects().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
