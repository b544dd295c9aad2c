package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/repository"
	"github.com/suretydesk/suretydesk/internal/testutil"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type recordingEvents struct {
	mu       sync.Mutex
	created  []domain.BondCategory
	statuses []domain.ProjectStatus
}

func (r *recordingEvents) ObserveProjectCreated(c domain.BondCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, c)
}

func (r *recordingEvents) ObserveStatusChange(s domain.ProjectStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func newTestService(t *testing.T, opts ...Option) (ProjectService, repository.Store) {
	t.Helper()
	store := repository.NewSQLiteStore(testutil.NewTestDB(t))
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewProjectService(store, opts...), store
}

func TestCreateFromReport_MapsHeaderFields(t *testing.T) {
	svc, store := newTestService(t, WithUser("officer-1"))
	ctx := context.Background()

	r := testutil.NewTestReport("滨江大桥项目", "华建集团", "¥1,250,000.50元")
	p, err := svc.CreateFromReport(ctx, r, domain.BondPerformance)
	require.NoError(t, err)

	assert.Equal(t, "滨江大桥项目", p.Name)
	assert.Equal(t, "华建集团", p.CustomerName)
	assert.InDelta(t, 1250000.50, p.Amount, 1e-9)
	assert.Equal(t, domain.ProjectReviewing, p.Status)
	assert.Equal(t, domain.BondPerformance, p.BondCategory)
	assert.Equal(t, fixedNow, p.CreatedAt)

	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Report)
	assert.Equal(t, "滨江大桥项目", stored.Report.GuaranteeInfo.ProjectName)

	logs, err := store.Logs().ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActionProjectCreated, logs[0].Action)
	assert.Equal(t, "officer-1", logs[0].User)
}

func TestCreateFromReport_Fallbacks(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateFromReport(context.Background(), testutil.NewTestReport("  ", "", "面议"), domain.BondBid)
	require.NoError(t, err)
	assert.Equal(t, "未命名项目", p.Name)
	assert.Equal(t, "未知客户", p.CustomerName)
	assert.Zero(t, p.Amount)
}

func TestCreateFromReport_SnapshotIsIndependent(t *testing.T) {
	svc, _ := newTestService(t)
	r := testutil.NewTestReport("A", "B", "1")

	p, err := svc.CreateFromReport(context.Background(), r, domain.BondQuality)
	require.NoError(t, err)
	r.GuaranteeInfo.ProjectName = "changed later"
	assert.Equal(t, "A", p.Report.GuaranteeInfo.ProjectName)
}

func TestCreateFromReport_RejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFromReport(ctx, nil, domain.BondBid)
	assert.Error(t, err)

	_, err = svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "1"), "SURETY")
	assert.ErrorContains(t, err, "unknown bond category")
}

func TestCreateFromReport_LogFailureRollsBackProject(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteStoreWithUoW(database, &testutil.FailingUoW{
		DB: database, FailOn: 2, Err: errors.New("disk full"),
	})
	events := &recordingEvents{}
	svc := NewProjectService(store, WithEvents(events))
	ctx := context.Background()

	_, err := svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "1"), domain.BondBid)
	require.ErrorContains(t, err, "disk full")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, events.created)
}

func TestUpdateStatus_AnyValidTransition(t *testing.T) {
	events := &recordingEvents{}
	svc, store := newTestService(t, WithEvents(events))
	ctx := context.Background()

	p, err := svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "1"), domain.BondBid)
	require.NoError(t, err)

	for _, s := range []domain.ProjectStatus{domain.ProjectApproved, domain.ProjectDraft, domain.ProjectCompleted} {
		require.NoError(t, svc.UpdateStatus(ctx, p.ID, s))
		got, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	logs, err := store.Logs().ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, "Reviewing -> Approved", logs[1].Details)
	assert.Equal(t, []domain.ProjectStatus{domain.ProjectApproved, domain.ProjectDraft, domain.ProjectCompleted}, events.statuses)
}

func TestUpdateStatus_UnknownProject(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.UpdateStatus(context.Background(), "missing", domain.ProjectApproved)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateStatus_InvalidStatusLeavesProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "1"), domain.BondBid)
	require.NoError(t, err)

	err = svc.UpdateStatus(ctx, p.ID, "Archived")
	assert.ErrorContains(t, err, "invalid target status")

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectReviewing, got.Status)
}

func TestList_NewestFirst(t *testing.T) {
	clock := fixedNow
	store := repository.NewSQLiteStore(testutil.NewTestDB(t))
	svc := NewProjectService(store, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	ctx := context.Background()

	for _, name := range []string{"一", "二", "三"} {
		_, err := svc.CreateFromReport(ctx, testutil.NewTestReport(name, "客户", "1"), domain.BondBid)
		require.NoError(t, err)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "三", list[0].Name)
	assert.Equal(t, "一", list[2].Name)
}

func TestHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.History(ctx, "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	p, err := svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "1"), domain.BondBid)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, p.ID, domain.ProjectRejected))

	logs, err := svc.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRedisBackedService(t *testing.T) {
	_, client := testutil.NewTestRedis(t)
	svc := NewProjectService(repository.NewRedisStore(client, "svc"))
	ctx := context.Background()

	p, err := svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "2,000"), domain.BondMigrantWorker)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, p.ID, domain.ProjectApproved))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectApproved, got.Status)
	assert.InDelta(t, 2000, got.Amount, 0)

	logs, err := svc.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestObserver_ReceivesUseCaseEvents(t *testing.T) {
	obs := &recordingObserver{}
	svc, _ := newTestService(t, WithObserver(obs))
	ctx := context.Background()

	_, _ = svc.CreateFromReport(ctx, testutil.NewTestReport("A", "B", "1"), domain.BondBid)
	_ = svc.UpdateStatus(ctx, "missing", domain.ProjectApproved)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "project.create_from_report", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "project.update_status", obs.events[1].Name)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, ErrProjectNotFound)
}

func TestLogUseCaseObserver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "ok", Success: true, Fields: map[string]any{"k": "v"}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "bad", Err: errors.New("x")})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)

	_, isNoop := NewLogUseCaseObserver(nil).(NoopUseCaseObserver)
	assert.True(t, isNoop)
}
