package accounts

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/orca/internal/db"
	"github.com/Simplici0/orca/internal/migrations"
)

func init() {
	passwordCost = bcrypt.MinCost
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "accounts-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.Up(database))

	return NewService(database)
}

func TestLookupPlan(t *testing.T) {
	tests := []struct {
		plan      Plan
		want      int
		unlimited bool
	}{
		{PlanFree, 3, false},
		{PlanBasic, 50, false},
		{PlanPro, 200, false},
		{PlanEnterprise, Unlimited, true},
		{Plan("platinum"), 3, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			info := LookupPlan(tt.plan)
			assert.Equal(t, tt.want, info.MonthlyProjects)
			assert.Equal(t, tt.unlimited, info.Unlimited())
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, " Demo@Orca.app ", "demo123", "Usuário Demo", PlanPro)
	require.NoError(t, err)
	assert.Equal(t, "demo@orca.app", created.Email)
	assert.Nil(t, created.LastLogin)

	u, err := svc.Authenticate(ctx, "demo@orca.app", "demo123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, PlanPro, u.Plan)
	assert.NotNil(t, u.LastLogin)

	_, err = svc.Authenticate(ctx, "demo@orca.app", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@orca.app", "demo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Create(ctx, "demo@orca.app", "other", "", PlanFree)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate_RejectsInactiveUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "off@orca.app", "secret", "", PlanFree)
	require.NoError(t, err)
	_, err = svc.db.Exec(`UPDATE users SET is_active = 0 WHERE id = ?`, u.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "off@orca.app", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	ok, err := svc.MayEstimate(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsageGate_FreePlanAllowsThreeProjects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "free@orca.app", "secret", "", PlanFree)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ok, err := svc.MayEstimate(ctx, u.ID)
		require.NoError(t, err)
		require.Truef(t, ok, "estimate %d should be allowed", i+1)
		require.NoError(t, svc.RecordUsage(ctx, u.ID))
	}

	ok, err := svc.MayEstimate(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, svc.RecordUsage(ctx, u.ID), ErrLimitReached)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ProjectsThisMonth)
	assert.Equal(t, 0, got.Remaining())

	n, err := svc.ResetMonthlyUsage(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err = svc.MayEstimate(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordUsage_ConcurrentEstimatesStopAtPlanCap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "burst@orca.app", "secret", "", PlanFree)
	require.NoError(t, err)

	const workers = 6
	var (
		start   sync.WaitGroup
		done    sync.WaitGroup
		mu      sync.Mutex
		granted int
		refused int
	)
	start.Add(workers)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer done.Done()
			ok, err := svc.MayEstimate(ctx, u.ID)
			start.Done()
			start.Wait()
			if err != nil || !ok {
				t.Errorf("MayEstimate before any usage: ok=%v err=%v", ok, err)
				return
			}

			err = svc.RecordUsage(ctx, u.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				granted++
			case errors.Is(err, ErrLimitReached):
				refused++
			default:
				t.Errorf("RecordUsage: %v", err)
			}
		}()
	}
	done.Wait()

	assert.Equal(t, 3, granted)
	assert.Equal(t, workers-3, refused)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ProjectsThisMonth)
}

func TestRecordUsage_RefusesInactiveUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "gone@orca.app", "secret", "", PlanEnterprise)
	require.NoError(t, err)
	_, err = svc.db.Exec(`UPDATE users SET is_active = 0 WHERE id = ?`, u.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RecordUsage(ctx, u.ID), ErrLimitReached)
}

func TestUsageGate_EnterpriseIsUnlimited(t *testing.T) {
	u := User{Plan: PlanEnterprise, ProjectsThisMonth: 1_000_000, Active: true}
	assert.True(t, u.CanEstimate())
	assert.Equal(t, Unlimited, u.Remaining())
}

func TestRecordUsage_UnknownUser(t *testing.T) {
	svc := newTestService(t)
	assert.ErrorIs(t, svc.RecordUsage(context.Background(), 42), ErrUserNotFound)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestScheduleUsageReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "basic@orca.app", "secret", "", PlanBasic)
	require.NoError(t, err)
	require.NoError(t, svc.RecordUsage(ctx, u.ID))

	c := cron.New()
	id, err := ScheduleUsageReset(c, svc, "0 0 1 * *")
	require.NoError(t, err)

	c.Entry(id).Job.Run()

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ProjectsThisMonth)

	_, err = ScheduleUsageReset(c, svc, "not a schedule")
	assert.Error(t, err)
}
