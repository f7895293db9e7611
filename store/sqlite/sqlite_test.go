package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/punchclock/payroll"
	"github.com/warp/punchclock/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testAccount(username string, role payroll.Role, rate float64) payroll.Account {
	return payroll.Account{
		Username:     username,
		PasswordHash: "$2a$10$fakehashfortesting",
		Role:         role,
		HourlyRate:   decimal.NewFromFloat(rate),
	}
}

func testLog(username, date string) payroll.WorkLog {
	return payroll.WorkLog{
		Username:       username,
		Date:           date,
		PunchIn:        "09:00",
		PunchOut:       "17:00",
		MinutesWorked:  480,
		PayPeriodStart: "2024-01-01",
	}
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestStore_AccountRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acct := testAccount("alice", payroll.RoleEmployee, 17.25)
	require.NoError(t, store.UpsertAccount(ctx, acct))

	got, err := store.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, payroll.RoleEmployee, got.Role)
	assert.True(t, got.HourlyRate.Equal(decimal.NewFromFloat(17.25)),
		"rate mismatch: %s", got.HourlyRate)
}

func TestStore_GetAccount_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, payroll.ErrAccountNotFound)
}

func TestStore_UpsertAccount_ReplacesRate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertAccount(ctx, testAccount("alice", payroll.RoleEmployee, 10)))
	require.NoError(t, store.UpsertAccount(ctx, testAccount("alice", payroll.RoleEmployee, 12.5)))

	got, err := store.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.HourlyRate.Equal(decimal.NewFromFloat(12.5)))

	accounts, err := store.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestStore_DeleteAccount_CascadesOnlyOwnLogs(t *testing.T) {
	// GIVEN: Two users, each with logs
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertAccount(ctx, testAccount("alice", payroll.RoleEmployee, 10)))
	require.NoError(t, store.UpsertAccount(ctx, testAccount("bob", payroll.RoleEmployee, 10)))

	_, err := store.AddLog(ctx, testLog("alice", "2024-01-02"))
	require.NoError(t, err)
	_, err = store.AddLog(ctx, testLog("alice", "2024-01-03"))
	require.NoError(t, err)
	bobLog, err := store.AddLog(ctx, testLog("bob", "2024-01-02"))
	require.NoError(t, err)

	// WHEN: Deleting alice
	require.NoError(t, store.DeleteAccount(ctx, "alice"))

	// THEN: Exactly alice's logs are gone, bob's remain
	logs, err := store.GetLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, bobLog.ID, logs[0].ID)

	_, err = store.GetAccount(ctx, "alice")
	assert.ErrorIs(t, err, payroll.ErrAccountNotFound)
}

func TestStore_DeleteAccount_Missing(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, payroll.ErrAccountNotFound)
}

// =============================================================================
// WORK LOGS
// =============================================================================

func TestStore_AddLog_AssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertAccount(ctx, testAccount("alice", payroll.RoleEmployee, 10)))

	created, err := store.AddLog(ctx, testLog("alice", "2024-01-02"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	logs, err := store.GetLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, created, logs[0])
}

func TestStore_UpdateLog_PatchesDeductionAndMinutes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertAccount(ctx, testAccount("alice", payroll.RoleEmployee, 10)))

	created, err := store.AddLog(ctx, testLog("alice", "2024-01-02"))
	require.NoError(t, err)

	require.NoError(t, store.UpdateLog(ctx, created.ID, payroll.LogPatch{
		Deduction:     30,
		MinutesWorked: 450,
	}))

	logs, err := store.GetLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 30, logs[0].Deduction)
	assert.Equal(t, 450, logs[0].MinutesWorked)
	// Punch times are immutable
	assert.Equal(t, "09:00", logs[0].PunchIn)
	assert.Equal(t, "17:00", logs[0].PunchOut)
}

func TestStore_UpdateLog_Missing(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateLog(context.Background(), "nope", payroll.LogPatch{})
	assert.ErrorIs(t, err, payroll.ErrLogNotFound)
}

// =============================================================================
// PAY SETTINGS
// =============================================================================

func TestStore_PaySettings_DefaultWhenUnset(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.GetPaySettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 15}, settings.StartDays)
}

func TestStore_PaySettings_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetPaySettings(ctx, payroll.PaySettings{StartDays: []int{5, 20}}))
	settings, err := store.GetPaySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 20}, settings.StartDays)

	// Replacing overwrites the singleton row
	require.NoError(t, store.SetPaySettings(ctx, payroll.PaySettings{StartDays: []int{1}}))
	settings, err = store.GetPaySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, settings.StartDays)
}

// =============================================================================
// PUNCH SESSIONS
// =============================================================================

func TestStore_PunchSessions_SetGetClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetPunchSession(ctx, "alice", &payroll.PunchSession{
		Date: "2024-01-10", PunchIn: "09:00",
	}))
	require.NoError(t, store.SetPunchSession(ctx, "bob", &payroll.PunchSession{
		Date: "2024-01-10", PunchIn: "10:00",
	}))

	sessions, err := store.GetPunchSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "09:00", sessions["alice"].PunchIn)

	// Clearing one user never disturbs another's row
	require.NoError(t, store.SetPunchSession(ctx, "alice", nil))
	sessions, err = store.GetPunchSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "10:00", sessions["bob"].PunchIn)
}

func TestStore_PunchSessions_OverwritePerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetPunchSession(ctx, "alice", &payroll.PunchSession{
		Date: "2024-01-09", PunchIn: "09:00",
	}))
	require.NoError(t, store.SetPunchSession(ctx, "alice", &payroll.PunchSession{
		Date: "2024-01-10", PunchIn: "08:30",
	}))

	sessions, err := store.GetPunchSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "2024-01-10", sessions["alice"].Date)
	assert.Equal(t, "08:30", sessions["alice"].PunchIn)
}
