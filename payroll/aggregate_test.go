package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/punchclock/payroll"
)

func employee(username string, rate float64) payroll.Account {
	return payroll.Account{
		Username:   username,
		Role:       payroll.RoleEmployee,
		HourlyRate: decimal.NewFromFloat(rate),
	}
}

func logEntry(username, period string, minutes int) payroll.WorkLog {
	return payroll.WorkLog{
		Username:       username,
		Date:           period,
		PunchIn:        "09:00",
		PunchOut:       "17:00",
		MinutesWorked:  minutes,
		PayPeriodStart: period,
	}
}

func TestAggregate_EmptyLogs(t *testing.T) {
	rows := payroll.Aggregate(nil, map[string]payroll.Account{})
	assert.Empty(t, rows)
}

func TestAggregate_SumsPerPeriodAndUser(t *testing.T) {
	// GIVEN: Two logs for alice in one period and one for bob
	accounts := payroll.AccountIndex([]payroll.Account{
		employee("alice", 20),
		employee("bob", 10),
	})
	logs := []payroll.WorkLog{
		logEntry("alice", "2024-01-01", 480),
		logEntry("alice", "2024-01-01", 240),
		logEntry("bob", "2024-01-01", 60),
	}

	// WHEN: Aggregating
	rows := payroll.Aggregate(logs, accounts)

	// THEN: One row per (period, user) with summed minutes
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, "12.00", rows[0].TotalHours)
	assert.Equal(t, "240.00", rows[0].TotalPay)
	assert.Equal(t, "bob", rows[1].Username)
	assert.Equal(t, "1.00", rows[1].TotalHours)
	assert.Equal(t, "10.00", rows[1].TotalPay)
}

func TestAggregate_Ordering(t *testing.T) {
	// Rows are ordered by ascending period, then username within a period.
	accounts := payroll.AccountIndex([]payroll.Account{
		employee("zoe", 10),
		employee("amy", 10),
	})
	logs := []payroll.WorkLog{
		logEntry("zoe", "2024-02-01", 60),
		logEntry("amy", "2024-02-01", 60),
		logEntry("zoe", "2024-01-15", 60),
	}

	rows := payroll.Aggregate(logs, accounts)

	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-15", rows[0].PayPeriodStart)
	assert.Equal(t, "zoe", rows[0].Username)
	assert.Equal(t, "2024-02-01", rows[1].PayPeriodStart)
	assert.Equal(t, "amy", rows[1].Username)
	assert.Equal(t, "2024-02-01", rows[2].PayPeriodStart)
	assert.Equal(t, "zoe", rows[2].Username)
}

func TestAggregate_MissingOrNonEmployeeAccountGetsZeroRate(t *testing.T) {
	// GIVEN: One log by a ghost user, one by an admin with a (stale) rate
	accounts := map[string]payroll.Account{
		"boss": {Username: "boss", Role: payroll.RoleAdmin, HourlyRate: decimal.NewFromInt(99)},
	}
	logs := []payroll.WorkLog{
		logEntry("ghost", "2024-01-01", 120),
		logEntry("boss", "2024-01-01", 120),
	}

	rows := payroll.Aggregate(logs, accounts)

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "2.00", row.TotalHours)
		assert.Equal(t, "0.00", row.TotalPay)
	}
}

func TestAggregate_Linearity(t *testing.T) {
	// Splitting the log set and aggregating each half must agree with
	// aggregating the whole set.
	accounts := payroll.AccountIndex([]payroll.Account{
		employee("alice", 17.25),
		employee("bob", 9.5),
	})
	all := []payroll.WorkLog{
		logEntry("alice", "2024-01-01", 480),
		logEntry("alice", "2024-01-15", 123),
		logEntry("bob", "2024-01-01", 456),
		logEntry("alice", "2024-01-01", 77),
		logEntry("bob", "2024-01-15", 390),
	}

	whole := payroll.Aggregate(all, accounts)

	// Merge per-group minute sums from the two halves, then re-render.
	type key struct{ period, user string }
	merged := make(map[key]int)
	for _, subset := range [][]payroll.WorkLog{all[:2], all[2:]} {
		for _, l := range subset {
			merged[key{l.PayPeriodStart, l.Username}] += l.MinutesWorked
		}
	}

	require.Len(t, whole, len(merged))
	for _, row := range whole {
		minutes, ok := merged[key{row.PayPeriodStart, row.Username}]
		require.True(t, ok, "missing group %s/%s", row.PayPeriodStart, row.Username)
		assert.Equal(t, payroll.FormatHours(minutes), row.TotalHours)
		acct := accounts[row.Username]
		assert.Equal(t, payroll.FormatPay(minutes, acct.HourlyRate), row.TotalPay)
	}
}
