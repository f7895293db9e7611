package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYROLL AGGREGATION - work logs -> per-employee-per-period summary rows
// =============================================================================

// Aggregate groups work logs by (pay period start, username), sums worked
// minutes per group, and converts to payable amounts using each account's
// hourly rate. Deductions are already baked into each log's MinutesWorked,
// so nothing is re-subtracted here.
//
// Accounts that are missing or not employees contribute a zero rate (their
// hours still appear, their pay is 0.00).
//
// Rows are ordered by ascending PayPeriodStart, then ascending Username
// within a period. Aggregation is linear: aggregating disjoint subsets and
// merging per-group sums equals aggregating the whole set.
func Aggregate(logs []WorkLog, accounts map[string]Account) []SummaryRow {
	type groupKey struct {
		period   string
		username string
	}

	minutes := make(map[groupKey]int)
	for _, l := range logs {
		minutes[groupKey{l.PayPeriodStart, l.Username}] += l.MinutesWorked
	}

	keys := make([]groupKey, 0, len(minutes))
	for k := range minutes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].period != keys[j].period {
			return keys[i].period < keys[j].period
		}
		return keys[i].username < keys[j].username
	})

	rows := make([]SummaryRow, 0, len(keys))
	for _, k := range keys {
		total := minutes[k]
		rate := decimal.Zero
		if acct, ok := accounts[k.username]; ok && acct.IsEmployee() {
			rate = acct.HourlyRate
		}
		rows = append(rows, SummaryRow{
			PayPeriodStart: k.period,
			Username:       k.username,
			TotalHours:     FormatHours(total),
			TotalPay:       FormatPay(total, rate),
		})
	}
	return rows
}

// AccountIndex builds the username -> Account mapping Aggregate consumes.
func AccountIndex(accounts []Account) map[string]Account {
	idx := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		idx[a.Username] = a
	}
	return idx
}
