/*
Package payroll provides the pay-period accounting engine.

PURPOSE:
  This package contains the core types and algorithms that turn raw punch
  events into payroll numbers: wall-clock conversion, pay-period boundary
  resolution, worked-minute calculation, and per-period aggregation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A user of the system (admin or hourly employee)
  - PaySettings: The configured pay-period start days (e.g. 1st and 15th)
  - PunchSession: An open punch-in awaiting its punch-out
  - WorkLog: A finalized, immutable record of one completed work session
  - SummaryRow: A derived per-employee-per-period payroll line

DESIGN PRINCIPLES:
  1. Immutability: WorkLogs are facts; only the deduction-driven recompute
     path may revise MinutesWorked, never independently of Deduction
  2. Precision: Uses decimal.Decimal for money to avoid floating-point errors
  3. Wall-clock strings: Dates are "2006-01-02", times "HH:MM", matching the
     punch clock's local-time contract

SEE ALSO:
  - clock.go: HH:MM <-> minutes conversion
  - period.go: Pay-period start resolution
  - worked.go: Net payable minute calculation
  - aggregate.go: Payroll summary aggregation
  - store.go: Storage collaborator interface
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// =============================================================================
// ACCOUNT
// =============================================================================

// Account is a system user. HourlyRate is meaningful only for employees;
// admins carry a zero rate and never appear in payroll summaries.
type Account struct {
	Username     string
	PasswordHash string
	Role         Role
	HourlyRate   decimal.Decimal
}

func (a Account) IsEmployee() bool { return a.Role == RoleEmployee }

// =============================================================================
// PAY SETTINGS
// =============================================================================

// PaySettings holds the configured pay-period start days (day-of-month,
// 1-31). Singleton, mutated only by admin save.
type PaySettings struct {
	StartDays []int
}

// DefaultPaySettings is the semi-monthly default: periods start on the
// 1st and the 15th.
func DefaultPaySettings() PaySettings {
	return PaySettings{StartDays: []int{1, 15}}
}

// Validate rejects the settings wholesale if any start day is outside
// [1,31] or the set is empty. No partial saves.
func (s PaySettings) Validate() error {
	if len(s.StartDays) == 0 {
		return ErrInvalidStartDays
	}
	for _, d := range s.StartDays {
		if d < 1 || d > 31 {
			return ErrInvalidStartDays
		}
	}
	return nil
}

// =============================================================================
// PUNCH SESSION
// =============================================================================

// PunchSession is the ephemeral open punch-in state for one employee.
// At most one exists per username at any time.
type PunchSession struct {
	Date    string // "2006-01-02"
	PunchIn string // "HH:MM"
}

// =============================================================================
// WORK LOG
// =============================================================================

// WorkLog is a finalized work session. Created atomically at punch-out;
// immutable afterwards except for the deduction revision path, which
// recomputes MinutesWorked from the stored punch times.
type WorkLog struct {
	ID             string
	Username       string
	Date           string // "2006-01-02"
	PunchIn        string // "HH:MM"
	PunchOut       string // "HH:MM"
	MinutesWorked  int
	PayPeriodStart string // "2006-01-02"
	Deduction      int    // minutes, >= 0
}

// LogPatch carries the admin-editable fields of a WorkLog. Deduction
// revisions always travel with the recomputed MinutesWorked so the two
// can never drift apart.
type LogPatch struct {
	Deduction     int
	MinutesWorked int
}

// =============================================================================
// SUMMARY ROW
// =============================================================================

// SummaryRow is one payroll line: an employee's total for one pay period.
// Derived on demand, never persisted. TotalHours and TotalPay are rendered
// with exactly two decimals.
type SummaryRow struct {
	PayPeriodStart string
	Username       string
	TotalHours     string
	TotalPay       string
}
