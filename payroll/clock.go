package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WALL-CLOCK CONVERSION - "HH:MM" strings <-> minutes since midnight
// =============================================================================

// DateLayout is the canonical day format used everywhere in the engine.
const DateLayout = "2006-01-02"

// TimeToMinutes converts "HH:MM" to minutes since midnight. Inputs are
// trusted to be well-formed 24h times; they come only from system clock
// reads or already-validated strings.
func TimeToMinutes(s string) int {
	var h, m int
	fmt.Sscanf(s, "%d:%d", &h, &m)
	return h*60 + m
}

// MinutesToTime renders minutes since midnight as zero-padded "HH:MM".
// Undefined for negative input.
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockTime renders a time.Time as "HH:MM".
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}

// ClockDate renders a time.Time as "2006-01-02".
func ClockDate(t time.Time) string {
	return t.Format(DateLayout)
}

// =============================================================================
// MONEY/HOURS FORMATTING - decimal to avoid float drift on payroll numbers
// =============================================================================

var sixty = decimal.NewFromInt(60)

// FormatHours renders minutes as decimal hours with exactly two decimals
// and trailing zeros ("490" -> "8.17").
func FormatHours(minutes int) string {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).StringFixed(2)
}

// FormatPay renders minutes at an hourly rate as a two-decimal amount.
func FormatPay(minutes int, rate decimal.Decimal) string {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Mul(rate).StringFixed(2)
}
