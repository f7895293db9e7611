package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/punchclock/payroll"
)

func TestComputeWorkedMinutes_FullShift(t *testing.T) {
	assert.Equal(t, 480, payroll.ComputeWorkedMinutes("09:00", "17:00", 0))
}

func TestComputeWorkedMinutes_WithDeduction(t *testing.T) {
	assert.Equal(t, 450, payroll.ComputeWorkedMinutes("09:00", "17:00", 30))
}

func TestComputeWorkedMinutes_OvernightIsZero(t *testing.T) {
	// Punch-out earlier than punch-in means a shift crossed midnight.
	// Policy: zero worked time, no rollover arithmetic.
	assert.Equal(t, 0, payroll.ComputeWorkedMinutes("17:00", "09:00", 0))
}

func TestComputeWorkedMinutes_DeductionFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, payroll.ComputeWorkedMinutes("09:00", "10:00", 90))
}

func TestComputeWorkedMinutes_NegativeDeductionIgnored(t *testing.T) {
	assert.Equal(t, 60, payroll.ComputeWorkedMinutes("09:00", "10:00", -15))
}

func TestComputeWorkedMinutes_NeverNegative(t *testing.T) {
	cases := []struct {
		in, out   string
		deduction int
	}{
		{"09:00", "17:00", 0},
		{"17:00", "09:00", 0},
		{"00:00", "00:00", 0},
		{"12:00", "12:30", 60},
		{"23:59", "00:00", 0},
	}
	for _, c := range cases {
		got := payroll.ComputeWorkedMinutes(c.in, c.out, c.deduction)
		assert.GreaterOrEqual(t, got, 0, "in=%s out=%s deduction=%d", c.in, c.out, c.deduction)
	}
}
