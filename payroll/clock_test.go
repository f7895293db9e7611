package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/punchclock/payroll"
)

func TestTimeToMinutes(t *testing.T) {
	assert.Equal(t, 0, payroll.TimeToMinutes("00:00"))
	assert.Equal(t, 540, payroll.TimeToMinutes("09:00"))
	assert.Equal(t, 1020, payroll.TimeToMinutes("17:00"))
	assert.Equal(t, 1439, payroll.TimeToMinutes("23:59"))
}

func TestMinutesToTime_ZeroPads(t *testing.T) {
	assert.Equal(t, "00:00", payroll.MinutesToTime(0))
	assert.Equal(t, "09:05", payroll.MinutesToTime(545))
	assert.Equal(t, "23:59", payroll.MinutesToTime(1439))
}

func TestClockRoundTrip(t *testing.T) {
	// Round-trip: MinutesToTime(TimeToMinutes(s)) == s for all well-formed HH:MM
	for _, s := range []string{"00:00", "00:01", "08:30", "12:00", "17:45", "23:59"} {
		assert.Equal(t, s, payroll.MinutesToTime(payroll.TimeToMinutes(s)))
	}
}

func TestFormatHours_TwoDecimalsWithTrailingZeros(t *testing.T) {
	assert.Equal(t, "8.00", payroll.FormatHours(480))
	assert.Equal(t, "8.17", payroll.FormatHours(490))
	assert.Equal(t, "0.00", payroll.FormatHours(0))
	assert.Equal(t, "0.50", payroll.FormatHours(30))
}

func TestFormatPay(t *testing.T) {
	rate := decimal.NewFromFloat(12.50)
	assert.Equal(t, "100.00", payroll.FormatPay(480, rate))
	assert.Equal(t, "6.25", payroll.FormatPay(30, rate))
	assert.Equal(t, "0.00", payroll.FormatPay(480, decimal.Zero))
}
