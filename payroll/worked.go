package payroll

// =============================================================================
// WORKED-TIME CALCULATION - net payable minutes
// =============================================================================

// ComputeWorkedMinutes returns the net payable minutes between punchIn and
// punchOut ("HH:MM"), minus deduction, floored at zero.
//
// A punch-out time-of-day earlier than the punch-in (a shift crossing
// midnight) counts as ZERO worked time. This is a deliberate, documented
// limitation of the punch clock, not missing rollover arithmetic; callers
// and tests depend on the zero-floor behavior.
//
// A negative deduction counts as zero.
func ComputeWorkedMinutes(punchIn, punchOut string, deduction int) int {
	worked := TimeToMinutes(punchOut) - TimeToMinutes(punchIn)
	if worked < 0 {
		worked = 0
	}
	if deduction > 0 {
		worked -= deduction
	}
	if worked < 0 {
		worked = 0
	}
	return worked
}
