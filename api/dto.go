/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"github.com/warp/punchclock/payroll"
)

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// AccountDTO represents an account in API responses. The password hash
// never leaves the server.
type AccountDTO struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	HourlyRate string `json:"hourly_rate"`
}

// CreateAccountRequest is the request to create an account.
type CreateAccountRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
}

// UpdateRateRequest changes an employee's hourly rate.
type UpdateRateRequest struct {
	HourlyRate float64 `json:"hourly_rate"`
}

// =============================================================================
// PUNCH
// =============================================================================

// PunchStatusDTO reports an employee's open session, if any.
type PunchStatusDTO struct {
	PunchedIn bool   `json:"punched_in"`
	Date      string `json:"date,omitempty"`
	PunchIn   string `json:"punch_in,omitempty"`
}

// =============================================================================
// WORK LOGS
// =============================================================================

// WorkLogDTO represents a finalized work session.
type WorkLogDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Date           string `json:"date"`
	PunchIn        string `json:"punch_in"`
	PunchOut       string `json:"punch_out"`
	MinutesWorked  int    `json:"minutes_worked"`
	PayPeriodStart string `json:"pay_period_start"`
	Deduction      int    `json:"deduction"`
}

// UpdateDeductionRequest revises a log's deduction. MinutesWorked is
// recomputed server-side, never supplied by the client.
type UpdateDeductionRequest struct {
	Deduction float64 `json:"deduction"`
}

// =============================================================================
// SETTINGS & SUMMARY
// =============================================================================

// PaySettingsDTO carries the configured period start days.
type PaySettingsDTO struct {
	StartDays []int `json:"start_days"`
}

// SummaryRowDTO is one payroll summary line.
type SummaryRowDTO struct {
	PayPeriodStart string `json:"pay_period_start"`
	Username       string `json:"username"`
	TotalHours     string `json:"total_hours"`
	TotalPay       string `json:"total_pay"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toWorkLogDTO(l payroll.WorkLog) WorkLogDTO {
	return WorkLogDTO{
		ID:             l.ID,
		Username:       l.Username,
		Date:           l.Date,
		PunchIn:        l.PunchIn,
		PunchOut:       l.PunchOut,
		MinutesWorked:  l.MinutesWorked,
		PayPeriodStart: l.PayPeriodStart,
		Deduction:      l.Deduction,
	}
}

func toAccountDTO(a payroll.Account) AccountDTO {
	return AccountDTO{
		Username:   a.Username,
		Role:       string(a.Role),
		HourlyRate: a.HourlyRate.StringFixed(2),
	}
}
