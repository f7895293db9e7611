/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All sentinel errors in one place. The API layer maps these onto HTTP
  statuses; storage implementations wrap database failures around them.

USAGE:
  if errors.Is(err, payroll.ErrNoOpenSession) {
      // user-visible "no punch-in record found"
  }
*/
package payroll

import "errors"

var (
	// ErrNoOpenSession is returned on punch-out when no session for today
	// exists. This is a user-visible error, not a crash.
	ErrNoOpenSession = errors.New("no punch-in record found for today")

	// ErrAlreadyPunchedIn is returned on punch-in when an open session for
	// today already exists. Rejecting preserves the original punch-in time.
	ErrAlreadyPunchedIn = errors.New("already punched in today")

	// ErrDuplicateUsername is returned when creating an account whose
	// username is already taken. Checked before any storage write.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrAccountNotFound is returned when a referenced account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLogNotFound is returned when a referenced work log doesn't exist.
	ErrLogNotFound = errors.New("work log not found")

	// ErrInvalidStartDays is returned when pay settings contain no valid
	// start days or any day outside [1,31]. No partial settings are saved.
	ErrInvalidStartDays = errors.New("pay period start days must be integers in [1,31]")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// IsClientError returns true if the error is due to invalid client input
// rather than a backend failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoOpenSession) ||
		errors.Is(err, ErrAlreadyPunchedIn) ||
		errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrInvalidStartDays) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrLogNotFound)
}
