/*
store.go - Storage collaborator interface

PURPOSE:
  Defines the contract between the payroll engine and persistence. The core
  is written against this interface only, never against a concrete backend.
  Implementations live under store/ (memory for tests/dev, sqlite for
  production).

ATOMICITY EXPECTATIONS:
  - DeleteAccount removes the account AND that user's work logs atomically.
  - SetPunchSession is scoped per-username; writing one user's session can
    never disturb another's.
  - Every operation fails via its error return, never as a silent no-op.

SEE ALSO:
  - store/memory/memory.go: In-memory implementation
  - store/sqlite/sqlite.go: Production implementation
*/
package payroll

import "context"

// Storage is the persistence collaborator for accounts, work logs, pay
// settings, and punch sessions.
type Storage interface {
	// GetAccounts returns all accounts.
	GetAccounts(ctx context.Context) ([]Account, error)

	// GetAccount returns one account, or ErrAccountNotFound.
	GetAccount(ctx context.Context, username string) (Account, error)

	// UpsertAccount creates or replaces an account.
	UpsertAccount(ctx context.Context, a Account) error

	// DeleteAccount removes an account and, atomically, all of that
	// user's work logs. Returns ErrAccountNotFound if absent.
	DeleteAccount(ctx context.Context, username string) error

	// GetLogs returns all work logs.
	GetLogs(ctx context.Context) ([]WorkLog, error)

	// AddLog persists a new work log and returns it with its assigned ID.
	AddLog(ctx context.Context, l WorkLog) (WorkLog, error)

	// UpdateLog applies a patch to an existing log, or ErrLogNotFound.
	UpdateLog(ctx context.Context, id string, patch LogPatch) error

	// GetPaySettings returns the singleton pay settings. Implementations
	// return DefaultPaySettings() when nothing has been saved yet.
	GetPaySettings(ctx context.Context) (PaySettings, error)

	// SetPaySettings replaces the singleton pay settings.
	SetPaySettings(ctx context.Context, s PaySettings) error

	// GetPunchSessions returns the open session per username.
	GetPunchSessions(ctx context.Context) (map[string]PunchSession, error)

	// SetPunchSession sets (or, with nil, clears) one user's open session.
	SetPunchSession(ctx context.Context, username string, s *PunchSession) error
}
