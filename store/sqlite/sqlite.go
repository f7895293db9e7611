/*
Package sqlite provides the SQLite-backed Storage implementation.

PURPOSE:
  Implements payroll.Storage using SQLite. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  accounts:        Users with role and hourly rate
  work_logs:       Finalized work sessions (FK cascade from accounts)
  pay_settings:    Singleton row holding the period start days
  punch_sessions:  One open session per username

CASCADE CONTRACT:
  work_logs carries ON DELETE CASCADE against accounts, so deleting an
  account atomically removes exactly that user's logs. Foreign keys are
  switched on at connection time.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety within the process. Punch sessions
  are written with per-username keyed statements, so one user's write can
  never disturb another's row.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/punchclock.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/punchclock/payroll"
)

// Store implements payroll.Storage using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		hourly_rate TEXT NOT NULL DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS work_logs (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL REFERENCES accounts(username) ON DELETE CASCADE,
		date TEXT NOT NULL,
		punch_in TEXT NOT NULL,
		punch_out TEXT NOT NULL,
		minutes_worked INTEGER NOT NULL,
		pay_period_start TEXT NOT NULL,
		deduction INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_work_logs_username
		ON work_logs(username);

	-- Hot path for payroll summaries: group by (period, user)
	CREATE INDEX IF NOT EXISTS idx_work_logs_period_user
		ON work_logs(pay_period_start, username);

	-- Singleton: id is always 1
	CREATE TABLE IF NOT EXISTS pay_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		start_days_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS punch_sessions (
		username TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		punch_in TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) GetAccounts(ctx context.Context) ([]payroll.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT username, password_hash, role, hourly_rate FROM accounts ORDER BY username",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []payroll.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) GetAccount(ctx context.Context, username string) (payroll.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		a    payroll.Account
		rate string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, role, hourly_rate FROM accounts WHERE username = ?",
		username,
	).Scan(&a.Username, &a.PasswordHash, &a.Role, &rate)

	if err == sql.ErrNoRows {
		return payroll.Account{}, payroll.ErrAccountNotFound
	}
	if err != nil {
		return payroll.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	a.HourlyRate = parseRate(rate)
	return a, nil
}

func (s *Store) UpsertAccount(ctx context.Context, a payroll.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO accounts (username, password_hash, role, hourly_rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			role = excluded.role,
			hourly_rate = excluded.hourly_rate
	`
	_, err := s.db.ExecContext(ctx, query,
		a.Username, a.PasswordHash, a.Role, a.HourlyRate.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

// DeleteAccount removes the account; work_logs rows follow via FK cascade.
// The session row is cleared in the same transaction.
func (s *Store) DeleteAccount(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return payroll.ErrAccountNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM punch_sessions WHERE username = ?", username); err != nil {
		return fmt.Errorf("failed to clear punch session: %w", err)
	}

	return tx.Commit()
}

// =============================================================================
// WORK LOGS
// =============================================================================

func (s *Store) GetLogs(ctx context.Context) ([]payroll.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, date, punch_in, punch_out, minutes_worked, pay_period_start, deduction
		FROM work_logs
		ORDER BY pay_period_start ASC, username ASC, date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query work logs: %w", err)
	}
	defer rows.Close()

	var logs []payroll.WorkLog
	for rows.Next() {
		var l payroll.WorkLog
		if err := rows.Scan(
			&l.ID, &l.Username, &l.Date, &l.PunchIn, &l.PunchOut,
			&l.MinutesWorked, &l.PayPeriodStart, &l.Deduction,
		); err != nil {
			return nil, fmt.Errorf("failed to scan work log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// AddLog assigns the log its id and persists it.
func (s *Store) AddLog(ctx context.Context, l payroll.WorkLog) (payroll.WorkLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_logs
		(id, username, date, punch_in, punch_out, minutes_worked, pay_period_start, deduction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.Username, l.Date, l.PunchIn, l.PunchOut,
		l.MinutesWorked, l.PayPeriodStart, l.Deduction,
	)
	if err != nil {
		return payroll.WorkLog{}, fmt.Errorf("failed to add work log: %w", err)
	}
	return l, nil
}

func (s *Store) UpdateLog(ctx context.Context, id string, patch payroll.LogPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE work_logs SET deduction = ?, minutes_worked = ? WHERE id = ?",
		patch.Deduction, patch.MinutesWorked, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update work log: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return payroll.ErrLogNotFound
	}
	return nil
}

// =============================================================================
// PAY SETTINGS
// =============================================================================

func (s *Store) GetPaySettings(ctx context.Context) (payroll.PaySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT start_days_json FROM pay_settings WHERE id = 1",
	).Scan(&raw)

	if err == sql.ErrNoRows {
		return payroll.DefaultPaySettings(), nil
	}
	if err != nil {
		return payroll.PaySettings{}, fmt.Errorf("failed to get pay settings: %w", err)
	}

	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return payroll.PaySettings{}, fmt.Errorf("failed to decode pay settings: %w", err)
	}
	return payroll.PaySettings{StartDays: days}, nil
}

func (s *Store) SetPaySettings(ctx context.Context, settings payroll.PaySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(settings.StartDays)
	if err != nil {
		return fmt.Errorf("failed to encode pay settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pay_settings (id, start_days_json) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET start_days_json = excluded.start_days_json
	`, string(raw))
	if err != nil {
		return fmt.Errorf("failed to set pay settings: %w", err)
	}
	return nil
}

// =============================================================================
// PUNCH SESSIONS
// =============================================================================

func (s *Store) GetPunchSessions(ctx context.Context) (map[string]payroll.PunchSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT username, date, punch_in FROM punch_sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to query punch sessions: %w", err)
	}
	defer rows.Close()

	sessions := make(map[string]payroll.PunchSession)
	for rows.Next() {
		var (
			username string
			session  payroll.PunchSession
		)
		if err := rows.Scan(&username, &session.Date, &session.PunchIn); err != nil {
			return nil, fmt.Errorf("failed to scan punch session: %w", err)
		}
		sessions[username] = session
	}
	return sessions, rows.Err()
}

// SetPunchSession writes or clears exactly one user's session row.
func (s *Store) SetPunchSession(ctx context.Context, username string, session *payroll.PunchSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session == nil {
		_, err := s.db.ExecContext(ctx, "DELETE FROM punch_sessions WHERE username = ?", username)
		if err != nil {
			return fmt.Errorf("failed to clear punch session: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO punch_sessions (username, date, punch_in) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			date = excluded.date,
			punch_in = excluded.punch_in
	`, username, session.Date, session.PunchIn)
	if err != nil {
		return fmt.Errorf("failed to set punch session: %w", err)
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanAccount(rows *sql.Rows) (payroll.Account, error) {
	var (
		a    payroll.Account
		rate string
	)
	if err := rows.Scan(&a.Username, &a.PasswordHash, &a.Role, &rate); err != nil {
		return a, fmt.Errorf("failed to scan account: %w", err)
	}
	a.HourlyRate = parseRate(rate)
	return a, nil
}

// parseRate tolerates malformed stored rates by falling back to zero.
func parseRate(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
