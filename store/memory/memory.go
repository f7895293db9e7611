// Package memory provides an in-memory Storage implementation
// (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/punchclock/payroll"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]payroll.Account
	logs     map[string]payroll.WorkLog
	settings *payroll.PaySettings
	sessions map[string]payroll.PunchSession
	nextID   int
}

func New() *Store {
	return &Store{
		accounts: make(map[string]payroll.Account),
		logs:     make(map[string]payroll.WorkLog),
		sessions: make(map[string]payroll.PunchSession),
	}
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) GetAccounts(_ context.Context) ([]payroll.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, username string) (payroll.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[username]
	if !ok {
		return payroll.Account{}, payroll.ErrAccountNotFound
	}
	return a, nil
}

func (s *Store) UpsertAccount(_ context.Context, a payroll.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[a.Username] = a
	return nil
}

// DeleteAccount removes the account and that user's logs in one critical
// section, matching the cascade contract.
func (s *Store) DeleteAccount(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; !ok {
		return payroll.ErrAccountNotFound
	}
	delete(s.accounts, username)
	for id, l := range s.logs {
		if l.Username == username {
			delete(s.logs, id)
		}
	}
	delete(s.sessions, username)
	return nil
}

// =============================================================================
// WORK LOGS
// =============================================================================

func (s *Store) GetLogs(_ context.Context) ([]payroll.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.WorkLog, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) AddLog(_ context.Context, l payroll.WorkLog) (payroll.WorkLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	l.ID = fmt.Sprintf("log-%d", s.nextID)
	s.logs[l.ID] = l
	return l, nil
}

func (s *Store) UpdateLog(_ context.Context, id string, patch payroll.LogPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[id]
	if !ok {
		return payroll.ErrLogNotFound
	}
	l.Deduction = patch.Deduction
	l.MinutesWorked = patch.MinutesWorked
	s.logs[id] = l
	return nil
}

// =============================================================================
// PAY SETTINGS
// =============================================================================

func (s *Store) GetPaySettings(_ context.Context) (payroll.PaySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return payroll.DefaultPaySettings(), nil
	}
	return payroll.PaySettings{StartDays: append([]int(nil), s.settings.StartDays...)}, nil
}

func (s *Store) SetPaySettings(_ context.Context, settings payroll.PaySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := payroll.PaySettings{StartDays: append([]int(nil), settings.StartDays...)}
	s.settings = &copied
	return nil
}

// =============================================================================
// PUNCH SESSIONS
// =============================================================================

func (s *Store) GetPunchSessions(_ context.Context) (map[string]payroll.PunchSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]payroll.PunchSession, len(s.sessions))
	for k, v := range s.sessions {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SetPunchSession(_ context.Context, username string, session *payroll.PunchSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session == nil {
		delete(s.sessions, username)
		return nil
	}
	s.sessions[username] = *session
	return nil
}
