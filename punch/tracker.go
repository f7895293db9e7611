/*
Package punch tracks open punch-in sessions until a matching punch-out
closes them into finalized work logs.

STATE MACHINE (per employee):
  NoSession -> PunchedIn -> (punch-out closes, back to NoSession)

INVARIANTS:
  - At most one open session per username.
  - Punch-out requires a session dated today; anything else is the
    user-visible "no punch-in record found" error, never a crash.
  - Punch-in against an open session for today is rejected so the original
    punch-in time is never lost. A stale session from a previous day is
    replaced: it can never be closed, so rejecting would wedge the user.

CONCURRENCY:
  The session map is the only shared state at risk of lost-update races
  (two devices for one employee). A per-username mutex serializes the
  read-decide-write sequence of punch-in/punch-out.
*/
package punch

import (
	"context"
	"sync"
	"time"

	"github.com/warp/punchclock/payroll"
)

// Tracker drives the punch-in / punch-out lifecycle against storage.
type Tracker struct {
	store payroll.Storage

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// NewTracker creates a tracker over the given storage collaborator.
func NewTracker(store payroll.Storage) *Tracker {
	return &Tracker{
		store: store,
		users: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex guarding one username's session.
func (t *Tracker) userLock(username string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.users[username]
	if !ok {
		l = &sync.Mutex{}
		t.users[username] = l
	}
	return l
}

// PunchIn opens a session for username at the given wall-clock time.
// Returns ErrAlreadyPunchedIn if an open session for today exists.
func (t *Tracker) PunchIn(ctx context.Context, username string, now time.Time) (payroll.PunchSession, error) {
	lock := t.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	today := payroll.ClockDate(now)

	sessions, err := t.store.GetPunchSessions(ctx)
	if err != nil {
		return payroll.PunchSession{}, err
	}
	if existing, ok := sessions[username]; ok && existing.Date == today {
		return payroll.PunchSession{}, payroll.ErrAlreadyPunchedIn
	}

	session := payroll.PunchSession{
		Date:    today,
		PunchIn: payroll.ClockTime(now),
	}
	if err := t.store.SetPunchSession(ctx, username, &session); err != nil {
		return payroll.PunchSession{}, err
	}
	return session, nil
}

// PunchOut closes username's open session for today, producing exactly one
// finalized work log with the worked minutes and pay-period start computed
// from current pay settings. Deduction starts at zero; administrators may
// revise it afterward.
func (t *Tracker) PunchOut(ctx context.Context, username string, now time.Time) (payroll.WorkLog, error) {
	lock := t.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	today := payroll.ClockDate(now)

	sessions, err := t.store.GetPunchSessions(ctx)
	if err != nil {
		return payroll.WorkLog{}, err
	}
	session, ok := sessions[username]
	if !ok || session.Date != today {
		return payroll.WorkLog{}, payroll.ErrNoOpenSession
	}

	settings, err := t.store.GetPaySettings(ctx)
	if err != nil {
		return payroll.WorkLog{}, err
	}

	punchOut := payroll.ClockTime(now)
	log := payroll.WorkLog{
		Username:       username,
		Date:           session.Date,
		PunchIn:        session.PunchIn,
		PunchOut:       punchOut,
		MinutesWorked:  payroll.ComputeWorkedMinutes(session.PunchIn, punchOut, 0),
		PayPeriodStart: payroll.ResolvePeriodStart(now, settings.StartDays),
		Deduction:      0,
	}

	created, err := t.store.AddLog(ctx, log)
	if err != nil {
		return payroll.WorkLog{}, err
	}
	if err := t.store.SetPunchSession(ctx, username, nil); err != nil {
		return payroll.WorkLog{}, err
	}
	return created, nil
}

// Status returns username's open session, if any.
func (t *Tracker) Status(ctx context.Context, username string) (*payroll.PunchSession, error) {
	sessions, err := t.store.GetPunchSessions(ctx)
	if err != nil {
		return nil, err
	}
	if s, ok := sessions[username]; ok {
		return &s, nil
	}
	return nil, nil
}
