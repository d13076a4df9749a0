package session

import (
	"context"

	"github.com/alphamobile/sessioncore/internal/ledger"
)

// activeScopeLocked resolves the ledger scope for the current session
// state: the per-account scope once a login has initialized it, the shared
// scope otherwise. Callers must hold s.mu.
func (s *Session) activeScopeLocked() ledger.Scope {
	if s.loggedIn && s.accountScopeReady && s.activeUserID != "" {
		return ledger.Account(s.activeUserID)
	}
	return ledger.Shared()
}

// appendActivityLocked appends e to the active scope and, when the entry is
// accepted, queues its activity notification on notify. Callers must hold
// s.mu and flush notify after releasing it.
func (s *Session) appendActivityLocked(ctx context.Context, e ledger.Entry, notify *[]func()) (bool, error) {
	appended, err := s.ledger.Append(ctx, s.activeScopeLocked(), e)
	if err != nil {
		return false, err
	}
	if appended {
		*notify = append(*notify, func() { s.fanout.NotifyNewActivity(ctx, e) })
	}
	return appended, nil
}

// AddActivity appends an activity entry to the active ledger scope. It
// reports whether the entry was accepted; entries failing validation are
// dropped without error.
func (s *Session) AddActivity(ctx context.Context, e ledger.Entry) (bool, error) {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()
	return s.appendActivityLocked(ctx, e, &notify)
}

// Activities returns the active scope's entries, newest first.
func (s *Session) Activities(ctx context.Context) ([]ledger.Entry, error) {
	s.mu.Lock()
	scope := s.activeScopeLocked()
	s.mu.Unlock()
	return s.ledger.List(ctx, scope)
}

// ClearActivities empties the shared ledger scope. Per-account scopes are
// only removed through account deletion.
func (s *Session) ClearActivities(ctx context.Context) error {
	return s.ledger.Clear(ctx)
}

// PruneExpiredActivities drops entries older than the retention window
// from the active scope. Run once at process start; steady-state eviction
// happens on append.
func (s *Session) PruneExpiredActivities(ctx context.Context) error {
	s.mu.Lock()
	scope := s.activeScopeLocked()
	s.mu.Unlock()
	return s.ledger.PruneExpired(ctx, scope)
}
