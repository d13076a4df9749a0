package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alphamobile/sessioncore/internal/common"
	"github.com/alphamobile/sessioncore/internal/ledger"
	"github.com/alphamobile/sessioncore/internal/store"
)

// SaveProfileField sets one field of the active account's profile document,
// creating the document from defaults when it is missing, then records a
// profile-change activity and notifies listeners. Requires a logged-in
// session.
func (s *Session) SaveProfileField(ctx context.Context, key, value string) error {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()

	if !s.loggedIn || s.username == "" {
		return common.ErrorNotLoggedIn
	}

	acc, err := s.registry.Lookup(ctx, s.username)
	if err != nil {
		return fmt.Errorf("resolve active account: %w", err)
	}

	doc, err := s.store.LoadProfile(ctx, acc.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		doc = store.DefaultProfile(s.username)
	} else if err != nil {
		return err
	}

	doc[key] = value
	if err := s.store.SaveProfile(ctx, acc.UserID, doc); err != nil {
		return err
	}

	if _, err := s.appendActivityLocked(ctx, ledger.ProfileUpdateEntry(acc.UserID, s.now()), &notify); err != nil {
		s.log.Warn(ctx, "failed to record profile activity", "error", err)
	}
	notify = append(notify, s.fanout.NotifyProfileUpdated)
	return nil
}

// LoadProfileDocument returns the active account's profile document.
// Requires a logged-in session.
func (s *Session) LoadProfileDocument(ctx context.Context) (store.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loggedIn || s.username == "" {
		return nil, common.ErrorNotLoggedIn
	}

	acc, err := s.registry.Lookup(ctx, s.username)
	if err != nil {
		return nil, fmt.Errorf("resolve active account: %w", err)
	}
	return s.store.LoadProfile(ctx, acc.UserID)
}

// SetLanguage persists the UI language preference.
func (s *Session) SetLanguage(ctx context.Context, code string) error {
	return s.prefs.Set(ctx, domainSession, keyLanguage, code)
}

// Language returns the persisted UI language, falling back to the
// configured default when unset.
func (s *Session) Language(ctx context.Context) (string, error) {
	code, ok, err := s.prefs.Get(ctx, domainSession, keyLanguage)
	if err != nil {
		return "", err
	}
	if !ok || code == "" {
		return s.defaultLanguage, nil
	}
	return code, nil
}

// FirstLoginTime returns when the first successful login happened. Before
// any login it returns the current time, so ActiveDays starts at one.
func (s *Session) FirstLoginTime(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.prefs.Get(ctx, domainSession, keyFirstLogin)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return s.now(), nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse first login stamp: %w", err)
	}
	return time.UnixMilli(ms), nil
}

// ActiveDays counts calendar-ish days since the first login, inclusive: the
// day of the first login is day one.
func (s *Session) ActiveDays(ctx context.Context) (int, error) {
	first, err := s.FirstLoginTime(ctx)
	if err != nil {
		return 0, err
	}
	elapsed := s.now().Sub(first)
	if elapsed < 0 {
		elapsed = 0
	}
	return int(elapsed/(24*time.Hour)) + 1, nil
}
