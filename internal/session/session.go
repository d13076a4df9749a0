// Package session implements the session cache: the orchestrator that
// coordinates the credential registry, the namespaced store, the activity
// ledger and the notification fanout behind one mutex.
//
// Every account-mutating operation (register, login, logout, password
// reset, account deletion) runs under the same lock, so the multi-store
// cascades those operations perform are never interleaved.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alphamobile/sessioncore/internal/common"
	"github.com/alphamobile/sessioncore/internal/fanout"
	"github.com/alphamobile/sessioncore/internal/ledger"
	"github.com/alphamobile/sessioncore/internal/logging"
	"github.com/alphamobile/sessioncore/internal/metrics"
	"github.com/alphamobile/sessioncore/internal/prefs"
	"github.com/alphamobile/sessioncore/internal/registry"
	"github.com/alphamobile/sessioncore/internal/store"
)

// Preference domains and keys. The shared session domain carries the
// durable login flags; per-account domains are swept on account deletion.
const (
	domainSession  = "user_session"
	domainSettings = "app_settings"

	keyIsLoggedIn    = "is_logged_in"
	keyUsername      = "username"
	keyFirstLogin    = "first_login"
	keyLanguage      = "app_language"
	keyNotifications = "notifications_enabled"
)

func userPrefsDomain(username string) string   { return "session_" + username }
func userProfileDomain(username string) string { return "user_profile_" + username }
func userDataDomain(userID string) string      { return "user_data_" + userID }
func userCacheDomain(username string) string   { return "user_cache_" + username }

// Session is the process-wide session state machine over
// {LoggedOut, LoggedIn(username)}. Construct it once at the application
// entry point and hand references to consumers; there is no ambient
// singleton.
//
// Fanout notifications raised by an operation are queued while the mutex is
// held and delivered after it is released, so listeners are free to re-read
// session state from inside their callbacks.
type Session struct {
	registry *registry.Registry
	store    *store.Manager
	ledger   *ledger.Ledger
	fanout   *fanout.Fanout
	prefs    prefs.Repository
	log      logging.Logger
	metrics  metrics.Recorder

	defaultLanguage string
	now             func() time.Time

	mu                sync.Mutex
	loggedIn          bool
	username          string
	activeUserID      string
	accountScopeReady bool // per-account ledger scope initialized this session
}

// Deps carries the collaborators a Session is built from. Metrics may be
// nil.
type Deps struct {
	Registry        *registry.Registry
	Store           *store.Manager
	Ledger          *ledger.Ledger
	Fanout          *fanout.Fanout
	Prefs           prefs.Repository
	Logger          logging.Logger
	Metrics         metrics.Recorder
	DefaultLanguage string
}

// New builds a Session and primes its in-memory cache from the durable
// session flags.
func New(ctx context.Context, d Deps) (*Session, error) {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.DefaultLanguage == "" {
		d.DefaultLanguage = "en"
	}

	s := &Session{
		registry:        d.Registry,
		store:           d.Store,
		ledger:          d.Ledger,
		fanout:          d.Fanout,
		prefs:           d.Prefs,
		log:             d.Logger,
		metrics:         d.Metrics,
		defaultLanguage: d.DefaultLanguage,
		now:             time.Now,
	}
	if err := s.loadCachedState(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// flushNotifications delivers queued fanout notifications in order. It must
// run after s.mu is released; listeners may call back into the session.
func flushNotifications(notify *[]func()) {
	for _, fn := range *notify {
		fn()
	}
}

// loadCachedState re-reads the durable login flags into memory. The
// per-account ledger scope always starts uninitialized: until the next
// login, activity reads resolve against the shared scope.
func (s *Session) loadCachedState(ctx context.Context) error {
	flag, _, err := s.prefs.Get(ctx, domainSession, keyIsLoggedIn)
	if err != nil {
		return fmt.Errorf("load session flags: %w", err)
	}
	username, _, err := s.prefs.Get(ctx, domainSession, keyUsername)
	if err != nil {
		return fmt.Errorf("load session flags: %w", err)
	}

	s.loggedIn = flag == "true"
	s.username = username
	s.activeUserID = ""
	s.accountScopeReady = false
	return nil
}

// IsLoggedIn reports whether an identity is active.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Username returns the active username, or "" while logged out.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// IsUsernameTaken reports whether username is registered. Combined with a
// failed Login this lets callers distinguish "unknown username" from
// "wrong password".
func (s *Session) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.registry.IsUsernameTaken(ctx, username)
}

// Lookup returns the account record for username or common.ErrorNotFound.
func (s *Session) Lookup(ctx context.Context, username string) (*registry.Account, error) {
	return s.registry.Lookup(ctx, username)
}

// Register creates an account, materializes its storage region and writes
// the default profile document. It does not log the new account in.
func (s *Session) Register(ctx context.Context, username, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.registry.Register(ctx, username, password)
	if err != nil {
		return "", err
	}

	s.store.EnsureRegion(ctx, userID)
	if err := s.store.SaveProfile(ctx, userID, store.DefaultProfile(username)); err != nil {
		s.log.Error(ctx, "failed to save initial profile", "username", username, "error", err)
	}

	s.metrics.RecordRegistration()
	return userID, nil
}

// Login authenticates username/password and, on success, activates the
// account: region and profile are ensured, the shared ledger is mirrored
// into the account scope, a login entry is appended and profile listeners
// are notified. On failure no state changes.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()

	acc, err := s.registry.Authenticate(ctx, username, password)
	if err != nil {
		s.metrics.RecordLogin(metrics.LoginFailed)
		s.log.Warn(ctx, "login failed", "username", username)
		return err
	}

	s.store.EnsureRegion(ctx, acc.UserID)
	if _, err := s.store.LoadProfile(ctx, acc.UserID); errors.Is(err, common.ErrorNotFound) {
		if err := s.store.SaveProfile(ctx, acc.UserID, store.DefaultProfile(username)); err != nil {
			s.log.Error(ctx, "failed to save initial profile", "username", username, "error", err)
		}
	} else if err != nil {
		s.log.Warn(ctx, "failed to load profile", "username", username, "error", err)
	}

	s.store.SwitchActive(ctx, acc.UserID, username)

	if err := s.prefs.Set(ctx, domainSession, keyUsername, username); err != nil {
		return fmt.Errorf("persist session flags: %w", err)
	}
	if err := s.prefs.Set(ctx, domainSession, keyIsLoggedIn, "true"); err != nil {
		return fmt.Errorf("persist session flags: %w", err)
	}

	s.loggedIn = true
	s.username = username
	s.activeUserID = acc.UserID

	if err := s.ledger.CopyScope(ctx, ledger.Shared(), ledger.Account(acc.UserID)); err != nil {
		s.log.Warn(ctx, "failed to mirror shared ledger", "username", username, "error", err)
	}
	s.accountScopeReady = true

	if _, err := s.appendActivityLocked(ctx, ledger.LoginEntry(acc.UserID, s.now()), &notify); err != nil {
		s.log.Warn(ctx, "failed to record login activity", "error", err)
	}
	if err := s.setFirstLoginIfUnset(ctx); err != nil {
		s.log.Warn(ctx, "failed to stamp first login", "error", err)
	}

	notify = append(notify, s.fanout.NotifyProfileUpdated)
	s.metrics.RecordLogin(metrics.LoginOK)
	s.log.Debug(ctx, "login successful", "username", username, "user_id", acc.UserID)
	return nil
}

// Logout deactivates the current identity. The logout entry is appended
// after the flags are cleared, so it lands in the shared scope; that
// ordering is deliberate. Logging out while logged out is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()

	if !s.loggedIn || s.username == "" {
		return nil
	}
	loggedOut := s.username
	userID := s.activeUserID

	// The per-account scope rows are already durable; clearing the flags
	// below is what flips subsequent reads back to the shared scope.
	if err := s.prefs.Delete(ctx, domainSession, keyIsLoggedIn); err != nil {
		return fmt.Errorf("clear session flags: %w", err)
	}
	if err := s.prefs.Delete(ctx, domainSession, keyUsername); err != nil {
		return fmt.Errorf("clear session flags: %w", err)
	}

	s.loggedIn = false
	s.username = ""
	s.activeUserID = ""
	s.accountScopeReady = false

	if _, err := s.appendActivityLocked(ctx, ledger.LogoutEntry(userID, s.now()), &notify); err != nil {
		s.log.Warn(ctx, "failed to record logout activity", "error", err)
	}

	notify = append(notify, s.fanout.NotifyProfileUpdated)
	s.store.ClearActive(ctx)
	s.metrics.RecordLogout()
	s.log.Debug(ctx, "logout successful", "username", loggedOut)
	return nil
}

// ResetPassword changes a password after verifying the old one. When it
// touches the active account the in-memory cache is refreshed.
func (s *Session) ResetPassword(ctx context.Context, username, oldPassword, newPassword string) error {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()

	if err := s.registry.ResetPassword(ctx, username, oldPassword, newPassword); err != nil {
		return err
	}
	if username == s.username {
		if err := s.refreshCacheLocked(ctx, &notify); err != nil {
			s.log.Warn(ctx, "failed to refresh session cache", "error", err)
		}
	}
	return nil
}

// DeleteAccount removes the account and cascades over everything keyed by
// its identity: the storage region, the per-account preference domains, the
// profile images and username-tagged shared files, the per-account ledger
// scope and every shared-ledger entry it owns. Deleting the active account
// also resets the session to logged out. Returns false when the account
// does not exist.
func (s *Session) DeleteAccount(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()

	acc, err := s.registry.Lookup(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	userID := acc.UserID

	if _, err := s.registry.Delete(ctx, username); err != nil {
		return false, err
	}

	// The record is gone; the rest of the cascade proceeds past individual
	// failures so a partial sweep still removes as much as possible.
	if err := s.store.DeleteRegion(ctx, userID); err != nil {
		s.log.Warn(ctx, "failed to delete user region", "user_id", userID, "error", err)
	}
	for _, domain := range []string{
		userPrefsDomain(username),
		userProfileDomain(username),
		userDataDomain(userID),
		userCacheDomain(username),
	} {
		if err := s.prefs.ClearDomain(ctx, domain); err != nil {
			s.log.Warn(ctx, "failed to clear preference domain", "domain", domain, "error", err)
		}
	}
	s.store.RemoveSharedFile(ctx, "profile_pic_"+userID+".jpg")
	s.store.RemoveSharedFile(ctx, "profile_pic_"+userID+".png")
	s.store.DeleteSharedFilesMatching(ctx, username)

	if err := s.ledger.DeleteScope(ctx, ledger.Account(userID)); err != nil {
		s.log.Warn(ctx, "failed to delete account ledger scope", "user_id", userID, "error", err)
	}
	if err := s.ledger.RemoveByOwner(ctx, userID); err != nil {
		s.log.Warn(ctx, "failed to purge owned ledger entries", "user_id", userID, "error", err)
	}

	s.store.ClearActive(ctx)

	if username == s.username {
		s.loggedIn = false
		s.username = ""
		s.activeUserID = ""
		s.accountScopeReady = false
		for _, key := range []string{keyIsLoggedIn, keyUsername, keyFirstLogin} {
			if err := s.prefs.Delete(ctx, domainSession, key); err != nil {
				s.log.Warn(ctx, "failed to clear session flag", "key", key, "error", err)
			}
		}
	}

	// Recorded under whatever scope is active now: shared when the deleted
	// account was the active one.
	if _, err := s.appendActivityLocked(ctx, ledger.AccountDeletedEntry(s.activeUserID, s.now()), &notify); err != nil {
		s.log.Warn(ctx, "failed to record account deletion activity", "error", err)
	}

	notify = append(notify, s.fanout.NotifyProfileUpdated)
	s.metrics.RecordAccountDeletion()
	s.log.Debug(ctx, "account deleted", "username", username, "user_id", userID)
	return true, nil
}

// RefreshCache re-reads the durable session flags into memory and notifies
// profile listeners. Use it to reconcile after an external mutation of the
// durable state.
func (s *Session) RefreshCache(ctx context.Context) error {
	s.mu.Lock()
	var notify []func()
	defer flushNotifications(&notify)
	defer s.mu.Unlock()
	return s.refreshCacheLocked(ctx, &notify)
}

func (s *Session) refreshCacheLocked(ctx context.Context, notify *[]func()) error {
	if err := s.loadCachedState(ctx); err != nil {
		return err
	}
	*notify = append(*notify, s.fanout.NotifyProfileUpdated)
	return nil
}

func (s *Session) setFirstLoginIfUnset(ctx context.Context) error {
	_, ok, err := s.prefs.Get(ctx, domainSession, keyFirstLogin)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.prefs.Set(ctx, domainSession, keyFirstLogin,
		fmt.Sprintf("%d", s.now().UnixMilli()))
}
