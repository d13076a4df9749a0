// Package registry implements the credential registry: a durable map of
// username to account record with format policies on both credential parts.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alphamobile/sessioncore/internal/common"
	"github.com/alphamobile/sessioncore/internal/logging"
)

// Registry validates and stores account records. Every decision about
// account existence starts from a fresh Repository.Snapshot, so a mutation
// made elsewhere in the process is observed by the next call.
//
// No lockout or backoff is applied to Authenticate; serializing and
// rate-limiting calls is the orchestrator's concern.
type Registry struct {
	repo Repository
	log  logging.Logger
	now  func() time.Time
}

func New(repo Repository, log logging.Logger) *Registry {
	return &Registry{repo: repo, log: log, now: time.Now}
}

// Register creates a new account and returns its fresh user id.
//
// It fails with common.ErrorInvalidUsernameFormat or
// common.ErrorInvalidPasswordFormat when a credential fails policy, and with
// common.ErrorUsernameTaken when the username already exists.
func (r *Registry) Register(ctx context.Context, username, password string) (string, error) {
	if !UsernameValid(username) {
		r.log.Warn(ctx, "username must be 6-20 alphanumerics with an uppercase letter and a digit", "username", username)
		return "", common.ErrorInvalidUsernameFormat
	}
	if !PasswordValid(password) {
		r.log.Warn(ctx, "password must be at least 8 alphanumerics with a letter and a digit")
		return "", common.ErrorInvalidPasswordFormat
	}

	snap, err := r.repo.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("registry snapshot: %w", err)
	}
	if snap.Has(username) {
		r.log.Warn(ctx, "username already exists", "username", username)
		return "", common.ErrorUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	acc := &Account{
		Username:     username,
		PasswordHash: string(hash),
		UserID:       uuid.NewString(),
		CreatedAt:    r.now(),
	}
	if err := r.repo.Create(ctx, acc); err != nil {
		return "", err
	}

	r.log.Debug(ctx, "user registered", "username", username, "user_id", acc.UserID)
	return acc.UserID, nil
}

// Authenticate verifies username/password and returns the matching account.
// It fails with common.ErrorNotFound for an unknown username and
// common.ErrorAuthFailed for a wrong password, so callers can keep the two
// outcomes distinguishable.
func (r *Registry) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	snap, err := r.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry snapshot: %w", err)
	}

	acc, ok := snap.Get(username)
	if !ok {
		return nil, common.ErrorNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorAuthFailed
	}
	return &acc, nil
}

// ResetPassword replaces the password after verifying the old one. The new
// password must pass policy; it is allowed to equal the old one (rejecting
// that is a UI-level rule, not a registry invariant).
func (r *Registry) ResetPassword(ctx context.Context, username, oldPassword, newPassword string) error {
	snap, err := r.repo.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("registry snapshot: %w", err)
	}

	acc, ok := snap.Get(username)
	if !ok {
		return common.ErrorNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(oldPassword)) != nil {
		return common.ErrorAuthFailed
	}
	if !PasswordValid(newPassword) {
		r.log.Warn(ctx, "new password fails format policy", "username", username)
		return common.ErrorInvalidPasswordFormat
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := r.repo.UpdatePassword(ctx, username, string(hash)); err != nil {
		return err
	}

	r.log.Debug(ctx, "password reset", "username", username)
	return nil
}

// Lookup returns the account for username or common.ErrorNotFound.
func (r *Registry) Lookup(ctx context.Context, username string) (*Account, error) {
	snap, err := r.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry snapshot: %w", err)
	}
	acc, ok := snap.Get(username)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &acc, nil
}

// IsUsernameTaken reports whether username is registered.
func (r *Registry) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	snap, err := r.repo.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("registry snapshot: %w", err)
	}
	return snap.Has(username), nil
}

// Delete removes the record and reports whether it existed. Cascading
// cleanup of the account's namespace and ledger rows is the orchestrator's
// responsibility.
func (r *Registry) Delete(ctx context.Context, username string) (bool, error) {
	return r.repo.Delete(ctx, username)
}
