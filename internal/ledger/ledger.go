// Package ledger implements the bounded, time-decaying activity ledger: an
// append-only log of domain events capped per scope by entry count and age.
// Eviction is write-triggered; stale entries may stay visible until the next
// append.
package ledger

import (
	"context"
	"time"

	"github.com/alphamobile/sessioncore/internal/logging"
	"github.com/alphamobile/sessioncore/internal/metrics"
)

// Ledger enforces the per-scope bound on every write. The persisted list
// for a scope never exceeds maxEntries and never contains an entry older
// than retention at the moment of a write.
type Ledger struct {
	repo    Repository
	log     logging.Logger
	metrics metrics.Recorder

	maxEntries int
	retention  time.Duration
	now        func() time.Time
}

func New(repo Repository, log logging.Logger, rec metrics.Recorder, maxEntries int, retention time.Duration) *Ledger {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Ledger{
		repo:       repo,
		log:        log,
		metrics:    rec,
		maxEntries: maxEntries,
		retention:  retention,
		now:        time.Now,
	}
}

// Append writes e to scope, evicting expired and overflowing entries in the
// same write. Entries with unset text references are dropped with a
// diagnostic and reported as not appended; that is not an error.
func (l *Ledger) Append(ctx context.Context, scope Scope, e Entry) (bool, error) {
	if !e.Valid() {
		l.log.Warn(ctx, "skipping activity with unset text references", "icon", e.IconRef)
		return false, nil
	}

	entries, err := l.repo.ListScope(ctx, scope.key())
	if err != nil {
		return false, err
	}

	now := l.now()
	recent := make([]Entry, 0, len(entries)+1)
	recent = append(recent, e)
	for _, old := range entries {
		if now.Sub(old.Time()) <= l.retention {
			recent = append(recent, old)
		}
	}

	evicted := len(entries) + 1 - len(recent)
	if len(recent) > l.maxEntries {
		evicted += len(recent) - l.maxEntries
		recent = recent[:l.maxEntries]
	}

	if err := l.repo.ReplaceScope(ctx, scope.key(), recent); err != nil {
		return false, err
	}

	l.metrics.RecordLedgerAppend()
	if evicted > 0 {
		l.metrics.RecordLedgerEviction(evicted)
	}
	return true, nil
}

// List returns the entries of scope, newest first.
func (l *Ledger) List(ctx context.Context, scope Scope) ([]Entry, error) {
	return l.repo.ListScope(ctx, scope.key())
}

// Clear empties the shared scope only. Per-account scopes are left alone;
// see the behavior note in DESIGN.md before changing this.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.repo.ClearScope(ctx, Shared().key())
}

// PruneExpired removes entries of scope older than the retention window
// without waiting for the next append. Intended to run once at process
// start.
func (l *Ledger) PruneExpired(ctx context.Context, scope Scope) error {
	entries, err := l.repo.ListScope(ctx, scope.key())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	now := l.now()
	recent := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if now.Sub(e.Time()) <= l.retention {
			recent = append(recent, e)
		}
	}
	if len(recent) == len(entries) {
		return nil
	}

	l.metrics.RecordLedgerEviction(len(entries) - len(recent))
	return l.repo.ReplaceScope(ctx, scope.key(), recent)
}

// RemoveByOwner purges entries owned by userID from every scope. Account
// deletion uses it to drop rows tied to a dead identity regardless of the
// usual limits.
func (l *Ledger) RemoveByOwner(ctx context.Context, userID string) error {
	return l.repo.DeleteByOwner(ctx, userID)
}

// DeleteScope drops the whole durable list of one scope. Used when the
// owning account is deleted.
func (l *Ledger) DeleteScope(ctx context.Context, scope Scope) error {
	return l.repo.ClearScope(ctx, scope.key())
}

// CopyScope replaces the content of dst with the content of src. Login uses
// it to mirror the shared ledger into the account scope.
func (l *Ledger) CopyScope(ctx context.Context, src, dst Scope) error {
	entries, err := l.repo.ListScope(ctx, src.key())
	if err != nil {
		return err
	}
	return l.repo.ReplaceScope(ctx, dst.key(), entries)
}
