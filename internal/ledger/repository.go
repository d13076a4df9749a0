package ledger

import "context"

// Repository is the durable store behind the activity ledger. Scoped lists
// are always read and rewritten whole: the ledger's bound (entry cap and
// retention window) is enforced by the service on every write, not by the
// store.
type Repository interface {
	// ListScope returns the entries of one scope in persisted order
	// (newest first).
	ListScope(ctx context.Context, scope string) ([]Entry, error)
	// ReplaceScope atomically replaces the content of one scope.
	ReplaceScope(ctx context.Context, scope string, entries []Entry) error
	// ClearScope removes every entry of one scope.
	ClearScope(ctx context.Context, scope string) error
	// DeleteByOwner removes entries owned by userID from every scope,
	// regardless of age or count limits.
	DeleteByOwner(ctx context.Context, userID string) error
}
