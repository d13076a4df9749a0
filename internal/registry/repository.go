package registry

import "context"

// Snapshot is one fresh read of the whole account map. Decisions about
// account existence are always made against a snapshot taken at the start of
// the operation, never against a longer-lived cache, so external writers are
// observed.
type Snapshot struct {
	accounts map[string]Account
}

// Get returns the account for username, if present.
func (s *Snapshot) Get(username string) (Account, bool) {
	acc, ok := s.accounts[username]
	return acc, ok
}

// Has reports whether username exists in the snapshot.
func (s *Snapshot) Has(username string) bool {
	_, ok := s.accounts[username]
	return ok
}

// Len returns the number of accounts in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.accounts)
}

// Repository is the durable store behind the credential registry.
type Repository interface {
	// Snapshot re-reads the full account map from durable state.
	Snapshot(ctx context.Context) (*Snapshot, error)
	Create(ctx context.Context, acc *Account) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, username string) (bool, error)
}
