package ledger

// Scope selects which durable ledger location an operation reads from and
// writes to: the shared scope (used while logged out) or a per-account
// scope. Resolving the scope once per operation keeps the selection rule
// auditable instead of being inferred from ambient session state.
type Scope struct {
	owner string
}

// Shared returns the shared scope.
func Shared() Scope {
	return Scope{}
}

// Account returns the per-account scope owned by userID.
func Account(userID string) Scope {
	return Scope{owner: userID}
}

// IsShared reports whether s is the shared scope.
func (s Scope) IsShared() bool {
	return s.owner == ""
}

// key is the scope discriminator persisted in the activities table.
func (s Scope) key() string {
	if s.owner == "" {
		return "shared"
	}
	return s.owner
}
