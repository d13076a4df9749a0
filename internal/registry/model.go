package registry

import "time"

// Account is one durable credential record. UserID is the only identifier
// other components may retain; storage regions are keyed by it so a username
// change never orphans stored files.
type Account struct {
	Username     string
	PasswordHash string
	UserID       string
	CreatedAt    time.Time
}
