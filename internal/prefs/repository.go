// Package prefs stores small key/value preferences grouped into named
// domains. The shared session flags, application settings and the various
// per-account domains all live here.
package prefs

import "context"

// Repository is the persistence contract for preference domains.
//
// Get reports ok=false when the key is absent, which lets callers
// distinguish "unset" from an empty value (the first-login timestamp relies
// on this).
type Repository interface {
	Get(ctx context.Context, domain, key string) (value string, ok bool, err error)
	Set(ctx context.Context, domain, key, value string) error
	Delete(ctx context.Context, domain, key string) error
	ClearDomain(ctx context.Context, domain string) error
}
