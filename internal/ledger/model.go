package ledger

import "time"

// Well-known message references and styling for the built-in domain events.
// References are opaque to the ledger itself; the UI resolves them to
// localized strings via MessageText.
const (
	TitleLogin   = "activity.login.title"
	DescLogin    = "activity.login.message"
	TitleLogout  = "activity.logout.title"
	DescLogout   = "activity.logout.message"
	TitleProfile = "activity.profile_update.title"
	DescProfile  = "activity.profile_update.message"
	TitleDeleted = "activity.account_deleted.title"
	DescDeleted  = "activity.account_deleted.message"

	IconLogin  = "ic_login"
	IconLogout = "ic_logout"
	IconPerson = "ic_person"
	IconDelete = "ic_delete"
)

// ARGB colors used by the built-in entry builders.
const (
	ColorGreen     uint32 = 0xFF4CAF50
	ColorError     uint32 = 0xFFB3261E
	ColorOnPrimary uint32 = 0xFFFFFFFF
)

// Entry is one immutable logged domain event.
type Entry struct {
	TitleRef       string `json:"titleRef"`
	DescriptionRef string `json:"descriptionRef"`
	Timestamp      int64  `json:"timestamp"` // unix milliseconds
	IconRef        string `json:"iconRef"`
	Color          uint32 `json:"color"`
	OwnerUserID    string `json:"ownerUserId"`
}

// Valid reports whether both text references are set. Entries failing this
// are dropped with a diagnostic and never persisted.
func (e Entry) Valid() bool {
	return e.TitleRef != "" && e.DescriptionRef != ""
}

// Time returns the entry timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// IsAuthEvent reports whether the entry records a login or logout. Auth
// events are never surfaced as system notifications.
func (e Entry) IsAuthEvent() bool {
	return e.TitleRef == TitleLogin || e.TitleRef == TitleLogout
}

// LoginEntry builds the entry appended on a successful login.
func LoginEntry(ownerUserID string, at time.Time) Entry {
	return Entry{
		TitleRef:       TitleLogin,
		DescriptionRef: DescLogin,
		Timestamp:      at.UnixMilli(),
		IconRef:        IconLogin,
		Color:          ColorGreen,
		OwnerUserID:    ownerUserID,
	}
}

// LogoutEntry builds the entry appended on logout.
func LogoutEntry(ownerUserID string, at time.Time) Entry {
	return Entry{
		TitleRef:       TitleLogout,
		DescriptionRef: DescLogout,
		Timestamp:      at.UnixMilli(),
		IconRef:        IconLogout,
		Color:          ColorError,
		OwnerUserID:    ownerUserID,
	}
}

// ProfileUpdateEntry builds the entry appended on a profile change.
func ProfileUpdateEntry(ownerUserID string, at time.Time) Entry {
	return Entry{
		TitleRef:       TitleProfile,
		DescriptionRef: DescProfile,
		Timestamp:      at.UnixMilli(),
		IconRef:        IconPerson,
		Color:          ColorOnPrimary,
		OwnerUserID:    ownerUserID,
	}
}

// AccountDeletedEntry builds the entry appended after an account deletion
// cascade.
func AccountDeletedEntry(ownerUserID string, at time.Time) Entry {
	return Entry{
		TitleRef:       TitleDeleted,
		DescriptionRef: DescDeleted,
		Timestamp:      at.UnixMilli(),
		IconRef:        IconDelete,
		Color:          ColorError,
		OwnerUserID:    ownerUserID,
	}
}

var messages = map[string]string{
	TitleLogin:   "Signed in",
	DescLogin:    "You signed in to your account.",
	TitleLogout:  "Signed out",
	DescLogout:   "You signed out of your account.",
	TitleProfile: "Profile updated",
	DescProfile:  "Your profile details were changed.",
	TitleDeleted: "Account deleted",
	DescDeleted:  "An account was removed from this device.",
}

// MessageText resolves a message reference to display text. Unknown
// references resolve to themselves.
func MessageText(ref string) string {
	if s, ok := messages[ref]; ok {
		return s
	}
	return ref
}
