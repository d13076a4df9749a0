// Package fanout delivers ledger entries and profile-change events to
// registered in-process listeners, and optionally forwards non-auth
// activity to an external system notifier.
//
// Delivery is synchronous, on the calling goroutine, in registration order.
package fanout

import (
	"context"
	"reflect"
	"sync"

	"github.com/alphamobile/sessioncore/internal/ledger"
	"github.com/alphamobile/sessioncore/internal/logging"
	"github.com/alphamobile/sessioncore/internal/metrics"
)

// Handle identifies one listener registration and is the token used to
// unregister it.
type Handle uint64

// ProfileListener receives profile-updated events.
type ProfileListener interface {
	ProfileUpdated()
}

// ActivityListener receives every successfully appended ledger entry.
type ActivityListener interface {
	NewActivity(e ledger.Entry)
}

// BadgeListener is told when the user has viewed pending activity.
type BadgeListener interface {
	BadgeCleared()
}

// Notification is the payload handed to the external system notifier.
type Notification struct {
	Title   string
	Body    string
	IconRef string
	Color   uint32
}

// SystemNotifier is the external notification collaborator. Delivery
// failures are logged and otherwise ignored.
type SystemNotifier interface {
	Notify(ctx context.Context, n Notification) error
}

// SettingsSource gates system-notification dispatch on the user's
// preference.
type SettingsSource interface {
	NotificationsEnabled(ctx context.Context) bool
}

// isComparable reports whether v's dynamic type supports ==. Comparing a
// non-comparable interface value panics, so the duplicate check skips those.
func isComparable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}

type profileReg struct {
	h Handle
	l ProfileListener
}

type activityReg struct {
	h Handle
	l ActivityListener
}

// Fanout is the multicast dispatcher. The zero value is not usable; use New.
type Fanout struct {
	log      logging.Logger
	metrics  metrics.Recorder
	notifier SystemNotifier
	settings SettingsSource

	mu       sync.Mutex
	next     Handle
	profile  []profileReg
	activity []activityReg
	badge    BadgeListener
}

// New creates a Fanout. notifier and settings may be nil; without a
// notifier no system notifications are dispatched, and without settings the
// preference gate defaults to enabled.
func New(log logging.Logger, rec metrics.Recorder, notifier SystemNotifier, settings SettingsSource) *Fanout {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Fanout{log: log, metrics: rec, notifier: notifier, settings: settings}
}

// AddProfileListener registers l and returns its handle. Registering the
// same listener value twice is a no-op returning the handle of the first
// registration. The set semantics require a comparable listener value
// (pointers are); non-comparable values are always registered anew.
func (f *Fanout) AddProfileListener(l ProfileListener) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if isComparable(l) {
		for _, r := range f.profile {
			if r.l == l {
				return r.h
			}
		}
	}
	f.next++
	f.profile = append(f.profile, profileReg{h: f.next, l: l})
	return f.next
}

// RemoveProfileListener unregisters the listener behind h. Unknown handles
// are ignored.
func (f *Fanout) RemoveProfileListener(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.profile {
		if r.h == h {
			f.profile = append(f.profile[:i], f.profile[i+1:]...)
			return
		}
	}
}

// AddActivityListener registers l and returns its handle, with the same set
// semantics as AddProfileListener.
func (f *Fanout) AddActivityListener(l ActivityListener) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if isComparable(l) {
		for _, r := range f.activity {
			if r.l == l {
				return r.h
			}
		}
	}
	f.next++
	f.activity = append(f.activity, activityReg{h: f.next, l: l})
	return f.next
}

// RemoveActivityListener unregisters the listener behind h.
func (f *Fanout) RemoveActivityListener(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.activity {
		if r.h == h {
			f.activity = append(f.activity[:i], f.activity[i+1:]...)
			return
		}
	}
}

// SetBadgeListener installs the single badge listener, replacing any
// previous one. A nil listener clears it.
func (f *Fanout) SetBadgeListener(l BadgeListener) {
	f.mu.Lock()
	f.badge = l
	f.mu.Unlock()
}

// NotifyProfileUpdated synchronously invokes every profile listener in
// registration order.
func (f *Fanout) NotifyProfileUpdated() {
	f.mu.Lock()
	listeners := make([]ProfileListener, 0, len(f.profile))
	for _, r := range f.profile {
		listeners = append(listeners, r.l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l.ProfileUpdated()
		f.metrics.RecordFanoutDelivery(metrics.KindProfile)
	}
}

// NotifyBadgeCleared invokes the badge listener, if one is set.
func (f *Fanout) NotifyBadgeCleared() {
	f.mu.Lock()
	badge := f.badge
	f.mu.Unlock()

	if badge == nil {
		return
	}
	badge.BadgeCleared()
	f.metrics.RecordFanoutDelivery(metrics.KindBadge)
}

// NotifyNewActivity invokes every activity listener with e and then, unless
// e is a login/logout event or the user disabled notifications, forwards it
// to the system notifier.
func (f *Fanout) NotifyNewActivity(ctx context.Context, e ledger.Entry) {
	f.mu.Lock()
	listeners := make([]ActivityListener, 0, len(f.activity))
	for _, r := range f.activity {
		listeners = append(listeners, r.l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l.NewActivity(e)
		f.metrics.RecordFanoutDelivery(metrics.KindActivity)
	}

	f.dispatchSystem(ctx, e)
}

func (f *Fanout) dispatchSystem(ctx context.Context, e ledger.Entry) {
	if f.notifier == nil || e.IsAuthEvent() {
		return
	}
	if f.settings != nil && !f.settings.NotificationsEnabled(ctx) {
		return
	}

	n := Notification{
		Title:   ledger.MessageText(e.TitleRef),
		Body:    ledger.MessageText(e.DescriptionRef),
		IconRef: e.IconRef,
		Color:   e.Color,
	}
	if err := f.notifier.Notify(ctx, n); err != nil {
		f.log.Error(ctx, "failed to post system notification", "title", n.Title, "error", err)
		return
	}
	f.metrics.RecordSystemNotification()
}
