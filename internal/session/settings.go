package session

import (
	"context"
	"strconv"

	"github.com/alphamobile/sessioncore/internal/logging"
	"github.com/alphamobile/sessioncore/internal/prefs"
)

// Settings exposes the application-settings preference domain. It
// satisfies the fanout's settings source, so the system-notification gate
// always reflects the durable toggle.
type Settings struct {
	prefs          prefs.Repository
	log            logging.Logger
	defaultEnabled bool
}

func NewSettings(p prefs.Repository, log logging.Logger, defaultEnabled bool) *Settings {
	return &Settings{prefs: p, log: log, defaultEnabled: defaultEnabled}
}

// NotificationsEnabled reads the toggle, falling back to the configured
// default when unset or unreadable.
func (s *Settings) NotificationsEnabled(ctx context.Context) bool {
	raw, ok, err := s.prefs.Get(ctx, domainSettings, keyNotifications)
	if err != nil {
		s.log.Warn(ctx, "failed to read notification setting", "error", err)
		return s.defaultEnabled
	}
	if !ok {
		return s.defaultEnabled
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return s.defaultEnabled
	}
	return enabled
}

// SetNotificationsEnabled persists the toggle.
func (s *Settings) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	return s.prefs.Set(ctx, domainSettings, keyNotifications, strconv.FormatBool(enabled))
}
