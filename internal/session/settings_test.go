package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamobile/sessioncore/internal/database"
	"github.com/alphamobile/sessioncore/internal/logging"
	"github.com/alphamobile/sessioncore/internal/prefs"
)

func newSettings(t *testing.T, defaultEnabled bool) *Settings {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewSettings(prefs.NewSQLiteRepository(db), log, defaultEnabled)
}

func TestNotificationsEnabled_DefaultWhenUnset(t *testing.T) {
	ctx := context.Background()
	assert.True(t, newSettings(t, true).NotificationsEnabled(ctx))
	assert.False(t, newSettings(t, false).NotificationsEnabled(ctx))
}

func TestNotificationsEnabled_Toggle(t *testing.T) {
	ctx := context.Background()
	s := newSettings(t, true)

	require.NoError(t, s.SetNotificationsEnabled(ctx, false))
	assert.False(t, s.NotificationsEnabled(ctx))

	require.NoError(t, s.SetNotificationsEnabled(ctx, true))
	assert.True(t, s.NotificationsEnabled(ctx))
}
