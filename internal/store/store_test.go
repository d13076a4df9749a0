package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamobile/sessioncore/internal/common"
	"github.com/alphamobile/sessioncore/internal/logging"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewManager(t.TempDir(), log)
}

func TestEnsureRegion_IsIdempotent(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	m.EnsureRegion(ctx, "u-1")
	m.EnsureRegion(ctx, "u-1")

	info, err := os.Stat(m.regionDir("u-1"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestRegionPathDerivedFromUserIDOnly(t *testing.T) {
	m := newManager(t)

	assert.Equal(t, filepath.Join(m.baseDir, "user_u-1"), m.regionDir("u-1"))
}

func TestActiveFile_FallsBackToSharedRegion(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	assert.Equal(t, m.SharedFile("notes.txt"), m.ActiveFile("notes.txt"))

	m.SwitchActive(ctx, "u-1", "Alpha123")
	assert.Equal(t, filepath.Join(m.regionDir("u-1"), "notes.txt"), m.ActiveFile("notes.txt"))
	assert.Equal(t, "Alpha123", m.ActiveUsername())

	m.ClearActive(ctx)
	assert.Equal(t, m.SharedFile("notes.txt"), m.ActiveFile("notes.txt"))
	assert.Empty(t, m.ActiveUsername())
}

func TestProfileRoundTrip(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	doc := DefaultProfile("Alpha123")
	doc["bio"] = "hello"
	require.NoError(t, m.SaveProfile(ctx, "u-1", doc))

	got, err := m.LoadProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha123", got["username"])
	assert.Equal(t, "Alpha123@example.com", got["email"])
	assert.Equal(t, "", got["photoPath"])
	assert.Equal(t, "hello", got["bio"])
}

func TestLoadProfile_MissingIsNotFound(t *testing.T) {
	m := newManager(t)

	_, err := m.LoadProfile(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLoadActiveProfile(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	_, err := m.LoadActiveProfile(ctx)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, m.SaveProfile(ctx, "u-1", DefaultProfile("Alpha123")))
	m.SwitchActive(ctx, "u-1", "Alpha123")

	got, err := m.LoadActiveProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpha123", got["username"])
}

func TestDeleteRegion_RemovesEverythingAndIsIdempotent(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	require.NoError(t, m.SaveProfile(ctx, "u-1", DefaultProfile("Alpha123")))
	require.NoError(t, os.WriteFile(filepath.Join(m.regionDir("u-1"), "photo.png"), []byte{1}, 0o660))

	require.NoError(t, m.DeleteRegion(ctx, "u-1"))
	_, err := m.LoadProfile(ctx, "u-1")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, statErr := os.Stat(m.regionDir("u-1"))
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, m.DeleteRegion(ctx, "u-1"))
}

func TestDeleteSharedFilesMatching(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	for _, name := range []string{"cache_Alpha123.bin", "cookie_Alpha123", "photo_Alpha123.png", "other.txt"} {
		require.NoError(t, os.WriteFile(m.SharedFile(name), []byte{1}, 0o660))
	}
	m.EnsureRegion(ctx, "u-1") // directories are not swept

	m.DeleteSharedFilesMatching(ctx, "Alpha123")

	entries, err := os.ReadDir(m.baseDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"other.txt", "user_u-1"}, names)
}

func TestRemoveSharedFile_MissingIsTolerated(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	m.RemoveSharedFile(ctx, "profile_pic_u-1.jpg")

	require.NoError(t, os.WriteFile(m.SharedFile("profile_pic_u-1.jpg"), []byte{1}, 0o660))
	m.RemoveSharedFile(ctx, "profile_pic_u-1.jpg")
	_, err := os.Stat(m.SharedFile("profile_pic_u-1.jpg"))
	require.True(t, os.IsNotExist(err))
}
