// Package store is the per-account persistence boundary: each user id owns
// an isolated filesystem region for its profile document and arbitrary
// files. Region paths are derived from the user id only, never from the
// username, so renaming a user never orphans stored files.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alphamobile/sessioncore/internal/filex"
	"github.com/alphamobile/sessioncore/internal/logging"
)

// Manager resolves and maintains storage regions under a base directory.
// The active-region pointer is purely client-side state, not a lock.
type Manager struct {
	baseDir string
	log     logging.Logger

	mu             sync.Mutex
	activeUserID   string
	activeUsername string
}

func NewManager(baseDir string, log logging.Logger) *Manager {
	return &Manager{baseDir: baseDir, log: log}
}

func (m *Manager) regionDir(userID string) string {
	return filepath.Join(m.baseDir, "user_"+userID)
}

// EnsureRegion creates the storage region for userID if it is missing.
// Creation failures are logged, not returned; callers must tolerate a
// missing region on subsequent reads.
func (m *Manager) EnsureRegion(ctx context.Context, userID string) {
	dir := m.regionDir(userID)
	if err := filex.EnsureDir(dir); err != nil {
		m.log.Error(ctx, "failed to create user region", "user_id", userID, "error", err)
		return
	}
	m.log.Debug(ctx, "user region ready", "dir", dir)
}

// SwitchActive declares which region subsequent active-scoped file
// operations resolve against.
func (m *Manager) SwitchActive(ctx context.Context, userID, username string) {
	m.mu.Lock()
	m.activeUserID = userID
	m.activeUsername = username
	m.mu.Unlock()

	m.EnsureRegion(ctx, userID)
}

// ClearActive unsets the active-region pointer; active-scoped operations
// fall back to the shared region.
func (m *Manager) ClearActive(ctx context.Context) {
	m.mu.Lock()
	m.activeUserID = ""
	m.activeUsername = ""
	m.mu.Unlock()
	m.log.Debug(ctx, "cleared active user region")
}

// ActiveUsername returns the username the active region was switched to, or
// "" when no region is active.
func (m *Manager) ActiveUsername() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeUsername
}

// ActiveFile resolves name against the active region, or the shared region
// when none is active.
func (m *Manager) ActiveFile(name string) string {
	m.mu.Lock()
	userID := m.activeUserID
	m.mu.Unlock()

	if userID == "" {
		return filepath.Join(m.baseDir, name)
	}
	return filepath.Join(m.regionDir(userID), name)
}

// SharedFile resolves name against the shared region.
func (m *Manager) SharedFile(name string) string {
	return filepath.Join(m.baseDir, name)
}

// DeleteRegion recursively removes the whole region for userID. It is
// idempotent if the region is already absent.
func (m *Manager) DeleteRegion(ctx context.Context, userID string) error {
	dir := m.regionDir(userID)
	if err := filex.RemoveTree(dir); err != nil {
		return fmt.Errorf("delete region %s: %w", userID, err)
	}
	m.log.Debug(ctx, "deleted user region", "dir", dir)
	return nil
}

// RemoveSharedFile deletes one file in the shared region. A missing file is
// not an error.
func (m *Manager) RemoveSharedFile(ctx context.Context, name string) {
	path := m.SharedFile(name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.log.Warn(ctx, "failed to remove shared file", "path", path, "error", err)
	}
}

// DeleteSharedFilesMatching removes every regular file in the shared region
// whose name contains substr. The broad substring match is intentional: it
// is the cleanup sweep account deletion relies on to catch per-user cache
// and cookie files.
func (m *Manager) DeleteSharedFilesMatching(ctx context.Context, substr string) {
	if substr == "" {
		return
	}

	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		m.log.Warn(ctx, "failed to list shared region", "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), substr) {
			continue
		}
		path := filepath.Join(m.baseDir, e.Name())
		if err := os.Remove(path); err != nil {
			m.log.Warn(ctx, "failed to remove file", "path", path, "error", err)
		}
	}
	m.log.Debug(ctx, "shared files swept", "substr", substr)
}
