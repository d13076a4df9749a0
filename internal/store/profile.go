package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alphamobile/sessioncore/internal/common"
	"github.com/alphamobile/sessioncore/internal/filex"
)

// profileFileName is the well-known document path inside every region.
const profileFileName = "profile.json"

// Profile is the free-form per-account profile document. The editing UI may
// add arbitrary fields next to the defaults.
type Profile map[string]any

// DefaultProfile returns the document written at registration time.
func DefaultProfile(username string) Profile {
	return Profile{
		"username":  username,
		"email":     username + "@example.com",
		"photoPath": "",
	}
}

// SaveProfile writes the whole document for userID, creating the region if
// needed.
func (m *Manager) SaveProfile(ctx context.Context, userID string, doc Profile) error {
	if doc == nil {
		return fmt.Errorf("save profile for %s: nil document", userID)
	}

	dir := m.regionDir(userID)
	if err := filex.EnsureDir(dir); err != nil {
		return fmt.Errorf("save profile for %s: %w", userID, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile for %s: %w", userID, err)
	}
	if err := os.WriteFile(filepath.Join(dir, profileFileName), data, 0o660); err != nil {
		return fmt.Errorf("write profile for %s: %w", userID, err)
	}

	m.log.Debug(ctx, "saved profile", "user_id", userID)
	return nil
}

// LoadProfile reads the whole document for userID. A missing document yields
// common.ErrorNotFound.
func (m *Manager) LoadProfile(ctx context.Context, userID string) (Profile, error) {
	path := filepath.Join(m.regionDir(userID), profileFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		m.log.Warn(ctx, "profile file not found", "user_id", userID)
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read profile for %s: %w", userID, err)
	}

	var doc Profile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode profile for %s: %w", userID, err)
	}
	return doc, nil
}

// LoadActiveProfile reads the document of the active region, or
// common.ErrorNotFound when no region is active.
func (m *Manager) LoadActiveProfile(ctx context.Context) (Profile, error) {
	m.mu.Lock()
	userID := m.activeUserID
	m.mu.Unlock()

	if userID == "" {
		return nil, common.ErrorNotFound
	}
	return m.LoadProfile(ctx, userID)
}
