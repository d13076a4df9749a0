// Package config handles configuration for the session core, including
// defaults and an optional JSON overlay supplied by the embedding
// application.
package config

import "time"

// Config holds runtime settings for the session core.
//
// Fields:
//   - DataDir: root directory for per-account storage regions and shared files.
//   - DatabaseDSN: sqlite DSN for the registry, preference and ledger tables.
//   - DefaultLanguage: language code returned before the user picks one.
//   - NotificationsEnabled: default for the system-notification preference.
//   - LedgerMaxEntries: cap on persisted activity entries per scope.
//   - LedgerRetention: maximum entry age enforced on every ledger write.
type Config struct {
	DataDir              string
	DatabaseDSN          string
	DefaultLanguage      string
	NotificationsEnabled bool
	LedgerMaxEntries     int
	LedgerRetention      time.Duration
}

// LoadDefaults populates Config with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.DatabaseDSN = "file:sessioncore.db"
	c.DefaultLanguage = "en"
	c.NotificationsEnabled = true
	c.LedgerMaxEntries = 10
	c.LedgerRetention = 7 * 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults and then overlaying values
// from an optional JSON file. An empty path skips the overlay.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
