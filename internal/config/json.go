package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alphamobile/sessioncore/internal/timex"
)

// jsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "168h" and integer nanoseconds. After
// unmarshalling, set fields are copied into the runtime Config.
type jsonConfig struct {
	DataDir              *string         `json:"data_dir"`
	DatabaseDSN          *string         `json:"database_dsn"`
	DefaultLanguage      *string         `json:"default_language"`
	NotificationsEnabled *bool           `json:"notifications_enabled"`
	LedgerMaxEntries     *int            `json:"ledger_max_entries"`
	LedgerRetention      *timex.Duration `json:"ledger_retention"`
}

// parseJSON overlays configuration values from the JSON file at path onto
// cfg. Absent fields keep their current values.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.DataDir != nil {
		cfg.DataDir = *c.DataDir
	}
	if c.DatabaseDSN != nil {
		cfg.DatabaseDSN = *c.DatabaseDSN
	}
	if c.DefaultLanguage != nil {
		cfg.DefaultLanguage = *c.DefaultLanguage
	}
	if c.NotificationsEnabled != nil {
		cfg.NotificationsEnabled = *c.NotificationsEnabled
	}
	if c.LedgerMaxEntries != nil {
		cfg.LedgerMaxEntries = *c.LedgerMaxEntries
	}
	if c.LedgerRetention != nil {
		cfg.LedgerRetention = c.LedgerRetention.Duration
	}
	return nil
}
