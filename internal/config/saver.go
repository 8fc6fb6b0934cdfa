package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	DefaultProvider string        `json:"defaultProvider,omitempty"`
	ClearOnSwitch   *bool         `json:"clearOnSwitch,omitempty"`
	RequestTimeout  string        `json:"requestTimeout,omitempty"`
	MaxTokens       *int          `json:"maxTokens,omitempty"`
	Keymap          *KeymapConfig `json:"keymap,omitempty"`
}

// Save writes the config to its default path, creating the directory if
// needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	sc := saveConfig{
		DefaultProvider: cfg.DefaultProvider,
		ClearOnSwitch:   &cfg.ClearOnSwitch,
		RequestTimeout:  cfg.RequestTimeout.String(),
		MaxTokens:       &cfg.MaxTokens,
	}
	if len(cfg.Keymap.Overrides) > 0 {
		sc.Keymap = &cfg.Keymap
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
