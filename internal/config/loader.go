package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// rawConfig is the JSON-unmarshaling intermediary; durations are strings.
type rawConfig struct {
	DefaultProvider string       `json:"defaultProvider"`
	ClearOnSwitch   *bool        `json:"clearOnSwitch"`
	RequestTimeout  string       `json:"requestTimeout"`
	MaxTokens       *int         `json:"maxTokens"`
	Keymap          KeymapConfig `json:"keymap"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from a specific path. A missing file yields
// the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	mergeConfig(cfg, &raw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig overlays the raw file values onto the defaults.
func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.DefaultProvider != "" {
		cfg.DefaultProvider = raw.DefaultProvider
	}
	if raw.ClearOnSwitch != nil {
		cfg.ClearOnSwitch = *raw.ClearOnSwitch
	}
	if raw.RequestTimeout != "" {
		if d, err := time.ParseDuration(raw.RequestTimeout); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if raw.MaxTokens != nil {
		cfg.MaxTokens = *raw.MaxTokens
	}
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}
}
