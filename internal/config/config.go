package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// EnvHome overrides the config directory location.
	EnvHome = "AI_TERMINAL_TOOL_HOME"

	configDirName = "ai-terminal-tool"
	configFile    = "config.json"
)

// Config is the root configuration structure.
type Config struct {
	// DefaultProvider selects the provider focused at startup.
	DefaultProvider string

	// ClearOnSwitch clears the transcript when the provider or model
	// changes. When false (the default) the transcript is preserved and
	// annotated with a note turn recording the switch.
	ClearOnSwitch bool

	// RequestTimeout bounds each provider call. Expiry surfaces as a
	// network failure in the transcript.
	RequestTimeout time.Duration

	// MaxTokens caps the length of each reply, 0 for provider default.
	MaxTokens int

	// Keymap holds key binding overrides.
	Keymap KeymapConfig
}

// KeymapConfig holds key binding overrides: key string to command name,
// taking precedence over the defaults in every context.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		DefaultProvider: "openai",
		ClearOnSwitch:   false,
		RequestTimeout:  30 * time.Second,
		MaxTokens:       1000,
		Keymap: KeymapConfig{
			Overrides: map[string]string{},
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("requestTimeout must be positive, got %v", c.RequestTimeout)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("maxTokens must not be negative, got %d", c.MaxTokens)
	}
	return nil
}

// Dir returns the config directory: $AI_TERMINAL_TOOL_HOME when set,
// otherwise ~/.config/ai-terminal-tool.
func Dir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", configDirName), nil
}

// Path returns the config file path inside Dir.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}
