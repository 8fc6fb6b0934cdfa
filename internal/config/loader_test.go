package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	want := Default()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("LoadFrom() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{
  "defaultProvider": "gemini",
  "requestTimeout": "45s"
}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DefaultProvider != "gemini" {
		t.Errorf("DefaultProvider = %q, want gemini", cfg.DefaultProvider)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v, want 45s", cfg.RequestTimeout)
	}
	// Unset fields keep their defaults.
	if cfg.MaxTokens != Default().MaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", cfg.MaxTokens, Default().MaxTokens)
	}
	if cfg.ClearOnSwitch {
		t.Error("ClearOnSwitch = true, want default false")
	}
}

func TestLoadFromRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"maxTokens": -1}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want validation error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := &Config{
		DefaultProvider: "anthropic",
		ClearOnSwitch:   true,
		RequestTimeout:  time.Minute,
		MaxTokens:       2000,
		Keymap: KeymapConfig{
			Overrides: map[string]string{"ctrl+r": "clear-conversation"},
		},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("round trip = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFromMergesKeymapOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{"keymap": {"overrides": {"ctrl+x": "quit"}}}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got := cfg.Keymap.Overrides["ctrl+x"]; got != "quit" {
		t.Errorf("Overrides[ctrl+x] = %q, want quit", got)
	}
}

func TestDirHonorsEnvOverride(t *testing.T) {
	override := t.TempDir()
	t.Setenv(EnvHome, override)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if dir != override {
		t.Errorf("Dir() = %q, want %q", dir, override)
	}
}
