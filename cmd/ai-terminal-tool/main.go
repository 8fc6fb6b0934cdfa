package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/subhobhai943/ai-terminal-tool/internal/app"
	"github.com/subhobhai943/ai-terminal-tool/internal/config"
	"github.com/subhobhai943/ai-terminal-tool/internal/credstore"
	"github.com/subhobhai943/ai-terminal-tool/internal/keymap"
	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
	_ "github.com/subhobhai943/ai-terminal-tool/internal/provider/anthropic"
	_ "github.com/subhobhai943/ai-terminal-tool/internal/provider/gemini"
	_ "github.com/subhobhai943/ai-terminal-tool/internal/provider/openai"
	_ "github.com/subhobhai943/ai-terminal-tool/internal/provider/perplexity"
	"github.com/subhobhai943/ai-terminal-tool/internal/session"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath  = flag.String("config", "", "path to config file")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("ai-terminal-tool version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Pick up API base-URL overrides from a local .env, if present.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve config directory: %v\n", err)
		os.Exit(1)
	}
	creds, err := credstore.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open credential store: %v\n", err)
		os.Exit(1)
	}

	reg := provider.Default()
	ctrl, err := session.New(reg, creds, provider.ID(cfg.DefaultProvider), session.Options{
		ClearOnSwitch:  cfg.ClearOnSwitch,
		RequestTimeout: cfg.RequestTimeout,
		MaxTokens:      cfg.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize session: %v\n", err)
		os.Exit(1)
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)

	// Apply user keymap overrides
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	model := app.New(cfg, reg, ctrl, km)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ai-terminal-tool [options]\n\n")
		fmt.Fprintf(os.Stderr, "An interactive terminal chat client for AI providers.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
