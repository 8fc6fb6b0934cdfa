package app

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/subhobhai943/ai-terminal-tool/internal/config"
	"github.com/subhobhai943/ai-terminal-tool/internal/keymap"
	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
	"github.com/subhobhai943/ai-terminal-tool/internal/session"
	"github.com/subhobhai943/ai-terminal-tool/internal/styles"
)

// focusArea identifies the pane receiving keyboard input.
type focusArea int

const (
	focusProviders focusArea = iota
	focusModels
	focusKey
	focusMessage
	focusTranscript
)

// context returns the keymap context for the pane.
func (f focusArea) context() string {
	switch f {
	case focusProviders:
		return "providers"
	case focusModels:
		return "models"
	case focusKey:
		return "apikey"
	case focusMessage:
		return "message"
	case focusTranscript:
		return "transcript"
	default:
		return "global"
	}
}

// isTextInput reports whether the pane consumes printable keys.
func (f focusArea) isTextInput() bool {
	return f == focusKey || f == focusMessage
}

// Model is the root Bubble Tea model for the chat application.
type Model struct {
	cfg    *config.Config
	reg    *provider.Registry
	ctrl   *session.Controller
	keymap *keymap.Registry

	// UI state
	width, height int
	ready         bool
	focus         focusArea

	providerCursor int
	modelCursor    int

	keyInput   textinput.Model
	msgInput   textarea.Model
	transcript viewport.Model
	spin       spinner.Model
	renderer   *glamour.TermRenderer

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	showQuitConfirm bool
}

// New creates the application model around a prepared session controller.
func New(cfg *config.Config, reg *provider.Registry, ctrl *session.Controller, km *keymap.Registry) Model {
	ki := textinput.New()
	ki.Placeholder = "Enter API key..."
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '*'
	ki.CharLimit = 256

	mi := textarea.New()
	mi.Placeholder = "Type your message here..."
	mi.SetHeight(3)
	mi.ShowLineNumbers = false
	mi.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusBusy

	return Model{
		cfg:        cfg,
		reg:        reg,
		ctrl:       ctrl,
		keymap:     km,
		focus:      focusMessage,
		keyInput:   ki,
		msgInput:   mi,
		transcript: viewport.New(80, 20),
		spin:       sp,

		providerCursor: providerIndex(reg, ctrl.Snapshot().Provider),
	}
}

// Init initializes the model and returns initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick, tickCmd())
}

// setFocus moves keyboard focus to a pane, updating input focus state.
func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.keyInput.Blur()
	m.msgInput.Blur()
	switch f {
	case focusKey:
		m.keyInput.Focus()
	case focusMessage:
		m.msgInput.Focus()
	}
}

// nextFocus cycles panes forward.
func (m *Model) nextFocus() {
	m.setFocus((m.focus + 1) % (focusTranscript + 1))
}

// prevFocus cycles panes backward.
func (m *Model) prevFocus() {
	if m.focus == 0 {
		m.setFocus(focusTranscript)
		return
	}
	m.setFocus(m.focus - 1)
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(message string, duration time.Duration, isError bool) {
	m.statusMsg = message
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// providerIndex finds the display index of a provider id.
func providerIndex(reg *provider.Registry, id provider.ID) int {
	for i, a := range reg.Providers() {
		if a.ID() == id {
			return i
		}
	}
	return 0
}
