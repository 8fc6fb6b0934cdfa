package app

import (
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/subhobhai943/ai-terminal-tool/internal/config"
	"github.com/subhobhai943/ai-terminal-tool/internal/msg"
	"github.com/subhobhai943/ai-terminal-tool/internal/session"
)

// tickMsg is sent on each clock tick to expire toasts.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.layout()
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case tickMsg:
		m.ClearToast()
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(message)
		return m, cmd

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		return m, nil

	case responseMsg:
		if retry := m.ctrl.Resolve(message.gen, message.resp, message.err); retry != nil {
			return m, runCall(retry)
		}
		m.refreshTranscript()
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes keyboard input: quit confirmation first, then the
// keymap for the focused pane, then the focused text input.
func (m Model) handleKeyMsg(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showQuitConfirm {
		switch key.String() {
		case "y", "enter":
			return m, tea.Quit
		case "n", "esc":
			m.showQuitConfirm = false
			return m, nil
		}
		return m, nil
	}

	keyStr := key.String()

	// Printable keys belong to a focused text input; only chorded and
	// special keys go through the keymap there.
	if !m.focus.isTextInput() || len(keyStr) > 1 {
		if command, ok := m.keymap.Lookup(m.focus.context(), keyStr); ok {
			return m.execCommand(command)
		}
	}

	return m.forwardToInput(key)
}

// execCommand performs one named keymap command.
func (m Model) execCommand(command string) (tea.Model, tea.Cmd) {
	switch command {
	case "quit":
		m.showQuitConfirm = true
		return m, nil

	case "next-pane":
		m.nextFocus()
		return m, nil

	case "prev-pane":
		m.prevFocus()
		return m, nil

	case "cancel":
		if m.ctrl.Cancel() {
			m.refreshTranscript()
		}
		return m, nil

	case "clear-conversation":
		if err := m.ctrl.ClearTranscript(); err != nil {
			return m, msg.ShowError("Cannot clear while a request is in flight", 3*time.Second)
		}
		m.refreshTranscript()
		return m, msg.ShowToast("Conversation cleared", 2*time.Second)

	case "copy-reply":
		text, ok := m.ctrl.LastAssistantText()
		if !ok {
			return m, msg.ShowError("No reply to copy", 2*time.Second)
		}
		if err := clipboard.WriteAll(text); err != nil {
			return m, msg.ShowError("Copy failed: "+err.Error(), 3*time.Second)
		}
		return m, msg.ShowToast("Copied last reply", 2*time.Second)

	case "cursor-down", "cursor-up":
		m.moveCursor(command == "cursor-down")
		return m, nil

	case "select-provider":
		return m.selectProvider()

	case "select-model":
		return m.selectModel()

	case "save-key":
		return m.saveKey()

	case "send":
		return m.sendMessage()

	case "scroll-down":
		m.transcript.LineDown(1)
		return m, nil
	case "scroll-up":
		m.transcript.LineUp(1)
		return m, nil
	case "page-down":
		m.transcript.HalfViewDown()
		return m, nil
	case "page-up":
		m.transcript.HalfViewUp()
		return m, nil
	}

	return m, nil
}

// forwardToInput passes a key to the focused text input.
func (m Model) forwardToInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusKey:
		m.keyInput, cmd = m.keyInput.Update(key)
	case focusMessage:
		m.msgInput, cmd = m.msgInput.Update(key)
	}
	return m, cmd
}

// moveCursor moves the provider or model list cursor.
func (m *Model) moveCursor(down bool) {
	delta := -1
	if down {
		delta = 1
	}
	switch m.focus {
	case focusProviders:
		m.providerCursor = clamp(m.providerCursor+delta, 0, len(m.reg.Providers())-1)
	case focusModels:
		models := m.reg.ModelsFor(m.ctrl.Snapshot().Provider)
		m.modelCursor = clamp(m.modelCursor+delta, 0, len(models)-1)
	}
}

func (m Model) selectProvider() (tea.Model, tea.Cmd) {
	providers := m.reg.Providers()
	if m.providerCursor >= len(providers) {
		return m, nil
	}
	adapter := providers[m.providerCursor]
	if err := m.ctrl.SelectProvider(adapter.ID()); err != nil {
		return m, msg.ShowError(err.Error(), 3*time.Second)
	}
	m.modelCursor = 0
	m.refreshTranscript()

	// Remember the choice for the next start.
	m.cfg.DefaultProvider = string(adapter.ID())
	if err := config.Save(m.cfg); err != nil {
		return m, msg.ShowError("Provider: "+adapter.Name()+" (save failed: "+err.Error()+")", 3*time.Second)
	}
	return m, msg.ShowToast("Provider: "+adapter.Name(), 2*time.Second)
}

func (m Model) selectModel() (tea.Model, tea.Cmd) {
	models := m.reg.ModelsFor(m.ctrl.Snapshot().Provider)
	if m.modelCursor >= len(models) {
		return m, nil
	}
	if err := m.ctrl.SelectModel(models[m.modelCursor].ID); err != nil {
		return m, msg.ShowError(err.Error(), 3*time.Second)
	}
	m.refreshTranscript()
	return m, msg.ShowToast("Model: "+models[m.modelCursor].ID, 2*time.Second)
}

func (m Model) saveKey() (tea.Model, tea.Cmd) {
	if err := m.ctrl.SaveCredential(m.keyInput.Value()); err != nil {
		if errors.Is(err, session.ErrEmptySecret) {
			return m, msg.ShowError("Please enter an API key", 3*time.Second)
		}
		return m, msg.ShowError("Save failed: "+err.Error(), 3*time.Second)
	}
	m.keyInput.Reset()
	return m, msg.ShowToast("API key saved", 2*time.Second)
}

func (m Model) sendMessage() (tea.Model, tea.Cmd) {
	call, err := m.ctrl.Send(m.msgInput.Value())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotReady):
			return m, msg.ShowError(err.Error(), 3*time.Second)
		case errors.Is(err, session.ErrBusy):
			return m, msg.ShowError("A request is already in flight", 3*time.Second)
		}
		return m, msg.ShowError(err.Error(), 3*time.Second)
	}
	m.msgInput.Reset()
	m.refreshTranscript()
	return m, tea.Batch(runCall(call), m.spin.Tick)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// layout resizes the panes after a window size change.
func (m *Model) layout() {
	sidebarWidth := m.width * 3 / 10
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}
	mainWidth := m.width - sidebarWidth - 4

	m.keyInput.Width = sidebarWidth - 6
	m.msgInput.SetWidth(mainWidth)

	transcriptHeight := m.height - m.msgInput.Height() - 7
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	m.transcript.Width = mainWidth
	m.transcript.Height = transcriptHeight

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(mainWidth-2),
	)
	if err == nil {
		m.renderer = renderer
	}
}
