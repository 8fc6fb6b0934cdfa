package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/subhobhai943/ai-terminal-tool/internal/session"
	"github.com/subhobhai943/ai-terminal-tool/internal/styles"
)

const (
	minWidth  = 60
	minHeight = 16
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		warn := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ErrorTurn.Render(warn))
	}

	snap := m.ctrl.Snapshot()

	sidebar := m.renderSidebar(snap)
	main := m.renderMain()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	if m.showQuitConfirm {
		return m.renderQuitConfirm()
	}
	return body + "\n" + m.renderStatusLine(snap)
}

// renderSidebar draws the provider list, model list, key input, and the
// session info block.
func (m Model) renderSidebar(snap session.Snapshot) string {
	width := m.width*3/10 - 4
	if width < 20 {
		width = 20
	}

	var providers strings.Builder
	providers.WriteString(styles.PanelHeader.Render("AI Provider") + "\n")
	for i, a := range m.reg.Providers() {
		line := "  " + a.Name()
		if a.ID() == snap.Provider {
			line = "* " + a.Name()
		}
		style := styles.ListItem
		if m.focus == focusProviders && i == m.providerCursor {
			style = styles.ListSelected
		}
		providers.WriteString(style.Render(line) + "\n")
	}

	var models strings.Builder
	models.WriteString(styles.PanelHeader.Render("Model") + "\n")
	for i, mod := range m.reg.ModelsFor(snap.Provider) {
		line := "  " + mod.ID
		if mod.ID == snap.Model.ID {
			line = "* " + mod.ID
		}
		if hint := contextHint(mod.ContextLen); hint != "" {
			line += " " + hint
		}
		style := styles.ListItem
		if m.focus == focusModels && i == m.modelCursor {
			style = styles.ListSelected
		}
		models.WriteString(style.Render(runewidth.Truncate(line, width, "…")) + "\n")
	}

	keyStatus := "✗ Not set"
	if snap.HasCredential {
		keyStatus = "✓ Configured"
	}
	info := fmt.Sprintf("Provider: %s\nModel: %s\nAPI Key: %s",
		snap.ProviderName, snap.Model.ID, keyStatus)

	sections := []string{
		m.panel(providers.String(), width, m.focus == focusProviders),
		m.panel(models.String(), width, m.focus == focusModels),
		m.panel(styles.PanelHeader.Render("API Key")+"\n"+m.keyInput.View(), width, m.focus == focusKey),
		m.panel(styles.Muted.Render(info), width, false),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMain draws the transcript viewport and the message input.
func (m Model) renderMain() string {
	width := m.transcript.Width

	transcript := m.panel(m.transcript.View(), width, m.focus == focusTranscript)
	input := m.panel(m.msgInput.View(), width, m.focus == focusMessage)
	return lipgloss.JoinVertical(lipgloss.Left, transcript, input)
}

// renderStatusLine draws the single status line: session state, spinner,
// persistent warnings, and transient toasts.
func (m Model) renderStatusLine(snap session.Snapshot) string {
	var parts []string

	switch snap.Status {
	case session.AwaitingResponse:
		parts = append(parts, m.spin.View()+styles.StatusBusy.Render("AwaitingResponse"))
	case session.Cancelling:
		parts = append(parts, m.spin.View()+styles.StatusBusy.Render("Cancelling"))
	default:
		if snap.LastError != "" {
			parts = append(parts, styles.StatusError.Render("Error: "+snap.LastError))
		} else {
			parts = append(parts, styles.StatusReady.Render("Ready"))
		}
	}

	if snap.Warning != "" {
		parts = append(parts, styles.StatusWarning.Render("⚠ "+snap.Warning))
	}
	if m.statusMsg != "" {
		style := styles.StatusBar
		if m.statusIsError {
			style = styles.StatusError
		}
		parts = append(parts, style.Render(m.statusMsg))
	}

	line := strings.Join(parts, "  ")
	return " " + runewidth.Truncate(line, m.width-2, "…")
}

// renderQuitConfirm draws the quit confirmation prompt.
func (m Model) renderQuitConfirm() string {
	box := styles.PanelActive.Render("Quit? (y/n)")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// contextHint formats a model's context window as a short suffix like
// "[128k]". Zero means unknown and renders nothing.
func contextHint(tokens int) string {
	if tokens <= 0 {
		return ""
	}
	if tokens >= 1000 {
		return fmt.Sprintf("[%dk]", tokens/1000)
	}
	return fmt.Sprintf("[%d]", tokens)
}

// panel wraps content in an active or inactive bordered panel.
func (m Model) panel(content string, width int, active bool) string {
	style := styles.PanelInactive
	if active {
		style = styles.PanelActive
	}
	return style.Width(width).Render(strings.TrimRight(content, "\n"))
}

// refreshTranscript re-renders the transcript into the viewport and keeps
// the newest turn visible.
func (m *Model) refreshTranscript() {
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
}

// renderTranscript formats the transcript, role-tagged, with assistant
// turns rendered as markdown.
func (m *Model) renderTranscript() string {
	snap := m.ctrl.Snapshot()
	if len(snap.Turns) == 0 {
		return styles.Title.Render("ai-terminal-tool") + "\n\n" +
			styles.Muted.Render("Welcome! Select an AI provider and enter your API key to get started.")
	}

	var b strings.Builder
	for _, t := range snap.Turns {
		switch t.Role {
		case session.RoleUser:
			b.WriteString(styles.UserTurn.Render("You") + "\n")
			b.WriteString(t.Text + "\n\n")
		case session.RoleAssistant:
			label := string(t.Provider)
			if a, ok := m.reg.AdapterFor(t.Provider); ok {
				label = a.Name()
			}
			b.WriteString(styles.AssistantTurn.Render(label) + "\n")
			b.WriteString(m.renderMarkdown(t.Text) + "\n")
		case session.RoleError:
			b.WriteString(styles.ErrorTurn.Render("Error: "+t.Text) + "\n\n")
		case session.RoleNote:
			b.WriteString(styles.NoteTurn.Render("— "+t.Text+" —") + "\n\n")
		}
	}
	return b.String()
}

// renderMarkdown renders assistant text through glamour, falling back to
// the raw text when rendering fails.
func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text + "\n"
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}
