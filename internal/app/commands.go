package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
	"github.com/subhobhai943/ai-terminal-tool/internal/session"
)

// responseMsg carries the outcome of one adapter call back into the Update
// loop. Gen lets the controller discard results from abandoned requests.
type responseMsg struct {
	gen  uint64
	resp *provider.ChatResponse
	err  error
}

// runCall executes a session call off the UI loop and delivers its result
// as a message. This is the only place adapter work leaves the Update
// thread; all state mutation stays inside Update via Resolve.
func runCall(call *session.Call) tea.Cmd {
	return func() tea.Msg {
		resp, err := call.Run()
		return responseMsg{gen: call.Gen, resp: resp, err: err}
	}
}
