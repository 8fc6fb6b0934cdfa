package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subhobhai943/ai-terminal-tool/internal/config"
	"github.com/subhobhai943/ai-terminal-tool/internal/keymap"
	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
	"github.com/subhobhai943/ai-terminal-tool/internal/session"
)

type fakeAdapter struct {
	id     provider.ID
	name   string
	models []provider.Model
	resp   *provider.ChatResponse
	err    error
}

func (f *fakeAdapter) ID() provider.ID          { return f.id }
func (f *fakeAdapter) Name() string             { return f.name }
func (f *fakeAdapter) Models() []provider.Model { return f.models }

func (f *fakeAdapter) Send(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	return f.resp, f.err
}

type memCreds struct {
	secrets map[provider.ID]string
}

func (m *memCreds) Save(id provider.ID, secret string) error {
	m.secrets[id] = secret
	return nil
}

func (m *memCreds) Load(id provider.ID) (string, bool, error) {
	s, ok := m.secrets[id]
	return s, ok, nil
}

func (m *memCreds) Clear(id provider.ID) error {
	delete(m.secrets, id)
	return nil
}

func newTestModel(t *testing.T) (Model, *session.Controller) {
	t.Helper()
	reg := provider.NewRegistry(
		&fakeAdapter{
			id:     provider.OpenAI,
			name:   "OpenAI",
			models: []provider.Model{{ID: "gpt-4o", ContextLen: 128000}},
			resp:   &provider.ChatResponse{Text: "ok"},
		},
		&fakeAdapter{
			id:     provider.Anthropic,
			name:   "Claude",
			models: []provider.Model{{ID: "claude-3-5-sonnet-20241022", ContextLen: 200000}},
			resp:   &provider.ChatResponse{Text: "ok"},
		},
	)
	creds := &memCreds{secrets: map[provider.ID]string{provider.OpenAI: "sk-test"}}
	ctrl, err := session.New(reg, creds, provider.OpenAI, session.Options{})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)

	m := New(config.Default(), reg, ctrl, km)
	m.width = 100
	m.height = 30
	m.ready = true
	m.layout()
	return m, ctrl
}

func TestStatusLineReflectsControllerStates(t *testing.T) {
	m, ctrl := newTestModel(t)

	if line := m.renderStatusLine(ctrl.Snapshot()); !strings.Contains(line, "Ready") {
		t.Errorf("idle status line = %q, want Ready", line)
	}

	call, err := ctrl.Send("hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if line := m.renderStatusLine(ctrl.Snapshot()); !strings.Contains(line, "AwaitingResponse") {
		t.Errorf("busy status line = %q, want AwaitingResponse", line)
	}

	ctrl.Cancel()
	if line := m.renderStatusLine(ctrl.Snapshot()); !strings.Contains(line, "Cancelling") {
		t.Errorf("cancelling status line = %q, want Cancelling", line)
	}
	ctrl.Resolve(call.Gen, nil, context.Canceled)

	call, _ = ctrl.Send("again")
	ctrl.Resolve(call.Gen, nil, &provider.Error{Kind: provider.KindAuthRejected, Message: "bad key"})
	if line := m.renderStatusLine(ctrl.Snapshot()); !strings.Contains(line, "Error: auth rejected") {
		t.Errorf("error status line = %q, want Error: auth rejected", line)
	}
}

func TestStatusLineShowsWarningAndToast(t *testing.T) {
	m, ctrl := newTestModel(t)
	m.ShowToast("API key saved", time.Minute, false)

	snap := ctrl.Snapshot()
	snap.Warning = "credential store unreadable; saved keys were discarded"
	line := m.renderStatusLine(snap)
	if !strings.Contains(line, "credential store unreadable") {
		t.Errorf("status line = %q, want the warning", line)
	}
	if !strings.Contains(line, "API key saved") {
		t.Errorf("status line = %q, want the toast", line)
	}
}

func TestUpdateResolvesResponse(t *testing.T) {
	m, ctrl := newTestModel(t)

	call, err := ctrl.Send("What is 2+2?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	updated, cmd := m.Update(responseMsg{gen: call.Gen, resp: &provider.ChatResponse{Text: "4"}})
	if cmd != nil {
		t.Error("Update() returned a command for a final response")
	}
	m = updated.(Model)

	snap := ctrl.Snapshot()
	if snap.Status != session.Idle {
		t.Errorf("Status = %s, want Ready", snap.Status)
	}
	if !strings.Contains(m.transcript.View(), "4") {
		t.Error("transcript view missing the reply")
	}
}

func TestUpdateRunsRetryCall(t *testing.T) {
	m, ctrl := newTestModel(t)

	call, err := ctrl.Send("hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rateLimited := &provider.Error{Kind: provider.KindRateLimited, Message: "slow down"}
	_, cmd := m.Update(responseMsg{gen: call.Gen, err: rateLimited})
	if cmd == nil {
		t.Fatal("Update() returned no command, want the retry call")
	}
	if got := ctrl.Snapshot().Status; got != session.AwaitingResponse {
		t.Errorf("Status = %s, want AwaitingResponse during retry", got)
	}
}

func TestSelectProviderPersistsDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)

	m, ctrl := newTestModel(t)
	m.providerCursor = 1 // Claude

	updated, _ := m.selectProvider()
	m = updated.(Model)

	if got := ctrl.Snapshot().Provider; got != provider.Anthropic {
		t.Fatalf("Provider = %s, want anthropic", got)
	}
	if m.cfg.DefaultProvider != "anthropic" {
		t.Errorf("cfg.DefaultProvider = %q, want anthropic", m.cfg.DefaultProvider)
	}

	path, err := config.Path()
	if err != nil {
		t.Fatal(err)
	}
	saved, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if saved.DefaultProvider != "anthropic" {
		t.Errorf("persisted DefaultProvider = %q, want anthropic", saved.DefaultProvider)
	}
}

func TestQuitConfirmKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m.showQuitConfirm = true

	updated, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(Model)
	if m.showQuitConfirm {
		t.Error("showQuitConfirm = true after n, want dismissed")
	}
	if cmd != nil {
		t.Error("dismissing the prompt returned a command")
	}

	m.showQuitConfirm = true
	_, cmd = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if cmd == nil {
		t.Fatal("confirming quit returned no command")
	}
}

func TestContextHint(t *testing.T) {
	tests := []struct {
		tokens int
		want   string
	}{
		{0, ""},
		{-1, ""},
		{500, "[500]"},
		{16385, "[16k]"},
		{128000, "[128k]"},
		{2097152, "[2097k]"},
	}
	for _, tt := range tests {
		if got := contextHint(tt.tokens); got != tt.want {
			t.Errorf("contextHint(%d) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}
