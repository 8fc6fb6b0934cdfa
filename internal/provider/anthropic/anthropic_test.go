package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

func TestSend(t *testing.T) {
	var gotKey, gotVersion string
	var gotBody messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"content": [{"type": "text", "text": "Hello!"}], "stop_reason": "end_turn"}`))
	}))
	defer srv.Close()

	a := New().WithBaseURL(srv.URL)
	resp, err := a.Send(context.Background(), provider.ChatRequest{
		Model: "claude-3-5-sonnet-20241022",
		History: []provider.Message{
			{Role: provider.RoleUser, Content: "Hi"},
			{Role: provider.RoleAssistant, Content: "Hello"},
			{Role: provider.RoleUser, Content: "Hi again"},
		},
		Credential: "sk-ant-test",
		MaxTokens:  500,
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.Text != "Hello!" {
		t.Errorf("Text = %q, want Hello!", resp.Text)
	}
	if gotKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != apiVersion {
		t.Errorf("anthropic-version = %q, want %s", gotVersion, apiVersion)
	}
	if gotBody.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", gotBody.MaxTokens)
	}
	if len(gotBody.Messages) != 3 || gotBody.Messages[1].Role != "assistant" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
}

func TestSendDefaultsMaxTokens(t *testing.T) {
	var gotBody messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))
	defer srv.Close()

	a := New().WithBaseURL(srv.URL)
	if _, err := a.Send(context.Background(), provider.ChatRequest{Model: "m", Credential: "k"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotBody.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d, want the 1024 fallback", gotBody.MaxTokens)
	}
}

func TestSendSkipsNonTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": [{"type": "thinking", "text": "hmm"}, {"type": "text", "text": "answer"}]}`))
	}))
	defer srv.Close()

	a := New().WithBaseURL(srv.URL)
	resp, err := a.Send(context.Background(), provider.ChatRequest{Model: "m", Credential: "k"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.Text != "answer" {
		t.Errorf("Text = %q, want answer", resp.Text)
	}
}

func TestSendNoTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	a := New().WithBaseURL(srv.URL)
	_, err := a.Send(context.Background(), provider.ChatRequest{Model: "m", Credential: "k"})
	if perr := provider.AsError(err); perr.Kind != provider.KindMalformedResponse {
		t.Errorf("Kind = %v, want malformed response", perr.Kind)
	}
}

func TestSendAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer srv.Close()

	a := New().WithBaseURL(srv.URL)
	_, err := a.Send(context.Background(), provider.ChatRequest{Model: "m", Credential: "bad"})
	perr := provider.AsError(err)
	if perr.Kind != provider.KindAuthRejected {
		t.Errorf("Kind = %v, want auth rejected", perr.Kind)
	}
	if perr.Provider != provider.Anthropic {
		t.Errorf("Provider = %s, want anthropic", perr.Provider)
	}
}
