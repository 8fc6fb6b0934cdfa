// Package anthropic implements the provider adapter for Anthropic's
// Messages API.
package anthropic

import (
	"context"
	"net/http"
	"os"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	messagesEndpoint = "/messages"

	// apiVersion pins the wire format; Anthropic versions responses with
	// this header independently of the URL.
	apiVersion = "2023-06-01"
)

func init() {
	provider.Register(New())
}

// Adapter talks to Anthropic's Messages API. Authentication uses the
// x-api-key header rather than a Bearer token.
type Adapter struct {
	baseURL string
	client  *http.Client
}

// New returns an Adapter using the standard endpoint. ANTHROPIC_API_BASE_URL
// overrides the base URL.
func New() *Adapter {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{baseURL: baseURL, client: &http.Client{}}
}

// WithBaseURL overrides the API base URL.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = baseURL
	return a
}

// WithHTTPClient replaces the HTTP client used for outbound requests.
func (a *Adapter) WithHTTPClient(client *http.Client) *Adapter {
	a.client = client
	return a
}

func (a *Adapter) ID() provider.ID { return provider.Anthropic }

func (a *Adapter) Name() string { return "Claude" }

// Models returns the selectable models in display order.
func (a *Adapter) Models() []provider.Model {
	return []provider.Model{
		{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", ContextLen: 200000},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ContextLen: 200000},
		{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", ContextLen: 200000},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Send implements provider.Adapter. Anthropic requires max_tokens, so a
// missing cap falls back to a conservative default.
func (a *Adapter) Send(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	body := messagesRequest{
		Model:     req.Model,
		MaxTokens: maxTokens,
	}
	for _, m := range req.History {
		body.Messages = append(body.Messages, message{Role: string(m.Role), Content: m.Content})
	}

	resp, status, err := provider.PostJSON[messagesResponse](
		ctx, a.client, provider.Anthropic, a.baseURL+messagesEndpoint, body,
		provider.Header{Key: "x-api-key", Value: req.Credential},
		provider.Header{Key: "anthropic-version", Value: apiVersion},
	)
	if err != nil {
		return nil, err
	}

	// The first text block carries the reply; tool or thinking blocks are
	// not requested by this client.
	for _, block := range resp.Content {
		if block.Type == "text" {
			return &provider.ChatResponse{Text: block.Text, Status: status}, nil
		}
	}
	return nil, &provider.Error{
		Kind:     provider.KindMalformedResponse,
		Provider: provider.Anthropic,
		Status:   status,
		Message:  "response contained no text block",
	}
}
