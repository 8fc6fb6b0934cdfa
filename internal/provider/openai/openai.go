// Package openai implements the provider adapter for OpenAI's Chat
// Completions API.
package openai

import (
	"context"
	"net/http"
	"os"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	completionsEndpoint = "/chat/completions"
)

func init() {
	provider.Register(New())
}

// Adapter talks to OpenAI's Chat Completions API.
type Adapter struct {
	baseURL string
	client  *http.Client
}

// New returns an Adapter using the standard endpoint. OPENAI_API_BASE_URL
// overrides the base URL for proxies and local test endpoints.
func New() *Adapter {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
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

func (a *Adapter) ID() provider.ID { return provider.OpenAI }

func (a *Adapter) Name() string { return "OpenAI" }

// Models returns the selectable models in display order.
func (a *Adapter) Models() []provider.Model {
	return []provider.Model{
		{ID: "gpt-4o", Name: "GPT-4o", ContextLen: 128000},
		{ID: "gpt-4o-mini", Name: "GPT-4o mini", ContextLen: 128000},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", ContextLen: 16385},
	}
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Send implements provider.Adapter. The full history maps 1:1 onto the
// messages array; OpenAI uses the same role names as the normalized form.
func (a *Adapter) Send(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	body := chatCompletionRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
	}
	for _, m := range req.History {
		body.Messages = append(body.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, status, err := provider.PostJSON[chatCompletionResponse](
		ctx, a.client, provider.OpenAI, a.baseURL+completionsEndpoint, body,
		provider.Header{Key: "Authorization", Value: "Bearer " + req.Credential},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.Error{
			Kind:     provider.KindMalformedResponse,
			Provider: provider.OpenAI,
			Status:   status,
			Message:  "response contained no choices",
		}
	}
	return &provider.ChatResponse{Text: resp.Choices[0].Message.Content, Status: status}, nil
}
