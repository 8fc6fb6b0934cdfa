// Package perplexity implements the provider adapter for Perplexity's
// OpenAI-compatible chat completions API.
package perplexity

import (
	"context"
	"net/http"
	"os"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

const (
	defaultBaseURL      = "https://api.perplexity.ai"
	completionsEndpoint = "/chat/completions"
)

func init() {
	provider.Register(New())
}

// Adapter talks to Perplexity's chat completions API. The wire shape is
// OpenAI-compatible; only the endpoint, auth realm, and model list differ.
type Adapter struct {
	baseURL string
	client  *http.Client
}

// New returns an Adapter using the standard endpoint. PERPLEXITY_API_BASE_URL
// overrides the base URL.
func New() *Adapter {
	baseURL := os.Getenv("PERPLEXITY_API_BASE_URL")
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

func (a *Adapter) ID() provider.ID { return provider.Perplexity }

func (a *Adapter) Name() string { return "Perplexity" }

// Models returns the selectable models in display order.
func (a *Adapter) Models() []provider.Model {
	return []provider.Model{
		{ID: "llama-3.1-sonar-small-128k-online", Name: "Sonar Small (online)", ContextLen: 127072},
		{ID: "llama-3.1-sonar-large-128k-online", Name: "Sonar Large (online)", ContextLen: 127072},
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
	} `json:"choices"`
}

// Send implements provider.Adapter.
func (a *Adapter) Send(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	body := chatCompletionRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
	}
	for _, m := range req.History {
		body.Messages = append(body.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, status, err := provider.PostJSON[chatCompletionResponse](
		ctx, a.client, provider.Perplexity, a.baseURL+completionsEndpoint, body,
		provider.Header{Key: "Authorization", Value: "Bearer " + req.Credential},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.Error{
			Kind:     provider.KindMalformedResponse,
			Provider: provider.Perplexity,
			Status:   status,
			Message:  "response contained no choices",
		}
	}
	return &provider.ChatResponse{Text: resp.Choices[0].Message.Content, Status: status}, nil
}
