// Package gemini implements the provider adapter for Google's Gemini
// generateContent API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func init() {
	provider.Register(New())
}

// Adapter talks to the Gemini generateContent API. Authentication uses the
// x-goog-api-key header; the model name is part of the URL path.
type Adapter struct {
	baseURL string
	client  *http.Client
}

// New returns an Adapter using the standard endpoint. GEMINI_API_BASE_URL
// overrides the base URL.
func New() *Adapter {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
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

func (a *Adapter) ID() provider.ID { return provider.Gemini }

func (a *Adapter) Name() string { return "Gemini" }

// Models returns the selectable models in display order.
func (a *Adapter) Models() []provider.Model {
	return []provider.Model{
		{ID: "gemini-2.0-flash-exp", Name: "Gemini 2.0 Flash (exp)", ContextLen: 1048576},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", ContextLen: 2097152},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", ContextLen: 1048576},
	}
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Send implements provider.Adapter. Role mapping: assistant turns become
// role "model"; user turns stay "user".
func (a *Adapter) Send(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	body := generateContentRequest{}
	for _, m := range req.History {
		role := "user"
		if m.Role == provider.RoleAssistant {
			role = "model"
		}
		body.Contents = append(body.Contents, content{
			Role:  role,
			Parts: []part{{Text: m.Content}},
		})
	}
	if req.MaxTokens > 0 {
		body.GenerationConfig = &generationConfig{MaxOutputTokens: req.MaxTokens}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, req.Model)
	resp, status, err := provider.PostJSON[generateContentResponse](
		ctx, a.client, provider.Gemini, url, body,
		provider.Header{Key: "x-goog-api-key", Value: req.Credential},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &provider.Error{
			Kind:     provider.KindMalformedResponse,
			Provider: provider.Gemini,
			Status:   status,
			Message:  "response contained no candidates",
		}
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return &provider.ChatResponse{Text: sb.String(), Status: status}, nil
}
