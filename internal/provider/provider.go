package provider

import "context"

// Adapter translates normalized chat requests into one provider's wire
// protocol and normalizes the result back. Implementations live in the
// per-provider subpackages and never retry; retry policy belongs to the
// session controller so UI state stays consistent across attempts.
type Adapter interface {
	ID() ID
	Name() string
	Models() []Model
	Send(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ID identifies a provider.
type ID string

const (
	OpenAI     ID = "openai"
	Anthropic  ID = "anthropic"
	Gemini     ID = "gemini"
	Perplexity ID = "perplexity"
)

// Model describes one selectable model of a provider.
type Model struct {
	ID         string // provider-scoped identifier (e.g. "gpt-4o")
	Name       string // display name
	ContextLen int    // context window hint in tokens, 0 if unknown
}

// Role is the normalized message role vocabulary. Adapters map these onto
// the provider's own role names (e.g. Gemini uses "model" for assistant).
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation entry as sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// ChatRequest is the uniform request contract. History carries the full
// transcript so far (all providers here are stateless); the adapter decides
// how to map it onto its wire envelope.
type ChatRequest struct {
	Model      string
	History    []Message
	Credential string
	MaxTokens  int
}

// ChatResponse is the uniform success result.
type ChatResponse struct {
	Text   string
	Status int // raw HTTP status from the provider
}
