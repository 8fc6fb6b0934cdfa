// Package session owns the conversation state machine: the active
// provider/model selection, the transcript, credential presence, and the
// lifecycle of the single in-flight request. All mutation funnels through
// the controller's methods; callers run on one logical thread (the UI event
// loop) and execute Calls on their own scheduler, feeding results back via
// Resolve.
package session

import (
	"errors"
	"time"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

// Status is the controller state.
type Status int

const (
	Idle Status = iota
	AwaitingResponse
	Cancelling
)

// String returns the status-line label for the state.
func (s Status) String() string {
	switch s {
	case AwaitingResponse:
		return "AwaitingResponse"
	case Cancelling:
		return "Cancelling"
	default:
		return "Ready"
	}
}

// Role tags a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
	RoleNote      Role = "note"
)

// Turn is one immutable transcript entry.
type Turn struct {
	ID       string
	Role     Role
	Text     string
	Time     time.Time
	Provider provider.ID // set on assistant turns
	Model    string      // set on assistant turns
}

// Local precondition violations. These never leave the controller's caller
// and cause no state change.
var (
	ErrBusy         = errors.New("a request is in flight")
	ErrInvalidModel = errors.New("model does not belong to the current provider")
	ErrNotReady     = errors.New("not ready to send")
	ErrNoProvider   = errors.New("unknown provider")
	ErrEmptySecret  = errors.New("credential must not be empty")
)

// CredentialStore is the slice of the credential layer the controller
// needs. *credstore.Store satisfies it.
type CredentialStore interface {
	Save(id provider.ID, secret string) error
	Load(id provider.ID) (secret string, ok bool, err error)
	Clear(id provider.ID) error
}

// Snapshot is an immutable view of session state for rendering.
type Snapshot struct {
	Status        Status
	Provider      provider.ID
	ProviderName  string
	Model         provider.Model
	HasCredential bool
	Warning       string // persistent credential-store warning, "" if none
	LastError     string // last surfaced failure, "" if none
	Turns         []Turn
}

// Options tune controller behavior.
type Options struct {
	// ClearOnSwitch empties the transcript on provider or model switch
	// instead of annotating it with a note turn.
	ClearOnSwitch bool
	// RequestTimeout bounds each provider call; expiry surfaces as a
	// network failure. Defaults to 30s.
	RequestTimeout time.Duration
	// MaxTokens caps reply length, 0 for provider default.
	MaxTokens int
	// RetryBackoff is the floor delay before the single automatic retry.
	// A Retry-After hint from the provider takes precedence when longer.
	// Defaults to 2s.
	RetryBackoff time.Duration
}
