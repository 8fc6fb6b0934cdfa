package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

// Controller is the session state machine. It is not safe for concurrent
// use; every method must be called from the same logical thread. The only
// concurrency is the Call produced by Send/Resolve, which runs elsewhere
// and re-enters through Resolve tagged with its generation.
type Controller struct {
	reg   *provider.Registry
	creds CredentialStore
	opts  Options

	status     Status
	providerID provider.ID
	model      provider.Model
	turns      []Turn

	hasCred bool
	warning string
	lastErr string

	gen     uint64
	attempt int
	cancel  context.CancelFunc
	pending *Call
}

// New builds a controller focused on the given provider (falling back to
// the registry's first provider when the id is unknown) with that
// provider's first model selected and its credential presence probed.
func New(reg *provider.Registry, creds CredentialStore, initial provider.ID, opts Options) (*Controller, error) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}

	c := &Controller{reg: reg, creds: creds, opts: opts}

	if _, ok := reg.AdapterFor(initial); !ok {
		providers := reg.Providers()
		if len(providers) == 0 {
			return nil, errors.New("no providers registered")
		}
		initial = providers[0].ID()
	}
	c.providerID = initial
	model, ok := reg.FirstModel(initial)
	if !ok {
		return nil, fmt.Errorf("provider %s has no models", initial)
	}
	c.model = model
	c.probeCredential()
	return c, nil
}

// Snapshot returns a copy of the observable session state.
func (c *Controller) Snapshot() Snapshot {
	name := string(c.providerID)
	if a, ok := c.reg.AdapterFor(c.providerID); ok {
		name = a.Name()
	}
	turns := make([]Turn, len(c.turns))
	copy(turns, c.turns)
	return Snapshot{
		Status:        c.status,
		Provider:      c.providerID,
		ProviderName:  name,
		Model:         c.model,
		HasCredential: c.hasCred,
		Warning:       c.warning,
		LastError:     c.lastErr,
		Turns:         turns,
	}
}

// SelectProvider switches the active provider and atomically reselects its
// first model, so the model always belongs to the current provider by the
// time the state is observable. Valid in Idle only.
func (c *Controller) SelectProvider(id provider.ID) error {
	if c.status != Idle {
		return ErrBusy
	}
	if id == c.providerID {
		return nil
	}
	adapter, ok := c.reg.AdapterFor(id)
	if !ok {
		return ErrNoProvider
	}
	model, ok := c.reg.FirstModel(id)
	if !ok {
		return ErrNoProvider
	}

	c.providerID = id
	c.model = model
	c.probeCredential()
	c.applySwitchPolicy(fmt.Sprintf("Switched to %s (%s)", adapter.Name(), model.ID))
	return nil
}

// SelectModel switches the active model. Valid in Idle only; fails with
// ErrInvalidModel when the model does not belong to the current provider.
func (c *Controller) SelectModel(modelID string) error {
	if c.status != Idle {
		return ErrBusy
	}
	if modelID == c.model.ID {
		return nil
	}
	if !c.reg.HasModel(c.providerID, modelID) {
		return ErrInvalidModel
	}
	for _, m := range c.reg.ModelsFor(c.providerID) {
		if m.ID == modelID {
			c.model = m
			break
		}
	}
	c.applySwitchPolicy(fmt.Sprintf("Switched model to %s", modelID))
	return nil
}

// SaveCredential stores a secret for the current provider. Valid in Idle
// only. Clears any store-corruption warning once the save succeeds.
func (c *Controller) SaveCredential(secret string) error {
	if c.status != Idle {
		return ErrBusy
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrEmptySecret
	}
	if err := c.creds.Save(c.providerID, secret); err != nil {
		return err
	}
	c.hasCred = true
	c.warning = ""
	return nil
}

// ClearCredential removes the current provider's stored secret. Valid in
// Idle only; idempotent.
func (c *Controller) ClearCredential() error {
	if c.status != Idle {
		return ErrBusy
	}
	if err := c.creds.Clear(c.providerID); err != nil {
		return err
	}
	c.hasCred = false
	return nil
}

// Send validates preconditions, appends the user turn, moves to
// AwaitingResponse, and returns the single Call to execute. Exactly one
// call is ever outstanding: no transition out of Idle is possible without
// the previous call resolving or being cancelled first.
func (c *Controller) Send(text string) (*Call, error) {
	if c.status != Idle {
		return nil, ErrBusy
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrNotReady)
	}
	if !c.hasCred {
		return nil, fmt.Errorf("%w: no API key saved for this provider", ErrNotReady)
	}
	secret, ok, err := c.creds.Load(c.providerID)
	if err != nil || !ok {
		c.hasCred = false
		c.noteCorruption(err)
		return nil, fmt.Errorf("%w: no API key saved for this provider", ErrNotReady)
	}
	adapter, ok := c.reg.AdapterFor(c.providerID)
	if !ok {
		return nil, ErrNoProvider
	}

	c.append(Turn{Role: RoleUser, Text: text})
	c.status = AwaitingResponse
	c.lastErr = ""
	c.gen++
	c.attempt = 0

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	return c.newCall(ctx, adapter, secret, 0), nil
}

// Cancel requests cancellation of the in-flight call. The transition to
// Idle happens when the abandoned call resolves and Resolve observes the
// Cancelling state; any payload it carries is discarded.
func (c *Controller) Cancel() bool {
	if c.status != AwaitingResponse {
		return false
	}
	c.status = Cancelling
	if c.cancel != nil {
		c.cancel()
	}
	return true
}

// Resolve feeds a call result back into the state machine. Results from
// superseded generations are discarded without any state change. The
// returned Call, when non-nil, is the single automatic retry and must be
// executed like the original.
func (c *Controller) Resolve(gen uint64, resp *provider.ChatResponse, err error) *Call {
	if gen != c.gen {
		return nil
	}

	switch c.status {
	case Cancelling:
		c.finishCall()
		c.append(Turn{Role: RoleError, Text: "Request cancelled"})
		c.lastErr = "cancelled"
		c.status = Idle
		return nil
	case AwaitingResponse:
		// proceed
	default:
		return nil
	}

	if err == nil && resp != nil {
		c.finishCall()
		c.append(Turn{
			Role:     RoleAssistant,
			Text:     resp.Text,
			Provider: c.providerID,
			Model:    c.model.ID,
		})
		c.status = Idle
		return nil
	}
	if err == nil {
		err = errors.New("adapter returned no response")
	}

	perr := provider.AsError(err)
	if perr.Kind.Retryable() && c.attempt == 0 {
		if retry := c.retryCall(perr.RetryAfter); retry != nil {
			c.attempt = 1
			return retry
		}
	}

	c.finishCall()
	c.append(Turn{Role: RoleError, Text: perr.Kind.String() + ": " + perr.Message})
	c.lastErr = perr.Kind.String()
	c.status = Idle
	return nil
}

// ClearTranscript empties the transcript. Valid in Idle only.
func (c *Controller) ClearTranscript() error {
	if c.status != Idle {
		return ErrBusy
	}
	c.turns = nil
	c.lastErr = ""
	return nil
}

// LastAssistantText returns the most recent assistant turn's text.
func (c *Controller) LastAssistantText() (string, bool) {
	for i := len(c.turns) - 1; i >= 0; i-- {
		if c.turns[i].Role == RoleAssistant {
			return c.turns[i].Text, true
		}
	}
	return "", false
}

func (c *Controller) applySwitchPolicy(note string) {
	if c.opts.ClearOnSwitch {
		c.turns = nil
		return
	}
	if len(c.turns) > 0 {
		c.append(Turn{Role: RoleNote, Text: note})
	}
}

func (c *Controller) probeCredential() {
	_, ok, err := c.creds.Load(c.providerID)
	c.hasCred = ok
	c.noteCorruption(err)
}

func (c *Controller) noteCorruption(err error) {
	if err == nil {
		return
	}
	c.hasCred = false
	c.warning = "credential store unreadable; saved keys were discarded"
}

func (c *Controller) append(t Turn) {
	t.ID = uuid.NewString()
	if t.Time.IsZero() {
		t.Time = time.Now()
	}
	c.turns = append(c.turns, t)
}

func (c *Controller) finishCall() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pending = nil
}
