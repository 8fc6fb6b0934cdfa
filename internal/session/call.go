package session

import (
	"context"
	"time"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

// Call is one scheduled adapter invocation. The controller produces it; the
// caller runs it on its own scheduler (in the TUI, a tea.Cmd goroutine) and
// feeds the outcome back through Resolve with the call's generation.
type Call struct {
	// Gen identifies the request generation this call belongs to. Resolve
	// discards results whose generation has been superseded.
	Gen uint64
	// Delay postpones execution (retry backoff). Zero runs immediately.
	Delay time.Duration

	ctx     context.Context
	timeout time.Duration
	adapter provider.Adapter
	req     provider.ChatRequest
}

// Run waits out the delay, then executes the adapter call under the
// session's cancellation context and the per-request timeout. A cancel
// during the delay returns immediately with the context error.
func (c *Call) Run() (*provider.ChatResponse, error) {
	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		select {
		case <-c.ctx.Done():
			timer.Stop()
			return nil, c.ctx.Err()
		case <-timer.C:
		}
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()
	return c.adapter.Send(ctx, c.req)
}

// newCall captures the outbound request for the current generation. The
// history snapshot includes only user and assistant turns; error and note
// turns never reach a provider.
func (c *Controller) newCall(ctx context.Context, adapter provider.Adapter, secret string, delay time.Duration) *Call {
	var history []provider.Message
	for _, t := range c.turns {
		switch t.Role {
		case RoleUser:
			history = append(history, provider.Message{Role: provider.RoleUser, Content: t.Text})
		case RoleAssistant:
			history = append(history, provider.Message{Role: provider.RoleAssistant, Content: t.Text})
		}
	}

	call := &Call{
		Gen:     c.gen,
		Delay:   delay,
		ctx:     ctx,
		timeout: c.opts.RequestTimeout,
		adapter: adapter,
		req: provider.ChatRequest{
			Model:      c.model.ID,
			History:    history,
			Credential: secret,
			MaxTokens:  c.opts.MaxTokens,
		},
	}
	c.pending = call
	return call
}

// retryCall clones the pending call with a backoff delay. The provider's
// Retry-After hint wins when it exceeds the configured floor.
func (c *Controller) retryCall(retryAfter time.Duration) *Call {
	if c.pending == nil || c.pending.ctx.Err() != nil {
		return nil
	}
	delay := c.opts.RetryBackoff
	if retryAfter > delay {
		delay = retryAfter
	}
	retry := *c.pending
	retry.Delay = delay
	c.pending = &retry
	return &retry
}
