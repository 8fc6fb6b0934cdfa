package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind classifies provider failures. The session controller acts on
// this classification, never on the raw provider error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuthRejected
	KindRateLimited
	KindModelUnavailable
	KindNetworkFailure
	KindMalformedResponse
)

// String returns a human-readable label for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthRejected:
		return "auth rejected"
	case KindRateLimited:
		return "rate limited"
	case KindModelUnavailable:
		return "model unavailable"
	case KindNetworkFailure:
		return "network failure"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown error"
	}
}

// Retryable reports whether the kind is eligible for the controller's
// single automatic retry.
func (k ErrorKind) Retryable() bool {
	return k == KindRateLimited || k == KindNetworkFailure
}

// Error is a classified provider failure.
type Error struct {
	Kind       ErrorKind
	Provider   ID
	Status     int           // raw HTTP status, 0 for transport errors
	Message    string        // truncated provider error text
	RetryAfter time.Duration // from Retry-After on 429, 0 if absent
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// AsError extracts a classified *Error from err. Unclassified errors come
// back wrapped as KindUnknown so callers always have a kind to act on.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: KindUnknown, Message: err.Error()}
}

// classifyStatus maps an HTTP error status and response body to an
// ErrorKind. Body matching catches providers that report rate limits or
// missing models with generic statuses.
func classifyStatus(status int, body string) ErrorKind {
	lower := strings.ToLower(body)

	if status == http.StatusTooManyRequests ||
		strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests") {
		return KindRateLimited
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthRejected
	case http.StatusNotFound:
		return KindModelUnavailable
	case http.StatusBadRequest:
		if strings.Contains(lower, "model") {
			return KindModelUnavailable
		}
		return KindUnknown
	}
	if status >= 500 {
		return KindNetworkFailure
	}
	return KindUnknown
}

// classifyTransport maps a transport-level error (no HTTP response) to a
// classified Error. Context cancellation is passed through untouched so the
// controller can tell a user cancel from a genuine network failure.
func classifyTransport(id ID, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := KindNetworkFailure
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return &Error{Kind: kind, Provider: id, Message: msg}
}

// retryAfter parses a Retry-After header value in seconds. HTTP-date values
// are ignored; providers here use the delta-seconds form.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// truncate shortens provider error bodies for display.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
