package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"429", http.StatusTooManyRequests, "", KindRateLimited},
		{"rate limit in body", http.StatusOK, `{"error": "Rate limit exceeded"}`, KindRateLimited},
		{"rate_limit code", http.StatusBadRequest, `{"error": {"code": "rate_limit_exceeded"}}`, KindRateLimited},
		{"401", http.StatusUnauthorized, "invalid api key", KindAuthRejected},
		{"403", http.StatusForbidden, "", KindAuthRejected},
		{"404", http.StatusNotFound, "", KindModelUnavailable},
		{"400 naming a model", http.StatusBadRequest, `{"error": "The model gpt-9 does not exist"}`, KindModelUnavailable},
		{"400 generic", http.StatusBadRequest, "bad request", KindUnknown},
		{"500", http.StatusInternalServerError, "", KindNetworkFailure},
		{"503", http.StatusServiceUnavailable, "", KindNetworkFailure},
		{"418", http.StatusTeapot, "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.status, tt.body); got != tt.want {
				t.Errorf("classifyStatus(%d, %q) = %v, want %v", tt.status, tt.body, got, tt.want)
			}
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	if err := classifyTransport(OpenAI, context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation classified as %v, want pass-through", err)
	}

	err := classifyTransport(OpenAI, context.DeadlineExceeded)
	pe := AsError(err)
	if pe.Kind != KindNetworkFailure {
		t.Errorf("timeout kind = %v, want network failure", pe.Kind)
	}
	if pe.Message != "request timed out" {
		t.Errorf("timeout message = %q", pe.Message)
	}

	err = classifyTransport(Gemini, errors.New("connection refused"))
	if pe := AsError(err); pe.Kind != KindNetworkFailure || pe.Provider != Gemini {
		t.Errorf("transport error = %+v, want gemini network failure", pe)
	}
}

func TestRetryable(t *testing.T) {
	retryable := map[ErrorKind]bool{
		KindRateLimited:       true,
		KindNetworkFailure:    true,
		KindAuthRejected:      false,
		KindModelUnavailable:  false,
		KindMalformedResponse: false,
		KindUnknown:           false,
	}
	for kind, want := range retryable {
		if got := kind.Retryable(); got != want {
			t.Errorf("%v.Retryable() = %v, want %v", kind, got, want)
		}
	}
}

func TestAsError(t *testing.T) {
	classified := &Error{Kind: KindAuthRejected, Provider: Anthropic}
	if got := AsError(classified); got != classified {
		t.Error("AsError() did not return the classified error")
	}
	wrapped := AsError(errors.New("something odd"))
	if wrapped.Kind != KindUnknown || wrapped.Message != "something odd" {
		t.Errorf("AsError() of plain error = %+v", wrapped)
	}
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	if got := retryAfter(h); got != 0 {
		t.Errorf("retryAfter(absent) = %v, want 0", got)
	}
	h.Set("Retry-After", "30")
	if got := retryAfter(h); got != 30*time.Second {
		t.Errorf("retryAfter(30) = %v, want 30s", got)
	}
	h.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
	if got := retryAfter(h); got != 0 {
		t.Errorf("retryAfter(http-date) = %v, want 0", got)
	}
	h.Set("Retry-After", "-5")
	if got := retryAfter(h); got != 0 {
		t.Errorf("retryAfter(-5) = %v, want 0", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 20); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("truncate() = %q", got)
	}
}
