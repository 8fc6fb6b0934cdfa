package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Header is an extra request header set by an adapter (auth scheme,
// API-version pins).
type Header struct {
	Key   string
	Value string
}

// PostJSON performs one synchronous JSON POST against a provider endpoint
// and decodes a successful response into T. Failures come back as a
// classified *Error: transport errors map to NetworkFailure, non-2xx
// statuses go through status/body classification, and an undecodable 2xx
// body maps to MalformedResponse. The raw status is returned alongside the
// decoded value so adapters can surface it in ChatResponse.
func PostJSON[T any](ctx context.Context, client *http.Client, id ID, url string, body any, headers ...Header) (*T, int, error) {
	if client == nil {
		client = http.DefaultClient
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, 0, classifyTransport(id, err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			slog.Warn("failed to close response body", "provider", id, "err", cerr)
		}
	}()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, classifyTransport(id, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, res.StatusCode, &Error{
			Kind:       classifyStatus(res.StatusCode, string(respBody)),
			Provider:   id,
			Status:     res.StatusCode,
			Message:    truncate(string(respBody), 300),
			RetryAfter: retryAfter(res.Header),
		}
	}

	var out T
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, res.StatusCode, &Error{
			Kind:     KindMalformedResponse,
			Provider: id,
			Status:   res.StatusCode,
			Message:  fmt.Sprintf("decode response: %v", err),
		}
	}
	return &out, res.StatusCode, nil
}
