package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	maxResponseBytes   = 8 << 20
)

// RawResponse is an undecoded provider response.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport sends one request payload to a provider. Errors returned here are
// either ServiceErrors or raw I/O errors; non-2xx answers are returned as a
// RawResponse, not an error.
type Transport interface {
	Send(ctx context.Context, payload RequestPayload) (*RawResponse, error)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpTransport struct {
	endpoint string
	apiKey   string
	referer  string
	title    string
	client   HTTPDoer
}

func (t *httpTransport) Send(ctx context.Context, payload RequestPayload) (*RawResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, wrapError(KindInvalidConfiguration, "Failed to encode request payload", nil, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, wrapError(KindInvalidConfiguration, "Failed to build request",
			map[string]any{"endpoint": t.endpoint}, err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read chat completion response: %w", err)
	}
	return &RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// decodeErrorBody returns the decoded JSON error body of a non-2xx response,
// or a snippet of it when it is not JSON.
func decodeErrorBody(body []byte) any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return map[string]any{"body": summarizePayloadSnippet(string(body))}
}
