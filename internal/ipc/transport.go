package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	executePath = "/tools/execute"
	healthPath  = "/health"

	defaultRequestTimeout = 30 * time.Second
)

// Transport performs one exchange against the external tool-decision
// runtime. Implementations must honor the context so an abandoned exchange
// can be cancelled.
type Transport interface {
	Execute(ctx context.Context, req Request) (map[string]any, error)
	Health(ctx context.Context) error
}

// HTTPTransport talks to the runtime over its JSON-over-HTTP contract.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// TransportOption customizes the HTTP transport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// NewHTTPTransport builds a transport rooted at baseURL. A finite timeout is
// required by contract: without one a stalled exchange blocks the whole
// queue. Non-positive timeouts fall back to the default.
func NewHTTPTransport(baseURL string, timeout time.Duration, opts ...TransportOption) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	transport := &HTTPTransport{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(transport)
	}
	return transport
}

// BaseURL reports the runtime endpoint this transport targets.
func (t *HTTPTransport) BaseURL() string { return t.baseURL }

// Execute posts the request to /tools/execute and decodes the response body.
// A 200 with a JSON object body is the only success shape.
func (t *HTTPTransport) Execute(ctx context.Context, req Request) (map[string]any, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+executePath, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", ErrRemoteRejected, &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       snippet(body),
		})
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v (body snippet: %s)", ErrDecode, err, snippet(body))
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: body is JSON null, expected an object", ErrDecode)
	}
	return payload, nil
}

// Health probes /health. Any 2xx status counts as healthy.
func (t *HTTPTransport) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %w", ErrRemoteRejected, &RemoteError{StatusCode: resp.StatusCode})
	}
	return nil
}

func snippet(body []byte) string {
	clean := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	if clean == "" {
		return "<empty>"
	}
	return clean
}
