package syscontrol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Reply is the transport-level result of one gateway call
type Reply struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Body is the raw response body
	Body []byte
}

// Transport is the generic "call this HTTP endpoint" primitive the
// controllers are built on. The host application supplies one; tests
// substitute fakes. A Transport reports transport-level failures only:
// a non-2xx reply with a body is a successful Do.
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*Reply, error)
}

// GatewayTransport is the default Transport, speaking JSON over HTTP to
// the control gateway. Base URL and credentials are bound at construction.
type GatewayTransport struct {
	// BaseURL is the gateway base URL, e.g. "https://gateway.internal:8443"
	BaseURL string

	// AuthToken, when non-empty, is sent as a bearer token
	AuthToken string

	// Client is the underlying HTTP client. It intentionally defaults to
	// http.DefaultClient: this layer imposes no client-side timeout and
	// relies on the transport's own limits.
	Client *http.Client
}

// TransportOption configures a GatewayTransport
type TransportOption func(*GatewayTransport)

// WithAuthToken sets the bearer token sent on every request
func WithAuthToken(token string) TransportOption {
	return func(t *GatewayTransport) {
		t.AuthToken = token
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *GatewayTransport) {
		t.Client = c
	}
}

// NewGatewayTransport creates a Transport for the given gateway base URL
func NewGatewayTransport(baseURL string, opts ...TransportOption) *GatewayTransport {
	t := &GatewayTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  http.DefaultClient,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Do performs one JSON-over-HTTP call against the gateway
func (t *GatewayTransport) Do(ctx context.Context, method, path string, query url.Values, body any) (*Reply, error) {
	u := t.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.AuthToken)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrGatewayUnreachable, err)
	}

	return &Reply{StatusCode: resp.StatusCode, Body: raw}, nil
}

// errorBody is the structured error shape the gateway uses for non-2xx
// replies. Either field may carry the human-readable description.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// callJSON performs one call and decodes a 2xx response body into out
// (when out is non-nil). All failure modes come back as an *OpError
// wrapping the matching sentinel, ready to be flattened into a typed
// result at the contract boundary.
func callJSON(ctx context.Context, t Transport, op Operation, module, method, path string, query url.Values, body, out any) error {
	reply, err := t.Do(ctx, method, path, query, body)
	if err != nil {
		return &OpError{Op: op, Module: module, Err: err}
	}

	if reply.StatusCode < 200 || reply.StatusCode > 299 {
		msg := backendErrorMessage(reply)
		return &OpError{Op: op, Module: module, Err: fmt.Errorf("%w: %s", ErrBackendRejected, msg)}
	}

	if out != nil && len(reply.Body) > 0 {
		if err := json.Unmarshal(reply.Body, out); err != nil {
			return &OpError{Op: op, Module: module, Err: fmt.Errorf("%w: %v", ErrMalformedPayload, err)}
		}
	}

	return nil
}

// backendErrorMessage extracts the human-readable description from a
// non-2xx reply, falling back to the status code when the body carries
// nothing useful
func backendErrorMessage(reply *Reply) string {
	var eb errorBody
	if err := json.Unmarshal(reply.Body, &eb); err == nil {
		if eb.Error != "" {
			return fmt.Sprintf("HTTP %d: %s", reply.StatusCode, eb.Error)
		}
		if eb.Message != "" {
			return fmt.Sprintf("HTTP %d: %s", reply.StatusCode, eb.Message)
		}
	}
	return fmt.Sprintf("HTTP %d", reply.StatusCode)
}
