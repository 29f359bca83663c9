package syscontrol

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"time"
)

// recordedCall captures one transport invocation for assertions
type recordedCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	At     time.Time
}

// fakeTransport records calls and answers them via a configurable handler.
// The zero handler answers every call with 200 and an empty object.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []recordedCall
	handler func(call recordedCall) (*Reply, error)
}

func (t *fakeTransport) Do(_ context.Context, method, path string, query url.Values, body any) (*Reply, error) {
	call := recordedCall{Method: method, Path: path, Query: query, Body: body, At: time.Now()}

	t.mu.Lock()
	t.calls = append(t.calls, call)
	handler := t.handler
	t.mu.Unlock()

	if handler != nil {
		return handler(call)
	}
	return jsonReply(200, map[string]any{}), nil
}

func (t *fakeTransport) recorded() []recordedCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]recordedCall, len(t.calls))
	copy(out, t.calls)
	return out
}

// jsonReply builds a Reply with a JSON-encoded body
func jsonReply(status int, v any) *Reply {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return &Reply{StatusCode: status, Body: body}
}

// errTransportDown is the transport failure used by rejection tests
var errTransportDown = errors.New("dial tcp: connection refused")

// rejectingTransport fails every call at the transport level
func rejectingTransport() *fakeTransport {
	return &fakeTransport{
		handler: func(recordedCall) (*Reply, error) {
			return nil, errTransportDown
		},
	}
}

// bodyField extracts a field from a recorded JSON-bound request body by
// round-tripping it through encoding/json
func bodyField(body any, field string) any {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m[field]
}
