package remote

import (
	"context"
	"net/url"
	"sync"
)

// Call is one recorded MockClient invocation.
type Call struct {
	Action Action
	Fields url.Values
}

// MockClient is a Client for tests. Handler decides each reply; when nil every
// action succeeds with an empty message.
type MockClient struct {
	Handler func(ctx context.Context, action Action, fields url.Values) (*Response, error)

	mu    sync.Mutex
	calls []Call
}

// Perform records the call and delegates to Handler.
func (m *MockClient) Perform(ctx context.Context, action Action, fields url.Values) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Action: action, Fields: cloneValues(fields)})
	m.mu.Unlock()

	if m.Handler == nil {
		return &Response{Status: StatusSuccess}, nil
	}
	return m.Handler(ctx, action, fields)
}

// Calls returns the recorded calls.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsFor returns the recorded calls for one action.
func (m *MockClient) CallsFor(action Action) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

// Reply returns a handler answering each action with a fixed response.
// Actions missing from replies succeed.
func Reply(replies map[Action]Response) func(context.Context, Action, url.Values) (*Response, error) {
	return func(_ context.Context, action Action, _ url.Values) (*Response, error) {
		r, ok := replies[action]
		if !ok {
			return &Response{Status: StatusSuccess}, nil
		}
		if r.Status != StatusSuccess {
			return &r, &RejectedError{Action: action, Status: r.Status, Message: r.Message}
		}
		return &r, nil
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
