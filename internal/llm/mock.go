package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply. Stop and Reason mimic what a real
// backend reports; an empty Stop means the reply ended normally.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Stop    string
	Reason  string
	Err     error
}

// MockProvider replays scripted replies in order and records every
// request. Replies go through the same checks as the real backends, so a
// scripted reply that violates the request's schema fails the same way.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	Calls   []Request
}

var errScriptExhausted = errors.New("mock: no scripted replies left")

// NewMockProvider creates a MockProvider that replays the given replies.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

// Generate pops the next scripted reply. An exhausted script reports the
// provider as unavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.replies) == 0 {
		return nil, &ErrProviderUnavailable{Err: errScriptExhausted}
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, reply{
		content: next.Content,
		stop:    next.Stop,
		reason:  next.Reason,
		usage:   next.Usage,
		model:   "mock",
	})
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Name() string { return "mock" }

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
