package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests and offline runs.
//
// Responses are returned in order and cycle when exhausted. A handler, if
// set, takes precedence and sees every request.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	handler   func(Request) (string, error)
	calls     []Request
	next      int
}

// NewMockClient creates a mock that returns response for every call.
func NewMockClient(response string) *MockClient {
	return &MockClient{responses: []string{response}}
}

// WithResponses sets the response sequence.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	m.next = 0
	return m
}

// WithError makes every call fail with err.
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithHandler routes every call through fn.
func (m *MockClient) WithHandler(fn func(Request) (string, error)) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
	return m
}

// Generate implements Client.
func (m *MockClient) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.handler != nil {
		return m.handler(req)
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}

	resp := m.responses[m.next%len(m.responses)]
	m.next++
	return resp, nil
}

// Calls returns a copy of every request received.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of requests received.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls and rewinds the response sequence.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.next = 0
}
