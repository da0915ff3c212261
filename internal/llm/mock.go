package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockText is a canned plain-text reply.
func MockText(text string) MockResponse {
	return MockResponse{Content: json.RawMessage(text)}
}

// MockProvider is a deterministic Provider for tests. It replays canned
// responses in FIFO order and records every request.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response, or ErrProviderUnavailable
// once the queue is drained.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastPrompt returns the user content of the most recent call.
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 || len(m.Calls[len(m.Calls)-1].Messages) == 0 {
		return ""
	}
	msgs := m.Calls[len(m.Calls)-1].Messages
	return msgs[len(msgs)-1].Content
}
