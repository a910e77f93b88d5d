package mock

import (
	"context"
	"sync"
)

// MockSummarizer is a test double for ai.Summarizer.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, the passage is echoed back.
	SummarizeFunc func(ctx context.Context, query, passage string, maxTokens int) (string, error)

	mu        sync.Mutex
	callCount int
	lastInput string
}

// NewMockSummarizer creates a mock summarizer that echoes its input.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns the passage unchanged unless SummarizeFunc is set.
func (m *MockSummarizer) Summarize(ctx context.Context, query, passage string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastInput = passage
	m.mu.Unlock()

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, query, passage, maxTokens)
	}
	return passage, nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPassage returns the passage passed to the most recent call.
func (m *MockSummarizer) LastPassage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInput
}

// Reset clears the call count and injected behavior.
func (m *MockSummarizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastInput = ""
	m.SummarizeFunc = nil
}
