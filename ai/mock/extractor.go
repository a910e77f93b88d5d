package mock

import (
	"context"
	"regexp"
	"sync"

	"github.com/poiesic/alphagraph/core"
)

var upperWord = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// MockEntityExtractor is a test double for ai.EntityExtractor.
// It allows custom behavior injection via function fields.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set.
	// If nil, uses default behavior (every 2-5 letter uppercase word is a ticker).
	ExtractEntitiesFunc func(ctx context.Context, text string) ([]core.Entity, error)

	mu        sync.Mutex
	callCount int
}

// NewMockEntityExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities returns ticker entities for uppercase words in text.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]core.Entity, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}

	seen := make(map[string]bool)
	entities := []core.Entity{}
	for _, word := range upperWord.FindAllString(text, -1) {
		if seen[word] {
			continue
		}
		seen[word] = true
		entities = append(entities, core.Entity{
			Kind:     core.EntityTicker,
			Value:    word,
			Evidence: text,
		})
	}
	return entities, nil
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom behavior.
func (m *MockEntityExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractEntitiesFunc = nil
}
