package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/alphagraph/ai"
)

var (
	positiveWords = []string{"beat", "growth", "record", "surge", "strong", "upgrade", "gain"}
	negativeWords = []string{"miss", "decline", "loss", "weak", "downgrade", "lawsuit", "drop"}
)

// MockSentimentScorer is a test double for ai.SentimentScorer.
type MockSentimentScorer struct {
	// ScoreSentimentFunc is called by ScoreSentiment if set.
	// If nil, a keyword count decides the label.
	ScoreSentimentFunc func(ctx context.Context, text string) (ai.Sentiment, error)

	mu        sync.Mutex
	callCount int
	inputs    []string
}

// NewMockSentimentScorer creates a mock scorer with keyword-based behavior.
func NewMockSentimentScorer() *MockSentimentScorer {
	return &MockSentimentScorer{}
}

// ScoreSentiment labels text positive or negative by counting keywords.
// Ties are neutral with zero magnitude.
func (m *MockSentimentScorer) ScoreSentiment(ctx context.Context, text string) (ai.Sentiment, error) {
	m.mu.Lock()
	m.callCount++
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()

	if m.ScoreSentimentFunc != nil {
		return m.ScoreSentimentFunc(ctx, text)
	}

	lower := strings.ToLower(text)
	score := 0
	for _, w := range positiveWords {
		score += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		score -= strings.Count(lower, w)
	}
	switch {
	case score > 0:
		return ai.Sentiment{Label: ai.SentimentPositive, Magnitude: 0.9}, nil
	case score < 0:
		return ai.Sentiment{Label: ai.SentimentNegative, Magnitude: 0.9}, nil
	}
	return ai.Sentiment{Label: ai.SentimentNeutral}, nil
}

// CallCount returns the number of times ScoreSentiment was called.
func (m *MockSentimentScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Inputs returns every text passed to ScoreSentiment, in call order.
func (m *MockSentimentScorer) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// Reset clears the call count, recorded inputs and custom behavior.
func (m *MockSentimentScorer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.inputs = nil
	m.ScoreSentimentFunc = nil
}
