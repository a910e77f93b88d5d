// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mock

import "github.com/poiesic/alphagraph/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates the mock services.
type MockProvider struct {
	embedder   *MockEmbedder
	summarizer *MockSummarizer
	extractor  *MockEntityExtractor
	sentiment  *MockSentimentScorer
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use the GetMock* accessors to reach concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		summarizer: NewMockSummarizer(),
		extractor:  NewMockEntityExtractor(),
		sentiment:  NewMockSentimentScorer(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Nil services are reported as nil, matching providers without that capability.
func NewMockProviderWithServices(embedder *MockEmbedder, summarizer *MockSummarizer,
	extractor *MockEntityExtractor, sentiment *MockSentimentScorer) ai.AIProvider {
	return &MockProvider{
		embedder:   embedder,
		summarizer: summarizer,
		extractor:  extractor,
		sentiment:  sentiment,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Summarizer returns the mock summarizer, or nil if none was configured.
func (p *MockProvider) Summarizer() ai.Summarizer {
	if p.summarizer == nil {
		return nil
	}
	return p.summarizer
}

// EntityExtractor returns the mock entity extractor, or nil if none was configured.
func (p *MockProvider) EntityExtractor() ai.EntityExtractor {
	if p.extractor == nil {
		return nil
	}
	return p.extractor
}

// SentimentScorer returns the mock sentiment scorer, or nil if none was configured.
func (p *MockProvider) SentimentScorer() ai.SentimentScorer {
	if p.sentiment == nil {
		return nil
	}
	return p.sentiment
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockSummarizer returns the underlying mock summarizer for test assertions.
func (p *MockProvider) GetMockSummarizer() *MockSummarizer {
	return p.summarizer
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockEntityExtractor {
	return p.extractor
}

// GetMockSentiment returns the underlying mock sentiment scorer for test assertions.
func (p *MockProvider) GetMockSentiment() *MockSentimentScorer {
	return p.sentiment
}
