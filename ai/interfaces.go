package ai

import (
	"context"

	"github.com/poiesic/alphagraph/core"
)

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Every embedding produced by one instance has the same dimension.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer condenses retrieved context with respect to a query.
type Summarizer interface {
	// Summarize returns a summary of passage with respect to query, bounded by maxTokens output tokens.
	Summarize(ctx context.Context, query, passage string, maxTokens int) (string, error)
}

// EntityExtractor finds schema-bound financial entities in text.
// Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities returns entities whose Kind is one of core.EntityKinds.
	// Returns an empty slice if nothing is found.
	ExtractEntities(ctx context.Context, text string) ([]core.Entity, error)
}

// SentimentScorer classifies the sentiment of a text span.
// Implementations must be thread-safe for concurrent use.
type SentimentScorer interface {
	ScoreSentiment(ctx context.Context, text string) (Sentiment, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// EntityExtractor returns the structured extraction service.
	EntityExtractor() EntityExtractor

	// SentimentScorer returns the sentiment service. May be nil when no
	// classifier is available; callers treat that as neutral sentiment.
	SentimentScorer() SentimentScorer

	// Close releases resources held by the provider and its services.
	Close() error
}
