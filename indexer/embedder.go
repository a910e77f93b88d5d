package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/storage"
)

// retryingEmbedder retries failed embedding batches and reports each
// completed batch to a progress tracker.
type retryingEmbedder struct {
	embedder       ai.Embedder
	tracker        *ProgressTracker
	maxRetries     int
	retryBaseDelay time.Duration
}

var _ ai.Embedder = (*retryingEmbedder)(nil)

// newRetryingEmbedder wraps embedder.
// maxRetries: maximum number of attempts per batch
// retryBaseDelay: base delay for exponential backoff
func newRetryingEmbedder(embedder ai.Embedder, tracker *ProgressTracker, maxRetries int, retryBaseDelay time.Duration) *retryingEmbedder {
	return &retryingEmbedder{
		embedder:       embedder,
		tracker:        tracker,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

func (r *retryingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		vector, err = r.embedder.EmbedText(ctx, text)
		return err
	}, r.maxRetries, r.retryBaseDelay)
	return vector, err
}

// EmbedTexts embeds one batch, retrying the whole batch on failure.
func (r *retryingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		embeddings, err = r.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(embeddings) != len(texts) {
			err = fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
		}
		return err
	}, r.maxRetries, r.retryBaseDelay)

	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.maxRetries, err)
	}

	if r.tracker != nil {
		r.tracker.Increment(len(texts))
	}
	return embeddings, nil
}

// trackingCache credits embeddings served from the cache to the progress
// tracker, so a warm rebuild reports the same progress as a cold one.
type trackingCache struct {
	storage.EmbeddingCache
	tracker *ProgressTracker
}

func (c *trackingCache) GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error) {
	vectors, err := c.EmbeddingCache.GetEmbeddings(ctx, model, texts)
	if err != nil || len(vectors) != len(texts) {
		return vectors, err
	}
	hits := 0
	for _, v := range vectors {
		if v != nil {
			hits++
		}
	}
	if hits > 0 {
		c.tracker.Increment(hits)
	}
	return vectors, nil
}
