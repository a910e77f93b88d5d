package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/alphagraph/ai/mock"
	"github.com/poiesic/alphagraph/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryingEmbedder_TracksCompletedBatches(t *testing.T) {
	tracker := NewProgressTracker(nil, 10, 1)
	tracker.Start()
	r := newRetryingEmbedder(mock.NewMockEmbedder(), tracker, 3, time.Millisecond)

	vectors, err := r.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
	assert.Equal(t, 3, tracker.Current())
}

func TestRetryingEmbedder_CountMismatchIsRetried(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 1 {
			return [][]float32{{1}}, nil
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{1}
		}
		return out, nil
	}

	r := newRetryingEmbedder(embedder, nil, 3, time.Millisecond)
	vectors, err := r.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, 2, calls)
}

func TestRetryingEmbedder_FailureNotTracked(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	boom := errors.New("unavailable")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}
	tracker := NewProgressTracker(nil, 10, 1)
	tracker.Start()

	r := newRetryingEmbedder(embedder, tracker, 2, time.Millisecond)
	_, err := r.EmbedTexts(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Zero(t, tracker.Current())
}

func TestRetryingEmbedder_EmbedText(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("flaky")
		}
		return []float32{0.5}, nil
	}

	r := newRetryingEmbedder(embedder, nil, 3, time.Millisecond)
	v, err := r.EmbedText(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, v)
}

func TestTrackingCache_CreditsHits(t *testing.T) {
	inner, err := badger.NewMemoryEmbeddingCache()
	require.NoError(t, err)
	defer inner.Close()
	ctx := context.Background()
	require.NoError(t, inner.PutEmbeddings(ctx, "m", []string{"a", "c"}, [][]float32{{1}, {3}}))

	tracker := NewProgressTracker(nil, 3, 1)
	tracker.Start()
	cache := &trackingCache{EmbeddingCache: inner, tracker: tracker}

	vectors, err := cache.GetEmbeddings(ctx, "m", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, nil, {3}}, vectors)
	assert.Equal(t, 2, tracker.Current())

	_, err = cache.GetEmbeddings(ctx, "other-model", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 2, tracker.Current(), "misses are not credited")
}
