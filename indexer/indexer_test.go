package indexer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/alphagraph/ai/mock"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/ingestion"
	"github.com/poiesic/alphagraph/search"
	"github.com/poiesic/alphagraph/storage/badger"
	"github.com/poiesic/alphagraph/storage/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]string{
		"aapl.txt": "Apple (AAPL) reported record services revenue and raised its dividend.",
		"msft.md":  "Microsoft (MSFT) grew Azure revenue 29% in the quarter.",
		"tsla.txt": "Tesla (TSLA) deliveries declined as price cuts weighed on margins.",
	}
	for name, text := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
	}
	return dir
}

func newTestLoader(t *testing.T) *ingestion.Loader {
	t.Helper()
	chunker, err := ingestion.NewChunker(40, 10)
	require.NoError(t, err)
	loader, err := ingestion.NewLoader(chunker)
	require.NoError(t, err)
	t.Cleanup(loader.Release)
	return loader
}

func fastConfig() *Config {
	return &Config{
		BatchSize:      2,
		PoolSize:       2,
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}
}

func TestNewIndexer_Validation(t *testing.T) {
	_, err := NewIndexer(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrLoaderRequired)

	_, err = NewIndexer(newTestLoader(t), nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIndexer_Run(t *testing.T) {
	dataDir := writeCorpus(t)
	indexDir := filepath.Join(t.TempDir(), "index")
	var progress bytes.Buffer

	ix, err := NewIndexer(newTestLoader(t), mock.NewMockEmbedder(), fastConfig(), &progress)
	require.NoError(t, err)

	result, err := ix.Run(context.Background(), dataDir, indexDir)
	require.NoError(t, err)
	assert.Greater(t, result.Chunks, 3)
	assert.Equal(t, mock.DefaultDimension, result.Dim)

	out := progress.String()
	assert.Contains(t, out, "Indexing ")
	assert.Contains(t, out, "chunks/s")
	assert.Contains(t, out, "Indexing complete.")

	data, err := files.NewStore(indexDir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.Chunks, data.Len())
	assert.True(t, strings.HasSuffix(data.Chunks[0].Source(), "aapl.txt"))
}

func TestIndexer_RetriesFailedBatches(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	var calls atomic.Int32
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("transient failure")
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{float32(len(texts[i])), 1}
		}
		return out, nil
	}

	ix, err := NewIndexer(newTestLoader(t), embedder, fastConfig(), nil)
	require.NoError(t, err)

	_, err = ix.Run(context.Background(), writeCorpus(t), t.TempDir())
	require.NoError(t, err)
}

func TestIndexer_GivesUpAfterMaxRetries(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	boom := errors.New("endpoint down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	indexDir := t.TempDir()
	ix, err := NewIndexer(newTestLoader(t), embedder, fastConfig(), nil)
	require.NoError(t, err)

	_, err = ix.Run(context.Background(), writeCorpus(t), indexDir)
	assert.ErrorIs(t, err, boom)
	assert.False(t, files.NewStore(indexDir).Exists(), "nothing is persisted after a failed build")
}

func TestIndexer_EmptyDataDir(t *testing.T) {
	ix, err := NewIndexer(newTestLoader(t), mock.NewMockEmbedder(), fastConfig(), nil)
	require.NoError(t, err)

	_, err = ix.Run(context.Background(), t.TempDir(), t.TempDir())
	assert.ErrorIs(t, err, core.ErrEmptyCorpus)
}

func TestIndexer_ReusesCache(t *testing.T) {
	cache, err := badger.NewMemoryEmbeddingCache()
	require.NoError(t, err)
	defer cache.Close()

	embedder := mock.NewMockEmbedder()
	dataDir := writeCorpus(t)

	ix, err := NewIndexer(newTestLoader(t), embedder, fastConfig(), nil,
		WithEmbeddingCache(cache, "all-minilm"))
	require.NoError(t, err)

	_, err = ix.Run(context.Background(), dataDir, t.TempDir())
	require.NoError(t, err)
	firstCalls := embedder.CallCount()
	require.Greater(t, firstCalls, 0)

	_, err = ix.Run(context.Background(), dataDir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, firstCalls, embedder.CallCount(), "second run is served from the cache")
}

func TestIndexer_WarmCacheReportsProgress(t *testing.T) {
	cache, err := badger.NewMemoryEmbeddingCache()
	require.NoError(t, err)
	defer cache.Close()

	dataDir := writeCorpus(t)
	var cold bytes.Buffer
	ix, err := NewIndexer(newTestLoader(t), mock.NewMockEmbedder(), fastConfig(), &cold,
		WithEmbeddingCache(cache, "all-minilm"))
	require.NoError(t, err)
	result, err := ix.Run(context.Background(), dataDir, t.TempDir())
	require.NoError(t, err)

	var warm bytes.Buffer
	ix, err = NewIndexer(newTestLoader(t), mock.NewMockEmbedder(), fastConfig(), &warm,
		WithEmbeddingCache(cache, "all-minilm"))
	require.NoError(t, err)
	_, err = ix.Run(context.Background(), dataDir, t.TempDir())
	require.NoError(t, err)

	// One report when the cache serves every chunk, one from Finish.
	full := fmt.Sprintf("Progress: %d/%d (100.0%%)", result.Chunks, result.Chunks)
	assert.Equal(t, 2, strings.Count(warm.String(), full))
}

func TestIndexer_SearchAfterBuild(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	indexDir := t.TempDir()

	ix, err := NewIndexer(newTestLoader(t), embedder, fastConfig(), nil)
	require.NoError(t, err)
	_, err = ix.Run(context.Background(), writeCorpus(t), indexDir)
	require.NoError(t, err)

	data, err := files.NewStore(indexDir).Load(context.Background())
	require.NoError(t, err)
	snap, err := search.NewSnapshot(data)
	require.NoError(t, err)

	engine, err := search.NewEngine(embedder)
	require.NoError(t, err)
	defer engine.Release()

	results, err := engine.Search(context.Background(), snap, data.Chunks[0].Text, 1, 0.2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, data.Chunks[0].Text, results[0].Text)
}
