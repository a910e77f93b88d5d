package alphagraph

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/alphagraph/ai/mock"
	"github.com/poiesic/alphagraph/config"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/indexer"
	"github.com/poiesic/alphagraph/metrics"
	"github.com/poiesic/alphagraph/pipeline"
	"github.com/poiesic/alphagraph/storage/badger"
	"github.com/poiesic/alphagraph/storage/files"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]string{
		"aapl.txt": "AAPL earnings beat expectations with record services growth.",
		"msft.txt": "MSFT cloud revenue continued to expand across regions.",
		"goog.txt": "GOOG advertising sales were flat during the period.",
	}
	for name, text := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
	}
	return dir
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{WithProvider(mock.NewMockProvider())}, opts...)
	engine, err := NewEngine(nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func fastBuild() *indexer.Config {
	cfg := indexer.DefaultConfig()
	cfg.RetryDelay = 0
	return cfg
}

func TestNewEngine(t *testing.T) {
	t.Run("defaults with mock provider", func(t *testing.T) {
		engine := newTestEngine(t)
		assert.Equal(t, config.DefaultConfig(), engine.Config())
		assert.NotNil(t, engine.search)
		assert.NotNil(t, engine.logger)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Retrieve.TopK = 0
		engine, err := NewEngine(cfg, WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Nil(t, engine)
	})

	t.Run("openai provider from config", func(t *testing.T) {
		engine, err := NewEngine(config.DefaultConfig())
		require.NoError(t, err)
		assert.NoError(t, engine.Close())
	})
}

func TestEngine_IndexAndQuery(t *testing.T) {
	recorder := metrics.NewRecorder()
	engine := newTestEngine(t, WithMetrics(recorder))
	ctx := context.Background()

	indexDir := filepath.Join(t.TempDir(), "index")
	var progress bytes.Buffer
	result, err := engine.Index(ctx, writeDocs(t), indexDir, IndexOptions{Build: fastBuild(), Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Chunks)
	assert.Contains(t, progress.String(), "Indexing complete.")
	assert.True(t, files.NewStore(indexDir).Exists())
	assert.DirExists(t, filepath.Join(indexDir, badger.CacheDirName))

	cfg := engine.Config().Pipeline()
	cfg.TopK = 2
	cfg.MinStrength = 0.5
	state, err := engine.Query(ctx, indexDir, "AAPL earnings", cfg)
	require.NoError(t, err)

	assert.Equal(t, "Search for information about: AAPL earnings", state.Plan)
	require.Len(t, state.Docs, 2)
	assert.Contains(t, state.Docs[0].Metadata[core.MetadataSource], "aapl.txt")
	require.NotEmpty(t, state.Signals)
	assert.Equal(t, "AAPL", state.Signals[0].Ticker)
	assert.True(t, state.Signals[0].Bullish())

	count, err := testutil.GatherAndCount(recorder.Registry(),
		"alphagraph_search_queries_total", "alphagraph_pipeline_stage_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 6, count, "one search series and one series per stage")
}

func TestEngine_QueryWithEmbedderDown(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockSummarizer(),
		mock.NewMockEntityExtractor(), mock.NewMockSentimentScorer())
	engine := newTestEngine(t, WithProvider(provider))
	ctx := context.Background()

	indexDir := t.TempDir()
	_, err := engine.Index(ctx, writeDocs(t), indexDir, IndexOptions{Build: fastBuild(), NoCache: true})
	require.NoError(t, err)

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding endpoint down")
	}

	state, err := engine.Query(ctx, indexDir, "AAPL earnings", nil)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "Search for information about: AAPL earnings", state.Plan)
	assert.Empty(t, state.Docs)
	assert.Empty(t, state.Summary)
	assert.Empty(t, state.Signals)
}

func TestEngine_QueryWithoutIndex(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Query(context.Background(), t.TempDir(), "AAPL", nil)
	assert.ErrorIs(t, err, core.ErrIndexNotFound)
}

func TestEngine_IndexEmptyDir(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Index(context.Background(), t.TempDir(), t.TempDir(), IndexOptions{Build: fastBuild(), NoCache: true})
	assert.ErrorIs(t, err, core.ErrEmptyCorpus)
}

func TestEngine_LoadIsRepeatable(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	indexDir := t.TempDir()
	_, err := engine.Index(ctx, writeDocs(t), indexDir, IndexOptions{Build: fastBuild(), NoCache: true})
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(indexDir, badger.CacheDirName))

	first, err := engine.Load(ctx, indexDir)
	require.NoError(t, err)
	second, err := engine.Load(ctx, indexDir)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Len())

	a, err := engine.Search(ctx, first, "MSFT cloud", 3, 0.2)
	require.NoError(t, err)
	b, err := engine.Search(ctx, second, "MSFT cloud", 3, 0.2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEngine_NewPipelineUsesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SummaryModel = pipeline.SummaryOpenAI
	engine, err := NewEngine(cfg, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.NewPipeline(nil, nil)
	assert.ErrorIs(t, err, core.ErrIndexNotLoaded)
}
