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

package alphagraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/ai/openai"
	"github.com/poiesic/alphagraph/config"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/indexer"
	"github.com/poiesic/alphagraph/ingestion"
	"github.com/poiesic/alphagraph/metrics"
	"github.com/poiesic/alphagraph/pipeline"
	"github.com/poiesic/alphagraph/search"
	"github.com/poiesic/alphagraph/storage/badger"
	"github.com/poiesic/alphagraph/storage/files"
)

// Engine ties configuration, AI services, indexing and querying together.
type Engine struct {
	config   *config.Config
	provider ai.AIProvider
	search   *search.Engine
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// WithProvider supplies the AI services instead of building OpenAI-compatible
// clients from the configuration. The engine takes ownership of provider.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithMetrics records searches, builds and stage timings on recorder.
func WithMetrics(recorder *metrics.Recorder) EngineOption {
	return func(o *engineOptions) {
		o.recorder = recorder
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine creates an engine for cfg. A nil cfg uses config.DefaultConfig.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(cfg.AIConfig())
		if err != nil {
			return nil, err
		}
	}

	searchOpts := []search.Option{search.WithLogger(logger)}
	if options.recorder != nil {
		searchOpts = append(searchOpts, search.WithMonitor(options.recorder))
	}
	searchEngine, err := search.NewEngine(provider.Embedder(), searchOpts...)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Engine{
		config:   cfg,
		provider: provider,
		search:   searchEngine,
		recorder: options.recorder,
		logger:   logger,
	}, nil
}

// Close releases the search workers and the AI provider.
func (e *Engine) Close() error {
	e.search.Release()
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.config
}

// IndexOptions tunes a single Index call.
type IndexOptions struct {
	// Build controls batching and retries. Nil uses indexer.DefaultConfig.
	Build *indexer.Config

	// Progress receives progress lines. Nil discards them.
	Progress io.Writer

	// NoCache disables the embedding cache kept under the index directory.
	NoCache bool
}

// Index chunks every supported document under dataDir, embeds the chunks
// and writes the snapshot to indexDir.
func (e *Engine) Index(ctx context.Context, dataDir, indexDir string, opts IndexOptions) (result *indexer.Result, err error) {
	chunker, err := ingestion.NewChunker(e.config.Chunk.Size, e.config.Chunk.Overlap)
	if err != nil {
		return nil, err
	}
	loader, err := ingestion.NewLoader(chunker, ingestion.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	defer loader.Release()

	ixOpts := []indexer.Option{indexer.WithLogger(e.logger)}
	if e.recorder != nil {
		ixOpts = append(ixOpts, indexer.WithMonitor(e.recorder))
	}
	if !opts.NoCache {
		cache, cacheErr := badger.NewEmbeddingCache(indexDir)
		if cacheErr != nil {
			return nil, fmt.Errorf("opening embedding cache: %w", cacheErr)
		}
		defer func() {
			if closeErr := cache.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		ixOpts = append(ixOpts, indexer.WithEmbeddingCache(cache, e.config.EmbeddingModel))
	}

	ix, err := indexer.NewIndexer(loader, e.provider.Embedder(), opts.Build, opts.Progress, ixOpts...)
	if err != nil {
		return nil, err
	}
	return ix.Run(ctx, dataDir, indexDir)
}

// Load reads the snapshot persisted at indexDir.
func (e *Engine) Load(ctx context.Context, indexDir string) (*search.Snapshot, error) {
	data, err := files.NewStore(indexDir).Load(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewSnapshot(data)
}

// Search runs a fused search against snap.
func (e *Engine) Search(ctx context.Context, snap *search.Snapshot, query string, topK int, bm25Boost float64) ([]core.ScoredResult, error) {
	return e.search.Search(ctx, snap, query, topK, bm25Boost)
}

// NewPipeline creates a query pipeline over snap. A nil cfg uses the
// pipeline section of the engine configuration.
func (e *Engine) NewPipeline(snap *search.Snapshot, cfg *pipeline.Config) (*pipeline.Pipeline, error) {
	if cfg == nil {
		cfg = e.config.Pipeline()
	}
	opts := []pipeline.Option{pipeline.WithLogger(e.logger)}
	if e.recorder != nil {
		opts = append(opts, pipeline.WithObserver(e.recorder))
	}
	return pipeline.NewPipeline(e.search, snap, e.provider, cfg, opts...)
}

// Query loads the index at indexDir and runs query through the pipeline.
func (e *Engine) Query(ctx context.Context, indexDir, query string, cfg *pipeline.Config) (*core.PipelineState, error) {
	snap, err := e.Load(ctx, indexDir)
	if err != nil {
		if errors.Is(err, core.ErrIndexNotFound) {
			e.logger.Error("no index found, run the index command first", "index_dir", indexDir)
		}
		return nil, err
	}
	p, err := e.NewPipeline(snap, cfg)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, query)
}
