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

package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/ingestion"
	"github.com/poiesic/alphagraph/search"
	"github.com/poiesic/alphagraph/storage"
	"github.com/poiesic/alphagraph/storage/files"
)

// Config holds configuration for an index build.
type Config struct {
	// BatchSize is the number of chunks sent to the embedder per call
	BatchSize int

	// PoolSize is the number of embedding batches in flight at once
	PoolSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		PoolSize:       2,
		ReportInterval: 32,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Result summarizes a completed build.
type Result struct {
	Chunks  int
	Dim     int
	Elapsed time.Duration
}

// Indexer loads documents, builds a search snapshot and persists it.
type Indexer struct {
	loader   *ingestion.Loader
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	cache    storage.EmbeddingCache
	model    string
	monitor  search.SearchMonitor
	logger   *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithEmbeddingCache reuses embeddings cached under model across builds.
func WithEmbeddingCache(cache storage.EmbeddingCache, model string) Option {
	return func(ix *Indexer) {
		ix.cache = cache
		ix.model = model
	}
}

// WithMonitor forwards build events to monitor.
func WithMonitor(monitor search.SearchMonitor) Option {
	return func(ix *Indexer) {
		ix.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// NewIndexer creates a new indexer.
// progress: where to write progress output (typically os.Stderr)
func NewIndexer(loader *ingestion.Loader, embedder ai.Embedder, config *Config, progress io.Writer, opts ...Option) (*Indexer, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	ix := &Indexer{
		loader:   loader,
		embedder: embedder,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	ix.logger = ix.logger.With("component", "indexer")
	return ix, nil
}

// Run indexes every supported document under dataDir and writes the
// snapshot to indexDir, replacing any index already there.
func (ix *Indexer) Run(ctx context.Context, dataDir, indexDir string) (*Result, error) {
	chunks, err := ix.loader.LoadDir(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	if len(chunks) == 0 {
		fmt.Fprintf(ix.progress, "No documents found in %s\n", dataDir)
		return nil, core.ErrEmptyCorpus
	}

	fmt.Fprintf(ix.progress, "Indexing %d chunks from %s (batch size: %d)\n",
		len(chunks), dataDir, ix.config.BatchSize)

	tracker := NewProgressTracker(ix.progress, len(chunks), ix.config.ReportInterval)
	embedder := newRetryingEmbedder(ix.embedder, tracker, ix.config.MaxRetries, ix.config.RetryDelay)

	opts := []search.Option{
		search.WithLogger(ix.logger),
		search.WithBatchSize(ix.config.BatchSize),
		search.WithPoolSize(ix.config.PoolSize),
	}
	if ix.cache != nil {
		cache := &trackingCache{EmbeddingCache: ix.cache, tracker: tracker}
		opts = append(opts, search.WithEmbeddingCache(cache, ix.model))
	}
	if ix.monitor != nil {
		opts = append(opts, search.WithMonitor(ix.monitor))
	}
	engine, err := search.NewEngine(embedder, opts...)
	if err != nil {
		return nil, err
	}
	defer engine.Release()

	tracker.Start()
	snap, err := engine.Build(ctx, chunks)
	if err != nil {
		fmt.Fprintln(ix.progress)
		return nil, fmt.Errorf("building index: %w", err)
	}
	tracker.Finish()

	if err := files.NewStore(indexDir).Persist(ctx, snap.Data()); err != nil {
		return nil, fmt.Errorf("persisting index: %w", err)
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(ix.progress, "Indexing complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		len(chunks), elapsed.Round(time.Millisecond), float64(len(chunks))/max(elapsed.Seconds(), 1e-9))

	return &Result{
		Chunks:  len(chunks),
		Dim:     snap.Dim(),
		Elapsed: elapsed,
	}, nil
}
