package search

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/storage"
)

// DefaultBatchSize is the number of chunks sent to the embedder per call.
const DefaultBatchSize = 32

// Engine builds snapshots and runs fused searches against them.
type Engine struct {
	embedder  ai.Embedder
	cache     storage.EmbeddingCache
	model     string
	pool      *ants.Pool
	batchSize int
	monitor   SearchMonitor
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of embedding batches run concurrently during Build.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks go into one embedder call.
func WithBatchSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.batchSize = size
		return nil
	}
}

// WithEmbeddingCache makes Build reuse embeddings previously computed by model.
func WithEmbeddingCache(cache storage.EmbeddingCache, model string) Option {
	return func(e *Engine) error {
		e.cache = cache
		e.model = model
		return nil
	}
}

// WithMonitor installs a monitor that observes every build and search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// NewEngine creates an engine that embeds chunks and queries with embedder.
// Call Release when done to free the worker pool.
func NewEngine(embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		embedder:  embedder,
		pool:      pool,
		batchSize: DefaultBatchSize,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "search-engine")

	return e, nil
}

// Release frees the worker pool.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Build embeds and tokenizes chunks into a new snapshot. Chunk positions in
// the snapshot follow the input order.
func (e *Engine) Build(ctx context.Context, chunks []core.Chunk) (*Snapshot, error) {
	if len(chunks) == 0 {
		return nil, core.ErrEmptyCorpus
	}
	started := time.Now()

	texts := make([]string, len(chunks))
	for i := range chunks {
		if err := core.ValidateChunk(&chunks[i]); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		texts[i] = chunks[i].Text
	}

	vectors, hits, err := e.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: chunk %d has %d, chunk 0 has %d", core.ErrDimensionMismatch, i, len(v), dim)
		}
	}

	snap, err := NewSnapshot(&core.IndexData{
		Chunks:  core.ChunkList(slices.Clone(chunks)),
		Vectors: core.VectorSet{Dim: dim, Vectors: vectors},
		Tokens:  core.TokenCorpus(TokenizeAll(texts)),
	})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(started)
	e.monitor.BuildFinished(len(chunks), hits, elapsed)
	e.logger.Info("built index",
		"chunks", len(chunks),
		"dim", dim,
		"cacheHits", hits,
		"elapsed", elapsed)
	return snap, nil
}

// embedAll returns one vector per text and the number served from the cache.
func (e *Engine) embedAll(ctx context.Context, texts []string) ([][]float32, int, error) {
	vectors := e.cachedVectors(ctx, texts)

	missing := make([]int, 0, len(texts))
	for i, v := range vectors {
		if v == nil {
			missing = append(missing, i)
		}
	}
	hits := len(texts) - len(missing)

	if err := e.embedMissing(ctx, texts, vectors, missing); err != nil {
		return nil, 0, err
	}

	if e.cache != nil && len(missing) > 0 {
		newTexts := make([]string, len(missing))
		newVectors := make([][]float32, len(missing))
		for j, i := range missing {
			newTexts[j] = texts[i]
			newVectors[j] = vectors[i]
		}
		if err := e.cache.PutEmbeddings(ctx, e.model, newTexts, newVectors); err != nil {
			e.logger.Warn("failed to write embedding cache", "err", err)
		}
	}
	return vectors, hits, nil
}

func (e *Engine) cachedVectors(ctx context.Context, texts []string) [][]float32 {
	if e.cache == nil {
		return make([][]float32, len(texts))
	}
	cached, err := e.cache.GetEmbeddings(ctx, e.model, texts)
	if err != nil || len(cached) != len(texts) {
		e.logger.Warn("embedding cache unavailable, embedding every chunk", "err", err)
		return make([][]float32, len(texts))
	}
	return cached
}

// embedMissing fills vectors[i] for every i in missing, batchSize texts per
// embedder call, running batches on the worker pool. The first failure
// cancels the batches still waiting.
func (e *Engine) embedMissing(ctx context.Context, texts []string, vectors [][]float32, missing []int) error {
	if len(missing) == 0 {
		return nil
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for start := 0; start < len(missing); start += e.batchSize {
		ids := missing[start:min(start+e.batchSize, len(missing))]
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()
			if batchCtx.Err() != nil {
				return
			}

			batch := make([]string, len(ids))
			for j, i := range ids {
				batch[j] = texts[i]
			}
			embedded, err := e.embedder.EmbedTexts(batchCtx, batch)
			if err == nil && len(embedded) != len(batch) {
				err = fmt.Errorf("%w: sent %d, got %d", ErrEmbeddingCount, len(batch), len(embedded))
			}
			if err != nil {
				fail(err)
				return
			}
			for j, i := range ids {
				vectors[i] = embedded[j]
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		e.logger.Error("failed to embed chunks", "err", firstErr)
		return fmt.Errorf("embedding chunks: %w", firstErr)
	}
	return ctx.Err()
}

// Search returns up to topK chunks ranked by fused vector and lexical score.
// bm25Boost is the weight of the lexical score, in [0, 1].
func (e *Engine) Search(ctx context.Context, snap *Snapshot, query string, topK int, bm25Boost float64) ([]core.ScoredResult, error) {
	if !snap.Loaded() {
		return nil, core.ErrIndexNotLoaded
	}
	if err := core.ValidateSearchParams(topK, bm25Boost); err != nil {
		return nil, err
	}
	started := time.Now()
	e.monitor.Start(query)

	queryVector, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Warn("error generating embedding for query", "query", query, "err", err)
		return nil, core.NewExternalCapabilityError("embedding", err)
	}

	neighbors, err := snap.vectors.Search(queryVector, 2*topK)
	if err != nil {
		return nil, err
	}
	e.monitor.AfterVectorSearch(neighbors)

	lexical := MinMaxNormalize(snap.lexical.Scores(Tokenize(query)))
	e.monitor.AfterLexicalScoring(lexical)

	type candidate struct {
		id    int
		score float64
	}
	candidates := make([]candidate, len(neighbors))
	for i, n := range neighbors {
		candidates[i] = candidate{
			id:    n.ID,
			score: (1-bm25Boost)*n.Similarity() + bm25Boost*lexical[n.ID],
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]core.ScoredResult, len(candidates))
	for i, c := range candidates {
		chunk := snap.Chunk(c.id)
		results[i] = core.ScoredResult{
			Text:     chunk.Text,
			Score:    c.score,
			Metadata: maps.Clone(chunk.Metadata),
		}
	}

	elapsed := time.Since(started)
	e.monitor.Finish(results, elapsed)
	e.logger.Debug("search complete",
		"query", query,
		"candidates", len(neighbors),
		"results", len(results),
		"elapsed", elapsed)
	return results, nil
}
