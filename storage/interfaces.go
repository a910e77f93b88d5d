package storage

import (
	"context"

	"github.com/poiesic/alphagraph/core"
)

// EmbeddingCache stores embeddings keyed by model and text so index rebuilds
// only embed chunks whose text has changed.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingCache interface {
	// GetEmbeddings returns one entry per text, in input order.
	// Entries for texts not in the cache are nil.
	GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error)

	// PutEmbeddings stores vectors[i] as the embedding of texts[i] under model.
	// Returns ErrLengthMismatch when the slices differ in length.
	PutEmbeddings(ctx context.Context, model string, texts []string, vectors [][]float32) error

	// Close releases resources held by the cache.
	Close() error
}

// SnapshotStore persists and reloads the artifacts of a search index.
type SnapshotStore interface {
	// Persist writes every artifact under the store location, replacing
	// anything written before.
	Persist(ctx context.Context, data *core.IndexData) error

	// Load reads the artifacts back. Fails with an error matching
	// core.ErrIndexNotFound if any artifact is missing.
	Load(ctx context.Context) (*core.IndexData, error)

	// Exists reports whether every artifact is present.
	Exists() bool
}
