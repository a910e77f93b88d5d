package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/storage"
)

// CacheDirName is the directory under an index location holding the cache.
const CacheDirName = "embeddings"

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
type EmbeddingCache struct {
	backend *Backend
	owned   bool
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache opens (or creates) the cache under indexDir/embeddings.
// The returned cache owns its backend and closes it on Close.
func NewEmbeddingCache(indexDir string) (storage.EmbeddingCache, error) {
	backend, err := OpenBackend(filepath.Join(indexDir, CacheDirName), false)
	if err != nil {
		return nil, err
	}
	return &EmbeddingCache{backend: backend, owned: true}, nil
}

// NewEmbeddingCacheWithBackend creates a cache on an existing backend.
// Closing the cache leaves the backend open.
func NewEmbeddingCacheWithBackend(backend *Backend) (*EmbeddingCache, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &EmbeddingCache{backend: backend}, nil
}

// GetEmbeddings looks up every text. Misses, and entries stored under a
// different model, come back as nil.
func (c *EmbeddingCache) GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	vectors := make([][]float32, len(texts))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for i, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeEmbeddingKey(model, text))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}

			var entry *core.CachedEmbedding
			err = item.Value(func(val []byte) error {
				var unmarshalErr error
				entry, unmarshalErr = storage.UnmarshalCachedEmbedding(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if entry.Model == model {
				vectors[i] = entry.Vector
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// PutEmbeddings stores one entry per text.
func (c *EmbeddingCache) PutEmbeddings(ctx context.Context, model string, texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("%w: %d texts but %d vectors", storage.ErrLengthMismatch, len(texts), len(vectors))
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for i, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := &core.CachedEmbedding{Model: model, Vector: vectors[i]}
			if err := wb.Set(makeEmbeddingKey(model, text), storage.MarshalCachedEmbedding(entry)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of entries cached for model.
func (c *EmbeddingCache) Count(model string) (int, error) {
	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeEmbeddingModelPrefix(model)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close closes the backend if the cache opened it.
func (c *EmbeddingCache) Close() error {
	if !c.owned || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
