package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/alphagraph/core"
)

// Loader reads and chunks every supported document under a directory.
type Loader struct {
	chunker *Chunker
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the number of files read concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if l.pool != nil {
			l.pool.Release()
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader that cuts documents with chunker.
// Call Release when done to free the worker pool.
func NewLoader(chunker *Chunker, opts ...Option) (*Loader, error) {
	if chunker == nil {
		return nil, fmt.Errorf("%w: chunker required", ErrInvalidChunkConfig)
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		chunker: chunker,
		pool:    pool,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			l.Release()
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "loader")
	return l, nil
}

// Release frees the worker pool.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}

// LoadFile reads and chunks a single file.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]core.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.chunker.Chunk(path, text), nil
}

// LoadDir reads every supported file under dir and returns their chunks in
// lexical path order. Unreadable files are logged and skipped.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]core.Chunk, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	paths, err := supportedFiles(dir)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(paths))
	failed := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := l.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				failed[i] = err
				return
			}
			texts[i], failed[i] = ReadFile(path)
		})
		if submitErr != nil {
			wg.Done()
			failed[i] = submitErr
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var chunks []core.Chunk
	loaded := 0
	for i, path := range paths {
		if failed[i] != nil {
			l.logger.Warn("skipping unreadable document", "path", path, "err", failed[i])
			continue
		}
		docChunks := l.chunker.Chunk(path, texts[i])
		if len(docChunks) == 0 {
			l.logger.Debug("document has no text", "path", path)
			continue
		}
		chunks = append(chunks, docChunks...)
		loaded++
	}

	l.logger.Info("loaded documents",
		"dir", dir,
		"files", len(paths),
		"loaded", loaded,
		"chunks", len(chunks))
	return chunks, nil
}

// supportedFiles lists supported files under dir in lexical order.
func supportedFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
