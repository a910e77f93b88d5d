package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, size, overlap int) *Loader {
	t.Helper()
	chunker, err := NewChunker(size, overlap)
	require.NoError(t, err)
	loader, err := NewLoader(chunker, WithPoolSize(4))
	require.NoError(t, err)
	t.Cleanup(loader.Release)
	return loader
}

func TestLoadDir_OrderAndSkipping(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second document")
	writeFile(t, dir, "a.txt", "first document")
	writeFile(t, dir, "sub/c.md", "third document")
	writeFile(t, dir, "ignored.csv", "x,y")
	writeFile(t, dir, "empty.txt", "   ")
	writeFile(t, dir, "broken.pdf", "not a pdf")

	loader := newTestLoader(t, 100, 10)
	chunks, err := loader.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, filepath.Join(dir, "a.txt"), chunks[0].DocumentID)
	assert.Equal(t, "first document", chunks[0].Text)
	assert.Equal(t, filepath.Join(dir, "b.txt"), chunks[1].DocumentID)
	assert.Equal(t, filepath.Join(dir, "sub", "c.md"), chunks[2].DocumentID)
}

func TestLoadDir_Deterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"e.txt", "d.txt", "c.txt", "b.txt", "a.txt"} {
		writeFile(t, dir, name, "content of "+name+" repeated to make a few windows")
	}

	loader := newTestLoader(t, 16, 4)
	first, err := loader.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := loader.LoadDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLoadDir_NotADirectory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "x")
	_, err := newTestLoader(t, 10, 0).LoadDir(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = newTestLoader(t, 10, 0).LoadDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestLoader(t, 10, 0).LoadDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "abcdefgh")
	chunks, err := newTestLoader(t, 5, 2).LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[1].ChunkIndex)
}

func TestNewLoader_RequiresChunker(t *testing.T) {
	_, err := NewLoader(nil)
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)
}
