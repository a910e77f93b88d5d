package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/alphagraph/core"
)

// Default chunk window, in characters.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
)

// Chunker cuts text into windows of Size characters, each starting Overlap
// characters before the previous one ended.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker validates size and overlap. Overlap must be smaller than size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidChunkConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidChunkConfig, size, overlap)
	}
	return &Chunker{Size: size, Overlap: overlap}, nil
}

// Split collapses whitespace runs to single spaces and returns the windows.
// The last window is the first one that reaches the end of the text.
func (c *Chunker) Split(text string) []string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) == 0 {
		return nil
	}

	var windows []string
	for start := 0; ; {
		end := min(start+c.Size, len(runes))
		windows = append(windows, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - c.Overlap
	}
	return windows
}

// Chunk splits text and wraps each window as a chunk of documentID.
// ChunkIndex counts from 0 and the metadata records the source path.
func (c *Chunker) Chunk(documentID, text string) []core.Chunk {
	windows := c.Split(text)
	chunks := make([]core.Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = core.Chunk{
			DocumentID: documentID,
			ChunkIndex: i,
			Text:       w,
			Metadata:   map[string]string{core.MetadataSource: documentID},
		}
	}
	return chunks
}
