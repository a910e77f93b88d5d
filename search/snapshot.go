package search

import (
	"github.com/poiesic/alphagraph/core"
)

// Snapshot is a searchable index: chunks, their vectors and the lexical
// scorer rebuilt from their tokens. All three share positional ids.
//
// A Snapshot is read-only once created and safe for concurrent searches.
type Snapshot struct {
	chunks  core.ChunkList
	tokens  core.TokenCorpus
	vectors *FlatIndex
	lexical *BM25
}

// NewSnapshot validates data and rebuilds the lexical scorer from its
// token corpus. The snapshot takes ownership of data's slices.
func NewSnapshot(data *core.IndexData) (*Snapshot, error) {
	if err := core.ValidateIndexData(data); err != nil {
		return nil, err
	}
	return &Snapshot{
		chunks:  data.Chunks,
		tokens:  data.Tokens,
		vectors: newFlatIndexFromSet(data.Vectors),
		lexical: NewBM25(data.Tokens),
	}, nil
}

// Loaded reports whether the snapshot can serve searches.
func (s *Snapshot) Loaded() bool {
	return s != nil && s.vectors != nil && s.lexical != nil && len(s.chunks) > 0
}

// Len returns the number of indexed chunks.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.chunks)
}

// Dim returns the vector dimension of the index.
func (s *Snapshot) Dim() int {
	if s == nil || s.vectors == nil {
		return 0
	}
	return s.vectors.Dim()
}

// Chunk returns the chunk at position id.
func (s *Snapshot) Chunk(id int) core.Chunk {
	return s.chunks[id]
}

// Data returns the persistable form of the snapshot.
func (s *Snapshot) Data() *core.IndexData {
	return &core.IndexData{
		Chunks:  s.chunks,
		Vectors: s.vectors.VectorSet(),
		Tokens:  s.tokens,
	}
}
