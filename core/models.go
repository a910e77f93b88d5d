package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MetadataSource is the metadata key holding the originating document path.
const MetadataSource = "source"

// Chunk is a contiguous window of text cut from a source document.
// Identity is the (DocumentID, ChunkIndex) pair. Chunks are immutable once indexed.
type Chunk struct {
	DocumentID string
	ChunkIndex int
	Text       string
	Metadata   map[string]string
}

// Source returns the originating document recorded in the chunk metadata,
// or "-" when none was recorded.
func (c *Chunk) Source() string {
	if src, ok := c.Metadata[MetadataSource]; ok && src != "" {
		return src
	}
	return "-"
}

// ChunkList is the persisted, position-ordered chunk sequence of an index.
type ChunkList []Chunk

// TokenCorpus holds the whitespace-tokenized text of every chunk, by position.
type TokenCorpus [][]string

// VectorSet is the persisted form of the dense vector index.
// Vectors[i] is the embedding of chunk i; every vector has length Dim.
type VectorSet struct {
	Dim     int
	Vectors [][]float32
}

// CachedEmbedding is an embedding stored in the embedding cache.
type CachedEmbedding struct {
	Model  string
	Vector []float32
}

// IndexData is everything needed to reconstruct a searchable index.
// The three slices share positional ids: Chunks[i], Vectors.Vectors[i] and Tokens[i]
// all describe the same chunk.
type IndexData struct {
	Chunks  ChunkList
	Vectors VectorSet
	Tokens  TokenCorpus
}

// Len returns the number of indexed chunks.
func (d *IndexData) Len() int {
	return len(d.Chunks)
}

// ScoredResult is a single hit returned from a fused search.
type ScoredResult struct {
	Text     string
	Score    float64
	Metadata map[string]string
}

// EntityKind enumerates the entity categories the extractor may emit.
type EntityKind string

const (
	EntityTicker  EntityKind = "ticker"
	EntityCompany EntityKind = "company"
	EntityMetric  EntityKind = "metric"
	EntityDate    EntityKind = "date"
)

// EntityKinds lists every valid EntityKind in schema order.
var EntityKinds = []EntityKind{EntityTicker, EntityCompany, EntityMetric, EntityDate}

// IsValid reports whether k is one of the schema kinds.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityTicker, EntityCompany, EntityMetric, EntityDate:
		return true
	}
	return false
}

// Entity is a financial entity found in the summary text.
type Entity struct {
	Kind     EntityKind
	Value    string
	Evidence string // short supporting span, may be empty
}

// MaxSignalEvidence is the maximum number of characters of evidence kept on a Signal.
const MaxSignalEvidence = 300

// Signal is a directional sentiment reading for a ticker.
type Signal struct {
	Ticker    string
	Sentiment float64 // in [-1, 1]
	Evidence  string
}

// Bullish reports whether the signal points upward.
func (s Signal) Bullish() bool {
	return s.Sentiment > 0
}

// PipelineState is the record threaded through the stage pipeline.
// Each stage writes its own fields and only reads fields written by earlier stages.
type PipelineState struct {
	Query    string
	Plan     string
	Docs     []ScoredResult
	Context  string
	Summary  string
	Entities []Entity
	Signals  []Signal
}

// NewPipelineState returns the initial state for a query.
func NewPipelineState(query string) *PipelineState {
	return &PipelineState{Query: query}
}
