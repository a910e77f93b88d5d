package storage

import (
	"testing"

	"github.com/poiesic/alphagraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunksRoundTrip(t *testing.T) {
	chunks := core.ChunkList{
		{DocumentID: "data/aapl.txt", ChunkIndex: 0, Text: "Apple beat estimates", Metadata: map[string]string{"source": "data/aapl.txt"}},
		{DocumentID: "data/aapl.txt", ChunkIndex: 1, Text: "Services grew 14%", Metadata: map[string]string{"source": "data/aapl.txt"}},
	}

	decoded, err := UnmarshalChunks(MarshalChunks(chunks))
	require.NoError(t, err)
	assert.Equal(t, chunks, decoded)
}

func TestCorpusPreservesTokenOrder(t *testing.T) {
	corpus := core.TokenCorpus{{"AAPL", "beat", "AAPL"}, {"MSFT"}}

	decoded, err := UnmarshalCorpus(MarshalCorpus(corpus))
	require.NoError(t, err)
	assert.Equal(t, corpus, decoded)
}

func TestVectorsKeepDimension(t *testing.T) {
	vectors := core.VectorSet{Dim: 3, Vectors: [][]float32{{0.1, 0.2, 0.3}, {-1, 0, 1}}}

	decoded, err := UnmarshalVectors(MarshalVectors(vectors))
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.Dim)
	assert.Equal(t, vectors.Vectors, decoded.Vectors)
}

func TestCachedEmbeddingRoundTrip(t *testing.T) {
	entry := &core.CachedEmbedding{Model: "all-minilm", Vector: []float32{1, 2, 3}}

	decoded, err := UnmarshalCachedEmbedding(MarshalCachedEmbedding(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestUnmarshal_Invalid(t *testing.T) {
	_, err := UnmarshalChunks([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalCorpus([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalVectors([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalCachedEmbedding([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestUnmarshal_TrailingBytes(t *testing.T) {
	data := append(MarshalCorpus(core.TokenCorpus{{"a"}}), 0x01)
	_, err := UnmarshalCorpus(data)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

// The persisted byte layout is fixed: varint dimension, varint lengths and
// little-endian IEEE 754 float32 components. Changing it breaks every
// existing index and cache.
func TestMarshalVectors_WireFormat(t *testing.T) {
	vectors := core.VectorSet{Dim: 2, Vectors: [][]float32{{1, -2}, {0.5, 0}}}

	want := []byte{
		// dim 2 as a zigzag varint, then two vectors
		0x04, 0x02,
		// two components: 1.0, -2.0
		0x02, 0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0,
		// two components: 0.5, 0
		0x02, 0x00, 0x00, 0x00, 0x3f, 0x00, 0x00, 0x00, 0x00,
	}
	assert.Equal(t, want, MarshalVectors(vectors))

	decoded, err := UnmarshalVectors(want)
	require.NoError(t, err)
	assert.Equal(t, vectors, decoded)
}

func TestMarshalCachedEmbedding_WireFormat(t *testing.T) {
	entry := &core.CachedEmbedding{Model: "m", Vector: []float32{1}}

	want := []byte{0x01, 'm', 0x01, 0x00, 0x00, 0x80, 0x3f}
	assert.Equal(t, want, MarshalCachedEmbedding(entry))
}

func TestMarshalChunks_WireFormat(t *testing.T) {
	chunks := core.ChunkList{{DocumentID: "a", ChunkIndex: 1, Text: "b"}}

	want := []byte{0x01, 0x01, 'a', 0x02, 0x01, 'b', 0x00}
	assert.Equal(t, want, MarshalChunks(chunks))
}

func TestArtifactRoundTrip(t *testing.T) {
	payload := MarshalCorpus(core.TokenCorpus{{"AAPL"}})
	data := MarshalArtifact("gen-1", payload)

	assert.Equal(t, []byte{0x05, 'g', 'e', 'n', '-', '1'}, data[:6])

	gen, decoded, err := UnmarshalArtifact(data)
	require.NoError(t, err)
	assert.Equal(t, "gen-1", gen)
	assert.Equal(t, payload, decoded)

	_, _, err = UnmarshalArtifact([]byte{0x00})
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, _, err = UnmarshalArtifact(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
