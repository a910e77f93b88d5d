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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/poiesic/alphagraph/core"
)

// MarshalChunks serializes a chunk list to bytes.
func MarshalChunks(chunks core.ChunkList) []byte {
	buf := make([]byte, core.ChunkListMUS.Size(chunks))
	core.ChunkListMUS.Marshal(chunks, buf)
	return buf
}

// UnmarshalChunks deserializes a chunk list from bytes.
func UnmarshalChunks(data []byte) (core.ChunkList, error) {
	chunks, n, err := core.ChunkListMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: chunks: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: chunks: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return chunks, nil
}

// MarshalCorpus serializes a token corpus to bytes.
func MarshalCorpus(corpus core.TokenCorpus) []byte {
	buf := make([]byte, core.TokenCorpusMUS.Size(corpus))
	core.TokenCorpusMUS.Marshal(corpus, buf)
	return buf
}

// UnmarshalCorpus deserializes a token corpus from bytes.
func UnmarshalCorpus(data []byte) (core.TokenCorpus, error) {
	corpus, n, err := core.TokenCorpusMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: corpus: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return corpus, nil
}

// MarshalVectors serializes a vector set to bytes.
func MarshalVectors(vectors core.VectorSet) []byte {
	buf := make([]byte, core.VectorSetMUS.Size(vectors))
	core.VectorSetMUS.Marshal(vectors, buf)
	return buf
}

// UnmarshalVectors deserializes a vector set from bytes.
func UnmarshalVectors(data []byte) (core.VectorSet, error) {
	vectors, n, err := core.VectorSetMUS.Unmarshal(data)
	if err != nil {
		return core.VectorSet{}, fmt.Errorf("%w: vectors: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return core.VectorSet{}, fmt.Errorf("%w: vectors: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return vectors, nil
}

// MarshalCachedEmbedding serializes a cache entry to bytes.
func MarshalCachedEmbedding(entry *core.CachedEmbedding) []byte {
	buf := make([]byte, core.CachedEmbeddingMUS.Size(*entry))
	core.CachedEmbeddingMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalCachedEmbedding deserializes a cache entry from bytes.
func UnmarshalCachedEmbedding(data []byte) (*core.CachedEmbedding, error) {
	entry, _, err := core.CachedEmbeddingMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalArtifact prefixes payload with the generation of the build that
// produced it.
func MarshalArtifact(generation string, payload []byte) []byte {
	n := ord.String.Size(generation)
	buf := make([]byte, n+len(payload))
	ord.String.Marshal(generation, buf)
	copy(buf[n:], payload)
	return buf
}

// UnmarshalArtifact splits data written by MarshalArtifact into its
// generation and payload. The payload aliases data.
func UnmarshalArtifact(data []byte) (generation string, payload []byte, err error) {
	generation, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: artifact header: %w", ErrSerializationFailed, err)
	}
	if generation == "" {
		return "", nil, fmt.Errorf("%w: artifact has no generation", ErrSerializationFailed)
	}
	return generation, data[n:], nil
}
