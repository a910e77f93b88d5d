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

package core

import (
	"fmt"
	"math"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - ChunkIndex must be >= 0
//
// Metadata may be nil.
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}
	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}
	return nil
}

// ValidateEntity checks the entity kind and value.
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}
	if !entity.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntity, entity.Kind)
	}
	if entity.Value == "" {
		return fmt.Errorf("%w: value cannot be empty", ErrInvalidEntity)
	}
	return nil
}

// ValidateSignal checks sentiment range and evidence length.
func ValidateSignal(signal *Signal) error {
	if signal == nil {
		return fmt.Errorf("%w: signal is nil", ErrInvalidSignal)
	}
	if signal.Ticker == "" {
		return fmt.Errorf("%w: ticker cannot be empty", ErrInvalidSignal)
	}
	if math.IsNaN(signal.Sentiment) || signal.Sentiment < -1 || signal.Sentiment > 1 {
		return fmt.Errorf("%w: sentiment %v outside [-1, 1]", ErrInvalidSignal, signal.Sentiment)
	}
	if len([]rune(signal.Evidence)) > MaxSignalEvidence {
		return fmt.Errorf("%w: evidence longer than %d characters", ErrInvalidSignal, MaxSignalEvidence)
	}
	return nil
}

// ValidateSearchParams checks that topK >= 1 and bm25Boost lies in [0, 1].
func ValidateSearchParams(topK int, bm25Boost float64) error {
	if topK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", ErrInvalidSearchParams, topK)
	}
	if math.IsNaN(bm25Boost) || bm25Boost < 0 || bm25Boost > 1 {
		return fmt.Errorf("%w: bm25_boost must be in [0, 1], got %v", ErrInvalidSearchParams, bm25Boost)
	}
	return nil
}

// ValidateIndexData checks the positional invariant shared by chunks, vectors and tokens.
func ValidateIndexData(data *IndexData) error {
	if data == nil || len(data.Chunks) == 0 {
		return ErrEmptyCorpus
	}
	n := len(data.Chunks)
	if len(data.Vectors.Vectors) != n || len(data.Tokens) != n {
		return fmt.Errorf("%w: %d chunks, %d vectors, %d token lists",
			ErrCorruptIndex, n, len(data.Vectors.Vectors), len(data.Tokens))
	}
	for i, v := range data.Vectors.Vectors {
		if len(v) != data.Vectors.Dim {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d",
				ErrCorruptIndex, i, len(v), data.Vectors.Dim)
		}
	}
	return nil
}
