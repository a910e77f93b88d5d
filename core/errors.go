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
	"errors"
	"fmt"
	"strings"
)

// Index lifecycle errors
var (
	// ErrEmptyCorpus is returned when an index build is attempted with zero chunks.
	ErrEmptyCorpus = errors.New("cannot build index from empty corpus")

	// ErrIndexNotFound is returned when persisted index artifacts are missing.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexNotLoaded is returned when a search is attempted without a loaded snapshot.
	ErrIndexNotLoaded = errors.New("index not loaded")

	// ErrDimensionMismatch is returned when a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptIndex is returned when persisted artifacts disagree with each other.
	ErrCorruptIndex = errors.New("index artifacts are inconsistent")
)

// ErrExternalCapability marks a failure reported by an embedding, summarization,
// extraction or sentiment provider.
var ErrExternalCapability = errors.New("external capability failed")

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyText indicates a chunk has no text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNegativeChunkIndex indicates a chunk index below zero.
	ErrNegativeChunkIndex = errors.New("chunk index cannot be negative")

	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidSignal indicates a Signal failed validation.
	ErrInvalidSignal = errors.New("invalid signal")

	// ErrInvalidSearchParams indicates out-of-range top_k or bm25_boost values.
	ErrInvalidSearchParams = errors.New("invalid search parameters")
)

// IndexNotFoundError reports which artifacts are missing from an index location.
type IndexNotFoundError struct {
	Location string
	Missing  []string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index not found at %s: missing %s", e.Location, strings.Join(e.Missing, ", "))
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError.
func NewIndexNotFoundError(location string, missing ...string) *IndexNotFoundError {
	return &IndexNotFoundError{Location: location, Missing: missing}
}

// ExternalCapabilityError wraps an error returned by an external provider.
type ExternalCapabilityError struct {
	Capability string
	Err        error
}

func (e *ExternalCapabilityError) Error() string {
	return fmt.Sprintf("%s capability failed: %v", e.Capability, e.Err)
}

func (e *ExternalCapabilityError) Unwrap() error {
	return e.Err
}

func (e *ExternalCapabilityError) Is(target error) bool {
	return target == ErrExternalCapability
}

// NewExternalCapabilityError wraps err as a soft failure of the named capability.
// Returns nil when err is nil.
func NewExternalCapabilityError(capability string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalCapabilityError{Capability: capability, Err: err}
}
