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

// Package storage provides the storage abstraction layer for alphagraph.
//
// Two concerns live behind interfaces here:
//
//   - SnapshotStore: the persisted form of a search index (chunk list,
//     vector blob and token corpus), implemented by storage/files
//   - EmbeddingCache: embeddings keyed by model and text, implemented by
//     storage/badger
//
// The package also holds the binary serialization helpers shared by both
// implementations. Records are encoded with mus-go serializers generated
// into package core.
//
// # Constructor Return Type Pattern
//
// Public constructors in the implementation packages return these interfaces
// rather than concrete types:
//
//	store := files.NewStore("/path/to/index")   // storage.SnapshotStore
//	cache, err := badger.NewEmbeddingCache(dir)  // storage.EmbeddingCache
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Thread Safety
//
// EmbeddingCache implementations must be safe for concurrent use. A
// SnapshotStore assumes one writer per location; loading a location while
// it is being rebuilt is not supported.
package storage
