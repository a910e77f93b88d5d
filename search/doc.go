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

// Package search provides hybrid dense-vector and lexical retrieval.
//
// An Engine builds a Snapshot from document chunks by embedding every chunk
// and tokenizing it on whitespace. A Snapshot holds three position-aligned
// structures: the chunks, an exact L2 FlatIndex over their vectors and a
// BM25 scorer over their tokens.
//
// Search fuses the two signals:
//
//  1. The query is embedded once and the FlatIndex returns the 2*topK
//     nearest chunks; each distance d becomes a similarity 1/(1+d).
//  2. BM25 scores every chunk against the query tokens and the scores are
//     min-max normalized over the whole corpus.
//  3. Each vector candidate gets (1-boost)*similarity + boost*lexical.
//     Lexical scoring re-ranks the vector candidates; it never adds new ones.
//  4. Candidates are stably sorted by fused score and cut to topK.
//
// Snapshots are read-only, so any number of searches may run against one
// concurrently. Persisting and loading snapshots is handled by
// storage/files.
package search
