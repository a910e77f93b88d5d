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

// Package indexer builds a search index offline from a directory of documents.
//
// An Indexer loads and chunks every supported document, embeds the chunks in
// batches (reusing cached embeddings when a cache is configured), builds a
// search snapshot and persists it. Embedding batches that fail are retried
// with exponential backoff, and progress is reported to a writer as batches
// complete.
//
// Retries live here, not in the query path: a query that hits a failing
// embedding endpoint fails fast instead of waiting out a backoff schedule.
package indexer
