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

// Package ai provides abstractions for the external AI capabilities used by AlphaGraph.
//
// The package defines interfaces for every model-backed operation so that the
// retrieval engine and stage pipeline depend on abstractions rather than on a
// particular vendor:
//
//   - Embedder: text to fixed-dimension vectors
//   - Summarizer: query-focused summary of retrieved context
//   - EntityExtractor: schema-bound financial entity extraction
//   - SentimentScorer: label plus magnitude for a text span
//   - AIProvider: aggregates the above for initialization and shutdown
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and assert call counts.
//
// # Failure Modes
//
// Every capability may fail or be unavailable. Callers in the pipeline treat
// such failures as soft and substitute a degraded value. A nil SentimentScorer
// is a valid provider configuration and means "always neutral".
//
// # Usage Example
//
//	provider, err := openai.NewProvider(ai.NewConfig(ai.WithAPIKey(key)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "AAPL guidance raised")
package ai
