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

package pipeline

import "errors"

var (
	// ErrEngineRequired is returned when no search engine is supplied.
	ErrEngineRequired = errors.New("search engine is required")

	// ErrProviderRequired is returned when no AI provider is supplied.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrSummarizerRequired is returned when remote summaries are configured
	// but the provider has no summarizer.
	ErrSummarizerRequired = errors.New("summarizer is required for remote summaries")

	// ErrUnknownSummaryMode is returned for summary modes other than local and openai.
	ErrUnknownSummaryMode = errors.New("unknown summary mode")

	// ErrInvalidMinStrength is returned when the minimum signal strength is outside [0, 1].
	ErrInvalidMinStrength = errors.New("min strength must be in [0, 1]")
)
