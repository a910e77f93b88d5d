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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxParseAttempts bounds how often a malformed JSON response is re-requested.
const maxParseAttempts = 3

// EntityExtractor implements ai.EntityExtractor using OpenAI-compatible chat APIs.
type EntityExtractor struct {
	client llms.Model
	guard  *guard
	logger *slog.Logger
}

// entity is an internal type used for JSON unmarshaling.
type entity struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Evidence string `json:"evidence"`
}

// entityList is the wrapper structure for the LLM's JSON response.
type entityList struct {
	Entities []entity `json:"entities"`
}

// newEntityExtractor is an internal constructor that returns the concrete type.
func newEntityExtractor(config *ai.Config, g *guard) (*EntityExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.LLMHost),
		openai.WithToken(apiToken(config)),
		openai.WithModel(config.LLMModel),
	)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-extractor")
	if g == nil {
		g = newGuard(config.LLMHost, config, logger)
	}

	return &EntityExtractor{
		client: client,
		guard:  g,
		logger: logger,
	}, nil
}

// NewEntityExtractor creates a new entity extractor using the provided configuration.
//
// Returns ai.EntityExtractor interface to enforce abstraction.
func NewEntityExtractor(config *ai.Config) (ai.EntityExtractor, error) {
	return newEntityExtractor(config, nil)
}

// ExtractEntities extracts schema-bound financial entities from text.
// Entities with an unknown kind or an empty value are dropped.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string) ([]core.Entity, error) {
	content := chatMessages(buildEntityPrompt(), "Extract entities from the following text:\n\n"+sanitizePrompt(text))

	var result entityList
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		var response *llms.ContentResponse
		err := e.guard.do(ctx, func(ctx context.Context) error {
			var err error
			response, err = e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
			return err
		})
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []core.Entity{}, nil
		}

		responseText := cleanJSON(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, lastErr)
	}

	extracted := toEntities(result.Entities)
	e.logger.Debug("extracted entities",
		"total", len(result.Entities),
		"kept", len(extracted))
	return extracted, nil
}

// toEntities converts raw entities, dropping those that fail validation.
func toEntities(raw []entity) []core.Entity {
	extracted := make([]core.Entity, 0, len(raw))
	for _, r := range raw {
		ent := core.Entity{
			Kind:     core.EntityKind(strings.ToLower(strings.TrimSpace(r.Type))),
			Value:    strings.TrimSpace(r.Value),
			Evidence: strings.TrimSpace(r.Evidence),
		}
		if core.ValidateEntity(&ent) != nil {
			continue
		}
		extracted = append(extracted, ent)
	}
	return extracted
}
