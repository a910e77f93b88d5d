package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/alphagraph/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Summarizer implements ai.Summarizer with a chat completion call.
type Summarizer struct {
	client llms.Model
	guard  *guard
	logger *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
func newSummarizer(config *ai.Config, g *guard) (*Summarizer, error) {
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

	logger := slog.Default().With("component", "openai-summarizer")
	if g == nil {
		g = newGuard(config.LLMHost, config, logger)
	}

	return &Summarizer{
		client: client,
		guard:  g,
		logger: logger,
	}, nil
}

// NewSummarizer creates a new summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config, nil)
}

// Summarize asks the model for a summary of passage in relation to query.
func (s *Summarizer) Summarize(ctx context.Context, query, passage string, maxTokens int) (string, error) {
	content := chatMessages(summarizerSystemPrompt, buildSummaryPrompt(sanitizePrompt(query), sanitizePrompt(passage)))

	var response *llms.ContentResponse
	err := s.guard.do(ctx, func(ctx context.Context) error {
		var err error
		response, err = s.client.GenerateContent(ctx, content, llms.WithMaxTokens(maxTokens))
		return err
	})
	if err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Debug("no choices returned from model")
		return "", ErrNoChoices
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
