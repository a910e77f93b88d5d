package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/alphagraph/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// SentimentScorer implements ai.SentimentScorer by asking a chat model for a
// label and confidence.
type SentimentScorer struct {
	client llms.Model
	guard  *guard
	logger *slog.Logger
}

type sentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// newSentimentScorer is an internal constructor that returns the concrete type.
func newSentimentScorer(config *ai.Config, g *guard) (*SentimentScorer, error) {
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

	logger := slog.Default().With("component", "openai-sentiment")
	if g == nil {
		g = newGuard(config.LLMHost, config, logger)
	}

	return &SentimentScorer{
		client: client,
		guard:  g,
		logger: logger,
	}, nil
}

// NewSentimentScorer creates a new sentiment scorer using the provided configuration.
//
// Returns ai.SentimentScorer interface to enforce abstraction.
func NewSentimentScorer(config *ai.Config) (ai.SentimentScorer, error) {
	return newSentimentScorer(config, nil)
}

// ScoreSentiment classifies text as positive, negative or neutral.
func (s *SentimentScorer) ScoreSentiment(ctx context.Context, text string) (ai.Sentiment, error) {
	content := chatMessages(sentimentPrompt, sanitizePrompt(text))

	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		var response *llms.ContentResponse
		err := s.guard.do(ctx, func(ctx context.Context) error {
			var err error
			response, err = s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
			return err
		})
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.Sentiment{}, err
		}
		if len(response.Choices) < 1 {
			return ai.Sentiment{}, ErrNoChoices
		}

		sentiment, err := parseSentiment(response.Choices[0].Content)
		if err != nil {
			lastErr = err
			s.logger.Warn("error parsing sentiment response", "attempt", attempt+1, "err", err)
			continue
		}
		return sentiment, nil
	}

	return ai.Sentiment{}, fmt.Errorf("%w: %w", ErrMalformedResponse, lastErr)
}

// parseSentiment decodes a {"label", "score"} response.
func parseSentiment(raw string) (ai.Sentiment, error) {
	var resp sentimentResponse
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &resp); err != nil {
		return ai.Sentiment{}, err
	}
	score := resp.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return ai.Sentiment{
		Label:     ai.ParseSentimentLabel(resp.Label),
		Magnitude: score,
	}, nil
}
