package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/search"
)

// Stage names, in run order.
const (
	StagePlan       = "plan"
	StageRetrieve   = "retrieve"
	StageSynthesize = "synthesize"
	StageEntities   = "extract_entities"
	StageSignals    = "extract_signals"
)

const (
	// LocalSummaryChars is the number of context characters kept by a local summary.
	LocalSummaryChars = 500

	// RemoteContextChars is the number of context characters sent to the summarizer.
	RemoteContextChars = 4000

	// RemoteSummaryTokens bounds the length of a remote summary.
	RemoteSummaryTokens = 500

	// SentimentInputChars is the number of evidence characters sent to the sentiment scorer.
	SentimentInputChars = 512
)

// stage transforms the state in place. A returned error aborts the run.
type stage struct {
	name string
	run  func(ctx context.Context, state *core.PipelineState) error
}

func plan(_ context.Context, state *core.PipelineState) error {
	state.Plan = "Search for information about: " + state.Query
	return nil
}

type retriever struct {
	engine    *search.Engine
	snapshot  *search.Snapshot
	topK      int
	bm25Boost float64
	logger    *slog.Logger
}

// retrieve leaves Docs and Context empty when the query cannot be embedded.
// Other search errors abort the run.
func (r *retriever) retrieve(ctx context.Context, state *core.PipelineState) error {
	docs, err := r.engine.Search(ctx, r.snapshot, state.Query, r.topK, r.bm25Boost)
	if err != nil {
		if !errors.Is(err, core.ErrExternalCapability) || ctx.Err() != nil {
			return err
		}
		r.logger.Warn("retrieval degraded, continuing without documents", "err", err)
		state.Docs = nil
		state.Context = ""
		return nil
	}
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].Text
	}
	state.Docs = docs
	state.Context = strings.Join(texts, "\n\n")
	return nil
}

func summarizeLocal(_ context.Context, state *core.PipelineState) error {
	summary, cut := truncate(state.Context, LocalSummaryChars)
	if cut {
		summary += "..."
	}
	state.Summary = summary
	return nil
}

type remoteSynthesizer struct {
	summarizer ai.Summarizer
	logger     *slog.Logger
}

func (s *remoteSynthesizer) summarize(ctx context.Context, state *core.PipelineState) error {
	passage, _ := truncate(state.Context, RemoteContextChars)
	summary, err := s.summarizer.Summarize(ctx, state.Query, passage, RemoteSummaryTokens)
	if err != nil {
		s.logger.Warn("summarization failed", "err", core.NewExternalCapabilityError("summarization", err))
		summary = fmt.Sprintf("Error generating summary: %v", err)
	}
	state.Summary = summary
	return nil
}

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// FallbackEntities treats every distinct bare uppercase word of one to five
// letters in text as a ticker, in order of first appearance.
func FallbackEntities(text string) []core.Entity {
	seen := make(map[string]struct{})
	var entities []core.Entity
	for _, match := range tickerPattern.FindAllString(text, -1) {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		entities = append(entities, core.Entity{Kind: core.EntityTicker, Value: match})
	}
	return entities
}

type entityStage struct {
	extractor ai.EntityExtractor
	logger    *slog.Logger
}

func (s *entityStage) extract(ctx context.Context, state *core.PipelineState) error {
	if s.extractor != nil {
		entities, err := s.extractor.ExtractEntities(ctx, state.Summary)
		if err != nil {
			s.logger.Warn("entity extraction failed, using fallback",
				"err", core.NewExternalCapabilityError("entity extraction", err))
		} else if len(entities) > 0 {
			state.Entities = entities
			return nil
		}
	}
	state.Entities = FallbackEntities(state.Summary)
	return nil
}

type signalStage struct {
	scorer      ai.SentimentScorer
	minStrength float64
	whitelist   map[string]struct{}
	logger      *slog.Logger
}

func (s *signalStage) extract(ctx context.Context, state *core.PipelineState) error {
	var signals []core.Signal
	for _, e := range state.Entities {
		if e.Kind != core.EntityTicker {
			continue
		}
		ticker := e.Value
		if len(s.whitelist) > 0 {
			if _, ok := s.whitelist[ticker]; !ok {
				continue
			}
		}

		text := longestEvidence(state.Entities, ticker)
		if text == "" {
			text = state.Summary
		}
		score := s.sentiment(ctx, text)
		if math.Abs(score) < s.minStrength {
			continue
		}
		evidence, _ := truncate(text, core.MaxSignalEvidence)
		signals = append(signals, core.Signal{
			Ticker:    ticker,
			Sentiment: score,
			Evidence:  evidence,
		})
	}

	slices.SortStableFunc(signals, func(a, b core.Signal) int {
		x, y := math.Abs(a.Sentiment), math.Abs(b.Sentiment)
		switch {
		case x > y:
			return -1
		case x < y:
			return 1
		}
		return 0
	})
	state.Signals = signals
	return nil
}

// sentiment scores text in [-1, 1]. An absent or failing scorer counts as neutral.
func (s *signalStage) sentiment(ctx context.Context, text string) float64 {
	if s.scorer == nil {
		return 0
	}
	input, _ := truncate(text, SentimentInputChars)
	result, err := s.scorer.ScoreSentiment(ctx, input)
	if err != nil {
		s.logger.Warn("sentiment scoring failed", "err", core.NewExternalCapabilityError("sentiment", err))
		return 0
	}
	return result.Signed()
}

// longestEvidence returns the longest non-empty evidence among entities that
// mentions ticker. The first of equally long spans wins.
func longestEvidence(entities []core.Entity, ticker string) string {
	best, bestLen := "", 0
	for _, e := range entities {
		if e.Evidence == "" || !strings.Contains(e.Evidence, ticker) {
			continue
		}
		if n := utf8.RuneCountInString(e.Evidence); n > bestLen {
			best, bestLen = e.Evidence, n
		}
	}
	return best
}
