package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/search"
)

// Summary modes.
const (
	SummaryLocal  = "local"
	SummaryOpenAI = "openai"
)

// Config holds the per-run parameters of a Pipeline.
type Config struct {
	// TopK is the number of chunks retrieved per query
	TopK int

	// BM25Boost is the weight of the lexical score in fused search, in [0, 1]
	BM25Boost float64

	// SummaryMode selects local truncation or a remote summarizer
	SummaryMode string

	// MinStrength drops signals whose absolute sentiment is below it
	MinStrength float64

	// Whitelist restricts signals to these tickers when non-empty
	Whitelist []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TopK:        8,
		BM25Boost:   0.2,
		SummaryMode: SummaryLocal,
		MinStrength: 0.3,
	}
}

// Validate checks the configuration ranges.
func (c *Config) Validate() error {
	if err := core.ValidateSearchParams(c.TopK, c.BM25Boost); err != nil {
		return err
	}
	if c.SummaryMode != SummaryLocal && c.SummaryMode != SummaryOpenAI {
		return fmt.Errorf("%w: %q", ErrUnknownSummaryMode, c.SummaryMode)
	}
	if math.IsNaN(c.MinStrength) || c.MinStrength < 0 || c.MinStrength > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidMinStrength, c.MinStrength)
	}
	return nil
}

// StageObserver is notified after every stage with its duration and outcome.
type StageObserver interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
}

// Pipeline runs queries through the fixed stage sequence against one
// loaded snapshot. It is safe for concurrent use; each run owns its state.
type Pipeline struct {
	stages   []stage
	observer StageObserver
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// WithObserver reports stage timings to observer.
func WithObserver(observer StageObserver) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// NewPipeline creates a pipeline that searches snapshot with engine and
// uses provider for summaries, entities and sentiment. It fails with
// core.ErrIndexNotLoaded when snapshot cannot serve searches, so a
// constructed pipeline never hits that error per query.
func NewPipeline(engine *search.Engine, snapshot *search.Snapshot, provider ai.AIProvider, config *Config, opts ...Option) (*Pipeline, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if !snapshot.Loaded() {
		return nil, core.ErrIndexNotLoaded
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline")

	synthesize := summarizeLocal
	if config.SummaryMode == SummaryOpenAI {
		summarizer := provider.Summarizer()
		if summarizer == nil {
			return nil, ErrSummarizerRequired
		}
		synthesize = (&remoteSynthesizer{summarizer: summarizer, logger: p.logger}).summarize
	}

	whitelist := make(map[string]struct{}, len(config.Whitelist))
	for _, t := range config.Whitelist {
		whitelist[t] = struct{}{}
	}

	r := &retriever{
		engine:    engine,
		snapshot:  snapshot,
		topK:      config.TopK,
		bm25Boost: config.BM25Boost,
		logger:    p.logger,
	}
	entities := &entityStage{extractor: provider.EntityExtractor(), logger: p.logger}
	signals := &signalStage{
		scorer:      provider.SentimentScorer(),
		minStrength: config.MinStrength,
		whitelist:   whitelist,
		logger:      p.logger,
	}

	p.stages = []stage{
		{name: StagePlan, run: plan},
		{name: StageRetrieve, run: r.retrieve},
		{name: StageSynthesize, run: synthesize},
		{name: StageEntities, run: entities.extract},
		{name: StageSignals, run: signals.extract},
	}
	return p, nil
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Run executes every stage on a fresh state for query. The returned error
// is a retrieval failure or context cancellation; the partial state is
// returned alongside it.
func (p *Pipeline) Run(ctx context.Context, query string) (*core.PipelineState, error) {
	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID)
	logger.Debug("starting run", "query", query)

	state := core.NewPipelineState(query)
	started := time.Now()
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		stageStarted := time.Now()
		err := s.run(ctx, state)
		elapsed := time.Since(stageStarted)
		if p.observer != nil {
			p.observer.ObserveStage(s.name, elapsed, err)
		}
		if err != nil {
			logger.Error("stage failed", "stage", s.name, "err", err)
			return state, fmt.Errorf("%s: %w", s.name, err)
		}
		logger.Debug("stage complete", "stage", s.name, "elapsed", elapsed)
	}

	logger.Info("run complete",
		"docs", len(state.Docs),
		"entities", len(state.Entities),
		"signals", len(state.Signals),
		"elapsed", time.Since(started))
	return state, nil
}
