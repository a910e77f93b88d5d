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

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/alphagraph"
	"github.com/poiesic/alphagraph/config"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/indexer"
	"github.com/poiesic/alphagraph/metrics"
	"github.com/urfave/cli/v2"
)

// docPreviewChars is the number of characters of each retrieved chunk printed by query.
const docPreviewChars = 180

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML configuration file (defaults apply if it does not exist)",
		Value:   config.DefaultPath,
	}
}

func indexDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "index-dir",
		Usage: "Directory holding the index artifacts",
		Value: "./index",
	}
}

func metricsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "metrics-out",
		Usage: "Write Prometheus metrics to this file when done",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "alphagraph",
		Usage: "Hybrid retrieval and signal extraction over a private document corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Chunk, embed and index every document in a directory",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data-dir",
						Usage: "Directory of .txt, .md, .html, .pdf and .xlsx documents",
						Value: "./data",
					},
					indexDirFlag(),
					configFlag(),
					metricsFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks per embedding request",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of embedding requests in flight",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per embedding batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Embed every chunk even if a cached embedding exists",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a query from the index and extract signals",
				ArgsUsage: "<query text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					indexDirFlag(),
					configFlag(),
					metricsFlag(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to retrieve (overrides retrieve.top_k)",
					},
					&cli.Float64Flag{
						Name:  "bm25-boost",
						Usage: "Weight of the lexical score in [0, 1] (overrides retrieve.bm25_boost)",
					},
					&cli.StringFlag{
						Name:  "summary-mode",
						Usage: "Summary strategy: local or openai (overrides summary_model)",
					},
					&cli.Float64Flag{
						Name:  "min-strength",
						Usage: "Minimum absolute sentiment for a signal (overrides alpha.min_sentiment_strength)",
					},
					&cli.StringSliceFlag{
						Name:  "whitelist",
						Usage: "Only report signals for these tickers (overrides alpha.ticker_whitelist)",
					},
				},
			},
		},
	}
}

func indexCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	buildConfig := &indexer.Config{
		BatchSize:      c.Int("batch-size"),
		PoolSize:       c.Int("pool-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if buildConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if buildConfig.PoolSize <= 0 {
		return fmt.Errorf("pool-size must be greater than 0")
	}
	if buildConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if buildConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	recorder, opts := metricsOption(c)
	engine, err := alphagraph.NewEngine(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	dataDir, indexDir := c.String("data-dir"), c.String("index-dir")
	errOut := c.App.ErrWriter
	fmt.Fprintf(errOut, "Data: %s\n", dataDir)
	fmt.Fprintf(errOut, "Index: %s\n", indexDir)
	fmt.Fprintf(errOut, "Embedding model: %s\n", cfg.EmbeddingModel)
	fmt.Fprintln(errOut)

	result, err := engine.Index(ctx, dataDir, indexDir, alphagraph.IndexOptions{
		Build:    buildConfig,
		Progress: errOut,
		NoCache:  c.Bool("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Loaded %d chunks from %s\n", result.Chunks, dataDir)
	fmt.Fprintf(c.App.Writer, "Built index at %s\n", indexDir)
	return writeMetrics(c, recorder)
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("query text is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("summary-mode") {
		cfg.SummaryModel = c.String("summary-mode")
	}

	recorder, opts := metricsOption(c)
	engine, err := alphagraph.NewEngine(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	p := cfg.Pipeline()
	if c.IsSet("top-k") {
		p.TopK = c.Int("top-k")
	}
	if c.IsSet("bm25-boost") {
		p.BM25Boost = c.Float64("bm25-boost")
	}
	if c.IsSet("min-strength") {
		p.MinStrength = c.Float64("min-strength")
	}
	if c.IsSet("whitelist") {
		p.Whitelist = c.StringSlice("whitelist")
	}

	state, err := engine.Query(c.Context, c.String("index-dir"), query, p)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	printState(c.App.Writer, state)
	return writeMetrics(c, recorder)
}

func metricsOption(c *cli.Context) (*metrics.Recorder, []alphagraph.EngineOption) {
	if c.String("metrics-out") == "" {
		return nil, nil
	}
	recorder := metrics.NewRecorder()
	return recorder, []alphagraph.EngineOption{alphagraph.WithMetrics(recorder)}
}

func writeMetrics(c *cli.Context, recorder *metrics.Recorder) error {
	if recorder == nil {
		return nil
	}
	return recorder.WriteTextfile(c.String("metrics-out"))
}

// printState writes the plan, retrieved documents, summary and signals of a run.
func printState(w io.Writer, state *core.PipelineState) {
	fmt.Fprintf(w, "\nPlan: %s\n", state.Plan)

	fmt.Fprintln(w, "\nTop Docs:")
	for i, d := range state.Docs {
		src := d.Metadata[core.MetadataSource]
		if src == "" {
			src = "-"
		}
		fmt.Fprintf(w, "%2d score=%.3f src=%s\n %s\n", i+1, d.Score, src, preview(d.Text))
	}

	fmt.Fprintf(w, "\nSummary:\n %s\n", state.Summary)

	fmt.Fprintln(w, "\nSignals:")
	for _, s := range state.Signals {
		direction := "bearish"
		if s.Bullish() {
			direction = "bullish"
		}
		fmt.Fprintf(w, "- %s: %s (%+.2f)\n  evidence: %s\n", s.Ticker, direction, s.Sentiment, s.Evidence)
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= docPreviewChars {
		return strings.ReplaceAll(text, "\n", " ")
	}
	return strings.ReplaceAll(string(runes[:docPreviewChars]), "\n", " ") + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
