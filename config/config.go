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

// Package config loads the YAML configuration file shared by the index
// and query commands.
//
// A missing file yields DefaultConfig. Keys not known to Config are
// rejected so that typos surface instead of silently keeping defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/ingestion"
	"github.com/poiesic/alphagraph/pipeline"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is named.
const DefaultPath = "config.yaml"

// APIKeyEnv names the environment variable consulted when ai.api_key is empty.
const APIKeyEnv = "OPENAI_API_KEY"

// ChunkConfig controls document chunking.
type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrieveConfig controls fused search.
type RetrieveConfig struct {
	TopK      int     `yaml:"top_k"`
	BM25Boost float64 `yaml:"bm25_boost"`
}

// AlphaConfig controls signal extraction.
type AlphaConfig struct {
	MinSentimentStrength float64  `yaml:"min_sentiment_strength"`
	TickerWhitelist      []string `yaml:"ticker_whitelist"`
}

// AIConfig locates the embedding and chat endpoints.
type AIConfig struct {
	EmbeddingHost     string        `yaml:"embedding_host"`
	LLMHost           string        `yaml:"llm_host"`
	APIKey            string        `yaml:"api_key"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BreakerFailures   uint32        `yaml:"breaker_failures"`
	BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
}

// Config is the contents of config.yaml.
type Config struct {
	EmbeddingModel string         `yaml:"embedding_model"`
	SummaryModel   string         `yaml:"summary_model"`
	OpenAIModel    string         `yaml:"openai_model"`
	Chunk          ChunkConfig    `yaml:"chunk"`
	Retrieve       RetrieveConfig `yaml:"retrieve"`
	Alpha          AlphaConfig    `yaml:"alpha"`
	AI             AIConfig       `yaml:"ai"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	aiDefaults := ai.DefaultConfig()
	pipelineDefaults := pipeline.DefaultConfig()
	return &Config{
		EmbeddingModel: aiDefaults.EmbeddingModel,
		SummaryModel:   pipelineDefaults.SummaryMode,
		OpenAIModel:    aiDefaults.LLMModel,
		Chunk: ChunkConfig{
			Size:    ingestion.DefaultChunkSize,
			Overlap: ingestion.DefaultChunkOverlap,
		},
		Retrieve: RetrieveConfig{
			TopK:      pipelineDefaults.TopK,
			BM25Boost: pipelineDefaults.BM25Boost,
		},
		Alpha: AlphaConfig{
			MinSentimentStrength: pipelineDefaults.MinStrength,
		},
		AI: AIConfig{
			EmbeddingHost:   aiDefaults.EmbeddingHost,
			LLMHost:         aiDefaults.LLMHost,
			BreakerFailures: aiDefaults.BreakerFailures,
			BreakerTimeout:  aiDefaults.BreakerTimeout,
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error. An empty path reads DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv(APIKeyEnv)
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: embedding_model is required", ErrInvalidConfig)
	}
	if c.Chunk.Size < 1 || c.Chunk.Overlap < 0 || c.Chunk.Overlap >= c.Chunk.Size {
		return fmt.Errorf("%w: chunk overlap must be in [0, size), got size %d overlap %d",
			ErrInvalidConfig, c.Chunk.Size, c.Chunk.Overlap)
	}
	if err := c.Pipeline().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Pipeline returns the pipeline parameters described by the file.
func (c *Config) Pipeline() *pipeline.Config {
	return &pipeline.Config{
		TopK:        c.Retrieve.TopK,
		BM25Boost:   c.Retrieve.BM25Boost,
		SummaryMode: c.SummaryModel,
		MinStrength: c.Alpha.MinSentimentStrength,
		Whitelist:   append([]string(nil), c.Alpha.TickerWhitelist...),
	}
}

// AIConfig returns the provider configuration described by the file.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithLLMHost(c.AI.LLMHost),
		ai.WithEmbeddingModel(c.EmbeddingModel),
		ai.WithLLMModel(c.OpenAIModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithRequestsPerSecond(c.AI.RequestsPerSecond),
		ai.WithCircuitBreaker(c.AI.BreakerFailures, c.AI.BreakerTimeout),
	)
}
