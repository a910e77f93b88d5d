package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:    "valid chunk",
			chunk:   &Chunk{DocumentID: "a.txt", ChunkIndex: 0, Text: "hello"},
			wantErr: nil,
		},
		{
			name:    "valid chunk with nil metadata",
			chunk:   &Chunk{DocumentID: "a.txt", ChunkIndex: 3, Text: "hello", Metadata: nil},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			chunk:   &Chunk{DocumentID: "a.txt"},
			wantErr: ErrEmptyText,
		},
		{
			name:    "negative index",
			chunk:   &Chunk{DocumentID: "a.txt", ChunkIndex: -1, Text: "x"},
			wantErr: ErrNegativeChunkIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidChunk) {
				t.Errorf("ValidateChunk() error should wrap ErrInvalidChunk, got %v", err)
			}
		})
	}
}

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr bool
	}{
		{name: "ticker", entity: &Entity{Kind: EntityTicker, Value: "MSFT"}},
		{name: "metric with evidence", entity: &Entity{Kind: EntityMetric, Value: "EPS $2.10", Evidence: "EPS of $2.10"}},
		{name: "nil", entity: nil, wantErr: true},
		{name: "unknown kind", entity: &Entity{Kind: "person", Value: "Tim"}, wantErr: true},
		{name: "empty value", entity: &Entity{Kind: EntityDate}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEntity) {
					t.Errorf("ValidateEntity() error = %v, want ErrInvalidEntity", err)
				}
			} else if err != nil {
				t.Errorf("ValidateEntity() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateSignal(t *testing.T) {
	tests := []struct {
		name    string
		signal  *Signal
		wantErr bool
	}{
		{name: "bullish", signal: &Signal{Ticker: "AAPL", Sentiment: 0.9}},
		{name: "bounds", signal: &Signal{Ticker: "AAPL", Sentiment: -1}},
		{name: "nil", signal: nil, wantErr: true},
		{name: "missing ticker", signal: &Signal{Sentiment: 0.5}, wantErr: true},
		{name: "above range", signal: &Signal{Ticker: "AAPL", Sentiment: 1.01}, wantErr: true},
		{name: "NaN", signal: &Signal{Ticker: "AAPL", Sentiment: math.NaN()}, wantErr: true},
		{name: "evidence too long", signal: &Signal{Ticker: "AAPL", Evidence: strings.Repeat("x", MaxSignalEvidence+1)}, wantErr: true},
		{name: "evidence at limit", signal: &Signal{Ticker: "AAPL", Evidence: strings.Repeat("x", MaxSignalEvidence)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignal(tt.signal)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSignal) {
					t.Errorf("ValidateSignal() error = %v, want ErrInvalidSignal", err)
				}
			} else if err != nil {
				t.Errorf("ValidateSignal() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateSearchParams(t *testing.T) {
	tests := []struct {
		name    string
		topK    int
		boost   float64
		wantErr bool
	}{
		{name: "defaults", topK: 8, boost: 0.2},
		{name: "pure vector", topK: 1, boost: 0},
		{name: "pure lexical", topK: 1, boost: 1},
		{name: "zero top k", topK: 0, boost: 0.2, wantErr: true},
		{name: "negative boost", topK: 3, boost: -0.1, wantErr: true},
		{name: "boost above one", topK: 3, boost: 1.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchParams(tt.topK, tt.boost)
			if tt.wantErr != (err != nil) {
				t.Errorf("ValidateSearchParams(%d, %v) error = %v, wantErr %v", tt.topK, tt.boost, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSearchParams) {
				t.Errorf("error should wrap ErrInvalidSearchParams, got %v", err)
			}
		})
	}
}

func TestValidateIndexData(t *testing.T) {
	valid := &IndexData{
		Chunks:  ChunkList{{Text: "a"}, {Text: "b"}},
		Vectors: VectorSet{Dim: 2, Vectors: [][]float32{{1, 0}, {0, 1}}},
		Tokens:  TokenCorpus{{"a"}, {"b"}},
	}
	if err := ValidateIndexData(valid); err != nil {
		t.Fatalf("ValidateIndexData() unexpected error = %v", err)
	}

	if err := ValidateIndexData(&IndexData{}); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("empty data error = %v, want ErrEmptyCorpus", err)
	}

	short := *valid
	short.Tokens = TokenCorpus{{"a"}}
	if err := ValidateIndexData(&short); !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("length mismatch error = %v, want ErrCorruptIndex", err)
	}

	badDim := *valid
	badDim.Vectors = VectorSet{Dim: 3, Vectors: [][]float32{{1, 0}, {0, 1}}}
	if err := ValidateIndexData(&badDim); !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("dimension mismatch error = %v, want ErrCorruptIndex", err)
	}
}
