package mock

import (
	"context"
	"testing"

	"github.com/poiesic/alphagraph/ai"
	"github.com/poiesic/alphagraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder()
	ctx := context.Background()

	a, err := e.EmbedText(ctx, "apple revenue")
	require.NoError(t, err)
	b, err := e.EmbedText(ctx, "apple revenue")
	require.NoError(t, err)
	c, err := e.EmbedText(ctx, "tesla deliveries")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimension)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, e.CallCount())

	batch, err := e.EmbedTexts(ctx, []string{"apple revenue", "tesla deliveries"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{a, c}, batch)

	e.Reset()
	assert.Equal(t, 0, e.CallCount())
}

func TestMockEmbedder_CustomDim(t *testing.T) {
	e := &MockEmbedder{Dim: 4}
	v, err := e.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, v, 4)
}

func TestMockEntityExtractor_Default(t *testing.T) {
	x := NewMockEntityExtractor()
	ents, err := x.ExtractEntities(context.Background(), "AAPL beat while MSFT and AAPL held")
	require.NoError(t, err)
	require.Len(t, ents, 2)
	assert.Equal(t, core.EntityTicker, ents[0].Kind)
	assert.Equal(t, "AAPL", ents[0].Value)
	assert.Equal(t, "MSFT", ents[1].Value)
}

func TestMockSentimentScorer_Default(t *testing.T) {
	s := NewMockSentimentScorer()
	ctx := context.Background()

	pos, err := s.ScoreSentiment(ctx, "record growth and strong guidance")
	require.NoError(t, err)
	assert.Equal(t, ai.SentimentPositive, pos.Label)

	neg, err := s.ScoreSentiment(ctx, "revenue decline and a lawsuit")
	require.NoError(t, err)
	assert.Equal(t, ai.SentimentNegative, neg.Label)

	neu, err := s.ScoreSentiment(ctx, "the meeting is on Tuesday")
	require.NoError(t, err)
	assert.Equal(t, ai.SentimentNeutral, neu.Label)
	assert.Zero(t, neu.Signed())

	assert.Len(t, s.Inputs(), 3)
}

func TestMockProvider_NilSentiment(t *testing.T) {
	p := NewMockProviderWithServices(NewMockEmbedder(), NewMockSummarizer(), NewMockEntityExtractor(), nil)
	assert.Nil(t, p.SentimentScorer())
	assert.NotNil(t, p.Embedder())
	assert.NoError(t, p.Close())
}
