package textfeature

import (
	"testing"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer_Polarity(t *testing.T) {
	scorer, err := NewScorer()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"positive word", "The pizza was amazing", 0.6},
		{"negative word", "terrible soup", -1.0},
		{"no sentiment words", "the food arrived", 0},
		{"empty", "", 0},
		{"negation", "not good", -0.35},
		{"intensifier", "very good", 0.91},
		{"intensifier is clamped", "absolutely perfect", 1.0},
		{"mixed words average", "good but cold", 0.05},
		{"negation stops at punctuation", "not bad. terrible", -0.325},
		{"negated intensified", "not very good", -0.455},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Polarity(tt.text)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScorer_Deterministic(t *testing.T) {
	scorer, err := NewScorer()
	require.NoError(t, err)

	text := "Really tasty burger but the fries were soggy and cold"
	assert.Equal(t, scorer.Polarity(text), scorer.Polarity(text))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.SentimentLabel
	}{
		{0.5, domain.SentimentPositive},
		{0.1000001, domain.SentimentPositive},
		{0.1, domain.SentimentNeutral},
		{0, domain.SentimentNeutral},
		{-0.1, domain.SentimentNeutral},
		{-0.1000001, domain.SentimentNegative},
		{-1, domain.SentimentNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %v", tt.score)
	}
}

func TestExtractor_Enrich(t *testing.T) {
	extractor, err := NewExtractor(config.Capabilities{Linguistic: true})
	require.NoError(t, err)

	tables := domain.Tables{
		HasText: true,
		Reviews: []domain.Review{
			{Text: "The pizza was amazing"},
			{Text: "terrible soup"},
			{Text: "Great service"},
		},
	}

	got := extractor.Enrich(tables)
	require.Len(t, got, 3)

	assert.Equal(t, "pizza", got[0].Dish)
	assert.Equal(t, domain.SentimentPositive, got[0].SentimentLabel)
	assert.Equal(t, "soup", got[1].Dish)
	assert.Equal(t, domain.SentimentNegative, got[1].SentimentLabel)
	assert.Equal(t, domain.UnknownDish, got[2].Dish)
	assert.Equal(t, domain.SentimentPositive, got[2].SentimentLabel)
	assert.Equal(t, "terrible soup", got[1].Text)
}

func TestExtractor_EnrichWithoutTextColumn(t *testing.T) {
	extractor, err := NewExtractor(config.Capabilities{})
	require.NoError(t, err)

	got := extractor.Enrich(domain.Tables{
		HasText: false,
		Reviews: []domain.Review{{}, {}},
	})

	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, domain.UnknownDish, r.Dish)
		assert.Zero(t, r.Sentiment)
		assert.Equal(t, domain.SentimentNeutral, r.SentimentLabel)
	}
}
