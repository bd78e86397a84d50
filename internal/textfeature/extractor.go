package textfeature

import (
	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
)

// Features are the values derived from a single review text.
type Features struct {
	Dish      string
	Sentiment float64
	Label     domain.SentimentLabel
}

// Extractor derives dish and sentiment features from review text.
type Extractor struct {
	dishes DishExtractor
	scorer *Scorer
}

// NewExtractor resolves the dish extractor backend from caps and loads the
// sentiment lexicon.
func NewExtractor(caps config.Capabilities) (*Extractor, error) {
	scorer, err := NewScorer()
	if err != nil {
		return nil, err
	}
	return NewExtractorWith(NewDishExtractor(caps), scorer), nil
}

func NewExtractorWith(dishes DishExtractor, scorer *Scorer) *Extractor {
	return &Extractor{dishes: dishes, scorer: scorer}
}

func (e *Extractor) Extract(text string) Features {
	sentiment := e.scorer.Polarity(text)
	return Features{
		Dish:      e.dishes.ExtractDish(text),
		Sentiment: sentiment,
		Label:     Label(sentiment),
	}
}

// Enrich derives features for every review in tables. When the review table
// has no text column every review is Unknown with a neutral score.
func (e *Extractor) Enrich(tables domain.Tables) []domain.EnrichedReview {
	out := make([]domain.EnrichedReview, 0, len(tables.Reviews))
	for _, r := range tables.Reviews {
		enriched := domain.EnrichedReview{
			Review:         r,
			Dish:           domain.UnknownDish,
			SentimentLabel: domain.SentimentNeutral,
		}
		if tables.HasText {
			f := e.Extract(r.Text)
			enriched.Dish = f.Dish
			enriched.Sentiment = f.Sentiment
			enriched.SentimentLabel = f.Label
		}
		out = append(out, enriched)
	}
	return out
}
