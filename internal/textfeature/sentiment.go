package textfeature

import (
	"github.com/AnasB0/Resto-Pro/internal/domain"
)

const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1

	negationWindow = 3
	negationFactor = -0.5
)

// Scorer computes a lexical polarity score in [-1, 1].
type Scorer struct {
	polarity     map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewScorer builds a Scorer from the embedded sentiment lexicon.
func NewScorer() (*Scorer, error) {
	var lex sentimentLexicon
	if err := loadLexicon("sentiment.yaml", &lex); err != nil {
		return nil, err
	}

	return &Scorer{
		polarity:     lex.Polarity,
		intensifiers: lex.Intensifiers,
		negations:    wordSet(lex.Negations),
	}, nil
}

// Polarity returns the mean polarity of the sentiment-bearing words in text.
// Text with no such words scores 0.
func (s *Scorer) Polarity(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	var n int
	for i, tok := range tokens {
		p, ok := s.polarity[tok]
		if !ok {
			continue
		}

		if i > 0 {
			if m, ok := s.intensifiers[tokens[i-1]]; ok {
				p = clamp(p * m)
			}
		}

		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			if isPunct(tokens[j]) {
				break
			}
			if _, ok := s.negations[tokens[j]]; ok {
				p *= negationFactor
				break
			}
		}

		sum += p
		n++
	}

	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

// Label maps a sentiment score to its categorical label.
func Label(score float64) domain.SentimentLabel {
	switch {
	case score > positiveThreshold:
		return domain.SentimentPositive
	case score < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
