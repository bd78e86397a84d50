package textfeature

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/rs/zerolog/log"
)

// dishVocabulary is ordered: when several dishes occur in one text the
// earliest entry wins.
var dishVocabulary = []string{
	"pizza", "burger", "pasta", "salad", "soup", "steak", "fries", "tacos",
	"biryani", "sandwich", "wrap", "momos", "noodles", "ramen", "curry",
	"pancakes", "omelette",
}

var (
	ErrEmptyText   = errors.New("empty text")
	ErrInvalidText = errors.New("text is not valid utf-8")
)

// Vocabulary returns a copy of the ordered dish vocabulary.
func Vocabulary() []string {
	return append([]string(nil), dishVocabulary...)
}

// DishExtractor maps review text to a dish name from the vocabulary, or
// domain.UnknownDish.
type DishExtractor interface {
	ExtractDish(text string) string
}

// NounPhraseChunker splits text into noun-phrase spans in text order.
type NounPhraseChunker interface {
	Chunks(text string) ([]string, error)
}

// KeywordDishExtractor does a substring search over the vocabulary.
type KeywordDishExtractor struct{}

func (KeywordDishExtractor) ExtractDish(text string) string {
	if dish, ok := matchVocabulary(strings.ToLower(text)); ok {
		return dish
	}
	return domain.UnknownDish
}

// LinguisticDishExtractor looks for vocabulary keywords inside noun phrases
// and falls back to keyword matching when the chunker fails or no phrase
// holds a keyword.
type LinguisticDishExtractor struct {
	chunker  NounPhraseChunker
	fallback KeywordDishExtractor
}

func NewLinguisticDishExtractor(chunker NounPhraseChunker) *LinguisticDishExtractor {
	return &LinguisticDishExtractor{chunker: chunker}
}

func (e *LinguisticDishExtractor) ExtractDish(text string) string {
	chunks, err := e.chunker.Chunks(strings.ToLower(text))
	if err != nil {
		log.Debug().Err(err).Msg("noun phrase chunking failed, using keyword match")
		return e.fallback.ExtractDish(text)
	}

	for _, chunk := range chunks {
		if dish, ok := matchVocabulary(chunk); ok {
			return dish
		}
	}
	return e.fallback.ExtractDish(text)
}

// NewDishExtractor probes for the linguistic backend once. Callers get the
// keyword extractor when the capability is disabled or its lexicon cannot
// be loaded.
func NewDishExtractor(caps config.Capabilities) DishExtractor {
	if !caps.Linguistic {
		log.Info().Str("dish_extractor", "keyword").Msg("linguistic analysis disabled")
		return KeywordDishExtractor{}
	}

	chunker, err := NewRuleChunker()
	if err != nil {
		log.Warn().Err(err).Str("dish_extractor", "keyword").Msg("linguistic backend unavailable")
		return KeywordDishExtractor{}
	}

	log.Info().Str("dish_extractor", "linguistic").Msg("dish extractor selected")
	return NewLinguisticDishExtractor(chunker)
}

func matchVocabulary(lower string) (string, bool) {
	for _, dish := range dishVocabulary {
		if strings.Contains(lower, dish) {
			return dish, true
		}
	}
	return "", false
}

// RuleChunker is a lexicon driven noun-phrase chunker. A phrase is a maximal
// run of tokens that are not boundary words or punctuation. Determiners open
// a new phrase.
type RuleChunker struct {
	determiners map[string]struct{}
	boundaries  map[string]struct{}
}

func NewRuleChunker() (*RuleChunker, error) {
	var lex chunkerLexicon
	if err := loadLexicon("chunker.yaml", &lex); err != nil {
		return nil, err
	}
	if len(lex.Boundaries) == 0 {
		return nil, errors.New("chunker lexicon has no boundary words")
	}

	groups := make([][]string, 0, len(lex.Boundaries))
	for _, words := range lex.Boundaries {
		groups = append(groups, words)
	}

	return &RuleChunker{
		determiners: wordSet(lex.Determiners),
		boundaries:  wordSet(groups...),
	}, nil
}

func (c *RuleChunker) Chunks(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var chunks []string
	var current []string

	closeChunk := func() {
		if len(current) == 0 {
			return
		}
		// a lone determiner is not a phrase
		if len(current) > 1 || !c.isDeterminer(current[0]) {
			chunks = append(chunks, strings.Join(current, " "))
		}
		current = current[:0]
	}

	for _, tok := range tokenize(text) {
		switch {
		case isPunct(tok):
			closeChunk()
		case c.isBoundary(tok):
			closeChunk()
		case c.isDeterminer(tok):
			closeChunk()
			current = append(current, tok)
		default:
			current = append(current, tok)
		}
	}
	closeChunk()

	return chunks, nil
}

func (c *RuleChunker) isDeterminer(tok string) bool {
	_, ok := c.determiners[tok]
	return ok
}

func (c *RuleChunker) isBoundary(tok string) bool {
	_, ok := c.boundaries[tok]
	return ok
}
