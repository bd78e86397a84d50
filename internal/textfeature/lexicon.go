package textfeature

import (
	"embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon/*.yaml
var lexiconFS embed.FS

type sentimentLexicon struct {
	Polarity     map[string]float64 `yaml:"polarity"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

type chunkerLexicon struct {
	Determiners []string            `yaml:"determiners"`
	Boundaries  map[string][]string `yaml:"boundaries"`
}

func loadLexicon(name string, out interface{}) error {
	data, err := lexiconFS.ReadFile("lexicon/" + name)
	if err != nil {
		return fmt.Errorf("read lexicon %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode lexicon %s: %w", name, err)
	}
	return nil
}

func wordSet(words ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range words {
		for _, w := range group {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				set[w] = struct{}{}
			}
		}
	}
	return set
}

// tokenize lower-cases s and splits it into word tokens. Punctuation that
// separates clauses is kept as a single-rune token so callers can treat it
// as a boundary.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	tokens := make([]string, 0, 16)
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.Trim(b.String(), "'-"))
			b.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-':
			b.WriteRune(r)
		case r == '’':
			b.WriteRune('\'')
		case strings.ContainsRune(".,;:!?()", r):
			flush()
			tokens = append(tokens, string(r))
		default:
			flush()
		}
	}
	flush()

	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isPunct(tok string) bool {
	return len(tok) == 1 && strings.ContainsAny(tok, ".,;:!?()")
}
