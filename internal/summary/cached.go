package summary

import (
	"context"

	"github.com/AnasB0/Resto-Pro/internal/cache"
	"github.com/rs/zerolog/log"
)

// CachedSummarizer serves repeated summary requests from a cache. Failure
// messages are never cached.
type CachedSummarizer struct {
	next  Summarizer
	cache cache.SummaryCache
	model string
}

func NewCachedSummarizer(next Summarizer, c cache.SummaryCache, model string) *CachedSummarizer {
	return &CachedSummarizer{next: next, cache: c, model: model}
}

func (s *CachedSummarizer) Summarize(ctx context.Context, text string) string {
	if cached, ok, err := s.cache.Get(ctx, s.model, text); err != nil {
		log.Warn().Err(err).Msg("failed to read summary cache")
	} else if ok {
		return cached
	}

	out := s.next.Summarize(ctx, text)
	if IsFailure(out) {
		return out
	}

	if err := s.cache.Set(ctx, s.model, text, out); err != nil {
		log.Warn().Err(err).Msg("failed to write summary cache")
	}
	return out
}
