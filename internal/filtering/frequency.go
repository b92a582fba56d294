package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/requirements"
)

type frequencyFilter struct {
	toggle
	minCount    int
	shortTokens int
}

// NewFrequency creates a filter that keeps multi-word phrases only when they
// repeat in the requirement document. Short documents need one occurrence.
func NewFrequency() Filter {
	return &frequencyFilter{}
}

func (f *frequencyFilter) Name() string { return "frequency" }

func (f *frequencyFilter) Validate(cfg *Config) error {
	f.minCount = cfg.MinPhraseCount
	if f.minCount == 0 {
		f.minCount = DefaultMinPhraseCount
	}
	f.shortTokens = cfg.ShortDocumentTokens
	if f.shortTokens == 0 {
		f.shortTokens = DefaultShortDocumentTokens
	}
	if f.minCount < 1 {
		return fmt.Errorf("min phrase count must be positive, got %d", f.minCount)
	}
	if f.shortTokens < 0 {
		return fmt.Errorf("short document tokens must not be negative, got %d", f.shortTokens)
	}
	return nil
}

// Threshold returns the minimum occurrence count for a multi-word phrase in a
// document with the given number of content tokens.
func (f *frequencyFilter) Threshold(contentTokens int) int {
	if contentTokens < f.shortTokens {
		return 1
	}
	return f.minCount
}

func (f *frequencyFilter) Apply(_ context.Context, deps Deps, p *requirements.Phrases) (*requirements.Phrases, Step, error) {
	threshold := f.Threshold(p.ContentTokens)
	p, step, removed := drop(p, func(phrase *requirements.Phrase) bool {
		return len(phrase.Words()) > 1 && phrase.Occurrences < threshold
	})

	if len(removed) > 0 {
		deps.Logger.Debug("dropping rare multi-word phrases",
			zap.Int("threshold", threshold),
			zap.Int("content_tokens", p.ContentTokens),
			zap.Int("dropped", len(removed)),
		)
	}

	return p, step, nil
}

func (f *frequencyFilter) Status() Status {
	return f.status(f.Name(), map[string]string{
		"min_phrase_count":      strconv.Itoa(f.minCount),
		"short_document_tokens": strconv.Itoa(f.shortTokens),
	})
}
