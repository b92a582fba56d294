package filtering

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spigell/resume-fit/internal/requirements"
	"github.com/spigell/resume-fit/internal/textnorm"
)

type lengthFilter struct {
	toggle
	maxWords int
}

// NewLength creates a filter that removes phrases that are too long, too
// short or carry no letter.
func NewLength() Filter {
	return &lengthFilter{}
}

func (f *lengthFilter) Name() string { return "length" }

func (f *lengthFilter) Validate(cfg *Config) error {
	f.maxWords = cfg.MaxWords
	if f.maxWords == 0 {
		f.maxWords = requirements.DefaultMaxWords
	}
	if f.maxWords < 1 {
		return fmt.Errorf("max words must be positive, got %d", f.maxWords)
	}
	return nil
}

func (f *lengthFilter) Apply(_ context.Context, _ Deps, p *requirements.Phrases) (*requirements.Phrases, Step, error) {
	p, step, _ := drop(p, func(phrase *requirements.Phrase) bool {
		words := phrase.Words()
		switch {
		case len(words) == 0, len(words) > f.maxWords:
			return true
		case utf8.RuneCountInString(phrase.Text) < 2:
			return true
		default:
			return !textnorm.HasLetter(phrase.Text)
		}
	})
	return p, step, nil
}

func (f *lengthFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"max_words": strconv.Itoa(f.maxWords)})
}
