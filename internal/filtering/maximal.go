package filtering

import (
	"context"

	"github.com/spigell/resume-fit/internal/requirements"
	"github.com/spigell/resume-fit/internal/textnorm"
)

type maximalFilter struct {
	toggle
}

// NewMaximal creates a filter that drops a phrase when a longer surviving
// phrase contains it as a whole-word run.
func NewMaximal() Filter {
	return &maximalFilter{}
}

func (f *maximalFilter) Name() string { return "maximal" }

func (f *maximalFilter) Validate(*Config) error { return nil }

func (f *maximalFilter) Apply(_ context.Context, _ Deps, p *requirements.Phrases) (*requirements.Phrases, Step, error) {
	words := make([][]string, p.Len())
	for i, phrase := range p.Items {
		words[i] = phrase.Words()
	}

	covered := make(map[string]bool, p.Len())
	for i, inner := range words {
		for j, outer := range words {
			if i == j || len(outer) <= len(inner) {
				continue
			}
			if textnorm.Contains(outer, inner) {
				covered[p.Items[i].Text] = true
				break
			}
		}
	}

	p, step, _ := drop(p, func(phrase *requirements.Phrase) bool {
		return covered[phrase.Text]
	})
	return p, step, nil
}

func (f *maximalFilter) Status() Status {
	return f.status(f.Name(), nil)
}
