package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/requirements"
)

type noiseFilter struct {
	toggle
}

// NewNoise creates a filter that removes phrases starting or ending with a
// stop, fluff or cue word.
func NewNoise() Filter {
	return &noiseFilter{}
}

func (f *noiseFilter) Name() string { return "noise" }

func (f *noiseFilter) Validate(*Config) error { return nil }

func (f *noiseFilter) Apply(_ context.Context, deps Deps, p *requirements.Phrases) (*requirements.Phrases, Step, error) {
	v := deps.Vocabulary
	p, step, removed := drop(p, func(phrase *requirements.Phrase) bool {
		words := phrase.Words()
		if len(words) == 0 {
			return true
		}
		return v.IsNoise(words[0]) || v.IsNoise(words[len(words)-1])
	})

	if len(removed) > 0 {
		deps.Logger.Debug("dropping boilerplate phrases", zap.Strings("phrases", removed))
	}

	return p, step, nil
}

func (f *noiseFilter) Status() Status {
	return f.status(f.Name(), nil)
}
