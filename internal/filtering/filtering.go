// Package filtering prunes extracted requirement candidates down to the
// phrases worth scoring.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/requirements"
	"github.com/spigell/resume-fit/internal/vocabulary"
)

const (
	DefaultMinPhraseCount      = 2
	DefaultShortDocumentTokens = 60
)

// Filter represents a single filtering step applied to requirement phrases.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, p *requirements.Phrases) (*requirements.Phrases, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger     *zap.Logger
	Vocabulary *vocabulary.Vocabulary
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MaxWords            int
	MinPhraseCount      int
	ShortDocumentTokens int
	ExcludeFile         string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns a fresh filter chain in execution order. Filters keep
// per-run state after Validate, so a chain must not be shared between runs.
func Default() []Filter {
	return []Filter{
		NewNoise(),
		NewLength(),
		NewFrequency(),
		NewExcludeFile(),
		NewMaximal(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the surviving phrases.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, p *requirements.Phrases) (*requirements.Phrases, error) {
	deps.Logger = logger.OrNop(deps.Logger)
	if deps.Vocabulary == nil {
		v, err := vocabulary.Default()
		if err != nil {
			return nil, fmt.Errorf("loading default vocabulary: %w", err)
		}
		deps.Vocabulary = v
	}
	if cfg == nil {
		cfg = &Config{}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		p = next
	}

	return p, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// toggle carries the enable/disable state every filter shares.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) status(name string, details map[string]string) Status {
	return Status{Name: name, Enabled: !t.disabled, Reason: t.reason, Details: details}
}

func drop(p *requirements.Phrases, fn func(*requirements.Phrase) bool) (*requirements.Phrases, Step, []string) {
	initial := p.Len()
	removed := p.RemoveFunc(fn)
	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, removed
}
