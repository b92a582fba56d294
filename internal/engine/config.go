package engine

import (
	"github.com/spigell/resume-fit/internal/filtering"
	"github.com/spigell/resume-fit/internal/matching"
	"github.com/spigell/resume-fit/internal/requirements"
	"github.com/spigell/resume-fit/internal/scoring"
)

// Config tunes the analysis. Start from DefaultConfig; zero numeric fields
// fall back to the component defaults.
type Config struct {
	Extractor           string  `mapstructure:"extractor" yaml:"extractor"`
	MaxWords            int     `mapstructure:"max-words" yaml:"max-words"`
	MinPhraseCount      int     `mapstructure:"min-phrase-count" yaml:"min-phrase-count"`
	ShortDocumentTokens int     `mapstructure:"short-document-tokens" yaml:"short-document-tokens"`
	CueWindow           int     `mapstructure:"cue-window" yaml:"cue-window"`
	SimilarityThreshold float64 `mapstructure:"similarity-threshold" yaml:"similarity-threshold"`
	CoverageWeight      float64 `mapstructure:"coverage-weight" yaml:"coverage-weight"`
	SemanticWeight      float64 `mapstructure:"semantic-weight" yaml:"semantic-weight"`
	RepeatBonus         int     `mapstructure:"repeat-bonus" yaml:"repeat-bonus"`
	KeepSymbols         bool    `mapstructure:"keep-symbols" yaml:"keep-symbols"`

	// ExcludeFile lists phrases that are never scored.
	ExcludeFile string `mapstructure:"-" yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Extractor:           requirements.NameNgram,
		MaxWords:            requirements.DefaultMaxWords,
		MinPhraseCount:      filtering.DefaultMinPhraseCount,
		ShortDocumentTokens: filtering.DefaultShortDocumentTokens,
		CueWindow:           requirements.DefaultCueWindow,
		SimilarityThreshold: matching.DefaultThreshold,
		CoverageWeight:      scoring.DefaultCoverageWeight,
		SemanticWeight:      scoring.DefaultSemanticWeight,
		RepeatBonus:         0,
		KeepSymbols:         true,
	}
}

func (c Config) filtering() *filtering.Config {
	return &filtering.Config{
		MaxWords:            c.MaxWords,
		MinPhraseCount:      c.MinPhraseCount,
		ShortDocumentTokens: c.ShortDocumentTokens,
		ExcludeFile:         c.ExcludeFile,
	}
}
