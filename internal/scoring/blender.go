// Package scoring blends phrase coverage and document similarity into the
// final 0..100 score.
package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/resume-fit/internal/matching"
)

const (
	DefaultCoverageWeight = 0.6
	DefaultSemanticWeight = 0.4

	MaxRepeatBonus = 5
	// repeatMinOccurrences is how often a matched phrase has to appear in the
	// candidate to earn a bonus point.
	repeatMinOccurrences = 2
)

type Config struct {
	CoverageWeight float64
	SemanticWeight float64
	// RepeatBonus caps the bonus points; 0 disables the bonus.
	RepeatBonus int
}

// Result is the blended score with its components.
type Result struct {
	Score         int      `json:"score"`
	Coverage      float64  `json:"coverage"`
	Semantic      float64  `json:"semantic"`
	Bonus         int      `json:"bonus"`
	MatchedWeight int      `json:"matched_weight"`
	TotalWeight   int      `json:"total_weight"`
	Matched       []string `json:"matched"`
	Missing       []string `json:"missing"`
}

type Blender struct {
	coverageWeight float64
	semanticWeight float64
	repeatCap      int
}

// NewBlender validates cfg and normalizes the weights to sum to 1. Both
// weights left at zero select the defaults.
func NewBlender(cfg Config) (*Blender, error) {
	cw, sw := cfg.CoverageWeight, cfg.SemanticWeight
	if cw < 0 || sw < 0 {
		return nil, fmt.Errorf("weights must not be negative (coverage %v, semantic %v)", cw, sw)
	}
	if cw == 0 && sw == 0 {
		cw, sw = DefaultCoverageWeight, DefaultSemanticWeight
	}
	if cfg.RepeatBonus < 0 || cfg.RepeatBonus > MaxRepeatBonus {
		return nil, fmt.Errorf("repeat bonus must be within 0..%d, got %d", MaxRepeatBonus, cfg.RepeatBonus)
	}

	total := cw + sw
	return &Blender{
		coverageWeight: cw / total,
		semanticWeight: sw / total,
		repeatCap:      cfg.RepeatBonus,
	}, nil
}

// Weights returns the normalized coverage and semantic weights.
func (b *Blender) Weights() (float64, float64) {
	return b.coverageWeight, b.semanticWeight
}

// Blend scores the decisions. semantic is clamped to [0, 1]. An empty
// decision set scores 0 whatever the semantic similarity.
func (b *Blender) Blend(decisions []matching.Decision, semantic float64) Result {
	res := Result{
		Semantic: clamp(semantic, 0, 1),
		Matched:  make([]string, 0, len(decisions)),
		Missing:  make([]string, 0, len(decisions)),
	}

	repeated := 0
	for _, d := range decisions {
		weight := int(d.Phrase.Tier)
		res.TotalWeight += weight
		if !d.Satisfied {
			res.Missing = append(res.Missing, d.Phrase.Text)
			continue
		}
		res.MatchedWeight += weight
		res.Matched = append(res.Matched, d.Phrase.Text)
		if d.Occurrences >= repeatMinOccurrences {
			repeated++
		}
	}

	if res.TotalWeight == 0 {
		return res
	}

	res.Coverage = float64(res.MatchedWeight) / float64(res.TotalWeight)
	res.Bonus = min(repeated, b.repeatCap)

	blended := math.Round(100 * (b.coverageWeight*res.Coverage + b.semanticWeight*res.Semantic))
	res.Score = int(clamp(blended+float64(res.Bonus), 0, 100))

	return res
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
