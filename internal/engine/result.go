package engine

import (
	"encoding/json"
	"os"

	"github.com/spigell/resume-fit/internal/matching"
	"github.com/spigell/resume-fit/internal/requirements"
)

// Result is the outcome of one analysis. Matched and Missing are never nil
// and together hold every scored phrase exactly once.
type Result struct {
	Score          int            `json:"score"`
	Matched        []string       `json:"matched"`
	Missing        []string       `json:"missing"`
	Phrases        []PhraseReport `json:"phrases"`
	Coverage       float64        `json:"coverage"`
	Semantic       float64        `json:"semantic"`
	SemanticMethod string         `json:"semantic_method,omitempty"`
	Bonus          int            `json:"bonus,omitempty"`
	Degraded       bool           `json:"degraded,omitempty"`
}

type PhraseReport struct {
	Text        string            `json:"text"`
	Tier        requirements.Tier `json:"tier"`
	Satisfied   bool              `json:"satisfied"`
	Method      matching.Method   `json:"method,omitempty"`
	Similarity  float64           `json:"similarity,omitempty"`
	Occurrences int               `json:"occurrences"`
}

func emptyResult() *Result {
	return &Result{
		Matched: []string{},
		Missing: []string{},
		Phrases: []PhraseReport{},
	}
}

// Tiers returns the tier of every scored phrase keyed by text.
func (r *Result) Tiers() map[string]requirements.Tier {
	tiers := make(map[string]requirements.Tier, len(r.Phrases))
	for _, p := range r.Phrases {
		tiers[p.Text] = p.Tier
	}
	return tiers
}

// DumpToTmpFile writes the result as indented JSON to a new temporary file and
// returns its name.
func (r *Result) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "resume-fit_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
