// Package vocabulary holds the word lists the matching engine depends on:
// synonyms, stop and fluff words, importance cues and the skills dictionary.
package vocabulary

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/kljensen/snowball/english"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-fit/internal/textnorm"
)

//go:embed default.yaml
var defaultYAML []byte

// Vocabulary is the decoded form of a vocabulary file. Use Default or Load to
// get a compiled value; the lookup methods are safe for concurrent use.
type Vocabulary struct {
	Synonyms  map[string][]string `yaml:"synonyms"`
	Stopwords []string            `yaml:"stopwords"`
	Fluff     []string            `yaml:"fluff"`
	Cues      map[int][]string    `yaml:"cues"`
	Skills    []string            `yaml:"skills"`

	stop     map[string]struct{}
	fluff    map[string]struct{}
	cueWords map[string]struct{}
	cues     map[int][][]string
}

var loadDefault = sync.OnceValues(func() (*Vocabulary, error) {
	return parse(defaultYAML)
})

// Default returns the embedded vocabulary. The returned value is shared and
// must not be modified.
func Default() (*Vocabulary, error) {
	return loadDefault()
}

// Load reads a vocabulary file and merges it over the embedded defaults.
// An empty path returns the defaults.
func Load(path string) (*Vocabulary, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file %q: %w", path, err)
	}

	overlay, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing vocabulary file %q: %w", path, err)
	}

	merged := base.merge(overlay)
	if err := merged.compile(); err != nil {
		return nil, fmt.Errorf("vocabulary file %q: %w", path, err)
	}

	return merged, nil
}

func parse(data []byte) (*Vocabulary, error) {
	v, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded vocabulary: %w", err)
	}
	if err := v.compile(); err != nil {
		return nil, err
	}
	return v, nil
}

func decode(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// merge returns a new vocabulary: synonym entries of the overlay replace the
// base entry with the same canonical term, lists are appended.
func (v *Vocabulary) merge(overlay *Vocabulary) *Vocabulary {
	out := &Vocabulary{
		Synonyms:  make(map[string][]string, len(v.Synonyms)+len(overlay.Synonyms)),
		Stopwords: appendUnique(v.Stopwords, overlay.Stopwords),
		Fluff:     appendUnique(v.Fluff, overlay.Fluff),
		Cues:      make(map[int][]string, len(v.Cues)),
		Skills:    appendUnique(v.Skills, overlay.Skills),
	}

	for canonical, aliases := range v.Synonyms {
		out.Synonyms[canonical] = aliases
	}
	for canonical, aliases := range overlay.Synonyms {
		out.Synonyms[canonical] = aliases
	}

	for tier, cues := range v.Cues {
		out.Cues[tier] = cues
	}
	for tier, cues := range overlay.Cues {
		out.Cues[tier] = appendUnique(out.Cues[tier], cues)
	}

	return out
}

func (v *Vocabulary) compile() error {
	v.stop = wordSet(v.Stopwords)
	v.fluff = wordSet(v.Fluff)
	v.cueWords = make(map[string]struct{})
	v.cues = make(map[int][][]string, len(v.Cues))

	seen := make(map[string]int)
	for tier, cues := range v.Cues {
		if tier < 1 || tier > 3 {
			return fmt.Errorf("cue tier %d is out of range 1..3", tier)
		}
		for _, cue := range cues {
			tokens := strings.Fields(textnorm.Clean(cue, true))
			if len(tokens) == 0 {
				continue
			}
			key := strings.Join(tokens, " ")
			if prev, ok := seen[key]; ok && prev != tier {
				return fmt.Errorf("cue %q is listed in tiers %d and %d", key, prev, tier)
			}
			seen[key] = tier
			v.cues[tier] = append(v.cues[tier], tokens)
			for _, tok := range tokens {
				v.cueWords[tok] = struct{}{}
			}
		}
	}

	return nil
}

// IsStopword reports whether a normalized token is an English stop word or a
// vocabulary stop word.
func (v *Vocabulary) IsStopword(token string) bool {
	if _, ok := v.stop[token]; ok {
		return true
	}
	return english.IsStopWord(token)
}

// IsFluff reports whether a normalized token is recruiting boilerplate.
func (v *Vocabulary) IsFluff(token string) bool {
	_, ok := v.fluff[token]
	return ok
}

// IsCueWord reports whether a normalized token is part of any importance cue.
func (v *Vocabulary) IsCueWord(token string) bool {
	_, ok := v.cueWords[token]
	return ok
}

// IsNoise reports whether a token can never carry a requirement on its own.
func (v *Vocabulary) IsNoise(token string) bool {
	return v.IsStopword(token) || v.IsFluff(token) || v.IsCueWord(token)
}

// CueTiers returns the cleaned cue token sequences per tier.
func (v *Vocabulary) CueTiers() map[int][][]string {
	return v.cues
}

// Canonicalizer builds the synonym canonicalizer for this vocabulary.
func (v *Vocabulary) Canonicalizer(keepSymbols bool) (*textnorm.Canonicalizer, error) {
	c, err := textnorm.NewCanonicalizer(v.Synonyms, keepSymbols)
	if err != nil {
		return nil, fmt.Errorf("building synonym table: %w", err)
	}
	return c, nil
}

// Normalizer returns a text normalizer that applies this vocabulary's synonyms.
func (v *Vocabulary) Normalizer(keepSymbols bool) (*textnorm.Normalizer, error) {
	c, err := v.Canonicalizer(keepSymbols)
	if err != nil {
		return nil, err
	}
	opts := []textnorm.Option{textnorm.WithCanonicalizer(c)}
	if !keepSymbols {
		opts = append(opts, textnorm.WithoutSymbols())
	}
	return textnorm.New(opts...), nil
}

// SkillPhrases returns the skills dictionary normalized with n, de-duplicated
// and sorted.
func (v *Vocabulary) SkillPhrases(n *textnorm.Normalizer) []string {
	seen := make(map[string]struct{}, len(v.Skills))
	out := make([]string, 0, len(v.Skills))
	for _, skill := range v.Skills {
		s := n.Normalize(skill)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		for _, tok := range strings.Fields(textnorm.Clean(w, true)) {
			set[tok] = struct{}{}
		}
	}
	return set
}

func appendUnique(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
