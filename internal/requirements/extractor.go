// Package requirements turns a requirement document into the weighted set of
// phrases a candidate is measured against.
package requirements

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/resume-fit/internal/textnorm"
	"github.com/spigell/resume-fit/internal/vocabulary"
)

const (
	NameNgram      = "ngram"
	NamePOS        = "pos"
	NameDictionary = "dictionary"

	DefaultMaxWords = 4
)

var ErrUnknownExtractor = errors.New("unknown extractor")

// Extractor produces candidate phrases from normalized sentences. Tiers are
// left at DefaultTier; the Classifier assigns them.
type Extractor interface {
	Name() string
	Extract(sentences []string) (*Phrases, error)
}

type Options struct {
	Vocabulary *vocabulary.Vocabulary
	// Normalizer is used to normalize the skills dictionary.
	Normalizer *textnorm.Normalizer
	MaxWords   int
}

type factory func(Options) Extractor

var registry = map[string]factory{
	NameNgram:      func(o Options) Extractor { return &ngramExtractor{opts: o} },
	NamePOS:        func(o Options) Extractor { return &posExtractor{opts: o} },
	NameDictionary: newDictionaryExtractor,
}

// New returns the extractor registered under name. An empty name selects the
// n-gram extractor.
func New(name string, opts Options) (Extractor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = NameNgram
	}

	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownExtractor, name, strings.Join(Names(), ", "))
	}

	if opts.Vocabulary == nil {
		v, err := vocabulary.Default()
		if err != nil {
			return nil, fmt.Errorf("loading default vocabulary: %w", err)
		}
		opts.Vocabulary = v
	}
	if opts.Normalizer == nil {
		n, err := opts.Vocabulary.Normalizer(true)
		if err != nil {
			return nil, err
		}
		opts.Normalizer = n
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultMaxWords
	}

	return build(opts), nil
}

// Names lists registered extractor names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tokenize(sentences []string) [][]string {
	out := make([][]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, strings.Fields(s))
	}
	return out
}

// isContent reports whether a token may be part of a requirement phrase.
func isContent(v *vocabulary.Vocabulary, token string) bool {
	if len([]rune(token)) < 2 || !textnorm.HasLetter(token) {
		return false
	}
	return !v.IsNoise(token)
}

func countContent(v *vocabulary.Vocabulary, sentences [][]string) int {
	n := 0
	for _, tokens := range sentences {
		for _, tok := range tokens {
			if isContent(v, tok) {
				n++
			}
		}
	}
	return n
}
