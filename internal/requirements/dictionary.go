package requirements

import "strings"

// dictionaryExtractor looks up the curated skills list, whole-word.
type dictionaryExtractor struct {
	opts   Options
	skills map[string][][]string
}

func newDictionaryExtractor(opts Options) Extractor {
	e := &dictionaryExtractor{opts: opts, skills: make(map[string][][]string)}
	for _, skill := range opts.Vocabulary.SkillPhrases(opts.Normalizer) {
		words := strings.Fields(skill)
		e.skills[words[0]] = append(e.skills[words[0]], words)
	}
	return e
}

func (e *dictionaryExtractor) Name() string { return NameDictionary }

func (e *dictionaryExtractor) Extract(sentences []string) (*Phrases, error) {
	tokens := tokenize(sentences)
	c := newCollector(tokens)

	for _, sentence := range tokens {
		for i, tok := range sentence {
			for _, skill := range e.skills[tok] {
				if len(skill) > len(sentence)-i {
					continue
				}
				if equalTokens(sentence[i:i+len(skill)], skill) {
					c.add(skill)
				}
			}
		}
	}

	return c.phrases(countContent(e.opts.Vocabulary, tokens)), nil
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
