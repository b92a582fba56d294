package requirements

import "github.com/spigell/resume-fit/internal/vocabulary"

// ngramExtractor emits every run of 1..MaxWords consecutive content tokens.
type ngramExtractor struct {
	opts Options
}

func (e *ngramExtractor) Name() string { return NameNgram }

func (e *ngramExtractor) Extract(sentences []string) (*Phrases, error) {
	tokens := tokenize(sentences)
	c := newCollector(tokens)

	for _, sentence := range tokens {
		for _, run := range contentRuns(e.opts.Vocabulary, sentence) {
			for start := range run {
				for size := 1; size <= e.opts.MaxWords && start+size <= len(run); size++ {
					c.add(run[start : start+size])
				}
			}
		}
	}

	return c.phrases(countContent(e.opts.Vocabulary, tokens)), nil
}

// contentRuns splits a sentence into maximal runs of content tokens.
func contentRuns(v *vocabulary.Vocabulary, tokens []string) [][]string {
	var runs [][]string
	start := -1
	for i, tok := range tokens {
		if isContent(v, tok) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, tokens[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, tokens[start:])
	}
	return runs
}
