package requirements

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// posExtractor keeps noun phrases found by the prose perceptron tagger.
type posExtractor struct {
	opts Options
}

type taggedToken struct {
	text string
	tag  string
}

func (e *posExtractor) Name() string { return NamePOS }

func (e *posExtractor) Extract(sentences []string) (*Phrases, error) {
	tokens := tokenize(sentences)
	c := newCollector(tokens)

	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		tagged, err := tag(sentence)
		if err != nil {
			return nil, fmt.Errorf("tagging sentence: %w", err)
		}

		var run []taggedToken
		flush := func() {
			e.emit(c, run)
			run = run[:0]
		}
		for _, tok := range tagged {
			if isContent(e.opts.Vocabulary, tok.text) && phraseTag(tok.tag) {
				run = append(run, tok)
				continue
			}
			flush()
		}
		flush()
	}

	return c.phrases(countContent(e.opts.Vocabulary, tokens)), nil
}

// emit adds every sub-run of run that ends in a noun. Single words must be
// nouns themselves.
func (e *posExtractor) emit(c *collector, run []taggedToken) {
	for start := range run {
		for size := 1; size <= e.opts.MaxWords && start+size <= len(run); size++ {
			last := run[start+size-1]
			if size == 1 && !isNoun(last.tag) {
				continue
			}
			if !isNoun(last.tag) && last.tag != "FW" {
				continue
			}
			words := make([]string, 0, size)
			for _, tok := range run[start : start+size] {
				words = append(words, tok.text)
			}
			c.add(words)
		}
	}
}

func tag(sentence string) ([]taggedToken, error) {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}

	var out []taggedToken
	for _, tok := range doc.Tokens() {
		// the tokenizer splits "c++" and "c#"; glue the symbols back
		if isSymbolFragment(tok.Text) && len(out) > 0 {
			out[len(out)-1].text += tok.Text
			continue
		}
		out = append(out, taggedToken{text: tok.Text, tag: tok.Tag})
	}
	return out, nil
}

func isSymbolFragment(s string) bool {
	if s == "" {
		return false
	}
	return strings.Trim(s, "+#") == ""
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func phraseTag(tag string) bool {
	switch {
	case isNoun(tag), strings.HasPrefix(tag, "JJ"):
		return true
	case tag == "VBG", tag == "FW":
		return true
	default:
		return false
	}
}
