// Package matching decides which requirement phrases a candidate document
// satisfies.
package matching

import (
	"strings"

	"github.com/spigell/resume-fit/internal/textnorm"
)

// Document is a normalized candidate document split into sentences.
type Document struct {
	Sentences []string
	tokens    [][]string
}

// NewDocument splits raw into sentences and normalizes each with n. Sentences
// that normalize to nothing are dropped.
func NewDocument(n *textnorm.Normalizer, raw string) *Document {
	d := &Document{}
	for _, sentence := range textnorm.Sentences(raw) {
		tokens := n.Tokens(sentence)
		if len(tokens) == 0 {
			continue
		}
		d.Sentences = append(d.Sentences, strings.Join(tokens, " "))
		d.tokens = append(d.tokens, tokens)
	}
	return d
}

func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Sentences)
}

// Text returns the normalized document, one sentence per line.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Sentences, "\n")
}

// Occurrences counts whole-word occurrences of words, never across sentences.
func (d *Document) Occurrences(words []string) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, tokens := range d.tokens {
		n += textnorm.Count(tokens, words)
	}
	return n
}
