// Package textnorm turns free text into the lower-case, punctuation-free token
// stream the matching engine works on.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalizer cleans text and rewrites known aliases to their canonical form.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	keepSymbols bool
	canon       *Canonicalizer
}

type Option func(*Normalizer)

// WithoutSymbols drops '+' and '#' like any other punctuation.
func WithoutSymbols() Option {
	return func(n *Normalizer) { n.keepSymbols = false }
}

// WithCanonicalizer enables synonym canonicalisation.
func WithCanonicalizer(c *Canonicalizer) Option {
	return func(n *Normalizer) { n.canon = c }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{keepSymbols: true}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// KeepSymbols reports whether '+' and '#' survive cleaning.
func (n *Normalizer) KeepSymbols() bool { return n.keepSymbols }

// Clean lower-cases s, replaces punctuation with spaces and collapses whitespace.
func (n *Normalizer) Clean(s string) string {
	return Clean(s, n.keepSymbols)
}

// Normalize cleans s and canonicalises aliases.
func (n *Normalizer) Normalize(s string) string {
	return strings.Join(n.Tokens(s), " ")
}

// Tokens returns the normalized tokens of s.
func (n *Normalizer) Tokens(s string) []string {
	tokens := strings.Fields(n.Clean(s))
	if n.canon == nil {
		return tokens
	}
	return n.canon.Apply(tokens)
}

// Clean is the stateless form of Normalizer.Clean.
func Clean(s string, keepSymbols bool) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		if !isWordRune(r, keepSymbols) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

func isWordRune(r rune, keepSymbols bool) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
		return true
	}
	return keepSymbols && (r == '+' || r == '#')
}

// HasLetter reports whether the token contains at least one letter.
func HasLetter(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Count returns how many times phrase occurs as a contiguous token run in tokens.
func Count(tokens, phrase []string) int {
	count := 0
	for i := 0; i+len(phrase) <= len(tokens) && len(phrase) > 0; i++ {
		if hasPrefix(tokens[i:], phrase) {
			count++
		}
	}
	return count
}

// Positions returns the token indexes where phrase starts in tokens.
func Positions(tokens, phrase []string) []int {
	var positions []int
	for i := 0; i+len(phrase) <= len(tokens) && len(phrase) > 0; i++ {
		if hasPrefix(tokens[i:], phrase) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Contains reports whether sub is a contiguous token run of tokens.
func Contains(tokens, sub []string) bool {
	return Count(tokens, sub) > 0
}

func hasPrefix(tokens, prefix []string) bool {
	if len(prefix) > len(tokens) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}
