package textnorm

import (
	"fmt"
	"sort"
	"strings"
)

// Canonicalizer rewrites whole-token alias runs to a canonical term.
type Canonicalizer struct {
	// keyed by the first alias token, longest alias first
	aliases map[string][]alias
	// every cleaned canonical term and alias
	terms map[string]struct{}
}

type alias struct {
	tokens    []string
	canonical []string
}

// NewCanonicalizer builds a canonicalizer from {canonical: aliases}. Both sides
// are cleaned with the same rules as the documents. An alias that maps to two
// canonical terms, or that appears inside a canonical term, is rejected because
// it would make normalization order dependent.
func NewCanonicalizer(synonyms map[string][]string, keepSymbols bool) (*Canonicalizer, error) {
	canonicals := make([]string, 0, len(synonyms))
	for canonical := range synonyms {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	cleanedCanonicals := make([][]string, 0, len(canonicals))
	for _, canonical := range canonicals {
		if tokens := strings.Fields(Clean(canonical, keepSymbols)); len(tokens) > 0 {
			cleanedCanonicals = append(cleanedCanonicals, tokens)
		}
	}

	c := &Canonicalizer{aliases: make(map[string][]alias), terms: make(map[string]struct{})}
	owner := make(map[string]string)

	for _, canonical := range canonicals {
		target := strings.Fields(Clean(canonical, keepSymbols))
		if len(target) == 0 {
			return nil, fmt.Errorf("canonical term %q is empty after cleaning", canonical)
		}
		targetKey := strings.Join(target, " ")
		c.terms[targetKey] = struct{}{}

		for _, raw := range synonyms[canonical] {
			tokens := strings.Fields(Clean(raw, keepSymbols))
			key := strings.Join(tokens, " ")
			if len(tokens) == 0 || key == targetKey {
				continue
			}

			if prev, ok := owner[key]; ok {
				if prev == targetKey {
					continue
				}
				return nil, fmt.Errorf("alias %q maps to both %q and %q", key, prev, targetKey)
			}

			for _, other := range cleanedCanonicals {
				if Contains(other, tokens) {
					return nil, fmt.Errorf("alias %q occurs inside canonical term %q", key, strings.Join(other, " "))
				}
			}

			owner[key] = targetKey
			c.terms[key] = struct{}{}
			c.aliases[tokens[0]] = append(c.aliases[tokens[0]], alias{tokens: tokens, canonical: target})
		}
	}

	for first := range c.aliases {
		candidates := c.aliases[first]
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(candidates[i].tokens) > len(candidates[j].tokens)
		})
	}

	return c, nil
}

// Apply returns tokens with every alias run replaced by its canonical tokens.
// Matching is greedy, longest alias first, and never crosses token boundaries.
func (c *Canonicalizer) Apply(tokens []string) []string {
	if c == nil || len(c.aliases) == 0 {
		return tokens
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		replaced := false
		for _, a := range c.aliases[tokens[i]] {
			if hasPrefix(tokens[i:], a.tokens) {
				out = append(out, a.canonical...)
				i += len(a.tokens)
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, tokens[i])
			i++
		}
	}

	return out
}

// Knows reports whether tokens spell a canonical term or one of its aliases.
func (c *Canonicalizer) Knows(tokens ...string) bool {
	if c == nil || len(tokens) == 0 {
		return false
	}
	_, ok := c.terms[strings.Join(tokens, " ")]
	return ok
}

// Len returns the number of registered aliases.
func (c *Canonicalizer) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, list := range c.aliases {
		n += len(list)
	}
	return n
}
