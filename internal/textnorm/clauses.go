package textnorm

import (
	"regexp"
	"strings"
)

// ClauseBreak separates clauses in the output of Normalizer.Clauses. It holds
// no letter, so no phrase can span it.
const ClauseBreak = "|"

var clauseBreaks = regexp.MustCompile(`[,:()\[\]{}|]+`)

// Clauses normalizes a raw sentence one clause at a time and joins the clauses
// with ClauseBreak. Commas, colons, brackets and slashes end a clause, except a
// slash inside a known term such as "CI/CD".
func (n *Normalizer) Clauses(sentence string) string {
	var parts []string
	for _, clause := range clauseBreaks.Split(sentence, -1) {
		for _, piece := range n.splitSlashes(clause) {
			if s := n.Normalize(piece); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " "+ClauseBreak+" ")
}

func (n *Normalizer) splitSlashes(clause string) []string {
	pieces := strings.Split(clause, "/")
	out := []string{pieces[0]}
	for _, next := range pieces[1:] {
		left := strings.Fields(n.Clean(out[len(out)-1]))
		right := strings.Fields(n.Clean(next))
		if len(left) > 0 && len(right) > 0 && n.canon.Knows(left[len(left)-1], right[0]) {
			out[len(out)-1] += "/" + next
			continue
		}
		out = append(out, next)
	}
	return out
}
