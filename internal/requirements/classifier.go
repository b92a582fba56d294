package requirements

import (
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-fit/internal/textnorm"
)

const DefaultCueWindow = 40

// Classifier assigns importance tiers from cue words near each phrase.
type Classifier struct {
	cues   map[int][][]string
	window int
}

// NewClassifier builds a classifier from cleaned cue token sequences per tier.
// window is the largest allowed gap in characters between a cue and a phrase.
func NewClassifier(cues map[int][][]string, window int) *Classifier {
	if window <= 0 {
		window = DefaultCueWindow
	}
	return &Classifier{cues: cues, window: window}
}

// Classify sets the tier of every phrase. A cue only counts inside a sentence
// the phrase occurs in; the highest tier found wins and phrases without any
// cue get DefaultTier.
func (c *Classifier) Classify(p *Phrases) {
	if p == nil {
		return
	}
	for _, phrase := range p.Items {
		best := Tier(0)
		words := phrase.Words()
		for _, idx := range phrase.Sentences {
			if idx < 0 || idx >= len(p.Sentences) {
				continue
			}
			if t := c.tierIn(words, p.Sentences[idx]); t > best {
				best = t
			}
		}
		if best == 0 {
			best = DefaultTier
		}
		phrase.Tier = best
	}
}

// TierOf classifies a phrase against a single normalized sentence. It returns
// DefaultTier when no cue is in range.
func (c *Classifier) TierOf(phrase, sentence string) Tier {
	if t := c.tierIn(strings.Fields(phrase), sentence); t > 0 {
		return t
	}
	return DefaultTier
}

// tierIn returns the highest cue tier within the window of any occurrence of
// words in sentence, or 0.
func (c *Classifier) tierIn(words []string, sentence string) Tier {
	tokens := strings.Fields(sentence)
	offsets := runeOffsets(tokens)

	best := Tier(0)
	for _, pos := range textnorm.Positions(tokens, words) {
		start, end := span(tokens, offsets, pos, len(words))
		for tier, cues := range c.cues {
			if Tier(tier) <= best {
				continue
			}
			for _, cue := range cues {
				if c.cueNear(tokens, offsets, cue, start, end) {
					best = Tier(tier)
					break
				}
			}
		}
	}
	return best
}

func (c *Classifier) cueNear(tokens []string, offsets []int, cue []string, start, end int) bool {
	for _, pos := range textnorm.Positions(tokens, cue) {
		cueStart, cueEnd := span(tokens, offsets, pos, len(cue))
		var gap int
		switch {
		case cueEnd <= start:
			gap = start - cueEnd
		case cueStart >= end:
			gap = cueStart - end
		default:
			gap = 0
		}
		if gap <= c.window {
			return true
		}
	}
	return false
}

// runeOffsets returns the rune offset of every token in the single-space
// joined sentence.
func runeOffsets(tokens []string) []int {
	offsets := make([]int, len(tokens))
	pos := 0
	for i, tok := range tokens {
		offsets[i] = pos
		pos += utf8.RuneCountInString(tok) + 1
	}
	return offsets
}

func span(tokens []string, offsets []int, pos, size int) (int, int) {
	last := pos + size - 1
	return offsets[pos], offsets[last] + utf8.RuneCountInString(tokens[last])
}
