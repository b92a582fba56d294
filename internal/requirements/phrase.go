package requirements

import (
	"strings"

	"github.com/spigell/resume-fit/internal/textnorm"
)

// Phrase is one requirement extracted from the requirement document.
type Phrase struct {
	Text        string `json:"text"`
	Tier        Tier   `json:"tier"`
	Occurrences int    `json:"occurrences"`
	// Sentences indexes Phrases.Sentences where the phrase occurs.
	Sentences []int `json:"-"`
}

// Words returns the tokens of the phrase.
func (p *Phrase) Words() []string {
	return strings.Fields(p.Text)
}

// Phrases is the ordered, de-duplicated phrase set of one requirement document.
type Phrases struct {
	Items []*Phrase
	// Sentences are the normalized sentences of the requirement document.
	Sentences []string
	// ContentTokens is the number of content tokens in the whole document.
	ContentTokens int
}

func (p *Phrases) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Texts returns phrase texts in extraction order.
func (p *Phrases) Texts() []string {
	texts := make([]string, 0, p.Len())
	if p == nil {
		return texts
	}
	for _, phrase := range p.Items {
		texts = append(texts, phrase.Text)
	}
	return texts
}

func (p *Phrases) Find(text string) *Phrase {
	if p == nil {
		return nil
	}
	for _, phrase := range p.Items {
		if phrase.Text == text {
			return phrase
		}
	}
	return nil
}

// Exclude removes phrases by text and returns the removed ones. Order of the
// remaining phrases is preserved.
func (p *Phrases) Exclude(targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return p.RemoveFunc(func(phrase *Phrase) bool {
		_, ok := set[phrase.Text]
		return ok
	})
}

// RemoveFunc removes every phrase for which drop returns true and returns the
// removed texts.
func (p *Phrases) RemoveFunc(drop func(*Phrase) bool) []string {
	var removed []string
	kept := p.Items[:0]
	for _, phrase := range p.Items {
		if drop(phrase) {
			removed = append(removed, phrase.Text)
			continue
		}
		kept = append(kept, phrase)
	}
	for i := len(kept); i < len(p.Items); i++ {
		p.Items[i] = nil
	}
	p.Items = kept
	return removed
}

// TotalWeight is the sum of phrase tiers.
func (p *Phrases) TotalWeight() int {
	total := 0
	if p == nil {
		return total
	}
	for _, phrase := range p.Items {
		total += int(phrase.Tier)
	}
	return total
}

// collector merges candidates into a Phrases value, keeping first-seen order.
type collector struct {
	sentences [][]string
	order     []string
	seen      map[string]struct{}
}

func newCollector(sentences [][]string) *collector {
	return &collector{sentences: sentences, seen: make(map[string]struct{})}
}

func (c *collector) add(tokens []string) {
	text := strings.Join(tokens, " ")
	if text == "" {
		return
	}
	if _, ok := c.seen[text]; ok {
		return
	}
	c.seen[text] = struct{}{}
	c.order = append(c.order, text)
}

// phrases counts whole-word occurrences of every candidate over all sentences.
func (c *collector) phrases(contentTokens int) *Phrases {
	out := &Phrases{
		Items:         make([]*Phrase, 0, len(c.order)),
		Sentences:     make([]string, len(c.sentences)),
		ContentTokens: contentTokens,
	}
	for i, tokens := range c.sentences {
		out.Sentences[i] = strings.Join(tokens, " ")
	}

	for _, text := range c.order {
		words := strings.Fields(text)
		phrase := &Phrase{Text: text, Tier: DefaultTier}
		for i, tokens := range c.sentences {
			if n := textnorm.Count(tokens, words); n > 0 {
				phrase.Occurrences += n
				phrase.Sentences = append(phrase.Sentences, i)
			}
		}
		if phrase.Occurrences == 0 {
			continue
		}
		out.Items = append(out.Items, phrase)
	}

	return out
}
