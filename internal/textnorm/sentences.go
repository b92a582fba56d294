package textnorm

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

var (
	// line breaks, semicolons and bullet glyphs always end a sentence
	hardBreaks = regexp.MustCompile(`[\r\n;•·▪●■◦‣∙]+`)
	softBreaks = regexp.MustCompile(`[.!?]+(\s+|$)`)
)

// Sentences splits raw text into trimmed, non-empty sentences. Lines and bullet
// items are split first, then each chunk goes through the prose segmenter.
func Sentences(raw string) []string {
	var sentences []string
	for _, chunk := range hardBreaks.Split(raw, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		sentences = append(sentences, segment(chunk)...)
	}
	return sentences
}

func segment(chunk string) []string {
	doc, err := prose.NewDocument(chunk,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return splitPunctuation(chunk)
	}

	var out []string
	for _, s := range doc.Sentences() {
		if text := strings.TrimSpace(s.Text); text != "" {
			out = append(out, text)
		}
	}
	if len(out) == 0 {
		return splitPunctuation(chunk)
	}
	return out
}

func splitPunctuation(chunk string) []string {
	var out []string
	for _, part := range softBreaks.Split(chunk, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
