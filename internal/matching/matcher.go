package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/requirements"
)

const DefaultThreshold = 0.55

type Method string

const (
	MethodExact    Method = "exact"
	MethodSemantic Method = "semantic"
)

// Decision records whether one requirement phrase is satisfied.
type Decision struct {
	Phrase    *requirements.Phrase
	Satisfied bool
	Method    Method
	// Similarity is the best phrase-to-sentence cosine; zero when not computed.
	Similarity float64
	// Occurrences counts exact occurrences in the candidate document.
	Occurrences int
}

// Matcher checks phrases exactly first and semantically for the rest.
type Matcher struct {
	encoder   embedding.Encoder
	threshold float64
	logger    *zap.Logger
}

// NewMatcher returns a matcher. A nil encoder makes it purely lexical; a
// non-positive threshold selects DefaultThreshold.
func NewMatcher(encoder embedding.Encoder, threshold float64, log *zap.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{encoder: encoder, threshold: threshold, logger: logger.OrNop(log)}
}

// Match returns one decision per phrase in phrase order. Encoder failures are
// returned as ErrModelUnavailable; callers fall back to MatchLexical.
func (m *Matcher) Match(ctx context.Context, phrases *requirements.Phrases, doc *Document) ([]Decision, error) {
	decisions := MatchLexical(phrases, doc)
	if m.encoder == nil || doc.Len() == 0 {
		return decisions, nil
	}

	var pending []int
	for i, d := range decisions {
		if !d.Satisfied {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return decisions, nil
	}

	texts := make([]string, 0, doc.Len()+len(pending))
	texts = append(texts, doc.Sentences...)
	for _, i := range pending {
		texts = append(texts, decisions[i].Phrase.Text)
	}

	vectors, err := m.encoder.Encode(ctx, texts)
	if err != nil {
		return nil, embedding.Unavailable(fmt.Errorf("encoding phrases and sentences: %w", err))
	}
	if len(vectors) != len(texts) {
		return nil, embedding.Unavailable(fmt.Errorf("encoder returned %d vectors for %d texts", len(vectors), len(texts)))
	}

	sentences := vectors[:doc.Len()]
	for j, i := range pending {
		phraseVec := vectors[doc.Len()+j]
		best := 0.0
		for _, sv := range sentences {
			if sim := embedding.Cosine(phraseVec, sv); sim > best {
				best = sim
			}
		}

		decisions[i].Similarity = best
		if best > m.threshold {
			decisions[i].Satisfied = true
			decisions[i].Method = MethodSemantic
		}
		m.logger.Debug("semantic match",
			zap.String("phrase", decisions[i].Phrase.Text),
			zap.Float64("similarity", best),
			zap.Bool("satisfied", decisions[i].Satisfied),
		)
	}

	return decisions, nil
}

// MatchLexical decides every phrase by whole-word occurrence inside one
// candidate sentence.
func MatchLexical(phrases *requirements.Phrases, doc *Document) []Decision {
	decisions := make([]Decision, 0, phrases.Len())
	if phrases == nil {
		return decisions
	}
	for _, p := range phrases.Items {
		d := Decision{Phrase: p, Occurrences: doc.Occurrences(p.Words())}
		if d.Occurrences > 0 {
			d.Satisfied = true
			d.Method = MethodExact
		}
		decisions = append(decisions, d)
	}
	return decisions
}
