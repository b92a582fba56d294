package similarity

import (
	"context"
	"math"
	"sort"

	"github.com/spigell/resume-fit/internal/textnorm"
	"github.com/spigell/resume-fit/internal/vocabulary"
)

// TFIDF is the lexical fallback scorer. The vocabulary and IDF are built over
// exactly the two documents being compared, so the result depends on nothing
// but its inputs.
type TFIDF struct {
	normalizer *textnorm.Normalizer
	vocabulary *vocabulary.Vocabulary
}

func NewTFIDF(n *textnorm.Normalizer, v *vocabulary.Vocabulary) *TFIDF {
	if n == nil {
		n = textnorm.New()
	}
	return &TFIDF{normalizer: n, vocabulary: v}
}

func (s *TFIDF) Name() string { return NameTFIDF }

func (s *TFIDF) Similarity(ctx context.Context, candidate, requirement string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	docs := [][]string{s.terms(candidate), s.terms(requirement)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0, nil
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		// smoothed idf
		idf[term] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	a := vectorize(docs[0], terms, idf)
	b := vectorize(docs[1], terms, idf)

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return clamp01(dot), nil
}

// terms returns normalized tokens without stop words.
func (s *TFIDF) terms(text string) []string {
	tokens := s.normalizer.Tokens(text)
	out := tokens[:0]
	for _, tok := range tokens {
		if s.vocabulary != nil && s.vocabulary.IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// vectorize returns the L2-normalized tf-idf vector of doc over terms.
func vectorize(doc, terms []string, idf map[string]float64) []float64 {
	tf := make(map[string]int, len(doc))
	for _, term := range doc {
		tf[term]++
	}

	vec := make([]float64, len(terms))
	var norm float64
	for i, term := range terms {
		if count := tf[term]; count > 0 {
			vec[i] = float64(count) / float64(len(doc)) * idf[term]
			norm += vec[i] * vec[i]
		}
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
