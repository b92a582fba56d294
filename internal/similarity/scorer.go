// Package similarity scores how close two whole documents are in meaning.
package similarity

import "context"

const (
	NameEmbedding = "embedding"
	NameTFIDF     = "tfidf"
)

// Scorer returns a similarity in [0, 1] between a candidate and a requirement
// document.
type Scorer interface {
	Name() string
	Similarity(ctx context.Context, candidate, requirement string) (float64, error)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
