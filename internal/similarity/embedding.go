package similarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-fit/internal/embedding"
)

// Embedding compares whole-document embeddings.
type Embedding struct {
	encoder embedding.Encoder
}

func NewEmbedding(encoder embedding.Encoder) *Embedding {
	return &Embedding{encoder: encoder}
}

func (e *Embedding) Name() string { return NameEmbedding }

// Similarity returns the cosine of the two document embeddings clamped to
// [0, 1]. Empty documents score 0 without calling the encoder.
func (e *Embedding) Similarity(ctx context.Context, candidate, requirement string) (float64, error) {
	if strings.TrimSpace(candidate) == "" || strings.TrimSpace(requirement) == "" {
		return 0, nil
	}
	if e.encoder == nil {
		return 0, embedding.ErrModelUnavailable
	}

	vectors, err := e.encoder.Encode(ctx, []string{candidate, requirement})
	if err != nil {
		return 0, embedding.Unavailable(fmt.Errorf("encoding documents: %w", err))
	}
	if len(vectors) != 2 {
		return 0, embedding.Unavailable(fmt.Errorf("encoder returned %d vectors for 2 documents", len(vectors)))
	}

	return clamp01(embedding.Cosine(vectors[0], vectors[1])), nil
}
