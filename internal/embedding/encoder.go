// Package embedding turns text into dense vectors through a remote sentence
// embedding model.
package embedding

import (
	"context"
	"errors"
	"math"
)

// ErrModelUnavailable reports that no embedding could be produced: the model
// could not be built, or a request to it failed.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Vector is a dense embedding.
type Vector []float32

// Encoder maps texts to vectors, one per text, in input order.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, texts []string) ([]Vector, error)
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or their lengths differ.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

// Unavailable wraps err so callers can match ErrModelUnavailable while keeping
// the provider error.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrModelUnavailable) {
		return err
	}
	return &modelError{err: err}
}

type modelError struct {
	err error
}

func (e *modelError) Error() string {
	return ErrModelUnavailable.Error() + ": " + e.err.Error()
}

func (e *modelError) Unwrap() []error {
	return []error{ErrModelUnavailable, e.err}
}
