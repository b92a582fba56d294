package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/goleak"

	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/vocabulary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTFIDF(t *testing.T) *TFIDF {
	t.Helper()
	v, err := vocabulary.Default()
	if err != nil {
		t.Fatalf("loading vocabulary: %v", err)
	}
	n, err := v.Normalizer(true)
	if err != nil {
		t.Fatalf("building normalizer: %v", err)
	}
	return NewTFIDF(n, v)
}

func TestTFIDF(t *testing.T) {
	s := newTFIDF(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		candidate   string
		requirement string
		min, max    float64
	}{
		{name: "identical", candidate: "Go, Kubernetes and PostgreSQL", requirement: "Go, Kubernetes and PostgreSQL", min: 0.999999, max: 1},
		{name: "aliases are canonical", candidate: "K8s and Postgres", requirement: "Kubernetes and PostgreSQL", min: 0.999999, max: 1},
		{name: "disjoint", candidate: "Python developer", requirement: "Java architect", min: 0, max: 0},
		{name: "partial overlap", candidate: "Python and SQL", requirement: "Python, SQL and Java", min: 0.3, max: 0.95},
		{name: "stop words only", candidate: "the and of", requirement: "the and of", min: 0, max: 0},
		{name: "empty candidate", candidate: "", requirement: "Python", min: 0, max: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Similarity(ctx, tt.candidate, tt.requirement)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got < tt.min || got > tt.max {
				t.Fatalf("expected similarity in [%v, %v], got %v", tt.min, tt.max, got)
			}
		})
	}
}

func TestTFIDFIsSymmetricAndDeterministic(t *testing.T) {
	s := newTFIDF(t)
	ctx := context.Background()

	a := "Backend engineer with Go, gRPC and Kafka experience"
	b := "We need Go and Kafka, gRPC is a plus, Kubernetes preferred"

	ab, _ := s.Similarity(ctx, a, b)
	ba, _ := s.Similarity(ctx, b, a)
	again, _ := s.Similarity(ctx, a, b)

	if math.Abs(ab-ba) > 1e-12 || ab != again {
		t.Fatalf("expected symmetric deterministic scores, got %v %v %v", ab, ba, again)
	}
}

func TestTFIDFHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTFIDF(t).Similarity(ctx, "go", "go"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

type fixedEncoder struct {
	vectors []embedding.Vector
	err     error
	calls   int
}

func (f *fixedEncoder) Name() string { return "fixed" }

func (f *fixedEncoder) Encode(context.Context, []string) ([]embedding.Vector, error) {
	f.calls++
	return f.vectors, f.err
}

func TestEmbeddingSimilarity(t *testing.T) {
	ctx := context.Background()

	enc := &fixedEncoder{vectors: []embedding.Vector{{1, 0}, {1, 1}}}
	got, err := NewEmbedding(enc).Similarity(ctx, "resume", "job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("unexpected similarity %v", got)
	}

	negative := &fixedEncoder{vectors: []embedding.Vector{{1, 0}, {-1, 0}}}
	if got, _ := NewEmbedding(negative).Similarity(ctx, "a", "b"); got != 0 {
		t.Fatalf("negative cosine must clamp to 0, got %v", got)
	}

	unused := &fixedEncoder{}
	if got, err := NewEmbedding(unused).Similarity(ctx, " ", "job"); got != 0 || err != nil || unused.calls != 0 {
		t.Fatalf("empty document must score 0 without encoding")
	}
}

func TestEmbeddingSimilarityErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewEmbedding(nil).Similarity(ctx, "a", "b"); !errors.Is(err, embedding.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable without encoder, got %v", err)
	}

	failing := &fixedEncoder{err: errors.New("quota")}
	if _, err := NewEmbedding(failing).Similarity(ctx, "a", "b"); !errors.Is(err, embedding.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}

	short := &fixedEncoder{vectors: []embedding.Vector{{1}}}
	if _, err := NewEmbedding(short).Similarity(ctx, "a", "b"); !errors.Is(err, embedding.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable for short response, got %v", err)
	}
}
