package matching

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/goleak"

	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/requirements"
	"github.com/spigell/resume-fit/internal/textnorm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func phrases(texts ...string) *requirements.Phrases {
	p := &requirements.Phrases{}
	for _, text := range texts {
		p.Items = append(p.Items, &requirements.Phrase{Text: text, Tier: requirements.DefaultTier, Occurrences: 1})
	}
	return p
}

// mapEncoder returns a fixed vector per text and a zero vector for unknown texts.
type mapEncoder struct {
	vectors map[string]embedding.Vector
	err     error
	seen    [][]string
}

func (e *mapEncoder) Name() string { return "map" }

func (e *mapEncoder) Encode(_ context.Context, texts []string) ([]embedding.Vector, error) {
	e.seen = append(e.seen, texts)
	if e.err != nil {
		return nil, e.err
	}
	out := make([]embedding.Vector, len(texts))
	for i, text := range texts {
		if v, ok := e.vectors[text]; ok {
			out[i] = v
			continue
		}
		out[i] = embedding.Vector{0, 0, 0}
	}
	return out, nil
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(textnorm.New(), "Built services in Go.\n\n- Python scripts; SQL reports!!")

	expect := []string{"built services in go", "python scripts", "sql reports"}
	if doc.Len() != len(expect) {
		t.Fatalf("expected %d sentences, got %q", len(expect), doc.Sentences)
	}
	for i := range expect {
		if doc.Sentences[i] != expect[i] {
			t.Fatalf("sentence %d: expected %q, got %q", i, expect[i], doc.Sentences[i])
		}
	}
	if doc.Occurrences([]string{"python", "scripts"}) != 1 {
		t.Fatalf("expected phrase to occur once")
	}
	if doc.Occurrences([]string{"scripts", "sql"}) != 0 {
		t.Fatalf("phrases must not match across sentences")
	}
}

func TestMatchLexical(t *testing.T) {
	doc := NewDocument(textnorm.New(), "I write Python and SQL daily. Python is my main language.")

	decisions := MatchLexical(phrases("python", "sql", "java", "sql daily"), doc)
	if len(decisions) != 4 {
		t.Fatalf("expected 4 decisions, got %d", len(decisions))
	}

	expect := []struct {
		satisfied   bool
		method      Method
		occurrences int
	}{
		{true, MethodExact, 2},
		{true, MethodExact, 1},
		{false, "", 0},
		{true, MethodExact, 1},
	}
	for i, e := range expect {
		d := decisions[i]
		if d.Satisfied != e.satisfied || d.Method != e.method || d.Occurrences != e.occurrences {
			t.Fatalf("decision %d (%s): unexpected %+v", i, d.Phrase.Text, d)
		}
	}
}

func TestMatchLexicalEmptyInputs(t *testing.T) {
	if got := MatchLexical(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil decisions, got %v", got)
	}
	d := MatchLexical(phrases("go"), &Document{})
	if d[0].Satisfied {
		t.Fatalf("empty document satisfies nothing")
	}
}

func TestMatcherSemantic(t *testing.T) {
	doc := NewDocument(textnorm.New(), "Built data pipelines with Airflow.")
	enc := &mapEncoder{vectors: map[string]embedding.Vector{
		"built data pipelines with airflow": {1, 0, 0},
		"etl":                               {0.9, 0.1, 0},
		"graphic design":                    {0, 1, 0},
		"below threshold":                   {0.5, 0.866, 0},
	}}

	m := NewMatcher(enc, DefaultThreshold, nil)
	decisions, err := m.Match(context.Background(), phrases("airflow", "etl", "graphic design", "below threshold"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !decisions[0].Satisfied || decisions[0].Method != MethodExact {
		t.Fatalf("airflow must match exactly: %+v", decisions[0])
	}
	if !decisions[1].Satisfied || decisions[1].Method != MethodSemantic || decisions[1].Similarity <= DefaultThreshold {
		t.Fatalf("etl must match semantically: %+v", decisions[1])
	}
	if decisions[2].Satisfied || decisions[2].Method != "" {
		t.Fatalf("graphic design must stay missing: %+v", decisions[2])
	}
	if decisions[3].Satisfied {
		t.Fatalf("similarity not above the threshold must not match: %+v", decisions[3])
	}

	if len(enc.seen) != 1 {
		t.Fatalf("expected a single encode call, got %d", len(enc.seen))
	}
	for _, text := range enc.seen[0] {
		if text == "airflow" {
			t.Fatalf("exactly matched phrases must not be embedded")
		}
	}
}

func TestMatcherSkipsEncoderWhenAllExact(t *testing.T) {
	doc := NewDocument(textnorm.New(), "Go and SQL")
	enc := &mapEncoder{}

	decisions, err := NewMatcher(enc, 0, nil).Match(context.Background(), phrases("go", "sql"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enc.seen) != 0 {
		t.Fatalf("encoder must not be called")
	}
	for _, d := range decisions {
		if !d.Satisfied {
			t.Fatalf("expected all phrases to be satisfied")
		}
	}
}

func TestMatcherEncoderFailure(t *testing.T) {
	doc := NewDocument(textnorm.New(), "Go developer")
	enc := &mapEncoder{err: errors.New("quota")}

	_, err := NewMatcher(enc, 0, nil).Match(context.Background(), phrases("rust"), doc)
	if !errors.Is(err, embedding.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
