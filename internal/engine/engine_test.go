package engine

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/filtering"
	"github.com/spigell/resume-fit/internal/requirements"
)

const (
	scenarioJob    = "Must have Python and SQL. Nice to have Java."
	scenarioResume = "I have 5 years of Python and SQL."
)

type fixedScorer struct {
	value float64
}

func (f fixedScorer) Name() string { return "fixed" }

func (f fixedScorer) Similarity(context.Context, string, string) (float64, error) {
	return f.value, nil
}

type failingEncoder struct {
	calls int
	mu    sync.Mutex
}

func (f *failingEncoder) Name() string { return "failing" }

func (f *failingEncoder) Encode(context.Context, []string) ([]embedding.Vector, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil, embedding.Unavailable(errors.New("quota exceeded"))
}

// constantEncoder maps every text to the same vector, so everything is
// semantically identical.
type constantEncoder struct{}

func (constantEncoder) Name() string { return "constant" }

func (constantEncoder) Encode(_ context.Context, texts []string) ([]embedding.Vector, error) {
	out := make([]embedding.Vector, len(texts))
	for i := range texts {
		out[i] = embedding.Vector{1, 1, 1}
	}
	return out, nil
}

func newAnalyzer(t *testing.T, cfg Config, deps Deps) *Analyzer {
	t.Helper()
	a, err := New(cfg, deps)
	require.NoError(t, err)
	return a
}

func TestAnalyzeScenario(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{Similarity: fixedScorer{value: 0.5}})

	res, err := a.Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "sql"}, res.Matched)
	assert.Equal(t, []string{"java"}, res.Missing)
	assert.GreaterOrEqual(t, res.Score, 65)
	assert.LessOrEqual(t, res.Score, 80)
	assert.Equal(t, 71, res.Score)
	assert.Equal(t, "fixed", res.SemanticMethod)
	assert.False(t, res.Degraded)

	tiers := res.Tiers()
	assert.Equal(t, requirements.TierHigh, tiers["python"])
	assert.Equal(t, requirements.TierHigh, tiers["sql"])
	assert.Equal(t, requirements.TierLow, tiers["java"])
}

func TestAnalyzeScenarioWithDefaultSimilarity(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{})

	res, err := a.Analyze(context.Background(), "5 years of Python development using SQL.", scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "sql"}, res.Matched)
	assert.Equal(t, []string{"java"}, res.Missing)
	assert.Equal(t, "tfidf", res.SemanticMethod)
	assert.InDelta(t, 6.0/7.0, res.Coverage, 1e-9)
	// python and sql are the only shared terms
	assert.InDelta(t, 0.2524, res.Semantic, 1e-3)
	assert.Equal(t, 62, res.Score)
}

func TestAnalyzeSplitsListItems(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{Similarity: fixedScorer{value: 0.5}})

	res, err := a.Analyze(context.Background(),
		"5 years of Python development using SQL and Docker.",
		"Must have Python, SQL, Docker and Kubernetes.")
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "sql", "docker"}, res.Matched)
	assert.Equal(t, []string{"kubernetes"}, res.Missing)
	for _, p := range res.Phrases {
		assert.Equal(t, requirements.TierHigh, p.Tier, "phrase %q", p.Text)
	}
	assert.InDelta(t, 0.75, res.Coverage, 1e-9)
	assert.Equal(t, 65, res.Score)
}

func TestPhrasesKeepListItemsAtomic(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{})

	tests := []struct {
		name        string
		requirement string
		expect      []string
	}{
		{
			name:        "colon and commas",
			requirement: "Requirements: Python, Django, PostgreSQL, Redis, Celery.",
			expect:      []string{"python", "django", "postgresql", "redis", "celery"},
		},
		{
			name:        "slash between skills",
			requirement: "Python/Go (Kafka)",
			expect:      []string{"python", "go", "kafka"},
		},
		{
			name:        "slash inside known term",
			requirement: "CI/CD, Terraform",
			expect:      []string{"ci cd", "terraform"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phrases, err := a.Phrases(context.Background(), tt.requirement)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, phrases.Texts())
		})
	}
}

func TestAnalyzeIdenticalDocuments(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{})

	res, err := a.Analyze(context.Background(), scenarioJob, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Score)
	assert.Empty(t, res.Missing)
	assert.Equal(t, "tfidf", res.SemanticMethod)
}

func TestAnalyzeEmptyRequirement(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{Similarity: fixedScorer{value: 1}})

	for _, requirement := range []string{"", "   \n\t", "The and of, to!"} {
		res, err := a.Analyze(context.Background(), scenarioResume, requirement)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Score)
		require.NotNil(t, res.Matched)
		require.NotNil(t, res.Missing)
		assert.Empty(t, res.Matched)
		assert.Empty(t, res.Missing)
	}
}

func TestAnalyzeEmptyCandidate(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{})

	res, err := a.Analyze(context.Background(), "", scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Matched)
	assert.Equal(t, []string{"python", "sql", "java"}, res.Missing)
}

func TestAnalyzeMonotonicity(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{Similarity: fixedScorer{value: 0.5}})

	before, err := a.Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)
	after, err := a.Analyze(context.Background(), scenarioResume+" Some Java too.", scenarioJob)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, after.Score, before.Score)
	assert.Contains(t, after.Matched, "java")
}

func TestAnalyzePartitionsPhrases(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{})

	job := `Requirements:
- Kubernetes is required
- PostgreSQL
- Kafka
- Terraform preferred
- AWS nice to have`
	resume := "Ran services on K8s with Postgres and Terraform."

	res, err := a.Analyze(context.Background(), resume, job)
	require.NoError(t, err)

	phrases, err := a.Phrases(context.Background(), job)
	require.NoError(t, err)

	all := append(append([]string{}, res.Matched...), res.Missing...)
	assert.ElementsMatch(t, phrases.Texts(), all)
	assert.Equal(t, []string{"kubernetes", "postgresql", "terraform"}, res.Matched)
	assert.Equal(t, []string{"kafka", "aws"}, res.Missing)
	assert.GreaterOrEqual(t, res.Score, 0)
	assert.LessOrEqual(t, res.Score, 100)

	for _, p := range res.Phrases {
		assert.True(t, p.Tier.Valid(), "phrase %q has tier %d", p.Text, p.Tier)
	}
	assert.Equal(t, requirements.TierLow, res.Tiers()["aws"])
	assert.Equal(t, requirements.TierMedium, res.Tiers()["terraform"])
	assert.Equal(t, requirements.TierHigh, res.Tiers()["kubernetes"])
}

func TestAnalyzeDegradesWhenEncoderFails(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	enc := &failingEncoder{}

	a := newAnalyzer(t, DefaultConfig(), Deps{Logger: zap.New(core), Encoder: enc})

	res, err := a.Analyze(context.Background(), "Python and Go", scenarioJob)
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Equal(t, "tfidf", res.SemanticMethod)
	assert.Equal(t, []string{"python"}, res.Matched)
	assert.Equal(t, []string{"sql", "java"}, res.Missing)
	assert.Equal(t, 1, enc.calls, "similarity must not retry a failed encoder")
	assert.Equal(t, 1, logs.FilterMessage("embedding model unavailable, falling back to lexical scoring").Len())
}

func TestAnalyzeSemanticMatching(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{Encoder: constantEncoder{}})

	res, err := a.Analyze(context.Background(), "Data engineering with relational databases", scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, "embedding", res.SemanticMethod)
	for _, p := range res.Phrases {
		assert.Equal(t, "semantic", string(p.Method))
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newAnalyzer(t, DefaultConfig(), Deps{Encoder: &failingEncoder{}})
	_, err := a.Analyze(ctx, scenarioResume, scenarioJob)
	require.Error(t, err)
}

func TestAnalyzeExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, filtering.ExcludeToFile(path, []string{"java"}, "not relevant"))

	cfg := DefaultConfig()
	cfg.ExcludeFile = path
	a := newAnalyzer(t, cfg, Deps{Similarity: fixedScorer{value: 0.5}})

	res, err := a.Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 80, res.Score)
}

func TestAnalyzeDictionaryExtractor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extractor = requirements.NameDictionary
	a := newAnalyzer(t, cfg, Deps{Similarity: fixedScorer{value: 0.5}})

	res, err := a.Analyze(context.Background(), "Python only", "We need Python, Docker and some project management")
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, res.Matched)
	assert.Equal(t, []string{"docker"}, res.Missing)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extractor = "llm"
	_, err := New(cfg, Deps{})
	require.ErrorIs(t, err, requirements.ErrUnknownExtractor)

	cfg = DefaultConfig()
	cfg.RepeatBonus = 9
	_, err = New(cfg, Deps{})
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.SimilarityThreshold = 1.2
	_, err = New(cfg, Deps{})
	require.Error(t, err)
}

func TestAnalyzerIsSafeForConcurrentUse(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{})

	want, err := a.Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := a.Analyze(context.Background(), scenarioResume, scenarioJob)
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, want.Score, res.Score)
		assert.Equal(t, want.Matched, res.Matched)
	}
}

func TestResultDumpToTmpFile(t *testing.T) {
	a := newAnalyzer(t, DefaultConfig(), Deps{Similarity: fixedScorer{value: 0.5}})
	res, err := a.Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	name, err := res.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.Score, decoded.Score)
	assert.Equal(t, res.Missing, decoded.Missing)
	assert.Equal(t, requirements.TierHigh, decoded.Tiers()["python"])
}
