// Package engine estimates how well a candidate document fits a requirement
// document.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/filtering"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/matching"
	"github.com/spigell/resume-fit/internal/requirements"
	"github.com/spigell/resume-fit/internal/scoring"
	"github.com/spigell/resume-fit/internal/similarity"
	"github.com/spigell/resume-fit/internal/textnorm"
	"github.com/spigell/resume-fit/internal/utils"
	"github.com/spigell/resume-fit/internal/vocabulary"
)

const previewLength = 120

// Deps aggregates the shared collaborators of an Analyzer.
type Deps struct {
	Logger     *zap.Logger
	Vocabulary *vocabulary.Vocabulary
	// Encoder enables semantic phrase matching and embedding similarity.
	Encoder embedding.Encoder
	// Similarity overrides the document similarity scorer.
	Similarity similarity.Scorer
}

// Analyzer holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger

	vocabulary *vocabulary.Vocabulary
	normalizer *textnorm.Normalizer
	extractor  requirements.Extractor
	classifier *requirements.Classifier
	matcher    *matching.Matcher
	blender    *scoring.Blender
	scorer     similarity.Scorer
	fallback   similarity.Scorer
}

func New(cfg Config, deps Deps) (*Analyzer, error) {
	log := logger.OrNop(deps.Logger)

	vocab := deps.Vocabulary
	if vocab == nil {
		v, err := vocabulary.Default()
		if err != nil {
			return nil, fmt.Errorf("loading default vocabulary: %w", err)
		}
		vocab = v
	}

	normalizer, err := vocab.Normalizer(cfg.KeepSymbols)
	if err != nil {
		return nil, err
	}

	extractor, err := requirements.New(cfg.Extractor, requirements.Options{
		Vocabulary: vocab,
		Normalizer: normalizer,
		MaxWords:   cfg.MaxWords,
	})
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}

	blender, err := scoring.NewBlender(scoring.Config{
		CoverageWeight: cfg.CoverageWeight,
		SemanticWeight: cfg.SemanticWeight,
		RepeatBonus:    cfg.RepeatBonus,
	})
	if err != nil {
		return nil, fmt.Errorf("creating score blender: %w", err)
	}

	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold >= 1 {
		return nil, fmt.Errorf("similarity threshold must be within [0, 1), got %v", cfg.SimilarityThreshold)
	}

	fallback := similarity.NewTFIDF(normalizer, vocab)
	scorer := deps.Similarity
	switch {
	case scorer != nil:
	case deps.Encoder != nil:
		scorer = similarity.NewEmbedding(deps.Encoder)
	default:
		scorer = fallback
	}

	a := &Analyzer{
		cfg:        cfg,
		logger:     log,
		vocabulary: vocab,
		normalizer: normalizer,
		extractor:  extractor,
		classifier: requirements.NewClassifier(vocab.CueTiers(), cfg.CueWindow),
		matcher:    matching.NewMatcher(deps.Encoder, cfg.SimilarityThreshold, log),
		blender:    blender,
		scorer:     scorer,
		fallback:   fallback,
	}

	log.Debug("analyzer ready",
		zap.String("extractor", extractor.Name()),
		zap.String("similarity", scorer.Name()),
		zap.Bool("semantic_matching", deps.Encoder != nil),
		zap.Any("filters", filtering.Describe(a.filters())),
	)

	return a, nil
}

// Phrases extracts, filters and classifies the requirement phrases of a
// requirement document.
func (a *Analyzer) Phrases(ctx context.Context, requirement string) (*requirements.Phrases, error) {
	log := logger.Stage(a.logger, "extract")

	var sentences []string
	for _, raw := range textnorm.Sentences(requirement) {
		if s := a.normalizer.Clauses(raw); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return &requirements.Phrases{}, nil
	}

	candidates, err := a.extractor.Extract(sentences)
	if err != nil {
		return nil, fmt.Errorf("extracting phrases: %w", err)
	}
	log.Debug("candidates extracted",
		zap.Int("sentences", len(sentences)),
		zap.Int("candidates", candidates.Len()),
		zap.Int("content_tokens", candidates.ContentTokens),
		zap.String("requirement_preview", utils.Preview(requirement, previewLength)),
	)

	phrases, err := filtering.Run(ctx, a.cfg.filtering(), filtering.Deps{Logger: log, Vocabulary: a.vocabulary}, a.filters(), candidates)
	if err != nil {
		return nil, fmt.Errorf("filtering phrases: %w", err)
	}

	a.classifier.Classify(phrases)
	return phrases, nil
}

// filters returns a fresh chain, since filters keep per-run state.
func (a *Analyzer) filters() []filtering.Filter {
	steps := filtering.Default()
	if a.extractor.Name() == requirements.NameDictionary {
		filtering.DisableByName(steps, "frequency", "dictionary phrases are curated")
	}
	return steps
}

// Analyze scores candidate against requirement. An empty requirement, or one
// without any usable phrase, yields a zero result and no error. Both documents
// reach the similarity scorer normalized. When the embedding model fails the
// analysis degrades to lexical matching and TF-IDF similarity instead of
// failing.
func (a *Analyzer) Analyze(ctx context.Context, candidate, requirement string) (*Result, error) {
	phrases, err := a.Phrases(ctx, requirement)
	if err != nil {
		return nil, err
	}
	if phrases.Len() == 0 {
		a.logger.Info("no requirement phrases found")
		return emptyResult(), nil
	}

	doc := matching.NewDocument(a.normalizer, candidate)
	degraded := false

	decisions, err := a.matcher.Match(ctx, phrases, doc)
	if err != nil {
		if !a.canDegrade(ctx, err) {
			return nil, fmt.Errorf("matching phrases: %w", err)
		}
		a.degrade("matching", err)
		degraded = true
		decisions = matching.MatchLexical(phrases, doc)
	}

	scorer := a.scorer
	if degraded && scorer.Name() == similarity.NameEmbedding {
		scorer = a.fallback
	}

	candidateText, requirementText := doc.Text(), a.requirementText(phrases)
	semantic, err := scorer.Similarity(ctx, candidateText, requirementText)
	if err != nil {
		if !a.canDegrade(ctx, err) {
			return nil, fmt.Errorf("scoring similarity: %w", err)
		}
		a.degrade("similarity", err)
		degraded = true
		scorer = a.fallback
		if semantic, err = scorer.Similarity(ctx, candidateText, requirementText); err != nil {
			return nil, fmt.Errorf("scoring similarity: %w", err)
		}
	}

	blended := a.blender.Blend(decisions, semantic)

	res := &Result{
		Score:          blended.Score,
		Matched:        blended.Matched,
		Missing:        blended.Missing,
		Phrases:        make([]PhraseReport, 0, len(decisions)),
		Coverage:       blended.Coverage,
		Semantic:       blended.Semantic,
		SemanticMethod: scorer.Name(),
		Bonus:          blended.Bonus,
		Degraded:       degraded,
	}
	for _, d := range decisions {
		res.Phrases = append(res.Phrases, PhraseReport{
			Text:        d.Phrase.Text,
			Tier:        d.Phrase.Tier,
			Satisfied:   d.Satisfied,
			Method:      d.Method,
			Similarity:  d.Similarity,
			Occurrences: d.Occurrences,
		})
	}

	a.logger.Info("analysis finished",
		zap.Int("score", res.Score),
		zap.Int("matched", len(res.Matched)),
		zap.Int("missing", len(res.Missing)),
		zap.Float64("coverage", res.Coverage),
		zap.Float64("semantic", res.Semantic),
		zap.String("semantic_method", res.SemanticMethod),
		zap.Bool("degraded", res.Degraded),
	)

	return res, nil
}

// requirementText renders the normalized requirement one sentence per line,
// without clause breaks.
func (a *Analyzer) requirementText(p *requirements.Phrases) string {
	lines := make([]string, 0, len(p.Sentences))
	for _, sentence := range p.Sentences {
		if line := a.normalizer.Normalize(sentence); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// canDegrade reports whether err is an embedding failure the analysis can
// survive. Cancellation of the caller's context is never survived.
func (a *Analyzer) canDegrade(ctx context.Context, err error) bool {
	return ctx.Err() == nil && errors.Is(err, embedding.ErrModelUnavailable)
}

func (a *Analyzer) degrade(stage string, err error) {
	logger.Stage(a.logger, stage).Warn("embedding model unavailable, falling back to lexical scoring",
		zap.Error(err),
	)
}
