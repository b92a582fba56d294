package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/utils"
)

const (
	defaultGeminiModel = "text-embedding-004"
	geminiTaskType     = "SEMANTIC_SIMILARITY"

	maxBatchSize   = 100
	backoffBase    = time.Second
	backoffCeiling = 30 * time.Second
)

var (
	wait = utils.WaitFor

	retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*s`)
)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type GeminiConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	MaxRetries        int
	RequestsPerSecond float64
}

// Gemini embeds texts with the Google GenAI embedding API.
type Gemini struct {
	models     contentEmbedder
	model      string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewGemini creates a Gemini encoder configured for the Gemini API backend.
func NewGemini(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	return &Gemini{
		models:     client.Models,
		model:      model,
		maxRetries: orDefault(cfg.MaxRetries, defaultMaxRetries),
		limiter:    newLimiter(cfg.RequestsPerSecond),
		logger:     logger.WithCommonFields(log, ProviderGemini, model),
	}, nil
}

func (g *Gemini) Name() string { return ProviderGemini + "/" + g.model }

// Encode embeds texts in batches. Temporary API errors are retried with
// exponential backoff.
func (g *Gemini) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini encoder is not initialized")
	}

	out := make([]Vector, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		vectors, err := g.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (g *Gemini) embedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}
	cfg := &genai.EmbedContentConfig{TaskType: geminiTaskType}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if err := waitLimiter(ctx, g.limiter); err != nil {
			return nil, err
		}

		resp, err := g.models.EmbedContent(ctx, g.model, contents, cfg)
		if err == nil {
			return vectorsFromResponse(resp, len(texts))
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries-1 {
			break
		}

		g.logger.Warn("temporary embedding error, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

func vectorsFromResponse(resp *genai.EmbedContentResponse, want int) ([]Vector, error) {
	if resp == nil || len(resp.Embeddings) != want {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", got, want)
	}

	out := make([]Vector, 0, want)
	for _, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, errors.New("gemini api returned empty embedding")
		}
		out = append(out, Vector(emb.Values))
	}
	return out, nil
}

// retryDelay reports whether err is worth retrying and after which delay.
// A server-announced delay longer than the backoff ceiling is not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}
	if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
		return 0, false
	}

	if announced, ok := announcedDelay(apiErr); ok {
		if announced > backoffCeiling {
			return 0, false
		}
		return announced, true
	}

	return utils.Backoff(attempt, backoffBase, backoffCeiling), true
}

func announcedDelay(apiErr genai.APIError) (time.Duration, bool) {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d, true
		}
	}

	m := retryAfterPattern.FindStringSubmatch(apiErr.Message)
	if m == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
