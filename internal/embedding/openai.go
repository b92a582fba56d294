package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const defaultOpenAIModel = openai.SmallEmbedding3

type OpenAIConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	RequestsPerSecond float64
}

// OpenAI embeds texts through an OpenAI-compatible embeddings endpoint.
type OpenAI struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	limiter *rate.Limiter
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := openai.EmbeddingModel(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		limiter: newLimiter(cfg.RequestsPerSecond),
	}, nil
}

func (o *OpenAI) Name() string { return ProviderOpenAI + "/" + string(o.model) }

func (o *OpenAI) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		if err := waitLimiter(ctx, o.limiter); err != nil {
			return nil, err
		}

		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: o.model,
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("openai api returned %d embeddings for %d texts", len(resp.Data), end-start)
		}

		batch := make([]Vector, end-start)
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(batch) {
				return nil, fmt.Errorf("openai api returned embedding index %d out of range", item.Index)
			}
			batch[item.Index] = Vector(item.Embedding)
		}
		for _, v := range batch {
			if len(v) == 0 {
				return nil, errors.New("openai api returned empty embedding")
			}
		}
		out = append(out, batch...)
	}
	return out, nil
}
