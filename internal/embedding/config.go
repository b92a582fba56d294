package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/secrets"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultMaxRetries        = 3
	defaultRequestsPerSecond = 5
)

// Config selects and tunes the embedding provider.
type Config struct {
	Enabled           bool          `mapstructure:"enabled" yaml:"enabled"`
	Provider          string        `mapstructure:"provider" yaml:"provider"`
	Model             string        `mapstructure:"model" yaml:"model"`
	APIKey            string        `mapstructure:"api-key" yaml:"-"`
	APIKeyFile        string        `mapstructure:"api-key-file" yaml:"api-key-file"`
	BaseURL           string        `mapstructure:"base-url" yaml:"base-url"`
	MaxRetries        int           `mapstructure:"max-retries" yaml:"max-retries"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second" yaml:"requests-per-second"`
	CacheTTL          time.Duration `mapstructure:"cache-ttl" yaml:"cache-ttl"`
}

// New returns the configured encoder, or nil when embeddings are disabled.
// The provider client is built lazily on first use, so a missing API key only
// surfaces as ErrModelUnavailable when an analysis needs the model.
func New(cfg Config, log *zap.Logger) (Encoder, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if !cfg.Enabled || provider == "" {
		return nil, nil
	}

	log = logger.WithCommonFields(log, provider, cfg.Model)

	var build func(ctx context.Context) (Encoder, error)
	switch provider {
	case ProviderGemini:
		build = func(ctx context.Context) (Encoder, error) {
			key, err := secrets.Load(secrets.Source{
				Name:  "gemini api key",
				Value: cfg.APIKey,
				File:  cfg.APIKeyFile,
				Env:   []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
			})
			if err != nil {
				return nil, err
			}
			return NewGemini(ctx, GeminiConfig{
				APIKey:            key,
				Model:             cfg.Model,
				BaseURL:           cfg.BaseURL,
				MaxRetries:        orDefault(cfg.MaxRetries, defaultMaxRetries),
				RequestsPerSecond: orDefaultFloat(cfg.RequestsPerSecond, defaultRequestsPerSecond),
			}, log)
		}
	case ProviderOpenAI:
		build = func(context.Context) (Encoder, error) {
			key, err := secrets.Load(secrets.Source{
				Name:  "openai api key",
				Value: cfg.APIKey,
				File:  cfg.APIKeyFile,
				Env:   []string{"OPENAI_API_KEY"},
			})
			if err != nil {
				return nil, err
			}
			return NewOpenAI(OpenAIConfig{
				APIKey:            key,
				Model:             cfg.Model,
				BaseURL:           cfg.BaseURL,
				RequestsPerSecond: orDefaultFloat(cfg.RequestsPerSecond, defaultRequestsPerSecond),
			})
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (known: %s, %s)", cfg.Provider, ProviderGemini, ProviderOpenAI)
	}

	if cfg.CacheTTL > 0 {
		inner := build
		build = func(ctx context.Context) (Encoder, error) {
			enc, err := inner(ctx)
			if err != nil {
				return nil, err
			}
			return NewCached(enc, cfg.CacheTTL), nil
		}
	}

	return NewLazy(provider, build, log), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
