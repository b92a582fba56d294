package embedding

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDisabled(t *testing.T) {
	for _, cfg := range []Config{{}, {Enabled: true}, {Provider: ProviderGemini}} {
		enc, err := New(cfg, nil)
		if err != nil || enc != nil {
			t.Fatalf("expected disabled encoder for %+v, got %v, %v", cfg, enc, err)
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Enabled: true, Provider: "bert"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewMissingKeyIsUnavailable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	enc, err := New(Config{Enabled: true, Provider: ProviderOpenAI}, nil)
	if err != nil {
		t.Fatalf("construction must not fail: %v", err)
	}
	if _, err := enc.Encode(context.Background(), []string{"go"}); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestNewOpenAIWithCache(t *testing.T) {
	calls := 0
	server := newEmbeddingsServer(t, &calls)

	keyFile := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(keyFile, []byte("test-key\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	enc, err := New(Config{
		Enabled:    true,
		Provider:   "OpenAI",
		APIKeyFile: keyFile,
		BaseURL:    server.URL,
		CacheTTL:   time.Minute,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := enc.Encode(context.Background(), []string{"go", "sql"}); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected cached second call, got %d requests", calls)
	}
}
