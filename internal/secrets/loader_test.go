package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = original })
}

func TestLoadPrefersFile(t *testing.T) {
	withEnv(t, map[string]string{"GEMINI_API_KEY": "from-env"})

	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", File: path, Value: "inline", Env: []string{"GEMINI_API_KEY"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file secret, got %q", got)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	withEnv(t, map[string]string{"OPENAI_API_KEY": " sk-test "})

	got, err := Load(Source{Name: "openai api key", Env: []string{"MISSING", "OPENAI_API_KEY"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sk-test" {
		t.Fatalf("expected env secret, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	withEnv(t, map[string]string{"EMPTY": "   "})

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name   string
		src    Source
		expect string
	}{
		{name: "empty file", src: Source{Name: "token", File: empty}, expect: "is empty"},
		{name: "missing file", src: Source{Name: "token", File: empty + ".missing"}, expect: "reading token"},
		{name: "nothing configured", src: Source{}, expect: "secret is not configured"},
		{name: "blank env", src: Source{Name: "key", Env: []string{"EMPTY"}}, expect: "checked EMPTY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.expect) {
				t.Fatalf("expected %q in %q", tt.expect, err.Error())
			}
		})
	}
}
