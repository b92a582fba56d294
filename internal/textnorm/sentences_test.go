package textnorm

import "testing"

func TestSentences(t *testing.T) {
	got := Sentences("Must have Python and SQL. Nice to have Java.")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %q", len(got), got)
	}
	if Clean(got[0], true) != "must have python and sql" {
		t.Fatalf("unexpected first sentence: %q", got[0])
	}
	if Clean(got[1], true) != "nice to have java" {
		t.Fatalf("unexpected second sentence: %q", got[1])
	}
}

func TestSentencesSplitsLinesAndBullets(t *testing.T) {
	got := Sentences("Requirements:\n• Go\n• Kubernetes; Terraform\n\n")
	expect := []string{"Requirements:", "Go", "Kubernetes", "Terraform"}
	if len(got) != len(expect) {
		t.Fatalf("expected %d sentences, got %d: %q", len(expect), len(got), got)
	}
	for i := range expect {
		if got[i] != expect[i] {
			t.Fatalf("sentence %d: expected %q, got %q", i, expect[i], got[i])
		}
	}
}

func TestSentencesEmpty(t *testing.T) {
	if got := Sentences("  \n\t "); len(got) != 0 {
		t.Fatalf("expected no sentences, got %q", got)
	}
}

func TestSplitPunctuation(t *testing.T) {
	got := splitPunctuation("Go is required! Rust is a plus. Docker")
	if len(got) != 3 || got[2] != "Docker" {
		t.Fatalf("unexpected split: %q", got)
	}
}
