package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLazyBuildsOnceUnderConcurrentUse(t *testing.T) {
	var builds atomic.Int32
	inner := &countingEncoder{name: "fake"}
	l := NewLazy("fake", func(context.Context) (Encoder, error) {
		builds.Add(1)
		return inner, nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Encode(context.Background(), []string{"go"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Fatalf("expected a single build, got %d", builds.Load())
	}
	if len(inner.texts) != 16 {
		t.Fatalf("expected 16 encoded texts, got %d", len(inner.texts))
	}
}

func TestLazyRemembersBuildFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	var builds atomic.Int32
	cause := errors.New("no api key")
	l := NewLazy("fake", func(context.Context) (Encoder, error) {
		builds.Add(1)
		return nil, cause
	}, zap.New(core))

	for i := 0; i < 3; i++ {
		_, err := l.Encode(context.Background(), []string{"go"})
		if !errors.Is(err, ErrModelUnavailable) || !errors.Is(err, cause) {
			t.Fatalf("expected ErrModelUnavailable wrapping cause, got %v", err)
		}
	}

	if builds.Load() != 1 {
		t.Fatalf("failed build must not be retried, got %d builds", builds.Load())
	}
	if logs.FilterMessage("embedding model could not be initialised").Len() != 1 {
		t.Fatalf("expected a single warning")
	}
}

func TestLazyWrapsEncodeErrors(t *testing.T) {
	l := NewLazy("fake", func(context.Context) (Encoder, error) {
		return &countingEncoder{name: "fake", err: errors.New("rate limited")}, nil
	}, nil)

	if _, err := l.Encode(context.Background(), []string{"go"}); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestLazyBuildIgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buildErr error
	l := NewLazy("fake", func(ctx context.Context) (Encoder, error) {
		buildErr = ctx.Err()
		return &countingEncoder{name: "fake"}, nil
	}, nil)

	_, _ = l.Encode(ctx, []string{"go"})
	if buildErr != nil {
		t.Fatalf("build context must not inherit cancellation, got %v", buildErr)
	}
}
