package embedding

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/logger"
)

// Lazy builds its encoder on first use, exactly once. A failed build is kept
// and every later call reports ErrModelUnavailable without retrying.
type Lazy struct {
	name   string
	build  func(ctx context.Context) (Encoder, error)
	logger *zap.Logger

	once sync.Once
	enc  Encoder
	err  error
}

func NewLazy(name string, build func(ctx context.Context) (Encoder, error), log *zap.Logger) *Lazy {
	return &Lazy{name: name, build: build, logger: logger.OrNop(log)}
}

func (l *Lazy) Name() string { return l.name }

func (l *Lazy) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	enc, err := l.get(ctx)
	if err != nil {
		return nil, err
	}

	vectors, err := enc.Encode(ctx, texts)
	if err != nil {
		return nil, Unavailable(err)
	}
	return vectors, nil
}

func (l *Lazy) get(ctx context.Context) (Encoder, error) {
	l.once.Do(func() {
		enc, err := l.build(context.WithoutCancel(ctx))
		if err != nil {
			l.err = Unavailable(err)
			l.logger.Warn("embedding model could not be initialised", zap.Error(err))
			return
		}
		l.enc = enc
		l.logger.Info("embedding model initialised", zap.String("encoder", enc.Name()))
	})
	return l.enc, l.err
}
