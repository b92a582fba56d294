// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/engine"
	"github.com/spigell/resume-fit/internal/logger"
)

const (
	DefaultListen  = ":8080"
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 2 << 20
)

type Config struct {
	Listen  string        `mapstructure:"listen" yaml:"listen"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Analyzer is the part of engine.Analyzer the server needs.
type Analyzer interface {
	Analyze(ctx context.Context, candidate, requirement string) (*engine.Result, error)
}

type AnalyzeRequest struct {
	Resume string `json:"resume"`
	Job    string `json:"job"`
}

type Server struct {
	cfg      Config
	analyzer Analyzer
	logger   *zap.Logger
}

func New(cfg Config, analyzer Analyzer, log *zap.Logger) *Server {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Server{cfg: cfg, analyzer: analyzer, logger: logger.OrNop(log)}
}

// Handler returns the routes wrapped in a timeout handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("POST /analyze", s.handleAnalyze)

	return http.TimeoutHandler(mux, s.cfg.Timeout, `{"error":"analysis timed out"}`)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body: " + err.Error()})
		return
	}

	started := time.Now()
	res, err := s.analyzer.Analyze(r.Context(), req.Resume, req.Job)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		WriteJSON(w, status, map[string]any{"error": err.Error()})
		return
	}

	s.logger.Debug("request served",
		zap.Int("score", res.Score),
		zap.Duration("took", time.Since(started)),
	)
	WriteJSON(w, http.StatusOK, res)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
