package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/document"
	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/engine"
	"github.com/spigell/resume-fit/internal/headhunter"
	"github.com/spigell/resume-fit/internal/secrets"
	"github.com/spigell/resume-fit/internal/vocabulary"
)

// newAnalyzer wires the analyzer from the configuration.
func newAnalyzer(config *Config, log *zap.Logger) (*engine.Analyzer, error) {
	vocab, err := vocabulary.Load(config.VocabularyFile)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}

	encoder, err := embedding.New(config.Embedding, log)
	if err != nil {
		return nil, fmt.Errorf("configuring embeddings: %w", err)
	}

	return engine.New(config.Engine, engine.Deps{
		Logger:     log,
		Vocabulary: vocab,
		Encoder:    encoder,
	})
}

func newHeadhunter(config *Config, log *zap.Logger, needToken bool) (*headhunter.Client, error) {
	token := ""
	if tokenFile := strings.TrimSpace(config.Headhunter.TokenFile); tokenFile != "" || needToken {
		var err error
		token, err = secrets.Load(secrets.Source{
			Name: "headhunter token",
			File: tokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set HH_TOKEN_FILE or headhunter.token-file)", err)
		}
	}

	hh := headhunter.New(log, token)
	if config.Headhunter.UserAgent != "" {
		hh.UserAgent = config.Headhunter.UserAgent
	}
	return hh, nil
}

// readDocument extracts the text of a local résumé or job description file.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := document.Extract(data, document.FormatFromPath(path))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

type sourceFlags struct {
	resumeFile  string
	resumeID    string
	resumeTitle string
	jobFile     string
	vacancyID   string
}

func (s sourceFlags) loadJob(ctx context.Context, config *Config, log *zap.Logger) (string, error) {
	switch {
	case s.jobFile != "" && s.vacancyID != "":
		return "", fmt.Errorf("--job and --vacancy-id are mutually exclusive")
	case s.jobFile != "":
		return readDocument(s.jobFile)
	case s.vacancyID != "":
		hh, err := newHeadhunter(config, log, false)
		if err != nil {
			return "", err
		}
		vacancy, err := hh.GetVacancy(ctx, s.vacancyID)
		if err != nil {
			return "", err
		}
		log.Info("got vacancy", zap.String("vacancy_id", vacancy.ID), zap.String("vacancy_name", vacancy.Name))
		return vacancy.Text(), nil
	default:
		return "", fmt.Errorf("one of --job or --vacancy-id is required")
	}
}

func (s sourceFlags) loadResume(ctx context.Context, config *Config, log *zap.Logger) (string, error) {
	set := 0
	for _, v := range []string{s.resumeFile, s.resumeID, s.resumeTitle} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return "", fmt.Errorf("exactly one of --resume, --resume-id or --resume-title is required")
	}

	if s.resumeFile != "" {
		return readDocument(s.resumeFile)
	}

	hh, err := newHeadhunter(config, log, true)
	if err != nil {
		return "", err
	}

	id := s.resumeID
	if s.resumeTitle != "" {
		resumes, err := hh.GetMineResumes(ctx)
		if err != nil {
			return "", err
		}
		selected := resumes.FindByTitle(s.resumeTitle)
		if selected == nil {
			return "", fmt.Errorf("resume with title %q not found (existing: %s)", s.resumeTitle, strings.Join(resumes.Titles(), ", "))
		}
		id = selected.ID
	}

	resume, err := hh.GetResume(ctx, id)
	if err != nil {
		return "", err
	}
	log.Info("got resume", zap.String("resume_id", resume.ID), zap.String("resume_title", resume.Title))
	return resume.Text(), nil
}
