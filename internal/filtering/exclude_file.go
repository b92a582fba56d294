package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/requirements"
)

// ExcludedPhrases is the content of an exclude file.
type ExcludedPhrases struct {
	Items []*ExcludedPhrase
}

type ExcludedPhrase struct {
	Text       string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

// LoadExcludedPhrases reads an exclude file. A missing or empty file yields an
// empty list.
func LoadExcludedPhrases(path string) (*ExcludedPhrases, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedPhrases{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPhrases{}, nil
	}

	var excluded ExcludedPhrases
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds phrases that are not in the list yet.
func (e *ExcludedPhrases) Append(texts []string, reason string) {
	known := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		known[item.Text] = struct{}{}
	}
	for _, text := range texts {
		if _, ok := known[text]; ok || text == "" {
			continue
		}
		known[text] = struct{}{}
		e.Items = append(e.Items, &ExcludedPhrase{
			Text:       text,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
}

func (e *ExcludedPhrases) Texts() []string {
	texts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		texts = append(texts, item.Text)
	}
	return texts
}

func (e *ExcludedPhrases) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// ExcludeToFile appends phrases to the exclude file at path.
func ExcludeToFile(path string, texts []string, reason string) error {
	excluded, err := LoadExcludedPhrases(path)
	if err != nil {
		return fmt.Errorf("reading exclude file: %w", err)
	}
	excluded.Append(texts, reason)
	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("writing exclude file: %w", err)
	}
	return nil
}

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes phrases listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, p *requirements.Phrases) (*requirements.Phrases, Step, error) {
	initial := p.Len()
	if f.path == "" {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded, err := LoadExcludedPhrases(f.path)
	if err != nil {
		return p, Step{}, fmt.Errorf("getting excluded phrases from file: %w", err)
	}

	removed := p.Exclude(excluded.Texts())
	if len(removed) > 0 {
		deps.Logger.Info("excluding phrases based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_phrases", removed),
			zap.Int("phrases_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return f.status(f.Name(), details)
}
