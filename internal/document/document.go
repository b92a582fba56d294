// Package document extracts plain text from uploaded résumés and job
// descriptions.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var (
	ErrEmpty             = errors.New("no text found")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// ExtractionError reports a document that could not be turned into text.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s text: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FormatFromPath guesses the format from the file extension. Unknown
// extensions are treated as plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatText
	}
}

// Extract returns the text content of data. A document without any text is an
// error, never an empty string.
func Extract(data []byte, format Format) (string, error) {
	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatText, "":
		format = FormatText
		text, err = extractText(data)
	default:
		return "", &ExtractionError{Format: format, Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return "", &ExtractionError{Format: format, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ExtractionError{Format: format, Err: ErrEmpty}
	}

	return text, nil
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
