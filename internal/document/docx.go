package document

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
)

// extractDOCX renders body paragraphs and table cells as one line each.
func extractDOCX(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parsing docx: %v", r)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}

	var lines []string
	add := func(p *docx.Paragraph) {
		if line := strings.TrimSpace(p.String()); line != "" {
			lines = append(lines, line)
		}
	}

	for _, item := range doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph:
			add(o)
		case *docx.Table:
			for _, row := range o.TableRows {
				for _, cell := range row.TableCells {
					for _, p := range cell.Paragraphs {
						add(p)
					}
				}
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
