package headhunter

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlToText renders an HTML fragment as plain text with one line per block
// element. List items keep a bullet so sentence splitting sees them.
func htmlToText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		lines   []string
		current strings.Builder
	)
	flush := func() {
		if line := strings.Join(strings.Fields(current.String()), " "); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error: either way keep what was read
			flush()
			return strings.Join(lines, "\n")
		case html.TextToken:
			current.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); a {
			case atom.Li:
				flush()
				current.WriteString("• ")
			default:
				if isBlock(a) {
					flush()
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Li || isBlock(a) {
				flush()
			}
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Br, atom.Div, atom.Ul, atom.Ol, atom.Li,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Table, atom.Tr, atom.Blockquote:
		return true
	}
	return false
}
