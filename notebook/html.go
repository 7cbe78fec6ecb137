package notebook

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

// HTML renders a static HTML preview of the notebook: markdown cells go
// through goldmark, code cells are emitted as fenced blocks.
func (d *Document) HTML() (string, error) {
	md := goldmark.New()

	var body strings.Builder
	for _, cell := range d.Cells {
		switch cell.Type {
		case "markdown":
			if err := md.Convert([]byte(cell.Source), &body); err != nil {
				return "", fmt.Errorf("failed to render markdown cell: %w", err)
			}
		case "code":
			body.WriteString("<pre><code class=\"language-go\">")
			body.WriteString(html.EscapeString(cell.Source))
			body.WriteString("</code></pre>\n")
		}
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString("<meta charset=\"utf-8\">\n")
	page.WriteString("<style>body { font-family: sans-serif; max-width: 46em; margin: 2em auto; } pre { background: #f6f8fa; padding: 1em; overflow-x: auto; }</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.WriteString(body.String())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
