// Package page renders the Markdown publication listing as a standalone HTML page.
package page

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// DefaultTitle is used when no page title is given.
const DefaultTitle = "Publications"

const header = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<h1>%s</h1>
`

const footer = `</body>
</html>
`

// newEngine builds the Markdown engine: GFM extensions and heading IDs so
// each year section can be linked to directly.
func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// RenderBody converts Markdown to an HTML fragment.
func RenderBody(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := newEngine().Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render converts the listing to a complete HTML document.
func Render(markdown []byte, title string) ([]byte, error) {
	if title == "" {
		title = DefaultTitle
	}
	body, err := RenderBody(markdown)
	if err != nil {
		return nil, err
	}

	escaped := html.EscapeString(title)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, header, escaped, escaped)
	buf.Write(body)
	buf.WriteString(footer)
	return buf.Bytes(), nil
}
