// Package markdown renders content bodies to HTML via Goldmark.
package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown bodies to HTML. Heading IDs are generated
// automatically so the table-of-contents pass downstream can address them.
type Renderer struct {
	md goldmark.Markdown
}

// Options configures Renderer construction.
type Options struct {
	// HighlightStyle names the Chroma style used for fenced code blocks.
	// Empty selects "github".
	HighlightStyle string
	// Unsafe passes raw HTML in content bodies through to the output.
	// Content is trusted (site author's own files), so this defaults on in
	// NewRenderer callers.
	Unsafe bool
}

// NewRenderer builds a Goldmark instance with GFM extensions, automatic
// heading IDs and fenced-code highlighting.
func NewRenderer(opts Options) *Renderer {
	style := opts.HighlightStyle
	if style == "" {
		style = "github"
	}
	gmOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.Unsafe {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return &Renderer{md: goldmark.New(gmOpts...)}
}

// Render converts a Markdown body (front matter already removed) to HTML.
func (r *Renderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
