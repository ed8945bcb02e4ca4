// Package enrich computes derived presentation metadata (reading time, table
// of contents, excerpt) from rendered body HTML.
package enrich

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/polysite/polysite/internal/content"
)

// wordsPerMinute is the reading-speed constant for reading-time estimates.
const wordsPerMinute = 200

// TOCEntry is one table-of-contents row: heading level, inline-tag-stripped
// text and the anchor id emitted by the markdown renderer.
type TOCEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Enricher annotates Content with reading time, TOC entries and an excerpt.
type Enricher struct {
	excerptLength int
}

// NewEnricher builds an Enricher with the configured excerpt cap.
func NewEnricher(excerptLength int) *Enricher {
	if excerptLength <= 0 {
		excerptLength = 200
	}
	return &Enricher{excerptLength: excerptLength}
}

// Enrich computes all derived metadata for one Content in place.
func (e *Enricher) Enrich(c *content.Content) {
	c.Metadata[content.MetaReadingTime] = ReadingTime(c.Body)
	c.Metadata[content.MetaTOC] = TableOfContents(c.Body)
	c.Metadata[content.MetaExcerpt] = e.excerpt(c)
}

// ReadingTime estimates minutes to read the body: tag-stripped word count
// divided by a fixed words-per-minute constant, floored, minimum 1.
func ReadingTime(body string) int {
	words := len(strings.Fields(StripTags(body)))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// TableOfContents scans rendered HTML for heading elements of level 2-6 that
// carry an anchor id. Level-1 headings are the page title and are skipped.
func TableOfContents(body string) []TOCEntry {
	entries := []TOCEntry{}
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return entries
		}
		if tt != html.StartTagToken {
			continue
		}
		tok := z.Token()
		level := headingLevel(tok.Data)
		if level < 2 {
			continue
		}
		id := attrValue(tok, "id")
		if id == "" {
			continue
		}
		entries = append(entries, TOCEntry{
			Level: level,
			Text:  collectText(z, tok.Data),
			ID:    id,
		})
	}
}

func (e *Enricher) excerpt(c *content.Content) string {
	// An explicit excerpt field always wins.
	if explicit, ok := c.Metadata[content.MetaExcerpt].(string); ok && explicit != "" {
		return Truncate(explicit, e.excerptLength)
	}
	if p := FirstParagraph(c.Body); p != "" {
		return Truncate(p, e.excerptLength)
	}
	return Truncate(strings.TrimSpace(StripTags(c.Body)), e.excerptLength)
}

// FirstParagraph returns the tag-stripped text of the first <p> block, or "".
func FirstParagraph(body string) string {
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt == html.StartTagToken {
			if tok := z.Token(); tok.Data == "p" {
				return strings.TrimSpace(collectText(z, "p"))
			}
		}
	}
}

// StripTags removes all HTML tags, inserting newlines at block-element
// boundaries so adjacent blocks do not fuse into one word.
func StripTags(body string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isBlock(string(name)) {
				b.WriteByte('\n')
			}
		}
	}
}

// Truncate caps text at max runes, cutting at the preceding word boundary and
// appending an ellipsis when anything was dropped.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n.,;:") + "…"
}

// collectText consumes tokens until the closing tag of until, concatenating
// text and dropping inline markup.
func collectText(z *html.Tokenizer, until string) string {
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == until {
				return b.String()
			}
		}
	}
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attrValue(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "br", "h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "pre", "table", "tr", "section", "article", "figure":
		return true
	}
	return false
}
