// Package content defines the content model and the loading/classification
// front of the build pipeline.
package content

import (
	"time"
)

// Metadata keys attached to Content by pipeline stages.
const (
	MetaContentType   = "content_type"
	MetaURLPrefix     = "url_prefix"
	MetaLangPrefix    = "lang_prefix"
	MetaDefaultLayout = "default_layout"
	MetaLayout        = "layout"
	MetaTranslations  = "translations"

	// MetaTranslationsAuto holds the translation map synthesized by the
	// cross-linker. It lives under its own key so cached content can never
	// present an inferred map as an author declaration; the cross-linker
	// discards and recomputes it on every build.
	MetaTranslationsAuto = "translations_auto"

	MetaHreflang    = "hreflang_alternates"
	MetaReadingTime = "reading_time"
	MetaTOC         = "toc"
	MetaExcerpt     = "excerpt"
)

// RawContent is the transient record between reading a file and rendering its
// body. Pre-parse hooks may rewrite it in place.
type RawContent struct {
	Path     string
	Filename string
	Fields   map[string]any
	Body     []byte
}

// Content is the durable unit flowing through every pipeline stage after
// parsing. Stages annotate it (classification, enrichment, cross-linking)
// rather than replacing it.
type Content struct {
	Title      string
	Body       string // rendered HTML
	Date       time.Time
	Slug       string
	Language   string
	SourcePath string
	Categories []string
	Tags       []string
	Draft      bool
	Metadata   map[string]any
}

// HasDate reports whether the content carries a publication date.
func (c *Content) HasDate() bool { return !c.Date.IsZero() }

// Type returns the classified content type ("posts", "pages", ...).
func (c *Content) Type() string {
	t, _ := c.Metadata[MetaContentType].(string)
	return t
}

// URLPrefix returns the classified URL prefix for this content's type.
func (c *Content) URLPrefix() string {
	p, _ := c.Metadata[MetaURLPrefix].(string)
	return p
}

// LangPrefix returns the URL language segment, empty for the default language.
func (c *Content) LangPrefix() string {
	p, _ := c.Metadata[MetaLangPrefix].(string)
	return p
}

// Translations returns the author-declared language→slug translation map from
// front matter. Maps inferred by the cross-linker are not included; see
// LinkedTranslations.
func (c *Content) Translations() map[string]string {
	switch v := c.Metadata[MetaTranslations].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for lang, slug := range v {
			if s, ok := slug.(string); ok {
				out[lang] = s
			}
		}
		return out
	default:
		return nil
	}
}

// SetTranslations stores a translation map in normalized form.
func (c *Content) SetTranslations(t map[string]string) {
	c.Metadata[MetaTranslations] = t
}

// LinkedTranslations returns the translation map in effect for this content:
// the author-declared map when one exists, otherwise the map the cross-linker
// synthesized during the current build.
func (c *Content) LinkedTranslations() map[string]string {
	if t := c.Translations(); len(t) > 0 {
		return t
	}
	auto, _ := c.Metadata[MetaTranslationsAuto].(map[string]string)
	return auto
}

// CacheEntry pairs the last-seen modification time of a source file with its
// parsed Content.
type CacheEntry struct {
	ModTime time.Time
	Content *Content
}

// Cache maps absolute source paths to cache entries. It is owned exclusively
// by the orchestrator for one build call and round-tripped between calls.
type Cache map[string]CacheEntry
