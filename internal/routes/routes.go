// Package routes computes output file paths and public URLs for every
// artifact the build writes: single pages, paginated indexes and archives.
package routes

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/content"
)

// Route pairs a public URL with the on-disk file it is served from.
type Route struct {
	URL  string
	Path string
}

// Planner computes routes from the resolved configuration. Empty path
// segments are omitted: the default language contributes no language segment
// and a content type declaring an empty URL prefix contributes no type
// segment.
type Planner struct {
	cfg *config.Config
}

// NewPlanner builds a Planner.
func NewPlanner(cfg *config.Config) *Planner {
	return &Planner{cfg: cfg}
}

// ContentRoute computes the route for one content page. A slug equal to the
// literal "index" collapses onto the parent directory instead of creating an
// index/ subdirectory.
func (p *Planner) ContentRoute(c *content.Content) Route {
	segs := joinSegments(c.LangPrefix(), c.URLPrefix())
	if c.Slug != "index" {
		segs = append(segs, c.Slug)
	}
	return p.route(segs)
}

// TypeBaseSegments returns the URL segments for a (content type, language)
// index base.
func (p *Planner) TypeBaseSegments(typeName, lang string) []string {
	prefix := typeName
	if def, ok := p.cfg.TypeFor(typeName); ok {
		prefix = def.URLPrefix
	}
	return joinSegments(p.langSegment(lang), prefix)
}

// ArchiveSegments returns the URL segments for a tag or category archive.
// kind is "tags" or "categories"; term is already slugified.
func (p *Planner) ArchiveSegments(kind, term, lang string) []string {
	return joinSegments(p.langSegment(lang), kind, term)
}

// Route resolves arbitrary segments to a Route.
func (p *Planner) Route(segs []string) Route { return p.route(segs) }

// AbsoluteURL prefixes a site-relative URL with the configured base URL.
func (p *Planner) AbsoluteURL(url string) string {
	return strings.TrimRight(p.cfg.BaseURL, "/") + url
}

// Page is one pagination result consumed by the renderer.
type Page struct {
	Number     int
	Size       int
	Items      []*content.Content
	TotalItems int
	TotalPages int
	URL        string
	PrevURL    string
	NextURL    string
	OutputPath string
}

// Paginate chunks items into pages beneath the given base segments. Page 1
// lives at the base itself; page N>1 beneath page/N/. An empty item list
// still produces exactly one (empty) page.
func (p *Planner) Paginate(baseSegs []string, items []*content.Content) []Page {
	perPage := p.cfg.PerPage
	total := len(items)
	pageCount := (total + perPage - 1) / perPage
	if pageCount < 1 {
		pageCount = 1
	}

	pages := make([]Page, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		start := (n - 1) * perPage
		end := min(start+perPage, total)

		pages = append(pages, Page{
			Number:     n,
			Size:       perPage,
			Items:      items[start:end],
			TotalItems: total,
			TotalPages: pageCount,
			URL:        p.pageURL(baseSegs, n),
			PrevURL:    p.neighborURL(baseSegs, n-1, pageCount),
			NextURL:    p.neighborURL(baseSegs, n+1, pageCount),
			OutputPath: p.pagePath(baseSegs, n),
		})
	}
	return pages
}

func (p *Planner) neighborURL(baseSegs []string, n, pageCount int) string {
	if n < 1 || n > pageCount {
		return ""
	}
	return p.pageURL(baseSegs, n)
}

func (p *Planner) pageURL(baseSegs []string, n int) string {
	if n <= 1 {
		return segmentsURL(baseSegs)
	}
	return segmentsURL(append(append([]string{}, baseSegs...), "page", fmt.Sprint(n)))
}

func (p *Planner) pagePath(baseSegs []string, n int) string {
	segs := baseSegs
	if n > 1 {
		segs = append(append([]string{}, baseSegs...), "page", fmt.Sprint(n))
	}
	return p.outputPath(segs)
}

func (p *Planner) route(segs []string) Route {
	return Route{URL: segmentsURL(segs), Path: p.outputPath(segs)}
}

func (p *Planner) outputPath(segs []string) string {
	parts := append([]string{p.cfg.OutputDir}, segs...)
	parts = append(parts, "index.html")
	return filepath.Join(parts...)
}

func (p *Planner) langSegment(lang string) string {
	if lang == p.cfg.DefaultLanguage {
		return ""
	}
	return lang
}

func segmentsURL(segs []string) string {
	joined := path.Join(segs...)
	if joined == "" || joined == "." {
		return "/"
	}
	return "/" + joined
}

func joinSegments(segs ...string) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
