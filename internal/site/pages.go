package site

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/enrich"
	"github.com/polysite/polysite/internal/feeds"
	ferrors "github.com/polysite/polysite/internal/foundation/errors"
	"github.com/polysite/polysite/internal/i18n"
	"github.com/polysite/polysite/internal/render"
)

// stageRenderPages renders and writes every individual content page, records
// sitemap entries and notes user-supplied literal index items so the matching
// auto-generated type index is suppressed later.
func stageRenderPages(bs *buildState) error {
	for _, c := range bs.items {
		route := bs.planner.ContentRoute(c)
		// Listing templates link items through this annotation.
		c.Metadata["url"] = route.URL

		if c.Slug == "index" {
			bs.userIndexes[typeLang{typeName: c.Type(), lang: c.Language}] = true
		}

		html, err := bs.renderer.Render(bs.contentContext(c, route.URL))
		if err != nil {
			return err
		}
		if err := bs.writeFile(route.Path, []byte(html)); err != nil {
			return err
		}

		entry := feeds.SitemapEntry{URL: route.URL}
		if c.HasDate() {
			entry.LastMod = c.Date
		}
		bs.sitemap = append(bs.sitemap, entry)
	}
	bs.recorder.AddPagesWritten(len(bs.items))
	return nil
}

func (bs *buildState) contentContext(c *content.Content, url string) *render.Context {
	alternates, _ := c.Metadata[content.MetaHreflang].([]i18n.Alternate)
	toc, _ := c.Metadata[content.MetaTOC].([]enrich.TOCEntry)
	return &render.Context{
		Site:       bs.siteContext(c.Language),
		Content:    c,
		Title:      c.Title,
		URL:        url,
		Body:       template.HTML(c.Body),
		Alternates: alternates,
		TOC:        toc,
		Extra:      map[string]any{},
	}
}

func (bs *buildState) siteContext(lang string) render.SiteContext {
	return render.SiteContext{
		Title:       bs.cfg.LanguageTitle(lang),
		Description: bs.cfg.Description,
		Author:      bs.cfg.Author,
		BaseURL:     bs.cfg.BaseURL,
		Language:    lang,
		Languages:   bs.cfg.LanguageCodes(),
	}
}

func (bs *buildState) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
			WithContext("path", path).Build()
	}
	bs.written++
	return nil
}

// byDateDesc orders newest-first, tie-broken by slug for deterministic
// pagination chunks.
func byDateDesc(items []*content.Content) []*content.Content {
	sorted := append([]*content.Content{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Slug < sorted[j].Slug
	})
	return sorted
}
