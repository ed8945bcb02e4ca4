// Package feeds assembles syndication feeds and the sitemap. Node
// construction is delegated to nodetree; this package only decides the node
// set and its ordering.
package feeds

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/nodetree"
	"github.com/polysite/polysite/internal/routes"
)

// Artifact is one generated file ready to be written by the orchestrator.
type Artifact struct {
	Path string
	Data []byte
}

// SitemapEntry is one <url> row. A zero LastMod omits the element.
type SitemapEntry struct {
	URL     string
	LastMod time.Time
}

// Generator assembles feed and sitemap artifacts for one build.
type Generator struct {
	cfg     *config.Config
	planner *routes.Planner
}

// NewGenerator builds a Generator.
func NewGenerator(cfg *config.Config, planner *routes.Planner) *Generator {
	return &Generator{cfg: cfg, planner: planner}
}

// Feeds produces the root feed, one feed per non-default language and one
// feed per content type, each in both RSS 2.0 and JSON Feed form. Undated
// content never appears in feeds; entries order newest-first.
func (g *Generator) Feeds(items []*content.Content) ([]Artifact, error) {
	dated := datedSortedDesc(items)

	var artifacts []Artifact
	add := func(segs []string, title string, feedItems []*content.Content) error {
		baseURL := segmentsURL(segs)
		rss := g.rss(title, baseURL, feedItems)
		artifacts = append(artifacts, Artifact{
			Path: g.outPath(segs, "feed.xml"),
			Data: nodetree.XML(rss),
		})
		jsonData, err := nodetree.JSON(g.jsonFeed(title, baseURL, segs, feedItems))
		if err != nil {
			return err
		}
		artifacts = append(artifacts, Artifact{
			Path: g.outPath(segs, "feed.json"),
			Data: jsonData,
		})
		return nil
	}

	if err := add(nil, g.cfg.Title, dated); err != nil {
		return nil, err
	}

	for _, lang := range g.cfg.LanguageCodes() {
		if lang == g.cfg.DefaultLanguage {
			continue
		}
		var langItems []*content.Content
		for _, c := range dated {
			if c.Language == lang {
				langItems = append(langItems, c)
			}
		}
		if err := add([]string{lang}, g.cfg.LanguageTitle(lang), langItems); err != nil {
			return nil, err
		}
	}

	for _, typeName := range sortedTypeNames(dated) {
		var typeItems []*content.Content
		for _, c := range dated {
			if c.Type() == typeName {
				typeItems = append(typeItems, c)
			}
		}
		segs := g.planner.TypeBaseSegments(typeName, g.cfg.DefaultLanguage)
		if len(segs) == 0 {
			// An empty URL prefix would put this feed on top of the
			// site-wide one at the output root.
			segs = []string{typeName}
		}
		title := fmt.Sprintf("%s · %s", g.cfg.Title, typeName)
		if err := add(segs, title, typeItems); err != nil {
			return nil, err
		}
	}

	return artifacts, nil
}

// Sitemap aggregates entries into sitemap.xml at the output root. Entries are
// emitted in URL order for deterministic output.
func (g *Generator) Sitemap(entries []SitemapEntry) Artifact {
	sorted := append([]SitemapEntry{}, entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].URL < sorted[j].URL })

	urlset := nodetree.New("urlset").
		Attr("xmlns", "http://www.sitemaps.org/schemas/sitemap/0.9")
	for _, e := range sorted {
		url := nodetree.New("url").AddElem("loc", g.planner.AbsoluteURL(e.URL))
		if !e.LastMod.IsZero() {
			url.AddElem("lastmod", e.LastMod.Format("2006-01-02"))
		}
		urlset.Add(url)
	}
	return Artifact{
		Path: filepath.Join(g.cfg.OutputDir, "sitemap.xml"),
		Data: nodetree.XML(urlset),
	}
}

func (g *Generator) rss(title, baseURL string, items []*content.Content) *nodetree.Node {
	channel := nodetree.New("channel").
		AddElem("title", title).
		AddElem("link", g.planner.AbsoluteURL(baseURL)).
		AddElem("description", g.cfg.Description)
	if len(items) > 0 {
		channel.AddElem("lastBuildDate", items[0].Date.Format(time.RFC1123Z))
	}

	for _, c := range items {
		url := g.planner.AbsoluteURL(g.planner.ContentRoute(c).URL)
		item := nodetree.New("item").
			AddElem("title", c.Title).
			AddElem("link", url).
			AddElem("pubDate", c.Date.Format(time.RFC1123Z))
		item.Add(nodetree.Elem("guid", url).Attr("isPermaLink", "true"))
		if excerpt, ok := c.Metadata[content.MetaExcerpt].(string); ok && excerpt != "" {
			item.AddElem("description", excerpt)
		}
		channel.Add(item)
	}

	return nodetree.New("rss").Attr("version", "2.0").Add(channel)
}

func (g *Generator) jsonFeed(title, baseURL string, segs []string, items []*content.Content) map[string]any {
	feedItems := make([]map[string]any, 0, len(items))
	for _, c := range items {
		url := g.planner.AbsoluteURL(g.planner.ContentRoute(c).URL)
		entry := map[string]any{
			"id":             url,
			"url":            url,
			"title":          c.Title,
			"date_published": c.Date.Format(time.RFC3339),
			"content_html":   c.Body,
			"language":       c.Language,
		}
		if excerpt, ok := c.Metadata[content.MetaExcerpt].(string); ok && excerpt != "" {
			entry["summary"] = excerpt
		}
		feedItems = append(feedItems, entry)
	}

	return map[string]any{
		"version":       "https://jsonfeed.org/version/1.1",
		"title":         title,
		"home_page_url": g.planner.AbsoluteURL(baseURL),
		"feed_url":      g.planner.AbsoluteURL(segmentsURL(append(append([]string{}, segs...), "feed.json"))),
		"items":         feedItems,
	}
}

func (g *Generator) outPath(segs []string, name string) string {
	parts := append([]string{g.cfg.OutputDir}, segs...)
	return filepath.Join(append(parts, name)...)
}

// datedSortedDesc filters out undated content and orders the rest
// newest-first, tie-broken by slug so output stays deterministic.
func datedSortedDesc(items []*content.Content) []*content.Content {
	dated := make([]*content.Content, 0, len(items))
	for _, c := range items {
		if c.HasDate() {
			dated = append(dated, c)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		if !dated[i].Date.Equal(dated[j].Date) {
			return dated[i].Date.After(dated[j].Date)
		}
		return dated[i].Slug < dated[j].Slug
	})
	return dated
}

func sortedTypeNames(items []*content.Content) []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range items {
		if t := c.Type(); t != "" && !seen[t] {
			seen[t] = true
			names = append(names, t)
		}
	}
	sort.Strings(names)
	return names
}

func segmentsURL(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	url := ""
	for _, s := range segs {
		if s != "" {
			url += "/" + s
		}
	}
	if url == "" {
		return "/"
	}
	return url
}
