package site

import (
	"sort"

	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/feeds"
	"github.com/polysite/polysite/internal/i18n"
	"github.com/polysite/polysite/internal/render"
	"github.com/polysite/polysite/internal/slug"
)

func stageTagArchives(bs *buildState) error {
	return bs.buildTermArchives("tags", func(c *content.Content) []string { return c.Tags })
}

func stageCategoryArchives(bs *buildState) error {
	return bs.buildTermArchives("categories", func(c *content.Content) []string { return c.Categories })
}

// buildTermArchives writes one paginated listing per (term, language) pair,
// with hreflang alternates derived from which languages share the term.
func (bs *buildState) buildTermArchives(kind string, termsOf func(*content.Content) []string) error {
	type termLang struct {
		term string
		lang string
	}
	groups := make(map[termLang][]*content.Content)
	termLangs := make(map[string][]string) // term slug → languages with content
	termNames := make(map[string]string)   // term slug → display name

	for _, c := range bs.items {
		for _, term := range termsOf(c) {
			s := slug.Make(term)
			if s == "" {
				continue
			}
			k := termLang{term: s, lang: c.Language}
			if len(groups[k]) == 0 {
				termLangs[s] = append(termLangs[s], c.Language)
			}
			groups[k] = append(groups[k], c)
			termNames[s] = term
		}
	}

	terms := make([]string, 0, len(termLangs))
	for term := range termLangs {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, term := range terms {
		alternates := bs.linker.ArchiveAlternates(termLangs[term], func(lang string) string {
			return bs.planner.Route(bs.planner.ArchiveSegments(kind, term, lang)).URL
		})
		for _, lang := range bs.orderedLangs(termLangs[term]) {
			group := groups[termLang{term: term, lang: lang}]
			segs := bs.planner.ArchiveSegments(kind, term, lang)
			if err := bs.writeListing(segs, termNames[term], lang, group, alternates); err != nil {
				return err
			}
		}
	}
	return nil
}

// stageTypeIndexes writes exactly one paginated index per (content type,
// language) combination, covering both configured and discovered types —
// unless the author supplied a literal `index` item for that combination.
func stageTypeIndexes(bs *buildState) error {
	typeNames := map[string]bool{}
	for name := range bs.cfg.ContentTypes {
		typeNames[name] = true
	}
	groups := make(map[typeLang][]*content.Content)
	for _, c := range bs.items {
		typeNames[c.Type()] = true
		if c.Slug == "index" {
			continue // the user's own index page, not a listing item
		}
		groups[typeLang{typeName: c.Type(), lang: c.Language}] = append(
			groups[typeLang{typeName: c.Type(), lang: c.Language}], c)
	}

	sorted := make([]string, 0, len(typeNames))
	for name := range typeNames {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, typeName := range sorted {
		var withContent []string
		for _, lang := range bs.cfg.LanguageCodes() {
			if len(groups[typeLang{typeName: typeName, lang: lang}]) > 0 {
				withContent = append(withContent, lang)
			}
		}
		alternates := bs.linker.ArchiveAlternates(withContent, func(lang string) string {
			return bs.planner.Route(bs.planner.TypeBaseSegments(typeName, lang)).URL
		})

		for _, lang := range bs.cfg.LanguageCodes() {
			if bs.userIndexes[typeLang{typeName: typeName, lang: lang}] {
				continue
			}
			group := groups[typeLang{typeName: typeName, lang: lang}]
			segs := bs.planner.TypeBaseSegments(typeName, lang)
			// An empty URL prefix means this index is the language's homepage.
			title := render.TitleCase(typeName)
			if def, ok := bs.cfg.TypeFor(typeName); ok && def.URLPrefix == "" {
				title = bs.cfg.LanguageTitle(lang)
			}
			if err := bs.writeListing(segs, title, lang, group, alternates); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeListing paginates a group and renders every page, registering each
// page URL in the sitemap without a last-modified date.
func (bs *buildState) writeListing(segs []string, title, lang string, items []*content.Content, alternates []i18n.Alternate) error {
	pages := bs.planner.Paginate(segs, byDateDesc(items))
	for i := range pages {
		page := &pages[i]
		ctx := &render.Context{
			Site:       bs.siteContext(lang),
			Page:       page,
			Title:      title,
			URL:        page.URL,
			Alternates: alternates,
			Extra:      map[string]any{"layout": "list"},
		}
		html, err := bs.renderer.Render(ctx)
		if err != nil {
			return err
		}
		if err := bs.writeFile(page.OutputPath, []byte(html)); err != nil {
			return err
		}
		bs.sitemap = append(bs.sitemap, feeds.SitemapEntry{URL: page.URL})
	}
	return nil
}

// orderedLangs filters the configured language order down to langs.
func (bs *buildState) orderedLangs(langs []string) []string {
	want := make(map[string]bool, len(langs))
	for _, l := range langs {
		want[l] = true
	}
	var out []string
	for _, l := range bs.cfg.LanguageCodes() {
		if want[l] {
			out = append(out, l)
		}
	}
	return out
}
