// Package i18n links same-slug content across languages and resolves hreflang
// alternate lists for multilingual SEO.
package i18n

import (
	"sort"

	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/routes"
)

// Alternate is one hreflang entry: a language code (or "x-default") and the
// URL serving that language's version.
type Alternate struct {
	Lang string
	URL  string
}

// XDefault is the hreflang code marking the fallback alternate.
const XDefault = "x-default"

type groupKey struct {
	typeName string
	slug     string
}

type indexKey struct {
	typeName string
	lang     string
	slug     string
}

// CrossLinker wires translations and hreflang metadata across a build's
// content set.
type CrossLinker struct {
	planner     *routes.Planner
	defaultLang string
}

// NewCrossLinker builds a CrossLinker.
func NewCrossLinker(planner *routes.Planner, defaultLang string) *CrossLinker {
	return &CrossLinker{planner: planner, defaultLang: defaultLang}
}

// AutoLink groups content by (type, slug) and, for every group spanning more
// than one language, synthesizes a translations map for each member that does
// not declare one. An explicit non-empty map always wins over inference.
// Synthesized maps and alternate lists from an earlier build are discarded
// first, so content served from the parse cache is re-linked against the
// current content set.
func (cl *CrossLinker) AutoLink(items []*content.Content) {
	groups := make(map[groupKey][]*content.Content)
	for _, c := range items {
		delete(c.Metadata, content.MetaTranslationsAuto)
		delete(c.Metadata, content.MetaHreflang)
		k := groupKey{typeName: c.Type(), slug: c.Slug}
		groups[k] = append(groups[k], c)
	}

	for _, group := range groups {
		if !spansLanguages(group) {
			continue
		}
		for _, c := range group {
			if len(c.Translations()) > 0 {
				continue
			}
			t := make(map[string]string)
			for _, other := range group {
				if other.Language == c.Language {
					continue
				}
				t[other.Language] = other.Slug
			}
			c.Metadata[content.MetaTranslationsAuto] = t
		}
	}
}

// ResolveHreflang computes the ordered alternate list for every content item
// with a non-empty translations map: the item's own (language, URL) first,
// then one entry per translation reference that resolves in the
// (type, language, slug) index. Unresolvable references are dropped silently.
// When more than one alternate results, an x-default pointing at the item's
// own URL is appended.
func (cl *CrossLinker) ResolveHreflang(items []*content.Content) {
	index := make(map[indexKey]*content.Content, len(items))
	for _, c := range items {
		index[indexKey{typeName: c.Type(), lang: c.Language, slug: c.Slug}] = c
	}

	for _, c := range items {
		translations := c.LinkedTranslations()
		if len(translations) == 0 {
			continue
		}

		ownURL := cl.planner.ContentRoute(c).URL
		alternates := []Alternate{{Lang: c.Language, URL: ownURL}}

		for _, lang := range sortedKeys(translations) {
			target, ok := index[indexKey{typeName: c.Type(), lang: lang, slug: translations[lang]}]
			if !ok {
				continue
			}
			alternates = append(alternates, Alternate{Lang: lang, URL: cl.planner.ContentRoute(target).URL})
		}

		if len(alternates) > 1 {
			alternates = append(alternates, Alternate{Lang: XDefault, URL: ownURL})
		}
		c.Metadata[content.MetaHreflang] = alternates
	}
}

// ArchiveAlternates derives the alternate list for a listing page from the
// set of languages that have content for the same archive key. urlFor maps a
// language to that language's listing URL. With more than one language,
// x-default points at the default language's version.
func (cl *CrossLinker) ArchiveAlternates(langs []string, urlFor func(lang string) string) []Alternate {
	if len(langs) == 0 {
		return nil
	}
	sorted := append([]string{}, langs...)
	sort.Strings(sorted)

	alternates := make([]Alternate, 0, len(sorted)+1)
	for _, lang := range sorted {
		alternates = append(alternates, Alternate{Lang: lang, URL: urlFor(lang)})
	}
	if len(alternates) > 1 {
		alternates = append(alternates, Alternate{Lang: XDefault, URL: urlFor(cl.defaultLang)})
	}
	return alternates
}

func spansLanguages(group []*content.Content) bool {
	seen := ""
	for _, c := range group {
		if seen == "" {
			seen = c.Language
		} else if c.Language != seen {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
