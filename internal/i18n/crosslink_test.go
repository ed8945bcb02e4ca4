package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/routes"
)

func newLinker() *CrossLinker {
	cfg := config.Default()
	cfg.Languages = []config.Language{{Code: "en"}, {Code: "tr"}, {Code: "de"}}
	return NewCrossLinker(routes.NewPlanner(cfg), "en")
}

func post(slug, lang string) *content.Content {
	langPrefix := lang
	if lang == "en" {
		langPrefix = ""
	}
	return &content.Content{
		Title: slug, Slug: slug, Language: lang,
		Metadata: map[string]any{
			content.MetaContentType: "posts",
			content.MetaURLPrefix:   "posts",
			content.MetaLangPrefix:  langPrefix,
		},
	}
}

func TestAutoLink_SameSlugAcrossLanguages_Symmetric(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	tr := post("hello", "tr")

	cl.AutoLink([]*content.Content{en, tr})

	assert.Equal(t, map[string]string{"tr": "hello"}, en.LinkedTranslations())
	assert.Equal(t, map[string]string{"en": "hello"}, tr.LinkedTranslations())
	// Inference never writes into the author-declared map.
	assert.Empty(t, en.Translations())
}

func TestAutoLink_SingleLanguageGroup_Untouched(t *testing.T) {
	cl := newLinker()
	only := post("solo", "en")

	cl.AutoLink([]*content.Content{only})

	assert.Empty(t, only.LinkedTranslations())
}

func TestAutoLink_ExplicitTranslationsWin(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	en.SetTranslations(map[string]string{"tr": "selam"})
	tr := post("hello", "tr")

	cl.AutoLink([]*content.Content{en, tr})

	// The explicit map is preserved even though it disagrees with the group.
	assert.Equal(t, map[string]string{"tr": "selam"}, en.Translations())
	// The sibling without a declaration still gets an inferred link.
	assert.Equal(t, map[string]string{"en": "hello"}, tr.LinkedTranslations())
}

func TestAutoLink_ThreeLanguages(t *testing.T) {
	cl := newLinker()
	en, tr, de := post("hello", "en"), post("hello", "tr"), post("hello", "de")

	cl.AutoLink([]*content.Content{en, tr, de})

	assert.Equal(t, map[string]string{"tr": "hello", "de": "hello"}, en.LinkedTranslations())
	assert.Equal(t, map[string]string{"en": "hello", "de": "hello"}, tr.LinkedTranslations())
}

func TestAutoLink_DifferentTypesNotGrouped(t *testing.T) {
	cl := newLinker()
	p := post("hello", "en")
	page := post("hello", "tr")
	page.Metadata[content.MetaContentType] = "pages"

	cl.AutoLink([]*content.Content{p, page})

	assert.Empty(t, p.LinkedTranslations())
	assert.Empty(t, page.LinkedTranslations())
}

func TestAutoLink_Rerun_PicksUpNewSibling(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	tr := post("hello", "tr")
	cl.AutoLink([]*content.Content{en, tr})

	// A later build sees the same two items (served from the parse cache)
	// plus a newly added third language.
	de := post("hello", "de")
	cl.AutoLink([]*content.Content{en, tr, de})

	assert.Equal(t, map[string]string{"tr": "hello", "de": "hello"}, en.LinkedTranslations())
	assert.Equal(t, map[string]string{"en": "hello", "tr": "hello"}, de.LinkedTranslations())
}

func TestAutoLink_Rerun_DropsRemovedSibling(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	tr := post("hello", "tr")
	items := []*content.Content{en, tr}
	cl.AutoLink(items)
	cl.ResolveHreflang(items)

	cl.AutoLink([]*content.Content{en})

	assert.Empty(t, en.LinkedTranslations())
	assert.NotContains(t, en.Metadata, content.MetaHreflang)
}

func TestAutoLink_Rerun_KeepsExplicitDeclaration(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	en.SetTranslations(map[string]string{"tr": "selam"})
	tr := post("hello", "tr")
	items := []*content.Content{en, tr}

	cl.AutoLink(items)
	cl.AutoLink(items)

	assert.Equal(t, map[string]string{"tr": "selam"}, en.Translations())
}

func alternatesOf(c *content.Content) []Alternate {
	alts, _ := c.Metadata[content.MetaHreflang].([]Alternate)
	return alts
}

func TestResolveHreflang_OwnFirstThenResolvedThenXDefault(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	tr := post("hello", "tr")
	items := []*content.Content{en, tr}
	cl.AutoLink(items)
	cl.ResolveHreflang(items)

	alts := alternatesOf(en)
	require.Len(t, alts, 3)
	assert.Equal(t, Alternate{Lang: "en", URL: "/posts/hello"}, alts[0])
	assert.Equal(t, Alternate{Lang: "tr", URL: "/tr/posts/hello"}, alts[1])
	assert.Equal(t, Alternate{Lang: XDefault, URL: "/posts/hello"}, alts[2])

	trAlts := alternatesOf(tr)
	require.Len(t, trAlts, 3)
	assert.Equal(t, "tr", trAlts[0].Lang)
	assert.Equal(t, "/tr/posts/hello", trAlts[0].URL)
	assert.Equal(t, XDefault, trAlts[2].Lang)
	assert.Equal(t, "/tr/posts/hello", trAlts[2].URL)
}

func TestResolveHreflang_UnresolvableReferenceDroppedSilently(t *testing.T) {
	cl := newLinker()
	en := post("hello", "en")
	en.SetTranslations(map[string]string{"tr": "does-not-exist"})

	cl.ResolveHreflang([]*content.Content{en})

	alts := alternatesOf(en)
	// Only the own entry remains, so no x-default is appended.
	require.Len(t, alts, 1)
	assert.Equal(t, "en", alts[0].Lang)
}

func TestResolveHreflang_NoTranslations_NoAlternates(t *testing.T) {
	cl := newLinker()
	en := post("alone", "en")

	cl.ResolveHreflang([]*content.Content{en})

	assert.Nil(t, alternatesOf(en))
}

func TestResolveHreflang_ExactlyOneXDefault(t *testing.T) {
	cl := newLinker()
	en, tr, de := post("hello", "en"), post("hello", "tr"), post("hello", "de")
	items := []*content.Content{en, tr, de}
	cl.AutoLink(items)
	cl.ResolveHreflang(items)

	for _, c := range items {
		count := 0
		var xURL string
		for _, a := range alternatesOf(c) {
			if a.Lang == XDefault {
				count++
				xURL = a.URL
			}
		}
		assert.Equal(t, 1, count, "content %s/%s", c.Language, c.Slug)
		assert.Equal(t, alternatesOf(c)[0].URL, xURL, "x-default points at own URL")
	}
}

func TestArchiveAlternates_MultipleLanguages(t *testing.T) {
	cl := newLinker()
	urlFor := func(lang string) string {
		if lang == "en" {
			return "/posts"
		}
		return "/" + lang + "/posts"
	}

	alts := cl.ArchiveAlternates([]string{"tr", "en"}, urlFor)
	require.Len(t, alts, 3)
	assert.Equal(t, Alternate{Lang: "en", URL: "/posts"}, alts[0])
	assert.Equal(t, Alternate{Lang: "tr", URL: "/tr/posts"}, alts[1])
	assert.Equal(t, Alternate{Lang: XDefault, URL: "/posts"}, alts[2])
}

func TestArchiveAlternates_SingleLanguage_NoXDefault(t *testing.T) {
	cl := newLinker()

	alts := cl.ArchiveAlternates([]string{"en"}, func(string) string { return "/posts" })
	require.Len(t, alts, 1)
}
