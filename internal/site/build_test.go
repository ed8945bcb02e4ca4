package site

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysite/polysite/internal/config"
	ferrors "github.com/polysite/polysite/internal/foundation/errors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Title:      "Test Site",
		BaseURL:    "http://example.com",
		ContentDir: filepath.Join(root, "content"),
		OutputDir:  filepath.Join(root, "output"),
		ThemesDir:  filepath.Join(root, "themes"),
		StaticDir:  filepath.Join(root, "static"),
	}
	cfg.ApplyDefaults()
	require.NoError(t, os.MkdirAll(cfg.ContentDir, 0o755))
	return cfg
}

func writeSource(t *testing.T, cfg *config.Config, rel, data string) string {
	t.Helper()
	path := filepath.Join(cfg.ContentDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err, "expected output file %s", rel)
	return string(data)
}

func outputExists(cfg *config.Config, rel string) bool {
	_, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	return err == nil
}

func TestBuild_SinglePostAndPage_WritesExpectedTree(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "posts/2024-01-15-hello.md", `---
title: Hello World
tags:
  - go
---
First paragraph of the post.

## Section One

More text under the heading.
`)
	writeSource(t, cfg, "pages/about.md", `---
title: About
---
About this site.
`)

	result, err := Build(Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ContentCount)
	assert.NotEmpty(t, result.BuildID)
	assert.Len(t, result.Cache, 2)

	post := readOutput(t, cfg, "posts/hello/index.html")
	assert.Contains(t, post, "Hello World")
	assert.Contains(t, post, `rel="canonical" href="http://example.com/posts/hello"`)
	assert.Contains(t, post, "Section One")

	page := readOutput(t, cfg, "about/index.html")
	assert.Contains(t, page, "About this site.")

	// Generated indexes: posts under its prefix, pages at the site root.
	assert.Contains(t, readOutput(t, cfg, "posts/index.html"), "/posts/hello")
	assert.True(t, outputExists(cfg, "index.html"))

	archive := readOutput(t, cfg, "tags/go/index.html")
	assert.Contains(t, archive, "/posts/hello")

	sitemap := readOutput(t, cfg, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>http://example.com/posts/hello</loc>")
	assert.Contains(t, sitemap, "<lastmod>2024-01-15</lastmod>")

	feed := readOutput(t, cfg, "feed.xml")
	assert.Contains(t, feed, "<title>Hello World</title>")
	assert.True(t, outputExists(cfg, "feed.json"))
	assert.True(t, outputExists(cfg, "posts/feed.xml"))
	assert.True(t, outputExists(cfg, "robots.txt"))
}

func TestBuild_TranslatedPost_EmitsHreflangAlternates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Languages = []config.Language{
		{Code: "en"},
		{Code: "tr", Title: "Deneme Sitesi"},
	}
	writeSource(t, cfg, "posts/2024-02-01-hello.md", `---
title: Hello
---
English body.
`)
	writeSource(t, cfg, "tr/posts/2024-02-01-hello.md", `---
title: Merhaba
---
Türkçe gövde.
`)

	_, err := Build(Options{Config: cfg})
	require.NoError(t, err)

	en := readOutput(t, cfg, "posts/hello/index.html")
	assert.Contains(t, en, `hreflang="en" href="http://example.com/posts/hello"`)
	assert.Contains(t, en, `hreflang="tr" href="http://example.com/tr/posts/hello"`)
	assert.Contains(t, en, `hreflang="x-default" href="http://example.com/posts/hello"`)

	tr := readOutput(t, cfg, "tr/posts/hello/index.html")
	assert.Contains(t, tr, "Merhaba")
	assert.Contains(t, tr, `hreflang="en" href="http://example.com/posts/hello"`)
	// For content pages x-default targets the page's own URL.
	assert.Contains(t, tr, `hreflang="x-default" href="http://example.com/tr/posts/hello"`)

	// Non-default language gets its own feed.
	assert.True(t, outputExists(cfg, "tr/feed.xml"))
	assert.True(t, outputExists(cfg, "tr/index.html"))
}

func TestBuild_BareConfig_DefaultsPagination(t *testing.T) {
	root := t.TempDir()
	// A hand-built Config that never went through ApplyDefaults must not
	// panic the pagination split.
	cfg := &config.Config{
		Title:      "Bare",
		BaseURL:    "http://example.com",
		ContentDir: filepath.Join(root, "content"),
		OutputDir:  filepath.Join(root, "output"),
		ThemesDir:  filepath.Join(root, "themes"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ContentDir, "posts"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.ContentDir, "posts", "2024-05-01-bare.md"),
		[]byte("---\ntitle: Bare Post\n---\nBody.\n"), 0o644))

	result, err := Build(Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ContentCount)
	assert.True(t, outputExists(cfg, "posts/bare/index.html"))
	// The caller's struct is left alone.
	assert.Equal(t, 0, cfg.PerPage)
}

func TestBuild_CachedRebuild_LinksNewTranslation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Languages = []config.Language{{Code: "en"}, {Code: "tr"}, {Code: "fr"}}
	writeSource(t, cfg, "posts/2024-02-01-hello.md", `---
title: Hello
---
English body.
`)
	writeSource(t, cfg, "tr/posts/2024-02-01-hello.md", `---
title: Merhaba
---
Türkçe gövde.
`)

	first, err := Build(Options{Config: cfg})
	require.NoError(t, err)

	writeSource(t, cfg, "fr/posts/2024-02-01-hello.md", `---
title: Bonjour
---
Corps français.
`)

	_, err = Build(Options{Config: cfg, Cache: first.Cache})
	require.NoError(t, err)

	// The unchanged English source is served from the parse cache, yet its
	// alternates reflect the newly added French sibling.
	en := readOutput(t, cfg, "posts/hello/index.html")
	assert.Contains(t, en, `hreflang="fr" href="http://example.com/fr/posts/hello"`)
	assert.Contains(t, en, `hreflang="tr" href="http://example.com/tr/posts/hello"`)
}

func TestBuild_CachedRebuild_DropsDeletedTranslation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Languages = []config.Language{{Code: "en"}, {Code: "tr"}}
	writeSource(t, cfg, "posts/2024-02-01-hello.md", `---
title: Hello
---
English body.
`)
	trPath := writeSource(t, cfg, "tr/posts/2024-02-01-hello.md", `---
title: Merhaba
---
Türkçe gövde.
`)

	first, err := Build(Options{Config: cfg})
	require.NoError(t, err)
	require.Contains(t, readOutput(t, cfg, "posts/hello/index.html"), `hreflang="tr"`)

	require.NoError(t, os.Remove(trPath))

	_, err = Build(Options{Config: cfg, Cache: first.Cache})
	require.NoError(t, err)

	en := readOutput(t, cfg, "posts/hello/index.html")
	assert.NotContains(t, en, `hreflang=`)
}

func TestBuild_UnchangedFile_ServedFromCache(t *testing.T) {
	cfg := testConfig(t)
	path := writeSource(t, cfg, "posts/2024-03-01-stable.md", `---
title: Stable Post
---
Original body.
`)

	first, err := Build(Options{Config: cfg})
	require.NoError(t, err)

	// Corrupt the source but restore its mtime: a cache hit never re-reads
	// the file, so the build must still succeed with the original content.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("not front matter at all"), 0o644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	second, err := Build(Options{Config: cfg, Cache: first.Cache})
	require.NoError(t, err)
	assert.Equal(t, 1, second.ContentCount)
	assert.Contains(t, readOutput(t, cfg, "posts/stable/index.html"), "Original body.")
}

func TestBuild_Drafts_ExcludedUnlessEnabled(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "posts/2024-04-01-wip.md", `---
title: Work In Progress
draft: true
---
Not ready yet.
`)

	result, err := Build(Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ContentCount)
	assert.False(t, outputExists(cfg, "posts/wip/index.html"))

	cfg.BuildDrafts = true
	result, err = Build(Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ContentCount)
	assert.True(t, outputExists(cfg, "posts/wip/index.html"))
}

func TestBuild_Pagination_SplitsTypeIndex(t *testing.T) {
	cfg := testConfig(t)
	cfg.PerPage = 2
	days := []string{"01", "02", "03", "04", "05"}
	for _, d := range days {
		writeSource(t, cfg, "posts/2024-05-"+d+"-post-"+d+".md", `---
title: Post `+d+`
---
Body `+d+`.
`)
	}

	_, err := Build(Options{Config: cfg})
	require.NoError(t, err)

	assert.True(t, outputExists(cfg, "posts/index.html"))
	assert.True(t, outputExists(cfg, "posts/page/2/index.html"))
	assert.True(t, outputExists(cfg, "posts/page/3/index.html"))
	// Page 1 lives at the base, never beneath page/1.
	assert.False(t, outputExists(cfg, "posts/page/1/index.html"))
	assert.False(t, outputExists(cfg, "posts/page/4/index.html"))

	// Newest-first: the first page lists the latest posts.
	firstPage := readOutput(t, cfg, "posts/index.html")
	assert.Contains(t, firstPage, "/posts/post-05")
	assert.Contains(t, firstPage, "/posts/post-04")
	assert.NotContains(t, firstPage, "/posts/post-03")
	assert.Contains(t, firstPage, `href="http://example.com/posts/page/2"`)
}

func TestBuild_UserIndex_SuppressesGeneratedIndex(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "posts/2024-06-01-entry.md", `---
title: Entry
---
Body.
`)
	writeSource(t, cfg, "posts/index.md", `---
title: Curated Post Landing
---
Hand-written landing page.
`)

	_, err := Build(Options{Config: cfg})
	require.NoError(t, err)

	index := readOutput(t, cfg, "posts/index.html")
	assert.Contains(t, index, "Hand-written landing page.")
}

func TestBuild_MalformedFrontMatter_FailsFast(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "posts/2024-07-01-good.md", `---
title: Good
---
Fine.
`)
	writeSource(t, cfg, "posts/broken.md", "---\ntitle: Broken\nno closing delimiter\n")

	_, err := Build(Options{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryParse, ferrors.CategoryOf(err))
}

func TestBuild_MissingContentDir_ReturnsSourceError(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.RemoveAll(cfg.ContentDir))

	_, err := Build(Options{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, ferrors.CategorySource, ferrors.CategoryOf(err))
}

func TestBuild_Deterministic_AcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "posts/2024-08-01-alpha.md", "---\ntitle: Alpha\ntags: [shared]\n---\nAlpha body.\n")
	writeSource(t, cfg, "posts/2024-08-02-beta.md", "---\ntitle: Beta\ntags: [shared]\n---\nBeta body.\n")
	writeSource(t, cfg, "pages/about.md", "---\ntitle: About\n---\nAbout body.\n")

	_, err := Build(Options{Config: cfg})
	require.NoError(t, err)
	first := snapshotTree(t, cfg.OutputDir)

	require.NoError(t, Clean(Options{Config: cfg}))
	_, err = Build(Options{Config: cfg})
	require.NoError(t, err)
	second := snapshotTree(t, cfg.OutputDir)

	assert.Equal(t, first, second)
}

func TestClean_RemovesOutputDir(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "pages/about.md", "---\ntitle: About\n---\nBody.\n")

	_, err := Build(Options{Config: cfg})
	require.NoError(t, err)
	require.NoError(t, Clean(Options{Config: cfg}))

	_, err = os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(err))
}

// snapshotTree maps relative output paths to file contents.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}
