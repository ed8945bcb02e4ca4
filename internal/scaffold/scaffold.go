// Package scaffold creates new site skeletons and content stubs.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/polysite/polysite/internal/config"
	ferrors "github.com/polysite/polysite/internal/foundation/errors"
	"github.com/polysite/polysite/internal/slug"
)

const configTemplate = `title: %q
base_url: "http://localhost:8080"
default_language: en

languages:
  - code: en

per_page: 10
`

const samplePost = `---
title: Welcome
---
Your site is up. This sample post lives in ` + "`content/posts/`" + `; edit or
delete it and run a build.

## Next steps

Add pages under ` + "`content/pages/`" + ` and translations under a language
directory such as ` + "`content/tr/posts/`" + `.
`

const sampleAbout = `---
title: About
---
Tell your readers who you are.
`

// Site writes a complete new-site skeleton at dir and initializes a git
// repository in it. The directory must be empty or absent.
func Site(dir, title string) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return ferrors.NewError(ferrors.CategoryFileSystem, "target directory is not empty").
			WithContext("path", dir).Build()
	}

	postName := "content/posts/" + time.Now().Format("2006-01-02") + "-welcome.md"
	files := map[string]string{
		"config.yaml":            fmt.Sprintf(configTemplate, title),
		postName:                 samplePost,
		"content/pages/about.md": sampleAbout,
		"static/.gitkeep":        "",
		"themes/.gitkeep":        "",
		".gitignore":             "output/\n.polysite-cache.db\n",
	}
	for rel, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create site directory").
				WithContext("path", path).Build()
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write site file").
				WithContext("path", path).Build()
		}
	}

	if _, err := git.PlainInit(dir, false); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "initialize git repository").
			WithContext("path", dir).Build()
	}
	return nil
}

// Content writes a front-matter stub for a new item of the given type and
// returns its path. Dated types get a date-prefixed filename so the build
// derives the publication date without an explicit field.
func Content(cfg *config.Config, typeName, title string) (string, error) {
	def, ok := cfg.TypeFor(typeName)
	if !ok {
		return "", ferrors.NewError(ferrors.CategoryConfig, "unknown content type").
			WithContext("type", typeName).Build()
	}

	name := slug.Make(title) + ".md"
	if def.Dated {
		name = time.Now().Format("2006-01-02") + "-" + name
	}
	path := filepath.Join(cfg.ContentDir, def.Dir, name)
	if _, err := os.Stat(path); err == nil {
		return "", ferrors.NewError(ferrors.CategoryFileSystem, "content file already exists").
			WithContext("path", path).Build()
	}

	stub := fmt.Sprintf("---\ntitle: %q\ndraft: true\n---\n", title)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create content directory").
			WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, []byte(stub), 0o644); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write content stub").
			WithContext("path", path).Build()
	}
	return path, nil
}
