package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	ferrors "github.com/polysite/polysite/internal/foundation/errors"
	"github.com/polysite/polysite/internal/frontmatter"
	"github.com/polysite/polysite/internal/markdown"
	"github.com/polysite/polysite/internal/slug"
)

var datedFilename = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Loader discovers and parses content files beneath a content root,
// reusing previous parses through a modification-time cache.
type Loader struct {
	root     string
	renderer *markdown.Renderer
	hooks    []Hook
}

// NewLoader builds a Loader rooted at root.
func NewLoader(root string, renderer *markdown.Renderer, hooks []Hook) *Loader {
	return &Loader{root: root, renderer: renderer, hooks: hooks}
}

// Root returns the loader's content root as an absolute path.
func (l *Loader) Root() string {
	if abs, err := filepath.Abs(l.root); err == nil {
		return abs
	}
	return l.root
}

// Discover enumerates all content files beneath the root, sorted by path so
// downstream stages see a deterministic order regardless of directory walk
// quirks.
func (l *Loader) Discover() ([]string, error) {
	info, err := os.Stat(l.root)
	if err != nil || !info.IsDir() {
		return nil, ferrors.SourceError("content root not found").
			WithContext("root", l.root).Build()
	}

	// Cache entries are keyed by absolute path, so discovery is rooted there.
	root, err := filepath.Abs(l.root)
	if err != nil {
		root = l.root
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories (.git, editor state) are not content.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".md" || ext == ".markdown" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk content root").
			WithContext("root", l.root).Build()
	}
	sort.Strings(paths)
	return paths, nil
}

// Parse returns the Content for one file plus its fresh cache entry. When the
// previous cache entry's modification time still matches disk, the cached
// Content is returned unchanged and the file body is not re-read.
func (l *Loader) Parse(path string, prev Cache) (*Content, CacheEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, CacheEntry{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat content file").
			WithContext("file", path).Build()
	}
	mod := info.ModTime()

	if entry, ok := prev[path]; ok && entry.ModTime.Equal(mod) && entry.Content != nil {
		return entry.Content, entry, nil
	}

	c, err := l.parseFile(path)
	if err != nil {
		return nil, CacheEntry{}, err
	}
	return c, CacheEntry{ModTime: mod, Content: c}, nil
}

func (l *Loader) parseFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read content file").
			WithContext("file", path).Build()
	}

	fields, body, err := frontmatter.Parse(data)
	if err != nil {
		msg := "malformed front matter"
		if errors.Is(err, frontmatter.ErrNoFrontMatter) {
			msg = "missing front matter block"
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryParse, msg).
			WithSeverity(ferrors.SeverityFatal).WithContext("file", path).Build()
	}

	raw := &RawContent{
		Path:     path,
		Filename: filepath.Base(path),
		Fields:   fields,
		Body:     body,
	}
	if err := RunRawHooks(l.hooks, raw); err != nil {
		return nil, err
	}

	html, err := l.renderer.Render(raw.Body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryParse, "render markdown body").
			WithSeverity(ferrors.SeverityFatal).WithContext("file", path).Build()
	}

	c, err := l.mapFields(raw, html)
	if err != nil {
		return nil, err
	}

	if err := RunContentHooks(l.hooks, StagePostParse, c); err != nil {
		return nil, err
	}
	return c, nil
}

// mapFields moves known front-matter keys onto Content fields and routes the
// rest into the metadata map.
func (l *Loader) mapFields(raw *RawContent, html string) (*Content, error) {
	c := &Content{
		Body:       html,
		SourcePath: raw.Path,
		Metadata:   make(map[string]any),
	}

	stem := strings.TrimSuffix(raw.Filename, filepath.Ext(raw.Filename))
	if m := datedFilename.FindStringSubmatch(stem); m != nil {
		if d, err := time.Parse("2006-01-02", m[1]); err == nil {
			c.Date = d
			stem = m[2]
		}
	}

	for key, value := range raw.Fields {
		switch key {
		case "title":
			c.Title = stringValue(value)
		case "date":
			if d, ok := dateValue(value); ok {
				c.Date = d
			} else {
				slog.Warn("Unparsable date in front matter", "file", raw.Path, "value", fmt.Sprint(value))
			}
		case "slug":
			c.Slug = slug.Make(stringValue(value))
		case "language", "lang":
			c.Language = stringValue(value)
		case "categories":
			c.Categories = stringSlice(value)
		case "tags":
			c.Tags = stringSlice(value)
		case "draft":
			b, _ := value.(bool)
			c.Draft = b
		default:
			c.Metadata[key] = value
		}
	}

	if c.Title == "" {
		return nil, ferrors.ParseError(raw.Path, "missing required field: title").Build()
	}
	if c.Slug == "" {
		c.Slug = slug.Make(stem)
	}
	return c, nil
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func stringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			out = append(out, stringValue(item))
		}
		return out
	case string:
		if vs == "" {
			return nil
		}
		return []string{vs}
	default:
		return nil
	}
}

func dateValue(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, d); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
