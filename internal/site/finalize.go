package site

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/polysite/polysite/internal/render"
	"github.com/polysite/polysite/internal/search"
)

func stageFeeds(bs *buildState) error {
	artifacts, err := bs.feedgen.Feeds(bs.items)
	if err != nil {
		return err
	}
	sitemap := bs.feedgen.Sitemap(bs.sitemap)
	artifacts = append(artifacts, sitemap)

	for _, a := range artifacts {
		if err := bs.writeFile(a.Path, a.Data); err != nil {
			return err
		}
	}
	return nil
}

// stageFinalize performs the best-effort tail: robots.txt, theme assets,
// static assets and the search index. Failures here are warnings, never
// build failures.
func stageFinalize(bs *buildState) error {
	bs.writeRobots()
	bs.copyThemeAssets()
	bs.copyStaticAssets()
	bs.buildSearchIndex()
	return nil
}

func (bs *buildState) writeRobots() {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n",
		strings.TrimRight(bs.cfg.BaseURL, "/"))
	if err := bs.writeFile(filepath.Join(bs.cfg.OutputDir, "robots.txt"), []byte(body)); err != nil {
		slog.Warn("Failed to write robots.txt", "error", err)
	}
}

// copyThemeAssets walks the theme chain's asset roots ancestor-first so the
// active theme's files win.
func (bs *buildState) copyThemeAssets() {
	roots := render.AssetRoots(bs.cfg.ThemesDir, bs.cfg.Theme)
	for i := len(roots) - 1; i >= 0; i-- {
		if err := bs.copyTree(roots[i], filepath.Join(bs.cfg.OutputDir, "assets")); err != nil {
			slog.Warn("Failed to copy theme assets", "root", roots[i], "error", err)
		}
	}
}

func (bs *buildState) copyStaticAssets() {
	if _, err := os.Stat(bs.cfg.StaticDir); err != nil {
		return
	}
	if err := bs.copyTree(bs.cfg.StaticDir, bs.cfg.OutputDir); err != nil {
		slog.Warn("Failed to copy static assets", "dir", bs.cfg.StaticDir, "error", err)
	}
}

func (bs *buildState) buildSearchIndex() {
	if !bs.cfg.SearchIndex {
		return
	}
	indexPath := filepath.Join(bs.cfg.OutputDir, "search")
	if err := search.BuildIndex(indexPath, bs.items); err != nil {
		slog.Warn("Failed to build search index", "path", indexPath, "error", err)
	}
}

func (bs *buildState) copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := io.Copy(out, in); err != nil {
			return err
		}
		bs.written++
		return nil
	})
}
