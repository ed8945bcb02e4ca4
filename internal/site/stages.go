package site

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/polysite/polysite/internal/content"
	ferrors "github.com/polysite/polysite/internal/foundation/errors"
)

// buildStages is the strict stage order of one build call.
func buildStages() []StageDef {
	return []StageDef{
		{StageVerifySource, stageVerifySource},
		{StageDiscover, stageDiscover},
		{StageParse, stageParse},
		{StageFilterDrafts, stageFilterDrafts},
		{StageValidate, stageValidate},
		{StageEnrich, stageEnrich},
		{StageAutoLink, stageAutoLink},
		{StageHreflang, stageHreflang},
		{StagePreRender, stagePreRenderHooks},
		{StageRenderPages, stageRenderPages},
		{StageTagArchives, stageTagArchives},
		{StageCatArchives, stageCategoryArchives},
		{StageTypeIndexes, stageTypeIndexes},
		{StageFeeds, stageFeeds},
		{StageFinalize, stageFinalize},
	}
}

func stageVerifySource(bs *buildState) error {
	info, err := os.Stat(bs.cfg.ContentDir)
	if err != nil || !info.IsDir() {
		return ferrors.SourceError("content root not found").
			WithContext("root", bs.cfg.ContentDir).Build()
	}
	return nil
}

func stageDiscover(bs *buildState) error {
	paths, err := bs.loader.Discover()
	if err != nil {
		return err
	}
	bs.paths = paths
	slog.Debug("Discovered content files", "count", len(paths))
	return nil
}

// stageParse parses every discovered file, reusing the previous build's
// cache entries for unchanged files. The fresh cache only ever contains files
// that still exist on disk, so deletions age out naturally.
func stageParse(bs *buildState) error {
	root := bs.loader.Root()
	for _, path := range bs.paths {
		c, entry, err := bs.loader.Parse(path, bs.prevCache)
		if err != nil {
			return err
		}
		bs.cache[path] = entry

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		bs.classifier.Classify(c, rel)
		bs.all = append(bs.all, c)
	}
	return nil
}

// stageFilterDrafts keeps an item unless it is a draft and drafts are not
// enabled.
func stageFilterDrafts(bs *buildState) error {
	bs.items = bs.items[:0]
	for _, c := range bs.all {
		if c.Draft && !bs.cfg.BuildDrafts {
			continue
		}
		bs.items = append(bs.items, c)
	}
	bs.recorder.SetContentCount(len(bs.items))
	slog.Info("Content loaded", "total", len(bs.all), "publishable", len(bs.items))
	return nil
}

func stageEnrich(bs *buildState) error {
	for _, c := range bs.items {
		bs.enricher.Enrich(c)
	}
	return nil
}

func stageAutoLink(bs *buildState) error {
	bs.linker.AutoLink(bs.items)
	return nil
}

func stageHreflang(bs *buildState) error {
	bs.linker.ResolveHreflang(bs.items)
	return nil
}

func stagePreRenderHooks(bs *buildState) error {
	for _, c := range bs.items {
		if err := content.RunContentHooks(bs.hooks, content.StagePreRender, c); err != nil {
			return err
		}
	}
	return nil
}
