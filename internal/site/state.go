// Package site is the build orchestrator: it sequences loading,
// classification, enrichment, cross-linking, rendering, output planning and
// feed generation as an ordered stage list with fail-fast error propagation.
package site

import (
	"time"

	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/enrich"
	"github.com/polysite/polysite/internal/feeds"
	"github.com/polysite/polysite/internal/i18n"
	"github.com/polysite/polysite/internal/markdown"
	"github.com/polysite/polysite/internal/metrics"
	"github.com/polysite/polysite/internal/render"
	"github.com/polysite/polysite/internal/routes"
)

// Options configures one build call.
type Options struct {
	Config *config.Config

	// Cache is the value returned by a previous build, round-tripped
	// unmodified for change-aware parsing. Nil means a cold build.
	Cache content.Cache

	// Hooks is the ordered extension list; the pipeline filters by stage.
	Hooks []content.Hook

	// Components overrides or extends the named-component registry.
	Components render.Registry

	// Recorder receives build metrics; nil means no instrumentation.
	Recorder metrics.Recorder
}

// BuildResult reports a successful build.
type BuildResult struct {
	BuildID      string
	WrittenFiles int
	ContentCount int
	Elapsed      time.Duration

	// Cache must be resubmitted on the next build call to get caching
	// benefit.
	Cache content.Cache
}

type typeLang struct {
	typeName string
	lang     string
}

// buildState carries all intermediate data between stages of one build call.
// The file cache it owns is never shared outside the call.
type buildState struct {
	cfg      *config.Config
	hooks    []content.Hook
	recorder metrics.Recorder

	loader     *content.Loader
	classifier *content.Classifier
	enricher   *enrich.Enricher
	linker     *i18n.CrossLinker
	planner    *routes.Planner
	renderer   *render.Renderer
	feedgen    *feeds.Generator

	paths     []string           // discovered source files, sorted
	all       []*content.Content // parsed, pre draft-filter
	items     []*content.Content // post draft-filter, pipeline input
	prevCache content.Cache      // cache from the previous build call
	cache     content.Cache      // fresh cache assembled this build

	sitemap []feeds.SitemapEntry
	written int

	// userIndexes marks (type, language) pairs where the author supplied a
	// literal `index` content item, suppressing the auto-generated index.
	userIndexes map[typeLang]bool
}

func newBuildState(opts Options) (*buildState, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	} else if cfg.PerPage < 1 {
		// Callers may hand in a Config that never went through
		// ApplyDefaults; pagination divides by PerPage. Default a copy
		// rather than mutating the caller's struct.
		clone := *cfg
		clone.ApplyDefaults()
		cfg = &clone
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	renderer, err := render.NewRenderer(cfg, render.NewRegistry(opts.Components))
	if err != nil {
		return nil, err
	}
	planner := routes.NewPlanner(cfg)
	md := markdown.NewRenderer(markdown.Options{HighlightStyle: cfg.HighlightStyle, Unsafe: true})

	return &buildState{
		cfg:         cfg,
		hooks:       opts.Hooks,
		recorder:    recorder,
		loader:      content.NewLoader(cfg.ContentDir, md, opts.Hooks),
		classifier:  content.NewClassifier(cfg),
		enricher:    enrich.NewEnricher(cfg.ExcerptLength),
		linker:      i18n.NewCrossLinker(planner, cfg.DefaultLanguage),
		planner:     planner,
		renderer:    renderer,
		feedgen:     feeds.NewGenerator(cfg, planner),
		prevCache:   opts.Cache,
		cache:       make(content.Cache),
		userIndexes: make(map[typeLang]bool),
	}, nil
}
