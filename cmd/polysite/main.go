package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/polysite/polysite/internal/cachestore"
	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/scaffold"
	"github.com/polysite/polysite/internal/server"
	"github.com/polysite/polysite/internal/site"
	"github.com/polysite/polysite/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
		Drafts  bool   `short:"D" help:"Include draft content"`
		NoCache bool   `help:"Ignore the persisted parse cache"`
		Cache   string `help:"Parse cache database path" default:".polysite-cache.db"`
	} `cmd:"" help:"Build the site into the output directory"`

	Clean struct{} `cmd:"" help:"Remove the output directory"`

	Init struct {
		Dir   string `arg:"" help:"Directory for the new site"`
		Title string `help:"Site title" default:"My Site"`
	} `cmd:"" help:"Create a new site skeleton with a git repository"`

	New struct {
		Type  string `arg:"" help:"Content type (posts, pages or a configured type)"`
		Title string `arg:"" help:"Title of the new item"`
	} `cmd:"" help:"Create a front-matter stub for a new content item"`

	Serve struct {
		Port     int           `short:"p" help:"Port to listen on" default:"8080"`
		Drafts   bool          `short:"D" help:"Include draft content"`
		Interval time.Duration `help:"Optional periodic rebuild interval (e.g. 5m)"`
	} `cmd:"" help:"Serve the site locally, rebuilding on change"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.Vars{"version": version.Version})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg := loadConfig()
		cfg.BuildDrafts = cfg.BuildDrafts || CLI.Build.Drafts
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "clean":
		cfg := loadConfig()
		if err := site.Clean(site.Options{Config: cfg}); err != nil {
			slog.Error("Clean failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Output directory removed", "dir", cfg.OutputDir)
	case "init <dir>":
		if err := scaffold.Site(CLI.Init.Dir, CLI.Init.Title); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Site created", "dir", CLI.Init.Dir)
	case "new <type> <title>":
		cfg := loadConfig()
		path, err := scaffold.Content(cfg, CLI.New.Type, CLI.New.Title)
		if err != nil {
			slog.Error("New content failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Content stub created", "path", path)
	case "serve":
		cfg := loadConfig()
		cfg.BuildDrafts = cfg.BuildDrafts || CLI.Serve.Drafts
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "path", CLI.Config, "error", err)
		os.Exit(1)
	}
	return cfg
}

func runBuild(cfg *config.Config) error {
	var store *cachestore.Store
	var cache content.Cache

	if !CLI.Build.NoCache {
		var err error
		store, err = cachestore.Open(CLI.Build.Cache)
		if err != nil {
			slog.Warn("Parse cache unavailable, building cold", "error", err)
		} else {
			defer store.Close()
			cache, err = store.Load()
			if err != nil {
				slog.Warn("Parse cache unreadable, building cold", "error", err)
			}
		}
	}

	result, err := site.Build(site.Options{Config: cfg, Cache: cache})
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Save(result.Cache); err != nil {
			slog.Warn("Failed to persist parse cache", "error", err)
		}
	}

	slog.Info("Build complete",
		"build_id", result.BuildID,
		"content", result.ContentCount,
		"written", result.WrittenFiles,
		"elapsed", result.Elapsed)
	return nil
}

func runServe(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(server.Options{
		Config:          cfg,
		Port:            CLI.Serve.Port,
		RebuildInterval: CLI.Serve.Interval,
	})
	return srv.Run(ctx)
}
