// Package server implements the development server: it serves the generated
// output, watches the content tree and rebuilds on change, and pushes live
// reload events to connected browsers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/metrics"
	"github.com/polysite/polysite/internal/search"
	"github.com/polysite/polysite/internal/site"
)

// Options configures the development server.
type Options struct {
	Config *config.Config
	Port   int

	// RebuildInterval optionally schedules periodic full rebuilds in
	// addition to change-triggered ones. Zero disables the schedule.
	RebuildInterval time.Duration

	// BuildOpts carries hooks, components and recorder for every build.
	BuildOpts site.Options
}

// Server is one running development server instance.
type Server struct {
	cfg      *config.Config
	port     int
	interval time.Duration

	mu        sync.Mutex // guards buildOpts across rebuild goroutines
	buildOpts site.Options
	reload    *reloadHub
	registry  *prometheus.Registry
}

// New prepares a development server. Call Run to start it.
func New(opts Options) *Server {
	registry := prometheus.NewRegistry()
	buildOpts := opts.BuildOpts
	buildOpts.Config = opts.Config
	if buildOpts.Recorder == nil {
		buildOpts.Recorder = metrics.NewPrometheusRecorder(registry)
	}
	return &Server{
		cfg:       opts.Config,
		port:      opts.Port,
		interval:  opts.RebuildInterval,
		buildOpts: buildOpts,
		reload:    newReloadHub(),
		registry:  registry,
	}
}

// Run builds the site, starts serving and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild("startup")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := addDirsRecursive(watcher, s.cfg.ContentDir); err != nil {
		return err
	}
	for _, dir := range []string{s.cfg.ThemesDir, s.cfg.StaticDir} {
		if _, statErr := os.Stat(dir); statErr == nil {
			if err := addDirsRecursive(watcher, dir); err != nil {
				return err
			}
		}
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router(),
	}
	go func() {
		slog.Info("dev server listening", "url", fmt.Sprintf("http://localhost:%d", s.port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("dev server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if s.interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(func() { s.rebuild("schedule") }),
		)
		if err != nil {
			return fmt.Errorf("schedule rebuild: %w", err)
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
	}

	rebuildReq, trigger := newDebouncer(300 * time.Millisecond)
	go s.rebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			slog.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	router.GET("/_reload", s.reload.handler())
	router.GET("/search", s.handleSearch)
	router.NoRoute(s.serveOutput)
	return router
}

// handleSearch answers ?q= queries against the on-disk index the finalize
// stage writes. Results are the stable document IDs ("lang:type:slug").
func (s *Server) handleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	indexPath := filepath.Join(s.cfg.OutputDir, "search")
	if _, err := os.Stat(indexPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search index not built; set search_index in the site config"})
		return
	}
	ids, err := search.Query(indexPath, q, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": ids})
}

// serveOutput maps request paths onto the generated tree, falling back to
// index.html for directory-style URLs.
func (s *Server) serveOutput(c *gin.Context) {
	rel := strings.TrimPrefix(filepath.Clean("/"+c.Request.URL.Path), "/")
	path := filepath.Join(s.cfg.OutputDir, rel)

	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, "index.html")
	}
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	c.File(path)
}

// rebuildWorker serializes builds: bursts collapse into one build plus at
// most one follow-up, mirroring quiet-window debounce semantics.
func (s *Server) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-rebuildReq:
			if !ok {
				return
			}
			s.rebuild("change")
		}
	}
}

func (s *Server) rebuild(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := site.Build(s.buildOpts)
	if err != nil {
		slog.Warn("rebuild failed", "reason", reason, "error", err)
		return
	}
	// Round-trip the cache so subsequent rebuilds skip unchanged files.
	s.buildOpts.Cache = result.Cache
	slog.Info("site rebuilt", "reason", reason, "written", result.WrittenFiles, "elapsed", result.Elapsed)
	s.reload.broadcast(result.BuildID)
}

// newDebouncer returns a request channel and a trigger that coalesces bursts
// of triggers within the quiet window into a single request.
func newDebouncer(quiet time.Duration) (chan struct{}, func()) {
	timerCh := make(chan struct{}, 1)
	var timer *time.Timer

	trigger := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(quiet, func() {
			select {
			case timerCh <- struct{}{}:
			default:
			}
		})
	}
	return timerCh, trigger
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") || strings.HasPrefix(base, "#") {
		return true
	}
	return false
}
