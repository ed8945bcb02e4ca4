package site

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/polysite/polysite/internal/logfields"
)

// Build runs one complete build: a strict single pass over the stage list,
// halting at the first failure and returning it verbatim. Files written by
// earlier stages stay on disk; there is no rollback.
//
// The pipeline is synchronous and single-threaded; callers invoking it
// repeatedly (dev server, scheduler) must serialize their own calls.
func Build(opts Options) (*BuildResult, error) {
	start := time.Now()

	bs, err := newBuildState(opts)
	if err != nil {
		return nil, err
	}

	err = runStages(bs, buildStages())
	elapsed := time.Since(start)
	bs.recorder.ObserveBuildDuration(elapsed)
	if err != nil {
		bs.recorder.IncBuildOutcome("failed")
		return nil, err
	}
	bs.recorder.IncBuildOutcome("success")

	result := &BuildResult{
		BuildID:      uuid.NewString(),
		WrittenFiles: bs.written,
		ContentCount: len(bs.items),
		Elapsed:      elapsed,
		Cache:        bs.cache,
	}
	slog.Info("Build complete",
		logfields.BuildID(result.BuildID),
		logfields.Written(result.WrittenFiles),
		logfields.ContentCount(result.ContentCount),
		logfields.DurationMS(float64(result.Elapsed.Milliseconds())))
	return result, nil
}

// Clean removes the output directory.
func Clean(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		return fmt.Errorf("clean requires a configuration")
	}
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return fmt.Errorf("clean output directory %s: %w", cfg.OutputDir, err)
	}
	slog.Info("Output directory removed", "dir", cfg.OutputDir)
	return nil
}
