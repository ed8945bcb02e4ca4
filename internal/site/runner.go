package site

import (
	"log/slog"
	"time"

	"github.com/polysite/polysite/internal/logfields"
	"github.com/polysite/polysite/internal/metrics"
)

// StageName identifies one pipeline stage in logs and metrics.
type StageName string

const (
	StageVerifySource StageName = "verify_source"
	StageDiscover     StageName = "discover"
	StageParse        StageName = "parse"
	StageFilterDrafts StageName = "filter_drafts"
	StageValidate     StageName = "validate"
	StageEnrich       StageName = "enrich"
	StageAutoLink     StageName = "auto_link"
	StageHreflang     StageName = "hreflang"
	StagePreRender    StageName = "pre_render_hooks"
	StageRenderPages  StageName = "render_pages"
	StageTagArchives  StageName = "tag_archives"
	StageCatArchives  StageName = "category_archives"
	StageTypeIndexes  StageName = "type_indexes"
	StageFeeds        StageName = "feeds_sitemap"
	StageFinalize     StageName = "finalize"
)

// StageDef pairs a stage name with its implementation.
type StageDef struct {
	Name StageName
	Fn   func(bs *buildState) error
}

// runStages executes stages in order, recording timing and stopping at the
// first failure. The failing stage's error is returned verbatim; earlier
// stages' on-disk output stays as written.
func runStages(bs *buildState, stages []StageDef) error {
	for _, st := range stages {
		t0 := time.Now()
		err := st.Fn(bs)
		dur := time.Since(t0)

		bs.recorder.ObserveStageDuration(string(st.Name), dur)
		if err != nil {
			bs.recorder.IncStageResult(string(st.Name), metrics.ResultFailure)
			slog.Error("Stage failed", logfields.Stage(string(st.Name)), logfields.Error(err))
			return err
		}
		bs.recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		slog.Debug("Stage complete",
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}
