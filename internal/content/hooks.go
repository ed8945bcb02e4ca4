package content

import (
	ferrors "github.com/polysite/polysite/internal/foundation/errors"
)

// HookStage identifies the fixed pipeline point a hook runs at.
type HookStage string

const (
	// StagePreParse hooks rewrite the raw record before markdown rendering.
	StagePreParse HookStage = "pre_parse"
	// StagePostParse hooks rewrite the parsed Content right after loading.
	StagePostParse HookStage = "post_parse"
	// StagePreRender hooks rewrite Content just before template rendering.
	StagePreRender HookStage = "pre_render"
)

// Hook is an extension point bound to a fixed pipeline stage. The pipeline
// filters the registered list by stage and folds it in order, short-circuiting
// on the first failure.
type Hook interface {
	Name() string
	Stage() HookStage
}

// RawHook rewrites a RawContent in place. Only meaningful for StagePreParse.
type RawHook interface {
	Hook
	Run(raw *RawContent) error
}

// ContentHook rewrites a Content in place. Meaningful for StagePostParse and
// StagePreRender.
type ContentHook interface {
	Hook
	Run(c *Content) error
}

// RunRawHooks folds all StagePreParse hooks over raw, in registration order.
func RunRawHooks(hooks []Hook, raw *RawContent) error {
	for _, h := range hooks {
		if h.Stage() != StagePreParse {
			continue
		}
		rh, ok := h.(RawHook)
		if !ok {
			continue
		}
		if err := rh.Run(raw); err != nil {
			return ferrors.HookError(h.Name(), err).WithContext("file", raw.Path).Build()
		}
	}
	return nil
}

// RunContentHooks folds all hooks of the given stage over c, in registration
// order.
func RunContentHooks(hooks []Hook, stage HookStage, c *Content) error {
	for _, h := range hooks {
		if h.Stage() != stage {
			continue
		}
		ch, ok := h.(ContentHook)
		if !ok {
			continue
		}
		if err := ch.Run(c); err != nil {
			return ferrors.HookError(h.Name(), err).WithContext("file", c.SourcePath).Build()
		}
	}
	return nil
}

// HookFunc adapts a function to a ContentHook.
type HookFunc struct {
	HookName  string
	HookStage HookStage
	Fn        func(c *Content) error
}

func (h HookFunc) Name() string         { return h.HookName }
func (h HookFunc) Stage() HookStage     { return h.HookStage }
func (h HookFunc) Run(c *Content) error { return h.Fn(c) }

// RawHookFunc adapts a function to a RawHook.
type RawHookFunc struct {
	HookName string
	Fn       func(raw *RawContent) error
}

func (h RawHookFunc) Name() string              { return h.HookName }
func (h RawHookFunc) Stage() HookStage          { return StagePreParse }
func (h RawHookFunc) Run(raw *RawContent) error { return h.Fn(raw) }
