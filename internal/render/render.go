// Package render composes final HTML documents from content, layouts and the
// base shell template.
package render

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/polysite/polysite/internal/config"
	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/enrich"
	ferrors "github.com/polysite/polysite/internal/foundation/errors"
	"github.com/polysite/polysite/internal/i18n"
	"github.com/polysite/polysite/internal/routes"
)

// baseTemplate is the outer shell every page renders through.
const baseTemplate = "base"

// genericLayout is the final layout fallback.
const genericLayout = "page"

// Built-in directory→layout fallback table, consulted after explicit and
// type-default layouts.
var layoutFallbacks = map[string]string{
	"posts": "post",
	"pages": "page",
}

// SiteContext exposes site-wide settings to templates.
type SiteContext struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
	Language    string
	Languages   []string
}

// Context is the typed render context handed to templates. Extra is the
// string-keyed bag for caller-supplied parameters.
type Context struct {
	Site       SiteContext
	Content    *content.Content // nil for listing pages
	Page       *routes.Page     // nil for single pages
	Title      string
	URL        string
	Body       template.HTML // inner content for the current pass
	Alternates []i18n.Alternate
	TOC        []enrich.TOCEntry
	Extra      map[string]any
}

// Renderer turns one Content (or one listing Page) into a final HTML
// document via two composed template passes.
type Renderer struct {
	cfg        *config.Config
	chain      []searchRoot
	components Registry
}

// NewRenderer computes the theme chain once and captures the component
// registry for this build.
func NewRenderer(cfg *config.Config, components Registry) (*Renderer, error) {
	chain, err := themeChain(cfg.ThemesDir, cfg.Theme)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "resolve theme chain").Build()
	}
	return &Renderer{cfg: cfg, chain: chain, components: components}, nil
}

// Render produces the final document: pass one wraps the inner body in the
// selected layout, pass two wraps that in the base shell.
func (r *Renderer) Render(ctx *Context) (string, error) {
	layout := r.selectLayout(ctx)

	wrapped, err := r.executePass(layout, ctx)
	if err != nil {
		return "", err
	}

	shellCtx := *ctx
	shellCtx.Body = template.HTML(wrapped)
	final, err := r.executePass(baseTemplate, &shellCtx)
	if err != nil {
		return "", err
	}
	return final, nil
}

// selectLayout applies the layout priority order, falling back to the
// generic layout when the chosen file does not exist in the theme chain.
func (r *Renderer) selectLayout(ctx *Context) string {
	candidates := []string{}
	if ctx.Content != nil {
		if explicit, ok := ctx.Content.Metadata[content.MetaLayout].(string); ok && explicit != "" {
			candidates = append(candidates, explicit)
		}
		if typeDefault, ok := ctx.Content.Metadata[content.MetaDefaultLayout].(string); ok && typeDefault != "" {
			candidates = append(candidates, typeDefault)
		}
		if fallback, ok := layoutFallbacks[ctx.Content.Type()]; ok {
			candidates = append(candidates, fallback)
		}
	} else {
		if listing, ok := ctx.Extra["layout"].(string); ok && listing != "" {
			candidates = append(candidates, listing)
		}
		candidates = append(candidates, "list")
	}
	candidates = append(candidates, genericLayout)

	for _, name := range candidates {
		if _, _, ok := lookup(r.chain, name); ok {
			return name
		}
	}
	return genericLayout
}

func (r *Renderer) executePass(name string, ctx *Context) (string, error) {
	raw, path, ok := lookup(r.chain, name)
	if !ok {
		return "", ferrors.RenderError(name+".html", "template not found in theme chain").Build()
	}

	tmpl, err := template.New(name).Funcs(r.funcs(ctx)).Parse(string(raw))
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "parse template").
			WithSeverity(ferrors.SeverityFatal).WithContext("template", path).Build()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "execute template").
			WithSeverity(ferrors.SeverityFatal).WithContext("template", path).Build()
	}
	return buf.String(), nil
}

func (r *Renderer) funcs(ctx *Context) template.FuncMap {
	return template.FuncMap{
		"component": func(name string, args ...any) (template.HTML, error) {
			params, err := pairsToMap(args)
			if err != nil {
				return "", err
			}
			return r.components.render(name, map[string]any{
				"site":    ctx.Site,
				"content": ctx.Content,
				"page":    ctx.Page,
			}, params)
		},
		"absURL": func(url string) string {
			return strings.TrimRight(r.cfg.BaseURL, "/") + url
		},
		"formatDate": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"titleCase": titleCase,
	}
}

// TitleCase exported helper for listing titles.
func TitleCase(s string) string { return titleCase(s) }

// titleCase converts a string to title case (portable alternative to
// strings.Title).
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
