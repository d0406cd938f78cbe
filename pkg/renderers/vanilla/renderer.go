// Package vanilla renders the booking form as server-side HTML through the
// pongo2 template engine. Pages are plain forms that post back without
// JavaScript; the optional runtime script upgrades them to the live channel.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-bookingform/pkg/render"
	rendertemplate "github.com/goliatone/go-bookingform/pkg/render/template"
	"github.com/goliatone/go-bookingform/pkg/render/template/pongo"
	"github.com/goliatone/go-bookingform/pkg/styling"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	title            string
	lang             string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTitle sets the document title of full pages.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithLang sets the document language of full pages.
func WithLang(lang string) Option {
	return func(cfg *config) {
		cfg.lang = lang
	}
}

// WithDefaultStyles inlines the embedded stylesheet into full pages.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// Renderer produces HTML pages and fragments.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	title      string
	lang       string
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates: renderer,
		title:     cfg.title,
		lang:      cfg.lang,
	}
	if cfg.inlineStyles {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form markup. With options.Fragment set only the root
// container is returned, which the live channel swaps into the page.
func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	data := map[string]any{
		"view":       view,
		"rootClass":  styling.RootClass(options.Theme),
		"errorClass": styling.ErrorClass(options.Theme),
		"style":      styling.CSSVarsStyle(options.Theme),
		"hidden":     render.SortedHiddenFields(options.Hidden),
		"header":     SanitizeHeader(options.Header),
		"liveUrl":    options.LiveURL,
	}

	fragment, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	if options.Fragment {
		return []byte(fragment), nil
	}

	scriptURL := options.ScriptURL
	if scriptURL == "" && options.Theme != nil && options.Theme.AssetURL != nil {
		scriptURL = options.Theme.AssetURL(styling.AssetLiveScript)
	}

	page, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"form":       fragment,
		"title":      r.title,
		"lang":       r.lang,
		"stylesheet": r.stylesheet,
		"liveUrl":    options.LiveURL,
		"scriptUrl":  scriptURL,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(page), nil
}
