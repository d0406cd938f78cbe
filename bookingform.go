// Package bookingform is the entry point for embedding the booking form: it
// builds the registry, schema and mount values once, mounts controllers, and
// renders them to HTML.
package bookingform

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/goliatone/go-bookingform/pkg/config"
	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/render"
	"github.com/goliatone/go-bookingform/pkg/renderers/vanilla"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// RenderOptions describes per-request data such as hidden fields, the header
// and the live channel endpoints.
type RenderOptions = render.RenderOptions

// Values is the typed booking record handed to submit handlers.
type Values = model.Values

// SubmitFunc receives validated values.
type SubmitFunc = form.SubmitFunc

// Option configures NewForm.
type Option func(*options)

type options struct {
	now        time.Time
	loc        *time.Location
	lang       language.Tag
	action     string
	decorators []model.Decorator
}

// WithNow pins "today" for the date placeholder, default value and lower
// bound.
func WithNow(now time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLocation sets the zone calendar dates are computed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLocale sets the locale used for the date placeholder.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.lang = tag
	}
}

// WithAction sets the URL the form posts to.
func WithAction(action string) Option {
	return func(o *options) {
		o.action = action
	}
}

// WithDecorators adjusts the registry's presentation after it is built.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *options) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// Form bundles what every mounted controller shares. Build it once per
// process or per day; the date bound does not move after construction.
type Form struct {
	Registry model.FormModel
	Schema   *validation.Schema
	Defaults model.Values
}

// NewForm builds the booking registry, schema and mount values.
func NewForm(opts ...Option) (Form, error) {
	o := &options{
		now:    time.Now(),
		loc:    time.Local,
		lang:   language.AmericanEnglish,
		action: "/",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	registry, err := model.Decorate(model.NewBookingForm(
		model.WithNow(o.now),
		model.WithLocation(o.loc),
		model.WithLocale(o.lang),
		model.WithAction(o.action),
	), o.decorators...)
	if err != nil {
		return Form{}, fmt.Errorf("bookingform: %w", err)
	}

	return Form{
		Registry: registry,
		Schema:   validation.NewSchema(validation.WithNow(o.now), validation.WithLocation(o.loc)),
		Defaults: model.DefaultValues(o.now, o.loc),
	}, nil
}

// FormFromConfig builds the form for now using the configured zone, locale,
// title and placeholder overrides.
func FormFromConfig(cfg config.Form, now time.Time, opts ...Option) (Form, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Form{}, err
	}
	lang, err := cfg.Language()
	if err != nil {
		return Form{}, err
	}
	base := []Option{
		WithNow(now),
		WithLocation(loc),
		WithLocale(lang),
		WithDecorators(
			model.PlaceholderOverrides(cfg.Placeholders),
			model.WithMetadata(map[string]string{"title": cfg.Title, "locale": lang.String()}),
		),
	}
	return NewForm(append(base, opts...)...)
}

// Mount creates a controller holding the default values. Later options win,
// so WithInitialRaw or WithInitialValues replace the defaults.
func (f Form) Mount(opts ...form.Option) *form.Controller {
	base := []form.Option{form.WithInitialValues(f.Defaults)}
	return form.New(f.Registry, f.Schema, append(base, opts...)...)
}

// View projects a controller into the renderer view model.
func (f Form) View(c *form.Controller) render.View {
	return render.BuildView(f.Registry, c.State())
}

// RenderHTML renders the controller as a standalone page, or as the form
// fragment when opts.Fragment is set, with the built-in stylesheet.
func RenderHTML(ctx context.Context, c *form.Controller, opts RenderOptions) ([]byte, error) {
	renderer, err := vanilla.New(vanilla.WithDefaultStyles())
	if err != nil {
		return nil, fmt.Errorf("bookingform: %w", err)
	}
	return renderer.Render(ctx, render.BuildView(c.Form(), c.State()), opts)
}
