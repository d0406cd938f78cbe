// Package tui fills the booking form from a terminal. Each answer is a change
// followed by a blur on the form controller, so validation messages appear
// under the same touched rules as the HTML form.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/render"
)

// Renderer drives prompts against a form controller and serializes the
// submitted values.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	confirm      bool
	maxAttempts  int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(nil),
		maxAttempts:  DefaultMaxAttempts,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Run.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prints a static transcript of the view: one line per field with
// its visible error underneath, then the submit label.
func (r *Renderer) Render(ctx context.Context, view render.View, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, message := range view.FormErrors {
		b.WriteString(r.theme.Error.Render(r.theme.ErrorPrefix + message))
		b.WriteByte('\n')
	}
	for _, field := range view.Fields {
		value := field.Value
		if value == "" {
			value = field.Placeholder
		}
		fmt.Fprintf(&b, "%s: %s\n", field.Label, value)
		if field.Error != "" {
			b.WriteString("  ")
			b.WriteString(r.theme.Error.Render(r.theme.ErrorPrefix + field.Error))
			b.WriteByte('\n')
		}
	}
	fmt.Fprintf(&b, "[%s]\n", view.SubmitLabel)
	return []byte(b.String()), nil
}

// Run prompts for every field in registry order, submits through the
// controller and returns the serialized values. The controller's submit
// handler runs as it would for a browser submission.
func (r *Renderer) Run(ctx context.Context, c *form.Controller) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if c == nil {
		return nil, errors.New("tui: controller is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	registry := c.Form()
	for _, field := range registry.Fields {
		if err := r.promptField(ctx, c, field); err != nil {
			return nil, err
		}
	}

	if r.confirm {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit booking?", Default: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	if err := r.submit(ctx, c); err != nil {
		return nil, err
	}

	values, err := c.Values()
	if err != nil {
		return nil, fmt.Errorf("tui: decode values: %w", err)
	}
	_ = r.driver.Info(ctx, r.theme.Info.Render(r.theme.InfoPrefix+"Booking submitted"))
	return r.serialize(registry, values)
}

func (r *Renderer) submit(ctx context.Context, c *form.Controller) error {
	for attempt := 1; ; attempt++ {
		err := c.Submit(ctx)
		result, invalid := form.IsValidationError(err)
		if !invalid {
			return err
		}
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%w: submit", ErrTooManyAttempts)
		}
		// The date bound or an extended rule can still reject input that
		// passed field by field; ask again for whatever failed.
		for _, field := range c.Form().Fields {
			if result.For(field.Name) == "" {
				continue
			}
			if err := r.promptField(ctx, c, field); err != nil {
				return err
			}
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, c *form.Controller, field model.Field) error {
	defaultVal := c.State().Values[field.Name]
	help := ""
	if field.Placeholder != "" {
		help = "e.g. " + field.Placeholder
	}

	for attempt := 1; ; attempt++ {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: defaultVal,
			Help:    help,
		})
		if err != nil {
			return err
		}

		if err := c.Change(ctx, field.Name, response); err != nil {
			return err
		}
		if err := c.Blur(ctx, field.Name); err != nil {
			return err
		}

		message := c.State().VisibleError(field.Name)
		if message == "" {
			return nil
		}
		_ = r.driver.Info(ctx, r.theme.Error.Render(r.theme.ErrorPrefix+message))
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
		defaultVal = response
	}
}

func (r *Renderer) serialize(registry model.FormModel, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for name, value := range values.Raw() {
			form.Set(name, value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		raw := values.Raw()
		var b strings.Builder
		for _, field := range registry.Fields {
			fmt.Fprintf(&b, "%s: %s\n", field.Label, raw[field.Name])
		}
		return []byte(b.String()), nil
	default:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

// ParseOutputFormat validates a format name from flags or config.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case "":
		return OutputFormatJSON, nil
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, nil
	default:
		return "", fmt.Errorf("tui: unsupported output format %q (want one of json, form, pretty)", value)
	}
}
