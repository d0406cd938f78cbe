package tui

import (
	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-bookingform/pkg/styling"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// DefaultMaxAttempts bounds re-prompts for a single field.
const DefaultMaxAttempts = 5

// Theme captures the prefixes and lipgloss styles applied to driver messages.
type Theme struct {
	ErrorPrefix string
	InfoPrefix  string
	Error       lipgloss.Style
	Info        lipgloss.Style
}

// DefaultTheme derives terminal styles from a go-theme configuration. A nil
// config uses the built-in manifest colours.
func DefaultTheme(cfg *theme.RendererConfig) Theme {
	errorColor := styling.Token(cfg, styling.TokenErrorColor, "#c0392b")
	accent := styling.Token(cfg, styling.TokenAccent, "#2f6fde")
	return Theme{
		ErrorPrefix: "✗ ",
		InfoPrefix:  "› ",
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor)),
		Info:        lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes and styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithConfirm asks for a final confirmation before submitting.
func WithConfirm(enabled bool) Option {
	return func(r *Renderer) {
		r.confirm = enabled
	}
}

// WithMaxAttempts bounds re-prompts per field. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}
