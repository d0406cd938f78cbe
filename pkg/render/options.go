package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers use to customise
// their output without touching controller state.
type RenderOptions struct {
	// Theme supplies the styling resource. Renderers read the "root" and
	// "error" tokens as class names and fall back to those literals.
	Theme *theme.RendererConfig
	// Hidden fields are emitted inside the form element (session id, CSRF).
	Hidden map[string]string
	// Header is markup rendered above the form. HTML renderers sanitise it.
	Header string
	// Fragment asks HTML renderers for the form element only, without the
	// surrounding document.
	Fragment bool
	// LiveURL enables the live event channel script when non-empty.
	LiveURL string
	// ScriptURL locates the runtime script serving the live channel.
	ScriptURL string
}
