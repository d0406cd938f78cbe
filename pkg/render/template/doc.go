// Package template defines the renderer-agnostic template seam. HTML
// renderers depend on TemplateRenderer rather than a concrete engine so
// callers can swap template bundles or engines.
package template
