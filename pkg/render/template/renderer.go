package template

import (
	"io"
)

// TemplateRenderer is the engine contract the HTML renderers rely on. The
// optional writers receive the rendered output in addition to the returned
// string.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
