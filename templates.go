package bookingform

import (
	"io/fs"

	"github.com/goliatone/go-bookingform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy or
// override them and pass the result to vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
