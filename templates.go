package formstate

import (
	"io/fs"

	"github.com/goliatone/go-formstate/pkg/renderers/card"
)

// EmbeddedTemplates exposes the built-in card templates so callers can copy
// and override them through card.WithTemplates.
func EmbeddedTemplates() fs.FS {
	return card.TemplatesFS()
}
