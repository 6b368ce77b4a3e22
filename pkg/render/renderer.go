package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Renderer draws the current state of a form machine as bytes (HTML, text).
// Renderers only read the machine.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, m *formstate.Machine, options RenderOptions) ([]byte, error)
}
