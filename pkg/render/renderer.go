package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Renderer turns the current state of a form into a byte representation
// (HTML markup, a serialised payload collected from a terminal session, ...).
// Interactive renderers may dispatch actions on the form while rendering.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *formstate.Form, options RenderOptions) ([]byte, error)
}
