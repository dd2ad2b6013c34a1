// Package formstate is the top-level entry point of go-formstate. It aliases
// the core types and wires the definition loaders to the built-in renderers
// for callers that only need a form from a file.
package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/definition"
	pkgformstate "github.com/goliatone/go-formstate/pkg/formstate"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/preact"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

// Form aliases the form controller.
type Form = pkgformstate.Form

// Definition aliases the field definition map.
type Definition = pkgformstate.Definition

// FieldDefinition aliases a single field's configuration.
type FieldDefinition = pkgformstate.FieldDefinition

// FieldState aliases the per-field flags.
type FieldState = pkgformstate.FieldState

// FormState aliases the aggregated form flags.
type FormState = pkgformstate.FormState

// RenderOptions describes per-request data renderers use: action, method,
// hints, server errors and hidden inputs.
type RenderOptions = render.RenderOptions

// NewForm builds a form from a definition.
func NewForm(def Definition, options ...pkgformstate.Option) (*Form, error) {
	return pkgformstate.New(def, options...)
}

// LoadForm reads a YAML, TOML or JSON definition document and builds a form.
// The returned document carries the presentation hints.
func LoadForm(path string, options ...pkgformstate.Option) (*Form, definition.Document, error) {
	def, doc, err := definition.LoadDefinition(path)
	if err != nil {
		return nil, definition.Document{}, err
	}
	form, err := pkgformstate.New(def, options...)
	if err != nil {
		return nil, definition.Document{}, err
	}
	return form, doc, nil
}

// NewRegistry returns a registry holding the vanilla and preact renderers
// with their default options.
func NewRegistry() (*render.Registry, error) {
	markup, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	hydrated, err := preact.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(markup, hydrated)
}

// GenerateHTML loads the definition at path and renders a pristine form with
// the named renderer. Hints from the document are merged under any hints set
// in options.
func GenerateHTML(ctx context.Context, path, rendererName string, options RenderOptions) ([]byte, error) {
	form, doc, err := LoadForm(path)
	if err != nil {
		return nil, err
	}
	return renderDocument(ctx, form, doc, rendererName, options)
}

// GenerateHTMLFromOpenAPI derives the definition from an OpenAPI operation
// and renders it with the named renderer.
func GenerateHTMLFromOpenAPI(ctx context.Context, source pkgopenapi.Source, operationID, rendererName string, options RenderOptions, loaderOptions ...pkgopenapi.LoaderOption) ([]byte, error) {
	doc, err := pkgopenapi.NewLoader(loaderOptions...).LoadSource(ctx, source, operationID)
	if err != nil {
		return nil, err
	}
	def, err := doc.Build()
	if err != nil {
		return nil, err
	}
	form, err := pkgformstate.New(def)
	if err != nil {
		return nil, err
	}
	return renderDocument(ctx, form, doc, rendererName, options)
}

func renderDocument(ctx context.Context, form *Form, doc definition.Document, rendererName string, options RenderOptions) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}

	hints := render.HintsFromDocument(doc)
	if len(options.Hints) > 0 {
		if hints == nil {
			hints = make(map[string]render.FieldHint, len(options.Hints))
		}
		for name, hint := range options.Hints {
			hints[name] = hint
		}
	}
	options.Hints = hints
	return renderer.Render(ctx, form, options)
}
