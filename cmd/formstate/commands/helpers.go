package commands

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

// ErrFormInvalid is returned by commands that finish with an invalid form.
var ErrFormInvalid = errors.New("form is invalid")

// loadForm reads the definition at path and builds a form logging through
// the app logger.
func (a *app) loadForm(path string) (*formstate.Form, definition.Document, error) {
	def, doc, err := definition.LoadDefinition(path)
	if err != nil {
		return nil, definition.Document{}, err
	}
	form, err := formstate.New(def, formstate.WithLogger(a.logger))
	if err != nil {
		return nil, definition.Document{}, err
	}
	return form, doc, nil
}

// applyAssignments parses name=value pairs, changes then blurs each field.
func applyAssignments(form *formstate.Form, assignments []string) error {
	def := form.Definition()
	for _, raw := range assignments {
		name, text, ok := strings.Cut(raw, "=")
		if !ok {
			return errors.Newf("invalid --set %q: expected name=value", raw)
		}
		name = strings.TrimSpace(name)
		field, known := def.Lookup(name)
		if !known {
			return &formstate.UnknownFieldError{Field: name, Action: formstate.ActionChange}
		}
		value, err := formstate.ParseValue(field, text)
		if err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
		if err := form.Change(name, value); err != nil {
			return err
		}
		if err := form.Blur(name); err != nil {
			return err
		}
	}
	return nil
}

func renderOptions(doc definition.Document) render.RenderOptions {
	return render.RenderOptions{Hints: render.HintsFromDocument(doc)}
}
