package render

import (
	"github.com/goliatone/go-formstate/pkg/definition"
)

// RenderOptions carry per-request data renderers use without touching the
// form's state.
type RenderOptions struct {
	// Method is the HTTP method markup renderers emit on the form element.
	// Empty means POST.
	Method string
	// Action is the submission endpoint.
	Action string
	// Hints supplies labels, help text and input kinds keyed by field name.
	Hints map[string]FieldHint
	// Errors surfaces server-side feedback keyed by field name. Keys that do
	// not name a field become form-level messages (see MapErrors).
	Errors map[string][]string
	// FormErrors are form-level messages shown above the fields.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF tokens, versions).
	HiddenFields map[string]string
	// Locale selects the translation locale passed to Translator.
	Locale string
	// Translator localizes hint keys and validator messages. Nil keeps the
	// untranslated text.
	Translator Translator
	// OnMissing overrides the text used for untranslatable keys.
	OnMissing MissingTranslationHandler
}

// FieldHint holds presentation-only data for a field.
type FieldHint struct {
	Label string
	Help  string
	// Input selects the control kind: "", "text", "password", "textarea".
	Input string
	// Options restricts the field to a fixed choice list.
	Options []string
	// LabelKey and HelpKey are translation keys for Label and Help.
	LabelKey string
	HelpKey  string
}

// HintsFromDocument lifts the presentation hints out of a definition
// document.
func HintsFromDocument(doc definition.Document) map[string]FieldHint {
	presentation := doc.Presentation()
	if len(presentation) == 0 {
		return nil
	}
	out := make(map[string]FieldHint, len(presentation))
	for name, p := range presentation {
		out[name] = FieldHint{
			Label:    p.Label,
			Help:     p.Help,
			Input:    p.Input,
			Options:  p.Options,
			LabelKey: p.LabelKey,
			HelpKey:  p.HelpKey,
		}
	}
	return out
}

// Hint returns the hint for name, defaulting the label to the field name.
func (o RenderOptions) Hint(name string) FieldHint {
	hint := o.Hints[name]
	if hint.Label == "" {
		hint.Label = name
	}
	return hint
}
