package render

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMissingTranslator is passed to the missing-translation handler when a
// key is looked up without a configured Translator.
var ErrMissingTranslator = errors.New("render: translator not configured")

// ValidatorKeyPrefix prefixes the translation keys of validator failures:
// "validation.required", "validation.min" and so on.
const ValidatorKeyPrefix = "validation."

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text used when a key cannot be
// translated. args carries the lookup arguments; the first element is a map
// holding the "default" fallback when one exists.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Translate resolves key with the configured translator, falling back to
// fallback (or the key itself) through OnMissing.
func (o RenderOptions) Translate(key, fallback string, args ...any) string {
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(o.Locale, key, fallback, args, o.Translator, onMissing)
}

// LocalizeHints returns the hints with LabelKey and HelpKey translated into
// Label and Help. Untranslatable keys keep the existing text.
func LocalizeHints(options RenderOptions) map[string]FieldHint {
	if len(options.Hints) == 0 {
		return options.Hints
	}
	out := make(map[string]FieldHint, len(options.Hints))
	for name, hint := range options.Hints {
		if key := strings.TrimSpace(hint.LabelKey); key != "" {
			hint.Label = options.Translate(key, hint.Label)
		}
		if key := strings.TrimSpace(hint.HelpKey); key != "" {
			hint.Help = options.Translate(key, hint.Help)
		}
		out[name] = hint
	}
	return out
}

// ValidatorMessage renders the failure of rule on field name. The key is
// ValidatorKeyPrefix plus the rule kind ("min" for "min(18)"); the translator
// receives a map with "field", "label", "rule" and "param".
func ValidatorMessage(options RenderOptions, name, rule string) string {
	kind, param := splitRule(rule)
	fallback := "fails " + rule
	if kind == "" {
		return fallback
	}
	return options.Translate(ValidatorKeyPrefix+kind, fallback, map[string]any{
		"field": name,
		"label": options.Hint(name).Label,
		"rule":  rule,
		"param": param,
	})
}

func splitRule(rule string) (kind, param string) {
	rule = strings.TrimSpace(rule)
	open := strings.IndexByte(rule, '(')
	if open < 0 || !strings.HasSuffix(rule, ")") {
		return rule, ""
	}
	return rule[:open], rule[open+1 : len(rule)-1]
}

func translate(locale, key, fallback string, args []any, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	missingArgs := append([]any{map[string]any{"default": fallback}}, args...)

	if t == nil {
		return onMissing(locale, key, missingArgs, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, missingArgs, err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if params, ok := args[0].(map[string]any); ok {
			if fallback, ok := params["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}
