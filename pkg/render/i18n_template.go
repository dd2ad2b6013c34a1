package render

import (
	"fmt"
	"strings"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is the key read from a map passed as the locale source.
	// Defaults to "locale", matching the "locale" entry renderers expose on
	// the form view.
	LocaleKey string
	// FuncName renames the translate helper.
	FuncName string
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns template helpers bound to t:
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//
// localeSrc is a locale string or a map holding one under cfg.LocaleKey, so
// templates can pass the form view directly: translate(form, "form.title").
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			return translate(localeOf(localeSrc, localeKey), key, "", params, t, onMissing)
		},
		"current_locale": func(localeSrc any) string {
			return localeOf(localeSrc, localeKey)
		},
	}
}

// TemplateHelpers returns the translation helpers for options, or nil when
// no Translator is configured. Renderers merge them into the template data
// so each request renders in its own locale.
func TemplateHelpers(options RenderOptions) map[string]any {
	if options.Translator == nil {
		return nil
	}
	return TemplateI18nFuncs(options.Translator, TemplateI18nConfig{OnMissing: options.OnMissing})
}

func localeOf(src any, key string) string {
	switch data := src.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(data)
	case map[string]string:
		return strings.TrimSpace(data[key])
	case map[string]any:
		switch v := data[key].(type) {
		case nil:
			return ""
		case string:
			return strings.TrimSpace(v)
		default:
			return strings.TrimSpace(fmt.Sprint(v))
		}
	default:
		return ""
	}
}
