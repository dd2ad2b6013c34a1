package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// ErrorMapping splits feedback into field-level and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// For returns the messages attached to a field.
func (m ErrorMapping) For(name string) []string {
	return m.Fields[name]
}

// MapErrors assigns server error payloads to the fields of def. Keys may be
// plain names, dotted paths or JSON pointers ("/body/email"); leading wrapper
// segments such as body/payload/data are skipped. Keys that resolve to no
// field become form-level messages so nothing is lost.
func MapErrors(def formstate.Definition, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	paths := make([]string, 0, len(payload))
	for rawPath := range payload {
		paths = append(paths, rawPath)
	}
	sort.Strings(paths)
	for _, rawPath := range paths {
		normalized := normalizeMessages(payload[rawPath])
		if len(normalized) == 0 {
			continue
		}
		name, ok := resolveField(rawPath, def)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], normalized...))
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// Feedback merges server errors with client-side state: fields that are
// invalid and have been touched or edited report the validators they fail,
// and captured validator failures are always reported.
func Feedback(form *formstate.Form, serverErrors map[string][]string) ErrorMapping {
	return feedback(form, serverErrors, func(_, rule string) string {
		return "fails " + rule
	})
}

// LocalizedFeedback is Feedback with validator failures translated through
// options.Translator (see ValidatorMessage) and options.FormErrors appended
// to the form-level messages.
func LocalizedFeedback(form *formstate.Form, options RenderOptions) ErrorMapping {
	mapping := feedback(form, options.Errors, func(name, rule string) string {
		return ValidatorMessage(options, name, rule)
	})
	mapping.Form = MergeFormErrors(mapping.Form, options.FormErrors...)
	return mapping
}

func feedback(form *formstate.Form, serverErrors map[string][]string, message func(name, rule string) string) ErrorMapping {
	mapping := MapErrors(form.Definition(), serverErrors)
	if mapping.Fields == nil {
		mapping.Fields = make(map[string][]string)
	}

	form.Fields().Each(func(name string, fs formstate.FieldState) {
		var messages []string
		if fs.Err != nil {
			messages = append(messages, fs.Err.Error())
		}
		if fs.Invalid && (fs.Touched || fs.Dirty) {
			failing, _ := form.Explain(name)
			for _, rule := range failing {
				messages = append(messages, message(name, rule))
			}
		}
		if len(messages) > 0 {
			mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], messages...))
		}
	})

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolveField(raw string, def formstate.Definition) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if def.Has(trimmed) {
		return trimmed, true
	}
	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return "", false
	}
	if def.Has(segments[0]) {
		return segments[0], true
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data", "attributes", "fields":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
