package vanilla

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fs-" + strings.ReplaceAll(trimmed, " ", "-")
}

// FieldClasses returns the state classes for a field, always one of each
// complementary pair.
func FieldClasses(fs formstate.FieldState) string {
	classes := []string{"fs-field"}
	classes = append(classes, pick(fs.Valid, "fs-valid", "fs-invalid"))
	classes = append(classes, pick(fs.Pristine, "fs-pristine", "fs-dirty"))
	classes = append(classes, pick(fs.Untouched, "fs-untouched", "fs-touched"))
	return strings.Join(classes, " ")
}

// FormClasses returns the aggregate classes for the form element.
func FormClasses(state formstate.FormState) string {
	return strings.Join([]string{
		"fs-form",
		pick(state.Valid, "fs-valid", "fs-invalid"),
		pick(state.Pristine, "fs-pristine", "fs-dirty"),
	}, " ")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// inputKind resolves the control kind from the hint, falling back to the
// default value's type.
func inputKind(hint string, defaultValue any) string {
	switch strings.TrimSpace(hint) {
	case "password", "textarea", "email", "checkbox":
		return hint
	case "text":
		return "text"
	}
	if defaultValue == nil {
		return "text"
	}
	switch reflect.TypeOf(defaultValue).Kind() {
	case reflect.Bool:
		return "checkbox"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "text"
	}
}

func selectOptions(options []string, current string) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, option := range options {
		out = append(out, map[string]any{"value": option, "selected": option == current})
	}
	return out
}

func hasRequired(def formstate.FieldDefinition) bool {
	for _, v := range def.Validators {
		if v != nil && v.Kind() == formstate.ValidatorKindRequired {
			return true
		}
	}
	return false
}
