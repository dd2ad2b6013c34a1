package formstate

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidatorKind identifies the validator variant.
type ValidatorKind string

const (
	ValidatorKindRequired  ValidatorKind = "required"
	ValidatorKindPattern   ValidatorKind = "pattern"
	ValidatorKindPredicate ValidatorKind = "predicate"
)

// Validator is the closed set of field validators. Implementations live in
// this package: RequiredValidator, PatternValidator and PredicateValidator.
type Validator interface {
	Kind() ValidatorKind
	Evaluate(value any) bool
	String() string
	validator()
}

// RequiredValidator passes when the value is truthy (see Truthy).
type RequiredValidator struct{}

// Required returns the required-ness validator.
func Required() Validator {
	return RequiredValidator{}
}

func (RequiredValidator) Kind() ValidatorKind { return ValidatorKindRequired }

func (RequiredValidator) Evaluate(value any) bool {
	return Truthy(value)
}

func (RequiredValidator) String() string { return "required" }

func (RequiredValidator) validator() {}

// PatternValidator passes when the regular expression matches the value
// coerced to text (see Text).
type PatternValidator struct {
	Regexp *regexp.Regexp
}

// Pattern wraps a compiled regular expression. A nil expression matches
// everything.
func Pattern(re *regexp.Regexp) Validator {
	return PatternValidator{Regexp: re}
}

// MustPattern compiles expr and panics when it is not a valid expression.
func MustPattern(expr string) Validator {
	return PatternValidator{Regexp: regexp.MustCompile(expr)}
}

func (PatternValidator) Kind() ValidatorKind { return ValidatorKindPattern }

func (v PatternValidator) Evaluate(value any) bool {
	if v.Regexp == nil {
		return true
	}
	return v.Regexp.MatchString(Text(value))
}

func (v PatternValidator) String() string {
	if v.Regexp == nil {
		return "pattern()"
	}
	return fmt.Sprintf("pattern(%s)", v.Regexp.String())
}

func (PatternValidator) validator() {}

// PredicateValidator passes when Fn reports true. Name is used in
// diagnostics only.
type PredicateValidator struct {
	Name string
	Fn   func(value any) bool
}

// Predicate wraps an arbitrary predicate. A nil predicate always passes.
func Predicate(name string, fn func(value any) bool) Validator {
	return PredicateValidator{Name: strings.TrimSpace(name), Fn: fn}
}

func (PredicateValidator) Kind() ValidatorKind { return ValidatorKindPredicate }

func (v PredicateValidator) Evaluate(value any) bool {
	if v.Fn == nil {
		return true
	}
	return v.Fn(value)
}

func (v PredicateValidator) String() string {
	if v.Name == "" {
		return "predicate"
	}
	return v.Name
}

func (PredicateValidator) validator() {}

// Validate runs every validator configured on def against value. All of them
// must pass; an empty list is always valid. A panicking validator makes the
// value invalid and is reported through the returned *ValidatorError.
func Validate(def FieldDefinition, value any) (bool, error) {
	return runValidators("", def, value)
}

func runValidators(field string, def FieldDefinition, value any) (bool, error) {
	valid := true
	var firstErr error
	for _, v := range def.Validators {
		if v == nil {
			continue
		}
		ok, err := evaluate(field, v, value)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		valid = ok && valid
	}
	return valid, firstErr
}

func evaluate(field string, v Validator, value any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &ValidatorError{
				Field:     field,
				Validator: v.String(),
				Cause:     recoveredError(r),
			}
		}
	}()
	return v.Evaluate(value), nil
}

// Truthy reports whether value counts as present for the required validator.
// nil, false, the empty string, numeric zero, NaN and nil pointers,
// interfaces, maps, slices, funcs or channels are falsy. Everything else,
// including empty non-nil collections, is truthy.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

// Text coerces a value to the string a pattern validator matches against.
// nil becomes the empty string.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// MinLength passes when a string (counted in runes), slice, array or map
// holds at least n elements. Empty values pass so optional fields stay valid;
// pair with Required to enforce presence.
func MinLength(n int) Validator {
	return Predicate(fmt.Sprintf("minLength(%d)", n), func(value any) bool {
		size, ok := length(value)
		if !ok {
			return false
		}
		return size == 0 || size >= n
	})
}

// MaxLength passes when a string, slice, array or map holds at most n
// elements.
func MaxLength(n int) Validator {
	return Predicate(fmt.Sprintf("maxLength(%d)", n), func(value any) bool {
		size, ok := length(value)
		if !ok {
			return false
		}
		return size <= n
	})
}

// Min passes when the numeric value is >= limit. nil and "" pass.
func Min(limit float64) Validator {
	return Predicate("min("+strconv.FormatFloat(limit, 'g', -1, 64)+")", func(value any) bool {
		if isBlank(value) {
			return true
		}
		n, ok := Number(value)
		return ok && n >= limit
	})
}

// Max passes when the numeric value is <= limit. nil and "" pass.
func Max(limit float64) Validator {
	return Predicate("max("+strconv.FormatFloat(limit, 'g', -1, 64)+")", func(value any) bool {
		if isBlank(value) {
			return true
		}
		n, ok := Number(value)
		return ok && n <= limit
	})
}

// OneOf passes when the value's text form equals one of the allowed values.
// nil and "" pass.
func OneOf(allowed ...any) Validator {
	options := make([]string, len(allowed))
	for i, a := range allowed {
		options[i] = Text(a)
	}
	return Predicate("oneOf("+strings.Join(options, ",")+")", func(value any) bool {
		if isBlank(value) {
			return true
		}
		text := Text(value)
		for _, option := range options {
			if option == text {
				return true
			}
		}
		return false
	})
}

// Number converts numeric kinds and numeric strings to float64.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func length(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case string:
		return utf8.RuneCountInString(v), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// Explain lists the validators value fails, in declaration order. Panicking
// validators are listed as failing.
func Explain(def FieldDefinition, value any) []string {
	var failing []string
	for _, v := range def.Validators {
		if v == nil {
			continue
		}
		if ok, _ := evaluate("", v, value); !ok {
			failing = append(failing, v.String())
		}
	}
	return failing
}
