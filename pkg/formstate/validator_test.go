package formstate_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

func TestValidate_NoValidatorsIsValid(t *testing.T) {
	valid, err := formstate.Validate(formstate.Field(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Fatalf("expected field without validators to be valid")
	}
}

func TestTruthy(t *testing.T) {
	var nilPtr *string
	text := "x"
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "a", true},
		{"zero int", 0, false},
		{"int", 3, true},
		{"zero int32", int32(0), false},
		{"zero uint", uint(0), false},
		{"zero float", 0.0, false},
		{"nan", math.NaN(), false},
		{"float", 0.5, true},
		{"nil pointer", nilPtr, false},
		{"pointer", &text, true},
		{"nil slice", []string(nil), false},
		{"empty slice", []string{}, true},
		{"struct", struct{}{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formstate.Truthy(tc.value); got != tc.want {
				t.Fatalf("Truthy(%#v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestPatternValidator(t *testing.T) {
	def := formstate.Field("", formstate.Pattern(regexp.MustCompile(`^\d+$`)))

	if valid, _ := formstate.Validate(def, "abc"); valid {
		t.Fatalf("expected abc to be invalid")
	}
	if valid, _ := formstate.Validate(def, "123"); !valid {
		t.Fatalf("expected 123 to be valid")
	}
	if valid, _ := formstate.Validate(def, 456); !valid {
		t.Fatalf("expected numbers to be coerced to text")
	}
	if valid, _ := formstate.Validate(def, nil); valid {
		t.Fatalf("expected nil to coerce to the empty string and fail")
	}
}

func TestPredicateValidator(t *testing.T) {
	even := formstate.Predicate("even", func(v any) bool {
		n, ok := v.(int)
		return ok && n%2 == 0
	})
	def := formstate.Field(0, even)

	if valid, _ := formstate.Validate(def, 3); valid {
		t.Fatalf("expected 3 to fail the even predicate")
	}
	if valid, _ := formstate.Validate(def, 4); !valid {
		t.Fatalf("expected 4 to pass the even predicate")
	}
	if got := even.String(); got != "even" {
		t.Fatalf("unexpected predicate name %q", got)
	}
}

func TestValidate_AllValidatorsMustPass(t *testing.T) {
	def := formstate.Field("",
		formstate.Required(),
		formstate.MustPattern(`^[a-z]+$`),
		formstate.MaxLength(3),
	)

	cases := map[string]bool{
		"":     false,
		"abc":  true,
		"abcd": false,
		"AB":   false,
	}
	for value, want := range cases {
		if got, _ := formstate.Validate(def, value); got != want {
			t.Fatalf("Validate(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestValidate_PanickingValidatorIsInvalid(t *testing.T) {
	boom := formstate.Predicate("boom", func(any) bool {
		panic("kaboom")
	})
	def := formstate.Field("x", formstate.Required(), boom)

	valid, err := formstate.Validate(def, "x")
	if valid {
		t.Fatalf("expected panicking validator to mark value invalid")
	}
	var vErr *formstate.ValidatorError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidatorError, got %T (%v)", err, err)
	}
	if vErr.Validator != "boom" {
		t.Fatalf("expected validator name boom, got %q", vErr.Validator)
	}
	if !errors.Is(err, formstate.ErrValidatorPanic) {
		t.Fatalf("expected error to be marked as validator panic: %v", err)
	}
}

func TestLengthAndRangeValidators(t *testing.T) {
	cases := []struct {
		name      string
		validator formstate.Validator
		value     any
		want      bool
	}{
		{"minLength empty passes", formstate.MinLength(3), "", true},
		{"minLength short", formstate.MinLength(3), "ab", false},
		{"minLength runes", formstate.MinLength(3), "äöü", true},
		{"minLength slice", formstate.MinLength(2), []any{1, 2}, true},
		{"minLength non-collection", formstate.MinLength(2), 12, false},
		{"maxLength", formstate.MaxLength(2), "abc", false},
		{"min", formstate.Min(18), 17, false},
		{"min ok", formstate.Min(18), 18, true},
		{"min numeric string", formstate.Min(1.5), "2", true},
		{"min blank", formstate.Min(1), "", true},
		{"min not a number", formstate.Min(1), "x", false},
		{"max", formstate.Max(10), 10.5, false},
		{"oneOf hit", formstate.OneOf("draft", "published"), "draft", true},
		{"oneOf miss", formstate.OneOf("draft", "published"), "archived", false},
		{"oneOf blank", formstate.OneOf("draft"), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.validator.Evaluate(tc.value); got != tc.want {
				t.Fatalf("%s.Evaluate(%#v) = %v, want %v", tc.validator, tc.value, got, tc.want)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	def := formstate.Field("", formstate.Required(), formstate.MustPattern(`^\d+$`), formstate.MaxLength(4))

	got := formstate.Explain(def, "abcdef")
	want := []string{`pattern(^\d+$)`, "maxLength(4)"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Explain = %v, want %v", got, want)
	}
	if got := formstate.Explain(def, "12"); len(got) != 0 {
		t.Fatalf("expected no failures, got %v", got)
	}
}
