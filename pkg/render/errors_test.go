package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

func contactDefinition() formstate.Definition {
	return formstate.Definition{
		Fields: map[string]formstate.FieldDefinition{
			"name":  formstate.Field("", formstate.Required()),
			"email": formstate.Field("", formstate.Required(), formstate.MustPattern(`@`)),
			"tags":  formstate.Field([]any{}),
		},
		Order: []string{"name", "email", "tags"},
	}
}

func TestMapErrors(t *testing.T) {
	payload := map[string][]string{
		"name":                       {"Name is required", " Name is required "},
		"/body/email":                {"Email invalid"},
		"$.body.tags[0]":             {"Tags must be unique"},
		"non_field_errors":           {"Form level error"},
		"request/body/unknown-field": {"Should fall back to form errors"},
		"":                           {"Unscoped form error", ""},
	}

	mapped := render.MapErrors(contactDefinition(), payload)

	wantFields := map[string][]string{
		"name":  {"Name is required"},
		"email": {"Email invalid"},
		"tags":  {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Unscoped form error", "Form level error", "Should fall back to form errors"}
	for i := 0; i < 20; i++ {
		mapped := render.MapErrors(contactDefinition(), payload)
		if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
			t.Fatalf("form errors mismatch on run %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestFeedback_OnlyReportsInteractedFields(t *testing.T) {
	form, err := formstate.New(contactDefinition())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	if got := render.Feedback(form, nil); got.Fields != nil {
		t.Fatalf("expected no feedback for an untouched form, got %v", got.Fields)
	}

	_ = form.Change("email", "nope")
	_ = form.Blur("name")

	got := render.Feedback(form, map[string][]string{"email": {"already taken"}})
	want := map[string][]string{
		"name":  {"fails required"},
		"email": {"already taken", "fails pattern(@)"},
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" a ", "b"}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizedFeedback_MergesFormErrors(t *testing.T) {
	form, err := formstate.New(contactDefinition())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	got := render.LocalizedFeedback(form, render.RenderOptions{
		Errors:     map[string][]string{"form": {"Session expired"}},
		FormErrors: []string{"Try again", "Session expired"},
	})
	if diff := cmp.Diff([]string{"Session expired", "Try again"}, got.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
