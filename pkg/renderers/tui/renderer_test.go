package tui

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	prompts      []string
	defaults     []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	passPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestRender_RepromptsUntilValidThenSubmits(t *testing.T) {
	driver := &stubDriver{inputs: []string{"nope", "a@b.co", "30"}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := testsupport.MustForm(t, testsupport.SignupDefinition())

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff(`{"age":30,"email":"a@b.co"}`, string(out)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{`Invalid email: fails pattern(^.+@.+\..+$)`}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "nope", "0"}, driver.defaults); diff != "" {
		t.Fatalf("prompt defaults mismatch (-want +got):\n%s", diff)
	}

	if got := form.State(); got != (formstate.FormState{Valid: true, Pristine: true}) {
		t.Fatalf("expected submitted form to be valid and pristine, got %+v", got)
	}
	email, _ := form.Field("email")
	if !email.Untouched || email.Value != "a@b.co" {
		t.Fatalf("unexpected email state after submit: %+v", email)
	}
	if age, _ := form.Field("age"); age.Value != int64(30) {
		t.Fatalf("expected age parsed to int64, got %T %v", age.Value, age.Value)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"x", "y", "z"}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := testsupport.MustForm(t, testsupport.SignupDefinition())

	_, err = r.Render(context.Background(), form, render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if driver.inputPos != 2 || len(driver.infoMessages) != 2 {
		t.Fatalf("expected two prompts and two messages, got %d / %d", driver.inputPos, len(driver.infoMessages))
	}
	email, _ := form.Field("email")
	if !email.Invalid || !email.Dirty || !email.Touched || email.Value != "y" {
		t.Fatalf("expected last answer to remain on the form, got %+v", email)
	}
}

func TestRender_UnparsableNumberIsNotDispatched(t *testing.T) {
	driver := &stubDriver{inputs: []string{"a@b.co", "abc", "40"}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var actions []formstate.ActionKind
	form := testsupport.MustForm(t, testsupport.SignupDefinition(), formstate.WithListener(func(action formstate.Action, _ formstate.FieldsState) {
		actions = append(actions, action.Kind())
	}))

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("age=40\nemail=a@b.co\n", string(out)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	want := []formstate.ActionKind{
		formstate.ActionChange, formstate.ActionBlur,
		formstate.ActionChange, formstate.ActionBlur,
		formstate.ActionSubmit,
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 {
		t.Fatalf("expected one parse message, got %v", driver.infoMessages)
	}
}

func TestRender_PromptKinds(t *testing.T) {
	def := formstate.Definition{
		Order: []string{"plan", "secret", "bio", "subscribe"},
		Fields: map[string]formstate.FieldDefinition{
			"plan":      formstate.Field("free", formstate.OneOf("free", "pro")),
			"secret":    formstate.Field("", formstate.Required()),
			"bio":       formstate.Field(""),
			"subscribe": formstate.Field(false),
		},
	}
	driver := &stubDriver{
		selectIdx: []int{1},
		passwords: []string{"hunter2"},
		textAreas: []string{"line one\nline two"},
		confirm:   []bool{true},
	}
	r, err := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithTheme(Theme{PromptPrefix: "> "}),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			delete(values, "secret")
			return values, nil
		}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	form := testsupport.MustForm(t, def)
	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Hints: map[string]render.FieldHint{
			"plan":   {Label: "Plan", Options: []string{"free", "pro"}},
			"secret": {Label: "Secret", Input: "password"},
			"bio":    {Input: "textarea"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff("bio=line+one%0Aline+two&plan=pro&subscribe=true", string(out)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"> Plan", "> Secret", "> bio", "> subscribe"}, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if got := form.Data()["secret"]; got != "hunter2" {
		t.Fatalf("transformer must not mutate the form, got %v", got)
	}
}

func TestRender_ServerErrorsAreAnnounced(t *testing.T) {
	driver := &stubDriver{inputs: []string{"a@b.co", "1"}}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := testsupport.MustForm(t, testsupport.SignupDefinition())

	_, err = r.Render(context.Background(), form, render.RenderOptions{
		Errors: map[string][]string{"email": {"already registered"}, "form": {"retry"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"! retry", "! email: already registered"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Aborted(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := testsupport.MustForm(t, testsupport.SignupDefinition())

	if _, err := r.Render(context.Background(), form, render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !form.State().Pristine {
		t.Fatalf("aborted session must not dispatch actions")
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
