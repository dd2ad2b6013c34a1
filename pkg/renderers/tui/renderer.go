package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. Each
// field is prompted in definition order; answers are dispatched as change
// and blur actions and the field is prompted again while it stays invalid.
// Once every field is valid the collected data is serialized and the form is
// submitted.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	logger            *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, errors.Newf("tui: unsupported output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs the prompt session against form and returns the serialized
// data of the submitted form.
func (r *Renderer) Render(ctx context.Context, form *formstate.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if form == nil {
		return nil, errors.New("tui: form is nil")
	}

	feedback := render.MapErrors(form.Definition(), opts.Errors)
	for _, msg := range feedback.Form {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	for _, name := range form.Fields().Names() {
		if err := r.promptField(ctx, form, name, opts.Hint(name), feedback.For(name)); err != nil {
			return nil, err
		}
	}

	values := form.Data()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, errors.Wrap(err, "tui: submit transformer")
		}
	}

	payload, err := r.serialize(values)
	if err != nil {
		return nil, errors.Wrap(err, "tui: serialize values")
	}
	if err := form.Submit(); err != nil {
		return nil, err
	}
	r.logger.Debug("tui: form submitted", zap.Int("fields", len(values)), zap.String("format", string(r.outputFormat)))
	return payload, nil
}

func (r *Renderer) promptField(ctx context.Context, form *formstate.Form, name string, hint render.FieldHint, serverErrors []string) error {
	binding, err := form.AttachToInput(name)
	if err != nil {
		return err
	}
	def, _ := form.Definition().Lookup(name)

	for _, msg := range serverErrors {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, hint.Label, msg)); err != nil {
			return err
		}
	}

	for attempt := 1; ; attempt++ {
		current, _ := form.Field(name)
		value, err := r.ask(ctx, def, hint, current.Value)
		switch {
		case errors.Is(err, formstate.ErrInvalidValue):
			if err := r.invalid(ctx, hint.Label, err.Error()); err != nil {
				return err
			}
			if r.exhausted(attempt) {
				return errors.Wrapf(ErrTooManyAttempts, "field %q", name)
			}
			continue
		case err != nil:
			return err
		}

		event := formstate.InputEvent{Name: name, Value: value}
		if err := binding.OnChange(event); err != nil {
			return err
		}
		if err := binding.OnBlur(event); err != nil {
			return err
		}

		state, _ := form.Field(name)
		if state.Valid {
			return nil
		}

		failing, _ := form.Explain(name)
		r.logger.Debug("tui: field rejected", zap.String("field", name), zap.Strings("failing", failing), zap.Int("attempt", attempt))
		if err := r.invalid(ctx, hint.Label, "fails "+strings.Join(failing, ", ")); err != nil {
			return err
		}
		if r.exhausted(attempt) {
			return errors.Wrapf(ErrTooManyAttempts, "field %q", name)
		}
	}
}

// ask prompts once and parses the answer into the field's value type.
func (r *Renderer) ask(ctx context.Context, def formstate.FieldDefinition, hint render.FieldHint, current any) (any, error) {
	message := r.theme.PromptPrefix + hint.Label

	if len(hint.Options) > 0 {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      hint.Options,
			DefaultIndex: indexOf(hint.Options, formstate.Text(current)),
			Help:         hint.Help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(hint.Options) {
			return nil, errors.Wrap(formstate.ErrInvalidValue, "selection out of range")
		}
		return formstate.ParseValue(def, hint.Options[idx])
	}

	if _, ok := def.Default.(bool); ok {
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: formstate.Truthy(current),
			Help:    hint.Help,
		})
		if err != nil {
			return nil, err
		}
		return formstate.ParseValue(def, strconv.FormatBool(answer))
	}

	var (
		raw string
		err error
	)
	switch hint.Input {
	case "password":
		raw, err = r.driver.Password(ctx, InputConfig{Message: message, Help: hint.Help})
	case "textarea":
		raw, err = r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: formstate.Text(current), Help: hint.Help})
	default:
		raw, err = r.driver.Input(ctx, InputConfig{Message: message, Default: formstate.Text(current), Help: hint.Help})
	}
	if err != nil {
		return nil, err
	}
	return formstate.ParseValue(def, raw)
}

func (r *Renderer) invalid(ctx context.Context, label, reason string) error {
	return r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.InfoPrefix, label, reason))
}

func (r *Renderer) exhausted(attempt int) bool {
	return r.maxAttempts > 0 && attempt >= r.maxAttempts
}
