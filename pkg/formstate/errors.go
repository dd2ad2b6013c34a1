package formstate

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownField is matched by UnknownFieldError when an action names a
	// field missing from the form definition.
	ErrUnknownField = errors.New("formstate: unknown field")
	// ErrNilAction is returned when a nil action is dispatched.
	ErrNilAction = errors.New("formstate: action is required")
	// ErrEmptyDefinition is returned when a definition declares no fields.
	ErrEmptyDefinition = errors.New("formstate: definition has no fields")
	// ErrInvalidFieldName flags blank, duplicated or dangling field names.
	ErrInvalidFieldName = errors.New("formstate: invalid field name")
	// ErrValidatorPanic marks failures recovered from a panicking validator.
	ErrValidatorPanic = errors.New("formstate: validator panicked")
	// ErrInvalidValue is returned when raw text cannot be parsed into a
	// field's value type.
	ErrInvalidValue = errors.New("formstate: invalid value")
)

// UnknownFieldError reports an action addressed to a field the definition does
// not declare. It unwraps to ErrUnknownField.
type UnknownFieldError struct {
	Field string
	// Action is the kind of action that referenced the field.
	Action ActionKind
}

func (e *UnknownFieldError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("formstate: %s: unknown field %q", e.Action, e.Field)
	}
	return fmt.Sprintf("formstate: unknown field %q", e.Field)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

// ValidatorError captures a validator failure. The owning field is treated as
// invalid and the error is kept on FieldState.Err for diagnostics.
type ValidatorError struct {
	Field     string
	Validator string
	Cause     error
}

func (e *ValidatorError) Error() string {
	field := e.Field
	if field == "" {
		field = "<unnamed>"
	}
	return fmt.Sprintf("formstate: field %q validator %s: %v", field, e.Validator, e.Cause)
}

func (e *ValidatorError) Unwrap() error {
	return e.Cause
}

func recoveredError(recovered any) error {
	cause, ok := recovered.(error)
	if !ok {
		cause = errors.Newf("%v", recovered)
	}
	return errors.Mark(cause, ErrValidatorPanic)
}
