package formstate

import "reflect"

// InputEvent is the minimal event shape hosts can hand to binding handlers.
type InputEvent struct {
	Name  string
	Value any
}

// InputValue satisfies ValueSource.
func (e InputEvent) InputValue() any {
	return e.Value
}

// ValueSource is implemented by host events that carry an input value.
type ValueSource interface {
	InputValue() any
}

// ValueExtractor turns a raw host event into the field value carried by a
// Change action. It is the only place that knows a host's event shape.
type ValueExtractor func(event any) (any, error)

// DefaultValueExtractor reads ValueSource events (InputEvent included) and
// treats anything else as the value itself. A nil event pointer yields nil.
func DefaultValueExtractor(event any) (any, error) {
	switch e := event.(type) {
	case *InputEvent:
		if e == nil {
			return nil, nil
		}
		return e.Value, nil
	case ValueSource:
		if isNilPointer(e) {
			return nil, nil
		}
		return e.InputValue(), nil
	default:
		return event, nil
	}
}

// Binding wires a rendered control to a form field. OnChange dispatches a
// Change action with the value extracted from the event; OnBlur dispatches a
// Blur action. Neither handler validates or formats the value.
type Binding struct {
	Name     string
	Value    any
	OnChange func(event any) error
	OnBlur   func(event any) error
}

// AttachToInput returns the binding for name, reading the value from the
// current snapshot.
func (f *Form) AttachToInput(name string) (Binding, error) {
	if !f.definition.Has(name) {
		return Binding{}, &UnknownFieldError{Field: name}
	}
	state, _ := f.Field(name)
	return Binding{
		Name:  name,
		Value: state.Value,
		OnChange: func(event any) error {
			value, err := f.extract(event)
			if err != nil {
				return err
			}
			return f.Dispatch(Change{Field: name, Value: value})
		},
		OnBlur: func(any) error {
			return f.Dispatch(Blur{Field: name})
		},
	}, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
