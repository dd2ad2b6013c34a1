package formstate

import (
	"github.com/cockroachdb/errors"
)

// Reduce is the form's state-transition function. It never mutates state;
// the returned snapshot shares every entry the action did not touch. Change
// and Blur on a field missing from def fail with *UnknownFieldError and the
// input state is returned unchanged.
func Reduce(def Definition, state FieldsState, action Action) (FieldsState, error) {
	if action == nil {
		return state, ErrNilAction
	}

	switch act := action.(type) {
	case Change:
		fieldDef, ok := def.Lookup(act.Field)
		if !ok {
			return state, &UnknownFieldError{Field: act.Field, Action: ActionChange}
		}
		current, ok := state.Get(act.Field)
		if !ok {
			current = initialFieldState(act.Field, fieldDef)
		}
		valid, err := runValidators(act.Field, fieldDef, act.Value)
		current.Value = act.Value
		current.Valid = valid
		current.Invalid = !valid
		current.Pristine = false
		current.Dirty = true
		current.Err = err
		return state.with(act.Field, current), nil

	case Blur:
		fieldDef, ok := def.Lookup(act.Field)
		if !ok {
			return state, &UnknownFieldError{Field: act.Field, Action: ActionBlur}
		}
		current, ok := state.Get(act.Field)
		if !ok {
			current = initialFieldState(act.Field, fieldDef)
		}
		current.Touched = true
		current.Untouched = false
		return state.with(act.Field, current), nil

	case Submit:
		fields := make(map[string]FieldState, len(state.fields))
		for name, fs := range state.fields {
			fs.Dirty = false
			fs.Pristine = true
			fs.Touched = false
			fs.Untouched = true
			fields[name] = fs
		}
		return FieldsState{names: state.names, fields: fields}, nil

	case Reset:
		return InitialState(def), nil

	default:
		return state, errors.Newf("formstate: unsupported action %T", action)
	}
}
