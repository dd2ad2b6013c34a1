package formstate

import (
	"encoding/json"
	"reflect"
)

// FieldState is the derived-and-stored state of a single field. The paired
// flags are always complementary.
type FieldState struct {
	Value     any  `json:"value"`
	Valid     bool `json:"valid"`
	Invalid   bool `json:"invalid"`
	Pristine  bool `json:"pristine"`
	Dirty     bool `json:"dirty"`
	Untouched bool `json:"untouched"`
	Touched   bool `json:"touched"`
	// Err holds the last validator failure, if any.
	Err error `json:"-"`
}

// FormState aggregates every field of a form.
type FormState struct {
	Valid    bool `json:"valid"`
	Invalid  bool `json:"invalid"`
	Pristine bool `json:"pristine"`
	Dirty    bool `json:"dirty"`
}

// FieldsState is an immutable snapshot of every field's state. Transitions
// return new snapshots; entries that did not change are shared by value.
type FieldsState struct {
	names  []string
	fields map[string]FieldState
}

// InitialFieldState builds the state a field starts from: the default value,
// validity computed against it, pristine and untouched.
func InitialFieldState(def FieldDefinition) FieldState {
	return initialFieldState("", def)
}

func initialFieldState(name string, def FieldDefinition) FieldState {
	valid, err := runValidators(name, def, def.Default)
	return FieldState{
		Value:     def.Default,
		Valid:     valid,
		Invalid:   !valid,
		Pristine:  true,
		Dirty:     false,
		Untouched: true,
		Touched:   false,
		Err:       err,
	}
}

// InitialState builds the initial snapshot for every field in def.
func InitialState(def Definition) FieldsState {
	names := def.Names()
	fields := make(map[string]FieldState, len(names))
	for _, name := range names {
		fields[name] = initialFieldState(name, def.Fields[name])
	}
	return FieldsState{names: names, fields: fields}
}

// Get returns the state of the named field.
func (s FieldsState) Get(name string) (FieldState, bool) {
	fs, ok := s.fields[name]
	return fs, ok
}

// Names returns the field names in definition order.
func (s FieldsState) Names() []string {
	return append([]string(nil), s.names...)
}

// Len reports the number of fields in the snapshot.
func (s FieldsState) Len() int {
	return len(s.names)
}

// Map returns a copy of the snapshot keyed by field name.
func (s FieldsState) Map() map[string]FieldState {
	out := make(map[string]FieldState, len(s.fields))
	for name, fs := range s.fields {
		out[name] = fs
	}
	return out
}

// Each visits fields in definition order.
func (s FieldsState) Each(fn func(name string, state FieldState)) {
	for _, name := range s.names {
		fn(name, s.fields[name])
	}
}

// Equal reports whether both snapshots hold the same fields with the same
// flags and values. Captured validator errors are compared by presence only.
func (s FieldsState) Equal(other FieldsState) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for name, a := range s.fields {
		b, ok := other.fields[name]
		if !ok || !a.sameAs(b) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the snapshot as an object keyed by field name.
func (s FieldsState) MarshalJSON() ([]byte, error) {
	if s.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.fields)
}

func (s FieldsState) with(name string, fs FieldState) FieldsState {
	fields := make(map[string]FieldState, len(s.fields))
	for k, v := range s.fields {
		fields[k] = v
	}
	fields[name] = fs
	return FieldsState{names: s.names, fields: fields}
}

func (a FieldState) sameAs(b FieldState) bool {
	return a.Valid == b.Valid &&
		a.Invalid == b.Invalid &&
		a.Pristine == b.Pristine &&
		a.Dirty == b.Dirty &&
		a.Untouched == b.Untouched &&
		a.Touched == b.Touched &&
		(a.Err == nil) == (b.Err == nil) &&
		valuesEqual(a.Value, b.Value)
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Data returns the submittable payload: field name to current value.
func Data(s FieldsState) map[string]any {
	out := make(map[string]any, len(s.fields))
	for name, fs := range s.fields {
		out[name] = fs.Value
	}
	return out
}

// Aggregate folds every field into the form-level flags. An empty snapshot is
// valid and pristine.
func Aggregate(s FieldsState) FormState {
	form := FormState{Valid: true, Pristine: true}
	for _, fs := range s.fields {
		form.Valid = fs.Valid && form.Valid
		form.Pristine = fs.Pristine && form.Pristine
		form.Dirty = fs.Dirty || form.Dirty
		form.Invalid = fs.Invalid || form.Invalid
	}
	return form
}
