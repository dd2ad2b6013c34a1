package formstate

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// FieldDefinition is the static configuration of one field: the value it
// starts from and the validators that decide whether a value is valid.
type FieldDefinition struct {
	Default    any
	Validators []Validator
}

// Definition maps field names to their definitions. Order controls the
// iteration order used by Names and by renderers; names missing from Order are
// appended in sorted order.
type Definition struct {
	Fields map[string]FieldDefinition
	Order  []string
}

// Field is a convenience constructor for a FieldDefinition.
func Field(defaultValue any, validators ...Validator) FieldDefinition {
	return FieldDefinition{Default: defaultValue, Validators: validators}
}

// Lookup returns the definition registered for name.
func (d Definition) Lookup(name string) (FieldDefinition, bool) {
	def, ok := d.Fields[name]
	return def, ok
}

// Has reports whether the definition declares name.
func (d Definition) Has(name string) bool {
	_, ok := d.Fields[name]
	return ok
}

// Names returns every declared field name: Order first, then the remaining
// names sorted.
func (d Definition) Names() []string {
	names := make([]string, 0, len(d.Fields))
	seen := make(map[string]struct{}, len(d.Fields))
	for _, name := range d.Order {
		if _, ok := d.Fields[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	var rest []string
	for name := range d.Fields {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Validate checks the definition is usable: at least one field, no blank
// names and an Order that only references declared fields once.
func (d Definition) Validate() error {
	if len(d.Fields) == 0 {
		return ErrEmptyDefinition
	}
	for name := range d.Fields {
		if strings.TrimSpace(name) == "" {
			return errors.Wrap(ErrInvalidFieldName, "blank field name")
		}
	}
	seen := make(map[string]struct{}, len(d.Order))
	for _, name := range d.Order {
		if _, ok := d.Fields[name]; !ok {
			return errors.Wrapf(ErrInvalidFieldName, "order references undeclared field %q", name)
		}
		if _, dup := seen[name]; dup {
			return errors.Wrapf(ErrInvalidFieldName, "order lists field %q twice", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// normalize returns a deep-enough copy so later caller mutations to the maps
// or validator slices do not leak into a running form.
func (d Definition) normalize() Definition {
	out := Definition{
		Fields: make(map[string]FieldDefinition, len(d.Fields)),
		Order:  d.Names(),
	}
	for name, def := range d.Fields {
		out.Fields[name] = FieldDefinition{
			Default:    def.Default,
			Validators: append([]Validator(nil), def.Validators...),
		}
	}
	return out
}
