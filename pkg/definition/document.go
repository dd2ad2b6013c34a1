package definition

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Rule kinds understood by the loader.
const (
	RuleRequired  = "required"
	RulePattern   = "pattern"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleOneOf     = "oneOf"
)

var ErrUnknownRule = errors.New("definition: unknown validator rule")

// Document is the declarative form of a definition.
type Document struct {
	Order  []string             `json:"order,omitempty"`
	Fields map[string]FieldSpec `json:"fields"`
}

// FieldSpec declares one field. Label and Help are presentation hints used by
// renderers; they do not affect state.
type FieldSpec struct {
	Default    any    `json:"default"`
	Label      string `json:"label,omitempty"`
	Help       string `json:"help,omitempty"`
	Input      string `json:"input,omitempty"`
	LabelKey   string `json:"labelKey,omitempty"`
	HelpKey    string `json:"helpKey,omitempty"`
	Validators []Rule `json:"validators,omitempty"`
}

// Rule is one declarative validator. Value is unused for RuleRequired.
type Rule struct {
	Kind  string
	Value any
}

// Presentation carries the renderer-facing hints of a field.
type Presentation struct {
	Label string
	Help  string
	Input string
	// Options lists the allowed values of a field constrained by oneOf.
	Options []string
	// LabelKey and HelpKey are translation keys.
	LabelKey string
	HelpKey  string
}

// Names returns field names honouring Order, then sorted.
func (d Document) Names() []string {
	def := formstate.Definition{Order: d.Order, Fields: make(map[string]formstate.FieldDefinition, len(d.Fields))}
	for name := range d.Fields {
		def.Fields[name] = formstate.FieldDefinition{}
	}
	return def.Names()
}

// Build converts the document into a formstate.Definition.
func (d Document) Build() (formstate.Definition, error) {
	def := formstate.Definition{
		Order:  append([]string(nil), d.Order...),
		Fields: make(map[string]formstate.FieldDefinition, len(d.Fields)),
	}
	for name, spec := range d.Fields {
		validators := make([]formstate.Validator, 0, len(spec.Validators))
		for idx, rule := range spec.Validators {
			v, err := rule.Validator()
			if err != nil {
				return formstate.Definition{}, errors.Wrapf(err, "definition: field %q validator %d", name, idx)
			}
			validators = append(validators, v)
		}
		def.Fields[name] = formstate.FieldDefinition{
			Default:    spec.Default,
			Validators: validators,
		}
	}
	if err := def.Validate(); err != nil {
		return formstate.Definition{}, err
	}
	return def, nil
}

// Presentation returns the label/help/input hints keyed by field name. Labels
// default to the field name.
func (d Document) Presentation() map[string]Presentation {
	out := make(map[string]Presentation, len(d.Fields))
	for name, spec := range d.Fields {
		label := strings.TrimSpace(spec.Label)
		if label == "" {
			label = name
		}
		out[name] = Presentation{
			Label:    label,
			Help:     strings.TrimSpace(spec.Help),
			Input:    strings.TrimSpace(spec.Input),
			Options:  spec.options(),
			LabelKey: strings.TrimSpace(spec.LabelKey),
			HelpKey:  strings.TrimSpace(spec.HelpKey),
		}
	}
	return out
}

func (s FieldSpec) options() []string {
	for _, rule := range s.Validators {
		if rule.Kind != RuleOneOf {
			continue
		}
		values, _ := rule.Value.([]any)
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, formstate.Text(v))
		}
		return out
	}
	return nil
}

// Validator compiles the rule.
func (r Rule) Validator() (formstate.Validator, error) {
	switch r.Kind {
	case RuleRequired:
		return formstate.Required(), nil
	case RulePattern:
		expr, ok := r.Value.(string)
		if !ok {
			return nil, errors.Newf("definition: pattern expects a string, got %T", r.Value)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.Wrapf(err, "definition: compile pattern %q", expr)
		}
		return formstate.Pattern(re), nil
	case RuleMinLength, RuleMaxLength:
		n, ok := formstate.Number(r.Value)
		if !ok || n < 0 || n != float64(int(n)) {
			return nil, errors.Newf("definition: %s expects a non-negative integer, got %v", r.Kind, r.Value)
		}
		if r.Kind == RuleMinLength {
			return formstate.MinLength(int(n)), nil
		}
		return formstate.MaxLength(int(n)), nil
	case RuleMin, RuleMax:
		n, ok := formstate.Number(r.Value)
		if !ok {
			return nil, errors.Newf("definition: %s expects a number, got %v", r.Kind, r.Value)
		}
		if r.Kind == RuleMin {
			return formstate.Min(n), nil
		}
		return formstate.Max(n), nil
	case RuleOneOf:
		values, ok := r.Value.([]any)
		if !ok || len(values) == 0 {
			return nil, errors.Newf("definition: oneOf expects a non-empty list, got %v", r.Value)
		}
		return formstate.OneOf(values...), nil
	default:
		return nil, errors.Wrapf(ErrUnknownRule, "%q", r.Kind)
	}
}

// MarshalJSON writes "required" rules as a bare string and others as a
// single-key object.
func (r Rule) MarshalJSON() ([]byte, error) {
	return jsonMarshal(r.generic())
}

// MarshalYAML mirrors MarshalJSON for yaml.v3.
func (r Rule) MarshalYAML() (any, error) {
	return r.generic(), nil
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw any
	if err := jsonUnmarshal(data, &raw); err != nil {
		return err
	}
	rule, err := ruleFrom(raw)
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

func (r Rule) generic() any {
	if r.Kind == RuleRequired {
		return RuleRequired
	}
	return map[string]any{r.Kind: r.Value}
}

// generic converts the document into plain maps so every encoder sees the
// same shape.
func (d Document) generic() map[string]any {
	fields := make(map[string]any, len(d.Fields))
	for name, spec := range d.Fields {
		entry := map[string]any{"default": spec.Default}
		if spec.Label != "" {
			entry["label"] = spec.Label
		}
		if spec.Help != "" {
			entry["help"] = spec.Help
		}
		if spec.Input != "" {
			entry["input"] = spec.Input
		}
		if spec.LabelKey != "" {
			entry["labelKey"] = spec.LabelKey
		}
		if spec.HelpKey != "" {
			entry["helpKey"] = spec.HelpKey
		}
		if len(spec.Validators) > 0 {
			rules := make([]any, 0, len(spec.Validators))
			for _, rule := range spec.Validators {
				rules = append(rules, rule.generic())
			}
			entry["validators"] = rules
		}
		fields[name] = entry
	}
	out := map[string]any{"fields": fields}
	if len(d.Order) > 0 {
		order := make([]any, len(d.Order))
		for i, name := range d.Order {
			order[i] = name
		}
		out["order"] = order
	}
	return out
}

func documentFrom(raw map[string]any) (Document, error) {
	doc := Document{Fields: make(map[string]FieldSpec)}
	raw, _ = normalizeValue(raw).(map[string]any)

	if rawOrder, ok := raw["order"]; ok {
		list, ok := rawOrder.([]any)
		if !ok {
			return Document{}, errors.Newf("definition: order must be a list, got %T", rawOrder)
		}
		for _, item := range list {
			doc.Order = append(doc.Order, fmt.Sprint(item))
		}
	}

	rawFields, ok := raw["fields"].(map[string]any)
	if !ok {
		return Document{}, errors.New("definition: document requires a fields map")
	}
	for name, rawField := range rawFields {
		spec, err := fieldFrom(rawField)
		if err != nil {
			return Document{}, errors.Wrapf(err, "definition: field %q", name)
		}
		doc.Fields[name] = spec
	}
	return doc, nil
}

func fieldFrom(raw any) (FieldSpec, error) {
	if raw == nil {
		return FieldSpec{}, nil
	}
	entry, ok := raw.(map[string]any)
	if !ok {
		return FieldSpec{}, errors.Newf("expected a map, got %T", raw)
	}

	spec := FieldSpec{Default: normalizeValue(entry["default"])}
	spec.Label, _ = entry["label"].(string)
	spec.Help, _ = entry["help"].(string)
	spec.Input, _ = entry["input"].(string)
	spec.LabelKey, _ = entry["labelKey"].(string)
	spec.HelpKey, _ = entry["helpKey"].(string)

	if rawRules, ok := entry["validators"]; ok && rawRules != nil {
		list, ok := rawRules.([]any)
		if !ok {
			return FieldSpec{}, errors.Newf("validators must be a list, got %T", rawRules)
		}
		for idx, item := range list {
			rule, err := ruleFrom(item)
			if err != nil {
				return FieldSpec{}, errors.Wrapf(err, "validator %d", idx)
			}
			spec.Validators = append(spec.Validators, rule)
		}
	}
	return spec, nil
}

func ruleFrom(raw any) (Rule, error) {
	switch v := raw.(type) {
	case string:
		if v != RuleRequired {
			return Rule{}, errors.Wrapf(ErrUnknownRule, "%q", v)
		}
		return Rule{Kind: RuleRequired}, nil
	case map[string]any:
		if len(v) != 1 {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return Rule{}, errors.Newf("definition: rule must have exactly one key, got %v", keys)
		}
		for kind, value := range v {
			rule := Rule{Kind: kind, Value: normalizeValue(value)}
			if _, err := rule.Validator(); err != nil {
				return Rule{}, err
			}
			return rule, nil
		}
	}
	return Rule{}, errors.Newf("definition: unsupported rule %T", raw)
}

// normalizeValue flattens decoder specific shapes (yaml/toml maps and typed
// slices) into plain map[string]any / []any.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
