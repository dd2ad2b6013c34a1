package openapi

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/definition"
)

var (
	// ErrOperationNotFound is returned when the requested operation id is not
	// declared by the document.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned for operations without an object request
	// body schema.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// LoadDocument reads an OpenAPI file and derives the form document for the
// given operation.
func LoadDocument(ctx context.Context, path, operationID string) (definition.Document, error) {
	return NewLoader().LoadSource(ctx, SourceFromFile(path), operationID)
}

// Operations lists the operation ids declared in raw, sorted.
func Operations(ctx context.Context, raw []byte) ([]string, error) {
	spec, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}
	var ids []string
	walkOperations(spec, func(id, _, _ string, _ *openapi3.Operation) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

// DocumentFromOperation maps the top-level properties of an operation's
// request body onto a form document: defaults, required properties, pattern,
// length, range and enum constraints.
func DocumentFromOperation(ctx context.Context, raw []byte, operationID string) (definition.Document, error) {
	spec, err := load(ctx, raw)
	if err != nil {
		return definition.Document{}, err
	}

	var found *openapi3.Operation
	walkOperations(spec, func(id, _, _ string, op *openapi3.Operation) bool {
		if id == operationID {
			found = op
			return false
		}
		return true
	})
	if found == nil {
		return definition.Document{}, errors.Wrapf(ErrOperationNotFound, "%q", operationID)
	}

	schema := requestSchema(found.RequestBody)
	if schema == nil || len(schema.Properties) == 0 {
		return definition.Document{}, errors.Wrapf(ErrNoRequestBody, "%q", operationID)
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	doc := definition.Document{Fields: make(map[string]definition.FieldSpec, len(schema.Properties))}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		doc.Fields[name] = fieldSpec(ref.Value, isRequired)
		doc.Order = append(doc.Order, name)
	}
	sort.Strings(doc.Order)
	return doc, nil
}

func load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, errors.Wrap(err, "openapi: load document")
	}
	return spec, nil
}

func walkOperations(spec *openapi3.T, visit func(id, method, path string, op *openapi3.Operation) bool) {
	if spec.Paths == nil {
		return
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			op := ops[method]
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if !visit(id, method, path, op) {
				return
			}
		}
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if mt := content[name]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldSpec(src *openapi3.Schema, required bool) definition.FieldSpec {
	kind := schemaType(src)
	spec := definition.FieldSpec{
		Default: defaultValue(kind, src.Default),
		Label:   strings.TrimSpace(src.Title),
		Help:    strings.TrimSpace(src.Description),
	}
	switch src.Format {
	case "password", "textarea":
		spec.Input = src.Format
	}

	if required {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleRequired})
	}
	if src.Pattern != "" {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RulePattern, Value: src.Pattern})
	}
	if src.MinLength > 0 {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleMinLength, Value: int64(src.MinLength)})
	}
	if src.MaxLength != nil {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleMaxLength, Value: int64(*src.MaxLength)})
	}
	if kind == "array" {
		if src.MinItems > 0 {
			spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleMinLength, Value: int64(src.MinItems)})
		}
		if src.MaxItems != nil {
			spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleMaxLength, Value: int64(*src.MaxItems)})
		}
	}
	if src.Min != nil {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleMin, Value: *src.Min})
	}
	if src.Max != nil {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleMax, Value: *src.Max})
	}
	if len(src.Enum) > 0 {
		spec.Validators = append(spec.Validators, definition.Rule{Kind: definition.RuleOneOf, Value: append([]any(nil), src.Enum...)})
	}
	return spec
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	for _, t := range src.Type.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

func defaultValue(kind string, declared any) any {
	switch kind {
	case "integer":
		if f, ok := declared.(float64); ok && f == math.Trunc(f) {
			return int64(f)
		}
		if declared == nil {
			return int64(0)
		}
	case "number":
		if declared == nil {
			return float64(0)
		}
	case "boolean":
		if declared == nil {
			return false
		}
	case "string":
		if declared == nil {
			return ""
		}
	}
	return declared
}
