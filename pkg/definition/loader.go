package definition

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Format selects the document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

var ErrUnsupportedFormat = errors.New("definition: unsupported format")

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "extension %q", filepath.Ext(path))
	}
}

// ParseFormat accepts user supplied format names.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "definition: read %s", path)
	}
	return Parse(raw, format)
}

// LoadDefinition reads path and builds the formstate definition in one step.
func LoadDefinition(path string) (formstate.Definition, Document, error) {
	doc, err := Load(path)
	if err != nil {
		return formstate.Definition{}, Document{}, err
	}
	def, err := doc.Build()
	if err != nil {
		return formstate.Definition{}, Document{}, err
	}
	return def, doc, nil
}

// Parse decodes raw in the given format.
func Parse(raw []byte, format Format) (Document, error) {
	var generic map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return Document{}, errors.Wrap(err, "definition: decode yaml")
		}
	case FormatTOML:
		if err := toml.Unmarshal(raw, &generic); err != nil {
			return Document{}, errors.Wrap(err, "definition: decode toml")
		}
	case FormatJSON:
		if err := jsonUnmarshal(raw, &generic); err != nil {
			return Document{}, errors.Wrap(err, "definition: decode json")
		}
	default:
		return Document{}, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if generic == nil {
		return Document{}, errors.New("definition: document is empty")
	}

	doc, err := documentFrom(generic)
	if err != nil {
		return Document{}, err
	}
	if format == FormatYAML && len(doc.Order) == 0 {
		order, err := yamlFieldOrder(raw)
		if err != nil {
			return Document{}, err
		}
		doc.Order = order
	}
	return doc, nil
}

// Encode writes doc in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	generic := doc.generic()
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return nil, errors.Wrap(err, "definition: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "definition: encode yaml")
		}
		return buf.Bytes(), nil
	case FormatTOML:
		out, err := toml.Marshal(generic)
		if err != nil {
			return nil, errors.Wrap(err, "definition: encode toml")
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(generic, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "definition: encode json")
		}
		return append(out, '\n'), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

func yamlFieldOrder(raw []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, errors.Wrap(err, "definition: decode yaml")
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "fields" {
			continue
		}
		fields := doc.Content[i+1]
		if fields.Kind != yaml.MappingNode {
			return nil, nil
		}
		order := make([]string, 0, len(fields.Content)/2)
		for j := 0; j+1 < len(fields.Content); j += 2 {
			order = append(order, fields.Content[j].Value)
		}
		return order, nil
	}
	return nil, nil
}

func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// jsonUnmarshal decodes numbers as int64 when they are integral so defaults
// keep their natural Go type.
func jsonUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	converted := convertNumbers(raw)
	switch target := v.(type) {
	case *any:
		*target = converted
	case *map[string]any:
		m, ok := converted.(map[string]any)
		if !ok && converted != nil {
			return errors.Newf("expected a JSON object, got %T", converted)
		}
		*target = m
	default:
		return errors.Newf("unsupported decode target %T", v)
	}
	return nil
}

func convertNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, item := range v {
			v[k] = convertNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = convertNumbers(item)
		}
		return v
	default:
		return v
	}
}
