package formstate

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseValue converts raw text from a terminal or HTTP post into the Go type
// of the field's default. String and untyped (nil) defaults keep the raw
// text. Blank input for numeric fields yields nil so optional numbers stay
// blank. Booleans accept strconv.ParseBool forms plus on/off and yes/no.
func ParseValue(def FieldDefinition, raw string) (any, error) {
	if def.Default == nil {
		return raw, nil
	}
	target := reflect.TypeOf(def.Default)
	trimmed := strings.TrimSpace(raw)

	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(target).Interface(), nil
	case reflect.Bool:
		b, err := parseBool(trimmed)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(b).Convert(target).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if trimmed == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q is not an integer", raw)
		}
		out := reflect.New(target).Elem()
		if out.OverflowInt(n) {
			return nil, errors.Wrapf(ErrInvalidValue, "%q overflows %s", raw, target)
		}
		out.SetInt(n)
		return out.Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if trimmed == "" {
			return nil, nil
		}
		n, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q is not a non-negative integer", raw)
		}
		out := reflect.New(target).Elem()
		if out.OverflowUint(n) {
			return nil, errors.Wrapf(ErrInvalidValue, "%q overflows %s", raw, target)
		}
		out.SetUint(n)
		return out.Interface(), nil
	case reflect.Float32, reflect.Float64:
		if trimmed == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(trimmed, target.Bits())
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q is not a number", raw)
		}
		return reflect.ValueOf(f).Convert(target).Interface(), nil
	default:
		return raw, nil
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "off", "no", "n":
		return false, nil
	case "on", "yes", "y":
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(ErrInvalidValue, "%q is not a boolean", raw)
	}
	return b, nil
}
