package httpbind

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// ValueErrors reports posted values that could not be parsed into their
// field's type, keyed by field name. Those fields are left untouched.
type ValueErrors map[string]error

func (e ValueErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e[name]))
	}
	return "httpbind: invalid values: " + strings.Join(parts, "; ")
}

// Messages flattens the errors for JSON responses.
func (e ValueErrors) Messages() map[string][]string {
	out := make(map[string][]string, len(e))
	for name, err := range e {
		out[name] = []string{err.Error()}
	}
	return out
}

// Bind parses r and dispatches a change then a blur for every declared field
// present in the post, in definition order. Unknown keys are ignored unless
// WithStrict is set, in which case the first one is reported as an
// *formstate.UnknownFieldError before anything is dispatched. Fields whose
// values cannot be parsed are skipped and reported through ValueErrors.
func Bind(ctx context.Context, form *formstate.Form, r *http.Request, options ...Option) error {
	if form == nil {
		return errors.New("httpbind: form is nil")
	}
	if r == nil {
		return errors.New("httpbind: request is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newConfig(options)
	values, err := postedValues(r, cfg.maxMemory)
	if err != nil {
		return err
	}

	def := form.Definition()
	if cfg.strict {
		if key, ok := firstUnknown(def, values, cfg.ignore); ok {
			return &formstate.UnknownFieldError{Field: key, Action: formstate.ActionChange}
		}
	}

	invalid := ValueErrors{}
	for _, name := range def.Names() {
		posted, ok := values[name]
		if !ok || len(posted) == 0 {
			continue
		}
		raw := posted[len(posted)-1]
		if _, skip := cfg.raw[name]; !skip {
			raw = Sanitize(cfg.policy, raw)
		}

		fieldDef, _ := def.Lookup(name)
		value, err := formstate.ParseValue(fieldDef, raw)
		if err != nil {
			invalid[name] = err
			cfg.logger.Debug("httpbind: unparsable value", zap.String("field", name), zap.Error(err))
			continue
		}
		if err := form.Change(name, value); err != nil {
			return err
		}
		if err := form.Blur(name); err != nil {
			return err
		}
	}

	if len(invalid) > 0 {
		return invalid
	}
	return nil
}

func postedValues(r *http.Request, maxMemory int64) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, errors.Wrap(err, "httpbind: parse multipart form")
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, errors.Wrap(err, "httpbind: parse form")
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.PostForm, nil
	default:
		return r.Form, nil
	}
}

func firstUnknown(def formstate.Definition, values url.Values, ignore map[string]struct{}) (string, bool) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, skip := ignore[key]; skip {
			continue
		}
		if !def.Has(key) {
			return key, true
		}
	}
	return "", false
}
