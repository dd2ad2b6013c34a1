package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/formstate"
)

// MustLoadDocument reads a definition document fixture.
func MustLoadDocument(t *testing.T, path string) definition.Document {
	t.Helper()
	doc, err := definition.Load(path)
	if err != nil {
		t.Fatalf("load document %s: %v", path, err)
	}
	return doc
}

// MustForm builds a form from def, failing the test on error.
func MustForm(t *testing.T, def formstate.Definition, options ...formstate.Option) *formstate.Form {
	t.Helper()
	form, err := formstate.New(def, options...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

// MustFormFromDocument loads a definition document and builds a form from it.
func MustFormFromDocument(t *testing.T, path string, options ...formstate.Option) (*formstate.Form, definition.Document) {
	t.Helper()
	doc := MustLoadDocument(t, path)
	def, err := doc.Build()
	if err != nil {
		t.Fatalf("build definition %s: %v", path, err)
	}
	return MustForm(t, def, options...), doc
}

// SignupDefinition is a small two-field definition shared by renderer and
// transport tests: a required email and an optional numeric age.
func SignupDefinition() formstate.Definition {
	return formstate.Definition{
		Order: []string{"email", "age"},
		Fields: map[string]formstate.FieldDefinition{
			"email": formstate.Field("", formstate.Required(), formstate.MustPattern(`^.+@.+\..+$`)),
			"age":   formstate.Field(int64(0), formstate.Min(0), formstate.Max(150)),
		},
	}
}

// ObservedLogger returns a logger recording entries at debug level and above.
func ObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
