package pongo_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formstate/pkg/render/template/pongo"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte("Hello {{ name|trim }}!")},
		"use-global.tmpl": {Data: []byte("env={{ env }}")},
	}
	engine, err := pongo.New(pongo.WithFS(files), pongo.WithGlobals(map[string]any{"env": "staging"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, w)
	})
	if diff := testsupport.CompareGolden("Hello Ada!", got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if written != got {
		t.Fatalf("writer received %q, want %q", written, got)
	}

	if got, _ := engine.RenderTemplate("use-global.tmpl", nil); got != "env=staging" {
		t.Fatalf("unexpected global output %q", got)
	}
}

func TestEngine_RenderStringEscapes(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderString("<p>{{ v }}</p>", map[string]any{"v": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<p>&lt;b&gt;x&lt;/b&gt;</p>" {
		t.Fatalf("expected autoescaped output, got %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("formstate_test_shout", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := engine.RegisterFilter("formstate_test_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}
	got, err := engine.RenderString("{{ v|formstate_test_shout }}", map[string]any{"v": "hi"})
	if err != nil || got != "HI" {
		t.Fatalf("unexpected filter output %q (%v)", got, err)
	}
}

func TestEngine_RejectsNonMapData(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderString("x", 42); err == nil {
		t.Fatalf("expected error for non-map data")
	}
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
