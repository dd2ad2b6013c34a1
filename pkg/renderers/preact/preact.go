package preact

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
	rendertemplate "github.com/goliatone/go-formstate/pkg/render/template"
	"github.com/goliatone/go-formstate/pkg/render/template/pongo"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

const (
	templateName   = "templates/page.tmpl"
	defaultMountID = "formstate-root"
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetPaths       AssetPaths
	assetURLPrefix   string
	mountID          string
}

// AssetPaths describes the client bundle URLs emitted next to the hydration
// payload. Empty paths are omitted.
type AssetPaths struct {
	VendorScript string
	AppScript    string
	Stylesheet   string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetPaths sets the client bundle paths injected into the page.
func WithAssetPaths(paths AssetPaths) Option {
	return func(cfg *config) {
		cfg.assetPaths = AssetPaths{
			VendorScript: strings.TrimSpace(paths.VendorScript),
			AppScript:    strings.TrimSpace(paths.AppScript),
			Stylesheet:   strings.TrimSpace(paths.Stylesheet),
		}
	}
}

// WithAssetURLPrefix prefixes emitted asset paths (e.g. "/static/formstate").
func WithAssetURLPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetURLPrefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// WithMountID overrides the id of the element the client app mounts on.
func WithMountID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.mountID = trimmed
		}
	}
}

// Renderer emits a mount point plus a JSON snapshot of the form so a
// client-side Preact app can hydrate the same field state the server holds.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	assetPaths     AssetPaths
	assetURLPrefix string
	mountID        string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Preact renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		mountID:    defaultMountID,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		if _, err := fs.Stat(cfg.templateFS, templateName); err != nil {
			return nil, errors.Wrapf(err, "preact renderer: template %q", templateName)
		}
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, errors.Wrap(err, "preact renderer: configure template renderer")
		}
		templateRenderer = engine
	}

	return &Renderer{
		templates:      templateRenderer,
		assetPaths:     cfg.assetPaths,
		assetURLPrefix: cfg.assetURLPrefix,
		mountID:        cfg.mountID,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "preact"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the hydration shell for the form's current snapshot.
func (r *Renderer) Render(ctx context.Context, form *formstate.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("preact renderer: template renderer is nil")
	}
	if form == nil {
		return nil, errors.New("preact renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(Snapshot(form, options))
	if err != nil {
		return nil, errors.Wrap(err, "preact renderer: marshal form state")
	}

	data := map[string]any{
		"mount_id":   r.mountID,
		"classes":    vanilla.FormClasses(form.State()),
		"state_json": string(payload),
		"locale":     options.Locale,
		"assets": map[string]string{
			"vendorScript": r.assetURL(r.assetPaths.VendorScript),
			"appScript":    r.assetURL(r.assetPaths.AppScript),
			"stylesheet":   r.assetURL(r.assetPaths.Stylesheet),
		},
	}
	for name, helper := range render.TemplateHelpers(options) {
		data[name] = helper
	}

	rendered, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, errors.Wrap(err, "preact renderer: render template")
	}
	return []byte(rendered), nil
}

func (r *Renderer) assetURL(path string) string {
	if path == "" || r.assetURLPrefix == "" || strings.Contains(path, "://") || strings.HasPrefix(path, "/") {
		return path
	}
	return r.assetURLPrefix + "/" + path
}

// State is the hydration payload.
type State struct {
	Method string              `json:"method"`
	Action string              `json:"action,omitempty"`
	Form   formstate.FormState `json:"form"`
	Fields []FieldSnapshot     `json:"fields"`
	Errors []string            `json:"errors,omitempty"`
	Hidden []HiddenInput       `json:"hidden,omitempty"`
}

// FieldSnapshot is one field in definition order.
type FieldSnapshot struct {
	Name     string               `json:"name"`
	Label    string               `json:"label"`
	Help     string               `json:"help,omitempty"`
	Input    string               `json:"input,omitempty"`
	Options  []string             `json:"options,omitempty"`
	State    formstate.FieldState `json:"state"`
	Messages []string             `json:"messages,omitempty"`
}

// HiddenInput is a hidden name/value pair.
type HiddenInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snapshot assembles the hydration payload for form.
func Snapshot(form *formstate.Form, options render.RenderOptions) State {
	options.Hints = render.LocalizeHints(options)
	feedback := render.LocalizedFeedback(form, options)
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}

	state := State{
		Method: method,
		Action: strings.TrimSpace(options.Action),
		Form:   form.State(),
		Errors: feedback.Form,
	}
	form.Fields().Each(func(name string, fs formstate.FieldState) {
		hint := options.Hint(name)
		state.Fields = append(state.Fields, FieldSnapshot{
			Name:     name,
			Label:    hint.Label,
			Help:     hint.Help,
			Input:    hint.Input,
			Options:  hint.Options,
			State:    fs,
			Messages: feedback.For(name),
		})
	})
	for _, field := range render.SortedHiddenFields(options.HiddenFields) {
		state.Hidden = append(state.Hidden, HiddenInput{Name: field.Name, Value: field.Value})
	}
	return state
}
