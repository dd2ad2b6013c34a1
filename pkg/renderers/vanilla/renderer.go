package vanilla

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
	rendertemplate "github.com/goliatone/go-formstate/pkg/render/template"
	"github.com/goliatone/go-formstate/pkg/render/template/pongo"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	inlineStyles     bool
	submitLabel      string
	globals          map[string]any
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
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

// WithStylesheet links an external stylesheet ahead of the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// WithDefaultStyles inlines the bundled stylesheet ahead of the form.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithSubmitLabel overrides the submit button caption.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			cfg.submitLabel = trimmed
		}
	}
}

// WithTemplateGlobals exposes values and helpers to every template. Ignored
// when a custom template renderer is injected. Translation helpers are added
// per render when RenderOptions.Translator is set.
func WithTemplateGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if len(globals) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for key, value := range globals {
			cfg.globals[key] = value
		}
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	stylesheet   string
	inlineStyles string
	submitLabel  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Submit"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithGlobals(cfg.globals),
		)
		if err != nil {
			return nil, errors.Wrap(err, "vanilla renderer: configure template renderer")
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		stylesheet:  cfg.stylesheet,
		submitLabel: cfg.submitLabel,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the form markup for the form's current snapshot. Rendering
// never dispatches actions.
func (r *Renderer) Render(ctx context.Context, form *formstate.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if form == nil {
		return nil, errors.New("vanilla renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]any{
		"form":          r.view(form, options),
		"stylesheet":    r.stylesheet,
		"inline_styles": r.inlineStyles,
	}
	for name, helper := range render.TemplateHelpers(options) {
		data[name] = helper
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, errors.Wrap(err, "vanilla renderer: render template")
	}
	return []byte(result), nil
}

func (r *Renderer) view(form *formstate.Form, options render.RenderOptions) map[string]any {
	options.Hints = render.LocalizeHints(options)
	def := form.Definition()
	snapshot := form.Fields()
	feedback := render.LocalizedFeedback(form, options)

	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}

	hidden := make([]map[string]any, 0, len(options.HiddenFields))
	for _, field := range render.SortedHiddenFields(options.HiddenFields) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	fields := make([]map[string]any, 0, snapshot.Len())
	snapshot.Each(func(name string, fs formstate.FieldState) {
		fieldDef, _ := def.Lookup(name)
		hint := options.Hint(name)
		id := controlID(name)
		entry := map[string]any{
			"name":     name,
			"id":       id,
			"label":    hint.Label,
			"help":     hint.Help,
			"input":    inputKind(hint.Input, fieldDef.Default),
			"value":    formstate.Text(fs.Value),
			"checked":  formstate.Truthy(fs.Value),
			"required": hasRequired(fieldDef),
			"invalid":  fs.Invalid && (fs.Touched || fs.Dirty),
			"classes":  FieldClasses(fs),
			"messages": feedback.For(name),
		}
		if hint.Help != "" {
			entry["describedby"] = id + "-help"
		}
		if len(hint.Options) > 0 {
			entry["input"] = "select"
			entry["options"] = selectOptions(hint.Options, formstate.Text(fs.Value))
		}
		fields = append(fields, entry)
	})

	return map[string]any{
		"method":       method,
		"action":       strings.TrimSpace(options.Action),
		"classes":      FormClasses(form.State()),
		"hidden":       hidden,
		"errors":       feedback.Form,
		"fields":       fields,
		"submit_label": options.Translate("form.submit", r.submitLabel),
		"locale":       options.Locale,
	}
}
