package bubble

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

// ErrAborted is returned when the program exits without a submit.
var ErrAborted = errors.New("bubble: aborted")

// Run executes the model as a bubbletea program until it quits and returns
// the final model.
func Run(ctx context.Context, model Model, options ...tea.ProgramOption) (Model, error) {
	options = append([]tea.ProgramOption{tea.WithContext(ctx)}, options...)
	final, err := tea.NewProgram(model, options...).Run()
	if err != nil {
		return model, errors.Wrap(err, "bubble: run program")
	}
	out, ok := final.(Model)
	if !ok {
		return model, errors.Newf("bubble: unexpected final model %T", final)
	}
	if !out.Submitted() {
		return out, ErrAborted
	}
	return out, nil
}

// Renderer adapts the interactive program to render.Renderer: Render runs the
// program and returns the submitted data as JSON.
type Renderer struct {
	programOptions []tea.ProgramOption
	modelOptions   []Option
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer builds a renderer passing programOptions to every program run.
func NewRenderer(programOptions []tea.ProgramOption, modelOptions ...Option) *Renderer {
	return &Renderer{programOptions: programOptions, modelOptions: modelOptions}
}

func (r *Renderer) Name() string {
	return "bubble"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, form *formstate.Form, opts render.RenderOptions) ([]byte, error) {
	modelOptions := append([]Option{WithHints(opts.Hints)}, r.modelOptions...)
	model, err := New(form, modelOptions...)
	if err != nil {
		return nil, err
	}
	final, err := Run(ctx, model, r.programOptions...)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(final.Data())
	if err != nil {
		return nil, errors.Wrap(err, "bubble: marshal data")
	}
	return payload, nil
}
