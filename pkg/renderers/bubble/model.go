package bubble

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Option configures a Model.
type Option func(*Model)

// WithHints supplies labels, help text and input kinds keyed by field name.
func WithHints(hints map[string]render.FieldHint) Option {
	return func(m *Model) {
		m.hints = render.RenderOptions{Hints: hints}
	}
}

// WithStyles overrides the default palette.
func WithStyles(styles Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// WithTitle sets the heading shown above the fields.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = strings.TrimSpace(title)
	}
}

// WithLogger sets the logger used for dispatch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Model is a bubbletea program owning a form: one text input per field,
// keystrokes dispatch change actions and leaving a field dispatches blur.
type Model struct {
	form   *formstate.Form
	names  []string
	inputs []textinput.Model
	focus  int

	hints  render.RenderOptions
	styles Styles
	title  string
	logger *zap.Logger

	parseErrs map[string]string
	data      map[string]any
	submitted bool
	quitting  bool
}

var _ tea.Model = Model{}

// New builds a model over form with focus on the first field.
func New(form *formstate.Form, options ...Option) (Model, error) {
	if form == nil {
		return Model{}, errors.New("bubble: form is nil")
	}
	m := Model{
		form:      form,
		names:     form.Fields().Names(),
		styles:    DefaultStyles(),
		logger:    zap.NewNop(),
		parseErrs: make(map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&m)
		}
	}

	m.inputs = make([]textinput.Model, len(m.names))
	for i, name := range m.names {
		hint := m.hints.Hint(name)
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = hint.Help
		if hint.Input == "password" {
			ti.EchoMode = textinput.EchoPassword
		}
		if fs, ok := form.Field(name); ok {
			ti.SetValue(formstate.Text(fs.Value))
		}
		m.inputs[i] = ti
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m, nil
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses. Other messages go to the focused input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "down":
		return m, m.move(1)
	case "shift+tab", "up":
		return m, m.move(-1)
	case "ctrl+r":
		m.reset()
		return m, nil
	case "enter":
		return m.submit()
	default:
		return m.updateInput(msg)
	}
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.change(m.names[m.focus], after)
	}
	return m, cmd
}

func (m *Model) change(name, raw string) {
	def, _ := m.form.Definition().Lookup(name)
	value, err := formstate.ParseValue(def, raw)
	if err != nil {
		m.parseErrs[name] = err.Error()
		return
	}
	delete(m.parseErrs, name)
	if err := m.form.Change(name, value); err != nil {
		m.logger.Warn("bubble: change failed", zap.String("field", name), zap.Error(err))
	}
}

func (m *Model) blurFocused() {
	if len(m.names) == 0 {
		return
	}
	name := m.names[m.focus]
	if err := m.form.Blur(name); err != nil {
		m.logger.Warn("bubble: blur failed", zap.String("field", name), zap.Error(err))
	}
	m.inputs[m.focus].Blur()
}

func (m *Model) focusOn(idx int) tea.Cmd {
	m.focus = idx
	return m.inputs[m.focus].Focus()
}

func (m *Model) move(delta int) tea.Cmd {
	n := len(m.inputs)
	if n == 0 {
		return nil
	}
	m.blurFocused()
	return m.focusOn(((m.focus+delta)%n + n) % n)
}

func (m *Model) reset() {
	if err := m.form.Reset(); err != nil {
		m.logger.Warn("bubble: reset failed", zap.Error(err))
		return
	}
	m.parseErrs = make(map[string]string)
	m.syncInputs()
}

func (m *Model) syncInputs() {
	for i, name := range m.names {
		if fs, ok := m.form.Field(name); ok {
			m.inputs[i].SetValue(formstate.Text(fs.Value))
		}
	}
}

// submit blurs the focused field and submits when the form is valid and no
// input holds unparsable text. Otherwise focus jumps to the first field that
// needs attention.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	m.blurFocused()

	fields := m.form.Fields()
	for i, name := range m.names {
		fs, _ := fields.Get(name)
		if fs.Invalid || m.parseErrs[name] != "" {
			return m, m.focusOn(i)
		}
	}

	m.data = m.form.Data()
	if err := m.form.Submit(); err != nil {
		m.logger.Warn("bubble: submit failed", zap.Error(err))
		return m, m.focusOn(m.focus)
	}
	m.submitted = true
	return m, tea.Quit
}

// Submitted reports whether the form was submitted.
func (m Model) Submitted() bool {
	return m.submitted
}

// Aborted reports whether the user quit without submitting.
func (m Model) Aborted() bool {
	return m.quitting && !m.submitted
}

// Data returns the payload captured at submit time.
func (m Model) Data() map[string]any {
	return m.data
}

// Focused returns the name of the focused field.
func (m Model) Focused() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[m.focus]
}

// View renders every field with its state flags and the form status.
func (m Model) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.Title.Render(m.title))
		b.WriteString("\n")
	}

	fields := m.form.Fields()
	feedback := render.Feedback(m.form, nil)
	for i, name := range m.names {
		fs, _ := fields.Get(name)
		label := m.styles.Label.Render(m.hints.Hint(name).Label)
		if i == m.focus && !m.submitted && !m.quitting {
			label = m.styles.Focused.Render(m.hints.Hint(name).Label)
		}
		fmt.Fprintf(&b, "%s  %s\n", label, m.flags(fs))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg := m.parseErrs[name]; msg != "" {
			b.WriteString(m.styles.Error.Render(msg))
			b.WriteString("\n")
		}
		for _, msg := range feedback.For(name) {
			b.WriteString(m.styles.Error.Render(msg))
			b.WriteString("\n")
		}
	}

	state := m.form.State()
	status := m.styles.Invalid.Render("invalid")
	if state.Valid {
		status = m.styles.Valid.Render("valid")
	}
	switch {
	case m.submitted:
		fmt.Fprintf(&b, "\nForm: %s · submitted\n", status)
	default:
		fmt.Fprintf(&b, "\nForm: %s · %s\n", status, pick(state.Pristine, "pristine", "dirty"))
	}
	b.WriteString(m.styles.Footer.Render("tab/shift+tab move · enter submit · ctrl+r reset · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) flags(fs formstate.FieldState) string {
	validity := m.styles.Valid.Render("valid")
	if fs.Invalid {
		validity = m.styles.Invalid.Render("invalid")
	}
	rest := m.styles.Muted.Render(pick(fs.Pristine, "pristine", "dirty") + " · " + pick(fs.Untouched, "untouched", "touched"))
	return validity + " · " + rest
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
