package formstate

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Listener observes every successful transition.
type Listener func(action Action, state FieldsState)

// Form binds a Definition to a Host and exposes dispatch plus the derived
// views. The zero value is not usable; construct with New.
type Form struct {
	definition Definition
	host       Host
	logger     *zap.Logger
	extract    ValueExtractor

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// Option configures a Form.
type Option func(*formConfig)

type formConfig struct {
	host      HostFactory
	logger    *zap.Logger
	extract   ValueExtractor
	listeners []Listener
}

// WithHost swaps the in-memory host for a framework-provided one.
func WithHost(factory HostFactory) Option {
	return func(cfg *formConfig) {
		if factory != nil {
			cfg.host = factory
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *formConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithValueExtractor overrides how binding handlers read values off events.
func WithValueExtractor(fn ValueExtractor) Option {
	return func(cfg *formConfig) {
		if fn != nil {
			cfg.extract = fn
		}
	}
}

// WithListener registers a listener for the lifetime of the form.
func WithListener(fn Listener) Option {
	return func(cfg *formConfig) {
		if fn != nil {
			cfg.listeners = append(cfg.listeners, fn)
		}
	}
}

// New validates definition and builds a form seeded with its initial state.
func New(definition Definition, options ...Option) (*Form, error) {
	if err := definition.Validate(); err != nil {
		return nil, err
	}

	cfg := formConfig{
		host:    NewLocalHost,
		logger:  zap.NewNop(),
		extract: DefaultValueExtractor,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	def := definition.normalize()
	initial := InitialState(def)
	host := cfg.host(initial)
	if host == nil {
		return nil, errors.New("formstate: host factory returned nil")
	}

	f := &Form{
		definition: def,
		host:       host,
		logger:     cfg.logger,
		extract:    cfg.extract,
		listeners:  make(map[int]Listener),
	}
	for _, fn := range cfg.listeners {
		f.Subscribe(fn)
	}
	f.logInvalid(initial)
	return f, nil
}

// Definition returns the normalised definition the form was built from.
func (f *Form) Definition() Definition {
	return f.definition
}

// Fields returns the current snapshot.
func (f *Form) Fields() FieldsState {
	return f.host.Snapshot()
}

// Field returns the current state of one field.
func (f *Form) Field(name string) (FieldState, bool) {
	return f.host.Snapshot().Get(name)
}

// State returns the aggregate form flags for the current snapshot.
func (f *Form) State() FormState {
	return Aggregate(f.host.Snapshot())
}

// Data returns the current submittable payload.
func (f *Form) Data() map[string]any {
	return Data(f.host.Snapshot())
}

// Errors returns the captured validator failures keyed by field name.
func (f *Form) Errors() map[string]error {
	out := make(map[string]error)
	f.host.Snapshot().Each(func(name string, fs FieldState) {
		if fs.Err != nil {
			out[name] = fs.Err
		}
	})
	return out
}

// Dispatch applies action through the host and notifies listeners.
func (f *Form) Dispatch(action Action) error {
	var next FieldsState
	err := f.host.Apply(func(current FieldsState) (FieldsState, error) {
		reduced, err := Reduce(f.definition, current, action)
		if err != nil {
			return current, err
		}
		next = reduced
		return reduced, nil
	})
	if err != nil {
		f.logger.Debug("formstate: dispatch rejected", zap.Error(err))
		return err
	}

	f.logDispatch(action, next)
	f.notify(action, next)
	return nil
}

// Change dispatches a Change action.
func (f *Form) Change(field string, value any) error {
	return f.Dispatch(Change{Field: field, Value: value})
}

// Blur dispatches a Blur action.
func (f *Form) Blur(field string) error {
	return f.Dispatch(Blur{Field: field})
}

// Submit dispatches a Submit action.
func (f *Form) Submit() error {
	return f.Dispatch(Submit{})
}

// Reset dispatches a Reset action.
func (f *Form) Reset() error {
	return f.Dispatch(Reset{})
}

// Subscribe registers fn and returns a function that removes it.
func (f *Form) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *Form) notify(action Action, state FieldsState) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	sort.Ints(ids)
	for _, id := range ids {
		f.mu.Lock()
		fn, ok := f.listeners[id]
		f.mu.Unlock()
		if ok {
			fn(action, state)
		}
	}
}

func (f *Form) logDispatch(action Action, state FieldsState) {
	fields := []zap.Field{zap.String("action", string(action.Kind()))}
	if name, ok := fieldOf(action); ok {
		fs, _ := state.Get(name)
		fields = append(fields, zap.String("field", name), zap.Bool("valid", fs.Valid))
		if fs.Err != nil {
			f.logger.Warn("formstate: validator failed", append(fields, zap.Error(fs.Err))...)
			return
		}
	} else {
		fields = append(fields, zap.Bool("valid", Aggregate(state).Valid))
	}
	f.logger.Debug("formstate: dispatch", fields...)
}

func (f *Form) logInvalid(state FieldsState) {
	state.Each(func(name string, fs FieldState) {
		if fs.Err != nil {
			f.logger.Warn("formstate: validator failed", zap.String("field", name), zap.Error(fs.Err))
		}
	})
}

// Explain lists the validators the named field's current value fails.
func (f *Form) Explain(name string) ([]string, error) {
	def, ok := f.definition.Lookup(name)
	if !ok {
		return nil, &UnknownFieldError{Field: name}
	}
	fs, _ := f.Field(name)
	return Explain(def, fs.Value), nil
}
