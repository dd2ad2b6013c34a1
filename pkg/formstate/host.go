package formstate

import "sync"

// Host owns the current snapshot across renders. UI integrations supply their
// own implementation when the framework already keeps component state; Form
// only needs to read the snapshot and apply a transition to it.
type Host interface {
	Snapshot() FieldsState
	// Apply runs transition against the current snapshot and stores the
	// result unless transition returns an error.
	Apply(transition func(current FieldsState) (FieldsState, error)) error
}

// HostFactory builds a Host seeded with the form's initial state.
type HostFactory func(initial FieldsState) Host

// LocalHost is the default in-memory Host. Apply calls are serialised so a
// single form can be shared between goroutines, each transition still being
// a complete, synchronous step.
type LocalHost struct {
	mu    sync.Mutex
	state FieldsState
}

// NewLocalHost returns a LocalHost holding initial.
func NewLocalHost(initial FieldsState) Host {
	return &LocalHost{state: initial}
}

func (h *LocalHost) Snapshot() FieldsState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *LocalHost) Apply(transition func(current FieldsState) (FieldsState, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	next, err := transition(h.state)
	if err != nil {
		return err
	}
	h.state = next
	return nil
}
