package formstate

// ActionKind names an action variant.
type ActionKind string

const (
	ActionChange ActionKind = "change"
	ActionBlur   ActionKind = "blur"
	ActionSubmit ActionKind = "submit"
	ActionReset  ActionKind = "reset"
)

// Action is the closed set of transitions the reducer accepts: Change, Blur,
// Submit and Reset.
type Action interface {
	Kind() ActionKind
	action()
}

// Change replaces a field's value and recomputes its validity.
type Change struct {
	Field string
	Value any
}

// Blur marks a field as touched. Hosts fire it when a control loses focus.
type Blur struct {
	Field string
}

// Submit makes the current values the new baseline for dirty/touched
// tracking. Values and validity are kept.
type Submit struct{}

// Reset discards all edits and rebuilds the initial state.
type Reset struct{}

func (Change) Kind() ActionKind { return ActionChange }
func (Blur) Kind() ActionKind   { return ActionBlur }
func (Submit) Kind() ActionKind { return ActionSubmit }
func (Reset) Kind() ActionKind  { return ActionReset }

func (Change) action() {}
func (Blur) action()   {}
func (Submit) action() {}
func (Reset) action()  {}

// fieldOf returns the field an action targets, if any.
func fieldOf(a Action) (string, bool) {
	switch act := a.(type) {
	case Change:
		return act.Field, true
	case Blur:
		return act.Field, true
	default:
		return "", false
	}
}
