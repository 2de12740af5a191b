package listeners

// ToggleState is the state of a toggle control.
type ToggleState int

const (
	Unchecked ToggleState = iota
	Checked
	Indeterminate
)

func (s ToggleState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Next returns the state a toggle moves to from s. Indeterminate always
// lands on Checked.
func (s ToggleState) Next() ToggleState {
	switch s {
	case Unchecked, Indeterminate:
		return Checked
	default:
		return Unchecked
	}
}

// Toggler is a control driven by a Toggle transaction.
type Toggler interface {
	// ToggleState returns the committed state.
	ToggleState() ToggleState
	// ToggleDisabled reports whether toggling is currently refused.
	ToggleDisabled() bool
	// CommitToggle writes next to the control's attributes.
	CommitToggle(next ToggleState)
	// ToggleCommitted runs after the commit, typically to dispatch the
	// change event.
	ToggleCommitted(next ToggleState)
}

// Toggle runs toggle transactions for one control. A toggle requested while
// another is in progress is ignored.
type Toggle struct {
	active bool
}

// Run performs begin, validate, flip and commit against t. It returns the new
// state and whether the toggle happened.
func (g *Toggle) Run(t Toggler) (ToggleState, bool) {
	if g.active {
		return t.ToggleState(), false
	}
	g.active = true
	defer func() { g.active = false }()

	if t.ToggleDisabled() {
		return t.ToggleState(), false
	}
	next := t.ToggleState().Next()
	t.CommitToggle(next)
	t.ToggleCommitted(next)
	return next, true
}

// Active reports whether a transaction is in progress.
func (g *Toggle) Active() bool { return g.active }
