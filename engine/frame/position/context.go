package position

// FormattingContext is a layout context established by a box, such as a
// block formatting context, a table or a flex container. Formatting
// contexts are implemented by layout code; this package only links node
// contexts to them.
type FormattingContext interface {
	Name() string
	// IsFirstTime tells whether nc is visited for the first time within
	// this context. firstTime is the answer of the layout process itself.
	IsFirstTime(nc *NodeContext, firstTime bool) bool
	Parent() FormattingContext
	// SaveState and RestoreState allow undoing speculative layout.
	SaveState() interface{}
	RestoreState(state interface{})
}

// EachAncestorFormattingContext calls fn for the formatting context of nc
// and all of its parent contexts, innermost first.
func EachAncestorFormattingContext(nc *NodeContext, fn func(FormattingContext)) {
	if nc == nil {
		return
	}
	for fc := nc.FormattingContext; fc != nil; fc = fc.Parent() {
		fn(fc)
	}
}

// --- Backtracking ----------------------------------------------------------

// Backtrack is a mark set before a speculative layout attempt. It holds a
// frozen layout cursor and the states of all formatting contexts enclosing
// it.
type Backtrack struct {
	position *NodeContext
	states   []savedState
}

type savedState struct {
	fc    FormattingContext
	state interface{}
}

// Mark freezes nc (see NodeContext.Copy) and saves the state of its
// formatting contexts.
func Mark(nc *NodeContext) *Backtrack {
	b := &Backtrack{}
	if nc == nil {
		return b
	}
	b.position = nc.Copy()
	EachAncestorFormattingContext(nc, func(fc FormattingContext) {
		b.states = append(b.states, savedState{fc: fc, state: fc.SaveState()})
	})
	tracer().Debugf("backtrack mark at %v with %d formatting context(s)", nc, len(b.states))
	return b
}

// Position returns the frozen cursor.
func (b *Backtrack) Position() *NodeContext {
	return b.position
}

// Attempt returns a private, mutable copy of the frozen cursor's leaf.
func (b *Backtrack) Attempt() *NodeContext {
	if b.position == nil {
		return nil
	}
	return b.position.Modify()
}

// Restore resets all saved formatting contexts, outermost first, and
// returns the frozen cursor.
func (b *Backtrack) Restore() *NodeContext {
	for i := len(b.states) - 1; i >= 0; i-- {
		b.states[i].fc.RestoreState(b.states[i].state)
	}
	tracer().Debugf("backtracked to %v", b.position)
	return b.position
}
