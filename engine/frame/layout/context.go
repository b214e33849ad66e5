package layout

import (
	"context"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/position"
	"golang.org/x/net/html"
)

// LayoutContext walks a source tree and builds the view tree of a page.
// Implementations are provided by the rendering backend.
//
// Methods which may have to wait for resources (style sheets, images,
// fonts) take a context.
type LayoutContext interface {
	// Clone creates a layout context for another page.
	Clone() LayoutContext
	// SetCurrent sets the cursor to nc, creating view nodes as necessary.
	// It reports whether nc has to be processed, i.e. is not skipped.
	SetCurrent(ctx context.Context, nc *position.NodeContext, firstTime bool,
		atUnforcedBreak bool) (bool, error)
	// SetViewRoot sets the parent for top-level view nodes.
	SetViewRoot(viewRoot *html.Node, isFootnote bool)
	// NextInTree moves the cursor one step in document order. It returns
	// nil at the end of the tree.
	NextInTree(ctx context.Context, nc *position.NodeContext,
		atUnforcedBreak bool) (*position.NodeContext, error)
	ApplyPseudoelementStyle(nc *position.NodeContext, pseudo string, target *html.Node)
	ApplyFootnoteStyle(vertical bool, rtl bool, target *html.Node) bool
	// PeelOff splits nc at a rune offset into its text and returns the cursor
	// for the second part.
	PeelOff(ctx context.Context, nc *position.NodeContext, offset int) (*position.NodeContext, error)
	ProcessFragmentedBlockEdge(nc *position.NodeContext)
	ConvertLengthToPx(value string, unitSize dimen.Dimen, client frame.ClientLayout) (dimen.Dimen, error)
	IsSameNodePosition(a, b *position.NodePosition) bool
	AddEventListener(typ string, l Listener) ListenerID
	RemoveEventListener(id ListenerID)
	DispatchEvent(e *Event)
}

// NextNonIgnorable advances nc like LayoutContext.NextInTree, skipping
// text nodes which are ignorable under the whitespace mode of their
// context. Unset whitespace modes are treated as collapsing.
func NextNonIgnorable(ctx context.Context, lc LayoutContext, nc *position.NodeContext,
	atUnforcedBreak bool) (*position.NodeContext, error) {
	//
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := lc.NextInTree(ctx, nc, atUnforcedBreak)
		if err != nil || next == nil {
			return next, err
		}
		if !ignorable(next) {
			return next, nil
		}
		nc = next
	}
}

func ignorable(nc *position.NodeContext) bool {
	if nc.SourceNode == nil || nc.After {
		return false
	}
	if nc.SourceNode.Type != html.TextNode {
		return false
	}
	ws := nc.Whitespace
	if ws == position.WhitespaceUnset {
		ws = position.WhitespaceIgnore
	}
	return position.CanIgnore(nc.SourceNode, ws)
}

// --- Block Formatting Context ----------------------------------------------

// https://developer.mozilla.org/en-US/docs/Web/Guide/CSS/Block_formatting_context

// BlockContext establishes a CSS block formatting context.
//
// A new BFC will behave much like the outermost document in that it becomes a
// mini-layout inside the main layout. Floats and clearance only apply to
// items inside the same formatting context.
//
// BlockContext keeps track of the floats placed within it. Its state, as
// saved for backtracking, is the number of floats placed.
type BlockContext struct {
	Container *frame.Container
	Floats    []*html.Node
	parent    position.FormattingContext
	name      string
}

var _ position.FormattingContext = (*BlockContext)(nil)

// NewBlockContext creates a block formatting context for a container.
// parent may be nil for the root context.
func NewBlockContext(name string, c *frame.Container, parent position.FormattingContext) *BlockContext {
	return &BlockContext{
		Container: c,
		parent:    parent,
		name:      name,
	}
}

// Block returns fc as a block context, panicking if it is not.
func Block(fc position.FormattingContext) *BlockContext {
	if block, ok := fc.(*BlockContext); ok {
		return block
	}
	panic("context is not a block context")
}

func (bc *BlockContext) Name() string { return bc.name }

func (bc *BlockContext) IsFirstTime(nc *position.NodeContext, firstTime bool) bool {
	return firstTime
}

func (bc *BlockContext) Parent() position.FormattingContext {
	if bc.parent == nil {
		return nil
	}
	return bc.parent
}

// AddFloat records a float placed within this context.
func (bc *BlockContext) AddFloat(f *html.Node) {
	bc.Floats = append(bc.Floats, f)
}

func (bc *BlockContext) SaveState() interface{} {
	return len(bc.Floats)
}

func (bc *BlockContext) RestoreState(state interface{}) {
	n, ok := state.(int)
	if !ok || n > len(bc.Floats) {
		tracer().Errorf("block context %s: cannot restore state %v", bc.name, state)
		return
	}
	for i := n; i < len(bc.Floats); i++ {
		bc.Floats[i] = nil
	}
	bc.Floats = bc.Floats[:n]
}
