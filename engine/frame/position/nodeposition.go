package position

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// NodePositionStep is a snapshot of a single level of a layout cursor.
type NodePositionStep struct {
	Node              *html.Node
	ShadowType        ShadowType
	ShadowContext     *ShadowContext
	NodeShadow        *ShadowContext
	ShadowSibling     *NodePositionStep
	FormattingContext FormattingContext
	FragmentIndex     int
}

// NodePosition is a snapshot of a layout cursor. Steps are ordered from the
// outermost node (usually the document element) to the innermost one.
// OffsetInNode refers to the original, unprocessed text of the innermost
// node.
type NodePosition struct {
	Steps                   []NodePositionStep
	OffsetInNode            int
	After                   bool
	PreprocessedTextContent []Change
}

// Leaf returns the innermost step, or nil for an empty position.
func (np *NodePosition) Leaf() *NodePositionStep {
	if np == nil || len(np.Steps) == 0 {
		return nil
	}
	return &np.Steps[len(np.Steps)-1]
}

func (np *NodePosition) String() string {
	if np == nil {
		return "<nil>"
	}
	names := make([]string, len(np.Steps))
	for i, s := range np.Steps {
		names[i] = nodeName(s.Node)
	}
	after := ""
	if np.After {
		after = " after"
	}
	return fmt.Sprintf("pos[%s@%d%s]", strings.Join(names, "/"), np.OffsetInNode, after)
}

// ToNodePositionStep takes a snapshot of nc, without its ancestors.
func (nc *NodeContext) ToNodePositionStep() NodePositionStep {
	step := NodePositionStep{
		Node:              nc.SourceNode,
		ShadowType:        nc.ShadowType,
		ShadowContext:     nc.ShadowContext,
		NodeShadow:        nc.NodeShadow,
		FormattingContext: nc.FormattingContext,
		FragmentIndex:     nc.FragmentIndex,
	}
	if nc.ShadowSibling != nil {
		sib := nc.ShadowSibling.ToNodePositionStep()
		step.ShadowSibling = &sib
	}
	return step
}

// ToNodePosition takes a snapshot of the cursor nc.
//
// Wrappers created for ::first-letter and ::first-line are not recorded:
// a context is left out if it starts a first-pseudo scope, i.e. its
// first-pseudo record differs from its parent's.
func (nc *NodeContext) ToNodePosition() *NodePosition {
	var steps []NodePositionStep
	for c := nc; c != nil; c = c.Parent {
		if c.FirstPseudo == nil || c.Parent == nil || c.Parent.FirstPseudo == c.FirstPseudo {
			steps = append(steps, c.ToNodePositionStep())
		}
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	offset := nc.OffsetInNode
	if nc.PreprocessedTextContent != nil {
		offset = ResolveOriginalIndex(nc.PreprocessedTextContent, offset)
	}
	return &NodePosition{
		Steps:                   steps,
		OffsetInNode:            offset,
		After:                   nc.After,
		PreprocessedTextContent: nc.PreprocessedTextContent,
	}
}

// NewNodePositionFromNode creates a position at the start of node.
func NewNodePositionFromNode(node *html.Node) *NodePosition {
	return &NodePosition{
		Steps: []NodePositionStep{{Node: node, ShadowType: ShadowNone}},
	}
}

// NewNodePositionFromNodeContext creates a position at the start of the
// source node of nc, keeping its shadow context. If initialFragmentIndex is
// nil, nc's fragment index is used.
func NewNodePositionFromNodeContext(nc *NodeContext, initialFragmentIndex *int) *NodePosition {
	fragment := nc.FragmentIndex
	if initialFragmentIndex != nil {
		fragment = *initialFragmentIndex
	}
	return &NodePosition{
		Steps: []NodePositionStep{{
			Node:          nc.SourceNode,
			ShadowType:    ShadowNone,
			ShadowContext: nc.ShadowContext,
			FragmentIndex: fragment,
		}},
	}
}

// MakeNodeContextFromStep creates a cursor for resuming layout at step,
// below parent. The resumed node continues with the next fragment.
func MakeNodeContextFromStep(step *NodePositionStep, parent *NodeContext) *NodeContext {
	return fromStep(step, parent, 1)
}

func fromStep(step *NodePositionStep, parent *NodeContext, fragmentDelta int) *NodeContext {
	nc := NewNodeContext(step.Node, parent, 0)
	nc.ShadowType = step.ShadowType
	nc.ShadowContext = step.ShadowContext
	nc.NodeShadow = step.NodeShadow
	if step.ShadowSibling != nil {
		var sibParent *NodeContext
		if parent != nil {
			sibParent = parent.Copy()
		}
		nc.ShadowSibling = fromStep(step.ShadowSibling, sibParent, fragmentDelta)
	}
	nc.FormattingContext = step.FormattingContext
	nc.FragmentIndex = step.FragmentIndex + fragmentDelta
	return nc
}

// NodeContextFromPosition rebuilds a cursor from a snapshot. The result's
// ToNodePosition is the same position as np.
func NodeContextFromPosition(np *NodePosition) *NodeContext {
	var nc *NodeContext
	for i := range np.Steps {
		nc = fromStep(&np.Steps[i], nc, 0)
	}
	if nc == nil {
		return nil
	}
	nc.After = np.After
	nc.PreprocessedTextContent = np.PreprocessedTextContent
	nc.OffsetInNode = np.OffsetInNode
	if np.PreprocessedTextContent != nil {
		nc.OffsetInNode = ResolveNewIndex(np.PreprocessedTextContent, np.OffsetInNode)
	}
	return nc
}

// --- Comparison ------------------------------------------------------------

// IsSameNodePositionStep compares two steps structurally. Fragment indices
// and formatting contexts are not taken into account.
func IsSameNodePositionStep(a, b *NodePositionStep) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Node == b.Node &&
		a.ShadowType == b.ShadowType &&
		IsSameShadowContext(a.ShadowContext, b.ShadowContext) &&
		IsSameShadowContext(a.NodeShadow, b.NodeShadow) &&
		IsSameNodePositionStep(a.ShadowSibling, b.ShadowSibling)
}

// IsSameNodePosition compares two positions structurally.
func IsSameNodePosition(a, b *NodePosition) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.OffsetInNode != b.OffsetInNode || a.After != b.After || len(a.Steps) != len(b.Steps) {
		return false
	}
	for i := range a.Steps {
		if !IsSameNodePositionStep(&a.Steps[i], &b.Steps[i]) {
			return false
		}
	}
	return true
}
