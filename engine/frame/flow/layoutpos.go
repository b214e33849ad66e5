package flow

import (
	"github.com/emirpasic/gods/maps/treemap"
	"golang.org/x/net/html"
)

// LayoutPosition is the state of pagination: the page index and, for each
// flow, the content still to be laid out.
//
// Flow positions are kept ordered by flow name, so iteration over flows is
// deterministic.
type LayoutPosition struct {
	Page              int              // index of the current page
	HighestSeenOffset int              // highest document offset reached by layout
	Flows             map[string]*Flow // shared between clones

	// Legacy lookup fields. They are carried by Clone, but neither compared
	// nor persisted.
	HighestSeenNode      *html.Node
	LookupPositionOffset int

	positions *treemap.Map // flow name -> *FlowPosition
}

// NewLayoutPosition creates a position for the first page.
func NewLayoutPosition() *LayoutPosition {
	return &LayoutPosition{
		Flows:     make(map[string]*Flow),
		positions: treemap.NewWithStringComparator(),
	}
}

// AddFlow registers a flow.
func (lp *LayoutPosition) AddFlow(f *Flow) {
	lp.Flows[f.Name] = f
}

// FlowPosition returns the position for flow name, or nil.
func (lp *LayoutPosition) FlowPosition(name string) *FlowPosition {
	if fp, found := lp.positions.Get(name); found {
		return fp.(*FlowPosition)
	}
	return nil
}

// SetFlowPosition sets the position for flow name.
func (lp *LayoutPosition) SetFlowPosition(name string, fp *FlowPosition) {
	lp.positions.Put(name, fp)
}

// RemoveFlowPosition drops flow name, which has no more content.
func (lp *LayoutPosition) RemoveFlowPosition(name string) {
	lp.positions.Remove(name)
}

// FlowNames returns the names of all flows with a position, in ascending order.
func (lp *LayoutPosition) FlowNames() []string {
	keys := lp.positions.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Clone copies the layout position. Flow positions are deep-copied, flows
// are shared.
func (lp *LayoutPosition) Clone() *LayoutPosition {
	c := &LayoutPosition{
		Page:                 lp.Page,
		HighestSeenOffset:    lp.HighestSeenOffset,
		Flows:                lp.Flows,
		HighestSeenNode:      lp.HighestSeenNode,
		LookupPositionOffset: lp.LookupPositionOffset,
		positions:            treemap.NewWithStringComparator(),
	}
	for _, name := range lp.FlowNames() {
		c.positions.Put(name, lp.FlowPosition(name).Clone())
	}
	return c
}

// IsSamePosition is true if page, highest seen offset and all flow
// positions agree.
func (lp *LayoutPosition) IsSamePosition(other *LayoutPosition) bool {
	if lp == other {
		return true
	}
	if other == nil || lp.Page != other.Page || lp.HighestSeenOffset != other.HighestSeenOffset {
		return false
	}
	if lp.positions.Size() != other.positions.Size() {
		return false
	}
	for _, name := range lp.FlowNames() {
		if !lp.FlowPosition(name).IsSamePosition(other.FlowPosition(name)) {
			return false
		}
	}
	return true
}

// HasContent is true if flow name has content starting at or before offset.
func (lp *LayoutPosition) HasContent(name string, offset int) bool {
	fp := lp.FlowPosition(name)
	return fp != nil && fp.HasContent(offset)
}

// StartSideOfFlow returns the page side flow name starts on, "any" if the
// flow is unknown.
func (lp *LayoutPosition) StartSideOfFlow(name string) string {
	if fp := lp.FlowPosition(name); fp != nil {
		return fp.StartSide
	}
	return "any"
}

// FirstFlowChunkOfFlow returns the first pending chunk of flow name, or nil.
func (lp *LayoutPosition) FirstFlowChunkOfFlow(name string) *FlowChunk {
	fp := lp.FlowPosition(name)
	if fp == nil {
		return nil
	}
	if first := fp.First(); first != nil {
		return first.FlowChunk
	}
	return nil
}
