package flow

import (
	"fmt"
	"sort"

	"github.com/npillmayer/folio/engine/frame/position"
	"golang.org/x/net/html"
)

// Flow is a named stream of content.
type Flow struct {
	Name               string
	ParentName         string // flow this one is nested in, if any
	ForcedBreakOffsets []int  // document offsets of forced breaks, ascending
	FormattingContext  position.FormattingContext
}

// NewFlow creates an empty flow.
func NewFlow(name, parentName string) *Flow {
	return &Flow{Name: name, ParentName: parentName}
}

// AddForcedBreak records a forced break at a document offset.
func (f *Flow) AddForcedBreak(offset int) {
	i := sort.SearchInts(f.ForcedBreakOffsets, offset)
	if i < len(f.ForcedBreakOffsets) && f.ForcedBreakOffsets[i] == offset {
		return
	}
	f.ForcedBreakOffsets = append(f.ForcedBreakOffsets, 0)
	copy(f.ForcedBreakOffsets[i+1:], f.ForcedBreakOffsets[i:])
	f.ForcedBreakOffsets[i] = offset
}

// HasForcedBreakBetween is true if a forced break lies in (from, to].
func (f *Flow) HasForcedBreakBetween(from, to int) bool {
	i := sort.SearchInts(f.ForcedBreakOffsets, from+1)
	return i < len(f.ForcedBreakOffsets) && f.ForcedBreakOffsets[i] <= to
}

// FlowChunk is an element assigned to a flow.
type FlowChunk struct {
	FlowName    string
	Element     *html.Node
	StartOffset int // document offset of the chunk
	Priority    int
	Linger      int  // number of pages a repeated chunk stays
	Exclusive   bool // competes with other exclusive chunks for a container
	Repeated    bool // is repeated on subsequent pages
	Last        bool // wins ties against other exclusive chunks
	StartPage   int  // page the chunk first appeared on, -1 if not yet placed
	BreakBefore string
}

// NewFlowChunk creates a chunk which has not been placed on a page yet.
func NewFlowChunk(flowName string, element *html.Node, startOffset, priority,
	linger int, exclusive, repeated, last bool, breakBefore string) *FlowChunk {
	//
	return &FlowChunk{
		FlowName:    flowName,
		Element:     element,
		StartOffset: startOffset,
		Priority:    priority,
		Linger:      linger,
		Exclusive:   exclusive,
		Repeated:    repeated,
		Last:        last,
		StartPage:   -1,
		BreakBefore: breakBefore,
	}
}

// IsBetter decides if chunk should be preferred over other when both
// compete for a container. Only exclusive chunks can be better; an exclusive
// chunk beats a non-exclusive one, otherwise higher priority wins. For equal
// priority, a chunk flagged Last beats one which is not.
func (chunk *FlowChunk) IsBetter(other *FlowChunk) bool {
	if !chunk.Exclusive {
		return false
	}
	if !other.Exclusive {
		return true
	}
	if chunk.Priority != other.Priority {
		return chunk.Priority > other.Priority
	}
	return chunk.Last && !other.Last
}

func (chunk *FlowChunk) String() string {
	return fmt.Sprintf("chunk[%s@%d p=%d]", chunk.FlowName, chunk.StartOffset, chunk.Priority)
}

// BestChunk returns the chunk preferred by IsBetter, scanning candidates in
// order. Earlier candidates win if none is better.
func BestChunk(candidates []*FlowChunk) *FlowChunk {
	var best *FlowChunk
	for _, c := range candidates {
		if best == nil || c.IsBetter(best) {
			best = c
		}
	}
	if best != nil {
		tracer().Debugf("best of %d chunks is %v", len(candidates), best)
	}
	return best
}

// SelectChunks orders candidates best first, as decided by IsBetter.
// Candidates of equal rank keep their relative order. candidates is not
// modified.
func SelectChunks(candidates []*FlowChunk) []*FlowChunk {
	selected := make([]*FlowChunk, len(candidates))
	copy(selected, candidates)
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].IsBetter(selected[j])
	})
	if len(selected) > 0 {
		tracer().Debugf("selected %v out of %d chunks", selected[0], len(selected))
	}
	return selected
}

// SortChunks orders chunks by document offset. Chunks with equal offset
// keep their relative order.
func SortChunks(chunks []*FlowChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].StartOffset < chunks[j].StartOffset
	})
}
