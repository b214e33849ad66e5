package flow

import (
	"github.com/npillmayer/folio/engine/frame/position"
)

// ChunkPosition is the position within a chunk: the node position of the
// primary content, plus positions within floats which were deferred.
type ChunkPosition struct {
	Primary *position.NodePosition
	Floats  []*position.NodePosition // nil if no floats are pending
}

// NewChunkPosition creates a chunk position without pending floats.
func NewChunkPosition(primary *position.NodePosition) *ChunkPosition {
	return &ChunkPosition{Primary: primary}
}

// Clone copies cp. Node positions are immutable and therefore shared.
func (cp *ChunkPosition) Clone() *ChunkPosition {
	c := &ChunkPosition{Primary: cp.Primary}
	if cp.Floats != nil {
		c.Floats = make([]*position.NodePosition, len(cp.Floats))
		copy(c.Floats, cp.Floats)
	}
	return c
}

// IsSamePosition compares two chunk positions structurally. A missing float
// list is different from an empty one.
func (cp *ChunkPosition) IsSamePosition(other *ChunkPosition) bool {
	if other == nil {
		return false
	}
	if cp == other {
		return true
	}
	if !position.IsSameNodePosition(cp.Primary, other.Primary) {
		return false
	}
	if (cp.Floats == nil) != (other.Floats == nil) || len(cp.Floats) != len(other.Floats) {
		return false
	}
	for i := range cp.Floats {
		if !position.IsSameNodePosition(cp.Floats[i], other.Floats[i]) {
			return false
		}
	}
	return true
}

// FlowChunkPosition is a chunk together with the position inside it.
type FlowChunkPosition struct {
	ChunkPosition *ChunkPosition
	FlowChunk     *FlowChunk
}

// NewFlowChunkPosition creates a position within chunk.
func NewFlowChunkPosition(cp *ChunkPosition, chunk *FlowChunk) *FlowChunkPosition {
	return &FlowChunkPosition{ChunkPosition: cp, FlowChunk: chunk}
}

// Clone copies the chunk position. The chunk is shared.
func (fcp *FlowChunkPosition) Clone() *FlowChunkPosition {
	return &FlowChunkPosition{
		ChunkPosition: fcp.ChunkPosition.Clone(),
		FlowChunk:     fcp.FlowChunk,
	}
}

// IsSamePosition compares the start offsets of the chunks and the
// positions inside them.
func (fcp *FlowChunkPosition) IsSamePosition(other *FlowChunkPosition) bool {
	if other == nil {
		return false
	}
	if fcp == other {
		return true
	}
	if (fcp.FlowChunk == nil) != (other.FlowChunk == nil) {
		return false
	}
	if fcp.FlowChunk != nil && fcp.FlowChunk.StartOffset != other.FlowChunk.StartOffset {
		return false
	}
	return fcp.ChunkPosition.IsSamePosition(other.ChunkPosition)
}

// FlowPosition lists the chunks of a flow still to be laid out.
type FlowPosition struct {
	Positions  []*FlowChunkPosition
	StartSide  string // page side the flow has to start on, default "any"
	BreakAfter string
}

// NewFlowPosition creates an empty flow position.
func NewFlowPosition() *FlowPosition {
	return &FlowPosition{StartSide: "any"}
}

// Append adds a chunk position to the end of the list.
func (fp *FlowPosition) Append(fcp *FlowChunkPosition) {
	fp.Positions = append(fp.Positions, fcp)
}

// First returns the first pending chunk position, or nil.
func (fp *FlowPosition) First() *FlowChunkPosition {
	if len(fp.Positions) == 0 {
		return nil
	}
	return fp.Positions[0]
}

// Consume removes the first pending chunk position, which has been laid
// out completely.
func (fp *FlowPosition) Consume() *FlowChunkPosition {
	first := fp.First()
	if first != nil {
		fp.Positions = fp.Positions[1:]
	}
	return first
}

// Clone deep-copies the chunk positions.
func (fp *FlowPosition) Clone() *FlowPosition {
	c := &FlowPosition{
		Positions:  make([]*FlowChunkPosition, len(fp.Positions)),
		StartSide:  fp.StartSide,
		BreakAfter: fp.BreakAfter,
	}
	for i, p := range fp.Positions {
		c.Positions[i] = p.Clone()
	}
	return c
}

// IsSamePosition compares chunk positions pairwise.
func (fp *FlowPosition) IsSamePosition(other *FlowPosition) bool {
	if fp == other {
		return true
	}
	if other == nil || len(fp.Positions) != len(other.Positions) {
		return false
	}
	for i, p := range fp.Positions {
		if !p.IsSamePosition(other.Positions[i]) {
			return false
		}
	}
	return true
}

// HasContent is true if the flow has pending content starting at or before
// document offset.
func (fp *FlowPosition) HasContent(offset int) bool {
	return len(fp.Positions) > 0 && fp.Positions[0].FlowChunk.StartOffset <= offset
}
