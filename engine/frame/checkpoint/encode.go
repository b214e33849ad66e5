package checkpoint

import (
	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/dom/xpathadapter"
	"github.com/npillmayer/folio/engine/frame/flow"
	"github.com/npillmayer/folio/engine/frame/position"
	"golang.org/x/net/html"
)

type encoder struct {
	docs   map[*html.Node]string // document node -> URL
	chunks map[*flow.FlowChunk]int
	rec    *LayoutRecord
}

// Encode converts a layout position into a record. All nodes referenced by
// lp have to be part of one of docs.
func Encode(lp *flow.LayoutPosition, docs ...*position.Document) (*LayoutRecord, error) {
	enc := &encoder{
		docs:   make(map[*html.Node]string, len(docs)),
		chunks: make(map[*flow.FlowChunk]int),
		rec: &LayoutRecord{
			Page:              lp.Page,
			HighestSeenOffset: lp.HighestSeenOffset,
		},
	}
	for _, d := range docs {
		enc.docs[d.Root] = d.URL
	}
	for _, name := range sortedFlowNames(lp.Flows) {
		f := lp.Flows[name]
		fr := FlowRecord{Name: f.Name, Parent: f.ParentName}
		if len(f.ForcedBreakOffsets) > 0 {
			fr.ForcedBreaks = append([]int(nil), f.ForcedBreakOffsets...)
		}
		if f.FormattingContext != nil {
			fr.FormattingContext = f.FormattingContext.Name()
		}
		enc.rec.Flows = append(enc.rec.Flows, fr)
	}
	for _, name := range lp.FlowNames() {
		fpr, err := enc.flowPosition(name, lp.FlowPosition(name))
		if err != nil {
			return nil, err
		}
		enc.rec.Positions = append(enc.rec.Positions, fpr)
	}
	tracer().Debugf("encoded layout position of page %d: %d flows, %d chunks",
		lp.Page, len(enc.rec.Positions), len(enc.rec.Chunks))
	return enc.rec, nil
}

func (enc *encoder) flowPosition(name string, fp *flow.FlowPosition) (FlowPositionRecord, error) {
	fpr := FlowPositionRecord{
		Flow:       name,
		StartSide:  fp.StartSide,
		BreakAfter: fp.BreakAfter,
	}
	for _, fcp := range fp.Positions {
		cr := ChunkRecord{}
		var err error
		if cr.Chunk, err = enc.chunk(fcp.FlowChunk); err != nil {
			return fpr, err
		}
		if cp := fcp.ChunkPosition; cp != nil {
			if cr.Primary, err = enc.nodePosition(cp.Primary); err != nil {
				return fpr, err
			}
			if cp.Floats != nil {
				cr.HasFloats = true
				for _, np := range cp.Floats {
					npr, err := enc.nodePosition(np)
					if err != nil {
						return fpr, err
					}
					cr.Floats = append(cr.Floats, npr)
				}
			}
		}
		fpr.Chunks = append(fpr.Chunks, cr)
	}
	return fpr, nil
}

func (enc *encoder) chunk(chunk *flow.FlowChunk) (int, error) {
	if chunk == nil {
		return -1, core.Error(core.EINVALID, "flow chunk position without chunk")
	}
	if i, ok := enc.chunks[chunk]; ok {
		return i, nil
	}
	elem, err := enc.nodeRef(chunk.Element)
	if err != nil {
		return -1, err
	}
	enc.rec.Chunks = append(enc.rec.Chunks, FlowChunkRecord{
		Flow:        chunk.FlowName,
		Element:     elem,
		StartOffset: chunk.StartOffset,
		Priority:    chunk.Priority,
		Linger:      chunk.Linger,
		Exclusive:   chunk.Exclusive,
		Repeated:    chunk.Repeated,
		Last:        chunk.Last,
		StartPage:   chunk.StartPage,
		BreakBefore: chunk.BreakBefore,
	})
	i := len(enc.rec.Chunks) - 1
	enc.chunks[chunk] = i
	return i, nil
}

func (enc *encoder) nodePosition(np *position.NodePosition) (*NodePositionRecord, error) {
	if np == nil {
		return nil, nil
	}
	npr := &NodePositionRecord{
		OffsetInNode: np.OffsetInNode,
		After:        np.After,
		Steps:        make([]StepRecord, len(np.Steps)),
	}
	for i := range np.Steps {
		sr, err := enc.step(&np.Steps[i])
		if err != nil {
			return nil, err
		}
		npr.Steps[i] = *sr
	}
	for _, c := range np.PreprocessedTextContent {
		npr.Preprocessed = append(npr.Preprocessed, ChangeRecord{Op: int(c.Op), Text: c.Text})
	}
	return npr, nil
}

// step encodes a step. Shadow contexts are encoded first, as they make
// their documents known to the encoder.
func (enc *encoder) step(step *position.NodePositionStep) (*StepRecord, error) {
	shadow, err := enc.shadow(step.ShadowContext)
	if err != nil {
		return nil, err
	}
	nodeShadow, err := enc.shadow(step.NodeShadow)
	if err != nil {
		return nil, err
	}
	ref, err := enc.nodeRef(step.Node)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, core.Error(core.EINVALID, "node position step without node")
	}
	sr := &StepRecord{
		Node:          *ref,
		Shadow:        shadow,
		NodeShadow:    nodeShadow,
		FragmentIndex: step.FragmentIndex,
	}
	if step.ShadowType != position.ShadowNone {
		sr.ShadowType = step.ShadowType.String()
	}
	if step.ShadowSibling != nil {
		if sr.ShadowSibling, err = enc.step(step.ShadowSibling); err != nil {
			return nil, err
		}
	}
	if step.FormattingContext != nil {
		sr.FormattingContext = step.FormattingContext.Name()
	}
	return sr, nil
}

func (enc *encoder) shadow(sc *position.ShadowContext) (*ShadowRecord, error) {
	if sc == nil {
		return nil, nil
	}
	rec := &ShadowRecord{Type: sc.Type.String()}
	if sc.Doc != nil {
		rec.Doc = sc.Doc.URL
		if _, ok := enc.docs[sc.Doc.Root]; !ok && sc.Doc.Root != nil {
			enc.docs[sc.Doc.Root] = sc.Doc.URL
		}
	}
	var err error
	if rec.Owner, err = enc.nodeRef(sc.Owner); err != nil {
		return nil, err
	}
	if rec.Root, err = enc.nodeRef(sc.Root); err != nil {
		return nil, err
	}
	if rec.Parent, err = enc.shadow(sc.ParentShadow); err != nil {
		return nil, err
	}
	return rec, nil
}

func (enc *encoder) nodeRef(n *html.Node) (*NodeRef, error) {
	if n == nil {
		return nil, nil
	}
	top := n
	for top.Parent != nil {
		top = top.Parent
	}
	url, ok := enc.docs[top]
	if !ok {
		return nil, core.Error(core.EINVALID, "node %s is not part of a known document",
			xpathadapter.PathOf(n))
	}
	return &NodeRef{Doc: url, Path: xpathadapter.PathOf(n)}, nil
}
