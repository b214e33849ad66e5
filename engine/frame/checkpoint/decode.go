package checkpoint

import (
	"fmt"
	"sort"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/dom/xpathadapter"
	"github.com/npillmayer/folio/engine/frame/flow"
	"github.com/npillmayer/folio/engine/frame/position"
	"golang.org/x/net/html"
)

// Decoder rebuilds layout positions from records.
type Decoder struct {
	Documents map[string]*position.Document // by URL
	Main      *position.Document            // used for node references without URL
	// FormattingContexts maps names of formatting contexts to live ones.
	// If nil, decoded positions carry no formatting contexts.
	FormattingContexts func(name string) position.FormattingContext
	// Stylers provides stylers for decoded shadow contexts. May be nil.
	Stylers func(*position.ShadowContext) position.Styler
}

type decoding struct {
	*Decoder
	chunks  []*flow.FlowChunk
	shadows map[string]*position.ShadowContext
}

// Decode rebuilds a layout position. Decoding a record of a position p
// yields a position q with p.IsSamePosition(q).
func (dec *Decoder) Decode(rec *LayoutRecord) (*flow.LayoutPosition, error) {
	if rec == nil {
		return nil, core.Error(core.EINVALID, "cannot decode nil record")
	}
	d := &decoding{
		Decoder: dec,
		chunks:  make([]*flow.FlowChunk, len(rec.Chunks)),
		shadows: make(map[string]*position.ShadowContext),
	}
	lp := flow.NewLayoutPosition()
	lp.Page = rec.Page
	lp.HighestSeenOffset = rec.HighestSeenOffset
	for _, fr := range rec.Flows {
		f := flow.NewFlow(fr.Name, fr.Parent)
		for _, off := range fr.ForcedBreaks {
			f.AddForcedBreak(off)
		}
		f.FormattingContext = d.formattingContext(fr.FormattingContext)
		lp.AddFlow(f)
	}
	for i := range rec.Chunks {
		chunk, err := d.chunk(&rec.Chunks[i])
		if err != nil {
			return nil, err
		}
		d.chunks[i] = chunk
	}
	for _, fpr := range rec.Positions {
		fp, err := d.flowPosition(&fpr)
		if err != nil {
			return nil, err
		}
		lp.SetFlowPosition(fpr.Flow, fp)
	}
	return lp, nil
}

func (d *decoding) formattingContext(name string) position.FormattingContext {
	if name == "" || d.FormattingContexts == nil {
		return nil
	}
	return d.FormattingContexts(name)
}

func (d *decoding) chunk(cr *FlowChunkRecord) (*flow.FlowChunk, error) {
	elem, err := d.node(cr.Element)
	if err != nil {
		return nil, err
	}
	chunk := flow.NewFlowChunk(cr.Flow, elem, cr.StartOffset, cr.Priority, cr.Linger,
		cr.Exclusive, cr.Repeated, cr.Last, cr.BreakBefore)
	chunk.StartPage = cr.StartPage
	return chunk, nil
}

func (d *decoding) flowPosition(fpr *FlowPositionRecord) (*flow.FlowPosition, error) {
	fp := flow.NewFlowPosition()
	if fpr.StartSide != "" {
		fp.StartSide = fpr.StartSide
	}
	fp.BreakAfter = fpr.BreakAfter
	for _, cr := range fpr.Chunks {
		if cr.Chunk < 0 || cr.Chunk >= len(d.chunks) {
			return nil, core.Error(core.EINVALID, "flow %s references chunk %d of %d",
				fpr.Flow, cr.Chunk, len(d.chunks))
		}
		primary, err := d.nodePosition(cr.Primary)
		if err != nil {
			return nil, err
		}
		cp := flow.NewChunkPosition(primary)
		if cr.HasFloats || len(cr.Floats) > 0 {
			cp.Floats = make([]*position.NodePosition, 0, len(cr.Floats))
			for _, npr := range cr.Floats {
				np, err := d.nodePosition(npr)
				if err != nil {
					return nil, err
				}
				cp.Floats = append(cp.Floats, np)
			}
		}
		fp.Append(flow.NewFlowChunkPosition(cp, d.chunks[cr.Chunk]))
	}
	return fp, nil
}

func (d *decoding) nodePosition(npr *NodePositionRecord) (*position.NodePosition, error) {
	if npr == nil {
		return nil, nil
	}
	np := &position.NodePosition{
		Steps:        make([]position.NodePositionStep, len(npr.Steps)),
		OffsetInNode: npr.OffsetInNode,
		After:        npr.After,
	}
	for i := range npr.Steps {
		step, err := d.step(&npr.Steps[i])
		if err != nil {
			return nil, err
		}
		np.Steps[i] = *step
	}
	for _, c := range npr.Preprocessed {
		if c.Op < -1 || c.Op > 1 {
			return nil, core.Error(core.EINVALID, "illegal text change operation %d", c.Op)
		}
		np.PreprocessedTextContent = append(np.PreprocessedTextContent,
			position.Change{Op: position.ChangeOp(c.Op), Text: c.Text})
	}
	return np, nil
}

func (d *decoding) step(sr *StepRecord) (*position.NodePositionStep, error) {
	node, err := d.node(&sr.Node)
	if err != nil {
		return nil, err
	}
	step := &position.NodePositionStep{
		Node:              node,
		FragmentIndex:     sr.FragmentIndex,
		FormattingContext: d.formattingContext(sr.FormattingContext),
	}
	if sr.ShadowType != "" {
		if step.ShadowType, err = position.ParseShadowType(sr.ShadowType); err != nil {
			return nil, err
		}
	}
	if step.ShadowContext, err = d.shadow(sr.Shadow); err != nil {
		return nil, err
	}
	if step.NodeShadow, err = d.shadow(sr.NodeShadow); err != nil {
		return nil, err
	}
	if sr.ShadowSibling != nil {
		if step.ShadowSibling, err = d.step(sr.ShadowSibling); err != nil {
			return nil, err
		}
	}
	return step, nil
}

// shadow decodes a shadow record. Equal records decode to the same shadow
// context.
func (d *decoding) shadow(rec *ShadowRecord) (*position.ShadowContext, error) {
	if rec == nil {
		return nil, nil
	}
	key := shadowKey(rec)
	if sc, ok := d.shadows[key]; ok {
		return sc, nil
	}
	typ, err := position.ParseShadowType(rec.Type)
	if err != nil {
		return nil, err
	}
	parent, err := d.shadow(rec.Parent)
	if err != nil {
		return nil, err
	}
	owner, err := d.node(rec.Owner)
	if err != nil {
		return nil, err
	}
	root, err := d.node(rec.Root)
	if err != nil {
		return nil, err
	}
	var doc *position.Document
	if rec.Doc != "" {
		if doc, err = d.document(rec.Doc); err != nil {
			return nil, err
		}
	}
	sc := position.NewShadowContext(owner, root, doc, parent, nil, typ, nil)
	if d.Stylers != nil {
		sc.Styler = d.Stylers(sc)
	}
	d.shadows[key] = sc
	return sc, nil
}

func shadowKey(rec *ShadowRecord) string {
	if rec == nil {
		return ""
	}
	ref := func(r *NodeRef) string {
		if r == nil {
			return "-"
		}
		return r.Doc + "#" + r.Path
	}
	return fmt.Sprintf("%s|%s|%s|%s|(%s)", rec.Type, rec.Doc, ref(rec.Owner), ref(rec.Root),
		shadowKey(rec.Parent))
}

func (d *decoding) document(url string) (*position.Document, error) {
	if url == "" || (d.Main != nil && d.Main.URL == url) {
		if d.Main == nil {
			return nil, core.Error(core.EMISSING, "no main document to resolve against")
		}
		return d.Main, nil
	}
	if doc, ok := d.Documents[url]; ok {
		return doc, nil
	}
	return nil, core.Error(core.EMISSING, "document %q is not loaded", url)
}

func (d *decoding) node(ref *NodeRef) (*html.Node, error) {
	if ref == nil {
		return nil, nil
	}
	doc, err := d.document(ref.Doc)
	if err != nil {
		return nil, err
	}
	n, err := xpathadapter.Resolve(doc.Root, ref.Path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot resolve node %s in %s",
			ref.Path, ref.Doc)
	}
	return n, nil
}

func sortedFlowNames(flows map[string]*flow.Flow) []string {
	names := make([]string, 0, len(flows))
	for name := range flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
