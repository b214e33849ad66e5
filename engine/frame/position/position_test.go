package position

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/bidi"
)

type testFC struct {
	name   string
	parent *testFC
	state  int
}

func (fc *testFC) Name() string { return fc.name }

func (fc *testFC) IsFirstTime(nc *NodeContext, firstTime bool) bool { return firstTime }

func (fc *testFC) Parent() FormattingContext {
	if fc.parent == nil {
		return nil
	}
	return fc.parent
}

func (fc *testFC) SaveState() interface{} { return fc.state }

func (fc *testFC) RestoreState(s interface{}) { fc.state = s.(int) }

var _ FormattingContext = &testFC{}

// chain parses a document and returns node contexts for html, body, p and
// the text node inside p.
func chain(t *testing.T) (*html.Node, []*NodeContext) {
	doc, err := html.Parse(strings.NewReader(`<html><body><p>Hello  world</p></body></html>`))
	require.NoError(t, err)
	htmlEl := doc.FirstChild
	body := htmlEl.LastChild
	p := body.FirstChild
	text := p.FirstChild
	require.Equal(t, "p", p.Data)
	require.Equal(t, html.TextNode, text.Type)
	root := NewNodeContext(htmlEl, nil, 0)
	b := NewNodeContext(body, root, 1)
	pc := NewNodeContext(p, b, 0)
	tc := NewNodeContext(text, pc, 0)
	return doc, []*NodeContext{root, b, pc, tc}
}

func TestInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	ncs[0].Vertical = true
	ncs[0].BreakPenalty = 3
	ncs[0].InheritedProps["color"] = "red"
	child := NewNodeContext(ncs[1].SourceNode, ncs[0], 0)
	assert.True(t, child.Vertical)
	assert.Equal(t, 3, child.BreakPenalty)
	assert.Equal(t, "red", child.InheritedProps["color"])
	assert.Equal(t, "baseline", child.VerticalAlign)
	assert.Equal(t, "top", child.CaptionSide)
	assert.Equal(t, 1, child.FragmentIndex)
	assert.True(t, child.Inline)
}

func TestCopyOnWrite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	leaf := ncs[3]
	assert.Same(t, leaf, leaf.Modify(), "unshared context is modified in place")
	leaf.OffsetInNode = 3
	saved := leaf.Copy()
	assert.Same(t, leaf, saved)
	for _, nc := range ncs {
		assert.True(t, nc.IsShared())
	}
	work := saved.Modify()
	require.NotSame(t, saved, work)
	assert.False(t, work.IsShared())
	assert.Same(t, saved.Parent, work.Parent)
	work.OffsetInNode = 7
	work.PluginProps["x"] = 1
	assert.Equal(t, 3, saved.OffsetInNode)
	assert.NotContains(t, saved.PluginProps, "x")
	assert.Equal(t, 3, saved.ToNodePosition().OffsetInNode)
}

func TestCopyOnWriteOfAncestors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	for i, nc := range ncs {
		nc.OffsetInNode = i
	}
	saved := ncs[3].Copy()
	before := saved.ToNodePosition()
	for p := saved; p != nil; p = p.Parent {
		work := p.Modify()
		require.NotSame(t, p, work)
		work.OffsetInNode = 42
		work.After = true
		work.Inline = false
		work.PluginProps["x"] = 1
	}
	for i, p := 3, saved; p != nil; i, p = i-1, p.Parent {
		assert.Same(t, ncs[i], p)
		assert.True(t, p.IsShared())
		assert.Equal(t, i, p.OffsetInNode)
		assert.False(t, p.After)
		assert.True(t, p.Inline)
		assert.NotContains(t, p.PluginProps, "x")
	}
	assert.True(t, IsSameNodePosition(before, saved.ToNodePosition()))
}

func TestResetView(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	assert.Equal(t, WhitespaceIgnore, ncs[0].Whitespace, "root ignores whitespace")
	assert.False(t, CanIgnore(ncs[3].SourceNode, ncs[0].Whitespace))
	pre := ncs[2]
	pre.Whitespace = WhitespacePreserve
	pre.BreakPenalty = 2
	pre.Vertical = true
	fc := &testFC{name: "block"}
	pre.FormattingContext = fc
	leaf := ncs[3]
	leaf.OffsetInNode = 5
	leaf.After = true
	leaf.FragmentIndex = 3
	leaf.NodeShadow = &ShadowContext{}
	leaf.PreprocessedTextContent = DiffText("a  b", "a b")
	leaf.RepeatOnBreak = true
	leaf.EstablishesBFC = true
	leaf.ResetView()
	assert.Equal(t, WhitespacePreserve, leaf.Whitespace)
	assert.Equal(t, 2, leaf.BreakPenalty)
	assert.True(t, leaf.Vertical)
	assert.Same(t, fc, leaf.FormattingContext)
	assert.Equal(t, 0, leaf.OffsetInNode)
	assert.False(t, leaf.After)
	assert.Equal(t, 1, leaf.FragmentIndex)
	assert.Nil(t, leaf.NodeShadow)
	assert.Nil(t, leaf.PreprocessedTextContent)
	assert.False(t, leaf.RepeatOnBreak)
	assert.False(t, leaf.EstablishesBFC)
}

func TestLangAndDirection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(
		`<html lang="de"><body dir="rtl"><p lang="en-US" dir="ltr">x</p><div lang="%%">y</div></body></html>`))
	require.NoError(t, err)
	htmlEl := doc.FirstChild
	body := htmlEl.LastChild
	p := body.FirstChild
	div := p.NextSibling
	root := NewNodeContext(htmlEl, nil, 0)
	assert.Equal(t, "de", root.Lang.String())
	assert.Equal(t, bidi.LeftToRight, root.Direction)
	b := NewNodeContext(body, root, 0)
	assert.Equal(t, "de", b.Lang.String(), "lang is inherited")
	assert.Equal(t, bidi.RightToLeft, b.Direction)
	pc := NewNodeContext(p, b, 0)
	assert.Equal(t, "en-US", pc.Lang.String())
	assert.Equal(t, bidi.LeftToRight, pc.Direction)
	tc := NewNodeContext(p.FirstChild, pc, 0)
	assert.Equal(t, "en-US", tc.Lang.String())
	dc := NewNodeContext(div, b, 1)
	assert.Equal(t, "de", dc.Lang.String(), "malformed lang is ignored")
	assert.Equal(t, bidi.RightToLeft, dc.Direction)
}

func TestCopyStopsAtSharedAncestor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	ncs[1].Copy()
	assert.True(t, ncs[0].IsShared())
	assert.False(t, ncs[2].IsShared())
	ncs[3].Copy()
	assert.True(t, ncs[2].IsShared())
	assert.True(t, ncs[3].IsShared())
}

func TestClone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	leaf := ncs[3].Copy()
	cl := leaf.Clone()
	assert.Equal(t, 4, cl.Depth())
	for c, o := cl, leaf; c != nil; c, o = c.Parent, o.Parent {
		assert.NotSame(t, o, c)
		assert.Same(t, o.SourceNode, c.SourceNode)
		assert.False(t, c.IsShared())
	}
	cl.Parent.OffsetInNode = 9
	assert.Equal(t, 0, leaf.Parent.OffsetInNode)
	assert.True(t, IsSameNodePosition(leaf.ToNodePosition(), cl.ToNodePosition()))
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	doc, ncs := chain(t)
	d := &Document{URL: "test.html", Root: doc}
	owner := ncs[2].SourceNode
	sc := NewShadowContext(owner, nil, d, nil, nil, ShadowRooted, nil)
	ncs[2].NodeShadow = sc
	ncs[2].ShadowType = ShadowRooted
	sib := NewNodeContext(owner, ncs[1], 0)
	ncs[2].ShadowSibling = sib
	leaf := ncs[3]
	leaf.ShadowContext = sc
	text := leaf.SourceNode.Data
	processed := strings.Join(strings.Fields(text), " ")
	leaf.PreprocessedTextContent = DiffText(text, processed)
	leaf.OffsetInNode = 6 // "w" in processed text
	//
	pos := leaf.ToNodePosition()
	require.Len(t, pos.Steps, 4)
	assert.Same(t, ncs[0].SourceNode, pos.Steps[0].Node, "steps are ordered root first")
	assert.Equal(t, 7, pos.OffsetInNode, "offset refers to original text")
	//
	rebuilt := NodeContextFromPosition(pos)
	assert.Equal(t, 6, rebuilt.OffsetInNode)
	assert.Equal(t, 4, rebuilt.Depth())
	assert.True(t, IsSameNodePosition(pos, rebuilt.ToNodePosition()))
	assert.Nil(t, NodeContextFromPosition(&NodePosition{}))
}

func TestFirstPseudoWrappersAreSkipped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	fp := NewFirstPseudo(nil, 1)
	wrapper := NewNodeContext(ncs[2].SourceNode, ncs[1], 0)
	wrapper.FirstPseudo = fp
	inner := NewNodeContext(ncs[3].SourceNode, wrapper, 0)
	assert.Same(t, fp, inner.FirstPseudo)
	pos := inner.ToNodePosition()
	require.Len(t, pos.Steps, 3)
	assert.Same(t, ncs[1].SourceNode, pos.Steps[1].Node)
	assert.Same(t, ncs[3].SourceNode, pos.Steps[2].Node)
}

func TestStructuralEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	doc, ncs := chain(t)
	d1 := &Document{URL: "a.html", Root: doc}
	d2 := &Document{URL: "b.html", Root: doc}
	owner := ncs[1].SourceNode
	sc1 := NewShadowContext(owner, nil, d1, nil, nil, ShadowContent, nil)
	sc2 := NewShadowContext(owner, nil, d1, nil, nil, ShadowContent, "other styler")
	assert.True(t, sc1.Equals(sc2), "identity is not required")
	//
	a, b := ncs[3].Clone(), ncs[3].Clone()
	a.ShadowContext, b.ShadowContext = sc1, sc2
	assert.True(t, IsSameNodePosition(a.ToNodePosition(), b.ToNodePosition()))
	//
	sc3 := NewShadowContext(owner, nil, d2, nil, nil, ShadowContent, nil)
	b.ShadowContext = sc3
	assert.False(t, IsSameNodePosition(a.ToNodePosition(), b.ToNodePosition()))
	//
	parent := NewShadowContext(nil, nil, d1, nil, nil, ShadowNone, nil)
	sc4 := NewShadowContext(owner, nil, d1, parent, nil, ShadowContent, nil)
	assert.False(t, sc1.Equals(sc4))
	assert.False(t, IsSameShadowContext(sc1, nil))
	assert.True(t, IsSameShadowContext(nil, nil))
	//
	b.ShadowContext = sc2
	b.After = true
	assert.False(t, IsSameNodePosition(a.ToNodePosition(), b.ToNodePosition()))
	assert.False(t, IsSameNodePosition(a.ToNodePosition(), nil))
}

func TestSubShadowLink(t *testing.T) {
	super := NewShadowContext(nil, nil, nil, nil, nil, ShadowRooted, nil)
	sub := NewShadowContext(nil, nil, nil, nil, super, ShadowRootless, nil)
	assert.Same(t, sub, super.SubShadow)
}

func TestResumeFromStep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	fc := &testFC{name: "block"}
	ncs[2].FormattingContext = fc
	ncs[2].FragmentIndex = 2
	ncs[2].ShadowSibling = NewNodeContext(ncs[2].SourceNode, ncs[1], 0)
	step := ncs[2].ToNodePositionStep()
	parent := ncs[1]
	resumed := MakeNodeContextFromStep(&step, parent)
	assert.Equal(t, 3, resumed.FragmentIndex)
	assert.Same(t, parent, resumed.Parent)
	assert.Equal(t, fc, resumed.FormattingContext)
	require.NotNil(t, resumed.ShadowSibling)
	assert.True(t, parent.IsShared(), "shadow sibling freezes the parent")
	assert.Same(t, parent, resumed.ShadowSibling.Parent)
}

func TestNewNodePositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	np := NewNodePositionFromNode(ncs[2].SourceNode)
	require.Len(t, np.Steps, 1)
	assert.Equal(t, 0, np.Steps[0].FragmentIndex)
	assert.Equal(t, ShadowNone, np.Leaf().ShadowType)
	//
	ncs[2].ShadowContext = NewShadowContext(nil, nil, nil, nil, nil, ShadowContent, nil)
	ncs[2].FragmentIndex = 4
	np = NewNodePositionFromNodeContext(ncs[2], nil)
	assert.Equal(t, 4, np.Leaf().FragmentIndex)
	assert.Same(t, ncs[2].ShadowContext, np.Leaf().ShadowContext)
	one := 1
	np = NewNodePositionFromNodeContext(ncs[2], &one)
	assert.Equal(t, 1, np.Leaf().FragmentIndex)
	assert.Nil(t, (&NodePosition{}).Leaf())
}

func TestQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	assert.False(t, ncs[3].IsInsideBFC())
	ncs[1].EstablishesBFC = true
	assert.True(t, ncs[3].IsInsideBFC())
	assert.False(t, ncs[1].IsInsideBFC(), "only ancestors count")
	//
	assert.Nil(t, ncs[3].AbsoluteContainingBlock())
	ncs[0].ContainingBlockForAbsolute = true
	assert.Same(t, ncs[0], ncs[3].AbsoluteContainingBlock())
	//
	ncs[1].Inline = false
	ncs[2].Inline = false
	var blocks []*NodeContext
	ncs[3].WalkUpBlocks(func(nc *NodeContext) { blocks = append(blocks, nc) })
	assert.Equal(t, []*NodeContext{ncs[2], ncs[1]}, blocks)
	//
	outer := &testFC{name: "outer"}
	inner := &testFC{name: "inner", parent: outer}
	ncs[2].FormattingContext = inner
	ncs[3].FormattingContext = inner
	assert.True(t, ncs[3].BelongsTo(inner))
	assert.False(t, ncs[2].BelongsTo(inner))
	var names []string
	EachAncestorFormattingContext(ncs[3], func(fc FormattingContext) { names = append(names, fc.Name()) })
	assert.Equal(t, []string{"inner", "outer"}, names)
	EachAncestorFormattingContext(nil, func(FormattingContext) { t.Fail() })
}

func TestBacktrack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	_, ncs := chain(t)
	outer := &testFC{name: "outer", state: 1}
	inner := &testFC{name: "inner", parent: outer, state: 10}
	leaf := ncs[3]
	leaf.FormattingContext = inner
	leaf.OffsetInNode = 2
	mark := Mark(leaf)
	attempt := mark.Attempt()
	require.NotSame(t, leaf, attempt)
	attempt.OffsetInNode = 8
	outer.state, inner.state = 2, 20
	back := mark.Restore()
	assert.Same(t, leaf, back)
	assert.Equal(t, 2, back.OffsetInNode)
	assert.Equal(t, 1, outer.state)
	assert.Equal(t, 10, inner.state)
	assert.Nil(t, Mark(nil).Attempt())
}

func TestWhitespace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	for value, expected := range map[string]Whitespace{
		"normal": WhitespaceIgnore, "nowrap": WhitespaceIgnore,
		"pre-line": WhitespaceNewline,
		"pre":      WhitespacePreserve, "pre-wrap": WhitespacePreserve,
	} {
		ws, ok := WhitespaceFromPropertyValue(value)
		assert.True(t, ok, value)
		assert.Equal(t, expected, ws, value)
	}
	_, ok := WhitespaceFromPropertyValue("break-spaces")
	assert.False(t, ok)
	//
	text := func(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }
	assert.True(t, CanIgnore(text(" \n\t"), WhitespaceIgnore))
	assert.False(t, CanIgnore(text(" x "), WhitespaceIgnore))
	assert.True(t, CanIgnore(text(" \t"), WhitespaceNewline))
	assert.False(t, CanIgnore(text(" \n"), WhitespaceNewline))
	assert.True(t, CanIgnore(text(""), WhitespacePreserve))
	assert.False(t, CanIgnore(text(" "), WhitespacePreserve))
	assert.False(t, CanIgnore(&html.Node{Type: html.ElementNode, Data: "br"}, WhitespaceIgnore))
	assert.Panics(t, func() { CanIgnore(text(" "), WhitespaceUnset) })
}

func TestTextDiff(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	changes := DiffText("abcdef", "abXef")
	assert.Equal(t, []Change{
		{ChangeEqual, "ab"}, {ChangeDelete, "cd"}, {ChangeInsert, "X"}, {ChangeEqual, "ef"},
	}, changes)
	assert.Equal(t, 1, ResolveOriginalIndex(changes, 1))
	assert.Equal(t, 4, ResolveOriginalIndex(changes, 2), "inserted text maps to insertion point")
	assert.Equal(t, 4, ResolveOriginalIndex(changes, 3))
	assert.Equal(t, 6, ResolveOriginalIndex(changes, 5))
	assert.Equal(t, 2, ResolveNewIndex(changes, 2), "deleted text maps to deletion point")
	assert.Equal(t, 3, ResolveNewIndex(changes, 4))
	for n := 0; n <= 5; n++ {
		o := ResolveOriginalIndex(changes, n)
		assert.Equal(t, o, ResolveOriginalIndex(changes, ResolveNewIndex(changes, o)))
	}
	assert.Nil(t, DiffText("", ""))
	assert.Equal(t, []Change{{ChangeEqual, "äöü"}}, DiffText("äöü", "äöü"))
}

func TestTextDiffCollapsedRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	changes := DiffText("a  b  c", "a b c")
	assert.Equal(t, []Change{
		{ChangeEqual, "a"}, {ChangeDelete, " "}, {ChangeEqual, " b "}, {ChangeDelete, " "}, {ChangeEqual, "c"},
	}, changes)
	assert.Equal(t, 3, ResolveOriginalIndex(changes, 2))
	assert.Equal(t, 6, ResolveOriginalIndex(changes, 4))
	assert.Equal(t, 2, ResolveNewIndex(changes, 3))
	//
	orig := "one  two\n\tthree   four  five"
	processed := strings.Join(strings.Fields(orig), " ")
	changes = DiffText(orig, processed)
	po, pp := []rune(orig), []rune(processed)
	for n, r := range pp {
		if r == ' ' {
			continue
		}
		o := ResolveOriginalIndex(changes, n)
		assert.Equal(t, r, po[o], "processed index %d", n)
		assert.Equal(t, n, ResolveNewIndex(changes, o))
	}
}

func TestTextOffsetRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.position")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<p>a  b  c   d</p>`))
	require.NoError(t, err)
	p := doc.FirstChild.LastChild.FirstChild
	pc := NewNodeContext(p, nil, 0)
	tc := NewNodeContext(p.FirstChild, pc, 0)
	text := p.FirstChild.Data
	tc.PreprocessedTextContent = DiffText(text, strings.Join(strings.Fields(text), " "))
	for offset := 0; offset < 7; offset++ {
		tc.OffsetInNode = offset
		rebuilt := NodeContextFromPosition(tc.ToNodePosition())
		assert.Equal(t, offset, rebuilt.OffsetInNode, "offset %d", offset)
	}
}

func TestShadowTypeNames(t *testing.T) {
	st, err := ParseShadowType("rootless")
	assert.NoError(t, err)
	assert.Equal(t, ShadowRootless, st)
	assert.Equal(t, "content", ShadowContent.String())
	_, err = ParseShadowType("bogus")
	assert.Error(t, err)
}
