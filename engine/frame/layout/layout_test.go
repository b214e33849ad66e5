package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/position"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const pageHTML = `<div id="page"><p id="a">click me</p><span id="b">shown</span>` +
	`<video id="v1"></video><video id="v2"></video><a id="link" href="#chap2">next</a></div>`

func buildPage(t *testing.T) (*Page, map[string]*html.Node) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	require.NoError(t, err)
	body := doc.FirstChild.LastChild
	container := body.FirstChild
	require.Equal(t, "div", container.Data)
	page := NewPage(container, nil)
	assert.Equal(t, 6, page.RegisterIDs())
	elems := make(map[string]*html.Node)
	for _, id := range page.IDs() {
		elems[id] = page.ElementsByID(id)[0]
	}
	return page, elems
}

type fixedClient struct {
	rect frame.ClientRect
}

func (fc fixedClient) RangeClientRects(frame.Range) []frame.ClientRect { return nil }
func (fc fixedClient) ElementClientRect(*html.Node) frame.ClientRect   { return fc.rect }
func (fc fixedClient) ElementComputedStyle(*html.Node) map[string]string {
	return map[string]string{}
}

var a4 = fixedClient{rect: frame.RectFromEdges(0, 0, 210*dimen.MM, 297*dimen.MM)}

func TestNewPage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, elems := buildPage(t)
	assert.True(t, page.IsAutoPageWidth)
	assert.True(t, page.IsAutoPageHeight)
	assert.Equal(t, -1, page.Offset)
	assert.Equal(t, page.Container, page.PageArea())
	page.PageAreaElement = elems["b"]
	assert.Equal(t, elems["b"], page.PageArea())
	assert.Equal(t, []string{"a", "b", "link", "page", "v1", "v2"}, page.IDs())
	videos, err := page.QueryAll("video")
	require.NoError(t, err)
	assert.Len(t, videos, 2)
	_, err = page.QueryAll("[[")
	assert.Error(t, err)
}

func TestFinishPrunesIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, _ := buildPage(t)
	detached := &html.Node{Type: html.ElementNode, Data: "p"}
	page.RegisterElementWithID(detached, "gone")
	page.RegisterElementWithID(detached, "gone")
	assert.Len(t, page.ElementsByID("gone"), 1)
	page.Finish(nil, a4)
	assert.Empty(t, page.ElementsByID("gone"))
	assert.Len(t, page.ElementsByID("a"), 1)
	assert.Equal(t, 210*dimen.MM, page.Dimensions.Width)
	assert.Equal(t, 297*dimen.MM, page.Dimensions.Height)
}

func TestDelayedItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, elems := buildPage(t)
	page.SetAutoPageWidth(false)
	page.SetAutoPageHeight(false)
	_, ok := frame.Attr(page.Container, AutoPageWidthAttribute)
	assert.False(t, ok)
	page.Delay(page.Container, "transform", "scale(2)")
	page.Delay(elems["a"], "left", "3px")
	page.Finish(nil, a4)
	_, ok = frame.StyleProperty(page.Container, "transform")
	assert.False(t, ok, "transform of fixed size page is skipped")
	left, ok := frame.StyleProperty(elems["a"], "left")
	assert.True(t, ok)
	assert.Equal(t, "3px", left)
	//
	page, _ = buildPage(t)
	page.SetAutoPageWidth(true)
	v, _ := frame.Attr(page.Container, AutoPageWidthAttribute)
	assert.Equal(t, "true", v)
	page.Delay(page.Container, "transform", "scale(2)")
	page.Finish(nil, a4)
	tf, ok := frame.StyleProperty(page.Container, "transform")
	assert.True(t, ok)
	assert.Equal(t, "scale(2)", tf)
}

func TestTriggers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, elems := buildPage(t)
	show, err := ParseTrigger("a", "click", "show", "b")
	require.NoError(t, err)
	hide, err := ParseTrigger("a", "dblclick", "hide", "b")
	require.NoError(t, err)
	mute := Trigger{Observer: "a", Event: "click", Action: ActionMute, Ref: "v1"}
	dangling := Trigger{Observer: "a", Event: "click", Action: ActionShow, Ref: "nowhere"}
	page.Finish([]Trigger{show, hide, mute, dangling}, a4)
	assert.Equal(t, 2, page.ListenerCount(elems["a"], "click"))
	//
	page.FireElementEvent(elems["a"], "click")
	vis, _ := frame.StyleProperty(elems["b"], "visibility")
	assert.Equal(t, "visible", vis)
	_, muted := frame.Attr(elems["v1"], "muted")
	assert.True(t, muted)
	page.FireElementEvent(elems["a"], "dblclick")
	vis, _ = frame.StyleProperty(elems["b"], "visibility")
	assert.Equal(t, "hidden", vis)
	//
	_, err = ParseTrigger("a", "click", "explode", "b")
	assert.Error(t, err)
}

type recordingMedia struct {
	failFor *html.Node
	played  []*html.Node
}

func (m *recordingMedia) Seek(elem *html.Node, _ float64) error {
	if elem == m.failFor {
		return errors.New("cannot seek")
	}
	return nil
}

func (m *recordingMedia) Play(elem *html.Node) error {
	m.played = append(m.played, elem)
	return nil
}

func (m *recordingMedia) Pause(*html.Node) error { return nil }

func TestFailingActionContinues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, elems := buildPage(t)
	l := MakeListener(page, []*html.Node{elems["v1"], elems["v2"]}, ActionPlay)
	assert.NoError(t, l(NewEvent("click", nil)), "no controller is not fatal")
	media := &recordingMedia{failFor: elems["v1"]}
	page.Media = media
	assert.NoError(t, l(NewEvent("click", nil)))
	assert.Equal(t, []*html.Node{elems["v2"]}, media.played)
	assert.Nil(t, MakeListener(page, nil, Action(99)))
}

func TestHyperlinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, elems := buildPage(t)
	page.RegisterAnchor(elems["link"])
	var hrefs []string
	page.AddEventListener(HyperlinkEvent, func(e *Event) error {
		hrefs = append(hrefs, e.Href)
		assert.Equal(t, elems["link"], e.Anchor)
		return nil
	})
	page.FireElementEvent(elems["link"], "click")
	assert.Equal(t, []string{"#chap2"}, hrefs)
	//
	frame.RemoveAttr(elems["link"], "href")
	elems["link"].Attr = append(elems["link"].Attr, html.Attribute{Key: "xlink:href", Val: "#fig"})
	page.FireElementEvent(elems["link"], "click")
	assert.Equal(t, []string{"#chap2", "#fig"}, hrefs)
}

func TestEventPriority(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	var et EventTarget
	var order []string
	record := func(e *Event) error {
		order = append(order, e.Href)
		return nil
	}
	id := et.AddEventListener("x", record)
	failing := et.AddEventListener("x", func(*Event) error { return errors.New("ignored") })
	et.Post(&Event{Type: "x", Href: "low1"})
	et.Post((&Event{Type: "x", Href: "high"}).WithPriority(5))
	et.Post(&Event{Type: "x", Href: "low2"})
	et.Drain()
	assert.Equal(t, []string{"high", "low1", "low2"}, order)
	et.RemoveEventListener(id)
	et.RemoveEventListener(failing)
	assert.Equal(t, 0, et.ListenerCount(nil, "x"))
	et.DispatchEvent(&Event{Type: "x", Href: "unheard"})
	assert.Len(t, order, 3)
}

func TestZoom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	page, _ := buildPage(t)
	page.Zoom(0.5)
	tf, _ := frame.StyleProperty(page.Container, "transform")
	assert.Equal(t, "scale(0.5)", tf)
	assert.Equal(t, "left", SideLeft.String())
}

// sequenceLayout is a layout context walking a fixed sequence of cursors.
type sequenceLayout struct {
	LayoutContext
	seq []*position.NodeContext
}

func (sl *sequenceLayout) NextInTree(_ context.Context, nc *position.NodeContext,
	_ bool) (*position.NodeContext, error) {
	for i, c := range sl.seq {
		if c == nc && i+1 < len(sl.seq) {
			return sl.seq[i+1], nil
		}
	}
	return nil, nil
}

func TestNextNonIgnorable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	p := &html.Node{Type: html.ElementNode, Data: "p"}
	blank := &html.Node{Type: html.TextNode, Data: " \n "}
	word := &html.Node{Type: html.TextNode, Data: "word"}
	root := position.NewNodeContext(p, nil, 0)
	seq := []*position.NodeContext{
		root,
		position.NewNodeContext(blank, root, 0),
		position.NewNodeContext(word, root, 1),
	}
	lc := &sequenceLayout{seq: seq}
	next, err := NextNonIgnorable(context.Background(), lc, root, false)
	require.NoError(t, err)
	assert.Equal(t, word, next.SourceNode)
	//
	seq[1].Whitespace = position.WhitespacePreserve
	next, err = NextNonIgnorable(context.Background(), lc, root, false)
	require.NoError(t, err)
	assert.Equal(t, blank, next.SourceNode)
	//
	next, err = NextNonIgnorable(context.Background(), lc, seq[2], false)
	assert.NoError(t, err)
	assert.Nil(t, next)
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NextNonIgnorable(ctx, lc, root, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, NonTrivialContent(`"§"`))
	assert.False(t, NonTrivialContent("none"))
}

func TestBlockContextBacktracking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	root := NewBlockContext("root", frame.NewContainer(nil), nil)
	inner := NewBlockContext("inner", frame.NewContainer(nil), root)
	assert.Nil(t, root.Parent())
	assert.Equal(t, root, Block(inner.Parent()))
	inner.AddFloat(&html.Node{Data: "f1"})
	nc := position.NewNodeContext(&html.Node{Data: "p"}, nil, 0)
	nc.FormattingContext = inner
	mark := position.Mark(nc)
	inner.AddFloat(&html.Node{Data: "f2"})
	assert.Len(t, inner.Floats, 2)
	mark.Restore()
	assert.Len(t, inner.Floats, 1)
	assert.Equal(t, "f1", inner.Floats[0].Data)
}
