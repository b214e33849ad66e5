package frame

import (
	"strings"
	"testing"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, s string) *html.Node {
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	require.NotNil(t, body)
	return body
}

func TestLogicalInsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	c := NewContainer(nil)
	c.Margins = Edges{1, 2, 3, 4}
	assert.Equal(t, dimen.Dimen(1), c.InsetBefore())
	assert.Equal(t, dimen.Dimen(2), c.InsetEnd())
	assert.Equal(t, dimen.Dimen(3), c.InsetAfter())
	assert.Equal(t, dimen.Dimen(4), c.InsetStart())
	c.Vertical = true
	assert.Equal(t, dimen.Dimen(2), c.InsetBefore())
	assert.Equal(t, dimen.Dimen(3), c.InsetEnd())
	assert.Equal(t, dimen.Dimen(4), c.InsetAfter())
	assert.Equal(t, dimen.Dimen(1), c.InsetStart())
}

func TestInsetsSumDecorations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	c := NewContainer(nil)
	c.Margins = Uniform(10)
	c.Borders = Edges{1, 2, 3, 4}
	c.Paddings = Uniform(5)
	assert.Equal(t, dimen.Dimen(16), c.InsetTop())
	assert.Equal(t, dimen.Dimen(17), c.InsetRight())
	assert.Equal(t, dimen.Dimen(18), c.InsetBottom())
	assert.Equal(t, dimen.Dimen(19), c.InsetLeft())
}

func TestEdgesOfBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	box := RectFromEdges(10, 20, 110, 70)
	c := NewContainer(nil)
	assert.Equal(t, dimen.Dimen(20), c.BeforeEdge(box))
	assert.Equal(t, dimen.Dimen(70), c.AfterEdge(box))
	assert.Equal(t, dimen.Dimen(10), c.StartEdge(box))
	assert.Equal(t, dimen.Dimen(110), c.EndEdge(box))
	assert.Equal(t, dimen.Dimen(100), c.InlineSize(box))
	assert.Equal(t, dimen.Dimen(50), c.BoxSize(box))
	assert.Equal(t, dimen.Dimen(1), c.BoxDir())
	c.Vertical = true
	assert.Equal(t, dimen.Dimen(110), c.BeforeEdge(box))
	assert.Equal(t, dimen.Dimen(10), c.AfterEdge(box))
	assert.Equal(t, dimen.Dimen(20), c.StartEdge(box))
	assert.Equal(t, dimen.Dimen(70), c.EndEdge(box))
	assert.Equal(t, dimen.Dimen(50), c.InlineSize(box))
	assert.Equal(t, dimen.Dimen(100), c.BoxSize(box))
	assert.Equal(t, dimen.Dimen(-1), c.BoxDir())
	assert.Equal(t, dimen.Dimen(1), c.InlineDir())
}

func TestBlockPositionWritesStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	body := parseBody(t, `<div style="color: red">x</div>`)
	c := NewContainer(body.FirstChild)
	c.SetBlockPosition(10*dimen.PX, 30*dimen.PX)
	assert.Equal(t, 10*dimen.PX, c.Top)
	assert.Equal(t, 30*dimen.PX, c.Height)
	top, _ := StyleProperty(c.Element, "top")
	height, _ := StyleProperty(c.Element, "height")
	color, _ := StyleProperty(c.Element, "color")
	assert.Equal(t, "10px", top)
	assert.Equal(t, "30px", height)
	assert.Equal(t, "red", color)
	//
	c.Vertical = true
	c.SetBlockPosition(100*dimen.PX, 30*dimen.PX)
	assert.Equal(t, 70*dimen.PX, c.Left)
	assert.Equal(t, 30*dimen.PX, c.Width)
	left, _ := StyleProperty(c.Element, "left")
	assert.Equal(t, "70px", left)
	c.SetInlinePosition(5*dimen.PX, 50*dimen.PX)
	assert.Equal(t, 5*dimen.PX, c.Top)
	assert.Equal(t, 50*dimen.PX, c.Height)
}

func TestRects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	c := NewContainer(nil)
	c.OriginX, c.OriginY = 100, 200
	c.Left, c.Top = 10, 20
	c.Margins = Uniform(1)
	c.Borders = Uniform(2)
	c.Paddings = Uniform(3)
	c.Width, c.Height = 50, 60
	assert.Equal(t, dimen.RectWH(116, 226, 50, 60), c.InnerRect())
	assert.Equal(t, dimen.RectWH(113, 223, 56, 66), c.PaddingRect())
	assert.Equal(t, dimen.RectWH(110, 220, 62, 72), c.OuterRect())
}

func TestShapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	c := NewContainer(nil)
	c.Left, c.Top = 10*dimen.PX, 10*dimen.PX
	c.Width, c.Height = 100*dimen.PX, 100*dimen.PX
	assert.Equal(t, c.InnerRect(), c.InnerShape().BoundingBox())
	tri := geom.ShapeForRect(0, 0, 20*dimen.PX, 20*dimen.PX)
	c.SetInnerShape(&tri)
	assert.Equal(t, dimen.Point{X: 10 * dimen.PX, Y: 10 * dimen.PX}, c.InnerShape().BoundingBox().TopL)
	//
	c.Margins = Uniform(10 * dimen.PX)
	assert.Equal(t, c.OuterRect(), c.OuterShape(nil).BoundingBox())
	spec, err := geom.ParseShape("inset(10px)")
	require.NoError(t, err)
	assert.Equal(t, c.InnerRect(), c.OuterShape(spec).BoundingBox())
}

func TestCopyAndClear(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	body := parseBody(t, `<div><p>a</p><p>b</p></div>`)
	c := NewContainer(body.FirstChild)
	c.Width = 42
	c.Exclusions = []geom.Shape{geom.ShapeForRect(0, 0, 1, 1)}
	d := &Container{}
	d.CopyFrom(c)
	assert.Equal(t, dimen.Dimen(42), d.Width)
	assert.Same(t, c.Element, d.Element)
	d.Exclusions[0] = geom.Shape{}
	assert.False(t, c.Exclusions[0].IsEmpty())
	c.Clear()
	assert.Nil(t, c.Element.FirstChild)
}

func TestSortRects(t *testing.T) {
	rects := []ClientRect{RectFromEdges(0, 30, 10, 40), RectFromEdges(20, 10, 50, 20), RectFromEdges(5, 20, 30, 30)}
	SortIncreasingTop(rects)
	assert.Equal(t, dimen.Dimen(10), rects[0].Top)
	assert.Equal(t, dimen.Dimen(30), rects[2].Top)
	SortDecreasingRight(rects)
	assert.Equal(t, dimen.Dimen(50), rects[0].Right)
	assert.Equal(t, dimen.Dimen(10), rects[2].Right)
}

func TestInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	body := parseBody(t, `<div style="color: red; visibility: visible">x</div>`)
	div := body.FirstChild
	SetStyleProperty(div, "visibility", "hidden")
	v, ok := StyleProperty(div, "visibility")
	assert.True(t, ok)
	assert.Equal(t, "hidden", v)
	style, _ := Attr(div, "style")
	assert.Equal(t, "color: red; visibility: hidden;", style)
	RemoveStyleProperty(div, "color")
	RemoveStyleProperty(div, "visibility")
	_, ok = Attr(div, "style")
	assert.False(t, ok)
}

func TestInlineStyleWithoutTrailingSemicolon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	body := parseBody(t, `<div style="color: red">x</div>`)
	div := body.FirstChild
	color, ok := StyleProperty(div, "color")
	assert.True(t, ok)
	assert.Equal(t, "red", color)
	SetStyleProperty(div, "top", "10px")
	style, _ := Attr(div, "style")
	assert.Equal(t, "color: red; top: 10px;", style)
}
