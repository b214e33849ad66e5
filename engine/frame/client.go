package frame

import (
	"sort"

	"github.com/npillmayer/folio/core/dimen"
	"golang.org/x/net/html"
)

// ClientRect is a measured rectangle in physical coordinates.
type ClientRect struct {
	Left, Top, Right, Bottom dimen.Dimen
	Width, Height            dimen.Dimen
}

// RectFromEdges creates a client rectangle from its edges.
func RectFromEdges(left, top, right, bottom dimen.Dimen) ClientRect {
	return ClientRect{
		Left: left, Top: top, Right: right, Bottom: bottom,
		Width: right - left, Height: bottom - top,
	}
}

// Range spans a part of a view tree, with offsets into text nodes or
// child indices for elements.
type Range struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// ClientLayout measures rendered view trees. Implementations are provided by
// the rendering backend.
type ClientLayout interface {
	RangeClientRects(Range) []ClientRect
	ElementClientRect(*html.Node) ClientRect
	ElementComputedStyle(*html.Node) map[string]string
}

// SortIncreasingTop sorts rectangles top to bottom.
func SortIncreasingTop(rects []ClientRect) {
	sort.SliceStable(rects, func(i, j int) bool {
		return rects[i].Top < rects[j].Top
	})
}

// SortDecreasingRight sorts rectangles right to left, which is the block
// order for vertical writing.
func SortDecreasingRight(rects []ClientRect) {
	sort.SliceStable(rects, func(i, j int) bool {
		return rects[i].Right > rects[j].Right
	})
}
