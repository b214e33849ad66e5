package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/folio/core/dimen"
)

// Shape is a closed polygon. The last vertex connects to the first one.
// The zero value is an empty shape, containing no points.
type Shape struct {
	vertices []arithm.Pair
}

// NewShape creates a polygon from vertices given in CSS pixels.
func NewShape(vertices ...arithm.Pair) Shape {
	v := make([]arithm.Pair, len(vertices))
	copy(v, vertices)
	return Shape{vertices: v}
}

// ShapeForRect creates a rectangular shape with corners (x1,y1) and (x2,y2).
func ShapeForRect(x1, y1, x2, y2 dimen.Dimen) Shape {
	return NewShape(
		pair(x1, y1),
		pair(x2, y1),
		pair(x2, y2),
		pair(x1, y2),
	)
}

func pair(x, y dimen.Dimen) arithm.Pair {
	return arithm.Pair(complex(x.Px(), y.Px()))
}

func xy(p arithm.Pair) (float64, float64) {
	c := complex128(p)
	return real(c), imag(c)
}

// Len returns the number of vertices.
func (s Shape) Len() int {
	return len(s.vertices)
}

// IsEmpty is true for shapes without vertices.
func (s Shape) IsEmpty() bool {
	return len(s.vertices) == 0
}

// Vertices returns the corners of s as points.
func (s Shape) Vertices() []dimen.Point {
	pts := make([]dimen.Point, len(s.vertices))
	for i, v := range s.vertices {
		x, y := xy(v)
		pts[i] = dimen.Point{X: dimen.Px(x), Y: dimen.Px(y)}
	}
	return pts
}

// WithOffset returns a copy of s, translated by (dx,dy).
func (s Shape) WithOffset(dx, dy dimen.Dimen) Shape {
	d := complex(dx.Px(), dy.Px())
	v := make([]arithm.Pair, len(s.vertices))
	for i, p := range s.vertices {
		v[i] = arithm.Pair(complex128(p) + d)
	}
	return Shape{vertices: v}
}

// BoundingBox returns the smallest rectangle enclosing s.
func (s Shape) BoundingBox() dimen.Rect {
	if len(s.vertices) == 0 {
		return dimen.Rect{}
	}
	minx, miny := math.Inf(1), math.Inf(1)
	maxx, maxy := math.Inf(-1), math.Inf(-1)
	for _, p := range s.vertices {
		x, y := xy(p)
		minx, maxx = math.Min(minx, x), math.Max(maxx, x)
		miny, maxy = math.Min(miny, y), math.Max(maxy, y)
	}
	return dimen.Rect{
		TopL: dimen.Point{X: dimen.Px(minx), Y: dimen.Px(miny)},
		BotR: dimen.Point{X: dimen.Px(maxx), Y: dimen.Px(maxy)},
	}
}

// Contains checks if p lies inside s, using the even-odd rule.
func (s Shape) Contains(p dimen.Point) bool {
	px, py := p.X.Px(), p.Y.Px()
	inside := false
	n := len(s.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := xy(s.vertices[i])
		xj, yj := xy(s.vertices[j])
		if (yi > py) != (yj > py) && px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func (s Shape) String() string {
	var b strings.Builder
	b.WriteString("shape{")
	for i, p := range s.vertices {
		if i > 0 {
			b.WriteString(" ")
		}
		x, y := xy(p)
		fmt.Fprintf(&b, "(%g,%g)", x, y)
	}
	b.WriteString("}")
	return b.String()
}
