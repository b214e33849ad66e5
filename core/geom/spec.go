package geom

import (
	"math"
	"regexp"
	"strings"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
)

// ShapeSpec describes a shape relative to a reference box, as CSS basic
// shapes do.
type ShapeSpec interface {
	ToShape(x, y, width, height dimen.Dimen) Shape
}

// Length is either an absolute dimension or a percentage.
type Length struct {
	Value   dimen.Dimen // percentage if Percent is set
	Percent bool
}

// Abs creates an absolute length.
func Abs(d dimen.Dimen) Length { return Length{Value: d} }

// Pct creates a percentage length.
func Pct(p int) Length { return Length{Value: dimen.Dimen(p), Percent: true} }

// Resolve returns l in absolute units, with percentages taken from ref.
func (l Length) Resolve(ref dimen.Dimen) dimen.Dimen {
	if l.Percent {
		return dimen.Dimen(int64(ref) * int64(l.Value) / 100)
	}
	return l.Value
}

// Inset is a rectangle inset from the reference box.
type Inset struct {
	Top, Right, Bottom, Left Length
}

// ToShape is part of interface ShapeSpec.
func (in Inset) ToShape(x, y, w, h dimen.Dimen) Shape {
	return ShapeForRect(
		x+in.Left.Resolve(w),
		y+in.Top.Resolve(h),
		x+w-in.Right.Resolve(w),
		y+h-in.Bottom.Resolve(h),
	)
}

// circleSegments is the number of polygon segments approximating a circle.
const circleSegments = 32

// Circle is a circle, approximated by a polygon.
type Circle struct {
	Radius           Length
	CenterX, CenterY Length
}

// ToShape is part of interface ShapeSpec.
func (c Circle) ToShape(x, y, w, h dimen.Dimen) Shape {
	ref := dimen.Px(math.Hypot(w.Px(), h.Px()) / math.Sqrt2)
	r := c.Radius.Resolve(ref).Px()
	cx := (x + c.CenterX.Resolve(w)).Px()
	cy := (y + c.CenterY.Resolve(h)).Px()
	v := make([]arithm.Pair, circleSegments)
	for i := range v {
		phi := 2 * math.Pi * float64(i) / circleSegments
		v[i] = arithm.Pair(complex(cx+r*math.Cos(phi), cy+r*math.Sin(phi)))
	}
	return Shape{vertices: v}
}

// Polygon is a polygon with coordinates relative to the reference box.
type Polygon struct {
	Points [][2]Length
}

// ToShape is part of interface ShapeSpec.
func (p Polygon) ToShape(x, y, w, h dimen.Dimen) Shape {
	v := make([]arithm.Pair, len(p.Points))
	for i, pt := range p.Points {
		v[i] = pair(x+pt[0].Resolve(w), y+pt[1].Resolve(h))
	}
	return Shape{vertices: v}
}

var shapeFunc = regexp.MustCompile(`^\s*([a-z]+)\(\s*(.*?)\s*\)\s*$`)

// ParseShape parses a CSS basic shape function: inset(), circle() or polygon().
func ParseShape(s string) (ShapeSpec, error) {
	m := shapeFunc.FindStringSubmatch(s)
	if m == nil {
		return nil, core.Error(core.EINVALID, "not a shape function: %q", s)
	}
	tracer().Debugf("parsing shape %s(%s)", m[1], m[2])
	switch m[1] {
	case "inset":
		ls, err := parseLengths(strings.Fields(m[2]))
		if err != nil || len(ls) == 0 || len(ls) > 4 {
			return nil, core.WrapError(err, core.EINVALID, "illegal inset: %q", s)
		}
		return expandInset(ls), nil
	case "circle":
		return parseCircle(m[2])
	case "polygon":
		return parsePolygon(m[2])
	}
	return nil, core.Error(core.EINVALID, "unknown shape function %q", m[1])
}

func parseLengths(fields []string) ([]Length, error) {
	ls := make([]Length, 0, len(fields))
	for _, f := range fields {
		d, pct, err := dimen.ParseDimen(f)
		if err != nil {
			return nil, err
		}
		ls = append(ls, Length{Value: d, Percent: pct})
	}
	return ls, nil
}

// expandInset applies the CSS 1-to-4 value shorthand rule.
func expandInset(ls []Length) Inset {
	switch len(ls) {
	case 1:
		return Inset{ls[0], ls[0], ls[0], ls[0]}
	case 2:
		return Inset{ls[0], ls[1], ls[0], ls[1]}
	case 3:
		return Inset{ls[0], ls[1], ls[2], ls[1]}
	}
	return Inset{ls[0], ls[1], ls[2], ls[3]}
}

func parseCircle(args string) (ShapeSpec, error) {
	c := Circle{Radius: Pct(50), CenterX: Pct(50), CenterY: Pct(50)}
	radius, center, hasCenter := strings.Cut(args, "at")
	if r := strings.TrimSpace(radius); r != "" {
		ls, err := parseLengths([]string{r})
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "illegal circle radius %q", r)
		}
		c.Radius = ls[0]
	}
	if hasCenter {
		ls, err := parseLengths(strings.Fields(center))
		if err != nil || len(ls) != 2 {
			return nil, core.WrapError(err, core.EINVALID, "illegal circle center %q", center)
		}
		c.CenterX, c.CenterY = ls[0], ls[1]
	}
	return c, nil
}

func parsePolygon(args string) (ShapeSpec, error) {
	p := Polygon{}
	for _, pt := range strings.Split(args, ",") {
		ls, err := parseLengths(strings.Fields(pt))
		if err != nil || len(ls) != 2 {
			return nil, core.WrapError(err, core.EINVALID, "illegal polygon point %q", pt)
		}
		p.Points = append(p.Points, [2]Length{ls[0], ls[1]})
	}
	if len(p.Points) < 3 {
		return nil, core.Error(core.EINVALID, "polygon needs at least 3 points")
	}
	return p, nil
}
