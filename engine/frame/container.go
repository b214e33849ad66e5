package frame

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/geom"
	"golang.org/x/net/html"
)

// Container is a rectangular layout area (page area, column, float, …),
// following the CSS box model.
//
// Left and Top position the margin edge of the container relative to
// (OriginX, OriginY), which is the content origin of the enclosing
// container. Width and Height are the dimensions of the content box.
// Containers perform no validation: negative sizes are passed through.
type Container struct {
	Element           *html.Node // view element, may be nil
	Left, Top         dimen.Dimen
	Margins           Edges
	Borders           Edges
	Paddings          Edges
	Width, Height     dimen.Dimen // content box
	OriginX, OriginY  dimen.Dimen
	Exclusions        []geom.Shape // areas content has to flow around
	ComputedBlockSize dimen.Dimen
	SnapWidth         dimen.Dimen
	SnapHeight        dimen.Dimen
	SnapOffsetX       dimen.Dimen
	SnapOffsetY       dimen.Dimen
	Vertical          bool // vertical writing mode
	innerShape        *geom.Shape
}

// NewContainer creates a container for a view element.
func NewContainer(element *html.Node) *Container {
	return &Container{Element: element}
}

// CopyFrom copies all geometry of other into c, including the element.
func (c *Container) CopyFrom(other *Container) {
	excl := make([]geom.Shape, len(other.Exclusions))
	copy(excl, other.Exclusions)
	*c = *other
	c.Exclusions = excl
}

// SetInnerShape sets a shape for the content area, relative to the
// top-left corner of the content box.
func (c *Container) SetInnerShape(shape *geom.Shape) {
	c.innerShape = shape
}

// --- Insets ----------------------------------------------------------------

func (c *Container) inset(side int) dimen.Dimen {
	return c.Margins[side] + c.Borders[side] + c.Paddings[side]
}

// InsetTop is margin, border and padding at the top.
func (c *Container) InsetTop() dimen.Dimen { return c.inset(Top) }

// InsetBottom is margin, border and padding at the bottom.
func (c *Container) InsetBottom() dimen.Dimen { return c.inset(Bottom) }

// InsetLeft is margin, border and padding to the left.
func (c *Container) InsetLeft() dimen.Dimen { return c.inset(Left) }

// InsetRight is margin, border and padding to the right.
func (c *Container) InsetRight() dimen.Dimen { return c.inset(Right) }

// InsetBefore is the inset at the block-start edge.
func (c *Container) InsetBefore() dimen.Dimen {
	if c.Vertical {
		return c.InsetRight()
	}
	return c.InsetTop()
}

// InsetAfter is the inset at the block-end edge.
func (c *Container) InsetAfter() dimen.Dimen {
	if c.Vertical {
		return c.InsetLeft()
	}
	return c.InsetBottom()
}

// InsetStart is the inset at the inline-start edge.
func (c *Container) InsetStart() dimen.Dimen {
	if c.Vertical {
		return c.InsetTop()
	}
	return c.InsetLeft()
}

// InsetEnd is the inset at the inline-end edge.
func (c *Container) InsetEnd() dimen.Dimen {
	if c.Vertical {
		return c.InsetBottom()
	}
	return c.InsetRight()
}

// --- Logical edges of measured boxes ---------------------------------------

// BeforeEdge returns the block-start edge of box.
func (c *Container) BeforeEdge(box ClientRect) dimen.Dimen {
	if c.Vertical {
		return box.Right
	}
	return box.Top
}

// AfterEdge returns the block-end edge of box.
func (c *Container) AfterEdge(box ClientRect) dimen.Dimen {
	if c.Vertical {
		return box.Left
	}
	return box.Bottom
}

// StartEdge returns the inline-start edge of box.
func (c *Container) StartEdge(box ClientRect) dimen.Dimen {
	if c.Vertical {
		return box.Top
	}
	return box.Left
}

// EndEdge returns the inline-end edge of box.
func (c *Container) EndEdge(box ClientRect) dimen.Dimen {
	if c.Vertical {
		return box.Bottom
	}
	return box.Right
}

// InlineSize returns the extent of box in inline direction.
func (c *Container) InlineSize(box ClientRect) dimen.Dimen {
	if c.Vertical {
		return box.Bottom - box.Top
	}
	return box.Right - box.Left
}

// BoxSize returns the extent of box in block direction.
func (c *Container) BoxSize(box ClientRect) dimen.Dimen {
	if c.Vertical {
		return box.Right - box.Left
	}
	return box.Bottom - box.Top
}

// BoxDir is the sign of block progression in physical coordinates:
// -1 for vertical writing (right to left), 1 otherwise.
func (c *Container) BoxDir() dimen.Dimen {
	if c.Vertical {
		return -1
	}
	return 1
}

// InlineDir is the sign of inline progression in physical coordinates.
func (c *Container) InlineDir() dimen.Dimen {
	return 1
}

// --- Positioning -----------------------------------------------------------

// SetVerticalPosition sets top and height and writes them to the element's
// inline style.
func (c *Container) SetVerticalPosition(top, height dimen.Dimen) {
	c.Top = top
	c.Height = height
	if c.Element != nil {
		SetStyleProperty(c.Element, "top", top.CSS())
		SetStyleProperty(c.Element, "height", height.CSS())
	}
}

// SetHorizontalPosition sets left and width and writes them to the element's
// inline style.
func (c *Container) SetHorizontalPosition(left, width dimen.Dimen) {
	c.Left = left
	c.Width = width
	if c.Element != nil {
		SetStyleProperty(c.Element, "left", left.CSS())
		SetStyleProperty(c.Element, "width", width.CSS())
	}
}

// SetBlockPosition positions the container in block direction. For vertical
// writing, start is the right edge and the container extends to the left.
func (c *Container) SetBlockPosition(start, extent dimen.Dimen) {
	if c.Vertical {
		c.SetHorizontalPosition(start+extent*c.BoxDir(), extent)
	} else {
		c.SetVerticalPosition(start, extent)
	}
}

// SetInlinePosition positions the container in inline direction.
func (c *Container) SetInlinePosition(start, extent dimen.Dimen) {
	if c.Vertical {
		c.SetVerticalPosition(start, extent)
	} else {
		c.SetHorizontalPosition(start, extent)
	}
}

// Clear removes all children of the container's element.
func (c *Container) Clear() {
	if c.Element == nil {
		return
	}
	for ch := c.Element.FirstChild; ch != nil; ch = c.Element.FirstChild {
		c.Element.RemoveChild(ch)
	}
}

// --- Rectangles and shapes -------------------------------------------------

// InnerRect returns the content box in the coordinates of the origin's
// coordinate system.
func (c *Container) InnerRect() dimen.Rect {
	x := c.OriginX + c.Left + c.InsetLeft()
	y := c.OriginY + c.Top + c.InsetTop()
	return dimen.RectWH(x, y, c.Width, c.Height)
}

// PaddingRect returns the padding box.
func (c *Container) PaddingRect() dimen.Rect {
	x := c.OriginX + c.Left + c.Margins[Left] + c.Borders[Left]
	y := c.OriginY + c.Top + c.Margins[Top] + c.Borders[Top]
	w := c.Paddings[Left] + c.Width + c.Paddings[Right]
	h := c.Paddings[Top] + c.Height + c.Paddings[Bottom]
	return dimen.RectWH(x, y, w, h)
}

// OuterRect returns the margin box.
func (c *Container) OuterRect() dimen.Rect {
	x := c.OriginX + c.Left
	y := c.OriginY + c.Top
	w := c.InsetLeft() + c.Width + c.InsetRight()
	h := c.InsetTop() + c.Height + c.InsetBottom()
	return dimen.RectWH(x, y, w, h)
}

// InnerShape returns the shape of the content area. Without an explicit
// inner shape this is the inner rectangle.
func (c *Container) InnerShape() geom.Shape {
	r := c.InnerRect()
	if c.innerShape != nil {
		return c.innerShape.WithOffset(r.TopL.X, r.TopL.Y)
	}
	return geom.ShapeForRect(r.TopL.X, r.TopL.Y, r.BotR.X, r.BotR.Y)
}

// OuterShape returns the area the container excludes from surrounding
// content. spec is applied to the margin box; a nil spec denotes the
// margin box itself.
func (c *Container) OuterShape(spec geom.ShapeSpec) geom.Shape {
	r := c.OuterRect()
	if spec == nil {
		return geom.ShapeForRect(r.TopL.X, r.TopL.Y, r.BotR.X, r.BotR.Y)
	}
	return spec.ToShape(r.TopL.X, r.TopL.Y, r.Width(), r.Height())
}
