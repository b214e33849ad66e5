package frame

import (
	"fmt"

	"github.com/npillmayer/folio/core/dimen"
)

// For padding, margins, etc. 4-way values always start at the top and travel
// clockwise.
const (
	Top int = iota
	Right
	Bottom
	Left
)

// Edges holds a 4-way value, indexed by Top, Right, Bottom and Left.
type Edges [4]dimen.Dimen

// Uniform creates edges with the same value on all sides.
func Uniform(d dimen.Dimen) Edges {
	return Edges{d, d, d, d}
}

func (e Edges) String() string {
	return fmt.Sprintf("[t=%v r=%v b=%v l=%v]", e[Top], e[Right], e[Bottom], e[Left])
}

// DebugString returns a textual representation of a container's box
// dimensions. Intended for debugging.
func (c *Container) DebugString() string {
	s := fmt.Sprintf("container{\n   x=%v, y=%v, w=%v, h=%v (vertical=%v)\n",
		c.Left, c.Top, c.Width, c.Height, c.Vertical)
	s += fmt.Sprintf("   margins=%v\n", c.Margins)
	s += fmt.Sprintf("   borders=%v\n", c.Borders)
	s += fmt.Sprintf("   paddings=%v\n", c.Paddings)
	s += "}"
	return s
}
