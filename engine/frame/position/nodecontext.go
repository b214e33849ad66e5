package position

import (
	"fmt"
	"strings"

	"github.com/npillmayer/folio/core/dimen"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// FloatReference is the reference area of a float.
type FloatReference uint8

// Float references
const (
	FloatInline FloatReference = iota
	FloatColumn
	FloatRegion
	FloatPage
)

func (fr FloatReference) String() string {
	switch fr {
	case FloatInline:
		return "inline"
	case FloatColumn:
		return "column"
	case FloatRegion:
		return "region"
	case FloatPage:
		return "page"
	}
	return fmt.Sprintf("FloatReference(%d)", fr)
}

// FirstPseudo tracks ::first-letter and ::first-line processing.
// Count 0 denotes first-letter, higher counts the number of first lines.
type FirstPseudo struct {
	Outer *FirstPseudo
	Count int
}

// NewFirstPseudo creates a first-pseudo record nested in outer.
func NewFirstPseudo(outer *FirstPseudo, count int) *FirstPseudo {
	return &FirstPseudo{Outer: outer, Count: count}
}

// NodeContext is a layout cursor for a node of a source document. See the
// package documentation for the sharing protocol.
//
// Fields in the first group describe the position, the others carry view
// properties computed while laying out the node. Properties marked as
// inherited are taken from the parent on creation.
type NodeContext struct {
	SourceNode    *html.Node
	Parent        *NodeContext
	BoxOffset     int  // offset of the box within the parent
	OffsetInNode  int  // rune offset into text, or child index
	After         bool // the node has been fully processed
	ShadowType    ShadowType
	ShadowContext *ShadowContext // inherited
	NodeShadow    *ShadowContext
	ShadowSibling *NodeContext
	FragmentIndex int

	Inline                     bool
	Overflow                   bool
	BreakPenalty               int // inherited
	Display                    string
	FloatReference             FloatReference
	FloatSide                  string
	ClearSide                  string
	FloatMinWrapBlock          string // unresolved CSS length
	ColumnSpan                 string
	VerticalAlign              string
	CaptionSide                string
	InlineBorderSpacing        dimen.Dimen
	BlockBorderSpacing         dimen.Dimen
	FlexContainer              bool
	Whitespace                 Whitespace // inherited, root contexts ignore whitespace
	HyphenateCharacter         string     // inherited
	BreakWord                  bool       // inherited
	EstablishesBFC             bool
	ContainingBlockForAbsolute bool
	BreakBefore                string
	BreakAfter                 string
	ViewNode                   *html.Node
	ClearSpacer                *html.Node
	InheritedProps             map[string]string // inherited
	Vertical                   bool              // inherited
	Direction                  bidi.Direction    // inherited
	FirstPseudo                *FirstPseudo      // inherited
	Lang                       language.Tag      // inherited
	PreprocessedTextContent    []Change
	FormattingContext          FormattingContext // inherited
	RepeatOnBreak              bool
	PluginProps                map[string]interface{}
	AfterIfContinues           interface{}
	FootnotePolicy             string

	shared bool
}

// NewNodeContext creates a cursor for source node, inheriting properties
// from parent (which may be nil). Language and direction are taken from
// the node's lang and dir attributes, if present.
func NewNodeContext(source *html.Node, parent *NodeContext, boxOffset int) *NodeContext {
	nc := &NodeContext{
		SourceNode:    source,
		Parent:        parent,
		BoxOffset:     boxOffset,
		VerticalAlign: "baseline",
		CaptionSide:   "top",
		Direction:     bidi.LeftToRight,
	}
	if parent != nil {
		nc.ShadowContext = parent.ShadowContext
		nc.InheritedProps = parent.InheritedProps
		nc.Direction = parent.Direction
		nc.FirstPseudo = parent.FirstPseudo
		nc.Lang = parent.Lang
	} else {
		nc.InheritedProps = make(map[string]string)
	}
	nc.ResetView()
	if lang, ok := attr(source, "lang"); ok {
		if tag, err := language.Parse(lang); err == nil {
			nc.Lang = tag
		} else {
			tracer().Debugf("ignoring lang attribute %q: %v", lang, err)
		}
	}
	if dir, ok := attr(source, "dir"); ok {
		switch strings.ToLower(dir) {
		case "ltr":
			nc.Direction = bidi.LeftToRight
		case "rtl":
			nc.Direction = bidi.RightToLeft
		}
	}
	return nc
}

// ResetView resets the position inside the node and all properties computed
// for a view node. Inherited properties are taken from the parent again.
func (nc *NodeContext) ResetView() {
	nc.Inline = true
	nc.BreakPenalty = 0
	nc.Whitespace = WhitespaceIgnore
	nc.HyphenateCharacter = ""
	nc.BreakWord = false
	nc.Vertical = false
	nc.FormattingContext = nil
	if p := nc.Parent; p != nil {
		nc.BreakPenalty = p.BreakPenalty
		nc.Whitespace = p.Whitespace
		nc.HyphenateCharacter = p.HyphenateCharacter
		nc.BreakWord = p.BreakWord
		nc.Vertical = p.Vertical
		nc.FormattingContext = p.FormattingContext
	}
	nc.ViewNode = nil
	nc.ClearSpacer = nil
	nc.OffsetInNode = 0
	nc.After = false
	nc.Display = ""
	nc.FloatReference = FloatInline
	nc.FloatSide = ""
	nc.ClearSide = ""
	nc.FloatMinWrapBlock = ""
	nc.ColumnSpan = ""
	nc.VerticalAlign = "baseline"
	nc.FlexContainer = false
	nc.BreakBefore = ""
	nc.BreakAfter = ""
	nc.NodeShadow = nil
	nc.EstablishesBFC = false
	nc.ContainingBlockForAbsolute = false
	nc.PreprocessedTextContent = nil
	nc.RepeatOnBreak = false
	nc.PluginProps = make(map[string]interface{})
	nc.FragmentIndex = 1
	nc.AfterIfContinues = nil
	nc.FootnotePolicy = ""
}

func attr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val, true
		}
	}
	return "", false
}

// IsShared is true if nc is frozen and must not be mutated.
func (nc *NodeContext) IsShared() bool {
	return nc.shared
}

// cloneItem copies nc without its ancestors. The copy is not shared.
func (nc *NodeContext) cloneItem() *NodeContext {
	c := *nc
	c.shared = false
	c.PluginProps = make(map[string]interface{}, len(nc.PluginProps))
	for k, v := range nc.PluginProps {
		c.PluginProps[k] = v
	}
	return &c
}

// Modify returns nc itself if it is not shared, or else an unshared copy
// of nc. The copy has the same parent as nc.
func (nc *NodeContext) Modify() *NodeContext {
	if nc.shared {
		tracer().Debugf("copy on write of %v", nc)
		return nc.cloneItem()
	}
	return nc
}

// Copy marks nc and all of its ancestors as shared and returns nc.
// Marking stops at the first ancestor already shared.
func (nc *NodeContext) Copy() *NodeContext {
	for p := nc; p != nil && !p.shared; p = p.Parent {
		p.shared = true
	}
	return nc
}

// Clone creates an unshared deep copy of nc and all of its ancestors.
func (nc *NodeContext) Clone() *NodeContext {
	c := nc.cloneItem()
	for cur := c; cur.Parent != nil; cur = cur.Parent {
		cur.Parent = cur.Parent.cloneItem()
	}
	return c
}

// Depth returns the number of contexts in the chain, including nc.
func (nc *NodeContext) Depth() int {
	d := 0
	for p := nc; p != nil; p = p.Parent {
		d++
	}
	return d
}

// --- Queries ---------------------------------------------------------------

// IsInsideBFC is true if an ancestor of nc establishes a block formatting
// context.
func (nc *NodeContext) IsInsideBFC() bool {
	for p := nc.Parent; p != nil; p = p.Parent {
		if p.EstablishesBFC {
			return true
		}
	}
	return false
}

// AbsoluteContainingBlock returns the nearest ancestor acting as a
// containing block for absolutely positioned boxes, or nil.
func (nc *NodeContext) AbsoluteContainingBlock() *NodeContext {
	for p := nc.Parent; p != nil; p = p.Parent {
		if p.ContainingBlockForAbsolute {
			return p
		}
	}
	return nil
}

// WalkUpBlocks calls fn for nc and each of its ancestors which are not
// inline, innermost first.
func (nc *NodeContext) WalkUpBlocks(fn func(*NodeContext)) {
	for p := nc; p != nil; p = p.Parent {
		if !p.Inline {
			fn(p)
		}
	}
}

// BelongsTo is true if nc and its parent both are in formatting context fc.
func (nc *NodeContext) BelongsTo(fc FormattingContext) bool {
	return nc.FormattingContext == fc && nc.Parent != nil && nc.Parent.FormattingContext == fc
}

func (nc *NodeContext) String() string {
	if nc == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("nc[")
	b.WriteString(nodeName(nc.SourceNode))
	fmt.Fprintf(&b, "@%d", nc.OffsetInNode)
	if nc.After {
		b.WriteString(" after")
	}
	if nc.shared {
		b.WriteString(" shared")
	}
	b.WriteString("]")
	return b.String()
}

func nodeName(n *html.Node) string {
	if n == nil {
		return "-"
	}
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	}
	return n.Data
}
