package layout

import (
	"fmt"
	"strconv"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/flow"
	"golang.org/x/net/html"
)

// Attributes and properties used during page assembly.
const (
	SpecialAttr             = "data-adapt-spec"
	AutoPageWidthAttribute  = "data-folio-auto-page-width"
	AutoPageHeightAttribute = "data-folio-auto-page-height"
	HyperlinkEvent          = "hyperlink"
)

// DelayedProps are properties which are written to the view tree only when
// a page is finished.
var DelayedProps = []string{"transform", "transform-origin"}

// DelayedPropsIfRelativePositioned are delayed for relatively positioned
// elements only.
var DelayedPropsIfRelativePositioned = []string{"top", "bottom", "left", "right"}

// DelayedItem is a style write postponed until the page is finished.
type DelayedItem struct {
	Target *html.Node
	Name   string
	Value  string
}

// PageSide is the side of a spread a page is placed on.
type PageSide uint8

// Page sides
const (
	SideUnknown PageSide = iota
	SideLeft
	SideRight
)

func (s PageSide) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "unknown"
}

// MarginBoxes holds the page-margin containers, keyed by margin box name
// (e.g. "top-left").
type MarginBoxes struct {
	Top, Bottom, Left, Right map[string]*frame.Container
}

// Dimensions is the measured size of a finished page.
type Dimensions struct {
	Width, Height dimen.Dimen
}

// Page is an output page under assembly.
type Page struct {
	EventTarget
	Container        *html.Node // root of the page's view tree
	BleedBox         *html.Node
	PageAreaElement  *html.Node
	DelayedItems     []DelayedItem
	Dimensions       Dimensions
	IsFirstPage      bool
	IsLastPage       bool
	IsAutoPageWidth  bool
	IsAutoPageHeight bool
	SpineIndex       int                  // index of the source document within the publication
	Position         *flow.LayoutPosition // position at the start of the page
	Offset           int                  // document offset of the page start, -1 if unknown
	Side             PageSide
	MarginBoxes      MarginBoxes
	Media            MediaController
	ids              *idRegistry
}

// NewPage creates a page for a view tree.
func NewPage(container, bleedBox *html.Node) *Page {
	return &Page{
		Container:        container,
		BleedBox:         bleedBox,
		IsAutoPageWidth:  true,
		IsAutoPageHeight: true,
		Offset:           -1,
		MarginBoxes: MarginBoxes{
			Top:    make(map[string]*frame.Container),
			Bottom: make(map[string]*frame.Container),
			Left:   make(map[string]*frame.Container),
			Right:  make(map[string]*frame.Container),
		},
		ids: newIDRegistry(),
	}
}

// SetAutoPageWidth tells if the page width is determined by its content.
func (p *Page) SetAutoPageWidth(isAuto bool) {
	p.IsAutoPageWidth = isAuto
	setFlagAttr(p.Container, AutoPageWidthAttribute, isAuto)
}

// SetAutoPageHeight tells if the page height is determined by its content.
func (p *Page) SetAutoPageHeight(isAuto bool) {
	p.IsAutoPageHeight = isAuto
	setFlagAttr(p.Container, AutoPageHeightAttribute, isAuto)
}

func setFlagAttr(elem *html.Node, key string, set bool) {
	if elem == nil {
		return
	}
	if set {
		frame.SetAttr(elem, key, "true")
	} else {
		frame.RemoveAttr(elem, key)
	}
}

// PageArea returns the element holding the page area, or the page
// container if no page area has been set.
func (p *Page) PageArea() *html.Node {
	if p.PageAreaElement != nil {
		return p.PageAreaElement
	}
	return p.Container
}

// RegisterElementWithID records an element of the page carrying id.
func (p *Page) RegisterElementWithID(elem *html.Node, id string) {
	p.ids.Put(id, elem)
}

// ElementsByID returns the elements registered for id.
func (p *Page) ElementsByID(id string) []*html.Node {
	return p.ids.Get(id)
}

// IDs returns all registered IDs in ascending order.
func (p *Page) IDs() []string {
	return p.ids.IDs()
}

var withID = cascadia.MustCompile("[id]")

// RegisterIDs registers all elements of the page's view tree carrying an
// id attribute.
func (p *Page) RegisterIDs() int {
	n := 0
	for _, elem := range withID.MatchAll(p.Container) {
		if id, ok := frame.Attr(elem, "id"); ok && id != "" {
			p.RegisterElementWithID(elem, id)
			n++
		}
	}
	return n
}

// QueryAll returns all elements of the page matching a CSS selector.
func (p *Page) QueryAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("illegal selector %q: %w", selector, err)
	}
	return sel.MatchAll(p.Container), nil
}

// Delay records a style write to be applied when the page is finished.
func (p *Page) Delay(target *html.Node, name, value string) {
	p.DelayedItems = append(p.DelayedItems, DelayedItem{Target: target, Name: name, Value: value})
}

// Finish completes the page:
// elements which did not end up in the page are unregistered,
// delayed style writes are applied,
// the page is measured, and triggers are wired.
//
// A transform of the page container is skipped for pages with fixed width
// and height, as it is only needed to scale pages of automatic size.
func (p *Page) Finish(triggers []Trigger, client frame.ClientLayout) {
	p.ids.Prune(func(elem *html.Node) bool {
		return contains(p.Container, elem)
	})
	for _, item := range p.DelayedItems {
		if item.Target == p.Container && item.Name == "transform" &&
			!p.IsAutoPageWidth && !p.IsAutoPageHeight {
			continue
		}
		frame.SetStyleProperty(item.Target, item.Name, item.Value)
	}
	if client != nil {
		rect := client.ElementClientRect(p.Container)
		p.Dimensions = Dimensions{Width: rect.Width, Height: rect.Height}
	}
	for _, trigger := range triggers {
		refs := p.ids.Get(trigger.Ref)
		observers := p.ids.Get(trigger.Observer)
		if len(refs) == 0 || len(observers) == 0 {
			continue
		}
		listener := MakeListener(p, refs, trigger.Action)
		if listener == nil {
			continue
		}
		for _, observer := range observers {
			p.AddElementListener(observer, trigger.Event, listener)
		}
	}
	tracer().Debugf("finished page %d (%v x %v), %d ids", p.SpineIndex,
		p.Dimensions.Width, p.Dimensions.Height, p.ids.Length())
}

// contains is true if elem is root or a descendant of root.
func contains(root, elem *html.Node) bool {
	for n := elem; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// Zoom scales the page's view.
func (p *Page) Zoom(scale float64) {
	frame.SetStyleProperty(p.Container, "transform",
		"scale("+strconv.FormatFloat(scale, 'g', -1, 64)+")")
}

// RegisterAnchor makes clicks on anchor dispatch hyperlink events at the page.
func (p *Page) RegisterAnchor(anchor *html.Node) ListenerID {
	return p.AddElementListener(anchor, "click", p.hyperlinkHandler)
}

func (p *Page) hyperlinkHandler(e *Event) error {
	anchor := e.Target
	href, ok := frame.Attr(anchor, "href")
	if !ok || href == "" {
		href = xlinkHref(anchor)
	}
	if href == "" {
		return nil
	}
	p.Post(&Event{Type: HyperlinkEvent, Anchor: anchor, Href: href})
	return nil
}

func xlinkHref(elem *html.Node) string {
	for _, a := range elem.Attr {
		if a.Key == "xlink:href" || (a.Namespace == "xlink" && a.Key == "href") {
			return a.Val
		}
	}
	return ""
}

// Spread is a pair of facing pages.
type Spread struct {
	Left, Right *Page
}

// NonTrivialContent is true for values of CSS property content which
// generate content.
func NonTrivialContent(value string) bool {
	return value != "" && value != "normal" && value != "none" && value != "inherit"
}
