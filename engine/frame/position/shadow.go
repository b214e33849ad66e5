package position

import (
	"fmt"

	"github.com/npillmayer/folio/core"
	"golang.org/x/net/html"
)

// ShadowType tells how a node relates to shadow trees.
type ShadowType uint8

// Shadow types
const (
	ShadowNone     ShadowType = iota // not a shadow host
	ShadowContent                    // content insertion point of a shadow tree
	ShadowRootless                   // host of a shadow tree without a root element
	ShadowRooted                     // host of a shadow tree with a root element
)

var shadowTypeNames = [...]string{"none", "content", "rootless", "rooted"}

func (st ShadowType) String() string {
	if int(st) < len(shadowTypeNames) {
		return shadowTypeNames[st]
	}
	return fmt.Sprintf("ShadowType(%d)", st)
}

// ParseShadowType returns the shadow type for one of the names
// "none", "content", "rootless" or "rooted".
func ParseShadowType(s string) (ShadowType, error) {
	for i, name := range shadowTypeNames {
		if name == s {
			return ShadowType(i), nil
		}
	}
	return ShadowNone, core.Error(core.EINVALID, "unknown shadow type %q", s)
}

// Document is a handle for a source document.
type Document struct {
	URL  string
	Root *html.Node // document node
}

// Styler is an opaque handle to the style resolver responsible for a
// shadow tree. Its methods are of no concern to this package.
type Styler interface{}

// ShadowContext describes a shadow tree attached to a host element.
type ShadowContext struct {
	Owner        *html.Node     // host element
	Root         *html.Node     // root of the shadow tree
	Doc          *Document      // document the shadow tree originates from
	ParentShadow *ShadowContext // shadow context the owner lives in
	SubShadow    *ShadowContext // set when another context uses this one as its super shadow
	Type         ShadowType
	Styler       Styler
}

// NewShadowContext creates a shadow context. If superShadow is given, it
// will link back to the new context as its sub-shadow.
func NewShadowContext(owner, root *html.Node, doc *Document, parentShadow,
	superShadow *ShadowContext, typ ShadowType, styler Styler) *ShadowContext {
	//
	sc := &ShadowContext{
		Owner:        owner,
		Root:         root,
		Doc:          doc,
		ParentShadow: parentShadow,
		Type:         typ,
		Styler:       styler,
	}
	if superShadow != nil {
		superShadow.SubShadow = sc
	}
	return sc
}

// Equals compares two shadow contexts structurally: owner, document, type
// and the chain of parent shadows have to match. Roots, stylers and
// sub-shadows are not compared.
func (sc *ShadowContext) Equals(other *ShadowContext) bool {
	if sc == nil || other == nil {
		return sc == other
	}
	return sc.Owner == other.Owner &&
		sc.Doc == other.Doc &&
		sc.Type == other.Type &&
		IsSameShadowContext(sc.ParentShadow, other.ParentShadow)
}

// IsSameShadowContext is true if both are nil, identical or structurally equal.
func IsSameShadowContext(a, b *ShadowContext) bool {
	return a == b || (a != nil && b != nil && a.Equals(b))
}
