/*
Package position tracks where layout is within a source document.

A NodeContext describes one node of a source document as layout visits it:
the node itself, how far into it layout has come, and the view properties
computed for it. NodeContexts form a chain from the current node up to the
document root, linked via Parent. The chain is the layout cursor.

Layout frequently has to try a placement and undo it. Therefore cursors are
persistent values with copy-on-write semantics:

	saved := nc.Copy()   // freeze nc and all its ancestors
	work := saved.Modify() // work is a private clone of the leaf
	work.OffsetInNode = 42  // saved is unaffected

Copy marks a context and its ancestors as shared; shared contexts must not
be mutated any more. Modify returns the receiver if it is not shared, and an
unshared clone otherwise. Clone deep-copies a whole chain.

NodePosition is a compact, comparable snapshot of a cursor, consisting of
one NodePositionStep per level of the chain. Node positions are used to
resume layout on subsequent pages and to detect when layout does not make
progress.

Content may live in shadow trees (generated content, templates, included
documents). ShadowContext describes such a tree and its relation to the
element hosting it.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package position

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.position'.
func tracer() tracing.Trace {
	return tracing.Select("folio.position")
}
