/*
Package flow models how content is distributed to pages.

Content of a document is organized into named flows. Each flow is made of
chunks, i.e. elements assigned to the flow, ordered by their offset within
the source document. While paginating, layout keeps a LayoutPosition: for
every flow, the list of chunks not yet fully laid out, each with the node
position where layout has to resume.

Layout positions are values. Before trying to fill a page, layout clones the
position and works on the clone; if the attempt is discarded, the original
is still intact. Chunks themselves are shared between clones.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package flow

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.flow'.
func tracer() tracing.Trace {
	return tracing.Select("folio.flow")
}
