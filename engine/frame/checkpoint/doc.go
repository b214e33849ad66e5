/*
Package checkpoint persists layout positions.

A flow.LayoutPosition references nodes of source documents by pointer. To
store it, Encode converts it into a LayoutRecord, which references nodes by
document URL and XPath location path. A Decoder resolves these paths
against loaded documents and rebuilds an equivalent layout position:

	rec, err := checkpoint.Encode(lp, doc)
	data, err := checkpoint.ToYAML(rec)
	...
	rec, err = checkpoint.FromYAML(data)
	lp, err = (&checkpoint.Decoder{Main: doc}).Decode(rec)

Flow chunks are stored once per record and referenced by index, so chunks
shared between flow positions stay shared after decoding.

Store keeps records of layout sessions in an SQLite database, one record
per page, enabling layout to restart at an arbitrary page.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package checkpoint

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.checkpoint'.
func tracer() tracing.Trace {
	return tracing.Select("folio.checkpoint")
}
