/*
Package layout assembles pages.

A Page holds the view tree of one output page. While content is laid out
into it, layout code registers elements carrying IDs and records style
writes which have to wait until the page is complete. Finishing a page
applies these writes, measures the page and wires interactive triggers
("on click of #a, show #b") between registered elements.

Pages are event targets. Listeners receive hyperlink events of the page as
well as events fired at elements of the page.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.layout'.
func tracer() tracing.Trace {
	return tracing.Select("folio.layout")
}
