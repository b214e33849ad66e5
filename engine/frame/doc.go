/*
Package frame deals with the geometry of layout containers.

Layout may be understood as the process of placing boxes within larger
boxes. A Container is the box a layout process fills: a page area, a column,
a float, a footnote area. Containers follow the CSS box model, with margins,
borders and paddings surrounding a content area.

Containers know their writing mode. Block-progression is top-to-bottom for
horizontal writing modes and right-to-left for vertical ones. Layout code is
written in terms of logical edges (before, after, start, end) and uses the
container to map these to physical ones.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package frame

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.frame'.
func tracer() tracing.Trace {
	return tracing.Select("folio.frame")
}
