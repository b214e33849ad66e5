/*
Package geom implements polygonal shapes for exclusions and wrap areas.

Shapes are closed polygons with vertices given in CSS pixels. Containers use
them to describe their inner content area (which may be non-rectangular) and
the area they exclude from surrounding content (CSS shape-outside).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package geom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.geom'.
func tracer() tracing.Trace {
	return tracing.Select("folio.geom")
}
