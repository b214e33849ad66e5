// Package dimen implements dimensions, units and CSS pixel conversion.
//
/*
BSD License

Copyright (c) 2017–22, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Dimen is a dimension type.
// Values are in scaled big points. One CSS pixel equals one big point.
type Dimen int32

// Units
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // CSS pixel, treated like BP
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Px returns a dimension in CSS pixels.
func (d Dimen) Px() float64 {
	return float64(d) / float64(PX)
}

// Px converts a (fractional) number of CSS pixels to a dimension.
func Px(px float64) Dimen {
	return Dimen(math.Round(px * float64(PX)))
}

// CSS formats a dimension as a CSS pixel length, e.g. "12px" or "0.5px".
func (d Dimen) CSS() string {
	return strconv.FormatFloat(d.Px(), 'f', -1, 64) + "px"
}

// Point is a point on a page.
type Point struct {
	X, Y Dimen
}

// Rect is a rectangle (on a page).
type Rect struct {
	TopL, BotR Point
}

// Width returns the difference between x-coordinates of bottom-right and
// top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the difference between y-coordinates of bottom-right and
// top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// Offset returns r moved by (dx, dy).
func (r Rect) Offset(dx, dy Dimen) Rect {
	return Rect{
		TopL: Point{r.TopL.X + dx, r.TopL.Y + dy},
		BotR: Point{r.BotR.X + dx, r.BotR.Y + dy},
	}
}

// RectWH creates a rectangle from its top-left corner and extent.
func RectWH(x, y, w, h Dimen) Rect {
	return Rect{TopL: Point{x, y}, BotR: Point{x + w, y + h}}
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)(%|[a-zA-Z]{2})?$`)

// ErrFormat is returned for strings which are not CSS dimensions.
var ErrFormat = errors.New("format error parsing dimension")

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit.
// If a percentage value is given (`80%`), the second return value will be true
// and the dimension holds the percentage.
// Unitless numbers other than 0 are taken as scaled points.
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(d) < 2 {
		return 0, false, ErrFormat
	}
	scale := SP
	ispcnt := false
	switch strings.ToLower(d[2]) {
	case "pt":
		scale = PT
	case "mm":
		scale = MM
	case "bp", "px":
		scale = BP
	case "cm":
		scale = CM
	case "in":
		scale = IN
	case "sp", "":
		scale = SP
	case "%":
		scale, ispcnt = 1, true
	default:
		return 0, false, ErrFormat
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, ErrFormat
	}
	return Dimen(math.Round(n * float64(scale))), ispcnt, nil
}
