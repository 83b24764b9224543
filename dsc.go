// seehuhn.de/go/eps - import Encapsulated PostScript drawings
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package eps

import (
	"io"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/eps/document"
)

// BoundingBox returns the bounding box declared in the DSC comments read
// so far.  A %%HiResBoundingBox comment takes precedence over
// %%BoundingBox.  Values deferred to the trailer using "(atend)" are
// picked up from the trailer.
func (intp *Interpreter) BoundingBox() (rect.Rect, bool) {
	var bbox, hiRes rect.Rect
	var haveBBox, haveHiRes bool
	for _, c := range intp.DSC {
		switch c.Key {
		case "BoundingBox":
			if r, ok := parseBBox(c.Value); ok {
				bbox, haveBBox = r, true
			}
		case "HiResBoundingBox":
			if r, ok := parseBBox(c.Value); ok {
				hiRes, haveHiRes = r, true
			}
		}
	}
	if haveHiRes {
		return hiRes, true
	}
	return bbox, haveBBox
}

func parseBBox(s string) (rect.Rect, bool) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return rect.Rect{}, false
	}
	var x [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return rect.Rect{}, false
		}
		x[i] = v
	}
	r := rect.Rect{
		LLx: min(x[0], x[2]),
		LLy: min(x[1], x[3]),
		URx: max(x[0], x[2]),
		URy: max(x[1], x[3]),
	}
	return r, true
}

// Import runs the EPS file read from r and returns the resulting drawing.
// The document bounding box is taken from the DSC comments.
//
// If an error occurs, the partial drawing is returned together with the
// error.
func Import(r io.Reader) (*document.Document, error) {
	intp := NewInterpreter()
	err := intp.Execute(r)
	doc := intp.Document()
	if bbox, ok := intp.BoundingBox(); ok {
		doc.BoundingBox = bbox
	}
	return doc, err
}
