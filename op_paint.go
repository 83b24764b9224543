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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/eps/document"
	"seehuhn.de/go/eps/paint"
)

// paintPath emits the path p as a shape and clears the current path.
// Shapes with transparent paint are dropped.
func (intp *Interpreter) paintPath(p *path.Data, fill, stroke bool, rule document.FillRule) {
	gs := intp.gs
	if p != nil && !p.IsBlank() && !paint.IsTransparent(gs.Paint) && intp.Sink != nil {
		shape := &document.Shape{
			Path:     p,
			FillRule: rule,
			Clip:     clonePath(gs.Clip),
		}
		if fill {
			shape.Fill = gs.Paint
		}
		if stroke {
			shape.Stroke = gs.Paint
			shape.StrokeStyle = gs.strokeStyle()
		}
		intp.Sink.AddObject(shape)
	}
	gs.newPath()
}

func bFill(intp *Interpreter) error {
	intp.paintPath(intp.gs.Path, true, false, document.NonZero)
	return nil
}

func bEofill(intp *Interpreter) error {
	intp.paintPath(intp.gs.Path, true, false, document.EvenOdd)
	return nil
}

func bStroke(intp *Interpreter) error {
	intp.paintPath(intp.gs.Path, false, true, document.NonZero)
	return nil
}

// bRectfill fills rectangles without disturbing the current path.
func bRectfill(intp *Interpreter) error {
	rects, err := intp.popRects()
	if err != nil {
		return err
	}
	return intp.withPath(intp.rectsPath(rects), func() {
		intp.paintPath(intp.gs.Path, true, false, document.NonZero)
	})
}

func bRectstroke(intp *Interpreter) error {
	// an optional matrix operand modifies the line width and dashes
	M := matrix.Identity
	if obj, err := intp.top(0); err == nil && isMatrix(obj) {
		M, _, _ = intp.popMatrix()
	}
	rects, err := intp.popRects()
	if err != nil {
		return err
	}
	return intp.withPath(intp.rectsPath(rects), func() {
		intp.gs.CTM = M.Mul(intp.gs.CTM)
		intp.paintPath(intp.gs.Path, false, true, document.NonZero)
	})
}

// withPath runs fn inside a gsave/grestore pair with p as the current path.
func (intp *Interpreter) withPath(p *path.Data, fn func()) error {
	if err := bGsave(intp); err != nil {
		return err
	}
	intp.gs.Path = p
	fn()
	return bGrestore(intp)
}
