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
	"seehuhn.de/go/eps/document"
)

const maxGStateDepth = 100

func bGsave(intp *Interpreter) error {
	if len(intp.gstack) >= maxGStateDepth {
		return intp.e(LimitExceeded, "too many nested gsave operations")
	}
	intp.gstack = append(intp.gstack, intp.gs.clone())
	return nil
}

// bGrestore restores the graphics state saved by the matching gsave.
// Without a saved state, grestore does nothing.
func bGrestore(intp *Interpreter) error {
	n := len(intp.gstack)
	if n == 0 {
		return nil
	}
	intp.gs = intp.gstack[n-1]
	intp.gstack = intp.gstack[:n-1]
	return nil
}

func bGrestoreall(intp *Interpreter) error {
	intp.restoreGState(0)
	return nil
}

// restoreGState returns to the graphics state which was current when
// the gstate stack had the given depth.
func (intp *Interpreter) restoreGState(depth int) {
	if len(intp.gstack) <= depth {
		return
	}
	intp.gs = intp.gstack[depth]
	intp.gstack = intp.gstack[:depth]
}

func bInitgraphics(intp *Interpreter) error {
	intp.gs.init()
	return nil
}

func bGstate(intp *Interpreter) error {
	intp.push(intp.gs.clone())
	return nil
}

func bCurrentgstate(intp *Interpreter) error {
	gs, err := intp.popGState()
	if err != nil {
		return err
	}
	gs.copyFrom(intp.gs)
	intp.push(gs)
	return nil
}

func bSetgstate(intp *Interpreter) error {
	gs, err := intp.popGState()
	if err != nil {
		return err
	}
	intp.gs.copyFrom(gs)
	return nil
}

func bSetlinewidth(intp *Interpreter) error {
	w, err := intp.popNumber()
	if err != nil {
		return err
	}
	if w < 0 {
		w = -w
	}
	intp.gs.LineWidth = w
	return nil
}

func bCurrentlinewidth(intp *Interpreter) error {
	intp.push(Real(intp.gs.LineWidth))
	return nil
}

func bSetlinecap(intp *Interpreter) error {
	c, err := intp.popInteger()
	if err != nil {
		return err
	}
	if c < 0 || c > 2 {
		intp.push(Integer(c))
		return intp.e(IndexOutOfRange, "invalid line cap %d", c)
	}
	intp.gs.LineCap = document.LineCap(c)
	return nil
}

func bCurrentlinecap(intp *Interpreter) error {
	intp.push(Integer(intp.gs.LineCap))
	return nil
}

func bSetlinejoin(intp *Interpreter) error {
	j, err := intp.popInteger()
	if err != nil {
		return err
	}
	if j < 0 || j > 2 {
		intp.push(Integer(j))
		return intp.e(IndexOutOfRange, "invalid line join %d", j)
	}
	intp.gs.LineJoin = document.LineJoin(j)
	return nil
}

func bCurrentlinejoin(intp *Interpreter) error {
	intp.push(Integer(intp.gs.LineJoin))
	return nil
}

func bSetmiterlimit(intp *Interpreter) error {
	m, err := intp.popNumber()
	if err != nil {
		return err
	}
	if m < 1 {
		intp.push(Real(m))
		return intp.e(IndexOutOfRange, "miter limit %g is less than 1", m)
	}
	intp.gs.MiterLimit = m
	return nil
}

func bCurrentmiterlimit(intp *Interpreter) error {
	intp.push(Real(intp.gs.MiterLimit))
	return nil
}

// bSetdash sets the dash pattern.  An empty array selects solid lines.
func bSetdash(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	a, ok := intp.asArray(intp.Stack[len(intp.Stack)-2])
	if !ok {
		return intp.e(TypeMismatch, "expected array, got %T", intp.Stack[len(intp.Stack)-2])
	}
	phase, ok := toFloat(intp.Stack[len(intp.Stack)-1])
	if !ok {
		return intp.e(TypeMismatch, "expected number, got %T", intp.Stack[len(intp.Stack)-1])
	}

	var dash []float64
	allZero := true
	for _, elem := range a.Elems {
		x, ok := toFloat(elem)
		if !ok {
			return intp.e(TypeMismatch, "invalid dash element %T", elem)
		} else if x < 0 {
			return intp.e(IndexOutOfRange, "negative dash length %g", x)
		}
		if x != 0 {
			allZero = false
		}
		dash = append(dash, x)
	}
	if len(dash) > 0 && allZero {
		return intp.e(IndexOutOfRange, "all dash lengths are zero")
	}
	intp.drop(2)
	intp.gs.Dash = dash
	intp.gs.DashPhase = phase
	return nil
}

func bCurrentdash(intp *Interpreter) error {
	elems := make([]Object, len(intp.gs.Dash))
	for i, x := range intp.gs.Dash {
		elems[i] = Real(x)
	}
	intp.push(Array{Elems: elems}, Real(intp.gs.DashPhase))
	return nil
}

func bSetflat(intp *Interpreter) error {
	f, err := intp.popNumber()
	if err != nil {
		return err
	}
	intp.gs.Flatness = max(0.2, min(f, 100))
	return nil
}

func bCurrentflat(intp *Interpreter) error {
	intp.push(Real(intp.gs.Flatness))
	return nil
}

func bSetstrokeadjust(intp *Interpreter) error {
	b, err := intp.popBoolean()
	if err != nil {
		return err
	}
	intp.gs.StrokeAdjust = b
	return nil
}
