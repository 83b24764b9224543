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
	"seehuhn.de/go/eps/paint"
)

// setDeviceColor pops n colour components and makes them the current
// colour in the device colour space cs.  Components are clamped to the
// range [0, 1].
func (intp *Interpreter) setDeviceColor(cs *colorSpace, n int) error {
	c, err := intp.popNumbers(n)
	if err != nil {
		return err
	}
	for i, x := range c {
		c[i] = max(0, min(x, 1))
	}
	intp.gs.setPaint(cs, c)
	return nil
}

func bSetgray(intp *Interpreter) error {
	return intp.setDeviceColor(deviceGray, 1)
}

func bSetrgbcolor(intp *Interpreter) error {
	return intp.setDeviceColor(deviceRGB, 3)
}

func bSetcmykcolor(intp *Interpreter) error {
	return intp.setDeviceColor(deviceCMYK, 4)
}

// bSethsbcolor sets an RGB colour, specified by hue, saturation and
// brightness.
func bSethsbcolor(intp *Interpreter) error {
	c, err := intp.popNumbers(3)
	if err != nil {
		return err
	}
	rgb := paint.NewHSB(c[0], c[1], c[2]).ToRGB()
	intp.gs.setPaint(deviceRGB, []float64{rgb.R, rgb.G, rgb.B})
	return nil
}

func bCurrentgray(intp *Interpreter) error {
	g := intp.currentPaint().ToGray()
	intp.push(Real(g.Y))
	return nil
}

func bCurrentrgbcolor(intp *Interpreter) error {
	c := intp.currentPaint().ToRGB()
	intp.push(Real(c.R), Real(c.G), Real(c.B))
	return nil
}

func bCurrentcmykcolor(intp *Interpreter) error {
	c := intp.currentPaint().ToCMYK()
	intp.push(Real(c.C), Real(c.M), Real(c.Y), Real(c.K))
	return nil
}

func bCurrenthsbcolor(intp *Interpreter) error {
	c := intp.currentPaint().ToHSB()
	intp.push(Real(c.H), Real(c.S), Real(c.B))
	return nil
}

// currentPaint returns the current paint.  For colour spaces which cannot
// be represented, black is used.
func (intp *Interpreter) currentPaint() paint.Paint {
	p := intp.gs.Paint
	if paint.IsTransparent(p) {
		return paint.Black
	}
	return p
}

func bSetcolorspace(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	cs, err := intp.resolveColorSpace(obj)
	if err != nil {
		return err
	}
	intp.drop(1)
	c := cs.initialColor()
	p, err := intp.paintFor(cs, c)
	if err != nil {
		return err
	}
	intp.gs.setPaint(cs, c)
	intp.gs.Paint = p
	return nil
}

func bCurrentcolorspace(intp *Interpreter) error {
	cs := intp.gs.cs
	switch obj := cs.obj.(type) {
	case Array:
		intp.push(obj)
	case Procedure:
		intp.push(Array{Elems: obj})
	default:
		intp.push(Array{Elems: []Object{cs.family}})
	}
	return nil
}

// bSetcolor sets the colour in the current colour space.  For patterns,
// the operand is discarded and painting becomes invisible.
func bSetcolor(intp *Interpreter) error {
	cs := intp.gs.cs
	if cs.model == modelPattern || cs.model == modelUnknown {
		if err := intp.need(1); err != nil {
			return err
		}
		if _, isDict := intp.Stack[len(intp.Stack)-1].(Dict); isDict || cs.model == modelUnknown {
			intp.drop(1)
		}
		intp.gs.color = nil
		intp.gs.Paint = paint.Transparent{}
		return nil
	}

	c, err := intp.popNumbers(cs.nComp)
	if err != nil {
		return err
	}
	if cs.model != modelIndexed {
		for i, x := range c {
			c[i] = max(0, min(x, 1))
		}
	}
	p, err := intp.paintFor(cs, c)
	if err != nil {
		return err
	}
	intp.gs.color = c
	intp.gs.Paint = p
	return nil
}

func bCurrentcolor(intp *Interpreter) error {
	for _, x := range intp.gs.color {
		if intp.gs.cs.model == modelIndexed {
			intp.push(Integer(x))
		} else {
			intp.push(Real(x))
		}
	}
	return nil
}

func bSettransfer(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	switch proc := obj.(type) {
	case Procedure:
		if len(proc) == 0 {
			proc = nil
		}
		intp.gs.Transfer = proc
	default:
		intp.push(obj)
		return intp.e(TypeMismatch, "expected procedure, got %T", obj)
	}
	return nil
}

func bCurrenttransfer(intp *Interpreter) error {
	if intp.gs.Transfer == nil {
		intp.push(Procedure{})
	} else {
		intp.push(intp.gs.Transfer)
	}
	return nil
}

// applyTransfer maps a gray level through the transfer function.
func (intp *Interpreter) applyTransfer(y float64) (float64, error) {
	if intp.gs.Transfer == nil {
		return y, nil
	}
	intp.push(Real(y))
	if err := intp.execProc(intp.gs.Transfer); err != nil {
		return 0, err
	}
	return intp.popNumber()
}
