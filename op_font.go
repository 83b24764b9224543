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
	"golang.org/x/exp/maps"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Glyphs are not rendered.  Text operators consume their operands and
// move the current point by an estimated advance width of half an em
// per character.
const estimatedAdvance = 500

var defaultFontMatrix = matrix.Matrix{0.001, 0, 0, 0.001, 0, 0}

// substituteFont returns a font dictionary for a font which is not
// available.
func (intp *Interpreter) substituteFont(name Object) Dict {
	intp.warnOnce("font:"+cvs(name), "font %s not available, text is not rendered", cvs(name))
	font := Dict{
		Name("FontName"):   name,
		Name("FontType"):   Integer(3),
		Name("FontMatrix"): matrixArray(defaultFontMatrix),
		Name("FontBBox"):   NewArray(Integer(0), Integer(0), Integer(1000), Integer(1000)),
		Name("Encoding"):   intp.SystemDict[Name("StandardEncoding")],
	}
	font[Name("FID")] = &fontID{}
	return font
}

// fontID marks a font dictionary as registered.
type fontID struct{}

func (intp *Interpreter) fontMatrix(font Dict) matrix.Matrix {
	if font == nil {
		return defaultFontMatrix
	}
	obj, ok := font[Name("FontMatrix")]
	if !ok {
		return defaultFontMatrix
	}
	_, M, err := intp.asMatrix(obj)
	if err != nil {
		return defaultFontMatrix
	}
	return M
}

func bFindfont(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	key, ok := dictKey(obj)
	if !ok {
		return intp.e(TypeMismatch, "invalid font name %T", obj)
	}
	if font, ok := intp.FontDirectory[key].(Dict); ok {
		intp.push(font)
		return nil
	}
	font := intp.substituteFont(key)
	intp.FontDirectory[key] = font
	intp.push(font)
	return nil
}

// transformFont returns a copy of font with the font matrix replaced by
// FontMatrix × M.
func (intp *Interpreter) transformFont(font Dict, M matrix.Matrix) Dict {
	res := maps.Clone(font)
	res[Name("FontMatrix")] = matrixArray(intp.fontMatrix(font).Mul(M))
	return res
}

func bScalefont(intp *Interpreter) error {
	scale, err := intp.popNumber()
	if err != nil {
		return err
	}
	font, err := intp.popDict()
	if err != nil {
		return err
	}
	intp.push(intp.transformFont(font, matrix.Scale(scale, scale)))
	return nil
}

func bMakefont(intp *Interpreter) error {
	M, _, err := intp.popMatrix()
	if err != nil {
		return err
	}
	font, err := intp.popDict()
	if err != nil {
		return err
	}
	intp.push(intp.transformFont(font, M))
	return nil
}

func bSetfont(intp *Interpreter) error {
	font, err := intp.popDict()
	if err != nil {
		return err
	}
	intp.gs.Font = font
	return nil
}

func bCurrentfont(intp *Interpreter) error {
	if intp.gs.Font == nil {
		intp.gs.Font = intp.substituteFont(Name("Courier"))
	}
	intp.push(intp.gs.Font)
	return nil
}

func bDefinefont(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	n := len(intp.Stack)
	key, ok := dictKey(intp.Stack[n-2])
	if !ok {
		return intp.e(TypeMismatch, "invalid font name %T", intp.Stack[n-2])
	}
	font, ok := intp.Stack[n-1].(Dict)
	if !ok {
		return intp.e(TypeMismatch, "expected dictionary, got %T", intp.Stack[n-1])
	}
	if _, ok := font[Name("FID")]; !ok {
		font[Name("FID")] = &fontID{}
	}
	intp.FontDirectory[key] = font
	intp.drop(2)
	intp.push(font)
	return nil
}

func bUndefinefont(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	if key, ok := dictKey(obj); ok {
		delete(intp.FontDirectory, key)
	}
	return nil
}

func bSelectfont(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	var M matrix.Matrix
	if s, ok := toFloat(obj); ok {
		M = matrix.Scale(s, s)
		intp.drop(1)
	} else if M, _, err = intp.popMatrix(); err != nil {
		return err
	}
	if err := bFindfont(intp); err != nil {
		return err
	}
	font, err := intp.popDict()
	if err != nil {
		return err
	}
	intp.gs.Font = intp.transformFont(font, M)
	return nil
}

// == text ===================================================================

// advance returns the estimated width of n characters in user space.
func (intp *Interpreter) advance(n int) vec.Vec2 {
	w := float64(n * estimatedAdvance)
	return applyDelta(intp.fontMatrix(intp.gs.Font), vec.Vec2{X: w})
}

// showText moves the current point past the text s.  extra is added
// once per character, adjust once for the whole string.
func (intp *Interpreter) showText(s String, extra, adjust vec.Vec2) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	intp.warnOnce("show", "text is not rendered")
	n := len(s.Data)
	d := intp.advance(n).Add(extra.Mul(float64(n))).Add(adjust)
	gs := intp.gs
	gs.CurrentPoint = gs.CurrentPoint.Add(applyDelta(gs.CTM, d))
	return nil
}

// popTextOperands checks the operands of a text operator: the string on
// top of the stack and n further numbers below.
func (intp *Interpreter) popTextOperands(n int) (String, []float64, error) {
	if err := intp.need(n + 1); err != nil {
		return String{}, nil, err
	}
	top := len(intp.Stack) - 1
	s, ok := intp.Stack[top].(String)
	if !ok {
		return String{}, nil, intp.e(TypeMismatch, "expected string, got %T", intp.Stack[top])
	}
	args := make([]float64, n)
	for i := range n {
		obj := intp.Stack[top-n+i]
		x, ok := toFloat(obj)
		if !ok {
			return String{}, nil, intp.e(TypeMismatch, "expected number, got %T", obj)
		}
		args[i] = x
	}
	intp.drop(n + 1)
	return s, args, nil
}

func bShow(intp *Interpreter) error {
	s, _, err := intp.popTextOperands(0)
	if err != nil {
		return err
	}
	return intp.showText(s, vec.Vec2{}, vec.Vec2{})
}

func bAshow(intp *Interpreter) error {
	s, a, err := intp.popTextOperands(2)
	if err != nil {
		return err
	}
	return intp.showText(s, vec.Vec2{X: a[0], Y: a[1]}, vec.Vec2{})
}

// charAdjust returns the total displacement added by widthshow for the
// occurrences of the character c in s.
func charAdjust(s String, c float64, d vec.Vec2) vec.Vec2 {
	n := 0
	for _, b := range s.Data {
		if float64(b) == c {
			n++
		}
	}
	return d.Mul(float64(n))
}

func bWidthshow(intp *Interpreter) error {
	s, a, err := intp.popTextOperands(3)
	if err != nil {
		return err
	}
	return intp.showText(s, vec.Vec2{}, charAdjust(s, a[2], vec.Vec2{X: a[0], Y: a[1]}))
}

func bAwidthshow(intp *Interpreter) error {
	s, a, err := intp.popTextOperands(5)
	if err != nil {
		return err
	}
	return intp.showText(s, vec.Vec2{X: a[3], Y: a[4]}, charAdjust(s, a[2], vec.Vec2{X: a[0], Y: a[1]}))
}

func bKshow(intp *Interpreter) error {
	s, err := intp.popString()
	if err != nil {
		return err
	}
	if _, err := intp.popProc(); err != nil {
		return err
	}
	return intp.showText(s, vec.Vec2{}, vec.Vec2{})
}

// bXshow implements xshow, yshow and xyshow.
func bXshow(intp *Interpreter) error {
	// the displacements are given as an array or an encoded number string
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	switch obj.(type) {
	case Array, Procedure, String:
		intp.drop(1)
	default:
		return intp.e(TypeMismatch, "expected array, got %T", obj)
	}
	s, err := intp.popString()
	if err != nil {
		return err
	}
	return intp.showText(s, vec.Vec2{}, vec.Vec2{})
}

func bCharpath(intp *Interpreter) error {
	if _, err := intp.popBoolean(); err != nil {
		return err
	}
	if _, err := intp.popString(); err != nil {
		return err
	}
	intp.warnOnce("charpath", "charpath is not supported")
	return nil
}

func bStringwidth(intp *Interpreter) error {
	s, err := intp.popString()
	if err != nil {
		return err
	}
	w := intp.advance(len(s.Data))
	intp.push(Real(w.X), Real(w.Y))
	return nil
}
