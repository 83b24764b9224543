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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// apply maps a point through M.
func apply(M matrix.Matrix, p vec.Vec2) vec.Vec2 {
	x, y := M.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

// applyDelta maps a distance vector through M, ignoring the translation.
func applyDelta(M matrix.Matrix, d vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: M[0]*d.X + M[2]*d.Y,
		Y: M[1]*d.X + M[3]*d.Y,
	}
}

// invert returns the inverse of M.  The second return value is false if
// M is not invertible.
func invert(M matrix.Matrix) (matrix.Matrix, bool) {
	det := M[0]*M[3] - M[1]*M[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return matrix.Matrix{}, false
	}
	return M.Inv(), true
}

// scaleFactor returns the factor by which M scales lengths, on average.
func scaleFactor(M matrix.Matrix) float64 {
	return math.Sqrt(math.Abs(M[0]*M[3] - M[1]*M[2]))
}

func matrixArray(M matrix.Matrix) Array {
	elems := make([]Object, 6)
	for i, x := range M {
		elems[i] = Real(x)
	}
	return Array{Elems: elems}
}

// setMatrix stores M into the array a.
func (intp *Interpreter) setMatrix(a Array, M matrix.Matrix) error {
	if !a.Access.canWrite() {
		return intp.e(NoWriteAccess, "matrix is read-only")
	}
	for i, x := range M {
		a.Elems[i] = Real(x)
	}
	return nil
}

// inverseCTM returns the inverse of the current transformation matrix.
func (intp *Interpreter) inverseCTM() (matrix.Matrix, error) {
	inv, ok := invert(intp.gs.CTM)
	if !ok {
		return matrix.Matrix{}, intp.e(NoninvertibleTransform, "current matrix is not invertible")
	}
	return inv, nil
}
