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
	"seehuhn.de/go/geom/vec"
)

func bMatrix(intp *Interpreter) error {
	intp.push(matrixArray(matrix.Identity))
	return nil
}

func bIdentmatrix(intp *Interpreter) error {
	_, a, err := intp.popMatrix()
	if err != nil {
		return err
	}
	if err := intp.setMatrix(a, matrix.Identity); err != nil {
		return err
	}
	intp.push(a)
	return nil
}

func bCurrentmatrix(intp *Interpreter) error {
	_, a, err := intp.popMatrix()
	if err != nil {
		return err
	}
	if err := intp.setMatrix(a, intp.gs.CTM); err != nil {
		return err
	}
	intp.push(a)
	return nil
}

func bDefaultmatrix(intp *Interpreter) error {
	_, a, err := intp.popMatrix()
	if err != nil {
		return err
	}
	if err := intp.setMatrix(a, matrix.Identity); err != nil {
		return err
	}
	intp.push(a)
	return nil
}

func bSetmatrix(intp *Interpreter) error {
	M, _, err := intp.popMatrix()
	if err != nil {
		return err
	}
	intp.gs.CTM = M
	return nil
}

func bInitmatrix(intp *Interpreter) error {
	intp.gs.CTM = matrix.Identity
	return nil
}

// bConcat replaces the CTM by M × CTM.
func bConcat(intp *Interpreter) error {
	M, _, err := intp.popMatrix()
	if err != nil {
		return err
	}
	intp.gs.CTM = M.Mul(intp.gs.CTM)
	return nil
}

func bConcatmatrix(intp *Interpreter) error {
	if err := intp.need(3); err != nil {
		return err
	}
	n := len(intp.Stack)
	_, m1, err := intp.asMatrix(intp.Stack[n-3])
	if err != nil {
		return err
	}
	_, m2, err := intp.asMatrix(intp.Stack[n-2])
	if err != nil {
		return err
	}
	a3, _, err := intp.asMatrix(intp.Stack[n-1])
	if err != nil {
		return err
	}
	if err := intp.setMatrix(a3, m1.Mul(m2)); err != nil {
		return err
	}
	intp.drop(3)
	intp.push(a3)
	return nil
}

func bInvertmatrix(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	n := len(intp.Stack)
	_, m1, err := intp.asMatrix(intp.Stack[n-2])
	if err != nil {
		return err
	}
	a2, _, err := intp.asMatrix(intp.Stack[n-1])
	if err != nil {
		return err
	}
	inv, ok := invert(m1)
	if !ok {
		return intp.e(NoninvertibleTransform, "matrix is not invertible")
	}
	if err := intp.setMatrix(a2, inv); err != nil {
		return err
	}
	intp.drop(2)
	intp.push(a2)
	return nil
}

// popPointAndMatrix implements the operand conventions shared by
// transform, itransform, dtransform and idtransform: either "x y" or
// "x y matrix".
func (intp *Interpreter) popPointAndMatrix() (vec.Vec2, matrix.Matrix, error) {
	M := intp.gs.CTM
	skip := 0
	if obj, err := intp.top(0); err == nil && isMatrix(obj) {
		_, M, _ = intp.asMatrix(obj)
		skip = 1
	}
	if err := intp.need(2 + skip); err != nil {
		return vec.Vec2{}, M, err
	}
	n := len(intp.Stack) - skip
	x, ok1 := toFloat(intp.Stack[n-2])
	y, ok2 := toFloat(intp.Stack[n-1])
	if !ok1 || !ok2 {
		return vec.Vec2{}, M, intp.e(TypeMismatch, "expected two numbers")
	}
	intp.drop(2 + skip)
	return vec.Vec2{X: x, Y: y}, M, nil
}

func (intp *Interpreter) pushPoint(p vec.Vec2) {
	intp.push(Real(p.X), Real(p.Y))
}

func bTransform(intp *Interpreter) error {
	p, M, err := intp.popPointAndMatrix()
	if err != nil {
		return err
	}
	intp.pushPoint(apply(M, p))
	return nil
}

func bItransform(intp *Interpreter) error {
	p, M, err := intp.popPointAndMatrix()
	if err != nil {
		return err
	}
	inv, ok := invert(M)
	if !ok {
		return intp.e(NoninvertibleTransform, "matrix is not invertible")
	}
	intp.pushPoint(apply(inv, p))
	return nil
}

func bDtransform(intp *Interpreter) error {
	p, M, err := intp.popPointAndMatrix()
	if err != nil {
		return err
	}
	intp.pushPoint(applyDelta(M, p))
	return nil
}

func bIdtransform(intp *Interpreter) error {
	p, M, err := intp.popPointAndMatrix()
	if err != nil {
		return err
	}
	inv, ok := invert(M)
	if !ok {
		return intp.e(NoninvertibleTransform, "matrix is not invertible")
	}
	intp.pushPoint(applyDelta(inv, p))
	return nil
}

// modifyMatrix implements the two forms of translate, scale and rotate.
// If the top operand is a matrix, the operation is composed with that
// matrix and the result is stored into it.  Otherwise the operation is
// applied to the CTM.  n is the number of numeric operands.
func (intp *Interpreter) modifyMatrix(n int, op func(args []float64) matrix.Matrix) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	if _, isNum := toFloat(obj); !isNum {
		a, M, err := intp.asMatrix(obj)
		if err != nil {
			return err
		}
		if err := intp.need(n + 1); err != nil {
			return err
		}
		args := make([]float64, n)
		base := len(intp.Stack) - 1 - n
		for i := range n {
			x, ok := toFloat(intp.Stack[base+i])
			if !ok {
				return intp.e(TypeMismatch, "expected number, got %T", intp.Stack[base+i])
			}
			args[i] = x
		}
		if err := intp.setMatrix(a, op(args).Mul(M)); err != nil {
			return err
		}
		intp.drop(n + 1)
		intp.push(a)
		return nil
	}

	args, err := intp.popNumbers(n)
	if err != nil {
		return err
	}
	intp.gs.CTM = op(args).Mul(intp.gs.CTM)
	return nil
}

func bTranslate(intp *Interpreter) error {
	return intp.modifyMatrix(2, func(args []float64) matrix.Matrix {
		return matrix.Translate(args[0], args[1])
	})
}

func bScale(intp *Interpreter) error {
	return intp.modifyMatrix(2, func(args []float64) matrix.Matrix {
		return matrix.Scale(args[0], args[1])
	})
}

func bRotate(intp *Interpreter) error {
	return intp.modifyMatrix(1, func(args []float64) matrix.Matrix {
		return matrix.RotateDeg(args[0])
	})
}
