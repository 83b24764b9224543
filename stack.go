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
)

const (
	maxOperandStackDepth    = 500
	maxDictionaryStackDepth = 20
	maxArraySize            = 65536
	maxStringSize           = 65535
)

func (intp *Interpreter) push(objs ...Object) {
	intp.Stack = append(intp.Stack, objs...)
}

// need checks that at least n operands are on the stack.
func (intp *Interpreter) need(n int) error {
	if len(intp.Stack) < n {
		return intp.e(StackUnderflow, "need %d operands, have %d", n, len(intp.Stack))
	}
	return nil
}

// top returns the operand at position i below the top of the stack,
// without removing it.
func (intp *Interpreter) top(i int) (Object, error) {
	if err := intp.need(i + 1); err != nil {
		return nil, err
	}
	return intp.Stack[len(intp.Stack)-1-i], nil
}

func (intp *Interpreter) drop(n int) {
	intp.Stack = intp.Stack[:len(intp.Stack)-n]
}

func (intp *Interpreter) pop() (Object, error) {
	obj, err := intp.top(0)
	if err != nil {
		return nil, err
	}
	intp.drop(1)
	return obj, nil
}

// popNumber removes a number from the stack.
// Integers are converted to float64.
func (intp *Interpreter) popNumber() (float64, error) {
	obj, err := intp.top(0)
	if err != nil {
		return 0, err
	}
	x, ok := toFloat(obj)
	if !ok {
		return 0, intp.e(TypeMismatch, "expected number, got %T", obj)
	}
	intp.drop(1)
	return x, nil
}

// popNumbers removes n numbers from the stack and returns them in
// the order in which they were pushed.
func (intp *Interpreter) popNumbers(n int) ([]float64, error) {
	if err := intp.need(n); err != nil {
		return nil, err
	}
	res := make([]float64, n)
	base := len(intp.Stack) - n
	for i := range n {
		x, ok := toFloat(intp.Stack[base+i])
		if !ok {
			return nil, intp.e(TypeMismatch, "expected number, got %T", intp.Stack[base+i])
		}
		res[i] = x
	}
	intp.drop(n)
	return res, nil
}

func (intp *Interpreter) popInteger() (int, error) {
	obj, err := intp.top(0)
	if err != nil {
		return 0, err
	}
	x, ok := obj.(Integer)
	if !ok {
		return 0, intp.e(TypeMismatch, "expected integer, got %T", obj)
	}
	intp.drop(1)
	return int(x), nil
}

func (intp *Interpreter) popBoolean() (bool, error) {
	obj, err := intp.top(0)
	if err != nil {
		return false, err
	}
	b, ok := obj.(Boolean)
	if !ok {
		return false, intp.e(TypeMismatch, "expected boolean, got %T", obj)
	}
	intp.drop(1)
	return bool(b), nil
}

func (intp *Interpreter) popString() (String, error) {
	obj, err := intp.top(0)
	if err != nil {
		return String{}, err
	}
	s, ok := obj.(String)
	if !ok {
		return String{}, intp.e(TypeMismatch, "expected string, got %T", obj)
	}
	intp.drop(1)
	return s, nil
}

// popArray removes an array from the stack.  Procedures are accepted
// and returned as arrays sharing the same storage.
func (intp *Interpreter) popArray() (Array, error) {
	obj, err := intp.top(0)
	if err != nil {
		return Array{}, err
	}
	var a Array
	switch obj := obj.(type) {
	case Array:
		a = obj
	case Procedure:
		a = Array{Elems: obj}
	default:
		return Array{}, intp.e(TypeMismatch, "expected array, got %T", obj)
	}
	intp.drop(1)
	return a, nil
}

func (intp *Interpreter) popProc() (Procedure, error) {
	obj, err := intp.top(0)
	if err != nil {
		return nil, err
	}
	p, ok := obj.(Procedure)
	if !ok {
		return nil, intp.e(TypeMismatch, "expected procedure, got %T", obj)
	}
	intp.drop(1)
	return p, nil
}

func (intp *Interpreter) popDict() (Dict, error) {
	obj, err := intp.top(0)
	if err != nil {
		return nil, err
	}
	d, ok := obj.(Dict)
	if !ok {
		return nil, intp.e(TypeMismatch, "expected dictionary, got %T", obj)
	}
	intp.drop(1)
	return d, nil
}

// popName removes a name from the stack.  Strings and executable names
// are converted to names.
func (intp *Interpreter) popName() (Name, error) {
	obj, err := intp.top(0)
	if err != nil {
		return "", err
	}
	var n Name
	switch obj := obj.(type) {
	case Name:
		n = obj
	case Operator:
		n = Name(obj)
	case String:
		n = Name(obj.Data)
	default:
		return "", intp.e(TypeMismatch, "expected name, got %T", obj)
	}
	intp.drop(1)
	return n, nil
}

func (intp *Interpreter) popFile() (*File, error) {
	obj, err := intp.top(0)
	if err != nil {
		return nil, err
	}
	f, ok := obj.(*File)
	if !ok {
		return nil, intp.e(TypeMismatch, "expected file, got %T", obj)
	}
	intp.drop(1)
	return f, nil
}

func (intp *Interpreter) popGState() (*GState, error) {
	obj, err := intp.top(0)
	if err != nil {
		return nil, err
	}
	gs, ok := obj.(*GState)
	if !ok {
		return nil, intp.e(TypeMismatch, "expected gstate, got %T", obj)
	}
	intp.drop(1)
	return gs, nil
}

// popMatrix removes a six element array of numbers from the stack.
// The array is returned as well, so that results can be stored into it.
func (intp *Interpreter) popMatrix() (matrix.Matrix, Array, error) {
	obj, err := intp.top(0)
	if err != nil {
		return matrix.Matrix{}, Array{}, err
	}
	a, M, err := intp.asMatrix(obj)
	if err != nil {
		return matrix.Matrix{}, Array{}, err
	}
	intp.drop(1)
	return M, a, nil
}

func (intp *Interpreter) asMatrix(obj Object) (Array, matrix.Matrix, error) {
	var a Array
	switch obj := obj.(type) {
	case Array:
		a = obj
	case Procedure:
		a = Array{Elems: obj}
	default:
		return Array{}, matrix.Matrix{}, intp.e(TypeMismatch, "expected matrix, got %T", obj)
	}
	if len(a.Elems) != 6 {
		return Array{}, matrix.Matrix{}, intp.e(InvalidFormat, "matrix must have 6 elements, not %d", len(a.Elems))
	}
	var M matrix.Matrix
	for i, x := range a.Elems {
		v, ok := toFloat(x)
		if !ok {
			return Array{}, matrix.Matrix{}, intp.e(TypeMismatch, "invalid matrix element %T", x)
		}
		M[i] = v
	}
	return a, M, nil
}

// isMatrix reports whether obj can be used as a matrix operand.
func isMatrix(obj Object) bool {
	var elems []Object
	switch obj := obj.(type) {
	case Array:
		elems = obj.Elems
	case Procedure:
		elems = obj
	default:
		return false
	}
	if len(elems) != 6 {
		return false
	}
	for _, x := range elems {
		if _, ok := toFloat(x); !ok {
			return false
		}
	}
	return true
}

func toFloat(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case Integer:
		return float64(obj), true
	case Real:
		return float64(obj), true
	default:
		return 0, false
	}
}

// == dictionary stack =======================================================

// where returns the innermost dictionary on the dictionary stack which
// contains key.
func (intp *Interpreter) where(key Object) (Dict, bool) {
	key, ok := dictKey(key)
	if !ok {
		return nil, false
	}
	for j := len(intp.DictStack) - 1; j >= 0; j-- {
		d := intp.DictStack[j]
		if _, ok := d[key]; ok {
			return d, true
		}
	}
	return nil, false
}

// load looks up key in the dictionary stack.
func (intp *Interpreter) load(key Object) (Object, error) {
	k, ok := dictKey(key)
	if !ok {
		return nil, intp.e(TypeMismatch, "invalid key %T", key)
	}
	for j := len(intp.DictStack) - 1; j >= 0; j-- {
		if val, ok := intp.DictStack[j][k]; ok {
			return val, nil
		}
	}
	return nil, intp.e(UnknownOperator, "%v not found", k)
}

// store replaces the value of key in the innermost dictionary which
// contains key.  If no dictionary contains key, the value is stored in
// the current dictionary.
func (intp *Interpreter) store(key, val Object) error {
	k, ok := dictKey(key)
	if !ok {
		return intp.e(TypeMismatch, "invalid key %T", key)
	}
	d, ok := intp.where(k)
	if !ok {
		d = intp.currentDict()
	}
	d[k] = val
	return nil
}

// def stores val under key in the current dictionary.
func (intp *Interpreter) def(key, val Object) error {
	k, ok := dictKey(key)
	if !ok {
		return intp.e(TypeMismatch, "invalid key %T", key)
	}
	intp.currentDict()[k] = val
	return nil
}

func (intp *Interpreter) currentDict() Dict {
	return intp.DictStack[len(intp.DictStack)-1]
}
