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
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
)

func bType(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	intp.push(typeName(obj))
	return nil
}

// toNumber converts a numeric operand or the text of a string to a number.
func (intp *Interpreter) toNumber(obj Object) (Object, error) {
	switch x := obj.(type) {
	case Integer, Real:
		return x, nil
	case String:
		if !x.Access.canRead() {
			return nil, intp.e(NoReadAccess, "string is not readable")
		}
		val, ok := parseNumber(bytes.TrimSpace(x.Data))
		if !ok {
			return nil, intp.e(InvalidFormat, "invalid number %q", x.Data)
		}
		return val, nil
	default:
		return nil, intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
}

func bCvr(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	x, err := intp.toNumber(obj)
	if err != nil {
		return err
	}
	f, _ := toFloat(x)
	intp.Stack[len(intp.Stack)-1] = Real(f)
	return nil
}

func bCvi(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	x, err := intp.toNumber(obj)
	if err != nil {
		return err
	}
	if r, isReal := x.(Real); isReal {
		f := math.Trunc(float64(r))
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return intp.e(IndexOutOfRange, "%g out of range", f)
		}
		x = Integer(f)
	}
	intp.Stack[len(intp.Stack)-1] = x
	return nil
}

func bCvn(intp *Interpreter) error {
	s, err := intp.popString()
	if err != nil {
		return err
	}
	intp.push(Name(s.Data))
	return nil
}

// putString copies text into the beginning of dst and returns the
// substring which was written.
func (intp *Interpreter) putString(dst String, text string) (String, error) {
	if !dst.Access.canWrite() {
		return String{}, intp.e(NoWriteAccess, "string is read-only")
	}
	if len(text) > len(dst.Data) {
		return String{}, intp.e(IndexOutOfRange, "string too short, need %d bytes", len(text))
	}
	n := copy(dst.Data, text)
	dst.Data = dst.Data[:n:n]
	return dst, nil
}

func bCvs(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	dst, ok := intp.Stack[len(intp.Stack)-1].(String)
	if !ok {
		return intp.e(TypeMismatch, "expected string, got %T", intp.Stack[len(intp.Stack)-1])
	}
	res, err := intp.putString(dst, cvs(intp.Stack[len(intp.Stack)-2]))
	if err != nil {
		return err
	}
	intp.drop(2)
	intp.push(res)
	return nil
}

func bCvrs(intp *Interpreter) error {
	if err := intp.need(3); err != nil {
		return err
	}
	num := intp.Stack[len(intp.Stack)-3]
	radix, ok := intp.Stack[len(intp.Stack)-2].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "radix must be an integer")
	}
	dst, ok := intp.Stack[len(intp.Stack)-1].(String)
	if !ok {
		return intp.e(TypeMismatch, "expected string, got %T", intp.Stack[len(intp.Stack)-1])
	}
	if radix < 2 || radix > 36 {
		return intp.e(IndexOutOfRange, "invalid radix %d", radix)
	}

	var text string
	switch x := num.(type) {
	case Integer:
		if radix == 10 {
			text = strconv.Itoa(int(x))
		} else {
			text = strconv.FormatUint(uint64(uint32(x)), int(radix))
		}
	case Real:
		if radix == 10 {
			text = formatReal(x)
		} else {
			text = strconv.FormatUint(uint64(uint32(int32(x))), int(radix))
		}
	default:
		return intp.e(TypeMismatch, "expected number, got %T", num)
	}

	res, err := intp.putString(dst, strings.ToUpper(text))
	if err != nil {
		return err
	}
	intp.drop(3)
	intp.push(res)
	return nil
}

// bCvx makes the topmost object executable.  Strings are converted into
// procedures by scanning their contents.
func bCvx(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	switch x := obj.(type) {
	case Array:
		obj = Procedure(x.Elems)
	case Name:
		obj = Operator(x)
	case String:
		s := NewScanner(bytes.NewReader(x.Data))
		var proc Procedure
		for {
			o, err := intp.scanObject(s)
			if err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			proc = append(proc, o)
		}
		obj = proc
	}
	intp.Stack[len(intp.Stack)-1] = obj
	return nil
}

func bCvlit(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	switch x := obj.(type) {
	case Procedure:
		obj = Array{Elems: x}
	case Operator:
		obj = Name(x)
	}
	intp.Stack[len(intp.Stack)-1] = obj
	return nil
}

func bXcheck(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	switch obj.(type) {
	case Procedure, Operator, *builtin:
		intp.push(Boolean(true))
	default:
		intp.push(Boolean(false))
	}
	return nil
}

// access returns the access level of a composite object.
func (intp *Interpreter) access(obj Object) (Access, error) {
	switch x := obj.(type) {
	case Array:
		return x.Access, nil
	case String:
		return x.Access, nil
	case Procedure, Dict:
		return AccessUnlimited, nil
	case *File:
		return x.access, nil
	default:
		return 0, intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
}

func bRcheck(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	a, err := intp.access(obj)
	if err != nil {
		return err
	}
	intp.Stack[len(intp.Stack)-1] = Boolean(a.canRead())
	return nil
}

func bWcheck(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	a, err := intp.access(obj)
	if err != nil {
		return err
	}
	intp.Stack[len(intp.Stack)-1] = Boolean(a.canWrite())
	return nil
}

// restrict reduces the access level of the topmost object.  Access can
// only be reduced, never increased.
func (intp *Interpreter) restrict(level Access) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	switch x := obj.(type) {
	case Array:
		x.Access = max(x.Access, level)
		obj = x
	case String:
		x.Access = max(x.Access, level)
		obj = x
	case Procedure, Dict, *File:
		// access to these is not tracked
	default:
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	intp.Stack[len(intp.Stack)-1] = obj
	return nil
}

func bReadonly(intp *Interpreter) error {
	return intp.restrict(AccessReadOnly)
}

func bExecuteonly(intp *Interpreter) error {
	return intp.restrict(AccessExecuteOnly)
}

func bNoaccess(intp *Interpreter) error {
	return intp.restrict(AccessNone)
}
