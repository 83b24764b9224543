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

	"golang.org/x/exp/maps"
)

func bPop(intp *Interpreter) error {
	if len(intp.Stack) < 1 {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	intp.Stack = intp.Stack[:len(intp.Stack)-1]
	return nil
}

// bPopN returns an operator which discards n operands.
func bPopN(n int) func(*Interpreter) error {
	return func(intp *Interpreter) error {
		if err := intp.need(n); err != nil {
			return err
		}
		intp.drop(n)
		return nil
	}
}

func bNop(intp *Interpreter) error {
	return nil
}

func bExch(intp *Interpreter) error {
	if len(intp.Stack) < 2 {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	n := len(intp.Stack)
	intp.Stack[n-1], intp.Stack[n-2] = intp.Stack[n-2], intp.Stack[n-1]
	return nil
}

func bDup(intp *Interpreter) error {
	if len(intp.Stack) < 1 {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	intp.Stack = append(intp.Stack, intp.Stack[len(intp.Stack)-1])
	return nil
}

// bCopy dispatches on the type of the topmost operand.
func bCopy(intp *Interpreter) error {
	if len(intp.Stack) < 1 {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	switch b := intp.Stack[len(intp.Stack)-1].(type) {
	case Integer:
		n := int(b)
		if n < 0 {
			return intp.e(IndexOutOfRange, "invalid count %d", n)
		}
		if len(intp.Stack) < n+1 {
			return intp.e(StackUnderflow, "not enough arguments")
		}
		intp.Stack = intp.Stack[:len(intp.Stack)-1]
		if len(intp.Stack)+n > maxOperandStackDepth {
			return intp.e(LimitExceeded, "operand stack overflow")
		}
		intp.Stack = append(intp.Stack, intp.Stack[len(intp.Stack)-n:]...)
		return nil

	case *GState:
		if len(intp.Stack) < 2 {
			return intp.e(StackUnderflow, "not enough arguments")
		}
		a, ok := intp.Stack[len(intp.Stack)-2].(*GState)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		b.copyFrom(a)
		intp.Stack = append(intp.Stack[:len(intp.Stack)-2], b)
		return nil

	case Array, Procedure:
		if len(intp.Stack) < 2 {
			return intp.e(StackUnderflow, "not enough arguments")
		}
		dst, _ := intp.asArray(b)
		var src Array
		switch a := intp.Stack[len(intp.Stack)-2].(type) {
		case Array:
			src = a
		case Procedure:
			src = Array{Elems: a}
		default:
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		if !src.Access.canRead() {
			return intp.e(NoReadAccess, "source is not readable")
		} else if !dst.Access.canWrite() {
			return intp.e(NoWriteAccess, "destination is read-only")
		} else if len(dst.Elems) < len(src.Elems) {
			return intp.e(IndexOutOfRange, "not enough space in destination")
		}
		n := copy(dst.Elems, src.Elems)
		res, err := intp.getinterval(b, 0, n)
		if err != nil {
			return err
		}
		intp.Stack = append(intp.Stack[:len(intp.Stack)-2], res)
		return nil

	case String:
		if len(intp.Stack) < 2 {
			return intp.e(StackUnderflow, "not enough arguments")
		}
		a, ok := intp.Stack[len(intp.Stack)-2].(String)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		if !a.Access.canRead() {
			return intp.e(NoReadAccess, "source is not readable")
		} else if !b.Access.canWrite() {
			return intp.e(NoWriteAccess, "destination is read-only")
		} else if len(b.Data) < len(a.Data) {
			return intp.e(IndexOutOfRange, "not enough space in destination")
		}
		n := copy(b.Data, a.Data)
		b.Data = b.Data[:n:n]
		intp.Stack = append(intp.Stack[:len(intp.Stack)-2], b)
		return nil

	case Dict:
		if len(intp.Stack) < 2 {
			return intp.e(StackUnderflow, "not enough arguments")
		}
		a, ok := intp.Stack[len(intp.Stack)-2].(Dict)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		maps.Copy(b, a)
		intp.Stack = append(intp.Stack[:len(intp.Stack)-2], b)
		return nil

	default:
		return intp.e(TypeMismatch, "invalid argument type %T", b)
	}
}

func (intp *Interpreter) asArray(obj Object) (Array, bool) {
	switch obj := obj.(type) {
	case Array:
		return obj, true
	case Procedure:
		return Array{Elems: obj}, true
	default:
		return Array{}, false
	}
}

func bIndex(intp *Interpreter) error {
	n, err := intp.popInteger()
	if err != nil {
		return err
	}
	if n < 0 {
		return intp.e(IndexOutOfRange, "invalid index %d", n)
	}
	if len(intp.Stack) < n+1 {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	intp.Stack = append(intp.Stack, intp.Stack[len(intp.Stack)-1-n])
	return nil
}

// bRoll rotates the top n operands by j positions.  Positive j moves
// elements towards the top of the stack: "a b c 3 1 roll" gives "c a b".
// Negative j moves them down; j is normalized to 0 <= j < n.
func bRoll(intp *Interpreter) error {
	if len(intp.Stack) < 2 {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	n, ok := intp.Stack[len(intp.Stack)-2].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "invalid length %T", intp.Stack[len(intp.Stack)-2])
	}
	j, ok := intp.Stack[len(intp.Stack)-1].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "invalid shift %T", intp.Stack[len(intp.Stack)-1])
	}
	if n < 0 {
		return intp.e(IndexOutOfRange, "length %d out of bounds", n)
	} else if n > Integer(len(intp.Stack)-2) {
		return intp.e(StackUnderflow, "not enough arguments")
	}
	intp.Stack = intp.Stack[:len(intp.Stack)-2]
	if n == 0 {
		return nil
	}
	j = ((j % n) + n) % n

	ni := int(n)
	ji := int(j)
	data := intp.Stack[len(intp.Stack)-ni:]
	tmp := make([]Object, ni)
	copy(tmp, data[ni-ji:])
	copy(tmp[ji:], data[:ni-ji])
	copy(data, tmp)
	return nil
}

func bClear(intp *Interpreter) error {
	intp.Stack = intp.Stack[:0]
	return nil
}

func bCount(intp *Interpreter) error {
	intp.Stack = append(intp.Stack, Integer(len(intp.Stack)))
	return nil
}

func bMark(intp *Interpreter) error {
	intp.Stack = append(intp.Stack, theMark)
	return nil
}

// findMark returns the stack position of the topmost mark.
func (intp *Interpreter) findMark() (int, error) {
	for k := len(intp.Stack) - 1; k >= 0; k-- {
		if intp.Stack[k] == theMark {
			return k, nil
		}
	}
	return 0, intp.e(UnmatchedMark, "no mark found")
}

func bCleartomark(intp *Interpreter) error {
	k, err := intp.findMark()
	if err != nil {
		return err
	}
	intp.Stack = intp.Stack[:k]
	return nil
}

func bCounttomark(intp *Interpreter) error {
	k, err := intp.findMark()
	if err != nil {
		return err
	}
	intp.Stack = append(intp.Stack, Integer(len(intp.Stack)-k-1))
	return nil
}

func bArrayEnd(intp *Interpreter) error {
	k, err := intp.findMark()
	if err != nil {
		return err
	}
	elems := make([]Object, len(intp.Stack)-k-1)
	copy(elems, intp.Stack[k+1:])
	intp.Stack = append(intp.Stack[:k], Array{Elems: elems})
	return nil
}

func bDictEnd(intp *Interpreter) error {
	k, err := intp.findMark()
	if err != nil {
		return err
	}
	n := len(intp.Stack)
	if (n-k-1)%2 != 0 {
		return intp.e(IndexOutOfRange, "odd number of elements in dict literal")
	}
	d := make(Dict, (n-k-1)/2)
	for i := k + 1; i < n; i += 2 {
		key, ok := dictKey(intp.Stack[i])
		if !ok {
			return intp.e(TypeMismatch, "invalid key %T", intp.Stack[i])
		}
		d[key] = intp.Stack[i+1]
	}
	intp.Stack = append(intp.Stack[:k], d)
	return nil
}

func bArray(intp *Interpreter) error {
	size, err := intp.popInteger()
	if err != nil {
		return err
	}
	if size < 0 {
		return intp.e(IndexOutOfRange, "invalid size %d", size)
	} else if size > maxArraySize {
		return intp.e(LimitExceeded, "invalid size %d", size)
	}
	intp.push(Array{Elems: make([]Object, size)})
	return nil
}

func bString(intp *Interpreter) error {
	size, err := intp.popInteger()
	if err != nil {
		return err
	}
	if size < 0 {
		return intp.e(IndexOutOfRange, "invalid size %d", size)
	} else if size > maxStringSize {
		return intp.e(LimitExceeded, "invalid size %d", size)
	}
	intp.push(String{Data: make([]byte, size)})
	return nil
}

func bLength(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	var n int
	switch obj := obj.(type) {
	case Array:
		if !obj.Access.canRead() {
			return intp.e(NoReadAccess, "array is not readable")
		}
		n = len(obj.Elems)
	case Procedure:
		n = len(obj)
	case String:
		if !obj.Access.canRead() {
			return intp.e(NoReadAccess, "string is not readable")
		}
		n = len(obj.Data)
	case Dict:
		n = len(obj)
	case Name:
		n = len(obj)
	default:
		intp.push(obj)
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	intp.push(Integer(n))
	return nil
}

func bGet(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	obj := intp.Stack[len(intp.Stack)-2]
	sel := intp.Stack[len(intp.Stack)-1]
	val, err := intp.get(obj, sel)
	if err != nil {
		return err
	}
	intp.drop(2)
	intp.push(val)
	return nil
}

func bPut(intp *Interpreter) error {
	if err := intp.need(3); err != nil {
		return err
	}
	obj := intp.Stack[len(intp.Stack)-3]
	sel := intp.Stack[len(intp.Stack)-2]
	val := intp.Stack[len(intp.Stack)-1]
	if err := intp.put(obj, sel, val); err != nil {
		return err
	}
	intp.drop(3)
	return nil
}

func bGetinterval(intp *Interpreter) error {
	if err := intp.need(3); err != nil {
		return err
	}
	obj := intp.Stack[len(intp.Stack)-3]
	index, ok1 := intp.Stack[len(intp.Stack)-2].(Integer)
	count, ok2 := intp.Stack[len(intp.Stack)-1].(Integer)
	if !ok1 || !ok2 {
		return intp.e(TypeMismatch, "index and count must be integers")
	}
	res, err := intp.getinterval(obj, int(index), int(count))
	if err != nil {
		return err
	}
	intp.drop(3)
	intp.push(res)
	return nil
}

func bPutinterval(intp *Interpreter) error {
	if err := intp.need(3); err != nil {
		return err
	}
	dst := intp.Stack[len(intp.Stack)-3]
	index, ok := intp.Stack[len(intp.Stack)-2].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "index must be an integer")
	}
	src := intp.Stack[len(intp.Stack)-1]
	if err := intp.putinterval(dst, int(index), src); err != nil {
		return err
	}
	intp.drop(3)
	return nil
}

func bAload(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	a, ok := intp.asArray(obj)
	if !ok {
		return intp.e(TypeMismatch, "expected array, got %T", obj)
	} else if !a.Access.canRead() {
		return intp.e(NoReadAccess, "array is not readable")
	}
	if len(intp.Stack)+len(a.Elems) > maxOperandStackDepth {
		return intp.e(LimitExceeded, "operand stack overflow")
	}
	intp.Stack = append(intp.Stack[:len(intp.Stack)-1], a.Elems...)
	intp.Stack = append(intp.Stack, obj)
	return nil
}

func bAstore(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	a, ok := intp.asArray(obj)
	if !ok {
		return intp.e(TypeMismatch, "expected array, got %T", obj)
	} else if !a.Access.canWrite() {
		return intp.e(NoWriteAccess, "array is read-only")
	}
	n := len(a.Elems)
	if err := intp.need(n + 1); err != nil {
		return err
	}
	copy(a.Elems, intp.Stack[len(intp.Stack)-1-n:])
	intp.Stack = append(intp.Stack[:len(intp.Stack)-1-n], obj)
	return nil
}

func bSearch(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	str, ok1 := intp.Stack[len(intp.Stack)-2].(String)
	seek, ok2 := intp.Stack[len(intp.Stack)-1].(String)
	if !ok1 || !ok2 {
		return intp.e(TypeMismatch, "arguments must be strings")
	}
	intp.drop(2)
	idx := bytes.Index(str.Data, seek.Data)
	if idx < 0 {
		intp.push(str, Boolean(false))
		return nil
	}
	end := idx + len(seek.Data)
	post := String{Data: str.Data[end:len(str.Data):len(str.Data)], Access: str.Access}
	match := String{Data: str.Data[idx:end:end], Access: str.Access}
	pre := String{Data: str.Data[:idx:idx], Access: str.Access}
	intp.push(post, match, pre, Boolean(true))
	return nil
}

func bAnchorsearch(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	str, ok1 := intp.Stack[len(intp.Stack)-2].(String)
	seek, ok2 := intp.Stack[len(intp.Stack)-1].(String)
	if !ok1 || !ok2 {
		return intp.e(TypeMismatch, "arguments must be strings")
	}
	intp.drop(2)
	if !bytes.HasPrefix(str.Data, seek.Data) {
		intp.push(str, Boolean(false))
		return nil
	}
	n := len(seek.Data)
	post := String{Data: str.Data[n:len(str.Data):len(str.Data)], Access: str.Access}
	match := String{Data: str.Data[:n:n], Access: str.Access}
	intp.push(post, match, Boolean(true))
	return nil
}

// == dictionaries ===========================================================

func bDict(intp *Interpreter) error {
	size, err := intp.popInteger()
	if err != nil {
		return err
	}
	if size < 0 {
		return intp.e(IndexOutOfRange, "invalid size %d", size)
	}
	intp.push(make(Dict, min(size, 1024)))
	return nil
}

func bMaxlength(intp *Interpreter) error {
	d, err := intp.popDict()
	if err != nil {
		return err
	}
	// dictionaries grow as needed
	intp.push(Integer(len(d) + 1))
	return nil
}

func bBegin(intp *Interpreter) error {
	if len(intp.DictStack) >= maxDictionaryStackDepth {
		return intp.e(LimitExceeded, "dictionary stack overflow")
	}
	d, err := intp.popDict()
	if err != nil {
		return err
	}
	intp.DictStack = append(intp.DictStack, d)
	return nil
}

func bEnd(intp *Interpreter) error {
	if len(intp.DictStack) <= 2 {
		return intp.e(DictStackUnderflow, "cannot remove %s",
			intp.objectString(intp.currentDict()))
	}
	intp.DictStack = intp.DictStack[:len(intp.DictStack)-1]
	return nil
}

func bDef(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	key := intp.Stack[len(intp.Stack)-2]
	val := intp.Stack[len(intp.Stack)-1]
	if err := intp.def(key, val); err != nil {
		return err
	}
	intp.drop(2)
	return nil
}

func bLoad(intp *Interpreter) error {
	key, err := intp.top(0)
	if err != nil {
		return err
	}
	val, err := intp.load(key)
	if err != nil {
		return err
	}
	intp.Stack[len(intp.Stack)-1] = val
	return nil
}

func bStore(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	key := intp.Stack[len(intp.Stack)-2]
	val := intp.Stack[len(intp.Stack)-1]
	if err := intp.store(key, val); err != nil {
		return err
	}
	intp.drop(2)
	return nil
}

func bUndef(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	d, ok := intp.Stack[len(intp.Stack)-2].(Dict)
	if !ok {
		return intp.e(TypeMismatch, "expected dictionary, got %T", intp.Stack[len(intp.Stack)-2])
	}
	key, ok := dictKey(intp.Stack[len(intp.Stack)-1])
	if !ok {
		return intp.e(TypeMismatch, "invalid key %T", intp.Stack[len(intp.Stack)-1])
	}
	delete(d, key)
	intp.drop(2)
	return nil
}

func bKnown(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	d, ok := intp.Stack[len(intp.Stack)-2].(Dict)
	if !ok {
		return intp.e(TypeMismatch, "expected dictionary, got %T", intp.Stack[len(intp.Stack)-2])
	}
	key, ok := dictKey(intp.Stack[len(intp.Stack)-1])
	if !ok {
		return intp.e(TypeMismatch, "invalid key %T", intp.Stack[len(intp.Stack)-1])
	}
	_, found := d[key]
	intp.drop(2)
	intp.push(Boolean(found))
	return nil
}

func bWhere(intp *Interpreter) error {
	key, err := intp.pop()
	if err != nil {
		return err
	}
	if d, ok := intp.where(key); ok {
		intp.push(d, Boolean(true))
	} else {
		intp.push(Boolean(false))
	}
	return nil
}

func bCurrentdict(intp *Interpreter) error {
	intp.push(intp.currentDict())
	return nil
}

func bCountdictstack(intp *Interpreter) error {
	intp.push(Integer(len(intp.DictStack)))
	return nil
}

func bBind(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	proc, ok := obj.(Procedure)
	if !ok {
		return intp.e(TypeMismatch, "expected procedure, got %T", obj)
	}
	intp.bindProc(proc, make(map[*Object]bool))
	return nil
}

// bindProc replaces executable names in proc which refer to built-in
// operators by the operators themselves.  Nested procedures are bound
// recursively.
func (intp *Interpreter) bindProc(proc Procedure, seen map[*Object]bool) {
	if len(proc) == 0 || seen[&proc[0]] {
		return
	}
	seen[&proc[0]] = true
	for i, elem := range proc {
		switch obj := elem.(type) {
		case Operator:
			val, err := intp.load(Name(obj))
			if err != nil {
				continue
			}
			if b, ok := val.(*builtin); ok {
				proc[i] = b
			}
		case Procedure:
			intp.bindProc(obj, seen)
		}
	}
}
