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
	"math"
	"reflect"
	"strconv"
	"strings"
)

// getinterval returns a view of count elements of obj, starting at index.
// The view shares storage with obj.
func (intp *Interpreter) getinterval(obj Object, index, count int) (Object, error) {
	var n int
	var access Access
	switch obj := obj.(type) {
	case Array:
		n, access = len(obj.Elems), obj.Access
	case Procedure:
		n = len(obj)
	case String:
		n, access = len(obj.Data), obj.Access
	default:
		return nil, intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	if !access.canRead() {
		return nil, intp.e(NoReadAccess, "object is not readable")
	}
	if index < 0 || index > n {
		return nil, intp.e(IndexOutOfRange, "index %d out of bounds", index)
	} else if count < 0 || count > n-index {
		return nil, intp.e(IndexOutOfRange, "count %d out of bounds", count)
	}
	switch obj := obj.(type) {
	case Array:
		return Array{Elems: obj.Elems[index : index+count : index+count], Access: obj.Access}, nil
	case Procedure:
		return obj[index : index+count : index+count], nil
	default:
		s := obj.(String)
		return String{Data: s.Data[index : index+count : index+count], Access: s.Access}, nil
	}
}

// putinterval overwrites the elements of dst starting at index with the
// elements of src.
func (intp *Interpreter) putinterval(dst Object, index int, src Object) error {
	switch dst := dst.(type) {
	case Array:
		var elems []Object
		switch src := src.(type) {
		case Array:
			if !src.Access.canRead() {
				return intp.e(NoReadAccess, "source is not readable")
			}
			elems = src.Elems
		case Procedure:
			elems = src
		default:
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		if !dst.Access.canWrite() {
			return intp.e(NoWriteAccess, "destination is read-only")
		}
		if index < 0 || index+len(elems) > len(dst.Elems) {
			return intp.e(IndexOutOfRange, "index %d out of range", index)
		}
		copy(dst.Elems[index:], elems)
	case Procedure:
		src, ok := src.(Procedure)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		if index < 0 || index+len(src) > len(dst) {
			return intp.e(IndexOutOfRange, "index %d out of range", index)
		}
		copy(dst[index:], src)
	case String:
		src, ok := src.(String)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		if !src.Access.canRead() {
			return intp.e(NoReadAccess, "source is not readable")
		}
		if !dst.Access.canWrite() {
			return intp.e(NoWriteAccess, "destination is read-only")
		}
		if index < 0 || index+len(src.Data) > len(dst.Data) {
			return intp.e(IndexOutOfRange, "index %d out of range", index)
		}
		copy(dst.Data[index:], src.Data)
	default:
		return intp.e(TypeMismatch, "invalid argument type %T", dst)
	}
	return nil
}

// get returns the element of a composite object selected by sel.
func (intp *Interpreter) get(obj, sel Object) (Object, error) {
	switch obj := obj.(type) {
	case Array:
		if !obj.Access.canRead() {
			return nil, intp.e(NoReadAccess, "array is not readable")
		}
		idx, err := intp.index(sel, len(obj.Elems))
		if err != nil {
			return nil, err
		}
		return obj.Elems[idx], nil
	case Procedure:
		idx, err := intp.index(sel, len(obj))
		if err != nil {
			return nil, err
		}
		return obj[idx], nil
	case String:
		if !obj.Access.canRead() {
			return nil, intp.e(NoReadAccess, "string is not readable")
		}
		idx, err := intp.index(sel, len(obj.Data))
		if err != nil {
			return nil, err
		}
		return Integer(obj.Data[idx]), nil
	case Dict:
		key, ok := dictKey(sel)
		if !ok {
			return nil, intp.e(TypeMismatch, "invalid dict key %T", sel)
		}
		val, ok := obj[key]
		if !ok {
			return nil, intp.e(UnknownOperator, "missing dict key %v", key)
		}
		return val, nil
	default:
		return nil, intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
}

// put stores val into the composite object obj at the position sel.
func (intp *Interpreter) put(obj, sel, val Object) error {
	switch obj := obj.(type) {
	case Array:
		if !obj.Access.canWrite() {
			return intp.e(NoWriteAccess, "array is read-only")
		}
		idx, err := intp.index(sel, len(obj.Elems))
		if err != nil {
			return err
		}
		obj.Elems[idx] = val
	case Procedure:
		idx, err := intp.index(sel, len(obj))
		if err != nil {
			return err
		}
		obj[idx] = val
	case String:
		if !obj.Access.canWrite() {
			return intp.e(NoWriteAccess, "string is read-only")
		}
		idx, err := intp.index(sel, len(obj.Data))
		if err != nil {
			return err
		}
		c, ok := val.(Integer)
		if !ok {
			return intp.e(TypeMismatch, "invalid value %T", val)
		} else if c < 0 || c > 255 {
			return intp.e(IndexOutOfRange, "byte value %d out of range", c)
		}
		obj.Data[idx] = byte(c)
	case Dict:
		key, ok := dictKey(sel)
		if !ok {
			return intp.e(TypeMismatch, "invalid dict key %T", sel)
		}
		obj[key] = val
	default:
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	return nil
}

func (intp *Interpreter) index(sel Object, n int) (int, error) {
	idx, ok := sel.(Integer)
	if !ok {
		return 0, intp.e(TypeMismatch, "invalid index %T", sel)
	}
	if idx < 0 || int(idx) >= n {
		return 0, intp.e(IndexOutOfRange, "index %d out of bounds", idx)
	}
	return int(idx), nil
}

// equal implements the comparison used by eq and ne.
func equal(a, b Object) bool {
	switch a := a.(type) {
	case Integer:
		switch b := b.(type) {
		case Integer:
			return a == b
		case Real:
			return Real(a) == b
		}
	case Real:
		switch b := b.(type) {
		case Integer:
			return a == Real(b)
		case Real:
			return a == b
		}
	case String:
		switch b := b.(type) {
		case String:
			return bytes.Equal(a.Data, b.Data)
		case Name:
			return string(a.Data) == string(b)
		case Operator:
			return string(a.Data) == string(b)
		}
	case Name:
		return nameEqual(string(a), b)
	case Operator:
		return nameEqual(string(a), b)
	case Dict:
		b, ok := b.(Dict)
		return ok && sameDict(a, b)
	case Array:
		b, ok := b.(Array)
		return ok && sameStorage(a.Elems, b.Elems)
	case Procedure:
		b, ok := b.(Procedure)
		return ok && sameStorage(a, b)
	case Boolean, *File, *GState, *builtin, *fontID, *saveObject, mark, nil:
		return a == b
	}
	return false
}

// nameEqual compares a name with another object.  Executable and
// literal names are equal if they have the same text.
func nameEqual(a string, b Object) bool {
	switch b := b.(type) {
	case String:
		return a == string(b.Data)
	case Name:
		return a == string(b)
	case Operator:
		return a == string(b)
	}
	return false
}

func sameDict(a, b Dict) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func sameStorage(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

// typeName returns the value of the type operator for obj.
func typeName(obj Object) Name {
	switch obj.(type) {
	case Array, Procedure:
		return "arraytype"
	case Boolean:
		return "booleantype"
	case Dict:
		return "dicttype"
	case *File:
		return "filetype"
	case *GState:
		return "gstatetype"
	case *fontID:
		return "fonttype"
	case Integer:
		return "integertype"
	case Name, Operator:
		return "nametype"
	case nil:
		return "nulltype"
	case *builtin:
		return "operatortype"
	case Real:
		return "realtype"
	case *saveObject:
		return "savetype"
	case String:
		return "stringtype"
	case mark:
		return "marktype"
	default:
		return "unknowntype"
	}
}

// parseNumber converts the text of a numeric token into an Integer or Real.
// Radix numbers of the form "base#digits" are supported.
func parseNumber(s []byte) (Object, bool) {
	x, err := strconv.ParseInt(string(s), 10, 0)
	if err == nil {
		return Integer(x), true
	}
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		// integers which overflow are converted to reals
		y, err := strconv.ParseFloat(string(s), 64)
		if err == nil {
			return Real(y), true
		}
	}

	if isDecimal(s) {
		y, err := strconv.ParseFloat(string(s), 64)
		if err == nil && !math.IsInf(y, 0) && !math.IsNaN(y) {
			return Real(y), true
		}
	}

	before, after, found := strings.Cut(string(s), "#")
	if found && len(before) >= 1 && len(before) <= 2 && after != "" {
		base, err := strconv.Atoi(before)
		if err == nil && base >= 2 && base <= 36 {
			z, err := strconv.ParseUint(after, base, 32)
			if err == nil {
				// radix numbers are interpreted as 32 bit two's complement
				return Integer(int32(uint32(z))), true
			}
		}
	}
	return nil, false
}

// isDecimal checks that s only contains characters allowed in PostScript
// real numbers.  This excludes the hex floats and special values accepted
// by strconv.ParseFloat.
func isDecimal(s []byte) bool {
	digits := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
			// pass
		default:
			return false
		}
	}
	return digits
}

// formatReal formats a real number the way PostScript's cvs does.
func formatReal(x Real) string {
	s := strconv.FormatFloat(float64(x), 'g', 6, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// cvs returns the text representation of obj used by cvs and =.
func cvs(obj Object) string {
	switch obj := obj.(type) {
	case Integer:
		return strconv.Itoa(int(obj))
	case Real:
		return formatReal(obj)
	case Boolean:
		return strconv.FormatBool(bool(obj))
	case String:
		return string(obj.Data)
	case Name:
		return string(obj)
	case Operator:
		return string(obj)
	case *builtin:
		return string(obj.name)
	default:
		return "--nostringval--"
	}
}
