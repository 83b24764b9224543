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
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

func bExec(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	return intp.call(obj)
}

// checkProc verifies that obj can serve as the body of a control
// operator.
func (intp *Interpreter) checkProc(obj Object) error {
	switch obj.(type) {
	case Procedure, Operator, *builtin:
		return nil
	default:
		return intp.e(TypeMismatch, "expected procedure, got %T", obj)
	}
}

func bIf(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	cond, ok := intp.Stack[len(intp.Stack)-2].(Boolean)
	if !ok {
		return intp.e(TypeMismatch, "expected boolean, got %T", intp.Stack[len(intp.Stack)-2])
	}
	proc := intp.Stack[len(intp.Stack)-1]
	if err := intp.checkProc(proc); err != nil {
		return err
	}
	intp.drop(2)
	if cond {
		return intp.call(proc)
	}
	return nil
}

func bIfelse(intp *Interpreter) error {
	if err := intp.need(3); err != nil {
		return err
	}
	cond, ok := intp.Stack[len(intp.Stack)-3].(Boolean)
	if !ok {
		return intp.e(TypeMismatch, "expected boolean, got %T", intp.Stack[len(intp.Stack)-3])
	}
	procTrue := intp.Stack[len(intp.Stack)-2]
	procFalse := intp.Stack[len(intp.Stack)-1]
	if err := intp.checkProc(procTrue); err != nil {
		return err
	}
	if err := intp.checkProc(procFalse); err != nil {
		return err
	}
	intp.drop(3)
	if cond {
		return intp.call(procTrue)
	}
	return intp.call(procFalse)
}

// bFor runs proc for i = initial, initial+increment, ... as long as
// i <= limit (for positive increments) or i >= limit (otherwise).
// The control variable is an integer if all three operands are integers,
// and a real otherwise.
func bFor(intp *Interpreter) error {
	if err := intp.need(4); err != nil {
		return err
	}
	base := len(intp.Stack) - 4
	var allInt = true
	var val [3]float64
	for i := range 3 {
		obj := intp.Stack[base+i]
		x, ok := toFloat(obj)
		if !ok {
			return intp.e(TypeMismatch, "expected number, got %T", obj)
		}
		if _, isInt := obj.(Integer); !isInt {
			allInt = false
		}
		val[i] = x
	}
	initial, increment, limit := val[0], val[1], val[2]
	proc := intp.Stack[base+3]
	if err := intp.checkProc(proc); err != nil {
		return err
	}
	intp.drop(4)

	defer func() { intp.exitFlag = false }()

	if allInt {
		inc := int(increment)
		lim := int(limit)
		for i := int(initial); inc > 0 && i <= lim || inc <= 0 && i >= lim; i += inc {
			intp.push(Integer(i))
			if err := intp.call(proc); err != nil {
				return err
			}
			if intp.exitFlag {
				break
			}
		}
		return nil
	}

	for x := initial; increment > 0 && x <= limit || increment <= 0 && x >= limit; x += increment {
		intp.push(Real(x))
		if err := intp.call(proc); err != nil {
			return err
		}
		if intp.exitFlag {
			break
		}
	}
	return nil
}

func bRepeat(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	n, ok := intp.Stack[len(intp.Stack)-2].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "expected integer, got %T", intp.Stack[len(intp.Stack)-2])
	} else if n < 0 {
		return intp.e(IndexOutOfRange, "invalid count %d", n)
	}
	proc := intp.Stack[len(intp.Stack)-1]
	if err := intp.checkProc(proc); err != nil {
		return err
	}
	intp.drop(2)

	defer func() { intp.exitFlag = false }()
	for range int(n) {
		if err := intp.call(proc); err != nil {
			return err
		}
		if intp.exitFlag {
			break
		}
	}
	return nil
}

func bLoop(intp *Interpreter) error {
	proc, err := intp.top(0)
	if err != nil {
		return err
	}
	if err := intp.checkProc(proc); err != nil {
		return err
	}
	intp.drop(1)

	defer func() { intp.exitFlag = false }()
	for {
		if err := intp.call(proc); err != nil {
			return err
		}
		if intp.exitFlag {
			return nil
		}
	}
}

// bForall runs a procedure for every element of an array, string or
// dictionary.  Dictionary entries are visited in a fixed order, sorted
// by the text representation of their keys.
func bForall(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	obj := intp.Stack[len(intp.Stack)-2]
	proc := intp.Stack[len(intp.Stack)-1]
	if err := intp.checkProc(proc); err != nil {
		return err
	}

	var items [][]Object
	switch obj := obj.(type) {
	case Array, Procedure:
		a, _ := intp.asArray(obj)
		if !a.Access.canRead() {
			return intp.e(NoReadAccess, "array is not readable")
		}
		for _, elem := range a.Elems {
			items = append(items, []Object{elem})
		}
	case String:
		if !obj.Access.canRead() {
			return intp.e(NoReadAccess, "string is not readable")
		}
		for _, c := range obj.Data {
			items = append(items, []Object{Integer(c)})
		}
	case Dict:
		snapshot := maps.Clone(obj)
		keys := make([]Object, 0, len(snapshot))
		for key := range snapshot {
			keys = append(keys, key)
		}
		slices.SortFunc(keys, func(a, b Object) int {
			return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
		})
		for _, key := range keys {
			items = append(items, []Object{key, snapshot[key]})
		}
	default:
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	intp.drop(2)

	defer func() { intp.exitFlag = false }()
	for _, item := range items {
		intp.push(item...)
		if err := intp.call(proc); err != nil {
			return err
		}
		if intp.exitFlag {
			break
		}
	}
	return nil
}

// bExit terminates the innermost enclosing loop.  The procedures between
// exit and the loop return as soon as they see the flag.
func bExit(intp *Interpreter) error {
	intp.exitFlag = true
	return nil
}

func bStop(intp *Interpreter) error {
	return errStop
}

// bStopped runs a procedure and reports whether it was terminated by
// stop or by an error.  Details of errors are recorded in $error.
func bStopped(intp *Interpreter) error {
	proc, err := intp.pop()
	if err != nil {
		return err
	}

	err = intp.call(proc)
	if err == nil {
		intp.push(Boolean(false))
		return nil
	}

	var psErr *Error
	if errors.As(err, &psErr) {
		if errDict, ok := intp.SystemDict[Name("$error")].(Dict); ok {
			errDict[Name("newerror")] = Boolean(true)
			errDict[Name("errorname")] = psErr.Kind.Name()
			errDict[Name("command")] = Name(psErr.Op)
			errDict[Name("message")] = NewString(psErr.Error())
		}
	} else if err != errStop {
		return err
	}
	intp.exitFlag = false
	intp.push(Boolean(true))
	return nil
}

func bQuit(intp *Interpreter) error {
	return errQuit
}
