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
	"time"
)

func bVersion(intp *Interpreter) error {
	intp.push(String{Data: []byte("3010"), Access: AccessReadOnly})
	return nil
}

func bLanguagelevel(intp *Interpreter) error {
	intp.push(Integer(2))
	return nil
}

func bProduct(intp *Interpreter) error {
	intp.push(String{Data: []byte("seehuhn.de/go/eps"), Access: AccessReadOnly})
	return nil
}

func bRealtime(intp *Interpreter) error {
	intp.push(Integer(time.Since(intp.start).Milliseconds()))
	return nil
}

func bUsertime(intp *Interpreter) error {
	intp.push(Integer(time.Since(intp.start).Milliseconds()))
	return nil
}

func bVmstatus(intp *Interpreter) error {
	intp.push(Integer(len(intp.gstack)), Integer(intp.numOps), Integer(1<<24))
	return nil
}

// bSave saves the graphics state.  VM contents are not saved: restore
// only returns to the graphics state recorded by save.
func bSave(intp *Interpreter) error {
	depth := len(intp.gstack)
	if err := bGsave(intp); err != nil {
		return err
	}
	intp.push(&saveObject{depth: depth})
	return nil
}

func bRestore(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	save, ok := obj.(*saveObject)
	if !ok {
		return intp.e(TypeMismatch, "expected save object, got %T", obj)
	}
	intp.drop(1)
	intp.restoreGState(save.depth)
	return nil
}

func bShowpage(intp *Interpreter) error {
	return nil
}

func bSetpagedevice(intp *Interpreter) error {
	_, err := intp.popDict()
	return err
}

func bSetglobal(intp *Interpreter) error {
	_, err := intp.popBoolean()
	return err
}

func bCurrentglobal(intp *Interpreter) error {
	intp.push(Boolean(false))
	return nil
}

// == output =================================================================

func bPrint(intp *Interpreter) error {
	s, err := intp.popString()
	if err != nil {
		return err
	}
	intp.stdout.write(s.Data)
	return nil
}

func bEqualsPrint(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	intp.stdout.write([]byte(cvs(obj) + "\n"))
	return nil
}

func bEqualsEqualsPrint(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	intp.stdout.write([]byte(intp.objectString(obj) + "\n"))
	return nil
}

// bPstack prints the operand stack, top first, without removing anything.
func bPstack(intp *Interpreter) error {
	for i := len(intp.Stack) - 1; i >= 0; i-- {
		intp.stdout.write([]byte(intp.objectString(intp.Stack[i]) + "\n"))
	}
	return nil
}

func bStack(intp *Interpreter) error {
	for i := len(intp.Stack) - 1; i >= 0; i-- {
		intp.stdout.write([]byte(cvs(intp.Stack[i]) + "\n"))
	}
	return nil
}

func bFlush(intp *Interpreter) error {
	intp.stdout.flush()
	return nil
}

// bHandleerror reports the error recorded in $error.
func bHandleerror(intp *Interpreter) error {
	errDict, ok := intp.SystemDict[Name("$error")].(Dict)
	if !ok || errDict[Name("newerror")] != Boolean(true) {
		return nil
	}
	errDict[Name("newerror")] = Boolean(false)
	intp.warn("%s in %s", cvs(errDict[Name("errorname")]), cvs(errDict[Name("command")]))
	return nil
}

// == resources ==============================================================

// popCategory removes a resource category name and, below it, a key.
func (intp *Interpreter) popCategory() (Object, Name, error) {
	category, err := intp.popName()
	if err != nil {
		return nil, "", err
	}
	key, err := intp.pop()
	if err != nil {
		return nil, "", err
	}
	key, ok := dictKey(key)
	if !ok {
		return nil, "", intp.e(TypeMismatch, "invalid resource key %T", key)
	}
	return key, category, nil
}

// lookupResource finds a resource instance.  Fonts are looked up in
// FontDirectory.
func (intp *Interpreter) lookupResource(key Object, category Name) (Object, bool) {
	switch category {
	case "Font":
		val, ok := intp.FontDirectory[key]
		return val, ok
	case "Encoding":
		if key == Name("StandardEncoding") {
			return intp.SystemDict[Name("StandardEncoding")], true
		}
	}
	val, ok := intp.resources[category][key]
	return val, ok
}

func bFindresource(intp *Interpreter) error {
	key, category, err := intp.popCategory()
	if err != nil {
		return err
	}
	if val, ok := intp.lookupResource(key, category); ok {
		intp.push(val)
		return nil
	}
	if category == "Font" {
		intp.push(key)
		return bFindfont(intp)
	}
	return intp.e(UnknownOperator, "resource %v of category %s not found", key, category)
}

func bDefineresource(intp *Interpreter) error {
	category, err := intp.popName()
	if err != nil {
		return err
	}
	if category == "Font" {
		return bDefinefont(intp)
	}
	if err := intp.need(2); err != nil {
		return err
	}
	n := len(intp.Stack)
	key, ok := dictKey(intp.Stack[n-2])
	if !ok {
		return intp.e(TypeMismatch, "invalid resource key %T", intp.Stack[n-2])
	}
	instance := intp.Stack[n-1]
	d, ok := intp.resources[category]
	if !ok {
		d = Dict{}
		intp.resources[category] = d
	}
	d[key] = instance
	intp.drop(2)
	intp.push(instance)
	return nil
}

func bResourcestatus(intp *Interpreter) error {
	key, category, err := intp.popCategory()
	if err != nil {
		return err
	}
	if _, ok := intp.lookupResource(key, category); ok {
		intp.push(Integer(1), Integer(0), Boolean(true))
	} else {
		intp.push(Boolean(false))
	}
	return nil
}

func bInternaldict(intp *Interpreter) error {
	if _, err := intp.popInteger(); err != nil {
		return err
	}
	if intp.internal == nil {
		intp.internal = Dict{}
	}
	intp.push(intp.internal)
	return nil
}
