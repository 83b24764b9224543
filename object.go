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
	"fmt"
	"strings"
)

// Object is a PostScript value.  The nil Object is the PostScript null.
type Object interface{}

type Integer int

type Real float64

type Boolean bool

type Name string

func (n Name) String() string {
	return "/" + string(n)
}

// Operator is an executable name.
type Operator string

// Access describes which operations are permitted on a composite object.
type Access uint8

// These are the possible access levels, from most to least permissive.
const (
	AccessUnlimited Access = iota
	AccessReadOnly
	AccessExecuteOnly
	AccessNone
)

func (a Access) canRead() bool {
	return a <= AccessReadOnly
}

func (a Access) canWrite() bool {
	return a == AccessUnlimited
}

// String is a PostScript string.
// Strings obtained via getinterval share their storage with the source.
type String struct {
	Data   []byte
	Access Access
}

// NewString returns a new, writable string with the given contents.
func NewString(s string) String {
	return String{Data: []byte(s)}
}

func (s String) String() string {
	return fmt.Sprintf("%q", string(s.Data))
}

// PS returns the string as a PostScript string literal.
func (s String) PS() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, c := range s.Data {
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 32 || c >= 127 {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Array is a PostScript (literal) array.
// Arrays obtained via getinterval share their storage with the source.
type Array struct {
	Elems  []Object
	Access Access
}

// NewArray returns a new, writable array holding the given elements.
func NewArray(elems ...Object) Array {
	return Array{Elems: elems}
}

// Procedure is an executable array.
type Procedure []Object

func (p Procedure) String() string {
	var ss []string
	ss = append(ss, "{")
	for i, o := range p {
		if i > 0 {
			ss = append(ss, " ")
		}
		ss = append(ss, fmt.Sprint(o))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "")
}

// Dict is a PostScript dictionary.  Keys are normalized using dictKey.
type Dict map[Object]Object

func (d Dict) String() string {
	return fmt.Sprintf("<Dict %d>", len(d))
}

type mark struct{}

var theMark Object = mark{}

// builtin is an operator implemented in Go.
type builtin struct {
	name Name
	run  func(*Interpreter) error
}

func (b *builtin) String() string {
	return "--" + string(b.name) + "--"
}

// saveObject is the value returned by the save operator.
type saveObject struct {
	depth int
}

// dictKey normalizes a value for use as a dictionary key.
func dictKey(key Object) (Object, bool) {
	switch key := key.(type) {
	case Name:
		return key, true
	case Operator:
		return Name(key), true
	case String:
		return Name(key.Data), true
	case Integer, Boolean, *File, *GState, *builtin:
		return key, true
	case Real:
		if i := Integer(key); Real(i) == key {
			return i, true
		}
		return key, true
	default:
		return nil, false
	}
}
