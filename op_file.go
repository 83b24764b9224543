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
	"errors"
	"io"
)

func bFile(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	name, ok1 := intp.Stack[len(intp.Stack)-2].(String)
	mode, ok2 := intp.Stack[len(intp.Stack)-1].(String)
	if !ok1 || !ok2 {
		return intp.e(TypeMismatch, "file name and access must be strings")
	}

	var f *File
	switch string(name.Data) {
	case "%stdout":
		f = intp.stdout
	case "%stderr":
		f = intp.stderr
	case "%stdin":
		cf, err := intp.currentFile()
		if err != nil {
			return err
		}
		f = cf
	default:
		// the interpreter has no access to the file system
		return intp.e(NoReadAccess, "cannot open %q with access %q", name.Data, mode.Data)
	}
	intp.drop(2)
	intp.push(f)
	return nil
}

// currentFile returns the file from which the running program is read.
func (intp *Interpreter) currentFile() (*File, error) {
	for j := len(intp.sources) - 1; j >= 0; j-- {
		if s, ok := intp.sources[j].(*Scanner); ok {
			return s.currentFile(), nil
		}
	}
	return nil, intp.e(IOFailure, "no current file")
}

func bCurrentfile(intp *Interpreter) error {
	f, err := intp.currentFile()
	if err != nil {
		return err
	}
	intp.push(f)
	return nil
}

// readErr converts an error from a file read into an interpreter error.
func (intp *Interpreter) readErr(err error) error {
	var psErr *Error
	if errors.As(err, &psErr) {
		return err
	}
	return intp.e(IOFailure, "%v", err)
}

func bRead(intp *Interpreter) error {
	f, err := intp.popFile()
	if err != nil {
		return err
	}
	b, err := f.ReadByte()
	if err == io.EOF {
		intp.push(Boolean(false))
		return nil
	} else if err != nil {
		return intp.readErr(err)
	}
	intp.push(Integer(b), Boolean(true))
	return nil
}

// popFileString pops the "file string" operands shared by the
// readstring family of operators.
func (intp *Interpreter) popFileString() (*File, String, error) {
	if err := intp.need(2); err != nil {
		return nil, String{}, err
	}
	f, ok := intp.Stack[len(intp.Stack)-2].(*File)
	if !ok {
		return nil, String{}, intp.e(TypeMismatch, "expected file, got %T", intp.Stack[len(intp.Stack)-2])
	}
	buf, ok := intp.Stack[len(intp.Stack)-1].(String)
	if !ok {
		return nil, String{}, intp.e(TypeMismatch, "expected string, got %T", intp.Stack[len(intp.Stack)-1])
	}
	if !buf.Access.canWrite() {
		return nil, String{}, intp.e(NoWriteAccess, "string is read-only")
	}
	intp.drop(2)
	return f, buf, nil
}

func bReadstring(intp *Interpreter) error {
	f, buf, err := intp.popFileString()
	if err != nil {
		return err
	}
	n, err := io.ReadFull(f, buf.Data)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return intp.readErr(err)
	}
	intp.push(String{Data: buf.Data[:n:n]}, Boolean(n == len(buf.Data)))
	return nil
}

// bReadhexstring reads pairs of hex digits.  Characters which are not
// hex digits are ignored.
func bReadhexstring(intp *Interpreter) error {
	f, buf, err := intp.popFileString()
	if err != nil {
		return err
	}
	n := 0
	half := false
	for n < len(buf.Data) {
		b, err := f.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return intp.readErr(err)
		}
		var v byte
		switch {
		case b >= '0' && b <= '9':
			v = b - '0'
		case b >= 'a' && b <= 'f':
			v = b - 'a' + 10
		case b >= 'A' && b <= 'F':
			v = b - 'A' + 10
		default:
			continue
		}
		if half {
			buf.Data[n] |= v
			n++
		} else {
			buf.Data[n] = v << 4
		}
		half = !half
	}
	intp.push(String{Data: buf.Data[:n:n]}, Boolean(n == len(buf.Data)))
	return nil
}

// bReadline reads up to the next end-of-line marker, which is not
// included in the result.
func bReadline(intp *Interpreter) error {
	f, buf, err := intp.popFileString()
	if err != nil {
		return err
	}
	n := 0
	for {
		b, err := f.ReadByte()
		if err == io.EOF {
			intp.push(String{Data: buf.Data[:n:n]}, Boolean(n > 0))
			return nil
		} else if err != nil {
			return intp.readErr(err)
		}
		if b == '\n' {
			break
		} else if b == '\r' {
			if next := f.s.peekN(1); len(next) == 1 && next[0] == '\n' {
				f.s.skipByte()
			}
			break
		}
		if n >= len(buf.Data) {
			return intp.e(IndexOutOfRange, "line does not fit into %d bytes", len(buf.Data))
		}
		buf.Data[n] = b
		n++
	}
	intp.push(String{Data: buf.Data[:n:n]}, Boolean(true))
	return nil
}

func bBytesavailable(intp *Interpreter) error {
	f, err := intp.popFile()
	if err != nil {
		return err
	}
	n := -1
	if !f.closed && f.s != nil && f.s.err != nil {
		// all remaining data is buffered
		n = f.s.used - f.s.pos + len(f.s.peeked)
	}
	intp.push(Integer(n))
	return nil
}

func bClosefile(intp *Interpreter) error {
	f, err := intp.popFile()
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return intp.readErr(err)
	}
	return nil
}

// bStatus reports whether a file is still open.  Strings name files in
// the file system, which the interpreter cannot access; the result is
// always false.
func bStatus(intp *Interpreter) error {
	obj, err := intp.pop()
	if err != nil {
		return err
	}
	switch obj := obj.(type) {
	case *File:
		intp.push(Boolean(!obj.closed))
	case String:
		intp.push(Boolean(false))
	default:
		intp.push(obj)
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	return nil
}

// scanObject reads one complete object from src.  Procedures are read
// up to the matching "}".
func (intp *Interpreter) scanObject(src TokenSource) (Object, error) {
	o, err := src.ScanToken()
	if err != nil {
		return nil, err
	}
	switch o := o.(type) {
	case Operator:
		switch o {
		case "{":
			return intp.scanProc(src)
		case "}":
			return nil, &Error{Kind: SyntaxError, Line: src.Line(), Msg: "unmatched '}'"}
		}
		return o, nil
	case immediateName:
		return intp.load(Name(o))
	default:
		return o, nil
	}
}

// scanProc reads the body of a procedure, after the opening "{".
func (intp *Interpreter) scanProc(src TokenSource) (Procedure, error) {
	proc := Procedure{}
	for {
		o, err := src.ScanToken()
		if err == io.EOF {
			return nil, &Error{Kind: SyntaxError, Line: src.Line(), Msg: "unterminated procedure"}
		} else if err != nil {
			return nil, err
		}
		switch o := o.(type) {
		case Operator:
			if o == "}" {
				return proc, nil
			} else if o == "{" {
				inner, err := intp.scanProc(src)
				if err != nil {
					return nil, err
				}
				proc = append(proc, inner)
				continue
			}
		case immediateName:
			val, err := intp.load(Name(o))
			if err != nil {
				return nil, err
			}
			proc = append(proc, val)
			continue
		}
		proc = append(proc, o)
	}
}

// bToken reads a single object from a file or a string.  Read errors are
// reported by pushing false.
func bToken(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	switch src := obj.(type) {
	case *File:
		intp.drop(1)
		if src.s == nil || src.closed {
			intp.push(Boolean(false))
			return nil
		}
		o, err := intp.scanObject(src.s)
		if err == io.EOF || err != nil && isRecoverableIO(intp.readErr(err)) {
			intp.push(Boolean(false))
			return nil
		} else if err != nil {
			return err
		}
		intp.push(o, Boolean(true))

	case String:
		if !src.Access.canRead() {
			intp.drop(1)
			intp.push(Boolean(false))
			return nil
		}
		s := NewScanner(bytes.NewReader(src.Data))
		o, err := intp.scanObject(s)
		if err == io.EOF {
			intp.drop(1)
			intp.push(Boolean(false))
			return nil
		} else if err != nil {
			if isRecoverableIO(intp.readErr(err)) {
				intp.drop(1)
				intp.push(Boolean(false))
				return nil
			}
			return err
		}
		pos := min(int(s.offset), len(src.Data))
		rest := String{Data: src.Data[pos:len(src.Data):len(src.Data)], Access: src.Access}
		intp.drop(1)
		intp.push(rest, o, Boolean(true))

	default:
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	return nil
}

// bWrite writes a single byte.  If the file is not writable, false is
// pushed instead of raising an error.
func bWrite(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	f, ok := intp.Stack[len(intp.Stack)-2].(*File)
	if !ok {
		return intp.e(TypeMismatch, "expected file, got %T", intp.Stack[len(intp.Stack)-2])
	}
	c, ok := intp.Stack[len(intp.Stack)-1].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "expected integer, got %T", intp.Stack[len(intp.Stack)-1])
	}
	intp.drop(2)
	if err := intp.checkWritable(f); err != nil {
		if isRecoverableIO(err) {
			intp.push(Boolean(false))
			return nil
		}
		return err
	}
	f.write([]byte{byte(c)})
	return nil
}

func (intp *Interpreter) checkWritable(f *File) error {
	if f.closed {
		return intp.e(IOFailure, "file %s is closed", f.name)
	} else if !f.canWrite() {
		return intp.e(NoWriteAccess, "file %s is not writable", f.name)
	}
	return nil
}

func bWritestring(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	f, ok := intp.Stack[len(intp.Stack)-2].(*File)
	if !ok {
		return intp.e(TypeMismatch, "expected file, got %T", intp.Stack[len(intp.Stack)-2])
	}
	s, ok := intp.Stack[len(intp.Stack)-1].(String)
	if !ok {
		return intp.e(TypeMismatch, "expected string, got %T", intp.Stack[len(intp.Stack)-1])
	}
	if err := intp.checkWritable(f); err != nil {
		return err
	}
	intp.drop(2)
	f.write(s.Data)
	return nil
}

func bFlushfile(intp *Interpreter) error {
	f, err := intp.popFile()
	if err != nil {
		return err
	}
	f.flush()
	return nil
}
