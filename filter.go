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
	"strings"

	"seehuhn.de/go/eps/internal/filter"
)

// byteSource is the input of a decode filter.
type byteSource interface {
	io.Reader
	io.ByteReader
}

// bFilter implements "src /Name filter" and, for SubFileDecode,
// "src count string /SubFileDecode filter".  The only filter parameter
// used is /EarlyChange for LZWDecode; other parameters are ignored.
func bFilter(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	name, ok := intp.Stack[len(intp.Stack)-1].(Name)
	if !ok {
		return intp.e(TypeMismatch, "filter name must be a name, not %T", intp.Stack[len(intp.Stack)-1])
	}
	if strings.HasSuffix(string(name), "Encode") {
		return intp.e(InvalidFormat, "encoding filter %s is not supported", name)
	}

	pos := len(intp.Stack) - 2
	count := 0
	var eod []byte
	var params Dict
	if name == "SubFileDecode" {
		if err := intp.need(4); err != nil {
			return err
		}
		s, ok := intp.Stack[pos].(String)
		if !ok {
			return intp.e(TypeMismatch, "end-of-data marker must be a string")
		}
		n, ok := intp.Stack[pos-1].(Integer)
		if !ok {
			return intp.e(TypeMismatch, "count must be an integer")
		} else if n < 0 {
			return intp.e(IndexOutOfRange, "invalid count %d", n)
		}
		eod = s.Data
		count = int(n)
		pos -= 2
	} else if d, isDict := intp.Stack[pos].(Dict); isDict {
		params = d
		pos--
	}
	if pos < 0 {
		return intp.e(StackUnderflow, "missing data source")
	}

	var src byteSource
	var restart func() (io.Reader, error)
	switch obj := intp.Stack[pos].(type) {
	case *File:
		src = obj
	case String:
		data := obj.Data
		src = bytes.NewReader(data)
		restart = func() (io.Reader, error) {
			return makeFilter(name, bytes.NewReader(data), count, eod, params)
		}
	case Procedure:
		src = &procReader{intp: intp, proc: obj}
	default:
		return intp.e(TypeMismatch, "invalid data source %T", obj)
	}

	r, err := makeFilter(name, src, count, eod, params)
	if err != nil {
		return intp.readErr(err)
	}
	intp.Stack = intp.Stack[:pos]
	intp.push(newInputFile(string(name), r, restart))
	return nil
}

func makeFilter(name Name, src byteSource, count int, eod []byte, params Dict) (io.Reader, error) {
	switch name {
	case "ASCIIHexDecode":
		return filter.ASCIIHexDecode(src), nil
	case "ASCII85Decode":
		return filter.ASCII85Decode(src), nil
	case "RunLengthDecode":
		return filter.RunLengthDecode(src), nil
	case "LZWDecode":
		earlyChange := true
		if ec, ok := params[Name("EarlyChange")].(Integer); ok {
			earlyChange = ec != 0
		}
		return filter.LZWDecode(src, earlyChange), nil
	case "FlateDecode":
		return filter.FlateDecode(src)
	case "DCTDecode":
		return filter.DCTDecode(src)
	case "SubFileDecode":
		return filter.SubFileDecode(src, count, eod), nil
	default:
		return nil, &Error{Kind: UnknownOperator, Msg: "unknown filter " + string(name)}
	}
}

// procReader reads data from the strings returned by a procedure.  An
// empty string marks the end of the data.
type procReader struct {
	intp *Interpreter
	proc Procedure
	buf  []byte
	eof  bool
}

func (r *procReader) ReadByte() (byte, error) {
	for len(r.buf) == 0 {
		if r.eof {
			return 0, io.EOF
		}
		data, err := r.intp.callForString(r.proc)
		if err != nil {
			return 0, err
		}
		if len(data) == 0 {
			r.eof = true
		}
		r.buf = data
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, nil
}

func (r *procReader) Read(p []byte) (int, error) {
	for i := range p {
		b, err := r.ReadByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				err = nil
			}
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

// callForString runs proc, which must leave a string on the stack.
func (intp *Interpreter) callForString(proc Procedure) ([]byte, error) {
	if err := intp.execProc(proc); err != nil {
		return nil, err
	}
	s, err := intp.popString()
	if err != nil {
		return nil, err
	}
	return s.Data, nil
}
