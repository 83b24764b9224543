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
)

// bEexec decrypts the data following the current position of a file (or
// the contents of a string) and runs it with systemdict on top of the
// dictionary stack.  This is used by embedded Type 1 font programs.
func bEexec(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	var src io.ByteReader
	switch obj := obj.(type) {
	case *File:
		src = obj
	case String:
		src = bytes.NewReader(obj.Data)
	default:
		return intp.e(TypeMismatch, "expected file or string, got %T", obj)
	}
	intp.drop(1)

	r, err := newEexecReader(src)
	if err != nil {
		return intp.readErr(err)
	}

	k := len(intp.DictStack)
	intp.DictStack = append(intp.DictStack, intp.SystemDict)
	s := NewScanner(r)
	// Avoid reading past the end of the encrypted section.
	s.buf = s.buf[:1]
	err = intp.run(s)
	if len(intp.DictStack) > k {
		intp.DictStack = intp.DictStack[:k]
	}
	return err
}

const (
	eexecKey  = 55665
	eexecC1   = 52845
	eexecC2   = 22719
	eexecSkip = 4
)

// eexecReader decrypts eexec-encrypted data, given either in binary or
// in hexadecimal form.
type eexecReader struct {
	src      io.ByteReader
	head     []byte
	skip     int
	r        uint16
	isBinary bool
}

func newEexecReader(src io.ByteReader) (*eexecReader, error) {
	var head []byte
	for len(head) < eexecSkip {
		b, err := src.ReadByte()
		if err == io.EOF && len(head) > 0 {
			break
		} else if err != nil {
			return nil, err
		}
		if len(head) == 0 && (b == ' ' || b == '\t' || b == '\r' || b == '\n') {
			continue
		}
		head = append(head, b)
	}

	isHex := true
	for _, b := range head {
		if !isHexDigit(b) {
			isHex = false
			break
		}
	}

	return &eexecReader{
		src:      src,
		head:     head,
		skip:     eexecSkip,
		r:        eexecKey,
		isBinary: !isHex,
	}, nil
}

func (r *eexecReader) Read(p []byte) (int, error) {
	for r.skip > 0 {
		_, err := r.nextPlain()
		if err != nil {
			return 0, err
		}
		r.skip--
	}
	for i := range p {
		b, err := r.nextPlain()
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

func (r *eexecReader) nextPlain() (byte, error) {
	cipher, err := r.nextCipher()
	if err != nil {
		return 0, err
	}
	plain := cipher ^ byte(r.r>>8)
	r.r = (uint16(cipher)+r.r)*eexecC1 + eexecC2
	return plain, nil
}

func (r *eexecReader) rawByte() (byte, error) {
	if len(r.head) > 0 {
		b := r.head[0]
		r.head = r.head[1:]
		return b, nil
	}
	return r.src.ReadByte()
}

func (r *eexecReader) nextCipher() (byte, error) {
	if r.isBinary {
		return r.rawByte()
	}

	var out byte
	for i := 0; i < 2; {
		b, err := r.rawByte()
		if err != nil {
			return 0, err
		}
		switch {
		case b <= 32:
			continue
		case b >= '0' && b <= '9':
			b -= '0'
		case b >= 'A' && b <= 'F':
			b -= 'A' - 10
		case b >= 'a' && b <= 'f':
			b -= 'a' - 10
		default:
			return 0, &Error{Kind: IOFailure, Msg: "invalid hex digit in eexec data"}
		}
		out = out<<4 | b
		i++
	}
	return out, nil
}

func isHexDigit(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}
