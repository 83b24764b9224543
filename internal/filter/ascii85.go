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

package filter

import (
	"errors"
	"io"
)

// ASCII85Decode decodes data in the base-85 encoding used by PostScript.
// The data ends at the "~>" marker.
func ASCII85Decode(r io.ByteReader) io.Reader {
	return &ascii85Reader{r: r}
}

type ascii85Reader struct {
	r        io.ByteReader
	err      error
	outbuf   [4]byte
	leftover []byte
	v        uint32
	k        int
	isEnd    bool
}

func (r *ascii85Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
	}
	if r.err != nil {
		return r.result(n)
	}

	for n < len(p) {
		c, err := r.r.ReadByte()
		if err == io.EOF && !r.isEnd {
			// tolerate a missing end marker
			r.finish(p, &n)
			r.err = io.EOF
			return r.result(n)
		} else if err != nil {
			r.err = err
			return r.result(n)
		}

		// "~" can only be the first part of the end marker "~>"
		if r.isEnd {
			if c == '>' {
				r.err = io.EOF
			} else {
				r.err = errors.New("invalid end marker in ASCII85 stream")
			}
			return r.result(n)
		}

		switch {
		case isSpace(c):
			continue
		case c >= '!' && c < '!'+85:
			r.v = r.v*85 + uint32(c-'!')
			r.k++
		case r.k == 0 && c == 'z':
			r.v = 0
			r.k = 5
		case c == '~':
			if r.k == 1 {
				r.err = errors.New("unexpected end marker in ASCII85 stream")
				return r.result(n)
			}
			r.finish(p, &n)
			r.isEnd = true
			continue
		default:
			r.err = errors.New("invalid character in ASCII85 stream")
			return r.result(n)
		}

		if r.k == 5 {
			r.emit(p, &n, 4)
			r.k = 0
			r.v = 0
		}
	}
	return n, nil
}

// result reports a pending error only if no data was read.
func (r *ascii85Reader) result(n int) (int, error) {
	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

// finish flushes a partial final group.
func (r *ascii85Reader) finish(p []byte, n *int) {
	if r.k < 2 {
		r.k = 0
		return
	}
	for i := r.k; i < 5; i++ {
		r.v = r.v*85 + 84
	}
	r.emit(p, n, r.k-1)
	r.k = 0
	r.v = 0
}

func (r *ascii85Reader) emit(p []byte, n *int, count int) {
	r.outbuf[0] = byte(r.v >> 24)
	r.outbuf[1] = byte(r.v >> 16)
	r.outbuf[2] = byte(r.v >> 8)
	r.outbuf[3] = byte(r.v)
	l := copy(p[*n:], r.outbuf[:count])
	*n += l
	if l < count {
		r.leftover = r.outbuf[l:count]
	}
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}
