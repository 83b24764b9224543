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

// Package filter implements the PostScript decode filters.
//
// The filters read their input one byte at a time, so that a filter
// reading from the file which is currently being executed stops exactly
// at the end-of-data marker and leaves the remaining program text in place.
package filter

import (
	"fmt"
	"io"
)

// ASCIIHexDecode decodes data that has been encoded in ASCII hexadecimal
// form.  The data ends at the first '>' character.
func ASCIIHexDecode(r io.ByteReader) io.Reader {
	return &hexReader{r: r}
}

type hexReader struct {
	r    io.ByteReader
	err  error
	half bool
	high byte
}

func (r *hexReader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}

readLoop:
	for n < len(p) {
		c, err := r.r.ReadByte()
		if err != nil {
			r.flushHalf(p, &n)
			r.err = err
			break readLoop
		}

		var b byte
		switch c {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			b = c - '0'
		case 'A', 'B', 'C', 'D', 'E', 'F':
			b = c - 'A' + 10
		case 'a', 'b', 'c', 'd', 'e', 'f':
			b = c - 'a' + 10

		case 0, 9, 10, 12, 13, 32: // white-space
			continue readLoop

		case '>': // end of data
			r.flushHalf(p, &n)
			r.err = io.EOF
			break readLoop

		default:
			r.err = fmt.Errorf("invalid hex character %q", c)
			break readLoop
		}

		if r.half {
			p[n] = r.high<<4 | b
			n++
			r.half = false
		} else {
			r.high = b
			r.half = true
		}
	}

	return n, r.err
}

// flushHalf emits a final odd hex digit, as if it was followed by a 0.
func (r *hexReader) flushHalf(p []byte, n *int) {
	if r.half && *n < len(p) {
		p[*n] = r.high << 4
		*n++
		r.half = false
	}
}
