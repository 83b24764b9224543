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
	"bytes"
	"io"
)

// SubFileDecode passes data through unchanged, up to an end-of-data marker.
//
// If eod is non-empty, the data ends just before the (count+1)-th occurrence
// of eod in the input; the terminating occurrence is consumed.
// If eod is empty, exactly count bytes are passed through.
// If both are zero, the data extends to the end of the input.
func SubFileDecode(r io.ByteReader, count int, eod []byte) io.Reader {
	res := &subFileReader{
		r:     r,
		count: count,
		eod:   bytes.Clone(eod),
	}
	if len(eod) == 0 && count == 0 {
		res.count = -1
	}
	return res
}

type subFileReader struct {
	r     io.ByteReader
	count int // -1 means no limit
	eod   []byte
	err   error

	// pending holds input bytes which match a prefix of eod
	pending []byte
	// out holds bytes which are ready to be returned
	out []byte
}

func (r *subFileReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.out) > 0 {
			k := copy(p[n:], r.out)
			r.out = r.out[k:]
			n += k
			continue
		}
		if r.err != nil {
			break
		}

		if len(r.eod) == 0 {
			if r.count == 0 {
				r.err = io.EOF
				break
			}
			b, err := r.r.ReadByte()
			if err != nil {
				r.err = err
				break
			}
			if r.count > 0 {
				r.count--
			}
			p[n] = b
			n++
			continue
		}

		b, err := r.r.ReadByte()
		if err != nil {
			r.out = r.pending
			r.pending = nil
			r.err = err
			continue
		}
		r.pending = append(r.pending, b)
		for len(r.pending) > 0 && !bytes.HasPrefix(r.eod, r.pending) {
			r.out = append(r.out, r.pending[0])
			r.pending = r.pending[1:]
		}
		if len(r.pending) == len(r.eod) {
			r.pending = r.pending[:0]
			if r.count == 0 {
				r.err = io.EOF
			} else {
				r.count--
				r.out = append(r.out, r.eod...)
			}
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}
