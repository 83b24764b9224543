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
	"io"

	"seehuhn.de/go/eps/paint"
)

// sampleSource provides the raw bytes of an image.  Sources never run
// out of data: when the underlying data is exhausted they either start
// over or deliver zeros.
type sampleSource interface {
	nextByte() (byte, error)
}

// bufferSource reads samples from a string.  When the end of the data
// is reached, reading restarts at the beginning.
type bufferSource struct {
	data []byte
	pos  int
}

func (s *bufferSource) nextByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, nil
	}
	if s.pos >= len(s.data) {
		s.pos = 0
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// procSource calls a procedure whenever more data is needed.  Once the
// procedure returns an empty string, all further samples are zero.
type procSource struct {
	intp *Interpreter
	proc Procedure
	buf  []byte
	pos  int
	done bool
}

func (s *procSource) nextByte() (byte, error) {
	for !s.done && s.pos >= len(s.buf) {
		buf, err := s.intp.callForString(s.proc)
		if err != nil {
			return 0, err
		}
		s.buf, s.pos = buf, 0
		if len(buf) == 0 {
			s.done = true
		}
	}
	if s.done {
		return 0, nil
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// fileSource reads samples from a file.  At end of file the file is
// restarted; if it is still empty afterwards, the remaining samples are
// zero.
type fileSource struct {
	intp *Interpreter
	f    *File
	dead bool
}

func (s *fileSource) nextByte() (byte, error) {
	if s.dead {
		return 0, nil
	}
	b, err := s.f.ReadByte()
	if err == nil {
		return b, nil
	} else if !errors.Is(err, io.EOF) {
		return 0, s.intp.readErr(err)
	}

	if !s.f.canRestart() {
		return 0, s.intp.e(IOFailure, "image data exhausted")
	}
	if err := s.f.Restart(); err != nil {
		return 0, err
	}
	b, err = s.f.ReadByte()
	if errors.Is(err, io.EOF) {
		s.dead = true
		return 0, nil
	} else if err != nil {
		return 0, s.intp.readErr(err)
	}
	return b, nil
}

// newSampleSource wraps an image data operand.
func (intp *Interpreter) newSampleSource(obj Object) (sampleSource, error) {
	switch obj := obj.(type) {
	case String:
		return &bufferSource{data: obj.Data}, nil
	case Procedure:
		return &procSource{intp: intp, proc: obj}, nil
	case *File:
		return &fileSource{intp: intp, f: obj}, nil
	default:
		return nil, intp.e(TypeMismatch, "invalid image data source %T", obj)
	}
}

// bitReader unpacks samples of 1, 2, 4, 8 or 12 bits, most significant
// bit first.
type bitReader struct {
	src   sampleSource
	depth uint
	buf   uint32
	nBuf  uint
}

func (r *bitReader) read() (uint32, error) {
	for r.nBuf < r.depth {
		b, err := r.src.nextByte()
		if err != nil {
			return 0, err
		}
		r.buf = r.buf<<8 | uint32(b)
		r.nBuf += 8
	}
	r.nBuf -= r.depth
	s := (r.buf >> r.nBuf) & (1<<r.depth - 1)
	r.buf &= 1<<r.nBuf - 1
	return s, nil
}

// alignRow discards the unused bits at the end of an image row.
func (r *bitReader) alignRow() {
	r.buf = 0
	r.nBuf = 0
}

func validDepth(bpc int) bool {
	switch bpc {
	case 1, 2, 4, 8, 12:
		return true
	}
	return false
}

// imageParams describes a sampled image.
type imageParams struct {
	width, height int
	bpc           int
	cs            *colorSpace

	// decode holds a pair of numbers for every component, or nil for the
	// default mapping.
	decode []float64

	// sources holds one source for interleaved data or one source per
	// component.
	sources []sampleSource
}

// maxImagePixels limits the size of images.
const maxImagePixels = 1 << 26

// decodeSamples reads the samples of an image and returns RGBA pixel
// data, four bytes per pixel, with the top row first.
func (intp *Interpreter) decodeSamples(p *imageParams) ([]byte, error) {
	if p.width <= 0 || p.height <= 0 {
		return nil, intp.e(IndexOutOfRange, "invalid image size %dx%d", p.width, p.height)
	}
	if p.width > maxImagePixels/p.height {
		return nil, intp.e(LimitExceeded, "image %dx%d is too large", p.width, p.height)
	}
	if !validDepth(p.bpc) {
		return nil, intp.e(InvalidFormat, "invalid bits per component %d", p.bpc)
	}
	nComp := p.cs.nComp
	if p.decode != nil && len(p.decode) != 2*nComp {
		return nil, intp.e(InvalidFormat, "Decode array needs %d elements, not %d", 2*nComp, len(p.decode))
	}
	if len(p.sources) != 1 && len(p.sources) != nComp {
		return nil, intp.e(InvalidFormat, "need 1 or %d data sources, got %d", nComp, len(p.sources))
	}

	readers := make([]*bitReader, len(p.sources))
	for i, src := range p.sources {
		readers[i] = &bitReader{src: src, depth: uint(p.bpc)}
	}

	var palette []paint.RGB
	if p.cs.model == modelIndexed {
		var err error
		palette, err = intp.indexedPalette(p.cs)
		if err != nil {
			return nil, err
		}
	}

	maxVal := float64(uint32(1)<<p.bpc - 1)
	direct := p.bpc == 8 && p.decode == nil && p.cs.model != modelIndexed

	// component maps a raw sample to its value.  For Indexed images this
	// is the palette index, otherwise a value in [0, 1].
	component := func(c int, s uint32) float64 {
		if p.decode != nil {
			lo, hi := p.decode[2*c], p.decode[2*c+1]
			return lo + float64(s)*(hi-lo)/maxVal
		}
		if p.cs.model == modelIndexed {
			return float64(s)
		}
		return float64(s) / maxVal
	}

	pix := make([]byte, 4*p.width*p.height)
	raw := make([]uint32, nComp)
	val := make([]float64, nComp)
	for y := range p.height {
		for x := range p.width {
			for c := range nComp {
				r := readers[0]
				if len(readers) > 1 {
					r = readers[c]
				}
				s, err := r.read()
				if err != nil {
					return nil, err
				}
				raw[c] = s
				val[c] = component(c, s)
			}

			out := pix[4*(y*p.width+x):]
			var rgb paint.RGB
			switch p.cs.model {
			case modelGray:
				if intp.gs.Transfer != nil {
					g, err := intp.applyTransfer(val[0])
					if err != nil {
						return nil, err
					}
					rgb = paint.NewGray(g).ToRGB()
				} else if direct {
					out[0], out[1], out[2], out[3] = byte(raw[0]), byte(raw[0]), byte(raw[0]), 255
					continue
				} else {
					rgb = paint.NewGray(val[0]).ToRGB()
				}
			case modelRGB:
				if direct {
					out[0], out[1], out[2], out[3] = byte(raw[0]), byte(raw[1]), byte(raw[2]), 255
					continue
				}
				rgb = paint.NewRGB(val[0], val[1], val[2])
			case modelCMYK:
				rgb = paint.NewCMYK(val[0], val[1], val[2], val[3]).ToRGB()
			case modelHSB:
				rgb = paint.NewHSB(val[0], val[1], val[2]).ToRGB()
			case modelIndexed:
				idx := max(0, min(int(val[0]+0.5), len(palette)-1))
				rgb = palette[idx]
			default:
				col, err := intp.paintFor(p.cs, val)
				if err != nil {
					return nil, err
				}
				rgb = col.ToRGB()
			}
			out[0] = paint.ToByte(rgb.R)
			out[1] = paint.ToByte(rgb.G)
			out[2] = paint.ToByte(rgb.B)
			out[3] = 255
		}
		for _, r := range readers {
			r.alignRow()
		}
	}
	return pix, nil
}

// indexedPalette evaluates all entries of an Indexed colour space.
func (intp *Interpreter) indexedPalette(cs *colorSpace) ([]paint.RGB, error) {
	palette := make([]paint.RGB, cs.hival+1)
	for i := range palette {
		base, err := intp.lookupIndex(cs, float64(i))
		if err != nil {
			return nil, err
		}
		col, err := intp.paintFor(cs.base, base)
		if err != nil {
			return nil, err
		}
		palette[i] = col.ToRGB()
	}
	return palette, nil
}
