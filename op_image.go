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
	"seehuhn.de/go/geom/matrix"
)

// bImage implements both forms of the image operator:
//
//	width height bits/sample matrix datasrc image
//	dict image
//
// The five operand form always uses DeviceGray.  The dictionary form
// uses the current colour space.
func bImage(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	if dict, ok := obj.(Dict); ok {
		p, M, err := intp.imageDict(dict, intp.gs.cs, false)
		if err != nil {
			return err
		}
		intp.drop(1)
		return intp.drawImage(p, M)
	}

	if err := intp.need(5); err != nil {
		return err
	}
	n := len(intp.Stack)
	p, M, err := intp.imageOperands(intp.Stack[n-5:n-1], deviceGray)
	if err != nil {
		return err
	}
	src, err := intp.newSampleSource(intp.Stack[n-1])
	if err != nil {
		return err
	}
	p.sources = []sampleSource{src}
	intp.drop(5)
	return intp.drawImage(p, M)
}

// bColorimage implements
//
//	width height bits/comp matrix datasrc_0 ... datasrc_ncomp-1 multi ncomp colorimage
//
// where only a single data source is present if multi is false.
func bColorimage(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	n := len(intp.Stack)
	nComp, ok := intp.Stack[n-1].(Integer)
	if !ok {
		return intp.e(TypeMismatch, "expected integer, got %T", intp.Stack[n-1])
	}
	multi, ok := intp.Stack[n-2].(Boolean)
	if !ok {
		return intp.e(TypeMismatch, "expected boolean, got %T", intp.Stack[n-2])
	}

	var cs *colorSpace
	switch nComp {
	case 1:
		cs = deviceGray
	case 3:
		cs = deviceRGB
	case 4:
		cs = deviceCMYK
	default:
		return intp.e(IndexOutOfRange, "invalid number of components %d", nComp)
	}
	nSrc := 1
	if multi {
		nSrc = int(nComp)
	}
	if err := intp.need(6 + nSrc); err != nil {
		return err
	}
	base := n - 2 - nSrc
	p, M, err := intp.imageOperands(intp.Stack[base-4:base], cs)
	if err != nil {
		return err
	}
	for _, obj := range intp.Stack[base : base+nSrc] {
		src, err := intp.newSampleSource(obj)
		if err != nil {
			return err
		}
		p.sources = append(p.sources, src)
	}
	intp.drop(6 + nSrc)
	return intp.drawImage(p, M)
}

// bImagemask reads and discards the sample data of a stencil mask.
// Masks are not drawn.
func bImagemask(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	var p *imageParams
	var nArgs int
	if dict, ok := obj.(Dict); ok {
		p, _, err = intp.imageDict(dict, deviceGray, true)
		nArgs = 1
	} else {
		if err := intp.need(5); err != nil {
			return err
		}
		n := len(intp.Stack)
		args := append([]Object{}, intp.Stack[n-5:n-1]...)
		if _, ok := args[2].(Boolean); !ok {
			return intp.e(TypeMismatch, "expected boolean, got %T", args[2])
		}
		args[2] = Integer(1)
		p, _, err = intp.imageOperands(args, deviceGray)
		if err == nil {
			var src sampleSource
			src, err = intp.newSampleSource(intp.Stack[n-1])
			p.sources = []sampleSource{src}
		}
		nArgs = 5
	}
	if err != nil {
		return err
	}
	intp.warnOnce("imagemask", "imagemask is not supported")
	intp.drop(nArgs)
	_, err = intp.decodeSamples(p)
	return err
}

// imageOperands interprets the operands "width height bits matrix".
func (intp *Interpreter) imageOperands(args []Object, cs *colorSpace) (*imageParams, matrix.Matrix, error) {
	var dims [3]int
	for i := range dims {
		x, ok := args[i].(Integer)
		if !ok {
			return nil, matrix.Matrix{}, intp.e(TypeMismatch, "expected integer, got %T", args[i])
		}
		dims[i] = int(x)
	}
	_, M, err := intp.asMatrix(args[3])
	if err != nil {
		return nil, matrix.Matrix{}, err
	}
	p := &imageParams{
		width:  dims[0],
		height: dims[1],
		bpc:    dims[2],
		cs:     cs,
	}
	return p, M, nil
}

// imageDict interprets an image dictionary of ImageType 1.
func (intp *Interpreter) imageDict(dict Dict, cs *colorSpace, mask bool) (*imageParams, matrix.Matrix, error) {
	getInt := func(key Name) (int, error) {
		x, ok := dict[key].(Integer)
		if !ok {
			return 0, intp.e(TypeMismatch, "missing or invalid /%s", key)
		}
		return int(x), nil
	}
	if tp, err := getInt("ImageType"); err != nil {
		return nil, matrix.Matrix{}, err
	} else if tp != 1 {
		return nil, matrix.Matrix{}, intp.e(IndexOutOfRange, "unsupported image type %d", tp)
	}
	w, err := getInt("Width")
	if err != nil {
		return nil, matrix.Matrix{}, err
	}
	h, err := getInt("Height")
	if err != nil {
		return nil, matrix.Matrix{}, err
	}
	bpc, err := getInt("BitsPerComponent")
	if err != nil {
		return nil, matrix.Matrix{}, err
	}
	if mask {
		bpc = 1
	}
	imObj, ok := dict[Name("ImageMatrix")]
	if !ok {
		return nil, matrix.Matrix{}, intp.e(TypeMismatch, "missing /ImageMatrix")
	}
	_, M, err := intp.asMatrix(imObj)
	if err != nil {
		return nil, matrix.Matrix{}, err
	}

	switch cs.model {
	case modelPattern, modelUnknown:
		return nil, matrix.Matrix{}, intp.e(InvalidFormat, "images cannot use colour space %s", cs.family)
	}
	p := &imageParams{width: w, height: h, bpc: bpc, cs: cs}

	if dObj, ok := dict[Name("Decode")]; ok && !mask {
		a, ok := intp.asArray(dObj)
		if !ok {
			return nil, matrix.Matrix{}, intp.e(TypeMismatch, "invalid /Decode")
		}
		for _, elem := range a.Elems {
			x, ok := toFloat(elem)
			if !ok {
				return nil, matrix.Matrix{}, intp.e(TypeMismatch, "invalid /Decode element %T", elem)
			}
			p.decode = append(p.decode, x)
		}
	}

	srcObj, ok := dict[Name("DataSource")]
	if !ok {
		return nil, matrix.Matrix{}, intp.e(TypeMismatch, "missing /DataSource")
	}
	multi, _ := dict[Name("MultipleDataSources")].(Boolean)
	var srcObjs []Object
	if multi {
		a, ok := intp.asArray(srcObj)
		if !ok {
			return nil, matrix.Matrix{}, intp.e(TypeMismatch, "/DataSource must be an array")
		}
		srcObjs = a.Elems
	} else {
		srcObjs = []Object{srcObj}
	}
	for _, obj := range srcObjs {
		src, err := intp.newSampleSource(obj)
		if err != nil {
			return nil, matrix.Matrix{}, err
		}
		p.sources = append(p.sources, src)
	}
	return p, M, nil
}

// drawImage decodes the image data and adds the resulting bitmap to the
// document.  M is the image matrix, mapping user space to image space.
func (intp *Interpreter) drawImage(p *imageParams, M matrix.Matrix) error {
	pix, err := intp.decodeSamples(p)
	if err != nil {
		return err
	}
	inv, ok := invert(M)
	if !ok {
		return intp.e(NoninvertibleTransform, "image matrix is not invertible")
	}
	if intp.Raster == nil || intp.Sink == nil {
		return nil
	}

	// the unit square, with the first image row at the top
	S := matrix.Matrix{float64(p.width), 0, 0, -float64(p.height), 0, float64(p.height)}
	bm, err := intp.Raster.PlaceBitmap(pix, p.width, p.height, S.Mul(inv).Mul(intp.gs.CTM))
	if err != nil {
		return intp.e(IOFailure, "%v", err)
	}
	intp.Sink.AddObject(bm)
	return nil
}
