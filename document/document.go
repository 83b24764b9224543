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

// Package document holds the drawing produced by running an EPS file.
//
// A drawing is a flat list of objects in painting order.  Shapes are filled
// or stroked paths, bitmaps are sampled images placed by an affine
// transformation.  All coordinates are in PostScript default user space,
// i.e. in units of 1/72 inch with the y-axis pointing up.
package document

import (
	"fmt"
	"image"
	"log"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/eps/paint"
)

// Object is an element of a drawing.
type Object interface {
	// BBox returns the bounding box of the object.
	BBox() rect.Rect
}

// Sink receives the objects painted by the interpreter.
type Sink interface {
	AddObject(obj Object)
}

// RasterSink turns sample data into placeable bitmaps.
type RasterSink interface {
	// PlaceBitmap constructs a bitmap from RGBA pixel data.  The pixel
	// data has 4 bytes per pixel and holds h rows of w pixels each,
	// starting with the top row.  The matrix m maps the unit square to the
	// position of the image on the page.
	PlaceBitmap(pix []byte, w, h int, m matrix.Matrix) (*Bitmap, error)
}

// MessageSink receives non-fatal diagnostics.
type MessageSink interface {
	Warn(msg string)
	Info(msg string)
}

// FillRule selects how the inside of a path is determined.
type FillRule uint8

// These are the fill rules supported by PostScript.
const (
	NonZero FillRule = iota
	EvenOdd
)

// LineCap is the PostScript line cap style.
type LineCap uint8

// These are the line cap styles.
const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

// LineJoin is the PostScript line join style.
type LineJoin uint8

// These are the line join styles.
const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// StrokeStyle collects the parameters used when stroking a path.
// Widths and dash lengths are in device space units.
type StrokeStyle struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
}

// Shape is a path which is filled, stroked, or both.
type Shape struct {
	Path *path.Data

	// Fill is the paint used to fill the interior of the path.
	// If Fill is nil, the path is not filled.
	Fill     paint.Paint
	FillRule FillRule

	// Stroke is the paint used to stroke the outline of the path.
	// If Stroke is nil, the path is not stroked.
	Stroke      paint.Paint
	StrokeStyle StrokeStyle

	// Clip, if non-nil, restricts painting to the interior of this path
	// (using the nonzero winding rule).
	Clip *path.Data
}

// BBox implements the [Object] interface.
// For stroked shapes the box is enlarged by half the line width.
func (s *Shape) BBox() rect.Rect {
	if s.Path == nil {
		return rect.Rect{}
	}
	bbox := s.Path.Iter().BBox()
	if s.Stroke != nil && !bbox.IsZero() {
		w := s.StrokeStyle.Width / 2
		bbox.LLx -= w
		bbox.LLy -= w
		bbox.URx += w
		bbox.URy += w
	}
	return bbox
}

// Bitmap is a sampled image.
type Bitmap struct {
	Image *image.RGBA

	// Matrix maps the unit square to the page.  The top row of the image
	// is mapped to y=1, the bottom row to y=0.
	Matrix matrix.Matrix
}

// BBox implements the [Object] interface.
func (b *Bitmap) BBox() rect.Rect {
	unit := &path.Data{}
	unit.MoveTo(vec.Vec2{X: 0, Y: 0})
	unit.LineTo(vec.Vec2{X: 1, Y: 0})
	unit.LineTo(vec.Vec2{X: 1, Y: 1})
	unit.LineTo(vec.Vec2{X: 0, Y: 1})
	unit.Close()
	return unit.Iter().Transform(b.Matrix).BBox()
}

// Document collects the result of running an EPS file.
// Document implements the [Sink], [RasterSink] and [MessageSink]
// interfaces.
type Document struct {
	Objects []Object

	// BoundingBox is the value of the %%BoundingBox DSC comment,
	// or the zero rectangle if no such comment was found.
	BoundingBox rect.Rect

	Warnings []string
	Infos    []string

	// If Log is set, all messages are also written to this logger.
	Log *log.Logger
}

// New returns a new, empty document.
func New() *Document {
	return &Document{}
}

// AddObject implements the [Sink] interface.
func (d *Document) AddObject(obj Object) {
	d.Objects = append(d.Objects, obj)
}

// PlaceBitmap implements the [RasterSink] interface.
func (d *Document) PlaceBitmap(pix []byte, w, h int, m matrix.Matrix) (*Bitmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid bitmap size %dx%d", w, h)
	}
	if len(pix) != 4*w*h {
		return nil, fmt.Errorf("expected %d bytes of pixel data, got %d", 4*w*h, len(pix))
	}
	img := &image.RGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	return &Bitmap{Image: img, Matrix: m}, nil
}

// Warn implements the [MessageSink] interface.
func (d *Document) Warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
	if d.Log != nil {
		d.Log.Print("warning: " + msg)
	}
}

// Info implements the [MessageSink] interface.
func (d *Document) Info(msg string) {
	d.Infos = append(d.Infos, msg)
	if d.Log != nil {
		d.Log.Print(msg)
	}
}

// BBox returns the bounding box of the drawing.
// If a bounding box was given in the file header, this is used.
// Otherwise the union of all object bounding boxes is returned.
func (d *Document) BBox() rect.Rect {
	if !d.BoundingBox.IsZero() {
		return d.BoundingBox
	}
	return d.ContentBBox()
}

// ContentBBox returns the union of the bounding boxes of all objects.
func (d *Document) ContentBBox() rect.Rect {
	var bbox rect.Rect
	for _, obj := range d.Objects {
		b := obj.BBox()
		if b.IsZero() {
			continue
		}
		if bbox.IsZero() {
			bbox = b
		} else {
			bbox.Extend(b)
		}
	}
	return bbox
}
