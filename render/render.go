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

// Package render draws EPS documents into raster images.
//
// The renderer is meant for previews.  Fills use the nonzero winding
// rule, also for shapes which request the even-odd rule.  Strokes are
// approximated by polygons, with round joins and caps for lines wider
// than one pixel.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/eps/document"
)

// MaxPixels limits the size of the generated images.
const MaxPixels = 1 << 27

// Image renders doc at the given resolution, in dots per inch.  The
// image covers the bounding box of the document.  If bg is not nil, the
// image is filled with bg before drawing.
func Image(doc *document.Document, dpi float64, bg color.Color) (*image.RGBA, error) {
	bbox := doc.BBox()
	if bbox.IsZero() {
		return nil, errors.New("empty drawing")
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid resolution %g", dpi)
	}
	scale := dpi / 72
	w := int(math.Ceil((bbox.URx - bbox.LLx) * scale))
	h := int(math.Ceil((bbox.URy - bbox.LLy) * scale))
	if w <= 0 || h <= 0 || w > MaxPixels/h {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	r := &renderer{
		img: img,
		ras: vector.NewRasterizer(w, h),
		// page coordinates to pixels, with the y-axis pointing down
		toPixel: matrix.Translate(-bbox.LLx, -bbox.LLy).
			Mul(matrix.Scale(scale, -scale)).
			Mul(matrix.Translate(0, float64(h))),
	}
	for _, obj := range doc.Objects {
		switch obj := obj.(type) {
		case *document.Shape:
			r.drawShape(obj)
		case *document.Bitmap:
			r.drawBitmap(obj)
		}
	}
	return img, nil
}

type renderer struct {
	img     *image.RGBA
	ras     *vector.Rasterizer
	toPixel matrix.Matrix
}

func (r *renderer) pixel(p vec.Vec2) (float32, float32) {
	M := r.toPixel
	return float32(M[0]*p.X + M[2]*p.Y + M[4]), float32(M[1]*p.X + M[3]*p.Y + M[5])
}

// coverage scan-converts the path p into an alpha mask.
func (r *renderer) coverage(p *path.Data) *image.Alpha {
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			r.ras.MoveTo(r.pixel(pts[0]))
		case path.CmdLineTo:
			r.ras.LineTo(r.pixel(pts[0]))
		case path.CmdQuadTo:
			x1, y1 := r.pixel(pts[0])
			x2, y2 := r.pixel(pts[1])
			r.ras.QuadTo(x1, y1, x2, y2)
		case path.CmdCubeTo:
			x1, y1 := r.pixel(pts[0])
			x2, y2 := r.pixel(pts[1])
			x3, y3 := r.pixel(pts[2])
			r.ras.CubeTo(x1, y1, x2, y2, x3, y3)
		case path.CmdClose:
			r.ras.ClosePath()
		}
	}
	mask := image.NewAlpha(b)
	r.ras.Draw(mask, b, image.Opaque, image.Point{})
	return mask
}

func (r *renderer) drawShape(s *document.Shape) {
	if s.Path == nil {
		return
	}
	var clip *image.Alpha
	if s.Clip != nil {
		clip = r.coverage(s.Clip)
	}
	if s.Fill != nil {
		r.paintMask(r.coverage(s.Path), clip, s.Fill)
	}
	if s.Stroke != nil {
		outline := strokeOutline(s.Path, s.StrokeStyle, r.pixelScale())
		r.paintMask(r.coverage(outline), clip, s.Stroke)
	}
}

// pixelScale returns the number of pixels per unit of page space.
func (r *renderer) pixelScale() float64 {
	return math.Abs(r.toPixel[0])
}

func (r *renderer) paintMask(mask, clip *image.Alpha, col color.Color) {
	if clip != nil {
		for i, a := range clip.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(a) / 255)
		}
	}
	draw.DrawMask(r.img, r.img.Bounds(), image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *renderer) drawBitmap(bm *document.Bitmap) {
	b := bm.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	// source pixels to the unit square, top row first
	U := matrix.Matrix{1 / w, 0, 0, -1 / h, 0, 1}
	T := U.Mul(bm.Matrix).Mul(r.toPixel)
	s2d := f64.Aff3{T[0], T[2], T[4], T[1], T[3], T[5]}
	draw.ApproxBiLinear.Transform(r.img, s2d, bm.Image, b, draw.Over, nil)
}
