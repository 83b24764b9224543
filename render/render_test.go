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

package render

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/eps/document"
	"seehuhn.de/go/eps/paint"
)

func square(x, y, size float64) *path.Data {
	p := &path.Data{}
	p.MoveTo(vec.Vec2{X: x, Y: y})
	p.LineTo(vec.Vec2{X: x + size, Y: y})
	p.LineTo(vec.Vec2{X: x + size, Y: y + size})
	p.LineTo(vec.Vec2{X: x, Y: y + size})
	p.Close()
	return p
}

func newDoc() *document.Document {
	doc := document.New()
	doc.BoundingBox = rect.Rect{URx: 72, URy: 72}
	return doc
}

func TestFill(t *testing.T) {
	doc := newDoc()
	doc.AddObject(&document.Shape{Path: square(0, 0, 36), Fill: paint.NewRGB(1, 0, 0)})

	img, err := Image(doc, 72, color.White)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 72 || b.Dy() != 72 {
		t.Fatalf("wrong image size %v", b)
	}
	cases := []struct {
		x, y int
		want color.RGBA
	}{
		{10, 60, color.RGBA{255, 0, 0, 255}}, // bottom left
		{60, 10, color.RGBA{255, 255, 255, 255}},
		{60, 60, color.RGBA{255, 255, 255, 255}},
	}
	for _, c := range cases {
		if got := img.RGBAAt(c.x, c.y); got != c.want {
			t.Errorf("pixel (%d,%d): got %v, expected %v", c.x, c.y, got, c.want)
		}
	}
}

func TestResolution(t *testing.T) {
	doc := newDoc()
	doc.AddObject(&document.Shape{Path: square(0, 0, 36), Fill: paint.Black})
	img, err := Image(doc, 144, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 144 || b.Dy() != 144 {
		t.Fatalf("wrong image size %v", b)
	}
	if a := img.RGBAAt(100, 10).A; a != 0 {
		t.Errorf("background is not transparent, alpha=%d", a)
	}
	if got := img.RGBAAt(10, 130); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("wrong fill colour %v", got)
	}
}

func TestClip(t *testing.T) {
	doc := newDoc()
	doc.AddObject(&document.Shape{
		Path: square(0, 0, 72),
		Fill: paint.Black,
		Clip: square(36, 36, 36),
	})
	img, err := Image(doc, 72, color.White)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(60, 10); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("inside clip: %v", got)
	}
	if got := img.RGBAAt(10, 60); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside clip: %v", got)
	}
}

func TestBitmap(t *testing.T) {
	doc := newDoc()
	pix := []byte{0, 0, 255, 255}
	bm, err := doc.PlaceBitmap(pix, 1, 1, matrix.Scale(72, 72))
	if err != nil {
		t.Fatal(err)
	}
	doc.AddObject(bm)
	img, err := Image(doc, 72, color.White)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(36, 36); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("wrong bitmap colour %v", got)
	}
}

func TestImageErrors(t *testing.T) {
	if _, err := Image(document.New(), 72, nil); err == nil {
		t.Error("empty document not detected")
	}
	if _, err := Image(newDoc(), 0, nil); err == nil {
		t.Error("invalid resolution not detected")
	}
}

func TestStrokeOutline(t *testing.T) {
	line := &path.Data{}
	line.MoveTo(vec.Vec2{X: 0, Y: 0})
	line.LineTo(vec.Vec2{X: 10, Y: 0})

	cases := []struct {
		style document.StrokeStyle
		want  rect.Rect
	}{
		{document.StrokeStyle{Width: 2, Cap: document.ButtCap},
			rect.Rect{LLx: 0, LLy: -1, URx: 10, URy: 1}},
		{document.StrokeStyle{Width: 2, Cap: document.SquareCap},
			rect.Rect{LLx: -1, LLy: -1, URx: 11, URy: 1}},
		{document.StrokeStyle{Width: 2, Cap: document.RoundCap},
			rect.Rect{LLx: -1, LLy: -1, URx: 11, URy: 1}},
	}
	for _, c := range cases {
		got := strokeOutline(line, c.style, 1).Iter().BBox()
		if d := cmp.Diff(c.want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("cap %d: %s", c.style.Cap, d)
		}
	}
}

func TestMiterJoin(t *testing.T) {
	corner := &path.Data{}
	corner.MoveTo(vec.Vec2{X: 0, Y: 0})
	corner.LineTo(vec.Vec2{X: 10, Y: 0})
	corner.LineTo(vec.Vec2{X: 10, Y: 10})

	style := document.StrokeStyle{Width: 2, Join: document.MiterJoin, MiterLimit: 10}
	got := strokeOutline(corner, style, 1).Iter().BBox()
	want := rect.Rect{LLx: 0, LLy: -1, URx: 11, URy: 10}
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Error(d)
	}

	// a bevel join does not reach the outer corner
	style.Join = document.BevelJoin
	got = strokeOutline(corner, style, 1).Iter().BBox()
	if got.URx != 11 || got.LLy != -1 {
		t.Errorf("unexpected bevel outline %v", got)
	}
}

func TestDash(t *testing.T) {
	lines := []polyline{{pts: []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}}}
	got := applyDash(lines, []float64{2, 3}, 0)
	want := []polyline{
		{pts: []vec.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}}},
		{pts: []vec.Vec2{{X: 5, Y: 0}, {X: 7, Y: 0}}},
	}
	opts := cmp.Options{cmp.AllowUnexported(polyline{}), cmpopts.EquateApprox(0, 1e-9)}
	if d := cmp.Diff(want, got, opts); d != "" {
		t.Error(d)
	}

	got = applyDash(lines, []float64{2, 3}, 1)
	want = []polyline{
		{pts: []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		{pts: []vec.Vec2{{X: 4, Y: 0}, {X: 6, Y: 0}}},
		{pts: []vec.Vec2{{X: 9, Y: 0}, {X: 10, Y: 0}}},
	}
	if d := cmp.Diff(want, got, opts); d != "" {
		t.Error(d)
	}
}
