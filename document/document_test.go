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

package document

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

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

func TestShapeBBox(t *testing.T) {
	s := &Shape{Path: square(10, 20, 5), Fill: paint.Black}
	want := rect.Rect{LLx: 10, LLy: 20, URx: 15, URy: 25}
	if d := cmp.Diff(want, s.BBox()); d != "" {
		t.Error(d)
	}

	s.Stroke = paint.Black
	s.StrokeStyle.Width = 2
	want = rect.Rect{LLx: 9, LLy: 19, URx: 16, URy: 26}
	if d := cmp.Diff(want, s.BBox()); d != "" {
		t.Error(d)
	}
}

func TestPlaceBitmap(t *testing.T) {
	doc := New()
	pix := make([]byte, 2*3*4)
	M := matrix.Scale(20, 30).Mul(matrix.Translate(100, 200))
	bm, err := doc.PlaceBitmap(pix, 2, 3, M)
	if err != nil {
		t.Fatal(err)
	}
	if bm.Image.Bounds().Dx() != 2 || bm.Image.Bounds().Dy() != 3 {
		t.Errorf("wrong image size %v", bm.Image.Bounds())
	}
	want := rect.Rect{LLx: 100, LLy: 200, URx: 120, URy: 230}
	if d := cmp.Diff(want, bm.BBox()); d != "" {
		t.Error(d)
	}

	_, err = doc.PlaceBitmap(pix, 3, 3, M)
	if err == nil {
		t.Error("short pixel data not detected")
	}
}

func TestDocumentBBox(t *testing.T) {
	doc := New()
	doc.AddObject(&Shape{Path: square(0, 0, 1), Fill: paint.Black})
	doc.AddObject(&Shape{Path: square(5, 5, 1), Fill: paint.Black})
	want := rect.Rect{LLx: 0, LLy: 0, URx: 6, URy: 6}
	if d := cmp.Diff(want, doc.BBox()); d != "" {
		t.Error(d)
	}

	doc.BoundingBox = rect.Rect{LLx: -1, LLy: -1, URx: 10, URy: 10}
	if d := cmp.Diff(doc.BoundingBox, doc.BBox()); d != "" {
		t.Error(d)
	}
}

func TestMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	doc := New()
	doc.Log = log.New(buf, "", 0)
	doc.Warn("imagemask is not supported")
	doc.Info("hello")

	if len(doc.Warnings) != 1 || len(doc.Infos) != 1 {
		t.Fatalf("got %d warnings and %d infos", len(doc.Warnings), len(doc.Infos))
	}
	out := buf.String()
	if !strings.Contains(out, "warning: imagemask is not supported") || !strings.Contains(out, "hello") {
		t.Errorf("unexpected log output %q", out)
	}
}
