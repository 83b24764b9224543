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
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/eps/document"
)

func bitmaps(t *testing.T, intp *Interpreter) []*document.Bitmap {
	t.Helper()
	var res []*document.Bitmap
	for _, obj := range intp.Document().Objects {
		bm, ok := obj.(*document.Bitmap)
		if !ok {
			t.Fatalf("unexpected object %T", obj)
		}
		res = append(res, bm)
	}
	return res
}

func TestImagePixels(t *testing.T) {
	cases := []struct {
		code string
		want []byte
	}{
		{ // 1 bit gray
			"2 1 1 [2 0 0 -1 0 1] <80> image",
			[]byte{255, 255, 255, 255, 0, 0, 0, 255},
		},
		{ // strings are reused when they run out
			"4 1 8 [4 0 0 -1 0 1] <00ff> image",
			[]byte{0, 0, 0, 255, 255, 255, 255, 255, 0, 0, 0, 255, 255, 255, 255, 255},
		},
		{ // procedures are called repeatedly
			"2 1 8 [2 0 0 -1 0 1] { <40> } image",
			[]byte{64, 64, 64, 255, 64, 64, 64, 255},
		},
		{ // rows start on a byte boundary
			"1 2 1 [1 0 0 -1 0 2] <0080> image",
			[]byte{0, 0, 0, 255, 255, 255, 255, 255},
		},
		{
			"1 1 8 [1 0 0 -1 0 1] <ff0000> false 3 colorimage",
			[]byte{255, 0, 0, 255},
		},
		{
			"1 1 8 [1 0 0 -1 0 1] <00> <ff> <00> true 3 colorimage",
			[]byte{0, 255, 0, 255},
		},
		{
			"1 1 8 [1 0 0 -1 0 1] <00000000> false 4 colorimage",
			[]byte{255, 255, 255, 255},
		},
		{
			`/DeviceRGB setcolorspace
			<< /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8
			   /ImageMatrix [1 0 0 -1 0 1] /DataSource <0000ff>
			   /Decode [0 1 0 1 0 1] >> image`,
			[]byte{0, 0, 255, 255},
		},
		{
			`/DeviceHSB setcolorspace
			<< /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8
			   /ImageMatrix [1 0 0 -1 0 1] /DataSource <00ffff> >> image`,
			[]byte{255, 0, 0, 255},
		},
		{
			`/DeviceHSB setcolorspace
			<< /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8
			   /ImageMatrix [1 0 0 -1 0 1] /DataSource <ffffff>
			   /Decode [0 0.5 0 1 0 1] >> image`,
			[]byte{0, 255, 255, 255},
		},
		{
			`/DeviceHSB setcolorspace
			<< /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8
			   /ImageMatrix [1 0 0 -1 0 1] /MultipleDataSources true
			   /DataSource [<00> <ff> <80>] >> image`,
			[]byte{128, 0, 0, 255},
		},
		{ // inverted decode
			`<< /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8
			   /ImageMatrix [1 0 0 -1 0 1] /DataSource <00> /Decode [1 0] >> image`,
			[]byte{255, 255, 255, 255},
		},
		{
			`[/Indexed /DeviceRGB 1 <ff000000ff00>] setcolorspace
			<< /ImageType 1 /Width 2 /Height 1 /BitsPerComponent 1
			   /ImageMatrix [2 0 0 -1 0 1] /DataSource <40> /Decode [0 1] >> image`,
			[]byte{255, 0, 0, 255, 0, 255, 0, 255},
		},
		{ // transfer functions apply to gray images
			"{ 1 exch sub } settransfer 1 1 8 [1 0 0 -1 0 1] <00> image",
			[]byte{255, 255, 255, 255},
		},
	}
	for _, c := range cases {
		intp, err := run(c.code, 0)
		if err != nil {
			t.Errorf("%s: %v", c.code, err)
			continue
		}
		bms := bitmaps(t, intp)
		if len(bms) != 1 {
			t.Errorf("%s: got %d bitmaps", c.code, len(bms))
			continue
		}
		if d := cmp.Diff(c.want, bms[0].Image.Pix); d != "" {
			t.Errorf("%s: %s", c.code, d)
		}
	}
}

func TestImagePlacement(t *testing.T) {
	intp, err := run("100 200 translate 20 30 scale 2 3 8 [2 0 0 -3 0 3] <00> image", 0)
	if err != nil {
		t.Fatal(err)
	}
	bms := bitmaps(t, intp)
	if len(bms) != 1 {
		t.Fatalf("got %d bitmaps", len(bms))
	}
	want := matrix.Matrix{20, 0, 0, 30, 100, 200}
	if d := cmp.Diff(want, bms[0].Matrix, stackOpts); d != "" {
		t.Error(d)
	}
}

func TestImageFileSource(t *testing.T) {
	intp, err := run("2 1 8 [2 0 0 -1 0 1] currentfile /ASCIIHexDecode filter image 40c0>\n1", 1)
	if err != nil {
		t.Fatal(err)
	}
	bms := bitmaps(t, intp)
	if len(bms) != 1 {
		t.Fatalf("got %d bitmaps", len(bms))
	}
	want := []byte{0x40, 0x40, 0x40, 255, 0xc0, 0xc0, 0xc0, 255}
	if d := cmp.Diff(want, bms[0].Image.Pix); d != "" {
		t.Error(d)
	}
}

func TestImagemask(t *testing.T) {
	intp, err := run("2 2 true [2 0 0 -2 0 2] <c0c0> imagemask 1 1 false [1 0 0 -1 0 1] <00> imagemask", 0)
	if err != nil {
		t.Fatal(err)
	}
	doc := intp.Document()
	if len(doc.Objects) != 0 {
		t.Errorf("imagemask produced %d objects", len(doc.Objects))
	}
	if len(doc.Warnings) != 1 {
		t.Errorf("expected one warning, got %q", doc.Warnings)
	}
}

func TestImageErrors(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"1 1 3 [1 0 0 1 0 0] <00> image", ErrInvalidFormat},
		{"0 1 8 [1 0 0 1 0 0] <00> image", ErrIndexOutOfRange},
		{"1 1 8 [0 0 0 0 0 0] <00> image", ErrNoninvertibleTransform},
		{"1 1 8 [1 0 0 1 0 0] 5 image", ErrTypeMismatch},
		{"1 1 8 [1 0 0 1 0 0] <00> false 2 colorimage", ErrIndexOutOfRange},
		{"/Pattern setcolorspace << /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8 " +
			"/ImageMatrix [1 0 0 1 0 0] /DataSource <00> >> image", ErrInvalidFormat},
		{"/DeviceRGB setcolorspace << /ImageType 1 /Width 1 /Height 1 /BitsPerComponent 8 " +
			"/ImageMatrix [1 0 0 1 0 0] /DataSource <00> /Decode [0 1] >> image", ErrInvalidFormat},
	}
	for _, c := range cases {
		_, err := run(c.code, 0)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.code, c.want, err)
		}
	}
}
