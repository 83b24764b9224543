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

package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const square = `%!PS-Adobe-3.0 EPSF-3.0
%%BoundingBox: 0 0 72 36
0 0 1 setrgbcolor
0 0 36 36 rectfill
%%EOF
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "square.eps")
	if err := os.WriteFile(in, []byte(square), 0o644); err != nil {
		t.Fatal(err)
	}
	*dpiArg = 72

	if err := run(in); err != nil {
		t.Fatal(err)
	}

	fd, err := os.Open(filepath.Join(dir, "square.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	img, err := png.Decode(fd)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 72 || b.Dy() != 36 {
		t.Errorf("wrong image size %v", b)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0xffff {
		t.Errorf("wrong colour %x %x %x", r, g, b)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.eps")
	if err := os.WriteFile(in, []byte("%!PS\n1 0 idiv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(in); err == nil {
		t.Error("interpreter error not reported")
	}
	if err := run(filepath.Join(dir, "missing.eps")); err == nil {
		t.Error("missing file not reported")
	}
}
