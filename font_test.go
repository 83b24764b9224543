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
	"strings"
	"testing"
)

func TestTextOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"/Helvetica findfont 10 scalefont setfont 0 0 moveto (ab) show currentpoint",
			[]Object{Real(10), Real(0)}},
		{"/Helvetica findfont 10 scalefont setfont (abc) stringwidth",
			[]Object{Real(15), Real(0)}},
		{"/Times-Roman 12 selectfont (a) stringwidth", []Object{Real(6), Real(0)}},
		{"/Times-Roman [0 12 -12 0 0 0] selectfont (a) stringwidth", []Object{Real(0), Real(6)}},
		{"0 0 moveto 1 0 (aa) ashow currentpoint", []Object{Real(3), Real(0)}},
		{"0 0 moveto 10 0 97 (aba) widthshow currentpoint", []Object{Real(21.5), Real(0)}},
		{"0 0 moveto 10 0 97 1 0 (ab) awidthshow currentpoint", []Object{Real(13), Real(0)}},
		{"0 0 moveto { } (ab) kshow currentpoint", []Object{Real(1), Real(0)}},
		{"0 0 moveto (ab) [1 1] xshow currentpoint", []Object{Real(1), Real(0)}},
		{"2 2 scale 0 0 moveto (ab) show currentpoint", []Object{Real(1), Real(0)}},
		{"/F findfont /F findfont eq", []Object{Boolean(true)}},
		{"/F findfont 2 scalefont /F findfont eq", []Object{Boolean(false)}},
		{"/My << /FontMatrix [1 0 0 1 0 0] >> definefont pop /My findfont /FID known",
			[]Object{Boolean(true)}},
		{"/My << >> definefont pop /My undefinefont FontDirectory /My known",
			[]Object{Boolean(false)}},
		{"/My << >> /Font defineresource pop /My /Font findresource type",
			[]Object{Name("dicttype")}},
		{"currentfont /FontName get", []Object{Name("Courier")}},
		{"/F findfont 10 scalefont /FontMatrix get 0 get", []Object{Real(0.01)}},
		{"0 0 moveto (a) true charpath", nil},
	})
}

func TestTextWarnings(t *testing.T) {
	intp, err := run("/Foo findfont setfont 0 0 moveto (a) show (b) show /Foo findfont pop", 0)
	if err != nil {
		t.Fatal(err)
	}
	warnings := intp.Document().Warnings
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %q", warnings)
	}
	if !strings.Contains(warnings[0], "Foo") {
		t.Errorf("font substitution not reported: %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "not rendered") {
		t.Errorf("missing text warning: %q", warnings[1])
	}
}

func TestShowNeedsCurrentPoint(t *testing.T) {
	_, err := run("(a) show", 0)
	if !errors.Is(err, ErrNoCurrentPoint) {
		t.Errorf("expected nocurrentpoint, got %v", err)
	}
}
