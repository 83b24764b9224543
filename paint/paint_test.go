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

package paint

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestClamp(t *testing.T) {
	c := NewRGB(-0.5, 1.5, 0.3)
	if d := cmp.Diff(RGB{0, 1, 0.3}, c); d != "" {
		t.Error(d)
	}

	k := NewCMYK(2, -1, 0.5, math.NaN())
	if d := cmp.Diff(CMYK{1, 0, 0.5, 0}, k); d != "" {
		t.Error(d)
	}
}

func TestToRGB(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-9)
	cases := []struct {
		in   Paint
		want RGB
	}{
		{NewGray(0.25), RGB{0.25, 0.25, 0.25}},
		{NewCMYK(0, 0, 0, 0), RGB{1, 1, 1}},
		{NewCMYK(1, 0, 0, 0), RGB{0, 1, 1}},
		{NewCMYK(0.5, 0, 0, 0.75), RGB{0, 0.25, 0.25}},
		{NewHSB(0, 1, 1), RGB{1, 0, 0}},
		{NewHSB(1.0/3, 1, 1), RGB{0, 1, 0}},
		{NewHSB(2.0/3, 1, 0.5), RGB{0, 0, 0.5}},
		{NewHSB(0.5, 0, 0.7), RGB{0.7, 0.7, 0.7}},
		{Transparent{}, RGB{}},
	}
	for _, c := range cases {
		got := c.in.ToRGB()
		if d := cmp.Diff(c.want, got, approx); d != "" {
			t.Errorf("%v: %s", c.in, d)
		}
	}
}

func TestHSBRoundTrip(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-9)
	for _, c := range []RGB{
		{1, 0, 0},
		{0.2, 0.4, 0.6},
		{0.9, 0.9, 0.1},
		{0.3, 0.3, 0.3},
	} {
		got := c.ToHSB().ToRGB()
		if d := cmp.Diff(c, got, approx); d != "" {
			t.Errorf("%v: %s", c, d)
		}
	}
}

func TestGray(t *testing.T) {
	g := NewRGB(1, 1, 1).ToGray()
	if math.Abs(g.Y-1) > 1e-9 {
		t.Errorf("white: got %g", g.Y)
	}
	g = NewCMYK(0, 0, 0, 1).ToGray()
	if g.Y != 0 {
		t.Errorf("black: got %g", g.Y)
	}
}

func TestRGBA(t *testing.T) {
	r, g, b, a := NewGray(1).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("white: %x %x %x %x", r, g, b, a)
	}
	_, _, _, a = Transparent{}.RGBA()
	if a != 0 {
		t.Errorf("transparent alpha: %x", a)
	}
	if !IsTransparent(Transparent{}) || IsTransparent(Black) {
		t.Error("IsTransparent is wrong")
	}
}
