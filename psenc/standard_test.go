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

package psenc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStandardEncoding(t *testing.T) {
	want := map[int]string{
		0:    ".notdef",
		32:   "space",
		39:   "quoteright",
		65:   "A",
		96:   "quoteleft",
		122:  "z",
		0xa1: "exclamdown",
		0xe1: "AE",
		0xfb: "germandbls",
		0xff: ".notdef",
	}
	got := make(map[int]string)
	for c := range want {
		got[c] = StandardEncoding[c]
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	seen := make(map[string]bool)
	for c, name := range StandardEncoding {
		if name == ".notdef" {
			continue
		}
		if seen[name] {
			t.Errorf("glyph %s appears twice, second time at %d", name, c)
		}
		seen[name] = true
	}
	if len(seen) != 149 {
		t.Errorf("got %d glyph names, expected 149", len(seen))
	}
}
