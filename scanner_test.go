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
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scanAll(t *testing.T, in string) []Object {
	t.Helper()
	s := NewScanner(strings.NewReader(in))
	var res []Object
	for {
		o, err := s.ScanToken()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		res = append(res, o)
	}
	return res
}

func TestScanToken(t *testing.T) {
	in := `
	% this is a comment
	123
	-9
	1e6
	-1.
	2#1000
	16#FF
	(ABC)
	ABC
	/ABC
	23A
	23E1
	23#1
	{ } [ ] << >>
	//true
	`
	exp := []Object{
		Integer(123),
		Integer(-9),
		Real(1e6),
		Real(-1),
		Integer(0b1000),
		Integer(0xFF),
		NewString("ABC"),
		Operator("ABC"),
		Name("ABC"),
		Operator("23A"),
		Real(23e1),
		Integer(1),
		Operator("{"), Operator("}"),
		Operator("["), Operator("]"),
		Operator("<<"), Operator(">>"),
		immediateName("true"),
	}
	if d := cmp.Diff(exp, scanAll(t, in)); d != "" {
		t.Errorf("unexpected objects: %s", d)
	}
}

func TestScanString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"(A(BC)\\)\\\n\\n\\r\\t\\b\\f\\\\\\D\\105\n%*!&}^)", "A(BC))\n\r\t\b\f\\DE\n%*!&}^"},
		{"()", ""},
		{"(A\\\nB\nC)", "AB\nC"},
		{"(A\\\rB\rC)", "AB\nC"},
		{"(A\\\r\nB\r\nC)", "AB\nC"},
		{`(\1\02\003\0004\777)`, string([]byte{1, 2, 3, 0, '4', 0o377})},
	}
	for _, c := range cases {
		s := NewScanner(strings.NewReader(c.in))
		o, err := s.scanString()
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if string(o.Data) != c.want {
			t.Errorf("%q: expected %q, got %q", c.in, c.want, o.Data)
		}
	}
}

func TestScanHexString(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"<901fa>", []byte{0x90, 0x1f, 0xa0}},
		{"<>", []byte{}},
		{"<4 1\n42>", []byte("AB")},
	}
	for _, c := range cases {
		s := NewScanner(strings.NewReader(c.in))
		o, err := s.scanHexString()
		if err != nil {
			t.Fatal(err)
		}
		if string(o.Data) != string(c.want) {
			t.Errorf("%q: expected %q, got %q", c.in, c.want, o.Data)
		}
	}
}

func TestBase85String(t *testing.T) {
	in := `<~z!<N?+"T~>`
	out := []byte{0, 0, 0, 0, 1, 2, 3, 4, 5}
	s := NewScanner(strings.NewReader(in))
	o, err := s.scanBase85String()
	if err != nil {
		t.Fatal(err)
	}
	if string(o.Data) != string(out) {
		t.Errorf("expected %q, got %q", out, o.Data)
	}
}

func TestScanErrors(t *testing.T) {
	for _, in := range []string{")", ">", "(abc", "<12x>"} {
		s := NewScanner(strings.NewReader(in))
		_, err := s.ScanToken()
		if err == nil || err == io.EOF {
			t.Errorf("%q: expected syntax error, got %v", in, err)
		}
	}
}

func TestLineCol(t *testing.T) {
	s := NewScanner(strings.NewReader("1\n12\r123\r\n\n1\n"))
	for {
		b, err := s.next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		switch b {
		case '1', '2', '3':
			if want := int(b - '0'); s.col != want {
				t.Errorf("%q: expected col %d, got %d", b, want, s.col)
			}
		}
	}
	if s.line != 5 {
		t.Errorf("expected line 5, got %d", s.line)
	}
}

func TestDSC(t *testing.T) {
	in := "%!PS-Adobe-3.0 EPSF-3.0\n" +
		"%%BoundingBox: 0 0 100 50\n" +
		"%%Title: a\n%%+ b\n" +
		"1 2 add\n"
	s := NewScanner(strings.NewReader(in))
	for {
		_, err := s.ScanToken()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	want := []Comment{
		{Key: "BoundingBox", Value: "0 0 100 50"},
		{Key: "Title", Value: "a b"},
	}
	if d := cmp.Diff(want, s.DSC); d != "" {
		t.Error(d)
	}
}
