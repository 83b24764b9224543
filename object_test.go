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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func FuzzStrings(f *testing.F) {
	f.Add("hello world")
	f.Add("hello\nworld")
	f.Add("hello\rworld")
	f.Add("hello\r\nworld")
	f.Add("hello\\world")
	f.Add("hello(world)")
	f.Add("hello)world(")
	f.Add("\x00\xff")
	f.Fuzz(func(t *testing.T, a string) {
		ps := NewString(a).PS()
		intp := NewInterpreter()
		err := intp.ExecuteString(ps)
		if err != nil {
			t.Fatal(err)
		}
		if len(intp.Stack) != 1 {
			t.Fatalf("len(intp.Stack): %d != 1", len(intp.Stack))
		}
		if s, ok := intp.Stack[0].(String); !ok || string(s.Data) != a {
			t.Fatalf("intp.Stack[0]: %v != %q", intp.Stack[0], a)
		}
	})
}

func TestTypeNames(t *testing.T) {
	cases := []struct {
		code string
		want Name
	}{
		{"1 type", "integertype"},
		{"1.5 type", "realtype"},
		{"true type", "booleantype"},
		{"/a type", "nametype"},
		{"(a) type", "stringtype"},
		{"[1] type", "arraytype"},
		{"{1} type", "arraytype"},
		{"1 dict type", "dicttype"},
		{"null type", "nulltype"},
		{"mark type", "marktype"},
		{"/add load type", "operatortype"},
		{"gstate type", "gstatetype"},
		{"save type", "savetype"},
		{"currentfile type", "filetype"},
	}
	for _, c := range cases {
		intp, err := run(c.code, 1)
		if err != nil {
			t.Errorf("%s: %v", c.code, err)
			continue
		}
		if d := cmp.Diff(c.want, intp.Stack[0]); d != "" {
			t.Errorf("%s: %s", c.code, d)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want Object
	}{
		{"0", Integer(0)},
		{"-17", Integer(-17)},
		{"+3", Integer(3)},
		{"1.5", Real(1.5)},
		{".5", Real(0.5)},
		{"-2.", Real(-2)},
		{"1e3", Real(1000)},
		{"8#17", Integer(15)},
		{"16#FF", Integer(255)},
		{"16#FFFFFFFF", Integer(-1)},
		{"99999999999999999999", Real(1e20)},
	}
	for _, c := range cases {
		got, ok := parseNumber([]byte(c.in))
		if !ok {
			t.Errorf("%s: not recognised", c.in)
			continue
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%s: %s", c.in, d)
		}
	}

	for _, bad := range []string{"abc", "1#0", "37#1", "0x10", "Inf", "NaN", "1..2e"} {
		if _, ok := parseNumber([]byte(bad)); ok {
			t.Errorf("%s: unexpectedly parsed", bad)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewArray(Integer(1))
	cases := []struct {
		a, b Object
		want bool
	}{
		{Integer(1), Real(1), true},
		{Integer(1), Integer(2), false},
		{NewString("abc"), NewString("abc"), true},
		{NewString("abc"), Name("abc"), true},
		{Name("abc"), Operator("abc"), true},
		{a, a, true},
		{a, NewArray(Integer(1)), false},
		{nil, nil, true},
		{Boolean(true), Integer(1), false},
	}
	for i, c := range cases {
		if got := equal(c.a, c.b); got != c.want {
			t.Errorf("%d: equal(%v, %v) = %t", i, c.a, c.b, got)
		}
	}
}

func TestFormatReal(t *testing.T) {
	cases := []struct {
		in   Real
		want string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{-3.25, "-3.25"},
		{1e20, "1e+20"},
		{1.0 / 3, "0.333333"},
	}
	for _, c := range cases {
		if got := formatReal(c.in); got != c.want {
			t.Errorf("formatReal(%g) = %q, want %q", c.in, got, c.want)
		}
	}
}
