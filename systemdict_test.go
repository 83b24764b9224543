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

func TestSystemDictContents(t *testing.T) {
	intp := NewInterpreter()
	for name, b := range builtins {
		val, ok := intp.SystemDict[name]
		if !ok {
			t.Errorf("%s missing from systemdict", name)
			continue
		}
		if val != b {
			t.Errorf("systemdict entry %s is %v", name, val)
		}
		if b.name != name {
			t.Errorf("builtin %s has name %s", name, b.name)
		}
	}
	for _, name := range []Name{"systemdict", "userdict", "errordict", "$error",
		"FontDirectory", "StandardEncoding", "true", "false", "null"} {
		if _, ok := intp.SystemDict[name]; !ok {
			t.Errorf("%s missing from systemdict", name)
		}
	}
}

// The standard names must be reachable from PostScript code, not only
// from Go.
func TestStandardNames(t *testing.T) {
	checkStack(t, []stackTest{
		{"true false null", []Object{Boolean(true), Boolean(false), nil}},
		{"userdict type systemdict type errordict type",
			[]Object{Name("dicttype"), Name("dicttype"), Name("dicttype")}},
		{"$error type statusdict type globaldict type FontDirectory type",
			[]Object{Name("dicttype"), Name("dicttype"), Name("dicttype"), Name("dicttype")}},
		{"StandardEncoding length", []Object{Integer(256)}},
		{"/x 1 def userdict /x get", []Object{Integer(1)}},
		{"{ 1 (a) add } stopped clear $error /errorname get $error /newerror get",
			[]Object{Name("typecheck"), Boolean(true)}},
	})
}

func TestStandardEncoding(t *testing.T) {
	intp, err := run("StandardEncoding dup 65 get exch length", 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Object{Name("A"), Integer(256)}
	if d := cmp.Diff(want, intp.Stack); d != "" {
		t.Error(d)
	}

	_, err = run("StandardEncoding 65 /B put", 0)
	if err == nil {
		t.Error("StandardEncoding is writable")
	}
}

func TestInterpretersAreIndependent(t *testing.T) {
	a := NewInterpreter()
	b := NewInterpreter()
	err := a.ExecuteString("/x 1 def systemdict /y 2 put errordict /z 3 put")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.UserDict[Name("x")]; ok {
		t.Error("userdict is shared")
	}
	if _, ok := b.SystemDict[Name("y")]; ok {
		t.Error("systemdict is shared")
	}
	if _, ok := b.ErrorDict[Name("z")]; ok {
		t.Error("errordict is shared")
	}
}

func TestInitialDictStack(t *testing.T) {
	intp, err := run("1 dict dup begin", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(intp.DictStack) != 3 {
		t.Fatalf("len(intp.DictStack): %d != 3", len(intp.DictStack))
	}
	top := intp.DictStack[2]
	top[Name("test")] = Integer(1234)
	if d := cmp.Diff(top, intp.Stack[0].(Dict)); d != "" {
		t.Error(d)
	}

	intp, err = run("/a 1 def /b 2 def", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := Dict{Name("a"): Integer(1), Name("b"): Integer(2)}
	if d := cmp.Diff(want, intp.UserDict); d != "" {
		t.Error(d)
	}
}

// Built-in operators are found before any definition on the dictionary
// stack.
func TestBuiltinsTakePrecedence(t *testing.T) {
	intp, err := run("/add { mul } def 2 3 add", 1)
	if err != nil {
		t.Fatal(err)
	}
	if intp.Stack[0] != Integer(5) {
		t.Errorf("got %v, expected 5", intp.Stack[0])
	}
}

func TestStubOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"version type", []Object{Name("stringtype")}},
		{"languagelevel", []Object{Integer(2)}},
		{"currentglobal", []Object{Boolean(false)}},
		{"true setglobal", nil},
		{"<< /PageSize [100 100] >> setpagedevice", nil},
		{"showpage", nil},
		{"save restore", nil},
		{"save type", []Object{Name("savetype")}},
		{"vmstatus pop pop type", []Object{Name("integertype")}},
		{"/NoSuchFont /Font resourcestatus", []Object{Boolean(false)}},
		{"/StandardEncoding /Encoding resourcestatus",
			[]Object{Integer(1), Integer(0), Boolean(true)}},
		{"/x 42 /Thing defineresource pop /x /Thing findresource", []Object{Integer(42)}},
		{"{ /y /Thing findresource } stopped", []Object{Boolean(true)}},
	})
}
