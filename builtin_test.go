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
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func run(s string, stackLen int) (*Interpreter, error) {
	intp := NewInterpreter()
	err := intp.ExecuteString(s)
	if err == nil && len(intp.Stack) != stackLen {
		err = fmt.Errorf("stack length is %d, expected %d", len(intp.Stack), stackLen)
	}
	return intp, err
}

// stackOpts compares stack contents, allowing for rounding errors.
// EquateApprox only sees plain float64 values, so Real needs its own
// comparer.
var stackOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.EquateApprox(0, 1e-9),
	cmp.Comparer(func(a, b Real) bool {
		return math.Abs(float64(a-b)) <= 1e-9
	}),
}

type stackTest struct {
	code string
	want []Object
}

func checkStack(t *testing.T, cases []stackTest) {
	t.Helper()
	for _, c := range cases {
		intp, err := run(c.code, len(c.want))
		if err != nil {
			t.Errorf("%s: %v", c.code, err)
			continue
		}
		if d := cmp.Diff(c.want, intp.Stack, stackOpts); d != "" {
			t.Errorf("%s: %s", c.code, d)
		}
	}
}

func TestArrayLiteral(t *testing.T) {
	intp, err := run("[1 [] 2]", 1)
	if err != nil {
		t.Fatal(err)
	}
	want := NewArray(Integer(1), NewArray(), Integer(2))
	if d := cmp.Diff(want, intp.Stack[0], stackOpts); d != "" {
		t.Fatal(d)
	}
}

func TestDictLiteral(t *testing.T) {
	intp, err := run("<< /a 1 /b 2 >>", 1)
	if err != nil {
		t.Fatal(err)
	}
	expected := Dict{
		Name("a"): Integer(1),
		Name("b"): Integer(2),
	}
	if d := cmp.Diff(expected, intp.Stack[0]); d != "" {
		t.Fatal(d)
	}
}

func TestCmdAbs(t *testing.T) {
	type testCase struct {
		in  Object
		out Object
	}
	cases := []testCase{
		{Integer(0), Integer(0)},
		{Integer(1), Integer(1)},
		{Integer(-1), Integer(1)},
		{Integer(-100), Integer(100)},
		{Integer(math.MinInt), -Real(math.MinInt)},
		{Real(0), Real(0)},
		{Real(1), Real(1)},
		{Real(-1), Real(1)},
		{Real(-100), Real(100)},
	}
	for _, c := range cases {
		intp := NewInterpreter()
		intp.Stack = []Object{c.in}
		err := intp.ExecuteString("abs")
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff([]Object{c.out}, intp.Stack); d != "" {
			t.Errorf("abs(%v): %s", c.in, d)
		}
	}
}

func TestStackOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"1 2 pop", []Object{Integer(1)}},
		{"1 2 exch", []Object{Integer(2), Integer(1)}},
		{"1 dup", []Object{Integer(1), Integer(1)}},
		{"1 2 3 2 copy", []Object{Integer(1), Integer(2), Integer(3), Integer(2), Integer(3)}},
		{"1 2 3 0 copy", []Object{Integer(1), Integer(2), Integer(3)}},
		{"/a /b /c /d /e 3 copy", []Object{Name("a"), Name("b"), Name("c"), Name("d"), Name("e"),
			Name("c"), Name("d"), Name("e")}},
		{"0.5 setgray gstate 0.25 setgray gstate copy setgstate currentgray", []Object{Real(0.5)}},
		{"gstate gstate dup 3 1 roll copy eq", []Object{Boolean(true)}},
		{"1 2 3 2 index", []Object{Integer(1), Integer(2), Integer(3), Integer(1)}},
		{"1 2 3 3 1 roll", []Object{Integer(3), Integer(1), Integer(2)}},
		{"1 2 3 3 -1 roll", []Object{Integer(2), Integer(3), Integer(1)}},
		{"1 2 3 3 4 roll", []Object{Integer(3), Integer(1), Integer(2)}},
		{"1 2 3 3 0 roll", []Object{Integer(1), Integer(2), Integer(3)}},
		{"1 2 3 count", []Object{Integer(1), Integer(2), Integer(3), Integer(3)}},
		{"1 2 clear count", []Object{Integer(0)}},
		{"1 mark 2 3 counttomark 4 1 roll cleartomark", []Object{Integer(1), Integer(2)}},
	})
}

func TestArrayOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"3 array length", []Object{Integer(3)}},
		{"[1 2 3] 1 get", []Object{Integer(2)}},
		{"[1 2 3 4] dup 1 2 getinterval 0 9 put",
			[]Object{NewArray(Integer(1), Integer(9), Integer(3), Integer(4))}},
		{"[1 2 3 4] dup 1 [7 8] putinterval",
			[]Object{NewArray(Integer(1), Integer(7), Integer(8), Integer(4))}},
		{"[1 2 3] [0 0 0 0] copy", []Object{NewArray(Integer(1), Integer(2), Integer(3))}},
		{"[1 2] aload", []Object{Integer(1), Integer(2), NewArray(Integer(1), Integer(2))}},
		{"1 2 2 array astore", []Object{NewArray(Integer(1), Integer(2))}},
		{"/a [1 2] def /b a def b 0 5 put a 0 get", []Object{Integer(5)}},
		{"{1 2} length", []Object{Integer(2)}},
	})
}

func TestStringOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"3 string length", []Object{Integer(3)}},
		{"(abc) 1 get", []Object{Integer('b')}},
		{"/s (hello) def s 1 3 getinterval 0 65 put s", []Object{NewString("hAllo")}},
		{"(ab) (xyz) copy", []Object{NewString("ab")}},
		{"(abcde) (cd) search",
			[]Object{NewString("e"), NewString("cd"), NewString("ab"), Boolean(true)}},
		{"(abcde) (x) search", []Object{NewString("abcde"), Boolean(false)}},
		{"(abc) (ab) anchorsearch", []Object{NewString("c"), NewString("ab"), Boolean(true)}},
		{"(abc) (bc) anchorsearch", []Object{NewString("abc"), Boolean(false)}},
		{"(ab) (cd) lt", []Object{Boolean(true)}},
	})
}

func TestDictOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"/x 5 def x", []Object{Integer(5)}},
		{"/d 1 dict def d /k 7 put d /k get", []Object{Integer(7)}},
		{"<< /a 1 >> length", []Object{Integer(1)}},
		{"1 dict begin /a 1 def currentdict /a known end", []Object{Boolean(true)}},
		{"/zzz where", []Object{Boolean(false)}},
		{"/x 1 def 1 dict begin /x 2 store end x", []Object{Integer(2)}},
		{"/x 1 def /x load", []Object{Integer(1)}},
		{"/x 1 def currentdict /x undef /x where", []Object{Boolean(false)}},
		{"countdictstack 5 dict begin countdictstack end", []Object{Integer(2), Integer(3)}},
		{"<< /a 1 >> << >> copy /a get", []Object{Integer(1)}},
		{"/f { add } bind def /f load 0 get type", []Object{Name("operatortype")}},
	})
}

func TestMathOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"3 4 add", []Object{Integer(7)}},
		{"1.5 2 mul", []Object{Real(3)}},
		{"7 2 div", []Object{Real(3.5)}},
		{"7 2 idiv", []Object{Integer(3)}},
		{"-7 2 idiv", []Object{Integer(-3)}},
		{"-7 2 mod", []Object{Integer(-1)}},
		{"5 neg", []Object{Integer(-5)}},
		{"4.5 round", []Object{Real(5)}},
		{"-4.5 round", []Object{Real(-4)}},
		{"3.7 truncate", []Object{Real(3)}},
		{"3.2 ceiling", []Object{Real(4)}},
		{"-3.2 floor", []Object{Real(-4)}},
		{"3 floor", []Object{Integer(3)}},
		{"9 sqrt", []Object{Real(3)}},
		{"0 1 atan", []Object{Real(0)}},
		{"1 0 atan", []Object{Real(90)}},
		{"-1 0 atan", []Object{Real(270)}},
		{"30 sin", []Object{Real(0.5)}},
		{"60 cos", []Object{Real(0.5)}},
		{"100 log", []Object{Real(2)}},
		{"1 ln", []Object{Real(0)}},
		{"2 3 exp", []Object{Real(8)}},
		{"5 3 and", []Object{Integer(1)}},
		{"5 3 or", []Object{Integer(7)}},
		{"5 3 xor", []Object{Integer(6)}},
		{"true false and", []Object{Boolean(false)}},
		{"true false or", []Object{Boolean(true)}},
		{"5 not", []Object{Integer(-6)}},
		{"true not", []Object{Boolean(false)}},
		{"1 3 bitshift", []Object{Integer(8)}},
		{"8 -2 bitshift", []Object{Integer(2)}},
		{"1 2 lt", []Object{Boolean(true)}},
		{"2 2 ge", []Object{Boolean(true)}},
		{"1 1.0 eq", []Object{Boolean(true)}},
		{"(a) /a eq", []Object{Boolean(true)}},
		{"1 2 ne", []Object{Boolean(true)}},
	})
}

func TestRand(t *testing.T) {
	intp, err := run("42 srand rand rand 42 srand rand", 3)
	if err != nil {
		t.Fatal(err)
	}
	if intp.Stack[0] != intp.Stack[2] {
		t.Errorf("srand did not reset the generator: %v", intp.Stack)
	}
	if intp.Stack[0] == intp.Stack[1] {
		t.Errorf("rand repeated a value: %v", intp.Stack)
	}
	for _, x := range intp.Stack {
		if x.(Integer) < 0 {
			t.Errorf("negative random number %d", x)
		}
	}
}

func TestConversionOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"3.7 cvi", []Object{Integer(3)}},
		{"-3.7 cvi", []Object{Integer(-3)}},
		{"(12) cvi", []Object{Integer(12)}},
		{"3 cvr", []Object{Real(3)}},
		{"( 2.5 ) cvr", []Object{Real(2.5)}},
		{"(abc) cvn", []Object{Name("abc")}},
		{"123 10 string cvs", []Object{NewString("123")}},
		{"1.5 10 string cvs", []Object{NewString("1.5")}},
		{"/abc 10 string cvs", []Object{NewString("abc")}},
		{"255 16 10 string cvrs", []Object{NewString("FF")}},
		{"5 2 10 string cvrs", []Object{NewString("101")}},
		{"/x cvx xcheck", []Object{Boolean(true)}},
		{"{1} cvlit xcheck", []Object{Boolean(false)}},
		{"(1 2 add) cvx exec", []Object{Integer(3)}},
		{"(abc) readonly wcheck", []Object{Boolean(false)}},
		{"(abc) rcheck", []Object{Boolean(true)}},
	})
}

func TestControlOperators(t *testing.T) {
	checkStack(t, []stackTest{
		{"true { 1 } if", []Object{Integer(1)}},
		{"false { 1 } if", nil},
		{"false { 1 } { 2 } ifelse", []Object{Integer(2)}},
		{"{ 1 2 add } exec", []Object{Integer(3)}},
		{"0 1 1 4 { add } for", []Object{Integer(10)}},
		{"0 4 -1 1 { add } for", []Object{Integer(10)}},
		{"0 1 1 0 { add } for", []Object{Integer(0)}},
		{"1 1 5 { } for", []Object{Integer(1), Integer(2), Integer(3), Integer(4), Integer(5)}},
		{"5 -1 1 { } for", []Object{Integer(5), Integer(4), Integer(3), Integer(2), Integer(1)}},
		{"/p { 2 } def true /p cvx if", []Object{Integer(2)}},
		{"0 0 0.5 1 { add } for", []Object{Real(1.5)}},
		{"1 1 1 { type } for", []Object{Name("integertype")}},
		{"1 1.0 1 { type } for", []Object{Name("realtype")}},
		{"0 3 { 1 add } repeat", []Object{Integer(3)}},
		{"0 { 1 add dup 5 eq { exit } if } loop", []Object{Integer(5)}},
		{"0 1 1 10 { dup 3 gt { pop exit } if add } for", []Object{Integer(6)}},
		{"0 2 { 1 1 10 { pop exit } for 1 add } repeat", []Object{Integer(2)}},
		{"0 [1 2 3] { add } forall", []Object{Integer(6)}},
		{"0 (ab) { add } forall", []Object{Integer(195)}},
		{"0 << /a 1 /b 2 >> { exch pop add } forall", []Object{Integer(3)}},
		{"[] { } forall", nil},
		{"{ 1 } stopped", []Object{Integer(1), Boolean(false)}},
		{"{ stop } stopped", []Object{Boolean(true)}},
		{"{ 1 0 div } stopped", []Object{Integer(1), Integer(0), Boolean(true)}},
		{"{ undefinedname } stopped $error /errorname get",
			[]Object{Boolean(true), Name("undefined")}},
		{"1 quit 2", []Object{Integer(1)}},
		{"1 exit 2", []Object{Integer(1), Integer(2)}},
	})
}

func TestErrors(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"pop", ErrStackUnderflow},
		{"(a) 1 add", ErrTypeMismatch},
		{"[1 2] 5 get", ErrIndexOutOfRange},
		{"undefinedname", ErrUnknownOperator},
		{"1 0 idiv", ErrNoninvertibleTransform},
		{"end", ErrDictStackUnderflow},
		{"1 2 ]", ErrUnmatchedMark},
		{"(abc) readonly 0 65 put", ErrNoWriteAccess},
		{"0 0 lineto", ErrNoCurrentPoint},
		{"-1 array", ErrIndexOutOfRange},
		{"{", ErrSyntaxError},
		{"(abc", ErrSyntaxError},
		{"true 5 if", ErrTypeMismatch},
		{"true {} 1 ifelse", ErrTypeMismatch},
		{"1 1 3 7 for", ErrTypeMismatch},
		{"3 4 repeat", ErrTypeMismatch},
		{"5 loop", ErrTypeMismatch},
		{"[1] 5 forall", ErrTypeMismatch},
	}
	for _, c := range cases {
		_, err := run(c.code, 0)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.code, c.want, err)
		}
	}
}

func TestControlOperandsKept(t *testing.T) {
	intp, err := run("true 5 if", 0)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("unexpected error %v", err)
	}
	want := []Object{Boolean(true), Integer(5)}
	if d := cmp.Diff(want, intp.Stack, stackOpts); d != "" {
		t.Error(d)
	}
}

func TestErrorDetails(t *testing.T) {
	_, err := run("1 2 3\n(a) add", 0)
	var psErr *Error
	if !errors.As(err, &psErr) {
		t.Fatalf("unexpected error %v", err)
	}
	if psErr.Op != "add" || psErr.Line != 2 || psErr.Kind != TypeMismatch {
		t.Errorf("unexpected error details %+v", psErr)
	}
}
