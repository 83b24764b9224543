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
	"bytes"
	"math"
)

// popNumberPair removes two numeric operands from the stack.
func (intp *Interpreter) popNumberPair() (a, b Object, err error) {
	if err := intp.need(2); err != nil {
		return nil, nil, err
	}
	a = intp.Stack[len(intp.Stack)-2]
	b = intp.Stack[len(intp.Stack)-1]
	if _, ok := toFloat(a); !ok {
		return nil, nil, intp.e(TypeMismatch, "expected number, got %T", a)
	}
	if _, ok := toFloat(b); !ok {
		return nil, nil, intp.e(TypeMismatch, "expected number, got %T", b)
	}
	intp.drop(2)
	return a, b, nil
}

// arith implements add, sub and mul.  Integer results which overflow are
// returned as reals.
func (intp *Interpreter) arith(intOp func(a, b int) (int, bool), realOp func(a, b float64) float64) error {
	a, b, err := intp.popNumberPair()
	if err != nil {
		return err
	}
	ai, aIsInt := a.(Integer)
	bi, bIsInt := b.(Integer)
	if aIsInt && bIsInt {
		if c, ok := intOp(int(ai), int(bi)); ok {
			intp.push(Integer(c))
			return nil
		}
	}
	x, _ := toFloat(a)
	y, _ := toFloat(b)
	intp.push(Real(realOp(x, y)))
	return nil
}

func bAdd(intp *Interpreter) error {
	return intp.arith(func(a, b int) (int, bool) {
		c := a + b
		// check for integer overflow
		ok := !(a < 0 && b < 0 && c >= 0) && !(a > 0 && b > 0 && c <= 0)
		return c, ok
	}, func(a, b float64) float64 {
		return a + b
	})
}

func bSub(intp *Interpreter) error {
	return intp.arith(func(a, b int) (int, bool) {
		c := a - b
		ok := !(a >= 0 && b < 0 && c < 0) && !(a < 0 && b > 0 && c >= 0)
		return c, ok
	}, func(a, b float64) float64 {
		return a - b
	})
}

func bMul(intp *Interpreter) error {
	return intp.arith(func(a, b int) (int, bool) {
		if a == 0 || b == 0 {
			return 0, true
		}
		c := a * b
		ok := c/b == a && !(a == -1 && b == math.MinInt) && !(b == -1 && a == math.MinInt)
		return c, ok
	}, func(a, b float64) float64 {
		return a * b
	})
}

func bDiv(intp *Interpreter) error {
	a, b, err := intp.popNumberPair()
	if err != nil {
		return err
	}
	x, _ := toFloat(a)
	y, _ := toFloat(b)
	if y == 0 {
		intp.push(a, b)
		return intp.e(NoninvertibleTransform, "division by zero")
	}
	intp.push(Real(x / y))
	return nil
}

func (intp *Interpreter) popIntegerPair() (int, int, error) {
	if err := intp.need(2); err != nil {
		return 0, 0, err
	}
	a, ok1 := intp.Stack[len(intp.Stack)-2].(Integer)
	b, ok2 := intp.Stack[len(intp.Stack)-1].(Integer)
	if !ok1 || !ok2 {
		return 0, 0, intp.e(TypeMismatch, "arguments must be integers")
	}
	if b == 0 {
		return 0, 0, intp.e(NoninvertibleTransform, "division by zero")
	}
	intp.drop(2)
	return int(a), int(b), nil
}

func bIdiv(intp *Interpreter) error {
	a, b, err := intp.popIntegerPair()
	if err != nil {
		return err
	}
	if a == math.MinInt && b == -1 {
		intp.push(-Real(a))
		return nil
	}
	intp.push(Integer(a / b))
	return nil
}

func bMod(intp *Interpreter) error {
	a, b, err := intp.popIntegerPair()
	if err != nil {
		return err
	}
	if b == -1 {
		intp.push(Integer(0))
		return nil
	}
	// the result has the same sign as a
	intp.push(Integer(a % b))
	return nil
}

// unaryNum applies an operation to the topmost number, keeping integers
// as integers.
func (intp *Interpreter) unaryNum(intOp func(int) Object, realOp func(float64) float64) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	var res Object
	switch x := obj.(type) {
	case Integer:
		res = intOp(int(x))
	case Real:
		res = Real(realOp(float64(x)))
	default:
		return intp.e(TypeMismatch, "expected number, got %T", obj)
	}
	intp.Stack[len(intp.Stack)-1] = res
	return nil
}

func bNeg(intp *Interpreter) error {
	return intp.unaryNum(func(x int) Object {
		if x == math.MinInt {
			return -Real(x)
		}
		return Integer(-x)
	}, func(x float64) float64 {
		return -x
	})
}

func bAbs(intp *Interpreter) error {
	return intp.unaryNum(func(x int) Object {
		if x == math.MinInt {
			return -Real(x)
		} else if x < 0 {
			return Integer(-x)
		}
		return Integer(x)
	}, math.Abs)
}

func identity(x int) Object { return Integer(x) }

func bCeiling(intp *Interpreter) error {
	return intp.unaryNum(identity, math.Ceil)
}

func bFloor(intp *Interpreter) error {
	return intp.unaryNum(identity, math.Floor)
}

// bRound rounds to the nearest integer.  Halves are rounded up, so that
// -4.5 round gives -4.
func bRound(intp *Interpreter) error {
	return intp.unaryNum(identity, func(x float64) float64 {
		return math.Floor(x + 0.5)
	})
}

func bTruncate(intp *Interpreter) error {
	return intp.unaryNum(identity, math.Trunc)
}

// realFunc applies f to the topmost number and pushes a real result.
// The domain check ok is applied to the argument.
func (intp *Interpreter) realFunc(f func(float64) float64, ok func(float64) bool) error {
	x, err := intp.popNumber()
	if err != nil {
		return err
	}
	if ok != nil && !ok(x) {
		intp.push(Real(x))
		return intp.e(IndexOutOfRange, "argument %g out of range", x)
	}
	intp.push(Real(f(x)))
	return nil
}

func bSqrt(intp *Interpreter) error {
	return intp.realFunc(math.Sqrt, func(x float64) bool { return x >= 0 })
}

func bLn(intp *Interpreter) error {
	return intp.realFunc(math.Log, func(x float64) bool { return x > 0 })
}

func bLog(intp *Interpreter) error {
	return intp.realFunc(math.Log10, func(x float64) bool { return x > 0 })
}

func bSin(intp *Interpreter) error {
	return intp.realFunc(func(x float64) float64 {
		return math.Sin(x * math.Pi / 180)
	}, nil)
}

func bCos(intp *Interpreter) error {
	return intp.realFunc(func(x float64) float64 {
		return math.Cos(x * math.Pi / 180)
	}, nil)
}

func bExp(intp *Interpreter) error {
	xs, err := intp.popNumbers(2)
	if err != nil {
		return err
	}
	res := math.Pow(xs[0], xs[1])
	if math.IsNaN(res) || math.IsInf(res, 0) {
		intp.push(Real(xs[0]), Real(xs[1]))
		return intp.e(NoninvertibleTransform, "%g^%g is undefined", xs[0], xs[1])
	}
	intp.push(Real(res))
	return nil
}

// bAtan returns the angle in degrees, in the range [0, 360).
func bAtan(intp *Interpreter) error {
	xs, err := intp.popNumbers(2)
	if err != nil {
		return err
	}
	num, den := xs[0], xs[1]
	if num == 0 && den == 0 {
		intp.push(Real(num), Real(den))
		return intp.e(NoninvertibleTransform, "both arguments are zero")
	}
	angle := math.Atan2(num, den) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	intp.push(Real(angle))
	return nil
}

// rand uses the Park-Miller "minimal standard" generator.
func bRand(intp *Interpreter) error {
	intp.randState = int32(int64(intp.randState) * 16807 % 2147483647)
	intp.push(Integer(intp.randState))
	return nil
}

func bSrand(intp *Interpreter) error {
	seed, err := intp.popInteger()
	if err != nil {
		return err
	}
	s := int32(seed) & 0x7fffffff
	if s == 0 {
		s = 1
	}
	intp.randState = s
	return nil
}

func bRrand(intp *Interpreter) error {
	intp.push(Integer(intp.randState))
	return nil
}

// logical implements and, or and xor.
func (intp *Interpreter) logical(boolOp func(a, b bool) bool, intOp func(a, b int) int) error {
	if err := intp.need(2); err != nil {
		return err
	}
	a := intp.Stack[len(intp.Stack)-2]
	b := intp.Stack[len(intp.Stack)-1]
	var res Object
	switch a := a.(type) {
	case Boolean:
		b, ok := b.(Boolean)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		res = Boolean(boolOp(bool(a), bool(b)))
	case Integer:
		b, ok := b.(Integer)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		res = Integer(intOp(int(a), int(b)))
	default:
		return intp.e(TypeMismatch, "invalid argument type %T", a)
	}
	intp.drop(2)
	intp.push(res)
	return nil
}

func bAnd(intp *Interpreter) error {
	return intp.logical(
		func(a, b bool) bool { return a && b },
		func(a, b int) int { return a & b })
}

func bOr(intp *Interpreter) error {
	return intp.logical(
		func(a, b bool) bool { return a || b },
		func(a, b int) int { return a | b })
}

func bXor(intp *Interpreter) error {
	return intp.logical(
		func(a, b bool) bool { return a != b },
		func(a, b int) int { return a ^ b })
}

func bNot(intp *Interpreter) error {
	obj, err := intp.top(0)
	if err != nil {
		return err
	}
	switch x := obj.(type) {
	case Boolean:
		intp.Stack[len(intp.Stack)-1] = !x
	case Integer:
		intp.Stack[len(intp.Stack)-1] = ^x
	default:
		return intp.e(TypeMismatch, "invalid argument type %T", obj)
	}
	return nil
}

// bBitshift shifts a 32 bit integer.  Positive shift amounts shift to
// the left, negative amounts to the right.  Bits shifted in are zero.
func bBitshift(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	x, ok1 := intp.Stack[len(intp.Stack)-2].(Integer)
	shift, ok2 := intp.Stack[len(intp.Stack)-1].(Integer)
	if !ok1 || !ok2 {
		return intp.e(TypeMismatch, "arguments must be integers")
	}
	intp.drop(2)
	u := uint32(x)
	switch {
	case shift >= 32 || shift <= -32:
		u = 0
	case shift >= 0:
		u <<= uint(shift)
	default:
		u >>= uint(-shift)
	}
	intp.push(Integer(int32(u)))
	return nil
}

func bEq(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	a := intp.Stack[len(intp.Stack)-2]
	b := intp.Stack[len(intp.Stack)-1]
	intp.drop(2)
	intp.push(Boolean(equal(a, b)))
	return nil
}

func bNe(intp *Interpreter) error {
	if err := intp.need(2); err != nil {
		return err
	}
	a := intp.Stack[len(intp.Stack)-2]
	b := intp.Stack[len(intp.Stack)-1]
	intp.drop(2)
	intp.push(Boolean(!equal(a, b)))
	return nil
}

// compare implements gt, ge, lt and le.  The arguments must either both
// be numbers or both be strings.  test receives -1, 0 or +1.
func (intp *Interpreter) compare(test func(c int) bool) error {
	if err := intp.need(2); err != nil {
		return err
	}
	a := intp.Stack[len(intp.Stack)-2]
	b := intp.Stack[len(intp.Stack)-1]

	var c int
	if sa, ok := a.(String); ok {
		sb, ok := b.(String)
		if !ok {
			return intp.e(TypeMismatch, "mismatched argument types")
		}
		c = bytes.Compare(sa.Data, sb.Data)
	} else {
		x, ok1 := toFloat(a)
		y, ok2 := toFloat(b)
		if !ok1 || !ok2 {
			return intp.e(TypeMismatch, "arguments must be numbers or strings")
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	}
	intp.drop(2)
	intp.push(Boolean(test(c)))
	return nil
}

func bGt(intp *Interpreter) error {
	return intp.compare(func(c int) bool { return c > 0 })
}

func bGe(intp *Interpreter) error {
	return intp.compare(func(c int) bool { return c >= 0 })
}

func bLt(intp *Interpreter) error {
	return intp.compare(func(c int) bool { return c < 0 })
}

func bLe(intp *Interpreter) error {
	return intp.compare(func(c int) bool { return c <= 0 })
}
